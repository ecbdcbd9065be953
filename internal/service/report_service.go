package service

import (
	"context"

	"buymesho/internal/domain"
	"buymesho/internal/repository"

	"go.uber.org/zap"
)

// ReportInput is an anonymous moderation report.
type ReportInput struct {
	ListingID int64  `json:"listing_id" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required,max=2000"`
}

type ReportService interface {
	Submit(ctx context.Context, in ReportInput) (*domain.Report, error)
}

type reportService struct {
	reports repository.ReportRepository
	logger  *zap.Logger
}

func NewReportService(reports repository.ReportRepository, logger *zap.Logger) ReportService {
	return &reportService{reports: reports, logger: logger}
}

// Submit stores the report. An unknown listing surfaces as
// repository.ErrListingNotFound.
func (s *reportService) Submit(ctx context.Context, in ReportInput) (*domain.Report, error) {
	report := &domain.Report{ListingID: in.ListingID, Reason: in.Reason}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Report submitted", zap.Int64("report_id", report.ID), zap.Int64("listing_id", in.ListingID))
	return report, nil
}
