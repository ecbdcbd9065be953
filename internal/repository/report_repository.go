package repository

import (
	"context"
	"database/sql"
	"fmt"

	"buymesho/internal/domain"
)

// ReportRepository defines the interface for report data access. Reports are
// append-only; the only removal path is together with their listing.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	DeleteByListingIDs(ctx context.Context, listingIDs []int64) (int64, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts a report. A reference to a missing listing yields ErrListingNotFound.
func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (listing_id, reason)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, report.ListingID, report.Reason).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err, "fk_reports_listing") {
			return ErrListingNotFound
		}
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// DeleteByListingIDs removes every report that references one of listingIDs.
func (r *reportRepository) DeleteByListingIDs(ctx context.Context, listingIDs []int64) (int64, error) {
	if len(listingIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM reports WHERE listing_id IN (` + inPlaceholders(1, len(listingIDs)) + `)`

	result, err := r.db.ExecContext(ctx, query, int64Args(listingIDs)...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
