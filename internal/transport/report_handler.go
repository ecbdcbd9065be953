package transport

import (
	"errors"
	"net/http"

	"buymesho/internal/middleware"
	"buymesho/internal/repository"
	"buymesho/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// RegisterRoutes mounts the anonymous report intake behind limit.
func (h *ReportHandler) RegisterRoutes(r chi.Router, limit Middleware) {
	r.With(orPassthrough(limit)).Post("/reports", h.Submit)
}

func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in service.ReportInput
	if err := middleware.DecodeAndValidate(r, &in); err != nil {
		h.logger.Debug("Report validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	if _, err := h.reports.Submit(r.Context(), in); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, msgListingNotFound)
			return
		}
		h.logger.Error("Report submission failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to submit report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, successResponse{Success: true})
}
