package transport

import (
	"net/http"

	"buymesho/internal/middleware"
	"buymesho/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type verifyResponse struct {
	Success    bool `json:"success"`
	IsVerified bool `json:"is_verified"`
}

// SellerHandler handles seller profile routes. Every route requires a
// verified credential.
type SellerHandler struct {
	sellers service.SellerService
	logger  *zap.Logger
}

func NewSellerHandler(sellers service.SellerService, logger *zap.Logger) *SellerHandler {
	return &SellerHandler{sellers: sellers, logger: logger}
}

func (h *SellerHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/sellers", h.Upsert)
		r.Get("/sellers/me", h.Me)
		r.With(middleware.RequireVerifiedEmail(h.logger)).Post("/sellers/verify", h.Verify)
	})
}

// Upsert creates or replaces the caller's profile.
func (h *SellerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserID(r.Context())

	var in service.SellerInput
	if err := middleware.DecodeAndValidate(r, &in); err != nil {
		h.logger.Debug("Seller validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	if err := h.sellers.Upsert(r.Context(), uid, in); err != nil {
		respondServiceError(w, h.logger, err, "Failed to sync seller profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *SellerHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserID(r.Context())

	seller, err := h.sellers.Get(r.Context(), uid)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to load seller profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, seller)
}

func (h *SellerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	if err := h.sellers.Verify(r.Context(), caller); err != nil {
		respondServiceError(w, h.logger, err, "Failed to verify seller")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, verifyResponse{Success: true, IsVerified: true})
}
