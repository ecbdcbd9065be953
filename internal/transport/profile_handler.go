package transport

import (
	"net/http"

	"buymesho/internal/middleware"
	"buymesho/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileHandler exposes self-service account deletion.
type ProfileHandler struct {
	accounts service.AccountService
	logger   *zap.Logger
}

func NewProfileHandler(accounts service.AccountService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.With(authMiddleware).Delete("/profile", h.Delete)
}

// Delete tears down the caller's account. Only the caller's own account can
// be targeted.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserID(r.Context())

	summary, err := h.accounts.DeleteAccount(r.Context(), uid)
	if err != nil {
		h.logger.Error("Account deletion failed", zap.String("seller_uid", uid), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}
