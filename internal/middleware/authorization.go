package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireVerifiedEmail rejects callers whose provider has not confirmed
// their email address. It must run after AuthMiddleware.
func RequireVerifiedEmail(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := GetIdentity(r.Context())
			if !ok {
				logger.Warn("Identity not found in context")
				RespondWithError(w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			if !caller.EmailVerified {
				logger.Debug("Caller email not verified", zap.String("uid", caller.UID))
				RespondWithError(w, http.StatusForbidden, "email not verified")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
