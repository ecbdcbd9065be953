package middleware

import (
	"context"
	"net/http"
	"strings"

	"buymesho/internal/identity"

	"go.uber.org/zap"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

const (
	msgMissingToken = "Missing Authorization Bearer token"
	msgInvalidToken = "Invalid or expired token"
)

// AuthMiddleware verifies the bearer credential and stores the caller's
// Identity in the request context. Nothing downstream trusts any other
// source for the subject id.
func AuthMiddleware(verifier identity.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Debug("Missing or malformed authorization header")
				RespondWithError(w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			caller, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			logger.Debug("User authenticated", zap.String("uid", caller.UID))

			ctx := context.WithValue(r.Context(), IdentityKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetIdentity extracts the verified caller from request context
func GetIdentity(ctx context.Context) (*identity.Identity, bool) {
	caller, ok := ctx.Value(IdentityKey).(*identity.Identity)
	return caller, ok && caller != nil
}

// GetUserID extracts the verified subject id from request context
func GetUserID(ctx context.Context) (string, bool) {
	caller, ok := GetIdentity(ctx)
	if !ok {
		return "", false
	}
	return caller.UID, true
}

// WithIdentity returns a copy of ctx carrying caller.
func WithIdentity(ctx context.Context, caller *identity.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, caller)
}
