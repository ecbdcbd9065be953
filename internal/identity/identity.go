// Package identity verifies bearer credentials issued by the external
// identity provider and reduces them to the subject the API acts for.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buymesho/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any credential that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the verified caller.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Verifier turns a raw bearer token into a verified Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims are the ID-token claims both verifiers understand.
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) identity() (*Identity, error) {
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Identity{
		UID:           c.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
	}, nil
}

// New builds the verifier selected by cfg.Provider.
func New(cfg config.AuthConfig) (Verifier, error) {
	switch cfg.Provider {
	case "firebase":
		if cfg.ProjectID == "" {
			return nil, errors.New("FIREBASE_PROJECT_ID is required for the firebase auth provider")
		}
		if cfg.JWKSURL == "" {
			return nil, errors.New("FIREBASE_JWKS_URL is required for the firebase auth provider")
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		v, err := NewFirebaseVerifier(cfg.ProjectID, cfg.JWKSURL, timeout)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "hmac":
		if cfg.Secret == "" {
			return nil, errors.New("AUTH_HMAC_SECRET is required for the hmac auth provider")
		}
		return NewHMACVerifier(cfg.Secret), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}
