package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	keyRefreshInterval  = time.Hour
	keyRefreshRateLimit = time.Minute
)

// FirebaseVerifier checks Firebase ID tokens: RS256 signatures against
// Google's published key set, issuer and audience bound to the project.
//
// Keys are refreshed in the background. A token naming an unknown kid may
// trigger a refresh, at most once per keyRefreshRateLimit.
type FirebaseVerifier struct {
	projectID string
	jwks      *keyfunc.JWKS
}

// NewFirebaseVerifier fetches the key set at jwksURL and starts its refresh
// loop. Call Close to stop it.
func NewFirebaseVerifier(projectID, jwksURL string, timeout time.Duration) (*FirebaseVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Client:            &http.Client{Timeout: timeout},
		RefreshInterval:   keyRefreshInterval,
		RefreshRateLimit:  keyRefreshRateLimit,
		RefreshTimeout:    timeout,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load firebase signing keys: %w", err)
	}

	return &FirebaseVerifier{projectID: projectID, jwks: jwks}, nil
}

func (v *FirebaseVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims.identity()
}

// Close stops the background key refresh.
func (v *FirebaseVerifier) Close() {
	v.jwks.EndBackground()
}
