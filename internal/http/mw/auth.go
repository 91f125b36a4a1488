// Package mw contains HTTP middleware for the sellbridge-api.
package mw

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// AuthClaimsKey is the context key for authenticated caller claims.
	AuthClaimsKey ContextKey = "auth_claims"
)

// AuthClaims identifies the authenticated caller for the current request.
type AuthClaims struct {
	Subject  string // Key ID for API keys, JWT sub for admin tokens
	Name     string
	IsAdmin  bool // Admin tokens may hit the admin surface
	IsAPIKey bool // True when authenticated via API key
}

// KeyAuthenticator resolves a presented API key to its record.
// Satisfied by service.APIKeyService.
type KeyAuthenticator interface {
	Authenticate(ctx context.Context, plaintext string) (*models.APIKey, error)
}

// AdminClaims are the claims carried by operator-issued admin JWTs.
type AdminClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// AdminVerifier validates HS256 admin tokens signed with the shared secret.
type AdminVerifier struct {
	secret []byte
}

// NewAdminVerifier creates a verifier for the given signing secret.
func NewAdminVerifier(secret string) *AdminVerifier {
	return &AdminVerifier{secret: []byte(secret)}
}

// VerifyToken parses and validates an admin JWT.
func (v *AdminVerifier) VerifyToken(tokenString string) (*AdminClaims, error) {
	if v == nil || len(v.secret) == 0 {
		return nil, ErrInvalidToken
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// MintToken signs an admin JWT for the given subject. Used by operator
// tooling; the API itself never issues tokens.
func (v *AdminVerifier) MintToken(subject, name string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  name,
		Admin: true,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// validateAPIKey resolves an sb_ API key to caller claims.
func validateAPIKey(ctx context.Context, keys KeyAuthenticator, token string) (*AuthClaims, error) {
	if keys == nil {
		return nil, ErrInvalidToken
	}
	key, err := keys.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrInvalidToken
	}
	return &AuthClaims{
		Subject:  key.ID,
		Name:     key.Name,
		IsAPIKey: true,
	}, nil
}

// validateAdminToken resolves an admin JWT to caller claims.
func validateAdminToken(verifier *AdminVerifier, token string) (*AuthClaims, error) {
	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	return &AuthClaims{
		Subject: claims.Subject,
		Name:    claims.Name,
		IsAdmin: claims.Admin,
	}, nil
}

// extractBearer pulls the token out of an Authorization header value.
func extractBearer(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

// GetAuthClaims retrieves caller claims from context.
func GetAuthClaims(ctx context.Context) *AuthClaims {
	claims, ok := ctx.Value(AuthClaimsKey).(*AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
