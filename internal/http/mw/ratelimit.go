package mw

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// KeyRequestsPerMinute limits authenticated API key callers.
	// A value of 0 means unlimited.
	KeyRequestsPerMinute int
	// IPRequestsPerMinute is the fallback limit for unauthenticated requests.
	IPRequestsPerMinute int
}

// DefaultRateLimitConfig returns sensible single-tenant defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		KeyRequestsPerMinute: 600,
		IPRequestsPerMinute:  60,
	}
}

// RateLimitByCaller returns a middleware that rate limits per caller.
// Authenticated requests are keyed by subject when claims are already in the
// context, otherwise by a digest of the bearer token, so the limiter works at
// the router level before token validation runs. Requests without credentials
// fall back to IP-based limiting.
func RateLimitByCaller(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.KeyRequestsPerMinute == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.KeyRequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if claims := GetAuthClaims(r.Context()); claims != nil && claims.Subject != "" {
				return "caller:" + claims.Subject, nil
			}
			if token := extractBearer(r.Header.Get("Authorization")); token != "" {
				sum := sha256.Sum256([]byte(token))
				return "token:" + hex.EncodeToString(sum[:8]), nil
			}
			return httprate.KeyByIP(r)
		}),
	)
}

// RateLimitByIP returns a middleware that rate limits by IP address.
// Useful for public endpoints or as a global fallback.
func RateLimitByIP(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}

// RateLimitGlobal returns a middleware that applies a global rate limit
// to prevent overall system overload. Uses a sliding window.
func RateLimitGlobal(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "global", nil
		}),
	)
}
