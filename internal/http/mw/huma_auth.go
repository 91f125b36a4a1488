package mw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// HumaAuthConfig holds dependencies for the Huma auth middleware.
type HumaAuthConfig struct {
	Keys  KeyAuthenticator
	Admin *AdminVerifier
}

// SecurityScheme is the name of the security scheme used in OpenAPI.
const SecurityScheme = "bearerAuth"

// OperationMetadataKey is the key for storing additional operation requirements.
type OperationMetadataKey string

// MetaKeyRequireAdmin is metadata key for the admin requirement.
const MetaKeyRequireAdmin OperationMetadataKey = "requireAdmin"

// APIKeyPrefix marks tokens that are API keys rather than admin JWTs.
const apiKeyPrefix = "sb_"

// HumaAuth returns a Huma middleware that handles authentication based on
// operation security. API keys (sb_ prefix) authenticate the ingest and read
// surface; admin JWTs additionally unlock operations flagged WithAdmin.
func HumaAuth(api huma.API, cfg HumaAuthConfig) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op == nil || !operationRequiresAuth(op) {
			next(ctx)
			return
		}

		authHeader := ctx.Header("Authorization")
		if authHeader == "" {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing authorization header")
			return
		}
		token := extractBearer(authHeader)

		var claims *AuthClaims
		var err error

		stdCtx := ctx.Context()
		if strings.HasPrefix(token, apiKeyPrefix) {
			claims, err = validateAPIKey(stdCtx, cfg.Keys, token)
		} else {
			claims, err = validateAdminToken(cfg.Admin, token)
		}
		if err != nil {
			slog.Debug("auth validation failed", "error", err)
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		if requiresAdmin(op) && !claims.IsAdmin {
			huma.WriteErr(api, ctx, http.StatusForbidden, "admin access required")
			return
		}

		next(huma.WithContext(ctx, context.WithValue(stdCtx, AuthClaimsKey, claims)))
	}
}

// operationRequiresAuth checks if the operation has bearerAuth in its security requirements.
func operationRequiresAuth(op *huma.Operation) bool {
	for _, secReq := range op.Security {
		if _, ok := secReq[SecurityScheme]; ok {
			return true
		}
	}
	return false
}

// requiresAdmin checks operation metadata for the admin requirement.
func requiresAdmin(op *huma.Operation) bool {
	if op.Metadata == nil {
		return false
	}
	if val, ok := op.Metadata[string(MetaKeyRequireAdmin)]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
