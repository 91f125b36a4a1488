package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/http/mw"
	"github.com/sellbridge/sellbridge-api/internal/version"
)

// NewHumaConfig creates the shared Huma configuration for the API.
// This includes API metadata, security schemes, and tag definitions.
func NewHumaConfig(baseURL string) huma.Config {
	cfg := huma.DefaultConfig("SellBridge API", version.Get().Short())
	cfg.Info.Description = "Dropshipping listing automation: pricing rules, category resolution and AI model routing for supplier-to-marketplace product flows."

	// Disable $schema field in responses - it conflicts with "schema" field in SDK code generators
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "API Server"},
		}
	}

	// Add security scheme for Bearer auth
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		mw.SecurityScheme: {
			Type:        "http",
			Scheme:      "bearer",
			Description: "API key authentication. Include your API key in the Authorization header as `Bearer sb_your_key`. Admin operations require an operator JWT instead.",
		},
	}

	// Define OpenAPI tags with display names for documentation
	cfg.Tags = []*huma.Tag{
		{Name: "Products", Description: "Product ingest and listing pipeline state", Extensions: map[string]any{"x-displayName": "Products"}},
		{Name: "Pricing", Description: "Price quotes and pricing rule management", Extensions: map[string]any{"x-displayName": "Pricing"}},
		{Name: "Categories", Description: "Category resolution, mappings and the review queue", Extensions: map[string]any{"x-displayName": "Categories"}},
		{Name: "AI", Description: "AI model routing and budget tracking", Extensions: map[string]any{"x-displayName": "AI"}},
		{Name: "API Keys", Description: "API key management", Extensions: map[string]any{"x-displayName": "API Keys"}},
		{Name: "Suppliers", Description: "Supplier registration", Extensions: map[string]any{"x-displayName": "Suppliers"}},
		{Name: "Health", Description: "System health and status", Extensions: map[string]any{"x-displayName": "Health"}},
	}

	return cfg
}
