// Package routes provides shared route registration for the sellbridge API.
// This allows both the main server and the OpenAPI generator to use the same
// route definitions, ensuring the spec is always in sync.
package routes

import (
	"context"

	"github.com/sellbridge/sellbridge-api/internal/http/handlers"
)

// ProductHandlers defines the interface for product pipeline operations.
type ProductHandlers interface {
	SubmitProduct(ctx context.Context, input *handlers.SubmitProductInput) (*handlers.SubmitProductOutput, error)
	GetProduct(ctx context.Context, input *handlers.GetProductInput) (*handlers.GetProductOutput, error)
	ListProducts(ctx context.Context, input *handlers.ListProductsInput) (*handlers.ListProductsOutput, error)
	GetProductAudits(ctx context.Context, input *handlers.GetProductAuditsInput) (*handlers.GetProductAuditsOutput, error)
	GetPipelineStats(ctx context.Context, input *struct{}) (*handlers.PipelineStatsOutput, error)
}

// PricingHandlers defines the interface for quote and rule operations.
type PricingHandlers interface {
	Quote(ctx context.Context, input *handlers.QuoteInput) (*handlers.QuoteOutput, error)
	ListRules(ctx context.Context, input *struct{}) (*handlers.ListRulesOutput, error)
	GetRule(ctx context.Context, input *handlers.GetRuleInput) (*handlers.GetRuleOutput, error)
	CreateRule(ctx context.Context, input *handlers.CreateRuleInput) (*handlers.CreateRuleOutput, error)
	UpdateRule(ctx context.Context, input *handlers.UpdateRuleInput) (*handlers.UpdateRuleOutput, error)
	SetRuleActive(ctx context.Context, input *handlers.SetRuleActiveInput) (*handlers.SetRuleActiveOutput, error)
	DeleteRule(ctx context.Context, input *handlers.DeleteRuleInput) (*handlers.DeleteRuleOutput, error)
}

// CategoryHandlers defines the interface for category operations.
type CategoryHandlers interface {
	ResolveCategory(ctx context.Context, input *handlers.ResolveCategoryInput) (*handlers.ResolveCategoryOutput, error)
	ListMappings(ctx context.Context, input *handlers.ListMappingsInput) (*handlers.ListMappingsOutput, error)
	UpsertManualMapping(ctx context.Context, input *handlers.UpsertManualMappingInput) (*handlers.UpsertManualMappingOutput, error)
	ListReviewQueue(ctx context.Context, input *handlers.ListReviewQueueInput) (*handlers.ListReviewQueueOutput, error)
	ResolveReviewItem(ctx context.Context, input *handlers.ResolveReviewItemInput) (*handlers.ResolveReviewItemOutput, error)
}

// AIHandlers defines the interface for model routing operations.
type AIHandlers interface {
	SelectModel(ctx context.Context, input *handlers.SelectModelInput) (*handlers.SelectModelOutput, error)
	RecordUsage(ctx context.Context, input *handlers.RecordUsageInput) (*handlers.RecordUsageOutput, error)
	GetUsage(ctx context.Context, input *handlers.GetUsageInput) (*handlers.GetUsageOutput, error)
}

// APIKeyHandlers defines the interface for API key operations.
type APIKeyHandlers interface {
	ListKeys(ctx context.Context, input *struct{}) (*handlers.ListKeysOutput, error)
	CreateKey(ctx context.Context, input *handlers.CreateKeyInput) (*handlers.CreateKeyOutput, error)
	RevokeKey(ctx context.Context, input *handlers.RevokeKeyInput) (*handlers.RevokeKeyOutput, error)
}

// SupplierHandlers defines the interface for supplier operations.
type SupplierHandlers interface {
	RegisterSupplier(ctx context.Context, input *handlers.RegisterSupplierInput) (*handlers.RegisterSupplierOutput, error)
	ListSuppliers(ctx context.Context, input *struct{}) (*handlers.ListSuppliersOutput, error)
}

// Handlers aggregates all handler interfaces for route registration.
// For the main server, pass real handler implementations.
// For OpenAPI generation, pass stub implementations.
type Handlers struct {
	// Public endpoints
	HealthCheck func(ctx context.Context, input *struct{}) (*handlers.HealthCheckOutput, error)

	// Kubernetes probes (hidden from docs)
	Livez  func(ctx context.Context, input *struct{}) (*handlers.LivezOutput, error)
	Readyz func(ctx context.Context, input *struct{}) (*handlers.ReadyzOutput, error)

	// Protected endpoint handlers
	Product  ProductHandlers
	Pricing  PricingHandlers
	Category CategoryHandlers
	AI       AIHandlers
	APIKey   APIKeyHandlers
	Supplier SupplierHandlers

	// AdminEnabled gates the admin surface (rule writes, mappings, keys,
	// suppliers). Disabled deployments only expose the pipeline surface.
	AdminEnabled bool
}
