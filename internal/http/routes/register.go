package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/http/mw"
)

// Register registers all API routes with the given Huma API instance.
// Pass real handler implementations for the main server, or stub
// implementations for OpenAPI generation.
func Register(api huma.API, h *Handlers) {
	// =========================================================================
	// Public Routes (no auth required)
	// =========================================================================

	// Health check
	mw.PublicGet(api, "/api/v1/health", h.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithOperationID("healthCheck"))

	// Kubernetes probes (hidden from docs - internal use only)
	mw.HiddenGet(api, "/healthz", h.Livez)
	mw.HiddenGet(api, "/readyz", h.Readyz)

	// =========================================================================
	// Protected Routes (require bearer auth)
	// =========================================================================

	// --- Products ---
	mw.ProtectedPost(api, "/api/v1/products", h.Product.SubmitProduct,
		mw.WithTags("Products"),
		mw.WithSummary("Submit product"),
		mw.WithDescription("Accepts a supplier product into the listing pipeline. Processing is asynchronous; poll the product status or audits."),
		mw.WithOperationID("submitProduct"))
	mw.ProtectedGet(api, "/api/v1/products", h.Product.ListProducts,
		mw.WithTags("Products"),
		mw.WithSummary("List products by status"),
		mw.WithOperationID("listProducts"))
	mw.ProtectedGet(api, "/api/v1/products/stats", h.Product.GetPipelineStats,
		mw.WithTags("Products"),
		mw.WithSummary("Pipeline backlog by status"),
		mw.WithOperationID("getPipelineStats"))
	mw.ProtectedGet(api, "/api/v1/products/{id}", h.Product.GetProduct,
		mw.WithTags("Products"),
		mw.WithSummary("Get product"),
		mw.WithOperationID("getProduct"))
	mw.ProtectedGet(api, "/api/v1/products/{id}/audits", h.Product.GetProductAudits,
		mw.WithTags("Products"),
		mw.WithSummary("Get product audit trail"),
		mw.WithOperationID("getProductAudits"))

	// --- Pricing ---
	mw.ProtectedPost(api, "/api/v1/pricing/quote", h.Pricing.Quote,
		mw.WithTags("Pricing"),
		mw.WithSummary("Quote a product batch"),
		mw.WithDescription("Prices up to 500 hypothetical products against the active rules. Nothing is persisted."),
		mw.WithOperationID("quote"))
	mw.ProtectedGet(api, "/api/v1/pricing/rules", h.Pricing.ListRules,
		mw.WithTags("Pricing"),
		mw.WithSummary("List pricing rules"),
		mw.WithOperationID("listRules"))
	mw.ProtectedGet(api, "/api/v1/pricing/rules/{id}", h.Pricing.GetRule,
		mw.WithTags("Pricing"),
		mw.WithSummary("Get pricing rule"),
		mw.WithOperationID("getRule"))

	// --- Categories ---
	mw.ProtectedPost(api, "/api/v1/categories/resolve", h.Category.ResolveCategory,
		mw.WithTags("Categories"),
		mw.WithSummary("Resolve category"),
		mw.WithOperationID("resolveCategory"))
	mw.ProtectedGet(api, "/api/v1/categories/mappings/{supplierID}", h.Category.ListMappings,
		mw.WithTags("Categories"),
		mw.WithSummary("List supplier mappings"),
		mw.WithOperationID("listMappings"))

	// --- AI ---
	mw.ProtectedPost(api, "/api/v1/ai/select", h.AI.SelectModel,
		mw.WithTags("AI"),
		mw.WithSummary("Select AI model"),
		mw.WithDescription("Routes a task to a local or cloud model under the monthly budget. Selection is read-only; report spend via recordUsage."),
		mw.WithOperationID("selectModel"))
	mw.ProtectedPost(api, "/api/v1/ai/usage", h.AI.RecordUsage,
		mw.WithTags("AI"),
		mw.WithSummary("Record AI usage"),
		mw.WithOperationID("recordUsage"))
	mw.ProtectedGet(api, "/api/v1/ai/usage", h.AI.GetUsage,
		mw.WithTags("AI"),
		mw.WithSummary("Get AI usage report"),
		mw.WithOperationID("getUsage"))

	if !h.AdminEnabled {
		return
	}

	// =========================================================================
	// Admin Routes (require an operator JWT)
	// =========================================================================

	mw.ProtectedPost(api, "/api/v1/pricing/rules", h.Pricing.CreateRule,
		mw.WithTags("Pricing"),
		mw.WithSummary("Create pricing rule"),
		mw.WithOperationID("createRule"),
		mw.WithAdmin())
	mw.ProtectedPut(api, "/api/v1/pricing/rules/{id}", h.Pricing.UpdateRule,
		mw.WithTags("Pricing"),
		mw.WithSummary("Update pricing rule"),
		mw.WithOperationID("updateRule"),
		mw.WithAdmin())
	mw.ProtectedPut(api, "/api/v1/pricing/rules/{id}/active", h.Pricing.SetRuleActive,
		mw.WithTags("Pricing"),
		mw.WithSummary("Activate or deactivate rule"),
		mw.WithOperationID("setRuleActive"),
		mw.WithAdmin())
	mw.ProtectedDelete(api, "/api/v1/pricing/rules/{id}", h.Pricing.DeleteRule,
		mw.WithTags("Pricing"),
		mw.WithSummary("Delete pricing rule"),
		mw.WithOperationID("deleteRule"),
		mw.WithAdmin())

	mw.ProtectedPut(api, "/api/v1/categories/mappings", h.Category.UpsertManualMapping,
		mw.WithTags("Categories"),
		mw.WithSummary("Upsert manual mapping"),
		mw.WithOperationID("upsertManualMapping"),
		mw.WithAdmin())
	mw.ProtectedGet(api, "/api/v1/categories/review", h.Category.ListReviewQueue,
		mw.WithTags("Categories"),
		mw.WithSummary("List review queue"),
		mw.WithOperationID("listReviewQueue"),
		mw.WithAdmin())
	mw.ProtectedPost(api, "/api/v1/categories/review/{id}/resolve", h.Category.ResolveReviewItem,
		mw.WithTags("Categories"),
		mw.WithSummary("Resolve review item"),
		mw.WithOperationID("resolveReviewItem"),
		mw.WithAdmin())

	mw.ProtectedGet(api, "/api/v1/keys", h.APIKey.ListKeys,
		mw.WithTags("API Keys"),
		mw.WithSummary("List API keys"),
		mw.WithOperationID("listApiKeys"),
		mw.WithAdmin())
	mw.ProtectedPost(api, "/api/v1/keys", h.APIKey.CreateKey,
		mw.WithTags("API Keys"),
		mw.WithSummary("Create API key"),
		mw.WithOperationID("createApiKey"),
		mw.WithAdmin())
	mw.ProtectedDelete(api, "/api/v1/keys/{id}", h.APIKey.RevokeKey,
		mw.WithTags("API Keys"),
		mw.WithSummary("Revoke API key"),
		mw.WithOperationID("revokeApiKey"),
		mw.WithAdmin())

	mw.ProtectedPost(api, "/api/v1/suppliers", h.Supplier.RegisterSupplier,
		mw.WithTags("Suppliers"),
		mw.WithSummary("Register supplier"),
		mw.WithOperationID("registerSupplier"),
		mw.WithAdmin())
	mw.ProtectedGet(api, "/api/v1/suppliers", h.Supplier.ListSuppliers,
		mw.WithTags("Suppliers"),
		mw.WithSummary("List suppliers"),
		mw.WithOperationID("listSuppliers"),
		mw.WithAdmin())
}
