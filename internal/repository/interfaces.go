// Package repository defines repository interfaces for data access.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/category"
	"github.com/sellbridge/sellbridge-api/internal/models"
)

// ErrManualMappingExists is returned when an automatic cache write targets a
// triple that already has a manual mapping. Manual always wins. It is the
// resolver's sentinel so errors.Is matches across packages.
var ErrManualMappingExists = category.ErrManualMappingExists

// PricingRuleRepository defines methods for pricing rule data access.
type PricingRuleRepository interface {
	Create(ctx context.Context, rule *models.PricingRule) error
	GetByID(ctx context.Context, id string) (*models.PricingRule, error)
	// ListActive returns active rules ordered by priority, specificity and
	// seed order, ready for the pricing engine.
	ListActive(ctx context.Context) ([]models.PricingRule, error)
	List(ctx context.Context) ([]models.PricingRule, error)
	Update(ctx context.Context, rule *models.PricingRule) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// CategoryMappingRepository defines methods for category mapping data access.
type CategoryMappingRepository interface {
	FindExact(ctx context.Context, supplierID, supplierCategoryCode, marketplaceID string) (*models.CategoryMapping, error)
	// ListTargets returns known marketplace categories for a marketplace,
	// deduplicated by category code.
	ListTargets(ctx context.Context, marketplaceID string) ([]models.CategoryMapping, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]models.CategoryMapping, error)
	// UpsertAutomatic writes a non-manual mapping. Returns
	// ErrManualMappingExists when a manual row already covers the triple.
	UpsertAutomatic(ctx context.Context, m *models.CategoryMapping) error
	// UpsertManual writes an operator mapping, displacing any automatic row.
	UpsertManual(ctx context.Context, m *models.CategoryMapping) error
}

// ModelSpecRepository defines methods for the AI model registry.
type ModelSpecRepository interface {
	Create(ctx context.Context, spec *models.ModelSpec) error
	List(ctx context.Context) ([]models.ModelSpec, error)
	ListEnabled(ctx context.Context) ([]models.ModelSpec, error)
	SetEnabled(ctx context.Context, modelName string, enabled bool) error
}

// UsageRepository defines methods for AI usage data access.
type UsageRepository interface {
	// EnsureState creates the state row for a period if absent and returns it.
	EnsureState(ctx context.Context, period string, monthlyBudget float64) (*models.UsageState, error)
	GetState(ctx context.Context, period string) (*models.UsageState, error)
	// AddUsage atomically increments the period spend counter.
	AddUsage(ctx context.Context, period string, costUSD float64) error
	InsertRecord(ctx context.Context, rec *models.UsageRecord) error
	ListRecords(ctx context.Context, period string, limit int) ([]models.UsageRecord, error)
	// SummaryByModel aggregates calls, tokens and cost per model for a period.
	SummaryByModel(ctx context.Context, period string) ([]ModelUsageSummary, error)
}

// ModelUsageSummary is aggregated per-model usage for one period.
type ModelUsageSummary struct {
	ModelName   string  `json:"model_name"`
	Calls       int     `json:"calls"`
	TotalTokens int     `json:"total_tokens"`
	TotalCost   float64 `json:"total_cost_usd"`
}

// ProductRepository defines methods for product data access.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByStatus(ctx context.Context, status models.ProductStatus, limit, offset int) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	// ClaimPending atomically claims the oldest pending product for the
	// listing worker. Returns (nil, nil) when the queue is empty.
	ClaimPending(ctx context.Context) (*models.Product, error)
	// Release returns a claimed product to the pending queue after a
	// transient pipeline failure.
	Release(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.ProductStatus]int, error)
}

// AuditRepository defines methods for listing audit data access.
type AuditRepository interface {
	Create(ctx context.Context, a *models.ListingAudit) error
	GetByProductID(ctx context.Context, productID string) ([]models.ListingAudit, error)
}

// SupplierRepository defines methods for supplier data access.
type SupplierRepository interface {
	Create(ctx context.Context, s *models.Supplier) error
	GetByID(ctx context.Context, id string) (*models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
}

// APIKeyRepository defines methods for API key data access.
type APIKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetByKeyHash(ctx context.Context, hash string) (*models.APIKey, error)
	List(ctx context.Context) ([]models.APIKey, error)
	UpdateLastUsed(ctx context.Context, id string, lastUsed time.Time) error
	Revoke(ctx context.Context, id string) error
}

// ReviewQueueRepository defines methods for the manual category review queue.
type ReviewQueueRepository interface {
	// Enqueue adds a product to the queue; re-enqueueing the same product is
	// a no-op.
	Enqueue(ctx context.Context, item *models.ReviewItem) error
	ListOpen(ctx context.Context, limit int) ([]models.ReviewItem, error)
	Resolve(ctx context.Context, id string) error
}

// Repositories aggregates all repository implementations.
type Repositories struct {
	PricingRules     PricingRuleRepository
	CategoryMappings CategoryMappingRepository
	ModelSpecs       ModelSpecRepository
	Usage            UsageRepository
	Products         ProductRepository
	Audits           AuditRepository
	Suppliers        SupplierRepository
	APIKeys          APIKeyRepository
	ReviewQueue      ReviewQueueRepository
}

// NewRepositories creates all SQLite repositories over one connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		PricingRules:     NewSQLitePricingRuleRepository(db),
		CategoryMappings: NewSQLiteCategoryMappingRepository(db),
		ModelSpecs:       NewSQLiteModelSpecRepository(db),
		Usage:            NewSQLiteUsageRepository(db),
		Products:         NewSQLiteProductRepository(db),
		Audits:           NewSQLiteAuditRepository(db),
		Suppliers:        NewSQLiteSupplierRepository(db),
		APIKeys:          NewSQLiteAPIKeyRepository(db),
		ReviewQueue:      NewSQLiteReviewQueueRepository(db),
	}
}
