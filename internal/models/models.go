// Package models defines the domain models for the application.
// Prices and costs are in KRW and stored as integer won; AI spend is in USD.
package models

import (
	"time"
)

// ProductStatus represents the listing state of a product.
type ProductStatus string

const (
	ProductStatusPending      ProductStatus = "pending"       // Collected, waiting for the listing pipeline
	ProductStatusProcessing   ProductStatus = "processing"    // Claimed by a listing worker
	ProductStatusListed       ProductStatus = "listed"        // Category resolved and price computed
	ProductStatusManualReview ProductStatus = "manual_review" // Category unresolved, queued for an operator
	ProductStatusFailed       ProductStatus = "failed"        // Rejected (bad input or configuration error)
)

// Product represents a supplier product moving through the listing pipeline.
type Product struct {
	ID                string        `json:"id"`
	SupplierID        string        `json:"supplier_id"`
	SupplierProductID string        `json:"supplier_product_id"`
	Name              string        `json:"name"`
	Cost              int64         `json:"cost"`         // Supplier cost in won
	ShippingFee       int64         `json:"shipping_fee"` // Passed through, not part of margin math
	CategoryCode      string        `json:"category_code"` // Supplier category code
	CategoryName      string        `json:"category_name"` // Supplier category display name
	MarketplaceID     string        `json:"marketplace_id"`
	TargetPrice       *int64        `json:"target_price,omitempty"` // Competitor-derived target for competitive pricing
	Status            ProductStatus `json:"status"`
	ErrorMessage      string        `json:"error_message,omitempty"`
	ListedAt          *time.Time    `json:"listed_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// PricingMethod determines how a rule computes the sale price.
type PricingMethod string

const (
	MethodMarginRate  PricingMethod = "margin_rate"
	MethodFixedMargin PricingMethod = "fixed_margin"
	MethodCompetitive PricingMethod = "competitive"
)

// RuleConditions restricts which products a pricing rule applies to.
// Every present field must be satisfied; a zero-value set matches everything
// and is how default/fallback rules are expressed.
type RuleConditions struct {
	MinCost       int64    `json:"min_cost,omitempty"` // Inclusive, 0 = unset
	MaxCost       int64    `json:"max_cost,omitempty"` // Inclusive, 0 = unset
	CategoryCodes []string `json:"category_codes,omitempty"`
	SupplierIDs   []string `json:"supplier_ids,omitempty"`
}

// AdditionalCosts are the cost components layered onto every sale.
// Fee rates are expressed against the sale price; flat costs are in won.
type AdditionalCosts struct {
	PlatformFeeRate float64 `json:"platform_fee_rate"`
	PaymentFeeRate  float64 `json:"payment_fee_rate"`
	PackagingCost   int64   `json:"packaging_cost"`
	HandlingCost    int64   `json:"handling_cost"`
}

// PricingRule is an immutable pricing configuration entity.
// Rules are read-only during price computation and only change through
// admin edits or seed data.
type PricingRule struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Priority        int             `json:"priority"` // Higher = evaluated first
	SeedOrder       int             `json:"seed_order"` // Insertion order, final tie-break
	Conditions      RuleConditions  `json:"conditions"`
	Method          PricingMethod   `json:"pricing_method"`
	MarginRate      float64         `json:"margin_rate,omitempty"`       // Fraction of sale price, margin_rate method
	FixedMargin     int64           `json:"fixed_margin,omitempty"`      // Won, fixed_margin method
	MinMarginAmount int64           `json:"min_margin_amount,omitempty"` // Absolute margin floor in won
	AdditionalCosts AdditionalCosts `json:"additional_costs"`
	RoundTo         int64           `json:"round_to"`               // Rounding unit, always rounds up
	PriceEnding     *int64          `json:"price_ending,omitempty"` // Digit pattern replacing the last digits
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ConditionCount returns the number of non-empty condition keys.
// Used for specificity tie-breaking between equal-priority rules.
func (r *PricingRule) ConditionCount() int {
	n := 0
	if r.Conditions.MinCost > 0 {
		n++
	}
	if r.Conditions.MaxCost > 0 {
		n++
	}
	if len(r.Conditions.CategoryCodes) > 0 {
		n++
	}
	if len(r.Conditions.SupplierIDs) > 0 {
		n++
	}
	return n
}

// ResolutionMethod identifies which tier produced a category resolution.
type ResolutionMethod string

const (
	ResolutionExact      ResolutionMethod = "exact"
	ResolutionKeyword    ResolutionMethod = "keyword"
	ResolutionSimilarity ResolutionMethod = "similarity"
)

// CategoryMapping links a supplier category to a marketplace category.
// Manual mappings are authoritative and never superseded by automatic
// resolution.
type CategoryMapping struct {
	ID                      string    `json:"id"`
	SupplierID              string    `json:"supplier_id"`
	SupplierCategoryCode    string    `json:"supplier_category_code"`
	SupplierCategoryName    string    `json:"supplier_category_name"`
	MarketplaceID           string    `json:"marketplace_id"`
	MarketplaceCategoryCode string    `json:"marketplace_category_code"`
	MarketplaceCategoryName string    `json:"marketplace_category_name"`
	Confidence              float64   `json:"confidence"` // [0,1], manual mappings carry 1.0
	IsManual                bool      `json:"is_manual"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// ModelProvider distinguishes free local models from paid cloud models.
type ModelProvider string

const (
	ProviderLocal ModelProvider = "local"
	ProviderCloud ModelProvider = "cloud"
)

// ModelSpec describes one selectable AI execution target.
type ModelSpec struct {
	ID              string        `json:"id"`
	Provider        ModelProvider `json:"provider"`
	ModelName       string        `json:"model_name"`
	SupportsVision  bool          `json:"supports_vision"`
	CostPer1KTokens float64       `json:"cost_per_1k_tokens"` // USD, 0 for local
	MaxTokens       int           `json:"max_tokens"`
	ContextWindow   int           `json:"context_window"`
	IsEnabled       bool          `json:"is_enabled"`
	CreatedAt       time.Time     `json:"created_at"`
}

// IsLocal reports whether the model runs locally at zero marginal cost.
func (m *ModelSpec) IsLocal() bool {
	return m.Provider == ProviderLocal
}

// UsageState is the per-billing-period spend counter for the model router.
// current_usage only grows within a period; rollover creates a fresh row.
type UsageState struct {
	Period        string    `json:"period"` // YYYY-MM
	MonthlyBudget float64   `json:"monthly_budget"`
	CurrentUsage  float64   `json:"current_usage"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Remaining returns the unspent budget, never negative.
func (u *UsageState) Remaining() float64 {
	if u.CurrentUsage >= u.MonthlyBudget {
		return 0
	}
	return u.MonthlyBudget - u.CurrentUsage
}

// Exhausted reports whether the period budget has been consumed.
func (u *UsageState) Exhausted() bool {
	return u.CurrentUsage >= u.MonthlyBudget
}

// UsageRecord is one recorded AI call, for auditing and per-model counters.
type UsageRecord struct {
	ID         string    `json:"id"`
	Period     string    `json:"period"`
	ModelName  string    `json:"model_name"`
	TaskType   string    `json:"task_type"`
	TokensUsed int       `json:"tokens_used"`
	CostUSD    float64   `json:"cost_usd"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListingAudit records the pricing and categorization decision for a product,
// consumed by downstream reporting.
type ListingAudit struct {
	ID                      string           `json:"id"`
	ProductID               string           `json:"product_id"`
	RuleID                  string           `json:"rule_id"`
	FinalPrice              int64            `json:"final_price"`
	MarginAmount            int64            `json:"margin_amount"`
	MarketplaceCategoryCode string           `json:"marketplace_category_code"`
	ResolutionMethod        ResolutionMethod `json:"resolution_method"`
	Confidence              float64          `json:"confidence"`
	CreatedAt               time.Time        `json:"created_at"`
}

// Supplier is a registered product source. The API credential is stored
// encrypted; this service never calls the supplier itself.
type Supplier struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	CredentialEncrypted string    `json:"-"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

// APIKey represents an API key for programmatic access.
type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"key_prefix"` // First 8 chars for display
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// ReviewItem is a category-resolution miss queued for manual mapping.
type ReviewItem struct {
	ID                   string     `json:"id"`
	ProductID            string     `json:"product_id"`
	SupplierID           string     `json:"supplier_id"`
	SupplierCategoryCode string     `json:"supplier_category_code"`
	SupplierCategoryName string     `json:"supplier_category_name"`
	MarketplaceID        string     `json:"marketplace_id"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}
