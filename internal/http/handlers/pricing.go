package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/pricing"
	"github.com/sellbridge/sellbridge-api/internal/service"
)

// PricingHandler handles quote and pricing rule endpoints.
type PricingHandler struct {
	rules *service.RuleService
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(rules *service.RuleService) *PricingHandler {
	return &PricingHandler{rules: rules}
}

// QuoteItem is one hypothetical product in a batch quote request.
type QuoteItem struct {
	ProductID    string `json:"product_id,omitempty" doc:"Optional caller reference echoed back"`
	SupplierID   string `json:"supplier_id,omitempty" doc:"Supplier ID for rule conditions"`
	CategoryCode string `json:"category_code,omitempty" doc:"Supplier category code for rule conditions"`
	Cost         int64  `json:"cost" doc:"Supplier cost in won"`
	TargetPrice  *int64 `json:"target_price,omitempty" doc:"Competitor target price in won"`
}

// QuoteInput represents a batch quote request.
type QuoteInput struct {
	Body struct {
		Products []QuoteItem `json:"products" minItems:"1" maxItems:"500" doc:"Products to price"`
	}
}

// QuoteOutput represents a batch quote response.
type QuoteOutput struct {
	Body struct {
		Results []service.QuoteResult `json:"results" doc:"One entry per input product, in order"`
	}
}

// Quote prices a batch of products against the active rules without
// persisting anything.
func (h *PricingHandler) Quote(ctx context.Context, input *QuoteInput) (*QuoteOutput, error) {
	products := make([]models.Product, 0, len(input.Body.Products))
	for _, item := range input.Body.Products {
		products = append(products, models.Product{
			ID:           item.ProductID,
			SupplierID:   item.SupplierID,
			CategoryCode: item.CategoryCode,
			Cost:         item.Cost,
			TargetPrice:  item.TargetPrice,
		})
	}

	results, err := h.rules.Quote(ctx, products)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to compute quotes")
	}
	out := &QuoteOutput{}
	out.Body.Results = results
	return out, nil
}

// ListRulesOutput represents the rule listing response.
type ListRulesOutput struct {
	Body struct {
		Rules []models.PricingRule `json:"rules"`
	}
}

// ListRules returns every pricing rule, active or not.
func (h *PricingHandler) ListRules(ctx context.Context, input *struct{}) (*ListRulesOutput, error) {
	rules, err := h.rules.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list rules")
	}
	out := &ListRulesOutput{}
	out.Body.Rules = rules
	return out, nil
}

// GetRuleInput represents a rule lookup request.
type GetRuleInput struct {
	ID string `path:"id" doc:"Rule ID"`
}

// GetRuleOutput represents a rule lookup response.
type GetRuleOutput struct {
	Body models.PricingRule
}

// GetRule returns one rule by ID.
func (h *PricingHandler) GetRule(ctx context.Context, input *GetRuleInput) (*GetRuleOutput, error) {
	rule, err := h.rules.Get(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load rule")
	}
	if rule == nil {
		return nil, huma.Error404NotFound("rule not found")
	}
	return &GetRuleOutput{Body: *rule}, nil
}

// RuleBody is the writable part of a pricing rule.
type RuleBody struct {
	Name            string                 `json:"name" minLength:"1" doc:"Rule display name"`
	Priority        int                    `json:"priority" doc:"Higher priority rules are evaluated first"`
	Conditions      models.RuleConditions  `json:"conditions" doc:"Product conditions, empty matches everything"`
	Method          models.PricingMethod   `json:"pricing_method" enum:"margin_rate,fixed_margin,competitive"`
	MarginRate      float64                `json:"margin_rate,omitempty" doc:"Margin as a fraction of sale price"`
	FixedMargin     int64                  `json:"fixed_margin,omitempty" doc:"Fixed margin in won"`
	MinMarginAmount int64                  `json:"min_margin_amount,omitempty" doc:"Absolute margin floor in won"`
	AdditionalCosts models.AdditionalCosts `json:"additional_costs"`
	RoundTo         int64                  `json:"round_to" doc:"Rounding unit in won, always rounds up"`
	PriceEnding     *int64                 `json:"price_ending,omitempty" doc:"Digit pattern replacing the last digits"`
	IsActive        bool                   `json:"is_active"`
}

func (b *RuleBody) apply(rule *models.PricingRule) {
	rule.Name = b.Name
	rule.Priority = b.Priority
	rule.Conditions = b.Conditions
	rule.Method = b.Method
	rule.MarginRate = b.MarginRate
	rule.FixedMargin = b.FixedMargin
	rule.MinMarginAmount = b.MinMarginAmount
	rule.AdditionalCosts = b.AdditionalCosts
	rule.RoundTo = b.RoundTo
	rule.PriceEnding = b.PriceEnding
	rule.IsActive = b.IsActive
}

// CreateRuleInput represents a rule creation request.
type CreateRuleInput struct {
	Body RuleBody
}

// CreateRuleOutput represents a rule creation response.
type CreateRuleOutput struct {
	Status int
	Body   models.PricingRule
}

// CreateRule validates and stores a new pricing rule.
func (h *PricingHandler) CreateRule(ctx context.Context, input *CreateRuleInput) (*CreateRuleOutput, error) {
	rule := &models.PricingRule{}
	input.Body.apply(rule)
	if err := h.rules.Create(ctx, rule); err != nil {
		if errors.Is(err, pricing.ErrMarginConfiguration) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &CreateRuleOutput{Status: 201, Body: *rule}, nil
}

// UpdateRuleInput represents a rule update request.
type UpdateRuleInput struct {
	ID   string `path:"id" doc:"Rule ID"`
	Body RuleBody
}

// UpdateRuleOutput represents a rule update response.
type UpdateRuleOutput struct {
	Body models.PricingRule
}

// UpdateRule validates and stores changes to an existing rule.
func (h *PricingHandler) UpdateRule(ctx context.Context, input *UpdateRuleInput) (*UpdateRuleOutput, error) {
	rule, err := h.rules.Get(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load rule")
	}
	if rule == nil {
		return nil, huma.Error404NotFound("rule not found")
	}

	input.Body.apply(rule)
	if err := h.rules.Update(ctx, rule); err != nil {
		if errors.Is(err, pricing.ErrMarginConfiguration) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &UpdateRuleOutput{Body: *rule}, nil
}

// SetRuleActiveInput represents an activation toggle request.
type SetRuleActiveInput struct {
	ID   string `path:"id" doc:"Rule ID"`
	Body struct {
		IsActive bool `json:"is_active"`
	}
}

// SetRuleActiveOutput represents an activation toggle response.
type SetRuleActiveOutput struct {
	Body struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
	}
}

// SetRuleActive toggles a rule's active gate without touching its settings.
func (h *PricingHandler) SetRuleActive(ctx context.Context, input *SetRuleActiveInput) (*SetRuleActiveOutput, error) {
	if err := h.rules.SetActive(ctx, input.ID, input.Body.IsActive); err != nil {
		return nil, huma.Error500InternalServerError("failed to update rule")
	}
	out := &SetRuleActiveOutput{}
	out.Body.ID = input.ID
	out.Body.IsActive = input.Body.IsActive
	return out, nil
}

// DeleteRuleInput represents a rule deletion request.
type DeleteRuleInput struct {
	ID string `path:"id" doc:"Rule ID"`
}

// DeleteRuleOutput represents a rule deletion response.
type DeleteRuleOutput struct {
	Status int
}

// DeleteRule removes a rule permanently.
func (h *PricingHandler) DeleteRule(ctx context.Context, input *DeleteRuleInput) (*DeleteRuleOutput, error) {
	if err := h.rules.Delete(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete rule")
	}
	return &DeleteRuleOutput{Status: 204}, nil
}
