package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sellbridge/sellbridge-api/internal/config"
	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/pricing"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// RuleService manages pricing rules and builds pricing engines from the
// active rule set.
type RuleService struct {
	repos  *repository.Repositories
	logger *slog.Logger
}

// NewRuleService creates a new rule service.
func NewRuleService(repos *repository.Repositories, logger *slog.Logger) *RuleService {
	return &RuleService{repos: repos, logger: logger}
}

// Engine returns a pricing engine over the current active rules with any
// S3 overrides applied.
func (s *RuleService) Engine(ctx context.Context) (*pricing.Engine, error) {
	rules, err := s.repos.PricingRules.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active pricing rules: %w", err)
	}
	for i := range rules {
		applyRuleOverride(ctx, &rules[i])
	}
	// Overrides can deactivate rules; drop those before the engine sees them
	active := rules[:0]
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return pricing.NewEngine(active), nil
}

// applyRuleOverride folds an operator override from S3 into a loaded rule.
func applyRuleOverride(ctx context.Context, rule *models.PricingRule) {
	o := config.GetRuleOverrideWithS3(ctx, rule.ID)
	if o == nil {
		return
	}
	if o.Enabled != nil {
		rule.IsActive = *o.Enabled
	}
	if o.Priority != nil {
		rule.Priority = *o.Priority
	}
	if o.MarginRate != nil {
		rule.MarginRate = *o.MarginRate
	}
	if o.MinMarginAmount != nil {
		rule.MinMarginAmount = int64(*o.MinMarginAmount)
	}
	if o.FixedMargin != nil {
		rule.FixedMargin = int64(*o.FixedMargin)
	}
	if o.RoundTo != nil {
		rule.RoundTo = *o.RoundTo
	}
	if o.PriceEnding != nil {
		rule.PriceEnding = o.PriceEnding
	}
}

// List returns all rules, active or not.
func (s *RuleService) List(ctx context.Context) ([]models.PricingRule, error) {
	return s.repos.PricingRules.List(ctx)
}

// Get returns one rule, or nil when it does not exist.
func (s *RuleService) Get(ctx context.Context, id string) (*models.PricingRule, error) {
	return s.repos.PricingRules.GetByID(ctx, id)
}

// Create validates and stores a new rule.
func (s *RuleService) Create(ctx context.Context, rule *models.PricingRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	now := time.Now().UTC()
	if rule.ID == "" {
		rule.ID = ulid.Make().String()
	}
	if rule.SeedOrder == 0 {
		// Admin-created rules slot after all seeds; ULID time-ordering keeps
		// creation order as the tie-break.
		rule.SeedOrder = int(now.Unix())
	}
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if err := s.repos.PricingRules.Create(ctx, rule); err != nil {
		return fmt.Errorf("create pricing rule: %w", err)
	}
	s.logger.Info("pricing rule created", "rule_id", rule.ID, "name", rule.Name, "priority", rule.Priority)
	return nil
}

// Update validates and stores changes to an existing rule.
func (s *RuleService) Update(ctx context.Context, rule *models.PricingRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if err := s.repos.PricingRules.Update(ctx, rule); err != nil {
		return fmt.Errorf("update pricing rule: %w", err)
	}
	s.logger.Info("pricing rule updated", "rule_id", rule.ID)
	return nil
}

// SetActive toggles a rule's active gate.
func (s *RuleService) SetActive(ctx context.Context, id string, active bool) error {
	return s.repos.PricingRules.SetActive(ctx, id, active)
}

// Delete removes a rule permanently.
func (s *RuleService) Delete(ctx context.Context, id string) error {
	return s.repos.PricingRules.Delete(ctx, id)
}

// Quote prices a batch of hypothetical products without persisting anything.
func (s *RuleService) Quote(ctx context.Context, products []models.Product) ([]QuoteResult, error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]QuoteResult, 0, len(products))
	for i := range products {
		q, err := engine.CalculatePrice(&products[i])
		if err != nil {
			results = append(results, QuoteResult{Error: err.Error()})
			continue
		}
		results = append(results, QuoteResult{Quote: q})
	}
	return results, nil
}

// QuoteResult is one entry of a batch quote; exactly one field is set.
type QuoteResult struct {
	Quote *pricing.Quote `json:"quote,omitempty"`
	Error string         `json:"error,omitempty"`
}

// validateRule rejects configurations the engine would fail on at pricing
// time, so bad rules never reach the database.
func validateRule(rule *models.PricingRule) error {
	switch rule.Method {
	case models.MethodMarginRate, models.MethodFixedMargin, models.MethodCompetitive:
	default:
		return fmt.Errorf("unknown pricing method %q", rule.Method)
	}
	effRate := rule.MarginRate + rule.AdditionalCosts.PlatformFeeRate + rule.AdditionalCosts.PaymentFeeRate
	if rule.Method != models.MethodFixedMargin && effRate >= 1 {
		return fmt.Errorf("%w: effective rate %.4f", pricing.ErrMarginConfiguration, effRate)
	}
	if rule.MarginRate < 0 || rule.AdditionalCosts.PlatformFeeRate < 0 || rule.AdditionalCosts.PaymentFeeRate < 0 {
		return fmt.Errorf("%w: negative rate", pricing.ErrMarginConfiguration)
	}
	if rule.RoundTo <= 0 {
		return fmt.Errorf("%w: round_to must be positive", pricing.ErrMarginConfiguration)
	}
	return nil
}
