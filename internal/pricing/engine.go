package pricing

import (
	"fmt"
	"math"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// Quote is the result of one price computation, carrying the winning rule
// for audit trails.
type Quote struct {
	ProductID    string               `json:"product_id"`
	Cost         int64                `json:"cost"`
	RawPrice     float64              `json:"raw_price"` // Pre-rounding computed price
	FinalPrice   int64                `json:"final_price"`
	MarginAmount int64                `json:"margin_amount"`
	RuleID       string               `json:"rule_id"`
	RuleName     string               `json:"rule_name"`
	Method       models.PricingMethod `json:"pricing_method"`
}

// Engine computes sale prices from an immutable rule snapshot.
// It never mutates the rules and performs no I/O, so a single Engine is safe
// for concurrent use across any number of goroutines.
type Engine struct {
	rules []models.PricingRule
}

// NewEngine builds an engine over a snapshot of pricing rules.
// The slice is not copied; callers must not mutate it afterwards.
func NewEngine(rules []models.PricingRule) *Engine {
	return &Engine{rules: rules}
}

// CalculatePrice selects the winning rule for the product and computes the
// final sale price.
//
// Winner selection: highest priority first, then the rule with more non-empty
// condition keys, then the earliest seeded rule. The computation then applies
// the rule's method, the margin floor, upward rounding, and the optional
// price ending.
func (e *Engine) CalculatePrice(p *models.Product) (*Quote, error) {
	if p.Cost <= 0 {
		return nil, fmt.Errorf("%w: product %s has cost %d", ErrInvalidCost, p.ID, p.Cost)
	}

	rule := e.selectRule(p)
	if rule == nil {
		return nil, fmt.Errorf("%w: product %s (cost=%d category=%s supplier=%s)",
			ErrNoMatchingRule, p.ID, p.Cost, p.CategoryCode, p.SupplierID)
	}

	raw, err := computeBase(rule, p)
	if err != nil {
		return nil, err
	}

	// Margin floor: the absolute margin never drops below the configured
	// minimum, whatever the method produced.
	if raw-float64(p.Cost) < float64(rule.MinMarginAmount) {
		raw = float64(p.Cost + rule.MinMarginAmount)
	}

	final := roundUp(raw, rule.RoundTo)
	if rule.PriceEnding != nil {
		final = applyEnding(final, *rule.PriceEnding)
	}

	return &Quote{
		ProductID:    p.ID,
		Cost:         p.Cost,
		RawPrice:     raw,
		FinalPrice:   final,
		MarginAmount: final - p.Cost,
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		Method:       rule.Method,
	}, nil
}

// selectRule returns the winning active rule for the product, or nil.
func (e *Engine) selectRule(p *models.Product) *models.PricingRule {
	var best *models.PricingRule
	for i := range e.rules {
		r := &e.rules[i]
		if !r.IsActive || !Matches(p, r.Conditions) {
			continue
		}
		if best == nil || beats(r, best) {
			best = r
		}
	}
	return best
}

// beats reports whether rule a wins over rule b.
func beats(a, b *models.PricingRule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	ac, bc := a.ConditionCount(), b.ConditionCount()
	if ac != bc {
		return ac > bc
	}
	return a.SeedOrder < b.SeedOrder
}

// computeBase applies the rule's pricing method before floor and rounding.
func computeBase(r *models.PricingRule, p *models.Product) (float64, error) {
	switch r.Method {
	case models.MethodFixedMargin:
		return float64(p.Cost + r.FixedMargin +
			r.AdditionalCosts.PackagingCost + r.AdditionalCosts.HandlingCost), nil

	case models.MethodCompetitive:
		price, err := marginRatePrice(r, p)
		if err != nil {
			return 0, err
		}
		// Clamp to the competitor-derived target when one is known.
		if p.TargetPrice != nil && float64(*p.TargetPrice) < price {
			price = float64(*p.TargetPrice)
		}
		return price, nil

	default: // margin_rate
		return marginRatePrice(r, p)
	}
}

// marginRatePrice computes cost / (1 - effective_rate) plus flat costs.
// Fee rates are expressed against the sale price, so they join the margin
// rate inside the division rather than multiplying the cost.
func marginRatePrice(r *models.PricingRule, p *models.Product) (float64, error) {
	effRate := r.MarginRate + r.AdditionalCosts.PlatformFeeRate + r.AdditionalCosts.PaymentFeeRate
	if effRate >= 1 {
		return 0, fmt.Errorf("%w: rule %s has effective rate %.4f", ErrMarginConfiguration, r.ID, effRate)
	}
	price := float64(p.Cost) / (1 - effRate)
	return price + float64(r.AdditionalCosts.PackagingCost+r.AdditionalCosts.HandlingCost), nil
}

// roundUp rounds price up to the next multiple of unit. Rounding is always
// toward the seller's favor, never down.
func roundUp(price float64, unit int64) int64 {
	if unit <= 0 {
		unit = 1
	}
	return int64(math.Ceil(price/float64(unit))) * unit
}

// applyEnding replaces the trailing digits of the rounded price with the
// configured ending pattern. The substitution modulus is the smallest power
// of ten that contains the ending (900 -> per-1000). If substitution would
// lower the price, one full modulus unit is added so the result never drops
// below the rounded price.
func applyEnding(rounded, ending int64) int64 {
	if ending < 0 {
		return rounded
	}
	modulus := int64(10)
	for modulus <= ending {
		modulus *= 10
	}
	candidate := rounded/modulus*modulus + ending
	if candidate < rounded {
		candidate += modulus
	}
	return candidate
}
