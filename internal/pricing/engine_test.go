package pricing

import (
	"errors"
	"testing"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

func rule(id string, priority int, seedOrder int, mutate func(*models.PricingRule)) models.PricingRule {
	r := models.PricingRule{
		ID:       id,
		Name:     id,
		Priority: priority,
		SeedOrder: seedOrder,
		Method:   models.MethodMarginRate,
		RoundTo:  100,
		IsActive: true,
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func product(cost int64) *models.Product {
	return &models.Product{
		ID:           "prod-1",
		SupplierID:   "domeme",
		Cost:         cost,
		CategoryCode: "001",
	}
}

// ========================================
// Condition Matcher Tests
// ========================================

func TestMatches(t *testing.T) {
	p := product(5000)

	tests := []struct {
		name       string
		conditions models.RuleConditions
		want       bool
	}{
		{"empty conditions match everything", models.RuleConditions{}, true},
		{"within cost bounds", models.RuleConditions{MinCost: 1000, MaxCost: 10000}, true},
		{"at inclusive min bound", models.RuleConditions{MinCost: 5000}, true},
		{"at inclusive max bound", models.RuleConditions{MaxCost: 5000}, true},
		{"below min cost", models.RuleConditions{MinCost: 6000}, false},
		{"above max cost", models.RuleConditions{MaxCost: 4000}, false},
		{"category member", models.RuleConditions{CategoryCodes: []string{"001", "002"}}, true},
		{"category not member", models.RuleConditions{CategoryCodes: []string{"003"}}, false},
		{"supplier member", models.RuleConditions{SupplierIDs: []string{"domeme"}}, true},
		{"supplier not member", models.RuleConditions{SupplierIDs: []string{"ownerclan"}}, false},
		{
			"all keys satisfied",
			models.RuleConditions{
				MinCost:       1000,
				MaxCost:       10000,
				CategoryCodes: []string{"001"},
				SupplierIDs:   []string{"domeme"},
			},
			true,
		},
		{
			"one key fails all fail",
			models.RuleConditions{
				MinCost:     1000,
				SupplierIDs: []string{"ownerclan"},
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(p, tt.conditions); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ========================================
// Price Computation Tests
// ========================================

func TestCalculatePrice_MarginRate(t *testing.T) {
	r := rule("low-cost", 10, 0, func(r *models.PricingRule) {
		r.Conditions = models.RuleConditions{MaxCost: 10000}
		r.MarginRate = 0.5
		r.MinMarginAmount = 2000
	})
	engine := NewEngine([]models.PricingRule{r})

	t.Run("cost 5000 prices at 10000", func(t *testing.T) {
		q, err := engine.CalculatePrice(product(5000))
		if err != nil {
			t.Fatalf("CalculatePrice() error = %v", err)
		}
		if q.FinalPrice != 10000 {
			t.Errorf("FinalPrice = %d, want 10000", q.FinalPrice)
		}
		if q.MarginAmount != 5000 {
			t.Errorf("MarginAmount = %d, want 5000", q.MarginAmount)
		}
		if q.RuleID != "low-cost" {
			t.Errorf("RuleID = %q, want low-cost", q.RuleID)
		}
	})

	t.Run("cost 9000 prices at 18000", func(t *testing.T) {
		q, err := engine.CalculatePrice(product(9000))
		if err != nil {
			t.Fatalf("CalculatePrice() error = %v", err)
		}
		if q.FinalPrice != 18000 {
			t.Errorf("FinalPrice = %d, want 18000", q.FinalPrice)
		}
	})
}

func TestCalculatePrice_FallbackRoundsUp(t *testing.T) {
	fallback := rule("fallback", 0, 99, func(r *models.PricingRule) {
		r.MarginRate = 0.25
		r.MinMarginAmount = 2000
	})
	scoped := rule("scoped", 10, 0, func(r *models.PricingRule) {
		r.Conditions = models.RuleConditions{MaxCost: 10000}
		r.MarginRate = 0.5
	})
	engine := NewEngine([]models.PricingRule{fallback, scoped})

	// cost 100000 misses the scoped rule; raw 133333.33 rounds up to 133400
	q, err := engine.CalculatePrice(product(100000))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.RuleID != "fallback" {
		t.Errorf("RuleID = %q, want fallback", q.RuleID)
	}
	if q.FinalPrice != 133400 {
		t.Errorf("FinalPrice = %d, want 133400", q.FinalPrice)
	}
	if q.FinalPrice%100 != 0 {
		t.Errorf("FinalPrice = %d, not a multiple of round_to", q.FinalPrice)
	}
}

func TestCalculatePrice_MarginFloor(t *testing.T) {
	r := rule("thin", 10, 0, func(r *models.PricingRule) {
		r.MarginRate = 0.1
		r.MinMarginAmount = 2000
	})
	engine := NewEngine([]models.PricingRule{r})

	// raw 1111.11 leaves only ~111 won of margin; the floor lifts it to
	// cost + 2000.
	q, err := engine.CalculatePrice(product(1000))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.FinalPrice != 3000 {
		t.Errorf("FinalPrice = %d, want 3000", q.FinalPrice)
	}
	if q.MarginAmount < 2000 {
		t.Errorf("MarginAmount = %d, below the configured floor", q.MarginAmount)
	}
}

func TestCalculatePrice_FixedMargin(t *testing.T) {
	r := rule("fixed", 10, 0, func(r *models.PricingRule) {
		r.Method = models.MethodFixedMargin
		r.FixedMargin = 5000
		r.AdditionalCosts = models.AdditionalCosts{PackagingCost: 500, HandlingCost: 300}
	})
	engine := NewEngine([]models.PricingRule{r})

	q, err := engine.CalculatePrice(product(12000))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.FinalPrice != 17800 {
		t.Errorf("FinalPrice = %d, want 17800", q.FinalPrice)
	}
}

func TestCalculatePrice_Competitive(t *testing.T) {
	r := rule("competitive", 10, 0, func(r *models.PricingRule) {
		r.Method = models.MethodCompetitive
		r.MarginRate = 0.5
		r.MinMarginAmount = 2000
	})
	engine := NewEngine([]models.PricingRule{r})

	t.Run("clamps to target price", func(t *testing.T) {
		p := product(5000)
		target := int64(9000)
		p.TargetPrice = &target

		q, err := engine.CalculatePrice(p)
		if err != nil {
			t.Fatalf("CalculatePrice() error = %v", err)
		}
		if q.FinalPrice != 9000 {
			t.Errorf("FinalPrice = %d, want 9000", q.FinalPrice)
		}
	})

	t.Run("falls back to margin rate without target", func(t *testing.T) {
		q, err := engine.CalculatePrice(product(5000))
		if err != nil {
			t.Fatalf("CalculatePrice() error = %v", err)
		}
		if q.FinalPrice != 10000 {
			t.Errorf("FinalPrice = %d, want 10000", q.FinalPrice)
		}
	})

	t.Run("margin floor overrides target", func(t *testing.T) {
		p := product(5000)
		target := int64(6000)
		p.TargetPrice = &target

		q, err := engine.CalculatePrice(p)
		if err != nil {
			t.Fatalf("CalculatePrice() error = %v", err)
		}
		// target leaves 1000 won margin; the floor raises to cost + 2000
		if q.FinalPrice != 7000 {
			t.Errorf("FinalPrice = %d, want 7000", q.FinalPrice)
		}
	})
}

func TestCalculatePrice_FeeRates(t *testing.T) {
	r := rule("fees", 10, 0, func(r *models.PricingRule) {
		r.MarginRate = 0.3
		r.AdditionalCosts = models.AdditionalCosts{
			PlatformFeeRate: 0.1,
			PaymentFeeRate:  0.03,
			PackagingCost:   500,
			HandlingCost:    300,
		}
	})
	engine := NewEngine([]models.PricingRule{r})

	// effective rate 0.43: 5700 / 0.57 = 10000, plus 800 flat costs
	q, err := engine.CalculatePrice(product(5700))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.FinalPrice != 10800 {
		t.Errorf("FinalPrice = %d, want 10800", q.FinalPrice)
	}
}

func TestCalculatePrice_PriceEnding(t *testing.T) {
	ending := int64(900)

	t.Run("substitution keeps price at or above rounded", func(t *testing.T) {
		r := rule("ending", 10, 0, func(r *models.PricingRule) {
			r.MarginRate = 0.5
			r.PriceEnding = &ending
		})
		engine := NewEngine([]models.PricingRule{r})

		// rounded 18000 -> ending applied within the same thousand
		q, err := engine.CalculatePrice(product(9000))
		if err != nil {
			t.Fatalf("CalculatePrice() error = %v", err)
		}
		if q.FinalPrice != 18900 {
			t.Errorf("FinalPrice = %d, want 18900", q.FinalPrice)
		}
	})

	t.Run("substitution never lowers the price", func(t *testing.T) {
		low := int64(500)
		r := rule("ending-low", 10, 0, func(r *models.PricingRule) {
			r.MarginRate = 0.5
			r.PriceEnding = &low
		})
		engine := NewEngine([]models.PricingRule{r})

		// rounded 18800; naive substitution would give 18500, so the price
		// moves up to the next thousand instead
		q, err := engine.CalculatePrice(product(9400))
		if err != nil {
			t.Fatalf("CalculatePrice() error = %v", err)
		}
		if q.FinalPrice != 19500 {
			t.Errorf("FinalPrice = %d, want 19500", q.FinalPrice)
		}
	})
}

// ========================================
// Rule Selection Tests
// ========================================

func TestSelectRule_PriorityWins(t *testing.T) {
	low := rule("low", 1, 0, func(r *models.PricingRule) { r.MarginRate = 0.1 })
	high := rule("high", 10, 1, func(r *models.PricingRule) { r.MarginRate = 0.5 })
	engine := NewEngine([]models.PricingRule{low, high})

	q, err := engine.CalculatePrice(product(5000))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.RuleID != "high" {
		t.Errorf("RuleID = %q, want high", q.RuleID)
	}
}

func TestSelectRule_SpecificityBreaksTies(t *testing.T) {
	broad := rule("broad", 10, 0, func(r *models.PricingRule) {
		r.Conditions = models.RuleConditions{MaxCost: 10000}
		r.MarginRate = 0.1
	})
	narrow := rule("narrow", 10, 1, func(r *models.PricingRule) {
		r.Conditions = models.RuleConditions{MaxCost: 10000, SupplierIDs: []string{"domeme"}}
		r.MarginRate = 0.5
	})
	engine := NewEngine([]models.PricingRule{broad, narrow})

	q, err := engine.CalculatePrice(product(5000))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.RuleID != "narrow" {
		t.Errorf("RuleID = %q, want narrow", q.RuleID)
	}
}

func TestSelectRule_SeedOrderBreaksFinalTies(t *testing.T) {
	second := rule("second", 10, 2, func(r *models.PricingRule) { r.MarginRate = 0.1 })
	first := rule("first", 10, 1, func(r *models.PricingRule) { r.MarginRate = 0.5 })
	engine := NewEngine([]models.PricingRule{second, first})

	q, err := engine.CalculatePrice(product(5000))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.RuleID != "first" {
		t.Errorf("RuleID = %q, want first", q.RuleID)
	}
}

func TestSelectRule_IgnoresInactiveRules(t *testing.T) {
	inactive := rule("inactive", 10, 0, func(r *models.PricingRule) {
		r.MarginRate = 0.5
		r.IsActive = false
	})
	active := rule("active", 1, 1, func(r *models.PricingRule) { r.MarginRate = 0.25 })
	engine := NewEngine([]models.PricingRule{inactive, active})

	q, err := engine.CalculatePrice(product(5000))
	if err != nil {
		t.Fatalf("CalculatePrice() error = %v", err)
	}
	if q.RuleID != "active" {
		t.Errorf("RuleID = %q, want active", q.RuleID)
	}
}

// ========================================
// Error Tests
// ========================================

func TestCalculatePrice_Errors(t *testing.T) {
	t.Run("zero cost", func(t *testing.T) {
		engine := NewEngine([]models.PricingRule{rule("r", 10, 0, func(r *models.PricingRule) { r.MarginRate = 0.3 })})
		_, err := engine.CalculatePrice(product(0))
		if !errors.Is(err, ErrInvalidCost) {
			t.Errorf("error = %v, want ErrInvalidCost", err)
		}
	})

	t.Run("negative cost", func(t *testing.T) {
		engine := NewEngine([]models.PricingRule{rule("r", 10, 0, func(r *models.PricingRule) { r.MarginRate = 0.3 })})
		_, err := engine.CalculatePrice(product(-100))
		if !errors.Is(err, ErrInvalidCost) {
			t.Errorf("error = %v, want ErrInvalidCost", err)
		}
	})

	t.Run("no matching rule", func(t *testing.T) {
		scoped := rule("scoped", 10, 0, func(r *models.PricingRule) {
			r.Conditions = models.RuleConditions{MaxCost: 1000}
			r.MarginRate = 0.3
		})
		engine := NewEngine([]models.PricingRule{scoped})
		_, err := engine.CalculatePrice(product(5000))
		if !errors.Is(err, ErrNoMatchingRule) {
			t.Errorf("error = %v, want ErrNoMatchingRule", err)
		}
	})

	t.Run("rates sum to one", func(t *testing.T) {
		bad := rule("bad", 10, 0, func(r *models.PricingRule) {
			r.MarginRate = 0.9
			r.AdditionalCosts = models.AdditionalCosts{PlatformFeeRate: 0.1}
		})
		engine := NewEngine([]models.PricingRule{bad})
		_, err := engine.CalculatePrice(product(5000))
		if !errors.Is(err, ErrMarginConfiguration) {
			t.Errorf("error = %v, want ErrMarginConfiguration", err)
		}
	})
}
