package models

import (
	"math"
	"testing"
)

func TestPricingRule_ConditionCount(t *testing.T) {
	tests := []struct {
		name string
		rule PricingRule
		want int
	}{
		{
			"empty conditions",
			PricingRule{},
			0,
		},
		{
			"cost bounds only",
			PricingRule{Conditions: RuleConditions{MinCost: 1000, MaxCost: 10000}},
			2,
		},
		{
			"all keys",
			PricingRule{Conditions: RuleConditions{
				MinCost:       1000,
				MaxCost:       10000,
				CategoryCodes: []string{"001"},
				SupplierIDs:   []string{"domeme"},
			}},
			4,
		},
		{
			"sets only",
			PricingRule{Conditions: RuleConditions{
				CategoryCodes: []string{"001", "002"},
				SupplierIDs:   []string{"domeme"},
			}},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.ConditionCount(); got != tt.want {
				t.Errorf("ConditionCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUsageState_Remaining(t *testing.T) {
	tests := []struct {
		name  string
		state UsageState
		want  float64
	}{
		{"fresh period", UsageState{MonthlyBudget: 50, CurrentUsage: 0}, 50},
		{"partially spent", UsageState{MonthlyBudget: 50, CurrentUsage: 49.99}, 0.01},
		{"exactly exhausted", UsageState{MonthlyBudget: 50, CurrentUsage: 50}, 0},
		{"overshoot clamps to zero", UsageState{MonthlyBudget: 50, CurrentUsage: 50.5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Remaining(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Remaining() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUsageState_Exhausted(t *testing.T) {
	if (&UsageState{MonthlyBudget: 50, CurrentUsage: 49.99}).Exhausted() {
		t.Error("Exhausted() should be false below budget")
	}
	if !(&UsageState{MonthlyBudget: 50, CurrentUsage: 50}).Exhausted() {
		t.Error("Exhausted() should be true at budget")
	}
}

func TestModelSpec_IsLocal(t *testing.T) {
	local := ModelSpec{Provider: ProviderLocal}
	cloud := ModelSpec{Provider: ProviderCloud}

	if !local.IsLocal() {
		t.Error("local provider should report IsLocal")
	}
	if cloud.IsLocal() {
		t.Error("cloud provider should not report IsLocal")
	}
}
