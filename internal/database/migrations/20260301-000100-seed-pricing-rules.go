package migrations

func init() {
	Register(Migration{
		Timestamp:   "20260301-000100",
		Description: "Seed default pricing rules",
		Up: []string{
			// Cost-tiered margin rules plus a match-everything fallback.
			// seed_order fixes the deterministic final tie-break.
			`INSERT OR IGNORE INTO pricing_rules
				(id, name, priority, seed_order, conditions_json, pricing_method, margin_rate, min_margin_amount, additional_costs_json, round_to, price_ending, is_active, created_at, updated_at)
			VALUES
				('rule-low-cost', '저가 상품 마진', 10, 1,
					'{"max_cost":10000}', 'margin_rate', 0.5, 2000,
					'{"platform_fee_rate":0.1,"payment_fee_rate":0.03}', 100, NULL, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z'),
				('rule-mid-cost', '중가 상품 마진', 10, 2,
					'{"min_cost":10001,"max_cost":50000}', 'margin_rate', 0.35, 3000,
					'{"platform_fee_rate":0.1,"payment_fee_rate":0.03}', 100, NULL, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z'),
				('rule-high-cost', '고가 상품 마진', 10, 3,
					'{"min_cost":50001}', 'margin_rate', 0.25, 5000,
					'{"platform_fee_rate":0.1,"payment_fee_rate":0.03}', 1000, 900, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z'),
				('rule-fallback', '기본 마진', 0, 99,
					'{}', 'margin_rate', 0.25, 2000,
					'{}', 100, NULL, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z')`,
		},
	})
}
