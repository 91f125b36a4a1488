package migrations

func init() {
	Register(Migration{
		Timestamp:   "20260301-000300",
		Description: "Seed manual category mappings",
		Up: []string{
			// Operator-curated mappings for the highest-volume supplier
			// categories. Manual rows carry confidence 1.0 and are never
			// displaced by automatic resolution.
			`INSERT OR IGNORE INTO category_mappings
				(id, supplier_id, supplier_category_code, supplier_category_name, marketplace_id, marketplace_category_code, marketplace_category_name, confidence, is_manual, created_at, updated_at)
			VALUES
				('map-domeme-001', 'domeme', '001', '패션의류', 'coupang', '194176', '패션의류', 1.0, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z'),
				('map-domeme-002', 'domeme', '002', '패션잡화', 'coupang', '194200', '패션잡화', 1.0, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z'),
				('map-domeme-010', 'domeme', '010', '생활용품', 'coupang', '486201', '생활용품', 1.0, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z'),
				('map-domeme-015', 'domeme', '015', '주방용품', 'coupang', '486301', '주방용품', 1.0, 1,
					'2026-03-01T00:00:00Z', '2026-03-01T00:00:00Z')`,
		},
	})
}
