package migrations

func init() {
	Register(Migration{
		Timestamp:   "20260301-000000",
		Description: "Initial schema",
		Up: []string{
			// Suppliers - registered product sources, credentials encrypted at rest
			`CREATE TABLE IF NOT EXISTS suppliers (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				credential_encrypted TEXT,
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL
			)`,

			// Products moving through the listing pipeline
			`CREATE TABLE IF NOT EXISTS products (
				id TEXT PRIMARY KEY,
				supplier_id TEXT NOT NULL,
				supplier_product_id TEXT NOT NULL,
				name TEXT NOT NULL,
				cost INTEGER NOT NULL,
				shipping_fee INTEGER NOT NULL DEFAULT 0,
				category_code TEXT NOT NULL DEFAULT '',
				category_name TEXT NOT NULL DEFAULT '',
				marketplace_id TEXT NOT NULL,
				target_price INTEGER,
				status TEXT NOT NULL DEFAULT 'pending',
				error_message TEXT,
				listed_at TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE(supplier_id, supplier_product_id, marketplace_id),
				FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)`,
			`CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id)`,

			// Pricing rules - conditions and method params stored as JSON
			`CREATE TABLE IF NOT EXISTS pricing_rules (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				priority INTEGER NOT NULL DEFAULT 0,
				seed_order INTEGER NOT NULL DEFAULT 0,
				conditions_json TEXT NOT NULL DEFAULT '{}',
				pricing_method TEXT NOT NULL,
				margin_rate REAL NOT NULL DEFAULT 0,
				fixed_margin INTEGER NOT NULL DEFAULT 0,
				min_margin_amount INTEGER NOT NULL DEFAULT 0,
				additional_costs_json TEXT NOT NULL DEFAULT '{}',
				round_to INTEGER NOT NULL DEFAULT 100,
				price_ending INTEGER,
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_pricing_rules_active ON pricing_rules(is_active, priority)`,

			// Category mappings - manual rows are authoritative
			`CREATE TABLE IF NOT EXISTS category_mappings (
				id TEXT PRIMARY KEY,
				supplier_id TEXT NOT NULL,
				supplier_category_code TEXT NOT NULL,
				supplier_category_name TEXT NOT NULL DEFAULT '',
				marketplace_id TEXT NOT NULL,
				marketplace_category_code TEXT NOT NULL,
				marketplace_category_name TEXT NOT NULL DEFAULT '',
				confidence REAL NOT NULL DEFAULT 0,
				is_manual INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE(supplier_id, supplier_category_code, marketplace_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_category_mappings_marketplace ON category_mappings(marketplace_id)`,

			// Model registry for the AI router
			`CREATE TABLE IF NOT EXISTS model_specs (
				id TEXT PRIMARY KEY,
				provider TEXT NOT NULL,
				model_name TEXT NOT NULL UNIQUE,
				supports_vision INTEGER NOT NULL DEFAULT 0,
				cost_per_1k_tokens REAL NOT NULL DEFAULT 0,
				max_tokens INTEGER NOT NULL DEFAULT 0,
				context_window INTEGER NOT NULL DEFAULT 0,
				is_enabled INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL
			)`,

			// Per-period AI spend counter, one row per billing period
			`CREATE TABLE IF NOT EXISTS ai_usage_state (
				period TEXT PRIMARY KEY,
				monthly_budget REAL NOT NULL,
				current_usage REAL NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			)`,

			// Individual AI calls for auditing and per-model reporting
			`CREATE TABLE IF NOT EXISTS ai_usage_records (
				id TEXT PRIMARY KEY,
				period TEXT NOT NULL,
				model_name TEXT NOT NULL,
				task_type TEXT NOT NULL,
				tokens_used INTEGER NOT NULL DEFAULT 0,
				cost_usd REAL NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_ai_usage_records_period ON ai_usage_records(period)`,
			`CREATE INDEX IF NOT EXISTS idx_ai_usage_records_model ON ai_usage_records(period, model_name)`,

			// Listing decisions for traceability
			`CREATE TABLE IF NOT EXISTS listing_audits (
				id TEXT PRIMARY KEY,
				product_id TEXT NOT NULL,
				rule_id TEXT NOT NULL,
				final_price INTEGER NOT NULL,
				margin_amount INTEGER NOT NULL,
				marketplace_category_code TEXT NOT NULL DEFAULT '',
				resolution_method TEXT NOT NULL DEFAULT '',
				confidence REAL NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_listing_audits_product ON listing_audits(product_id)`,

			// Category misses waiting on an operator
			`CREATE TABLE IF NOT EXISTS manual_review_queue (
				id TEXT PRIMARY KEY,
				product_id TEXT NOT NULL,
				supplier_id TEXT NOT NULL,
				supplier_category_code TEXT NOT NULL,
				supplier_category_name TEXT NOT NULL DEFAULT '',
				marketplace_id TEXT NOT NULL,
				resolved_at TEXT,
				created_at TEXT NOT NULL,
				UNIQUE(product_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_manual_review_queue_open ON manual_review_queue(resolved_at)`,

			// API keys for programmatic access
			`CREATE TABLE IF NOT EXISTS api_keys (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				key_hash TEXT NOT NULL UNIQUE,
				key_prefix TEXT NOT NULL,
				last_used_at TEXT,
				created_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
		},
	})
}
