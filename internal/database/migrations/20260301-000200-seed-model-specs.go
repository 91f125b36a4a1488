package migrations

func init() {
	Register(Migration{
		Timestamp:   "20260301-000200",
		Description: "Seed AI model registry",
		Up: []string{
			`INSERT OR IGNORE INTO model_specs
				(id, provider, model_name, supports_vision, cost_per_1k_tokens, max_tokens, context_window, is_enabled, created_at)
			VALUES
				('model-gemma', 'local', 'gemma3:4b', 0, 0, 2048, 8192, 1, '2026-03-01T00:00:00Z'),
				('model-qwen', 'local', 'qwen2.5:7b', 0, 0, 4096, 32768, 1, '2026-03-01T00:00:00Z'),
				('model-deepseek', 'local', 'deepseek-r1:8b', 0, 0, 4096, 32768, 1, '2026-03-01T00:00:00Z'),
				('model-flash-mini', 'cloud', 'gemini-2.0-flash-lite', 0, 0.01, 8192, 1000000, 1, '2026-03-01T00:00:00Z'),
				('model-flash-vision', 'cloud', 'gemini-2.0-flash', 1, 0.02, 8192, 1000000, 1, '2026-03-01T00:00:00Z')`,
		},
	})
}
