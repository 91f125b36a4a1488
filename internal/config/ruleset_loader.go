package config

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// RuleOverride represents a pricing rule adjustment loaded from S3.
// Overrides are applied on top of the seeded rule set at load time and let
// operators tune margins without a deploy.
type RuleOverride struct {
	RuleID          string   `json:"rule_id"`
	Enabled         *bool    `json:"enabled,omitempty"`
	Priority        *int     `json:"priority,omitempty"`
	MarginRate      *float64 `json:"margin_rate,omitempty"`
	MinMarginAmount *float64 `json:"min_margin_amount,omitempty"`
	FixedMargin     *float64 `json:"fixed_margin,omitempty"`
	RoundTo         *int64   `json:"round_to,omitempty"`
	PriceEnding     *int64   `json:"price_ending,omitempty"`
}

// ModelSpecOverride represents a model spec adjustment loaded from S3.
type ModelSpecOverride struct {
	ModelName       string   `json:"model_name"`
	Enabled         *bool    `json:"enabled,omitempty"`
	CostPer1KTokens *float64 `json:"cost_per_1k_tokens,omitempty"`
	MaxTokens       *int     `json:"max_tokens,omitempty"`
}

// overridesJSON is the JSON document stored at config/overrides.json.
type overridesJSON struct {
	Rules  []RuleOverride      `json:"pricing_rules"`
	Models []ModelSpecOverride `json:"model_specs"`
}

// OverrideLoader provides S3-backed pricing rule and model spec overrides
// with ETag caching.
type OverrideLoader struct {
	loader *S3Loader

	mu     sync.RWMutex
	rules  map[string]*RuleOverride
	models map[string]*ModelSpecOverride
	logger *slog.Logger
}

// Global override loader instance
var (
	overrideLoader     *OverrideLoader
	overrideLoaderOnce sync.Once
)

// InitOverrideLoader initializes the global override loader.
// Call this at startup if you want S3-backed rule/model overrides.
func InitOverrideLoader(cfg S3LoaderConfig) {
	overrideLoaderOnce.Do(func() {
		overrideLoader = &OverrideLoader{
			loader: NewS3Loader(cfg),
			rules:  make(map[string]*RuleOverride),
			models: make(map[string]*ModelSpecOverride),
			logger: cfg.Logger,
		}
		if overrideLoader.logger == nil {
			overrideLoader.logger = slog.Default()
		}
	})
}

// GetOverrideLoader returns the global override loader (may be nil if not initialized).
func GetOverrideLoader() *OverrideLoader {
	return overrideLoader
}

// Load performs an initial blocking load of overrides from S3.
func (l *OverrideLoader) Load(ctx context.Context) {
	if !l.IsEnabled() {
		return
	}
	l.refresh(ctx)
}

// IsEnabled returns true if S3 is configured.
func (l *OverrideLoader) IsEnabled() bool {
	return l.loader.IsEnabled()
}

// MaybeRefresh checks if we need to refresh overrides from S3.
func (l *OverrideLoader) MaybeRefresh(ctx context.Context) {
	if !l.loader.NeedsRefresh() {
		return
	}

	// Refresh in background to not block requests
	go l.refresh(context.WithoutCancel(ctx))
}

// refresh fetches the override document from S3 and parses it.
func (l *OverrideLoader) refresh(ctx context.Context) {
	result, err := l.loader.Fetch(ctx)
	if err != nil {
		// S3Loader already logged the error
		return
	}
	if result == nil || result.NotChanged {
		return
	}

	var doc overridesJSON
	if err := json.Unmarshal(result.Data, &doc); err != nil {
		l.logger.Error("failed to parse overrides JSON", "error", err)
		return
	}

	newRules := make(map[string]*RuleOverride, len(doc.Rules))
	for i := range doc.Rules {
		o := &doc.Rules[i]
		newRules[o.RuleID] = o
	}
	newModels := make(map[string]*ModelSpecOverride, len(doc.Models))
	for i := range doc.Models {
		o := &doc.Models[i]
		newModels[o.ModelName] = o
	}

	l.mu.Lock()
	l.rules = newRules
	l.models = newModels
	l.mu.Unlock()

	l.logger.Info("overrides loaded from S3",
		"rule_count", len(newRules),
		"model_count", len(newModels),
	)
}

// RuleOverrideFor returns the override for a rule ID, or nil.
func (l *OverrideLoader) RuleOverrideFor(ruleID string) *RuleOverride {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rules[ruleID]
}

// ModelOverrideFor returns the override for a model name, or nil.
func (l *OverrideLoader) ModelOverrideFor(modelName string) *ModelSpecOverride {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.models[modelName]
}

// GetRuleOverrideWithS3 looks up a rule override in the S3 config.
// Returns nil if the loader is not initialized or S3 is not configured.
func GetRuleOverrideWithS3(ctx context.Context, ruleID string) *RuleOverride {
	if overrideLoader == nil || !overrideLoader.IsEnabled() {
		return nil
	}

	overrideLoader.MaybeRefresh(ctx)
	return overrideLoader.RuleOverrideFor(ruleID)
}

// GetModelOverrideWithS3 looks up a model spec override in the S3 config.
func GetModelOverrideWithS3(ctx context.Context, modelName string) *ModelSpecOverride {
	if overrideLoader == nil || !overrideLoader.IsEnabled() {
		return nil
	}

	overrideLoader.MaybeRefresh(ctx)
	return overrideLoader.ModelOverrideFor(modelName)
}
