package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/airouter"
	"github.com/sellbridge/sellbridge-api/internal/config"
	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// UsageService owns the AI model router and the persisted usage state for
// the current billing period. It swaps in a fresh router at period rollover.
type UsageService struct {
	repos         *repository.Repositories
	monthlyBudget float64
	logger        *slog.Logger

	mu     sync.Mutex
	period string
	router *airouter.Router
}

// NewUsageService loads the model registry and current period state and
// builds the router.
func NewUsageService(ctx context.Context, repos *repository.Repositories, monthlyBudget float64, logger *slog.Logger) (*UsageService, error) {
	s := &UsageService{
		repos:         repos,
		monthlyBudget: monthlyBudget,
		logger:        logger,
	}
	if err := s.rollover(ctx, currentPeriod()); err != nil {
		return nil, err
	}
	return s, nil
}

// rollover builds a router for the given period. Callers hold no lock; the
// swap itself is guarded.
func (s *UsageService) rollover(ctx context.Context, period string) error {
	specs, err := s.loadSpecs(ctx)
	if err != nil {
		return err
	}
	state, err := s.repos.Usage.EnsureState(ctx, period, s.monthlyBudget)
	if err != nil {
		return fmt.Errorf("ensure usage state for %s: %w", period, err)
	}

	router := airouter.NewRouter(specs, *state, s.repos.Usage, s.logger)

	s.mu.Lock()
	s.period = period
	s.router = router
	s.mu.Unlock()

	s.logger.Info("model router initialized",
		"period", period,
		"models", len(specs),
		"budget_usd", state.MonthlyBudget,
		"current_usage_usd", state.CurrentUsage,
	)
	return nil
}

// loadSpecs reads enabled model specs and applies S3 overrides.
func (s *UsageService) loadSpecs(ctx context.Context) ([]models.ModelSpec, error) {
	specs, err := s.repos.ModelSpecs.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model registry: %w", err)
	}
	out := specs[:0]
	for _, spec := range specs {
		if o := config.GetModelOverrideWithS3(ctx, spec.ModelName); o != nil {
			if o.Enabled != nil {
				spec.IsEnabled = *o.Enabled
			}
			if o.CostPer1KTokens != nil {
				spec.CostPer1KTokens = *o.CostPer1KTokens
			}
			if o.MaxTokens != nil {
				spec.MaxTokens = *o.MaxTokens
			}
		}
		if spec.IsEnabled {
			out = append(out, spec)
		}
	}
	return out, nil
}

// currentRouter returns the router, rolling the period over when the month
// has changed since the last call.
func (s *UsageService) currentRouter(ctx context.Context) (*airouter.Router, error) {
	now := currentPeriod()

	s.mu.Lock()
	stale := s.period != now
	router := s.router
	s.mu.Unlock()

	if stale {
		if err := s.rollover(ctx, now); err != nil {
			return nil, err
		}
		s.mu.Lock()
		router = s.router
		s.mu.Unlock()
	}
	return router, nil
}

// SelectModel picks an execution target for a task.
func (s *UsageService) SelectModel(ctx context.Context, taskType airouter.TaskType, requiresVision bool) (*airouter.Selection, error) {
	router, err := s.currentRouter(ctx)
	if err != nil {
		return nil, err
	}
	return router.SelectModel(taskType, requiresVision)
}

// RecordUsage charges actual token consumption against the budget.
func (s *UsageService) RecordUsage(ctx context.Context, spec models.ModelSpec, taskType airouter.TaskType, tokensUsed int) error {
	router, err := s.currentRouter(ctx)
	if err != nil {
		return err
	}
	return router.RecordUsage(ctx, spec, taskType, tokensUsed)
}

// SpecByName returns the enabled spec for a model, or nil when unknown.
func (s *UsageService) SpecByName(ctx context.Context, name string) (*models.ModelSpec, error) {
	specs, err := s.loadSpecs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range specs {
		if specs[i].ModelName == name {
			return &specs[i], nil
		}
	}
	return nil, nil
}

// UsageReport is the period spend summary exposed over the API.
type UsageReport struct {
	Period       string                         `json:"period"`
	Budget       float64                        `json:"monthly_budget_usd"`
	CurrentUsage float64                        `json:"current_usage_usd"`
	Remaining    float64                        `json:"remaining_usd"`
	Exhausted    bool                           `json:"exhausted"`
	ByModel      []repository.ModelUsageSummary `json:"by_model"`
	UpdatedAt    time.Time                      `json:"updated_at"`
}

// Report aggregates the persisted state and per-model records for a period.
// An empty period means the current one.
func (s *UsageService) Report(ctx context.Context, period string) (*UsageReport, error) {
	if period == "" {
		period = currentPeriod()
	}
	state, err := s.repos.Usage.GetState(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("load usage state: %w", err)
	}
	if state == nil {
		state = &models.UsageState{Period: period, MonthlyBudget: s.monthlyBudget}
	}
	byModel, err := s.repos.Usage.SummaryByModel(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("summarize usage: %w", err)
	}
	return &UsageReport{
		Period:       state.Period,
		Budget:       state.MonthlyBudget,
		CurrentUsage: state.CurrentUsage,
		Remaining:    state.Remaining(),
		Exhausted:    state.Exhausted(),
		ByModel:      byModel,
		UpdatedAt:    state.UpdatedAt,
	}, nil
}
