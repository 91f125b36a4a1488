package airouter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sellbridge/sellbridge-api/internal/models"
)

// Selection reasons, returned so downgrades stay observable to the caller.
const (
	ReasonLocalPreferred   = "local_preferred"
	ReasonCloudSelected    = "cloud_selected"
	ReasonBudgetExhausted  = "budget_exhausted_local_forced"
	ReasonBudgetDowngrade  = "estimated_cost_over_budget_downgrade"
	ReasonNoLocalAvailable = "no_local_candidate"
)

// Selection is the outcome of one routing decision.
type Selection struct {
	Model            models.ModelSpec `json:"model"`
	Reason           string           `json:"reason"`
	EstimatedCostUSD float64          `json:"estimated_cost_usd"`
}

// UsageSink persists usage mutations. Implementations are called while the
// router lock is held, so they should stay cheap; the SQLite writes here are.
type UsageSink interface {
	AddUsage(ctx context.Context, period string, costUSD float64) error
	InsertRecord(ctx context.Context, rec *models.UsageRecord) error
}

// Router picks an execution target per task and tracks cumulative spend for
// the current billing period.
//
// SelectModel never mutates state, so it is idempotent and safe to call
// speculatively. RecordUsage is the single mutation path and is serialized
// by the router's mutex so spend is never under-counted under concurrency.
type Router struct {
	mu           sync.Mutex
	specs        []models.ModelSpec
	state        models.UsageState
	callsByModel map[string]int
	sink         UsageSink
	logger       *slog.Logger
}

// NewRouter builds a router over a model registry and the usage state for
// the active billing period. sink may be nil for in-memory-only tracking.
func NewRouter(specs []models.ModelSpec, state models.UsageState, sink UsageSink, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		specs:        specs,
		state:        state,
		callsByModel: make(map[string]int),
		sink:         sink,
		logger:       logger,
	}
}

// Period returns the current billing period key (YYYY-MM, UTC).
func Period(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// SelectModel picks a model for the task.
//
// Capability filtering runs first; an empty capable set is a configuration
// error regardless of budget. With budget exhausted the router forces the
// cheapest capable local model and never touches the cloud. Otherwise simple
// tasks prefer local and complex tasks take the cheapest capable cloud model
// whose estimated cost still fits the remaining budget, downgrading to local
// when it does not.
func (r *Router) SelectModel(taskType TaskType, requiresVision bool) (*Selection, error) {
	profile, ok := ProfileFor(taskType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskType)
	}
	if profile.RequiresVision {
		requiresVision = true
	}

	local, cloud := r.capableCandidates(requiresVision)
	if len(local) == 0 && len(cloud) == 0 {
		return nil, fmt.Errorf("%w: task %s (vision=%t)", ErrNoCapableModel, taskType, requiresVision)
	}

	r.mu.Lock()
	remaining := r.state.Remaining()
	exhausted := r.state.Exhausted()
	r.mu.Unlock()

	if exhausted {
		if len(local) == 0 {
			return nil, fmt.Errorf("%w: task %s needs a paid model but budget is spent", ErrBudgetExceeded, taskType)
		}
		return &Selection{Model: local[0], Reason: ReasonBudgetExhausted}, nil
	}

	if profile.Complexity == ComplexitySimple && len(local) > 0 {
		return &Selection{Model: local[0], Reason: ReasonLocalPreferred}, nil
	}

	// Complex task, or simple with no local candidate: cheapest capable
	// cloud model that the remaining budget can absorb.
	for _, spec := range cloud {
		estimated := float64(profile.EstimatedTokens) / 1000 * spec.CostPer1KTokens
		if estimated <= remaining {
			reason := ReasonCloudSelected
			if profile.Complexity == ComplexitySimple {
				reason = ReasonNoLocalAvailable
			}
			return &Selection{Model: spec, Reason: reason, EstimatedCostUSD: estimated}, nil
		}
	}

	if len(local) > 0 {
		return &Selection{Model: local[0], Reason: ReasonBudgetDowngrade}, nil
	}
	return nil, fmt.Errorf("%w: task %s estimated cost exceeds remaining budget %.4f", ErrBudgetExceeded, taskType, remaining)
}

// RecordUsage charges actual token consumption against the period budget and
// bumps the per-model call counter. Call it after every model invocation,
// local ones included, so call counts stay complete.
func (r *Router) RecordUsage(ctx context.Context, spec models.ModelSpec, taskType TaskType, tokensUsed int) error {
	cost := float64(tokensUsed) / 1000 * spec.CostPer1KTokens

	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.CurrentUsage += cost
	r.callsByModel[spec.ModelName]++

	if r.sink != nil {
		if cost > 0 {
			if err := r.sink.AddUsage(ctx, r.state.Period, cost); err != nil {
				return fmt.Errorf("persist usage increment: %w", err)
			}
		}
		rec := &models.UsageRecord{
			ID:         ulid.Make().String(),
			Period:     r.state.Period,
			ModelName:  spec.ModelName,
			TaskType:   string(taskType),
			TokensUsed: tokensUsed,
			CostUSD:    cost,
			CreatedAt:  time.Now().UTC(),
		}
		if err := r.sink.InsertRecord(ctx, rec); err != nil {
			return fmt.Errorf("persist usage record: %w", err)
		}
	}

	r.logger.Debug("model usage recorded",
		"model", spec.ModelName,
		"task_type", string(taskType),
		"tokens", tokensUsed,
		"cost_usd", cost,
		"current_usage", r.state.CurrentUsage,
	)
	return nil
}

// Usage returns a snapshot of the period state and per-model call counts.
func (r *Router) Usage() (models.UsageState, map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make(map[string]int, len(r.callsByModel))
	for k, v := range r.callsByModel {
		calls[k] = v
	}
	return r.state, calls
}

// ResetPeriod swaps in a fresh usage state at billing-period rollover and
// clears the call counters.
func (r *Router) ResetPeriod(state models.UsageState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.callsByModel = make(map[string]int)
}

// capableCandidates partitions enabled, capability-matching specs into local
// and cloud lists. Both lists are sorted cheapest first with the model name
// as a deterministic tie-break.
func (r *Router) capableCandidates(requiresVision bool) (local, cloud []models.ModelSpec) {
	for _, spec := range r.specs {
		if !spec.IsEnabled {
			continue
		}
		if requiresVision && !spec.SupportsVision {
			continue
		}
		if spec.IsLocal() {
			local = append(local, spec)
		} else {
			cloud = append(cloud, spec)
		}
	}
	sortByCost(local)
	sortByCost(cloud)
	return local, cloud
}

func sortByCost(specs []models.ModelSpec) {
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].CostPer1KTokens != specs[j].CostPer1KTokens {
			return specs[i].CostPer1KTokens < specs[j].CostPer1KTokens
		}
		return specs[i].ModelName < specs[j].ModelName
	})
}
