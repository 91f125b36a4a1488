package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteUsageRepository implements UsageRepository for SQLite.
type SQLiteUsageRepository struct {
	db *sql.DB
}

// NewSQLiteUsageRepository creates a new SQLite usage repository.
func NewSQLiteUsageRepository(db *sql.DB) *SQLiteUsageRepository {
	return &SQLiteUsageRepository{db: db}
}

func (r *SQLiteUsageRepository) EnsureState(ctx context.Context, period string, monthlyBudget float64) (*models.UsageState, error) {
	query := `INSERT INTO ai_usage_state (period, monthly_budget, current_usage, updated_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT(period) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, period, monthlyBudget, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return r.GetState(ctx, period)
}

func (r *SQLiteUsageRepository) GetState(ctx context.Context, period string) (*models.UsageState, error) {
	query := `SELECT period, monthly_budget, current_usage, updated_at FROM ai_usage_state WHERE period = ?`
	var state models.UsageState
	var updatedAt string
	err := r.db.QueryRowContext(ctx, query, period).Scan(&state.Period, &state.MonthlyBudget, &state.CurrentUsage, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	state.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &state, nil
}

// AddUsage increments the period counter in a single UPDATE so concurrent
// writers never lose an increment.
func (r *SQLiteUsageRepository) AddUsage(ctx context.Context, period string, costUSD float64) error {
	query := `UPDATE ai_usage_state SET current_usage = current_usage + ?, updated_at = ? WHERE period = ?`
	_, err := r.db.ExecContext(ctx, query, costUSD, time.Now().UTC().Format(time.RFC3339), period)
	return err
}

func (r *SQLiteUsageRepository) InsertRecord(ctx context.Context, rec *models.UsageRecord) error {
	query := `INSERT INTO ai_usage_records (id, period, model_name, task_type, tokens_used, cost_usd, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Period, rec.ModelName, rec.TaskType, rec.TokensUsed, rec.CostUSD,
		rec.CreatedAt.Format(time.RFC3339),
	)
	return err
}

func (r *SQLiteUsageRepository) ListRecords(ctx context.Context, period string, limit int) ([]models.UsageRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, period, model_name, task_type, tokens_used, cost_usd, created_at
		FROM ai_usage_records WHERE period = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, period, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.UsageRecord
	for rows.Next() {
		var rec models.UsageRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Period, &rec.ModelName, &rec.TaskType, &rec.TokensUsed, &rec.CostUSD, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteUsageRepository) SummaryByModel(ctx context.Context, period string) ([]ModelUsageSummary, error) {
	query := `SELECT model_name, COUNT(*), COALESCE(SUM(tokens_used), 0), COALESCE(SUM(cost_usd), 0)
		FROM ai_usage_records WHERE period = ?
		GROUP BY model_name ORDER BY SUM(cost_usd) DESC, model_name`
	rows, err := r.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ModelUsageSummary
	for rows.Next() {
		var s ModelUsageSummary
		if err := rows.Scan(&s.ModelName, &s.Calls, &s.TotalTokens, &s.TotalCost); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
