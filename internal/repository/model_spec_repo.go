package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteModelSpecRepository implements ModelSpecRepository for SQLite.
type SQLiteModelSpecRepository struct {
	db *sql.DB
}

// NewSQLiteModelSpecRepository creates a new SQLite model spec repository.
func NewSQLiteModelSpecRepository(db *sql.DB) *SQLiteModelSpecRepository {
	return &SQLiteModelSpecRepository{db: db}
}

const modelSpecColumns = `id, provider, model_name, supports_vision, cost_per_1k_tokens,
	max_tokens, context_window, is_enabled, created_at`

func (r *SQLiteModelSpecRepository) Create(ctx context.Context, spec *models.ModelSpec) error {
	query := `INSERT INTO model_specs (` + modelSpecColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		spec.ID, string(spec.Provider), spec.ModelName, boolToInt(spec.SupportsVision), spec.CostPer1KTokens,
		spec.MaxTokens, spec.ContextWindow, boolToInt(spec.IsEnabled), spec.CreatedAt.Format(time.RFC3339),
	)
	return err
}

func (r *SQLiteModelSpecRepository) List(ctx context.Context) ([]models.ModelSpec, error) {
	query := `SELECT ` + modelSpecColumns + ` FROM model_specs ORDER BY provider, cost_per_1k_tokens, model_name`
	return r.list(ctx, query)
}

func (r *SQLiteModelSpecRepository) ListEnabled(ctx context.Context) ([]models.ModelSpec, error) {
	query := `SELECT ` + modelSpecColumns + ` FROM model_specs
		WHERE is_enabled = 1 ORDER BY provider, cost_per_1k_tokens, model_name`
	return r.list(ctx, query)
}

func (r *SQLiteModelSpecRepository) list(ctx context.Context, query string) ([]models.ModelSpec, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []models.ModelSpec
	for rows.Next() {
		var spec models.ModelSpec
		var provider, createdAt string
		var supportsVision, isEnabled int
		if err := rows.Scan(&spec.ID, &provider, &spec.ModelName, &supportsVision, &spec.CostPer1KTokens,
			&spec.MaxTokens, &spec.ContextWindow, &isEnabled, &createdAt); err != nil {
			return nil, err
		}
		spec.Provider = models.ModelProvider(provider)
		spec.SupportsVision = supportsVision != 0
		spec.IsEnabled = isEnabled != 0
		spec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

func (r *SQLiteModelSpecRepository) SetEnabled(ctx context.Context, modelName string, enabled bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE model_specs SET is_enabled = ? WHERE model_name = ?`,
		boolToInt(enabled), modelName,
	)
	return err
}
