package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteAPIKeyRepository implements APIKeyRepository for SQLite.
type SQLiteAPIKeyRepository struct {
	db *sql.DB
}

// NewSQLiteAPIKeyRepository creates a new SQLite API key repository.
func NewSQLiteAPIKeyRepository(db *sql.DB) *SQLiteAPIKeyRepository {
	return &SQLiteAPIKeyRepository{db: db}
}

const apiKeyColumns = `id, name, key_hash, key_prefix, last_used_at, created_at, revoked_at`

func (r *SQLiteAPIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	query := `INSERT INTO api_keys (` + apiKeyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix,
		formatTimePtr(key.LastUsedAt), key.CreatedAt.Format(time.RFC3339), formatTimePtr(key.RevokedAt),
	)
	return err
}

func (r *SQLiteAPIKeyRepository) GetByKeyHash(ctx context.Context, hash string) (*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = ? AND revoked_at IS NULL`
	key, err := scanAPIKey(r.db.QueryRowContext(ctx, query, hash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (r *SQLiteAPIKeyRepository) List(ctx context.Context) ([]models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []models.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *key)
	}
	return keys, rows.Err()
}

func (r *SQLiteAPIKeyRepository) UpdateLastUsed(ctx context.Context, id string, lastUsed time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`,
		lastUsed.Format(time.RFC3339), id,
	)
	return err
}

func (r *SQLiteAPIKeyRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	return err
}

func scanAPIKey(s scanner) (*models.APIKey, error) {
	var key models.APIKey
	var lastUsedAt, revokedAt sql.NullString
	var createdAt string

	if err := s.Scan(&key.ID, &key.Name, &key.KeyHash, &key.KeyPrefix, &lastUsedAt, &createdAt, &revokedAt); err != nil {
		return nil, err
	}
	if lastUsedAt.Valid {
		t, _ := time.Parse(time.RFC3339, lastUsedAt.String)
		key.LastUsedAt = &t
	}
	if revokedAt.Valid {
		t, _ := time.Parse(time.RFC3339, revokedAt.String)
		key.RevokedAt = &t
	}
	key.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &key, nil
}
