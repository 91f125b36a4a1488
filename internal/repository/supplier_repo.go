package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteSupplierRepository implements SupplierRepository for SQLite.
type SQLiteSupplierRepository struct {
	db *sql.DB
}

// NewSQLiteSupplierRepository creates a new SQLite supplier repository.
func NewSQLiteSupplierRepository(db *sql.DB) *SQLiteSupplierRepository {
	return &SQLiteSupplierRepository{db: db}
}

func (r *SQLiteSupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	query := `INSERT INTO suppliers (id, name, credential_encrypted, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, nullIfEmpty(s.CredentialEncrypted), boolToInt(s.IsActive),
		s.CreatedAt.Format(time.RFC3339),
	)
	return err
}

func (r *SQLiteSupplierRepository) GetByID(ctx context.Context, id string) (*models.Supplier, error) {
	query := `SELECT id, name, credential_encrypted, is_active, created_at FROM suppliers WHERE id = ?`
	s, err := scanSupplier(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	query := `SELECT id, name, credential_encrypted, is_active, created_at FROM suppliers ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *s)
	}
	return suppliers, rows.Err()
}

func scanSupplier(sc scanner) (*models.Supplier, error) {
	var s models.Supplier
	var credential sql.NullString
	var isActive int
	var createdAt string

	if err := sc.Scan(&s.ID, &s.Name, &credential, &isActive, &createdAt); err != nil {
		return nil, err
	}
	s.CredentialEncrypted = credential.String
	s.IsActive = isActive != 0
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &s, nil
}
