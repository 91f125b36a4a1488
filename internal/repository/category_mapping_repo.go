package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteCategoryMappingRepository implements CategoryMappingRepository for SQLite.
type SQLiteCategoryMappingRepository struct {
	db *sql.DB
}

// NewSQLiteCategoryMappingRepository creates a new SQLite category mapping repository.
func NewSQLiteCategoryMappingRepository(db *sql.DB) *SQLiteCategoryMappingRepository {
	return &SQLiteCategoryMappingRepository{db: db}
}

const categoryMappingColumns = `id, supplier_id, supplier_category_code, supplier_category_name,
	marketplace_id, marketplace_category_code, marketplace_category_name, confidence, is_manual,
	created_at, updated_at`

func (r *SQLiteCategoryMappingRepository) FindExact(ctx context.Context, supplierID, supplierCategoryCode, marketplaceID string) (*models.CategoryMapping, error) {
	query := `SELECT ` + categoryMappingColumns + ` FROM category_mappings
		WHERE supplier_id = ? AND supplier_category_code = ? AND marketplace_id = ?`
	m, err := scanCategoryMapping(r.db.QueryRowContext(ctx, query, supplierID, supplierCategoryCode, marketplaceID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *SQLiteCategoryMappingRepository) ListTargets(ctx context.Context, marketplaceID string) ([]models.CategoryMapping, error) {
	// One row per marketplace category code. max(confidence) makes SQLite
	// keep the strongest name variant when suppliers disagree.
	query := `SELECT ` + categoryMappingColumns + `, max(confidence) FROM category_mappings
		WHERE marketplace_id = ?
		GROUP BY marketplace_category_code
		ORDER BY marketplace_category_code`
	return r.listTargets(ctx, query, marketplaceID)
}

// listTargets scans rows that carry the extra max(confidence) column.
func (r *SQLiteCategoryMappingRepository) listTargets(ctx context.Context, query string, args ...any) ([]models.CategoryMapping, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []models.CategoryMapping
	for rows.Next() {
		var m models.CategoryMapping
		var isManual int
		var createdAt, updatedAt string
		var maxConfidence float64
		if err := rows.Scan(&m.ID, &m.SupplierID, &m.SupplierCategoryCode, &m.SupplierCategoryName,
			&m.MarketplaceID, &m.MarketplaceCategoryCode, &m.MarketplaceCategoryName, &m.Confidence, &isManual,
			&createdAt, &updatedAt, &maxConfidence); err != nil {
			return nil, err
		}
		m.IsManual = isManual != 0
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (r *SQLiteCategoryMappingRepository) ListBySupplier(ctx context.Context, supplierID string) ([]models.CategoryMapping, error) {
	query := `SELECT ` + categoryMappingColumns + ` FROM category_mappings
		WHERE supplier_id = ? ORDER BY supplier_category_code`
	return r.list(ctx, query, supplierID)
}

func (r *SQLiteCategoryMappingRepository) list(ctx context.Context, query string, args ...any) ([]models.CategoryMapping, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []models.CategoryMapping
	for rows.Next() {
		m, err := scanCategoryMapping(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, *m)
	}
	return mappings, rows.Err()
}

// UpsertAutomatic writes a resolver cache row. The guard clause in the
// conflict target keeps manual rows untouched; if the existing row is manual
// the statement affects nothing and ErrManualMappingExists is returned.
func (r *SQLiteCategoryMappingRepository) UpsertAutomatic(ctx context.Context, m *models.CategoryMapping) error {
	query := `INSERT INTO category_mappings (` + categoryMappingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(supplier_id, supplier_category_code, marketplace_id) DO UPDATE SET
			supplier_category_name = excluded.supplier_category_name,
			marketplace_category_code = excluded.marketplace_category_code,
			marketplace_category_name = excluded.marketplace_category_name,
			confidence = excluded.confidence,
			updated_at = excluded.updated_at
		WHERE category_mappings.is_manual = 0`
	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.SupplierID, m.SupplierCategoryCode, m.SupplierCategoryName,
		m.MarketplaceID, m.MarketplaceCategoryCode, m.MarketplaceCategoryName, m.Confidence,
		m.CreatedAt.Format(time.RFC3339), m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrManualMappingExists
	}
	return nil
}

func (r *SQLiteCategoryMappingRepository) UpsertManual(ctx context.Context, m *models.CategoryMapping) error {
	query := `INSERT INTO category_mappings (` + categoryMappingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1.0, 1, ?, ?)
		ON CONFLICT(supplier_id, supplier_category_code, marketplace_id) DO UPDATE SET
			supplier_category_name = excluded.supplier_category_name,
			marketplace_category_code = excluded.marketplace_category_code,
			marketplace_category_name = excluded.marketplace_category_name,
			confidence = 1.0,
			is_manual = 1,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.SupplierID, m.SupplierCategoryCode, m.SupplierCategoryName,
		m.MarketplaceID, m.MarketplaceCategoryCode, m.MarketplaceCategoryName,
		m.CreatedAt.Format(time.RFC3339), m.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

func scanCategoryMapping(s scanner) (*models.CategoryMapping, error) {
	var m models.CategoryMapping
	var isManual int
	var createdAt, updatedAt string

	err := s.Scan(&m.ID, &m.SupplierID, &m.SupplierCategoryCode, &m.SupplierCategoryName,
		&m.MarketplaceID, &m.MarketplaceCategoryCode, &m.MarketplaceCategoryName, &m.Confidence, &isManual,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	m.IsManual = isManual != 0
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &m, nil
}
