package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteProductRepository implements ProductRepository for SQLite.
type SQLiteProductRepository struct {
	db *sql.DB
}

// NewSQLiteProductRepository creates a new SQLite product repository.
func NewSQLiteProductRepository(db *sql.DB) *SQLiteProductRepository {
	return &SQLiteProductRepository{db: db}
}

const productColumns = `id, supplier_id, supplier_product_id, name, cost, shipping_fee,
	category_code, category_name, marketplace_id, target_price, status, error_message,
	listed_at, created_at, updated_at`

func (r *SQLiteProductRepository) Create(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SupplierID, p.SupplierProductID, p.Name, p.Cost, p.ShippingFee,
		p.CategoryCode, p.CategoryName, p.MarketplaceID, p.TargetPrice, string(p.Status), nullIfEmpty(p.ErrorMessage),
		formatTimePtr(p.ListedAt), p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

func (r *SQLiteProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProductRepository) ListByStatus(ctx context.Context, status models.ProductStatus, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE status = ? ORDER BY created_at ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *SQLiteProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `UPDATE products SET
		name = ?, cost = ?, shipping_fee = ?, category_code = ?, category_name = ?,
		target_price = ?, status = ?, error_message = ?, listed_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name, p.Cost, p.ShippingFee, p.CategoryCode, p.CategoryName,
		p.TargetPrice, string(p.Status), nullIfEmpty(p.ErrorMessage), formatTimePtr(p.ListedAt),
		time.Now().UTC().Format(time.RFC3339), p.ID,
	)
	return err
}

// ClaimPending atomically moves the oldest pending product to processing.
// The single UPDATE ... RETURNING both claims and fetches the row, so
// concurrent workers never double-process.
func (r *SQLiteProductRepository) ClaimPending(ctx context.Context) (*models.Product, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		UPDATE products
		SET status = 'processing', updated_at = ?
		WHERE id = (
			SELECT id FROM products
			WHERE status = 'pending'
			ORDER BY created_at ASC
			LIMIT 1
		)
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, now))
	if err == sql.ErrNoRows {
		// Empty queue is normal, not an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim product: %w", err)
	}
	return p, nil
}

// Release puts a claimed product back into the pending queue.
func (r *SQLiteProductRepository) Release(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET status = 'pending', updated_at = ? WHERE id = ? AND status = 'processing'`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	return err
}

func (r *SQLiteProductRepository) CountByStatus(ctx context.Context) (map[models.ProductStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM products GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ProductStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.ProductStatus(status)] = count
	}
	return counts, rows.Err()
}

func scanProduct(s scanner) (*models.Product, error) {
	var p models.Product
	var targetPrice sql.NullInt64
	var errorMessage, listedAt sql.NullString
	var status, createdAt, updatedAt string

	err := s.Scan(&p.ID, &p.SupplierID, &p.SupplierProductID, &p.Name, &p.Cost, &p.ShippingFee,
		&p.CategoryCode, &p.CategoryName, &p.MarketplaceID, &targetPrice, &status, &errorMessage,
		&listedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if targetPrice.Valid {
		p.TargetPrice = &targetPrice.Int64
	}
	p.Status = models.ProductStatus(status)
	p.ErrorMessage = errorMessage.String
	if listedAt.Valid {
		t, _ := time.Parse(time.RFC3339, listedAt.String)
		p.ListedAt = &t
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
