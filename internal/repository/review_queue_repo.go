package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteReviewQueueRepository implements ReviewQueueRepository for SQLite.
type SQLiteReviewQueueRepository struct {
	db *sql.DB
}

// NewSQLiteReviewQueueRepository creates a new SQLite review queue repository.
func NewSQLiteReviewQueueRepository(db *sql.DB) *SQLiteReviewQueueRepository {
	return &SQLiteReviewQueueRepository{db: db}
}

func (r *SQLiteReviewQueueRepository) Enqueue(ctx context.Context, item *models.ReviewItem) error {
	// INSERT OR IGNORE keeps one open entry per product
	query := `INSERT OR IGNORE INTO manual_review_queue
		(id, product_id, supplier_id, supplier_category_code, supplier_category_name, marketplace_id, resolved_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ProductID, item.SupplierID, item.SupplierCategoryCode, item.SupplierCategoryName,
		item.MarketplaceID, item.CreatedAt.Format(time.RFC3339),
	)
	return err
}

func (r *SQLiteReviewQueueRepository) ListOpen(ctx context.Context, limit int) ([]models.ReviewItem, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, product_id, supplier_id, supplier_category_code, supplier_category_name, marketplace_id, resolved_at, created_at
		FROM manual_review_queue WHERE resolved_at IS NULL ORDER BY created_at ASC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ReviewItem
	for rows.Next() {
		var item models.ReviewItem
		var resolvedAt sql.NullString
		var createdAt string
		if err := rows.Scan(&item.ID, &item.ProductID, &item.SupplierID, &item.SupplierCategoryCode,
			&item.SupplierCategoryName, &item.MarketplaceID, &resolvedAt, &createdAt); err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			t, _ := time.Parse(time.RFC3339, resolvedAt.String)
			item.ResolvedAt = &t
		}
		item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLiteReviewQueueRepository) Resolve(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE manual_review_queue SET resolved_at = ? WHERE id = ? AND resolved_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	return err
}
