package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLiteAuditRepository implements AuditRepository for SQLite.
type SQLiteAuditRepository struct {
	db *sql.DB
}

// NewSQLiteAuditRepository creates a new SQLite audit repository.
func NewSQLiteAuditRepository(db *sql.DB) *SQLiteAuditRepository {
	return &SQLiteAuditRepository{db: db}
}

func (r *SQLiteAuditRepository) Create(ctx context.Context, a *models.ListingAudit) error {
	query := `INSERT INTO listing_audits
		(id, product_id, rule_id, final_price, margin_amount, marketplace_category_code, resolution_method, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ProductID, a.RuleID, a.FinalPrice, a.MarginAmount,
		a.MarketplaceCategoryCode, string(a.ResolutionMethod), a.Confidence,
		a.CreatedAt.Format(time.RFC3339),
	)
	return err
}

func (r *SQLiteAuditRepository) GetByProductID(ctx context.Context, productID string) ([]models.ListingAudit, error) {
	query := `SELECT id, product_id, rule_id, final_price, margin_amount, marketplace_category_code, resolution_method, confidence, created_at
		FROM listing_audits WHERE product_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []models.ListingAudit
	for rows.Next() {
		var a models.ListingAudit
		var method, createdAt string
		if err := rows.Scan(&a.ID, &a.ProductID, &a.RuleID, &a.FinalPrice, &a.MarginAmount,
			&a.MarketplaceCategoryCode, &method, &a.Confidence, &createdAt); err != nil {
			return nil, err
		}
		a.ResolutionMethod = models.ResolutionMethod(method)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		audits = append(audits, a)
	}
	return audits, rows.Err()
}
