package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/database/migrations"
	"github.com/sellbridge/sellbridge-api/internal/models"
	_ "github.com/tursodatabase/go-libsql"
)

// setupTestDB creates an in-memory SQLite database for testing.
// It runs migrations and returns a database connection that will be cleaned up
// when the test completes.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := migrations.Run(db, nil); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// setupTestRepos creates all repositories using a test database.
func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db := setupTestDB(t)
	return NewRepositories(db)
}

// InsertTestSupplier is a helper to insert a supplier directly.
func InsertTestSupplier(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()
	query := `INSERT INTO suppliers (id, name, is_active, created_at) VALUES (?, ?, 1, datetime('now'))`
	if _, err := db.Exec(query, id, name); err != nil {
		t.Fatalf("failed to insert test supplier: %v", err)
	}
}

// InsertTestProduct is a helper to insert a product directly.
func InsertTestProduct(t *testing.T, db *sql.DB, id, supplierID, status string, cost int64) {
	t.Helper()
	query := `
		INSERT INTO products (id, supplier_id, supplier_product_id, name, cost, marketplace_id, status, created_at, updated_at)
		VALUES (?, ?, ?, 'Test Product', ?, 'coupang', ?, datetime('now'), datetime('now'))
	`
	if _, err := db.Exec(query, id, supplierID, "sp-"+id, cost, status); err != nil {
		t.Fatalf("failed to insert test product: %v", err)
	}
}

// testRule returns a minimal valid pricing rule for repository tests.
func testRule(id string, priority int) *models.PricingRule {
	now := time.Now().UTC()
	return &models.PricingRule{
		ID:              id,
		Name:            "Rule " + id,
		Priority:        priority,
		SeedOrder:       priority,
		Conditions:      models.RuleConditions{MaxCost: 10000},
		Method:          models.MethodMarginRate,
		MarginRate:      0.35,
		MinMarginAmount: 2000,
		RoundTo:         100,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
