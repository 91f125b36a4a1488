package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// SQLitePricingRuleRepository implements PricingRuleRepository for SQLite.
// Conditions and additional costs are stored as JSON columns.
type SQLitePricingRuleRepository struct {
	db *sql.DB
}

// NewSQLitePricingRuleRepository creates a new SQLite pricing rule repository.
func NewSQLitePricingRuleRepository(db *sql.DB) *SQLitePricingRuleRepository {
	return &SQLitePricingRuleRepository{db: db}
}

const pricingRuleColumns = `id, name, priority, seed_order, conditions_json, pricing_method,
	margin_rate, fixed_margin, min_margin_amount, additional_costs_json, round_to, price_ending,
	is_active, created_at, updated_at`

func (r *SQLitePricingRuleRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	costs, err := json.Marshal(rule.AdditionalCosts)
	if err != nil {
		return fmt.Errorf("marshal additional costs: %w", err)
	}
	query := `INSERT INTO pricing_rules (` + pricingRuleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.Priority, rule.SeedOrder, string(conditions), string(rule.Method),
		rule.MarginRate, rule.FixedMargin, rule.MinMarginAmount, string(costs), rule.RoundTo, rule.PriceEnding,
		boolToInt(rule.IsActive), rule.CreatedAt.Format(time.RFC3339), rule.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

func (r *SQLitePricingRuleRepository) GetByID(ctx context.Context, id string) (*models.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE id = ?`
	rule, err := scanPricingRule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *SQLitePricingRuleRepository) ListActive(ctx context.Context) ([]models.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules
		WHERE is_active = 1 ORDER BY priority DESC, seed_order ASC`
	return r.list(ctx, query)
}

func (r *SQLitePricingRuleRepository) List(ctx context.Context) ([]models.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules ORDER BY priority DESC, seed_order ASC`
	return r.list(ctx, query)
}

func (r *SQLitePricingRuleRepository) list(ctx context.Context, query string) ([]models.PricingRule, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *SQLitePricingRuleRepository) Update(ctx context.Context, rule *models.PricingRule) error {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	costs, err := json.Marshal(rule.AdditionalCosts)
	if err != nil {
		return fmt.Errorf("marshal additional costs: %w", err)
	}
	query := `UPDATE pricing_rules SET
		name = ?, priority = ?, conditions_json = ?, pricing_method = ?,
		margin_rate = ?, fixed_margin = ?, min_margin_amount = ?, additional_costs_json = ?,
		round_to = ?, price_ending = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		rule.Name, rule.Priority, string(conditions), string(rule.Method),
		rule.MarginRate, rule.FixedMargin, rule.MinMarginAmount, string(costs),
		rule.RoundTo, rule.PriceEnding, boolToInt(rule.IsActive), time.Now().UTC().Format(time.RFC3339),
		rule.ID,
	)
	return err
}

func (r *SQLitePricingRuleRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE pricing_rules SET is_active = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, boolToInt(active), time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func (r *SQLitePricingRuleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pricing_rules WHERE id = ?`, id)
	return err
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanPricingRule(s scanner) (*models.PricingRule, error) {
	var rule models.PricingRule
	var conditionsJSON, costsJSON, method, createdAt, updatedAt string
	var priceEnding sql.NullInt64
	var isActive int

	err := s.Scan(&rule.ID, &rule.Name, &rule.Priority, &rule.SeedOrder, &conditionsJSON, &method,
		&rule.MarginRate, &rule.FixedMargin, &rule.MinMarginAmount, &costsJSON, &rule.RoundTo, &priceEnding,
		&isActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(conditionsJSON), &rule.Conditions); err != nil {
		return nil, fmt.Errorf("unmarshal conditions for rule %s: %w", rule.ID, err)
	}
	if err := json.Unmarshal([]byte(costsJSON), &rule.AdditionalCosts); err != nil {
		return nil, fmt.Errorf("unmarshal additional costs for rule %s: %w", rule.ID, err)
	}
	rule.Method = models.PricingMethod(method)
	if priceEnding.Valid {
		rule.PriceEnding = &priceEnding.Int64
	}
	rule.IsActive = isActive != 0
	rule.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rule.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rule, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
