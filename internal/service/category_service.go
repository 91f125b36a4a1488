package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sellbridge/sellbridge-api/internal/category"
	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// CategoryService wraps the resolution engine with mapping management and
// the manual review queue.
type CategoryService struct {
	repos    *repository.Repositories
	resolver *category.Resolver
	logger   *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repos *repository.Repositories, resolver *category.Resolver, logger *slog.Logger) *CategoryService {
	return &CategoryService{repos: repos, resolver: resolver, logger: logger}
}

// Resolve maps a supplier category to a marketplace category.
func (s *CategoryService) Resolve(ctx context.Context, supplierID, code, name, marketplaceID string) (*category.Resolution, error) {
	return s.resolver.Resolve(ctx, supplierID, code, name, marketplaceID)
}

// QueueForReview records a resolution miss for an operator. Re-queueing the
// same product is a no-op.
func (s *CategoryService) QueueForReview(ctx context.Context, p *models.Product) error {
	item := &models.ReviewItem{
		ID:                   ulid.Make().String(),
		ProductID:            p.ID,
		SupplierID:           p.SupplierID,
		SupplierCategoryCode: p.CategoryCode,
		SupplierCategoryName: p.CategoryName,
		MarketplaceID:        p.MarketplaceID,
		CreatedAt:            time.Now().UTC(),
	}
	if err := s.repos.ReviewQueue.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("enqueue review item: %w", err)
	}
	s.logger.Info("product queued for manual categorization",
		"product_id", p.ID,
		"supplier_category_code", p.CategoryCode,
	)
	return nil
}

// OpenReviewItems lists unresolved review queue entries.
func (s *CategoryService) OpenReviewItems(ctx context.Context, limit int) ([]models.ReviewItem, error) {
	return s.repos.ReviewQueue.ListOpen(ctx, limit)
}

// ResolveReviewItem applies an operator's manual mapping and closes the
// queue entry. Products still in manual_review are relisted explicitly by
// the operator.
func (s *CategoryService) ResolveReviewItem(ctx context.Context, itemID string, mapping *models.CategoryMapping) error {
	if err := s.AddManualMapping(ctx, mapping); err != nil {
		return err
	}
	if err := s.repos.ReviewQueue.Resolve(ctx, itemID); err != nil {
		return fmt.Errorf("resolve review item: %w", err)
	}
	return nil
}

// AddManualMapping stores an operator-curated mapping. Manual mappings carry
// confidence 1.0 and displace any automatic row for the same triple.
func (s *CategoryService) AddManualMapping(ctx context.Context, m *models.CategoryMapping) error {
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	m.IsManual = true
	m.Confidence = 1.0
	if err := s.repos.CategoryMappings.UpsertManual(ctx, m); err != nil {
		return fmt.Errorf("upsert manual mapping: %w", err)
	}
	s.logger.Info("manual category mapping stored",
		"supplier_id", m.SupplierID,
		"supplier_category_code", m.SupplierCategoryCode,
		"marketplace_category_code", m.MarketplaceCategoryCode,
	)
	return nil
}

// MappingsForSupplier lists every mapping for one supplier.
func (s *CategoryService) MappingsForSupplier(ctx context.Context, supplierID string) ([]models.CategoryMapping, error) {
	return s.repos.CategoryMappings.ListBySupplier(ctx, supplierID)
}
