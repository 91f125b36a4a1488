package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sellbridge/sellbridge-api/internal/category"
	"github.com/sellbridge/sellbridge-api/internal/logging"
	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/pricing"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// ListingService runs the listing pipeline for one product: resolve the
// marketplace category, compute the sale price, write the audit trail and
// advance the product's status.
type ListingService struct {
	repos    *repository.Repositories
	rules    *RuleService
	category *CategoryService
	logger   *slog.Logger
}

// NewListingService creates a new listing service.
func NewListingService(repos *repository.Repositories, rules *RuleService, categorySvc *CategoryService, logger *slog.Logger) *ListingService {
	return &ListingService{
		repos:    repos,
		rules:    rules,
		category: categorySvc,
		logger:   logger,
	}
}

// Submit validates and stores a new product in pending state.
func (s *ListingService) Submit(ctx context.Context, p *models.Product) error {
	if p.Cost <= 0 {
		return fmt.Errorf("%w: cost %d", pricing.ErrInvalidCost, p.Cost)
	}
	if p.SupplierID == "" || p.MarketplaceID == "" {
		return fmt.Errorf("supplier_id and marketplace_id are required")
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	p.Status = models.ProductStatusPending
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repos.Products.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product submitted", "product_id", p.ID, "supplier_id", p.SupplierID, "cost", p.Cost)
	return nil
}

// Process runs the pipeline for one claimed product and persists the outcome.
//
// Error taxonomy decides the terminal status: a category miss parks the
// product in manual_review and queues it for an operator; invalid input and
// configuration errors mark it failed; everything else is returned to the
// caller with the product left in processing for a retry.
func (s *ListingService) Process(ctx context.Context, p *models.Product) error {
	ctx = logging.WithProductID(ctx, p.ID)

	res, err := s.category.Resolve(ctx, p.SupplierID, p.CategoryCode, p.CategoryName, p.MarketplaceID)
	if err != nil {
		if errors.Is(err, category.ErrUnresolvedCategory) {
			return s.parkForReview(ctx, p)
		}
		return fmt.Errorf("resolve category for %s: %w", p.ID, err)
	}

	engine, err := s.rules.Engine(ctx)
	if err != nil {
		return fmt.Errorf("build pricing engine: %w", err)
	}

	quote, err := engine.CalculatePrice(p)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidCost) ||
			errors.Is(err, pricing.ErrNoMatchingRule) ||
			errors.Is(err, pricing.ErrMarginConfiguration) {
			return s.markFailed(ctx, p, err)
		}
		return fmt.Errorf("price product %s: %w", p.ID, err)
	}

	audit := &models.ListingAudit{
		ID:                      ulid.Make().String(),
		ProductID:               p.ID,
		RuleID:                  quote.RuleID,
		FinalPrice:              quote.FinalPrice,
		MarginAmount:            quote.MarginAmount,
		MarketplaceCategoryCode: res.MarketplaceCategoryCode,
		ResolutionMethod:        res.Method,
		Confidence:              res.Confidence,
		CreatedAt:               time.Now().UTC(),
	}
	if err := s.repos.Audits.Create(ctx, audit); err != nil {
		return fmt.Errorf("write listing audit: %w", err)
	}

	now := time.Now().UTC()
	p.Status = models.ProductStatusListed
	p.ErrorMessage = ""
	p.ListedAt = &now
	if err := s.repos.Products.Update(ctx, p); err != nil {
		return fmt.Errorf("mark product listed: %w", err)
	}

	logging.FromContext(ctx, s.logger).Info("product listed",
		"rule_id", quote.RuleID,
		"final_price", quote.FinalPrice,
		"category_code", res.MarketplaceCategoryCode,
		"resolution_method", string(res.Method),
		"confidence", res.Confidence,
	)
	return nil
}

// parkForReview moves a product to manual_review and queues it.
func (s *ListingService) parkForReview(ctx context.Context, p *models.Product) error {
	if err := s.category.QueueForReview(ctx, p); err != nil {
		return err
	}
	p.Status = models.ProductStatusManualReview
	p.ErrorMessage = "category unresolved"
	if err := s.repos.Products.Update(ctx, p); err != nil {
		return fmt.Errorf("park product for review: %w", err)
	}
	return nil
}

// markFailed records a terminal failure on the product. The pipeline keeps
// going for other products.
func (s *ListingService) markFailed(ctx context.Context, p *models.Product, cause error) error {
	p.Status = models.ProductStatusFailed
	p.ErrorMessage = cause.Error()
	if err := s.repos.Products.Update(ctx, p); err != nil {
		return fmt.Errorf("mark product failed: %w", err)
	}
	logging.FromContext(ctx, s.logger).Warn("product rejected", "error", cause)
	return nil
}

// Audits returns the audit trail for a product.
func (s *ListingService) Audits(ctx context.Context, productID string) ([]models.ListingAudit, error) {
	return s.repos.Audits.GetByProductID(ctx, productID)
}

// StatusCounts reports the pipeline backlog by status.
func (s *ListingService) StatusCounts(ctx context.Context) (map[models.ProductStatus]int, error) {
	return s.repos.Products.CountByStatus(ctx)
}
