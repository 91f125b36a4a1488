// Package category resolves supplier categories to marketplace categories
// using a three-tier strategy: exact mapping lookup, keyword overlap, then
// string similarity. Misses are surfaced to the caller for manual mapping
// rather than guessed.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sellbridge/sellbridge-api/internal/models"
)

// ErrUnresolvedCategory indicates no tier produced a match. The product
// should be queued for manual categorization; this is not fatal for the
// pipeline.
var ErrUnresolvedCategory = errors.New("category could not be resolved")

// ErrManualMappingExists is returned by MappingStore.UpsertAutomatic when a
// manual mapping already covers the triple. The resolver treats it as a
// concurrent manual resolution, not a failure.
var ErrManualMappingExists = errors.New("manual mapping exists for this category")

// MappingStore is the persistence surface the resolver needs. Implementations
// return (nil, nil) from FindExact when no row exists.
type MappingStore interface {
	// FindExact returns the mapping for an exact (supplier, code, marketplace)
	// triple, or nil when none exists.
	FindExact(ctx context.Context, supplierID, supplierCategoryCode, marketplaceID string) (*models.CategoryMapping, error)

	// ListTargets returns the known marketplace categories for a marketplace,
	// deduplicated by category code.
	ListTargets(ctx context.Context, marketplaceID string) ([]models.CategoryMapping, error)

	// UpsertAutomatic persists a non-manual mapping. It must refuse to
	// overwrite an existing manual mapping for the same triple, returning
	// ErrManualMappingExists.
	UpsertAutomatic(ctx context.Context, m *models.CategoryMapping) error
}

// Resolution is the outcome of a successful resolve, carrying the tier that
// produced it so fallbacks stay observable to the caller.
type Resolution struct {
	MarketplaceCategoryCode string                  `json:"marketplace_category_code"`
	MarketplaceCategoryName string                  `json:"marketplace_category_name"`
	Confidence              float64                 `json:"confidence"`
	Method                  models.ResolutionMethod `json:"method"`
}

// Resolver resolves supplier categories against the mapping store.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	store               MappingStore
	keywordThreshold    float64
	similarityThreshold float64
	logger              *slog.Logger
}

// NewResolver builds a resolver. Thresholds gate tier 2 (keyword overlap)
// and tier 3 (string similarity) acceptance.
func NewResolver(store MappingStore, keywordThreshold, similarityThreshold float64, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:               store,
		keywordThreshold:    keywordThreshold,
		similarityThreshold: similarityThreshold,
		logger:              logger,
	}
}

// Resolve maps a supplier category onto a marketplace category.
//
// Tiers run in order and the first success wins. Tier 2/3 hits are cached as
// non-manual mappings so the next identical lookup short-circuits to tier 1;
// the cache write never displaces a manual mapping.
func (r *Resolver) Resolve(ctx context.Context, supplierID, supplierCategoryCode, supplierCategoryName, marketplaceID string) (*Resolution, error) {
	// Tier 1: exact mapping. Manual rows carry confidence 1.0 and always win.
	existing, err := r.store.FindExact(ctx, supplierID, supplierCategoryCode, marketplaceID)
	if err != nil {
		return nil, fmt.Errorf("lookup exact mapping: %w", err)
	}
	if existing != nil {
		return &Resolution{
			MarketplaceCategoryCode: existing.MarketplaceCategoryCode,
			MarketplaceCategoryName: existing.MarketplaceCategoryName,
			Confidence:              existing.Confidence,
			Method:                  models.ResolutionExact,
		}, nil
	}

	targets, err := r.store.ListTargets(ctx, marketplaceID)
	if err != nil {
		return nil, fmt.Errorf("list marketplace categories: %w", err)
	}

	// Tier 2: token overlap against known marketplace category names.
	if res := bestMatch(supplierCategoryName, targets, JaccardScore, r.keywordThreshold, models.ResolutionKeyword); res != nil {
		return r.cache(ctx, supplierID, supplierCategoryCode, supplierCategoryName, marketplaceID, res)
	}

	// Tier 3: normalized edit-distance similarity, looser threshold.
	if res := bestMatch(supplierCategoryName, targets, SimilarityScore, r.similarityThreshold, models.ResolutionSimilarity); res != nil {
		return r.cache(ctx, supplierID, supplierCategoryCode, supplierCategoryName, marketplaceID, res)
	}

	r.logger.Info("category resolution miss",
		"supplier_id", supplierID,
		"supplier_category_code", supplierCategoryCode,
		"marketplace_id", marketplaceID,
	)
	return nil, fmt.Errorf("%w: supplier %s code %s for marketplace %s",
		ErrUnresolvedCategory, supplierID, supplierCategoryCode, marketplaceID)
}

// bestMatch scores the supplier name against every candidate and returns the
// top scorer at or above the threshold, or nil.
func bestMatch(name string, targets []models.CategoryMapping, score func(a, b string) float64, threshold float64, method models.ResolutionMethod) *Resolution {
	var best *Resolution
	for i := range targets {
		t := &targets[i]
		s := score(name, t.MarketplaceCategoryName)
		if s < threshold {
			continue
		}
		if best == nil || s > best.Confidence {
			best = &Resolution{
				MarketplaceCategoryCode: t.MarketplaceCategoryCode,
				MarketplaceCategoryName: t.MarketplaceCategoryName,
				Confidence:              s,
				Method:                  method,
			}
		}
	}
	return best
}

// cache persists a tier-2/3 hit as a non-manual mapping and returns the
// resolution to report. When a manual mapping landed between the tier-1 miss
// and the cache write, the manual row wins over the computed match.
func (r *Resolver) cache(ctx context.Context, supplierID, code, name, marketplaceID string, res *Resolution) (*Resolution, error) {
	now := time.Now().UTC()
	m := &models.CategoryMapping{
		ID:                      ulid.Make().String(),
		SupplierID:              supplierID,
		SupplierCategoryCode:    code,
		SupplierCategoryName:    name,
		MarketplaceID:           marketplaceID,
		MarketplaceCategoryCode: res.MarketplaceCategoryCode,
		MarketplaceCategoryName: res.MarketplaceCategoryName,
		Confidence:              res.Confidence,
		IsManual:                false,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := r.store.UpsertAutomatic(ctx, m); err != nil {
		if errors.Is(err, ErrManualMappingExists) {
			manual, ferr := r.store.FindExact(ctx, supplierID, code, marketplaceID)
			if ferr == nil && manual != nil {
				return &Resolution{
					MarketplaceCategoryCode: manual.MarketplaceCategoryCode,
					MarketplaceCategoryName: manual.MarketplaceCategoryName,
					Confidence:              manual.Confidence,
					Method:                  models.ResolutionExact,
				}, nil
			}
			// Re-read failed; the computed match is still a valid resolution.
			return res, nil
		}
		return nil, fmt.Errorf("cache category mapping: %w", err)
	}
	r.logger.Debug("category mapping cached",
		"supplier_id", supplierID,
		"supplier_category_code", code,
		"marketplace_category_code", res.MarketplaceCategoryCode,
		"method", string(res.Method),
		"confidence", res.Confidence,
	)
	return res, nil
}
