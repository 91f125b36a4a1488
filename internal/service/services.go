// Package service contains the business logic layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/airouter"
	"github.com/sellbridge/sellbridge-api/internal/category"
	"github.com/sellbridge/sellbridge-api/internal/config"
	"github.com/sellbridge/sellbridge-api/internal/crypto"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// Services holds all service instances.
type Services struct {
	Listing  *ListingService
	Rules    *RuleService
	Category *CategoryService
	Usage    *UsageService
	APIKey   *APIKeyService
	Supplier *SupplierService
}

// NewServices creates all service instances.
func NewServices(cfg *config.Config, repos *repository.Repositories, logger *slog.Logger) (*Services, error) {
	// Encryptor guards supplier API credentials at rest
	var encryptor *crypto.Encryptor
	if len(cfg.EncryptionKey) > 0 {
		var err error
		encryptor, err = crypto.NewEncryptor(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create encryptor: %w", err)
		}
	} else {
		logger.Warn("no encryption key configured - supplier credentials will be rejected")
	}

	resolver := category.NewResolver(repos.CategoryMappings, cfg.CategoryKeywordThreshold, cfg.CategorySimilarityThreshold, logger)

	ruleSvc := NewRuleService(repos, logger)
	categorySvc := NewCategoryService(repos, resolver, logger)

	usageSvc, err := NewUsageService(context.Background(), repos, cfg.AIMonthlyBudgetUSD, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage service: %w", err)
	}

	listingSvc := NewListingService(repos, ruleSvc, categorySvc, logger)
	apiKeySvc := NewAPIKeyService(repos, logger)
	supplierSvc := NewSupplierService(repos, encryptor, logger)

	return &Services{
		Listing:  listingSvc,
		Rules:    ruleSvc,
		Category: categorySvc,
		Usage:    usageSvc,
		APIKey:   apiKeySvc,
		Supplier: supplierSvc,
	}, nil
}

// currentPeriod returns the billing period key for now.
func currentPeriod() string {
	return airouter.Period(time.Now())
}
