package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

func testMapping(supplierID, code, marketplaceCode string) *models.CategoryMapping {
	now := time.Now().UTC()
	return &models.CategoryMapping{
		ID:                      "map-test-" + supplierID + "-" + code,
		SupplierID:              supplierID,
		SupplierCategoryCode:    code,
		SupplierCategoryName:    "테스트 카테고리",
		MarketplaceID:           "coupang",
		MarketplaceCategoryCode: marketplaceCode,
		MarketplaceCategoryName: "테스트 타겟",
		Confidence:              0.6,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

func TestCategoryMappingRepository_FindExact_Seeded(t *testing.T) {
	repos := setupTestRepos(t)

	got, err := repos.CategoryMappings.FindExact(context.Background(), "domeme", "001", "coupang")
	if err != nil {
		t.Fatalf("FindExact() error = %v", err)
	}
	if got == nil {
		t.Fatal("seeded mapping domeme/001/coupang not found")
	}
	if got.MarketplaceCategoryCode != "194176" {
		t.Errorf("MarketplaceCategoryCode = %q, want 194176", got.MarketplaceCategoryCode)
	}
	if !got.IsManual || got.Confidence != 1.0 {
		t.Errorf("seeded mapping should be manual with confidence 1.0, got manual=%t confidence=%v", got.IsManual, got.Confidence)
	}
}

func TestCategoryMappingRepository_FindExact_Missing(t *testing.T) {
	repos := setupTestRepos(t)

	got, err := repos.CategoryMappings.FindExact(context.Background(), "domeme", "zzz", "coupang")
	if err != nil {
		t.Fatalf("FindExact() error = %v", err)
	}
	if got != nil {
		t.Errorf("FindExact() = %+v, want nil for missing triple", got)
	}
}

func TestCategoryMappingRepository_UpsertAutomatic(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	m := testMapping("ownerclan", "A77", "555000")
	if err := repos.CategoryMappings.UpsertAutomatic(ctx, m); err != nil {
		t.Fatalf("UpsertAutomatic() error = %v", err)
	}

	got, err := repos.CategoryMappings.FindExact(ctx, "ownerclan", "A77", "coupang")
	if err != nil || got == nil {
		t.Fatalf("FindExact() after upsert: %v, %v", got, err)
	}
	if got.IsManual {
		t.Error("automatic upsert produced a manual row")
	}
	if got.Confidence != 0.6 {
		t.Errorf("Confidence = %v, want 0.6", got.Confidence)
	}

	// Second write with a better score updates the automatic row in place.
	m2 := testMapping("ownerclan", "A77", "555001")
	m2.ID = "map-test-second"
	m2.Confidence = 0.8
	if err := repos.CategoryMappings.UpsertAutomatic(ctx, m2); err != nil {
		t.Fatalf("second UpsertAutomatic() error = %v", err)
	}
	got, _ = repos.CategoryMappings.FindExact(ctx, "ownerclan", "A77", "coupang")
	if got.MarketplaceCategoryCode != "555001" || got.Confidence != 0.8 {
		t.Errorf("automatic row not updated: %+v", got)
	}
}

func TestCategoryMappingRepository_AutomaticNeverOverwritesManual(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	// domeme/001/coupang is seeded as a manual mapping to 194176
	m := testMapping("domeme", "001", "999999")
	err := repos.CategoryMappings.UpsertAutomatic(ctx, m)
	if !errors.Is(err, ErrManualMappingExists) {
		t.Fatalf("UpsertAutomatic() over manual = %v, want ErrManualMappingExists", err)
	}

	got, err := repos.CategoryMappings.FindExact(ctx, "domeme", "001", "coupang")
	if err != nil || got == nil {
		t.Fatalf("FindExact(): %v, %v", got, err)
	}
	if got.MarketplaceCategoryCode != "194176" || !got.IsManual {
		t.Errorf("manual mapping was modified: %+v", got)
	}
}

func TestCategoryMappingRepository_ManualDisplacesAutomatic(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	auto := testMapping("ownerclan", "B12", "111000")
	if err := repos.CategoryMappings.UpsertAutomatic(ctx, auto); err != nil {
		t.Fatalf("UpsertAutomatic() error = %v", err)
	}

	manual := testMapping("ownerclan", "B12", "222000")
	manual.ID = "map-test-manual"
	if err := repos.CategoryMappings.UpsertManual(ctx, manual); err != nil {
		t.Fatalf("UpsertManual() error = %v", err)
	}

	got, _ := repos.CategoryMappings.FindExact(ctx, "ownerclan", "B12", "coupang")
	if !got.IsManual || got.MarketplaceCategoryCode != "222000" || got.Confidence != 1.0 {
		t.Errorf("manual upsert did not displace automatic row: %+v", got)
	}
}

func TestCategoryMappingRepository_ListTargets(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	// Two suppliers mapping onto the same marketplace category must surface
	// as one target.
	a := testMapping("domeme", "070", "777000")
	b := testMapping("ownerclan", "X70", "777000")
	if err := repos.CategoryMappings.UpsertAutomatic(ctx, a); err != nil {
		t.Fatalf("UpsertAutomatic() error = %v", err)
	}
	if err := repos.CategoryMappings.UpsertAutomatic(ctx, b); err != nil {
		t.Fatalf("UpsertAutomatic() error = %v", err)
	}

	targets, err := repos.CategoryMappings.ListTargets(ctx, "coupang")
	if err != nil {
		t.Fatalf("ListTargets() error = %v", err)
	}

	seen := make(map[string]int)
	for _, target := range targets {
		seen[target.MarketplaceCategoryCode]++
	}
	if seen["777000"] != 1 {
		t.Errorf("target 777000 appears %d times, want 1", seen["777000"])
	}
	// Seeded manual targets are present too
	if seen["194176"] != 1 {
		t.Errorf("seeded target 194176 appears %d times, want 1", seen["194176"])
	}
}
