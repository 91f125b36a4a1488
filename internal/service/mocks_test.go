package service

import (
	"context"
	"sync"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// Mutex-guarded in-memory repositories for service tests.

type mockPricingRuleRepo struct {
	mu    sync.Mutex
	rules map[string]*models.PricingRule
}

func newMockPricingRuleRepo() *mockPricingRuleRepo {
	return &mockPricingRuleRepo{rules: make(map[string]*models.PricingRule)}
}

func (m *mockPricingRuleRepo) Create(_ context.Context, rule *models.PricingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *mockPricingRuleRepo) GetByID(_ context.Context, id string) (*models.PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rules[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *mockPricingRuleRepo) ListActive(_ context.Context) ([]models.PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PricingRule
	for _, r := range m.rules {
		if r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockPricingRuleRepo) List(_ context.Context) ([]models.PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PricingRule
	for _, r := range m.rules {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockPricingRuleRepo) Update(_ context.Context, rule *models.PricingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *mockPricingRuleRepo) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rules[id]; ok {
		r.IsActive = active
	}
	return nil
}

func (m *mockPricingRuleRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, id)
	return nil
}

type mockCategoryMappingRepo struct {
	mu       sync.Mutex
	mappings map[string]*models.CategoryMapping
}

func newMockCategoryMappingRepo() *mockCategoryMappingRepo {
	return &mockCategoryMappingRepo{mappings: make(map[string]*models.CategoryMapping)}
}

func mappingKey(supplierID, code, marketplaceID string) string {
	return supplierID + "|" + code + "|" + marketplaceID
}

func (m *mockCategoryMappingRepo) FindExact(_ context.Context, supplierID, code, marketplaceID string) (*models.CategoryMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mp, ok := m.mappings[mappingKey(supplierID, code, marketplaceID)]; ok {
		cp := *mp
		return &cp, nil
	}
	return nil, nil
}

func (m *mockCategoryMappingRepo) ListTargets(_ context.Context, marketplaceID string) ([]models.CategoryMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var out []models.CategoryMapping
	for _, mp := range m.mappings {
		if mp.MarketplaceID != marketplaceID || seen[mp.MarketplaceCategoryCode] {
			continue
		}
		seen[mp.MarketplaceCategoryCode] = true
		out = append(out, *mp)
	}
	return out, nil
}

func (m *mockCategoryMappingRepo) ListBySupplier(_ context.Context, supplierID string) ([]models.CategoryMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CategoryMapping
	for _, mp := range m.mappings {
		if mp.SupplierID == supplierID {
			out = append(out, *mp)
		}
	}
	return out, nil
}

func (m *mockCategoryMappingRepo) UpsertAutomatic(_ context.Context, mp *models.CategoryMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := mappingKey(mp.SupplierID, mp.SupplierCategoryCode, mp.MarketplaceID)
	if existing, ok := m.mappings[key]; ok && existing.IsManual {
		return repository.ErrManualMappingExists
	}
	cp := *mp
	cp.IsManual = false
	m.mappings[key] = &cp
	return nil
}

func (m *mockCategoryMappingRepo) UpsertManual(_ context.Context, mp *models.CategoryMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mp
	cp.IsManual = true
	cp.Confidence = 1.0
	m.mappings[mappingKey(mp.SupplierID, mp.SupplierCategoryCode, mp.MarketplaceID)] = &cp
	return nil
}

type mockProductRepo struct {
	mu       sync.Mutex
	products map[string]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]*models.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockProductRepo) ListByStatus(_ context.Context, status models.ProductStatus, limit, _ int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.Status == status && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) ClaimPending(_ context.Context) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *models.Product
	for _, p := range m.products {
		if p.Status != models.ProductStatusPending {
			continue
		}
		if oldest == nil || p.CreatedAt.Before(oldest.CreatedAt) {
			oldest = p
		}
	}
	if oldest == nil {
		return nil, nil
	}
	oldest.Status = models.ProductStatusProcessing
	cp := *oldest
	return &cp, nil
}

func (m *mockProductRepo) Release(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok && p.Status == models.ProductStatusProcessing {
		p.Status = models.ProductStatusPending
	}
	return nil
}

func (m *mockProductRepo) CountByStatus(_ context.Context) (map[models.ProductStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.ProductStatus]int)
	for _, p := range m.products {
		counts[p.Status]++
	}
	return counts, nil
}

type mockAuditRepo struct {
	mu     sync.Mutex
	audits []models.ListingAudit
}

func (m *mockAuditRepo) Create(_ context.Context, a *models.ListingAudit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, *a)
	return nil
}

func (m *mockAuditRepo) GetByProductID(_ context.Context, productID string) ([]models.ListingAudit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ListingAudit
	for _, a := range m.audits {
		if a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[string]*models.Supplier
}

func newMockSupplierRepo() *mockSupplierRepo {
	return &mockSupplierRepo{suppliers: make(map[string]*models.Supplier)}
}

func (m *mockSupplierRepo) Create(_ context.Context, s *models.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.suppliers[s.ID] = &cp
	return nil
}

func (m *mockSupplierRepo) GetByID(_ context.Context, id string) (*models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.suppliers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *mockSupplierRepo) List(_ context.Context) ([]models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Supplier
	for _, s := range m.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

type mockAPIKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*models.APIKey
}

func newMockAPIKeyRepo() *mockAPIKeyRepo {
	return &mockAPIKeyRepo{keys: make(map[string]*models.APIKey)}
}

func (m *mockAPIKeyRepo) Create(_ context.Context, key *models.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *key
	m.keys[key.ID] = &cp
	return nil
}

func (m *mockAPIKeyRepo) GetByKeyHash(_ context.Context, hash string) (*models.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range m.keys {
		if key.KeyHash == hash && key.RevokedAt == nil {
			cp := *key
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAPIKeyRepo) List(_ context.Context) ([]models.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.APIKey
	for _, key := range m.keys {
		out = append(out, *key)
	}
	return out, nil
}

func (m *mockAPIKeyRepo) UpdateLastUsed(_ context.Context, id string, lastUsed time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key, ok := m.keys[id]; ok {
		key.LastUsedAt = &lastUsed
	}
	return nil
}

func (m *mockAPIKeyRepo) Revoke(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key, ok := m.keys[id]; ok && key.RevokedAt == nil {
		now := time.Now().UTC()
		key.RevokedAt = &now
	}
	return nil
}

type mockReviewQueueRepo struct {
	mu    sync.Mutex
	items map[string]*models.ReviewItem
}

func newMockReviewQueueRepo() *mockReviewQueueRepo {
	return &mockReviewQueueRepo{items: make(map[string]*models.ReviewItem)}
}

func (m *mockReviewQueueRepo) Enqueue(_ context.Context, item *models.ReviewItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ProductID == item.ProductID {
			return nil
		}
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockReviewQueueRepo) ListOpen(_ context.Context, limit int) ([]models.ReviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReviewItem
	for _, item := range m.items {
		if item.ResolvedAt == nil && len(out) < limit {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockReviewQueueRepo) Resolve(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[id]; ok && item.ResolvedAt == nil {
		now := time.Now().UTC()
		item.ResolvedAt = &now
	}
	return nil
}

type mockModelSpecRepo struct {
	mu    sync.Mutex
	specs []models.ModelSpec
}

func (m *mockModelSpecRepo) Create(_ context.Context, spec *models.ModelSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.specs = append(m.specs, *spec)
	return nil
}

func (m *mockModelSpecRepo) List(_ context.Context) ([]models.ModelSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ModelSpec(nil), m.specs...), nil
}

func (m *mockModelSpecRepo) ListEnabled(_ context.Context) ([]models.ModelSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ModelSpec
	for _, spec := range m.specs {
		if spec.IsEnabled {
			out = append(out, spec)
		}
	}
	return out, nil
}

func (m *mockModelSpecRepo) SetEnabled(_ context.Context, modelName string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.specs {
		if m.specs[i].ModelName == modelName {
			m.specs[i].IsEnabled = enabled
		}
	}
	return nil
}

type mockUsageRepo struct {
	mu      sync.Mutex
	states  map[string]*models.UsageState
	records []models.UsageRecord
}

func newMockUsageRepo() *mockUsageRepo {
	return &mockUsageRepo{states: make(map[string]*models.UsageState)}
}

func (m *mockUsageRepo) EnsureState(_ context.Context, period string, monthlyBudget float64) (*models.UsageState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[period]; ok {
		cp := *state
		return &cp, nil
	}
	state := &models.UsageState{Period: period, MonthlyBudget: monthlyBudget, UpdatedAt: time.Now().UTC()}
	m.states[period] = state
	cp := *state
	return &cp, nil
}

func (m *mockUsageRepo) GetState(_ context.Context, period string) (*models.UsageState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[period]; ok {
		cp := *state
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUsageRepo) AddUsage(_ context.Context, period string, costUSD float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[period]; ok {
		state.CurrentUsage += costUSD
	}
	return nil
}

func (m *mockUsageRepo) InsertRecord(_ context.Context, rec *models.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockUsageRepo) ListRecords(_ context.Context, period string, limit int) ([]models.UsageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UsageRecord
	for _, rec := range m.records {
		if rec.Period == period && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockUsageRepo) SummaryByModel(_ context.Context, period string) ([]repository.ModelUsageSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byModel := make(map[string]*repository.ModelUsageSummary)
	var order []string
	for _, rec := range m.records {
		if rec.Period != period {
			continue
		}
		s, ok := byModel[rec.ModelName]
		if !ok {
			s = &repository.ModelUsageSummary{ModelName: rec.ModelName}
			byModel[rec.ModelName] = s
			order = append(order, rec.ModelName)
		}
		s.Calls++
		s.TotalTokens += rec.TokensUsed
		s.TotalCost += rec.CostUSD
	}
	var out []repository.ModelUsageSummary
	for _, name := range order {
		out = append(out, *byModel[name])
	}
	return out, nil
}

// newMockRepos wires all mocks into a Repositories aggregate.
func newMockRepos() *repository.Repositories {
	return &repository.Repositories{
		PricingRules:     newMockPricingRuleRepo(),
		CategoryMappings: newMockCategoryMappingRepo(),
		ModelSpecs:       &mockModelSpecRepo{},
		Usage:            newMockUsageRepo(),
		Products:         newMockProductRepo(),
		Audits:           &mockAuditRepo{},
		Suppliers:        newMockSupplierRepo(),
		APIKeys:          newMockAPIKeyRepo(),
		ReviewQueue:      newMockReviewQueueRepo(),
	}
}
