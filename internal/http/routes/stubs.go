package routes

import (
	"context"

	"github.com/sellbridge/sellbridge-api/internal/http/handlers"
)

// NewStubHandlers returns handlers that satisfy every interface without any
// backing services. Used by the OpenAPI generator, which only needs the
// route and schema definitions, never a live response.
func NewStubHandlers() *Handlers {
	return &Handlers{
		HealthCheck:  handlers.HealthCheck,
		Livez:        handlers.Livez,
		Readyz:       stubReadyz,
		Product:      stubProducts{},
		Pricing:      stubPricing{},
		Category:     stubCategories{},
		AI:           stubAI{},
		APIKey:       stubAPIKeys{},
		Supplier:     stubSuppliers{},
		AdminEnabled: true,
	}
}

func stubReadyz(ctx context.Context, input *struct{}) (*handlers.ReadyzOutput, error) {
	out := &handlers.ReadyzOutput{}
	out.Body.Status = "ok"
	return out, nil
}

type stubProducts struct{}

func (stubProducts) SubmitProduct(context.Context, *handlers.SubmitProductInput) (*handlers.SubmitProductOutput, error) {
	return &handlers.SubmitProductOutput{}, nil
}
func (stubProducts) GetProduct(context.Context, *handlers.GetProductInput) (*handlers.GetProductOutput, error) {
	return &handlers.GetProductOutput{}, nil
}
func (stubProducts) ListProducts(context.Context, *handlers.ListProductsInput) (*handlers.ListProductsOutput, error) {
	return &handlers.ListProductsOutput{}, nil
}
func (stubProducts) GetProductAudits(context.Context, *handlers.GetProductAuditsInput) (*handlers.GetProductAuditsOutput, error) {
	return &handlers.GetProductAuditsOutput{}, nil
}
func (stubProducts) GetPipelineStats(context.Context, *struct{}) (*handlers.PipelineStatsOutput, error) {
	return &handlers.PipelineStatsOutput{}, nil
}

type stubPricing struct{}

func (stubPricing) Quote(context.Context, *handlers.QuoteInput) (*handlers.QuoteOutput, error) {
	return &handlers.QuoteOutput{}, nil
}
func (stubPricing) ListRules(context.Context, *struct{}) (*handlers.ListRulesOutput, error) {
	return &handlers.ListRulesOutput{}, nil
}
func (stubPricing) GetRule(context.Context, *handlers.GetRuleInput) (*handlers.GetRuleOutput, error) {
	return &handlers.GetRuleOutput{}, nil
}
func (stubPricing) CreateRule(context.Context, *handlers.CreateRuleInput) (*handlers.CreateRuleOutput, error) {
	return &handlers.CreateRuleOutput{}, nil
}
func (stubPricing) UpdateRule(context.Context, *handlers.UpdateRuleInput) (*handlers.UpdateRuleOutput, error) {
	return &handlers.UpdateRuleOutput{}, nil
}
func (stubPricing) SetRuleActive(context.Context, *handlers.SetRuleActiveInput) (*handlers.SetRuleActiveOutput, error) {
	return &handlers.SetRuleActiveOutput{}, nil
}
func (stubPricing) DeleteRule(context.Context, *handlers.DeleteRuleInput) (*handlers.DeleteRuleOutput, error) {
	return &handlers.DeleteRuleOutput{}, nil
}

type stubCategories struct{}

func (stubCategories) ResolveCategory(context.Context, *handlers.ResolveCategoryInput) (*handlers.ResolveCategoryOutput, error) {
	return &handlers.ResolveCategoryOutput{}, nil
}
func (stubCategories) ListMappings(context.Context, *handlers.ListMappingsInput) (*handlers.ListMappingsOutput, error) {
	return &handlers.ListMappingsOutput{}, nil
}
func (stubCategories) UpsertManualMapping(context.Context, *handlers.UpsertManualMappingInput) (*handlers.UpsertManualMappingOutput, error) {
	return &handlers.UpsertManualMappingOutput{}, nil
}
func (stubCategories) ListReviewQueue(context.Context, *handlers.ListReviewQueueInput) (*handlers.ListReviewQueueOutput, error) {
	return &handlers.ListReviewQueueOutput{}, nil
}
func (stubCategories) ResolveReviewItem(context.Context, *handlers.ResolveReviewItemInput) (*handlers.ResolveReviewItemOutput, error) {
	return &handlers.ResolveReviewItemOutput{}, nil
}

type stubAI struct{}

func (stubAI) SelectModel(context.Context, *handlers.SelectModelInput) (*handlers.SelectModelOutput, error) {
	return &handlers.SelectModelOutput{}, nil
}
func (stubAI) RecordUsage(context.Context, *handlers.RecordUsageInput) (*handlers.RecordUsageOutput, error) {
	return &handlers.RecordUsageOutput{}, nil
}
func (stubAI) GetUsage(context.Context, *handlers.GetUsageInput) (*handlers.GetUsageOutput, error) {
	return &handlers.GetUsageOutput{}, nil
}

type stubAPIKeys struct{}

func (stubAPIKeys) ListKeys(context.Context, *struct{}) (*handlers.ListKeysOutput, error) {
	return &handlers.ListKeysOutput{}, nil
}
func (stubAPIKeys) CreateKey(context.Context, *handlers.CreateKeyInput) (*handlers.CreateKeyOutput, error) {
	return &handlers.CreateKeyOutput{}, nil
}
func (stubAPIKeys) RevokeKey(context.Context, *handlers.RevokeKeyInput) (*handlers.RevokeKeyOutput, error) {
	return &handlers.RevokeKeyOutput{}, nil
}

type stubSuppliers struct{}

func (stubSuppliers) RegisterSupplier(context.Context, *handlers.RegisterSupplierInput) (*handlers.RegisterSupplierOutput, error) {
	return &handlers.RegisterSupplierOutput{}, nil
}
func (stubSuppliers) ListSuppliers(context.Context, *struct{}) (*handlers.ListSuppliersOutput, error) {
	return &handlers.ListSuppliersOutput{}, nil
}
