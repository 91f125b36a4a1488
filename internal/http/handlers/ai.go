package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/airouter"
	"github.com/sellbridge/sellbridge-api/internal/service"
)

// AIHandler handles model routing and budget reporting endpoints.
type AIHandler struct {
	usageSvc *service.UsageService
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(usageSvc *service.UsageService) *AIHandler {
	return &AIHandler{usageSvc: usageSvc}
}

// SelectModelInput represents a model selection request.
type SelectModelInput struct {
	Body struct {
		TaskType       string `json:"task_type" enum:"product_name_enhance,description_generate,seo_keywords,category_suggest,image_caption,quality_score" doc:"AI task to route"`
		RequiresVision bool   `json:"requires_vision,omitempty" doc:"Force a vision-capable model"`
	}
}

// SelectModelOutput represents a model selection response.
type SelectModelOutput struct {
	Body airouter.Selection
}

// SelectModel picks an execution target for an AI task. Selection never
// consumes budget; callers report real spend via recordUsage.
func (h *AIHandler) SelectModel(ctx context.Context, input *SelectModelInput) (*SelectModelOutput, error) {
	sel, err := h.usageSvc.SelectModel(ctx, airouter.TaskType(input.Body.TaskType), input.Body.RequiresVision)
	if err != nil {
		switch {
		case errors.Is(err, airouter.ErrUnknownTask):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, airouter.ErrNoCapableModel):
			return nil, huma.Error404NotFound(err.Error())
		case errors.Is(err, airouter.ErrBudgetExceeded):
			return nil, huma.Error429TooManyRequests(err.Error())
		}
		return nil, huma.Error500InternalServerError("failed to select model")
	}
	return &SelectModelOutput{Body: *sel}, nil
}

// RecordUsageInput represents a usage report for one completed AI call.
type RecordUsageInput struct {
	Body struct {
		ModelName  string `json:"model_name" minLength:"1" doc:"Model that served the call"`
		TaskType   string `json:"task_type" minLength:"1" doc:"Task the call served"`
		TokensUsed int    `json:"tokens_used" minimum:"0" doc:"Actual tokens consumed"`
	}
}

// RecordUsageOutput represents a usage report response.
type RecordUsageOutput struct {
	Status int
}

// RecordUsage charges actual token consumption against the period budget.
func (h *AIHandler) RecordUsage(ctx context.Context, input *RecordUsageInput) (*RecordUsageOutput, error) {
	spec, err := h.usageSvc.SpecByName(ctx, input.Body.ModelName)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load model spec")
	}
	if spec == nil {
		return nil, huma.Error404NotFound("unknown model")
	}
	if err := h.usageSvc.RecordUsage(ctx, *spec, airouter.TaskType(input.Body.TaskType), input.Body.TokensUsed); err != nil {
		return nil, huma.Error500InternalServerError("failed to record usage")
	}
	return &RecordUsageOutput{Status: 204}, nil
}

// GetUsageInput represents a usage report request.
type GetUsageInput struct {
	Period string `query:"period" pattern:"^[0-9]{4}-[0-9]{2}$" required:"false" doc:"Billing period (YYYY-MM), defaults to the current one"`
}

// GetUsageOutput represents a usage report response.
type GetUsageOutput struct {
	Body service.UsageReport
}

// GetUsage reports period spend against the monthly budget.
func (h *AIHandler) GetUsage(ctx context.Context, input *GetUsageInput) (*GetUsageOutput, error) {
	report, err := h.usageSvc.Report(ctx, input.Period)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to build usage report")
	}
	return &GetUsageOutput{Body: *report}, nil
}
