package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/category"
	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/service"
)

// CategoryHandler handles category resolution, mapping management and the
// manual review queue.
type CategoryHandler struct {
	categorySvc *service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categorySvc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// ResolveCategoryInput represents a category resolution request.
type ResolveCategoryInput struct {
	Body struct {
		SupplierID           string `json:"supplier_id" minLength:"1"`
		SupplierCategoryCode string `json:"supplier_category_code" minLength:"1"`
		SupplierCategoryName string `json:"supplier_category_name,omitempty"`
		MarketplaceID        string `json:"marketplace_id" minLength:"1"`
	}
}

// ResolveCategoryOutput represents a category resolution response.
type ResolveCategoryOutput struct {
	Body category.Resolution
}

// ResolveCategory maps a supplier category to a marketplace category. A miss
// returns 404; the caller decides whether to queue the product for review.
func (h *CategoryHandler) ResolveCategory(ctx context.Context, input *ResolveCategoryInput) (*ResolveCategoryOutput, error) {
	res, err := h.categorySvc.Resolve(ctx,
		input.Body.SupplierID,
		input.Body.SupplierCategoryCode,
		input.Body.SupplierCategoryName,
		input.Body.MarketplaceID,
	)
	if err != nil {
		if errors.Is(err, category.ErrUnresolvedCategory) {
			return nil, huma.Error404NotFound("no marketplace category matched")
		}
		return nil, huma.Error500InternalServerError("failed to resolve category")
	}
	return &ResolveCategoryOutput{Body: *res}, nil
}

// ListMappingsInput represents a mapping listing request.
type ListMappingsInput struct {
	SupplierID string `path:"supplierID" doc:"Supplier ID"`
}

// ListMappingsOutput represents a mapping listing response.
type ListMappingsOutput struct {
	Body struct {
		Mappings []models.CategoryMapping `json:"mappings"`
	}
}

// ListMappings returns every stored mapping for one supplier.
func (h *CategoryHandler) ListMappings(ctx context.Context, input *ListMappingsInput) (*ListMappingsOutput, error) {
	mappings, err := h.categorySvc.MappingsForSupplier(ctx, input.SupplierID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list mappings")
	}
	out := &ListMappingsOutput{}
	out.Body.Mappings = mappings
	return out, nil
}

// ManualMappingBody is the writable part of a manual category mapping.
type ManualMappingBody struct {
	SupplierID              string `json:"supplier_id" minLength:"1"`
	SupplierCategoryCode    string `json:"supplier_category_code" minLength:"1"`
	SupplierCategoryName    string `json:"supplier_category_name,omitempty"`
	MarketplaceID           string `json:"marketplace_id" minLength:"1"`
	MarketplaceCategoryCode string `json:"marketplace_category_code" minLength:"1"`
	MarketplaceCategoryName string `json:"marketplace_category_name,omitempty"`
}

func (b *ManualMappingBody) toModel() *models.CategoryMapping {
	return &models.CategoryMapping{
		SupplierID:              b.SupplierID,
		SupplierCategoryCode:    b.SupplierCategoryCode,
		SupplierCategoryName:    b.SupplierCategoryName,
		MarketplaceID:           b.MarketplaceID,
		MarketplaceCategoryCode: b.MarketplaceCategoryCode,
		MarketplaceCategoryName: b.MarketplaceCategoryName,
	}
}

// UpsertManualMappingInput represents a manual mapping request.
type UpsertManualMappingInput struct {
	Body ManualMappingBody
}

// UpsertManualMappingOutput represents a manual mapping response.
type UpsertManualMappingOutput struct {
	Body models.CategoryMapping
}

// UpsertManualMapping stores an operator-curated mapping. It displaces any
// automatic mapping for the same supplier category.
func (h *CategoryHandler) UpsertManualMapping(ctx context.Context, input *UpsertManualMappingInput) (*UpsertManualMappingOutput, error) {
	mapping := input.Body.toModel()
	if err := h.categorySvc.AddManualMapping(ctx, mapping); err != nil {
		return nil, huma.Error500InternalServerError("failed to store mapping")
	}
	return &UpsertManualMappingOutput{Body: *mapping}, nil
}

// ListReviewQueueInput represents a review queue listing request.
type ListReviewQueueInput struct {
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"200"`
}

// ListReviewQueueOutput represents a review queue listing response.
type ListReviewQueueOutput struct {
	Body struct {
		Items []models.ReviewItem `json:"items"`
	}
}

// ListReviewQueue lists unresolved category misses waiting for an operator.
func (h *CategoryHandler) ListReviewQueue(ctx context.Context, input *ListReviewQueueInput) (*ListReviewQueueOutput, error) {
	items, err := h.categorySvc.OpenReviewItems(ctx, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list review queue")
	}
	out := &ListReviewQueueOutput{}
	out.Body.Items = items
	return out, nil
}

// ResolveReviewItemInput represents a review resolution request.
type ResolveReviewItemInput struct {
	ID   string `path:"id" doc:"Review item ID"`
	Body ManualMappingBody
}

// ResolveReviewItemOutput represents a review resolution response.
type ResolveReviewItemOutput struct {
	Body struct {
		ItemID  string                 `json:"item_id"`
		Mapping models.CategoryMapping `json:"mapping"`
	}
}

// ResolveReviewItem applies the operator's mapping and closes the queue entry.
func (h *CategoryHandler) ResolveReviewItem(ctx context.Context, input *ResolveReviewItemInput) (*ResolveReviewItemOutput, error) {
	mapping := input.Body.toModel()
	if err := h.categorySvc.ResolveReviewItem(ctx, input.ID, mapping); err != nil {
		return nil, huma.Error500InternalServerError("failed to resolve review item")
	}
	out := &ResolveReviewItemOutput{}
	out.Body.ItemID = input.ID
	out.Body.Mapping = *mapping
	return out, nil
}
