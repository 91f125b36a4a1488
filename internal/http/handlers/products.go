package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/pricing"
	"github.com/sellbridge/sellbridge-api/internal/repository"
	"github.com/sellbridge/sellbridge-api/internal/service"
)

// ProductHandler handles product ingest and pipeline inspection.
type ProductHandler struct {
	listing *service.ListingService
	repos   *repository.Repositories
}

// NewProductHandler creates a new product handler.
func NewProductHandler(listing *service.ListingService, repos *repository.Repositories) *ProductHandler {
	return &ProductHandler{listing: listing, repos: repos}
}

// SubmitProductInput represents a product ingest request.
type SubmitProductInput struct {
	Body struct {
		SupplierID        string `json:"supplier_id" minLength:"1" doc:"Registered supplier ID"`
		SupplierProductID string `json:"supplier_product_id,omitempty" doc:"Supplier's own product identifier"`
		Name              string `json:"name" minLength:"1" doc:"Product display name"`
		Cost              int64  `json:"cost" minimum:"1" doc:"Supplier cost in won"`
		ShippingFee       int64  `json:"shipping_fee,omitempty" doc:"Shipping fee in won, passed through"`
		CategoryCode      string `json:"category_code,omitempty" doc:"Supplier category code"`
		CategoryName      string `json:"category_name,omitempty" doc:"Supplier category display name"`
		MarketplaceID     string `json:"marketplace_id" minLength:"1" doc:"Target marketplace ID"`
		TargetPrice       *int64 `json:"target_price,omitempty" doc:"Competitor-derived target price in won"`
	}
}

// SubmitProductOutput represents a product ingest response.
type SubmitProductOutput struct {
	Status int
	Body   models.Product
}

// SubmitProduct accepts a product into the listing pipeline.
func (h *ProductHandler) SubmitProduct(ctx context.Context, input *SubmitProductInput) (*SubmitProductOutput, error) {
	p := &models.Product{
		SupplierID:        input.Body.SupplierID,
		SupplierProductID: input.Body.SupplierProductID,
		Name:              input.Body.Name,
		Cost:              input.Body.Cost,
		ShippingFee:       input.Body.ShippingFee,
		CategoryCode:      input.Body.CategoryCode,
		CategoryName:      input.Body.CategoryName,
		MarketplaceID:     input.Body.MarketplaceID,
		TargetPrice:       input.Body.TargetPrice,
	}
	if err := h.listing.Submit(ctx, p); err != nil {
		if errors.Is(err, pricing.ErrInvalidCost) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error500InternalServerError("failed to submit product")
	}
	return &SubmitProductOutput{Status: 201, Body: *p}, nil
}

// GetProductInput represents a product lookup request.
type GetProductInput struct {
	ID string `path:"id" doc:"Product ID"`
}

// GetProductOutput represents a product lookup response.
type GetProductOutput struct {
	Body models.Product
}

// GetProduct returns one product by ID.
func (h *ProductHandler) GetProduct(ctx context.Context, input *GetProductInput) (*GetProductOutput, error) {
	p, err := h.repos.Products.GetByID(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load product")
	}
	if p == nil {
		return nil, huma.Error404NotFound("product not found")
	}
	return &GetProductOutput{Body: *p}, nil
}

// ListProductsInput represents a product listing request.
type ListProductsInput struct {
	Status string `query:"status" enum:"pending,processing,listed,manual_review,failed" required:"false" doc:"Filter by pipeline status"`
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

// ListProductsOutput represents a product listing response.
type ListProductsOutput struct {
	Body struct {
		Products []models.Product `json:"products"`
	}
}

// ListProducts returns products filtered by status.
func (h *ProductHandler) ListProducts(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error) {
	status := models.ProductStatus(input.Status)
	if input.Status == "" {
		status = models.ProductStatusPending
	}
	products, err := h.repos.Products.ListByStatus(ctx, status, input.Limit, input.Offset)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list products")
	}
	out := &ListProductsOutput{}
	out.Body.Products = products
	return out, nil
}

// GetProductAuditsInput represents an audit trail request.
type GetProductAuditsInput struct {
	ID string `path:"id" doc:"Product ID"`
}

// GetProductAuditsOutput represents an audit trail response.
type GetProductAuditsOutput struct {
	Body struct {
		Audits []models.ListingAudit `json:"audits"`
	}
}

// GetProductAudits returns the pricing and categorization decisions recorded
// for a product.
func (h *ProductHandler) GetProductAudits(ctx context.Context, input *GetProductAuditsInput) (*GetProductAuditsOutput, error) {
	audits, err := h.listing.Audits(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load audits")
	}
	out := &GetProductAuditsOutput{}
	out.Body.Audits = audits
	return out, nil
}

// PipelineStatsOutput represents the pipeline backlog response.
type PipelineStatsOutput struct {
	Body struct {
		Counts map[models.ProductStatus]int `json:"counts"`
	}
}

// GetPipelineStats reports the product backlog by status.
func (h *ProductHandler) GetPipelineStats(ctx context.Context, input *struct{}) (*PipelineStatsOutput, error) {
	counts, err := h.listing.StatusCounts(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count products")
	}
	out := &PipelineStatsOutput{}
	out.Body.Counts = counts
	return out, nil
}
