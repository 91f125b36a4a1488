package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/service"
)

// SupplierHandler handles supplier registration endpoints.
type SupplierHandler struct {
	suppliers *service.SupplierService
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(suppliers *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// RegisterSupplierInput represents a supplier registration request.
type RegisterSupplierInput struct {
	Body struct {
		ID         string `json:"id" minLength:"1" maxLength:"50" doc:"Stable supplier identifier, e.g. domeme"`
		Name       string `json:"name" minLength:"1" doc:"Supplier display name"`
		Credential string `json:"credential,omitempty" doc:"Supplier API credential, stored encrypted"`
	}
}

// RegisterSupplierOutput represents a supplier registration response.
type RegisterSupplierOutput struct {
	Status int
	Body   models.Supplier
}

// RegisterSupplier stores a supplier. The credential never leaves the
// database unencrypted.
func (h *SupplierHandler) RegisterSupplier(ctx context.Context, input *RegisterSupplierInput) (*RegisterSupplierOutput, error) {
	supplier, err := h.suppliers.Register(ctx, input.Body.ID, input.Body.Name, input.Body.Credential)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to register supplier")
	}
	return &RegisterSupplierOutput{Status: 201, Body: *supplier}, nil
}

// ListSuppliersOutput represents the supplier listing response.
type ListSuppliersOutput struct {
	Body struct {
		Suppliers []models.Supplier `json:"suppliers"`
	}
}

// ListSuppliers returns all registered suppliers.
func (h *SupplierHandler) ListSuppliers(ctx context.Context, input *struct{}) (*ListSuppliersOutput, error) {
	suppliers, err := h.suppliers.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list suppliers")
	}
	out := &ListSuppliersOutput{}
	out.Body.Suppliers = suppliers
	return out, nil
}
