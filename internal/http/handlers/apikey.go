package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/service"
)

// APIKeyHandler handles API key management endpoints.
type APIKeyHandler struct {
	keys *service.APIKeyService
}

// NewAPIKeyHandler creates a new API key handler.
func NewAPIKeyHandler(keys *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keys: keys}
}

// ListKeysOutput represents the key listing response.
type ListKeysOutput struct {
	Body struct {
		Keys []models.APIKey `json:"keys"`
	}
}

// ListKeys returns all API keys, including revoked ones.
func (h *APIKeyHandler) ListKeys(ctx context.Context, input *struct{}) (*ListKeysOutput, error) {
	keys, err := h.keys.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list keys")
	}
	out := &ListKeysOutput{}
	out.Body.Keys = keys
	return out, nil
}

// CreateKeyInput represents a key creation request.
type CreateKeyInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"100" doc:"Key display name"`
	}
}

// CreateKeyOutput represents a key creation response. The plaintext key is
// returned exactly once.
type CreateKeyOutput struct {
	Status int
	Body   struct {
		Key       models.APIKey `json:"key"`
		Plaintext string        `json:"plaintext" doc:"Full API key, shown only at creation"`
	}
}

// CreateKey issues a new API key.
func (h *APIKeyHandler) CreateKey(ctx context.Context, input *CreateKeyInput) (*CreateKeyOutput, error) {
	key, plaintext, err := h.keys.Create(ctx, input.Body.Name)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to create key")
	}
	out := &CreateKeyOutput{Status: 201}
	out.Body.Key = *key
	out.Body.Plaintext = plaintext
	return out, nil
}

// RevokeKeyInput represents a key revocation request.
type RevokeKeyInput struct {
	ID string `path:"id" doc:"Key ID"`
}

// RevokeKeyOutput represents a key revocation response.
type RevokeKeyOutput struct {
	Status int
}

// RevokeKey permanently disables a key.
func (h *APIKeyHandler) RevokeKey(ctx context.Context, input *RevokeKeyInput) (*RevokeKeyOutput, error) {
	if err := h.keys.Revoke(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("failed to revoke key")
	}
	return &RevokeKeyOutput{Status: 204}, nil
}
