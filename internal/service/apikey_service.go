package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// APIKeyPrefix marks keys issued by this service.
const APIKeyPrefix = "sb_"

// APIKeyService issues and authenticates API keys. Only the SHA-256 hash is
// stored; the plaintext key is shown once at creation.
type APIKeyService struct {
	repos  *repository.Repositories
	logger *slog.Logger
}

// NewAPIKeyService creates a new API key service.
func NewAPIKeyService(repos *repository.Repositories, logger *slog.Logger) *APIKeyService {
	return &APIKeyService{repos: repos, logger: logger}
}

// Create issues a new key and returns the record plus the plaintext key.
func (s *APIKeyService) Create(ctx context.Context, name string) (*models.APIKey, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("generate key material: %w", err)
	}
	plaintext := APIKeyPrefix + base64.RawURLEncoding.EncodeToString(raw)

	key := &models.APIKey{
		ID:        ulid.Make().String(),
		Name:      name,
		KeyHash:   HashAPIKey(plaintext),
		KeyPrefix: plaintext[:8],
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repos.APIKeys.Create(ctx, key); err != nil {
		return nil, "", fmt.Errorf("store api key: %w", err)
	}
	s.logger.Info("api key created", "key_id", key.ID, "name", name)
	return key, plaintext, nil
}

// Authenticate resolves a presented key to its record, or nil when the key
// is unknown or revoked. Last-used tracking is best effort.
func (s *APIKeyService) Authenticate(ctx context.Context, plaintext string) (*models.APIKey, error) {
	if !strings.HasPrefix(plaintext, APIKeyPrefix) {
		return nil, nil
	}
	key, err := s.repos.APIKeys.GetByKeyHash(ctx, HashAPIKey(plaintext))
	if err != nil {
		return nil, fmt.Errorf("lookup api key: %w", err)
	}
	if key == nil {
		return nil, nil
	}
	if err := s.repos.APIKeys.UpdateLastUsed(ctx, key.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update key last_used_at", "key_id", key.ID, "error", err)
	}
	return key, nil
}

// List returns all keys, including revoked ones.
func (s *APIKeyService) List(ctx context.Context) ([]models.APIKey, error) {
	return s.repos.APIKeys.List(ctx)
}

// Revoke permanently disables a key.
func (s *APIKeyService) Revoke(ctx context.Context, id string) error {
	if err := s.repos.APIKeys.Revoke(ctx, id); err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	s.logger.Info("api key revoked", "key_id", id)
	return nil
}

// HashAPIKey returns the hex SHA-256 digest stored for a key.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
