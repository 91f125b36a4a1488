package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/crypto"
	"github.com/sellbridge/sellbridge-api/internal/models"
	"github.com/sellbridge/sellbridge-api/internal/repository"
)

// SupplierService manages registered suppliers. API credentials are
// encrypted before they touch the database; fetchers decrypt on use.
type SupplierService struct {
	repos     *repository.Repositories
	encryptor *crypto.Encryptor
	logger    *slog.Logger
}

// NewSupplierService creates a new supplier service.
func NewSupplierService(repos *repository.Repositories, encryptor *crypto.Encryptor, logger *slog.Logger) *SupplierService {
	return &SupplierService{repos: repos, encryptor: encryptor, logger: logger}
}

// Register stores a supplier, encrypting the credential when one is given.
func (s *SupplierService) Register(ctx context.Context, id, name, credential string) (*models.Supplier, error) {
	supplier := &models.Supplier{
		ID:        id,
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if credential != "" {
		if s.encryptor == nil {
			return nil, fmt.Errorf("no encryption key configured, cannot store supplier credential")
		}
		encrypted, err := s.encryptor.Encrypt(credential)
		if err != nil {
			return nil, fmt.Errorf("encrypt supplier credential: %w", err)
		}
		supplier.CredentialEncrypted = encrypted
	}

	if err := s.repos.Suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	s.logger.Info("supplier registered", "supplier_id", id, "name", name)
	return supplier, nil
}

// Credential decrypts and returns a supplier's stored API credential.
func (s *SupplierService) Credential(ctx context.Context, id string) (string, error) {
	supplier, err := s.repos.Suppliers.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load supplier: %w", err)
	}
	if supplier == nil || supplier.CredentialEncrypted == "" {
		return "", nil
	}
	if s.encryptor == nil {
		return "", fmt.Errorf("no encryption key configured, cannot read supplier credential")
	}
	plaintext, err := s.encryptor.Decrypt(supplier.CredentialEncrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt supplier credential: %w", err)
	}
	return plaintext, nil
}

// List returns all registered suppliers.
func (s *SupplierService) List(ctx context.Context) ([]models.Supplier, error) {
	return s.repos.Suppliers.List(ctx)
}
