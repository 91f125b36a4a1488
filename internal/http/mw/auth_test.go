package mw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// ========================================
// AdminVerifier Tests
// ========================================

func TestAdminVerifier_RoundTrip(t *testing.T) {
	v := NewAdminVerifier("test-secret")

	token, err := v.MintToken("ops-1", "Operator", time.Hour)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	claims, err := v.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.Subject != "ops-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "ops-1")
	}
	if claims.Name != "Operator" {
		t.Errorf("Name = %q, want %q", claims.Name, "Operator")
	}
	if !claims.Admin {
		t.Error("Admin = false, want true")
	}
}

func TestAdminVerifier_Expired(t *testing.T) {
	v := NewAdminVerifier("test-secret")

	token, err := v.MintToken("ops-1", "", -time.Minute)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	_, err = v.VerifyToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestAdminVerifier_WrongSecret(t *testing.T) {
	token, err := NewAdminVerifier("secret-a").MintToken("ops-1", "", time.Hour)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	_, err = NewAdminVerifier("secret-b").VerifyToken(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestAdminVerifier_Garbage(t *testing.T) {
	v := NewAdminVerifier("test-secret")
	if _, err := v.VerifyToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
	}
}

// ========================================
// API Key Validation Tests
// ========================================

type fakeKeyAuthenticator struct {
	key *models.APIKey
	err error
}

func (f *fakeKeyAuthenticator) Authenticate(_ context.Context, _ string) (*models.APIKey, error) {
	return f.key, f.err
}

func TestValidateAPIKey_Known(t *testing.T) {
	keys := &fakeKeyAuthenticator{key: &models.APIKey{ID: "key-1", Name: "ingest"}}

	claims, err := validateAPIKey(context.Background(), keys, "sb_abc")
	if err != nil {
		t.Fatalf("validateAPIKey() error = %v", err)
	}
	if claims.Subject != "key-1" || !claims.IsAPIKey {
		t.Errorf("claims = %+v, want key-1 API key claims", claims)
	}
	if claims.IsAdmin {
		t.Error("API key claims must never carry admin")
	}
}

func TestValidateAPIKey_Unknown(t *testing.T) {
	keys := &fakeKeyAuthenticator{}

	_, err := validateAPIKey(context.Background(), keys, "sb_unknown")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("validateAPIKey() error = %v, want ErrInvalidToken", err)
	}
}

// ========================================
// Helper Tests
// ========================================

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"bearer prefix", "Bearer sb_abc", "sb_abc"},
		{"raw token", "sb_abc", "sb_abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBearer(tt.header); got != tt.expected {
				t.Errorf("extractBearer(%q) = %q, want %q", tt.header, got, tt.expected)
			}
		})
	}
}

func TestGetAuthClaims(t *testing.T) {
	if claims := GetAuthClaims(context.Background()); claims != nil {
		t.Errorf("GetAuthClaims() = %+v, want nil without claims", claims)
	}

	want := &AuthClaims{Subject: "key-1", IsAPIKey: true}
	ctx := context.WithValue(context.Background(), AuthClaimsKey, want)
	if got := GetAuthClaims(ctx); got != want {
		t.Errorf("GetAuthClaims() = %+v, want %+v", got, want)
	}
}
