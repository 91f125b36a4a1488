package logging

import (
	"context"
	"log/slog"
	"testing"
)

// ========================================
// Context Key Tests
// ========================================

func TestContextKeys(t *testing.T) {
	if ProductIDKey != "log_product_id" {
		t.Errorf("ProductIDKey = %q, want %q", ProductIDKey, "log_product_id")
	}
	if CallerIDKey != "log_caller_id" {
		t.Errorf("CallerIDKey = %q, want %q", CallerIDKey, "log_caller_id")
	}
}

func TestContextKey_Uniqueness(t *testing.T) {
	ctx := context.WithValue(context.Background(), ProductIDKey, "typed-value")

	// A raw string key must not collide with the typed ContextKey
	if ctx.Value("log_product_id") != nil {
		t.Error("raw string key should not match ContextKey type")
	}
	if ctx.Value(ProductIDKey) != "typed-value" {
		t.Errorf("typed key value = %v, want %q", ctx.Value(ProductIDKey), "typed-value")
	}
}

// ========================================
// WithProductID / WithCallerID Tests
// ========================================

func TestWithProductID(t *testing.T) {
	ctx := context.Background()
	newCtx := WithProductID(ctx, "prod-123")

	if ctx.Value(ProductIDKey) != nil {
		t.Error("original context should not be modified")
	}
	if got := newCtx.Value(ProductIDKey); got != "prod-123" {
		t.Errorf("context value = %v, want %q", got, "prod-123")
	}
}

func TestWithCallerID(t *testing.T) {
	ctx := WithCallerID(context.Background(), "key-456")

	if got := ctx.Value(CallerIDKey); got != "key-456" {
		t.Errorf("context value = %v, want %q", got, "key-456")
	}
}

func TestCombinedContext(t *testing.T) {
	ctx := context.Background()
	ctx = WithProductID(ctx, "prod-combined")
	ctx = WithCallerID(ctx, "key-combined")

	if got := GetProductID(ctx); got != "prod-combined" {
		t.Errorf("GetProductID() = %q, want %q", got, "prod-combined")
	}
	if got := GetCallerID(ctx); got != "key-combined" {
		t.Errorf("GetCallerID() = %q, want %q", got, "key-combined")
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := WithProductID(context.Background(), "prod-1")
	ctx = WithProductID(ctx, "prod-2")

	if got := GetProductID(ctx); got != "prod-2" {
		t.Errorf("GetProductID() = %q, want %q (should be overwritten)", got, "prod-2")
	}
}

// ========================================
// GetProductID / GetCallerID Tests
// ========================================

func TestGetProductID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"with product ID", WithProductID(context.Background(), "prod-999"), "prod-999"},
		{"without product ID", context.Background(), ""},
		{"empty product ID", WithProductID(context.Background(), ""), ""},
		{"nil context", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetProductID(tt.ctx); got != tt.expected {
				t.Errorf("GetProductID() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetProductID_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), ProductIDKey, 12345)

	if got := GetProductID(ctx); got != "" {
		t.Errorf("GetProductID() = %q, want empty for wrong type", got)
	}
}

func TestGetCallerID_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), CallerIDKey, struct{}{})

	if got := GetCallerID(ctx); got != "" {
		t.Errorf("GetCallerID() = %q, want empty for wrong type", got)
	}
}

// ========================================
// FromContext Tests
// ========================================

func TestFromContext_NilContext(t *testing.T) {
	logger := slog.Default()

	if FromContext(nil, logger) != logger {
		t.Error("FromContext with nil context should return original logger")
	}
}

func TestFromContext_EmptyContext(t *testing.T) {
	logger := slog.Default()

	if FromContext(context.Background(), logger) != logger {
		t.Error("FromContext without IDs should return original logger")
	}
}

func TestFromContext_WithProductID(t *testing.T) {
	logger := slog.Default()
	ctx := WithProductID(context.Background(), "prod-test-123")

	if FromContext(ctx, logger) == logger {
		t.Error("FromContext with product ID should return a new logger with attributes")
	}
}

// ========================================
// parseLogLevel Tests
// ========================================

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" debug ", slog.LevelDebug},

		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo}, // default

		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},

		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},

		{"invalid", slog.LevelInfo}, // default
		{"trace", slog.LevelInfo},   // unsupported, default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// ========================================
// New Logger Tests
// ========================================

func TestNew(t *testing.T) {
	if New() == nil {
		t.Fatal("New() should return a logger")
	}
}

func TestSetDefault(t *testing.T) {
	if SetDefault() == nil {
		t.Fatal("SetDefault() should return a logger")
	}
	if slog.Default() == nil {
		t.Error("slog.Default() should not be nil after SetDefault()")
	}
}
