// Package config handles application configuration.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    int
	BaseURL string

	// Database
	DatabaseURL string

	// Authentication
	JWTSecret     string
	JWTExpiry     time.Duration
	EncryptionKey []byte // 32-byte key for AES-256-GCM encryption of supplier credentials
	AdminEnabled  bool

	// CORS
	CORSOrigins []string

	// AI budget
	AIMonthlyBudgetUSD float64 // Ceiling for cloud model spend per billing period

	// Category resolution thresholds
	CategoryKeywordThreshold    float64 // Minimum token-overlap score for a keyword match
	CategorySimilarityThreshold float64 // Minimum string-similarity score for a fallback match

	// Object Storage (S3-compatible) for dynamic config overrides
	StorageEnabled   bool
	StorageEndpoint  string // AWS_ENDPOINT_URL_S3
	StorageAccessKey string // AWS_ACCESS_KEY_ID
	StorageSecretKey string // AWS_SECRET_ACCESS_KEY
	StorageBucket    string
	StorageRegion    string

	// Worker
	WorkerPollInterval        time.Duration // How often to poll for pending products (default 5s)
	WorkerConcurrency         int           // Number of concurrent listing workers (default 3)
	WorkerShutdownGracePeriod time.Duration // Max time to wait for in-flight products during shutdown

	// IdleShutdownTimeout stops the server after this long without traffic
	// or pipeline work (scale-to-zero). Zero disables idle shutdown.
	IdleShutdownTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseURL: getEnv("DATABASE_URL", "file:sellbridge.db?_journal=WAL&_timeout=5000"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTExpiry:   getEnvDuration("JWT_EXPIRY", 15*time.Minute),

		CORSOrigins:  getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		AdminEnabled: getEnvBool("ADMIN_ENABLED", true),

		AIMonthlyBudgetUSD: getEnvFloat("AI_MONTHLY_BUDGET_USD", 50.0),

		CategoryKeywordThreshold:    getEnvFloat("CATEGORY_KEYWORD_THRESHOLD", 0.5),
		CategorySimilarityThreshold: getEnvFloat("CATEGORY_SIMILARITY_THRESHOLD", 0.3),

		// S3-compatible storage - uses the standard AWS env vars
		StorageEndpoint:  getEnv("AWS_ENDPOINT_URL_S3", ""),
		StorageAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		StorageSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		StorageBucket:    getEnvWithFallback("BUCKET_NAME", "STORAGE_BUCKET", ""),
		StorageRegion:    getEnv("AWS_REGION", "auto"),
	}

	// Enable storage if bucket is configured
	cfg.StorageEnabled = cfg.StorageBucket != "" && cfg.StorageEndpoint != ""

	// Worker configuration
	cfg.WorkerPollInterval = getEnvDuration("WORKER_POLL_INTERVAL", 5*time.Second)
	cfg.WorkerConcurrency = getEnvInt("WORKER_CONCURRENCY", 3)
	cfg.WorkerShutdownGracePeriod = getEnvDuration("WORKER_SHUTDOWN_GRACE_PERIOD", 5*time.Minute)

	cfg.IdleShutdownTimeout = getEnvDuration("IDLE_SHUTDOWN_TIMEOUT", 0)

	if cfg.AIMonthlyBudgetUSD < 0 {
		return nil, fmt.Errorf("AI_MONTHLY_BUDGET_USD must not be negative")
	}
	if cfg.CategoryKeywordThreshold <= 0 || cfg.CategoryKeywordThreshold > 1 {
		return nil, fmt.Errorf("CATEGORY_KEYWORD_THRESHOLD must be in (0,1]")
	}
	if cfg.CategorySimilarityThreshold <= 0 || cfg.CategorySimilarityThreshold > 1 {
		return nil, fmt.Errorf("CATEGORY_SIMILARITY_THRESHOLD must be in (0,1]")
	}

	// Generate a random JWT secret if not provided (single-node deployments)
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = generateRandomSecret(64)
	}

	// Set up encryption key (derive from JWT secret if not explicitly set)
	encKeyStr := getEnv("ENCRYPTION_KEY", "")
	if encKeyStr != "" {
		decoded, err := base64.StdEncoding.DecodeString(encKeyStr)
		if err != nil || len(decoded) != 32 {
			return nil, fmt.Errorf("ENCRYPTION_KEY must be a base64-encoded 32-byte key")
		}
		cfg.EncryptionKey = decoded
	} else {
		cfg.EncryptionKey = deriveEncryptionKey(cfg.JWTSecret)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "true" || lower == "1" || lower == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getEnvWithFallback(primary, fallback, defaultValue string) string {
	if value := os.Getenv(primary); value != "" {
		return value
	}
	if value := os.Getenv(fallback); value != "" {
		return value
	}
	return defaultValue
}

func generateRandomSecret(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback (should never happen)
		return "sellbridge-secret-change-me-" + base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// deriveEncryptionKey creates a 32-byte AES-256 key from a secret string using HKDF.
// HKDF (HMAC-based Key Derivation Function) is appropriate for deriving keys from
// high-entropy secrets like JWT secrets. For low-entropy passwords, use Argon2 instead.
func deriveEncryptionKey(secret string) []byte {
	// Use HKDF with SHA-256
	// - Salt: fixed but unique to this application
	// - Info: context string to bind the key to its purpose
	salt := []byte("sellbridge-api-encryption-key-v1")
	info := []byte("aes-256-gcm-encryption")

	hkdfReader := hkdf.New(sha256.New, []byte(secret), salt, info)

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdfReader, key); err != nil {
		// This should never happen with valid inputs
		panic("hkdf: failed to derive key: " + err.Error())
	}

	return key
}
