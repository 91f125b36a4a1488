// Package main is the entry point for the sellbridge-api server.
// Self-contained deployment: API key authentication for the pipeline surface,
// operator JWTs for the admin surface, SQLite (libsql) storage, and an
// embedded background worker that drives the listing pipeline.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sellbridge/sellbridge-api/internal/config"
	"github.com/sellbridge/sellbridge-api/internal/database"
	"github.com/sellbridge/sellbridge-api/internal/database/migrations"
	"github.com/sellbridge/sellbridge-api/internal/http/handlers"
	"github.com/sellbridge/sellbridge-api/internal/http/mw"
	"github.com/sellbridge/sellbridge-api/internal/http/routes"
	"github.com/sellbridge/sellbridge-api/internal/logging"
	"github.com/sellbridge/sellbridge-api/internal/repository"
	"github.com/sellbridge/sellbridge-api/internal/service"
	"github.com/sellbridge/sellbridge-api/internal/shutdown"
	"github.com/sellbridge/sellbridge-api/internal/version"
	"github.com/sellbridge/sellbridge-api/internal/worker"
)

func main() {
	// Initialize logger with TTY detection, source paths, and format control
	logger := logging.SetDefault()

	// Log version info first thing
	v := version.Get()
	logger.Info("starting sellbridge-api",
		"version", v.Version,
		"commit", v.Commit,
		"built", v.Date,
		"go_version", v.GoVersion,
	)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Run migrations (with logging for each migration applied)
	if err := database.Migrate(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Log current schema version
	schemaVersion, err := migrations.GetLatestVersion(db)
	if err != nil {
		logger.Warn("failed to get schema version", "error", err)
	} else if schemaVersion != "" {
		migrationCount, _ := migrations.GetMigrationCount(db)
		logger.Info("database schema ready", "schema_version", schemaVersion, "migrations_applied", migrationCount)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize services
	services, err := service.NewServices(cfg, repos, logger)
	if err != nil {
		logger.Error("failed to initialize services", "error", err)
		os.Exit(1)
	}

	// S3-backed rule and model spec overrides (optional)
	if cfg.StorageEnabled {
		s3Client, err := config.NewS3Client(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to create S3 client", "error", err)
			os.Exit(1)
		}
		config.InitOverrideLoader(config.S3LoaderConfig{
			S3Client: s3Client,
			Bucket:   cfg.StorageBucket,
			Key:      "config/overrides.json",
			Logger:   logger,
		})
		config.GetOverrideLoader().Load(context.Background())
		logger.Info("S3 override loader enabled",
			"bucket", cfg.StorageBucket,
			"key", "config/overrides.json",
			"cache_ttl", "5m",
		)
	}

	// Start background worker that drives submitted products through the
	// pricing and category pipeline
	listingWorker := worker.New(
		repos.Products,
		services.Listing,
		worker.Config{
			PollInterval: cfg.WorkerPollInterval,
			Concurrency:  cfg.WorkerConcurrency,
		},
		logger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	listingWorker.Start(ctx)

	// Idle monitor for scale-to-zero platforms; probes don't count as
	// activity, and pipeline runs hold off shutdown
	idleMonitor := shutdown.NewIdleMonitor(shutdown.IdleMonitorConfig{
		Timeout:      cfg.IdleShutdownTimeout,
		Logger:       logger,
		ExcludePaths: []string{"/healthz", "/readyz"},
		WorkCheck:    listingWorker.Busy,
	})
	idleMonitor.Start()

	// Create router
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(idleMonitor.Middleware)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Request timeout middleware with different timeouts per endpoint type
	router.Use(mw.Timeout(mw.TimeoutConfig{
		Default:  15 * time.Second,
		Extended: 60 * time.Second,
		// Batch quotes and product ingest can carry large payloads
		ExtendedPatterns: []string{"/pricing/quote", "/products"},
	}))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Request size limit (1MB) - prevent large payload attacks
	router.Use(middleware.RequestSize(1 * 1024 * 1024))

	// Per-caller rate limit keyed by API key, IP fallback for
	// unauthenticated requests
	router.Use(mw.RateLimitByCaller(mw.DefaultRateLimitConfig()))

	// Global concurrency throttle - prevent system overload
	router.Use(middleware.Throttle(100))

	// Huma API with shared route definitions (same config as the OpenAPI
	// generator, so the published spec always matches the server)
	api := humachi.New(router, routes.NewHumaConfig(cfg.BaseURL))
	api.UseMiddleware(mw.HumaAuth(api, mw.HumaAuthConfig{
		Keys:  services.APIKey,
		Admin: mw.NewAdminVerifier(cfg.JWTSecret),
	}))

	routes.Register(api, &routes.Handlers{
		HealthCheck: handlers.HealthCheck,
		Livez:       handlers.Livez,
		Readyz:      handlers.NewReadyzHandler(db).Readyz,

		Product:  handlers.NewProductHandler(services.Listing, repos),
		Pricing:  handlers.NewPricingHandler(services.Rules),
		Category: handlers.NewCategoryHandler(services.Category),
		AI:       handlers.NewAIHandler(services.Usage),
		APIKey:   handlers.NewAPIKeyHandler(services.APIKey),
		Supplier: handlers.NewSupplierHandler(services.Supplier),

		AdminEnabled: cfg.AdminEnabled,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on signal or idle timeout
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			logger.Info("shutting down server", "signal", sig.String())
		case <-idleMonitor.ShutdownChan():
			logger.Info("shutting down server", "reason", "idle timeout")
		}
		idleMonitor.Stop()

		// Stop the worker first so in-flight products finish or release
		cancel()
		workerDone := make(chan struct{})
		go func() {
			listingWorker.Stop()
			close(workerDone)
		}()
		select {
		case <-workerDone:
		case <-time.After(cfg.WorkerShutdownGracePeriod):
			logger.Warn("worker did not stop within grace period",
				"grace_period", cfg.WorkerShutdownGracePeriod.String())
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	// Start server
	logger.Info("starting server",
		"port", cfg.Port,
		"base_url", cfg.BaseURL,
		"admin_enabled", cfg.AdminEnabled,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
