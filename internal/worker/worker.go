// Package worker runs the background listing pipeline.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/repository"
	"github.com/sellbridge/sellbridge-api/internal/service"
)

// Worker claims pending products and runs them through the listing pipeline.
type Worker struct {
	productRepo  repository.ProductRepository
	listingSvc   *service.ListingService
	pollInterval time.Duration
	concurrency  int
	stop         chan struct{}
	wg           sync.WaitGroup
	inFlight     atomic.Int64
	logger       *slog.Logger
}

// Config holds worker configuration.
type Config struct {
	PollInterval time.Duration
	Concurrency  int
}

// New creates a new worker.
func New(
	productRepo repository.ProductRepository,
	listingSvc *service.ListingService,
	cfg Config,
	logger *slog.Logger,
) *Worker {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		productRepo:  productRepo,
		listingSvc:   listingSvc,
		pollInterval: cfg.PollInterval,
		concurrency:  cfg.Concurrency,
		stop:         make(chan struct{}),
		logger:       logger.With("component", "worker"),
	}
}

// Start begins processing products.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting", "concurrency", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.runWorker(ctx, i)
	}
}

// Stop gracefully stops the worker. In-flight products finish their current
// pipeline run before the call returns.
func (w *Worker) Stop() {
	w.logger.Info("stopping")
	close(w.stop)
	w.wg.Wait()
	w.logger.Info("stopped")
}

// Busy reports whether any worker goroutine is processing a product. Used by
// the idle monitor to hold off scale-to-zero shutdown during pipeline runs.
func (w *Worker) Busy() bool {
	return w.inFlight.Load() > 0
}

func (w *Worker) runWorker(ctx context.Context, workerID int) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Drain the backlog before sleeping again
			for w.processNextProduct(ctx, workerID) {
				select {
				case <-w.stop:
					return
				case <-ctx.Done():
					return
				default:
				}
			}
		}
	}
}

// processNextProduct claims and processes one product. It reports whether a
// product was claimed so the caller can keep draining.
func (w *Worker) processNextProduct(ctx context.Context, workerID int) bool {
	product, err := w.productRepo.ClaimPending(ctx)
	if err != nil {
		w.logger.Error("failed to claim product", "worker_id", workerID, "error", err)
		return false
	}
	if product == nil {
		return false // No pending products
	}

	w.inFlight.Add(1)
	defer w.inFlight.Add(-1)

	w.logger.Info("processing product",
		"worker_id", workerID,
		"product_id", product.ID,
		"supplier_id", product.SupplierID,
	)

	if err := w.listingSvc.Process(ctx, product); err != nil {
		// Terminal outcomes are persisted inside Process; an error here means
		// a transient failure. Put the product back so another cycle retries.
		w.logger.Error("pipeline failed, returning product to queue",
			"product_id", product.ID,
			"error", err,
		)
		if relErr := w.productRepo.Release(ctx, product.ID); relErr != nil {
			w.logger.Error("failed to release product", "product_id", product.ID, "error", relErr)
		}
		return true
	}

	w.logger.Info("processed product", "product_id", product.ID, "status", string(product.Status))
	return true
}
