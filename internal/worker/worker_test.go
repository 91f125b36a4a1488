package worker

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sellbridge/sellbridge-api/internal/models"
)

// stubProductRepo satisfies repository.ProductRepository with an empty queue.
type stubProductRepo struct {
	mu     sync.Mutex
	claims int
}

func (s *stubProductRepo) Create(context.Context, *models.Product) error { return nil }
func (s *stubProductRepo) GetByID(context.Context, string) (*models.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) ListByStatus(context.Context, models.ProductStatus, int, int) ([]models.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) Update(context.Context, *models.Product) error { return nil }
func (s *stubProductRepo) ClaimPending(context.Context) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims++
	return nil, nil
}
func (s *stubProductRepo) Release(context.Context, string) error { return nil }
func (s *stubProductRepo) CountByStatus(context.Context) (map[models.ProductStatus]int, error) {
	return nil, nil
}

func (s *stubProductRepo) claimCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims
}

// ========================================
// New Worker Tests
// ========================================

func TestNew_Defaults(t *testing.T) {
	w := New(&stubProductRepo{}, nil, Config{}, nil)

	if w == nil {
		t.Fatal("expected worker, got nil")
	}
	if w.pollInterval != 5*time.Second {
		t.Errorf("pollInterval = %v, want 5s (default)", w.pollInterval)
	}
	if w.concurrency != 3 {
		t.Errorf("concurrency = %d, want 3 (default)", w.concurrency)
	}
	if w.logger == nil {
		t.Error("logger should be set to default")
	}
}

func TestNew_CustomConfig(t *testing.T) {
	cfg := Config{
		PollInterval: 10 * time.Second,
		Concurrency:  8,
	}

	w := New(&stubProductRepo{}, nil, cfg, slog.Default())

	if w.pollInterval != 10*time.Second {
		t.Errorf("pollInterval = %v, want 10s", w.pollInterval)
	}
	if w.concurrency != 8 {
		t.Errorf("concurrency = %d, want 8", w.concurrency)
	}
}

func TestNew_PartialDefaults(t *testing.T) {
	w := New(&stubProductRepo{}, nil, Config{PollInterval: 15 * time.Second}, nil)

	if w.pollInterval != 15*time.Second {
		t.Errorf("pollInterval = %v, want 15s", w.pollInterval)
	}
	if w.concurrency != 3 {
		t.Errorf("concurrency = %d, want 3 (default)", w.concurrency)
	}
}

// ========================================
// Start/Stop Tests
// ========================================

func TestWorker_StartStop(t *testing.T) {
	repo := &stubProductRepo{}
	w := New(repo, nil, Config{PollInterval: 10 * time.Millisecond, Concurrency: 2}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx)

	// Let a few poll cycles run against the empty queue
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("Stop() timed out")
	}

	if repo.claimCount() == 0 {
		t.Error("worker never polled the queue")
	}
}

func TestWorker_StopViaContext(t *testing.T) {
	w := New(&stubProductRepo{}, nil, Config{PollInterval: 10 * time.Millisecond, Concurrency: 1}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())

	w.Start(ctx)
	cancel()

	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Error("Stop() timed out after context cancellation")
	}
}
