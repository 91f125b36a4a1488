// Package shutdown provides idle monitoring for scale-to-zero deployments.
package shutdown

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// WorkChecker reports whether background work is in progress. The listing
// worker plugs in here so the server never stops mid-pipeline.
type WorkChecker func() bool

// IdleMonitor tracks request activity and signals when the server has been
// idle long enough to stop. Platforms like Fly.io restart the machine on the
// next request.
type IdleMonitor struct {
	timeout      time.Duration
	logger       *slog.Logger
	active       atomic.Int64
	mu           sync.RWMutex
	lastActivity time.Time
	shutdownChan chan struct{}
	stopChan     chan struct{}
	excludePaths []string
	workCheck    WorkChecker
}

// IdleMonitorConfig holds configuration for the idle monitor.
type IdleMonitorConfig struct {
	// Timeout is how long the server must be quiet before signaling
	// shutdown. Zero disables the monitor.
	Timeout time.Duration
	Logger  *slog.Logger
	// ExcludePaths lists URL path prefixes that do not count as activity,
	// typically the Kubernetes probes.
	ExcludePaths []string
	// WorkCheck, when set, holds off shutdown while it returns true.
	WorkCheck WorkChecker
}

// NewIdleMonitor creates a new idle monitor.
func NewIdleMonitor(cfg IdleMonitorConfig) *IdleMonitor {
	m := &IdleMonitor{
		timeout:      cfg.Timeout,
		logger:       cfg.Logger,
		lastActivity: time.Now(),
		shutdownChan: make(chan struct{}),
		stopChan:     make(chan struct{}),
		excludePaths: cfg.ExcludePaths,
		workCheck:    cfg.WorkCheck,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Start begins monitoring for idle periods.
func (m *IdleMonitor) Start() {
	if m.timeout <= 0 {
		m.logger.Debug("idle monitoring disabled (timeout=0)")
		return
	}
	m.logger.Info("idle monitoring started", "timeout", m.timeout, "exclude_paths", m.excludePaths)
	go m.run()
}

// Stop stops the idle monitor.
func (m *IdleMonitor) Stop() {
	if m.timeout <= 0 {
		return
	}
	close(m.stopChan)
}

// ShutdownChan returns a channel that is closed when the idle timeout is
// reached.
func (m *IdleMonitor) ShutdownChan() <-chan struct{} {
	return m.shutdownChan
}

// Middleware returns an HTTP middleware that tracks request activity,
// skipping excluded paths.
func (m *IdleMonitor) Middleware(next http.Handler) http.Handler {
	if m.timeout <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.excluded(r.URL.Path) {
			m.requestStart()
			defer m.requestEnd()
		}
		next.ServeHTTP(w, r)
	})
}

func (m *IdleMonitor) excluded(path string) bool {
	for _, prefix := range m.excludePaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (m *IdleMonitor) requestStart() {
	m.active.Add(1)
	m.touch()
}

func (m *IdleMonitor) requestEnd() {
	m.active.Add(-1)
	m.touch()
}

func (m *IdleMonitor) touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

func (m *IdleMonitor) run() {
	// Check more frequently than the timeout to stay responsive
	checkInterval := m.timeout / 6
	if checkInterval < 5*time.Second {
		checkInterval = 5 * time.Second
	}
	if checkInterval > 30*time.Second {
		checkInterval = 30 * time.Second
	}

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			active := m.active.Load()
			busy := m.workCheck != nil && m.workCheck()

			// Active requests or pipeline work reset the clock, so the
			// server gets a full quiet period after work completes
			if active > 0 || busy {
				m.touch()
				continue
			}

			m.mu.RLock()
			idleTime := time.Since(m.lastActivity)
			m.mu.RUnlock()

			if idleTime >= m.timeout {
				m.logger.Info("idle timeout reached, signaling graceful shutdown",
					"idle_time", idleTime,
					"timeout", m.timeout,
				)
				close(m.shutdownChan)
				return
			}

			m.logger.Debug("idle check",
				"idle_time", idleTime,
				"active_requests", active,
				"pipeline_busy", busy,
				"timeout", m.timeout,
			)
		}
	}
}
