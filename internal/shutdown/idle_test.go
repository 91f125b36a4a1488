package shutdown

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIdleMonitor_MiddlewareTracksActivity(t *testing.T) {
	m := NewIdleMonitor(IdleMonitorConfig{
		Timeout:      time.Hour,
		ExcludePaths: []string{"/healthz", "/readyz"},
	})

	var activeDuring int64
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activeDuring = m.active.Load()
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if activeDuring != 1 {
		t.Errorf("active during request = %d, want 1", activeDuring)
	}
	if m.active.Load() != 0 {
		t.Errorf("active after request = %d, want 0", m.active.Load())
	}
}

func TestIdleMonitor_ExcludedPathsDoNotCount(t *testing.T) {
	m := NewIdleMonitor(IdleMonitorConfig{
		Timeout:      time.Hour,
		ExcludePaths: []string{"/healthz"},
	})

	var activeDuring int64 = -1
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activeDuring = m.active.Load()
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if activeDuring != 0 {
		t.Errorf("active during excluded request = %d, want 0", activeDuring)
	}
}

func TestIdleMonitor_DisabledIsPassthrough(t *testing.T) {
	m := NewIdleMonitor(IdleMonitorConfig{Timeout: 0})

	called := false
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("next handler not called")
	}

	// Start and Stop are no-ops when disabled
	m.Start()
	m.Stop()
}

func TestIdleMonitor_Excluded(t *testing.T) {
	m := NewIdleMonitor(IdleMonitorConfig{
		Timeout:      time.Hour,
		ExcludePaths: []string{"/healthz", "/readyz"},
	})

	tests := []struct {
		path string
		want bool
	}{
		{"/healthz", true},
		{"/readyz", true},
		{"/api/v1/health", false},
		{"/api/v1/products", false},
	}
	for _, tt := range tests {
		if got := m.excluded(tt.path); got != tt.want {
			t.Errorf("excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
