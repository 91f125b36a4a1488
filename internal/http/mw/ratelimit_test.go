package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitByCaller_LimitsPerKey(t *testing.T) {
	mw := RateLimitByCaller(RateLimitConfig{KeyRequestsPerMinute: 2, IPRequestsPerMinute: 2})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	claims := &AuthClaims{Subject: "key-1", IsAPIKey: true}
	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req = req.WithContext(context.WithValue(req.Context(), AuthClaimsKey, claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := do(); code != http.StatusOK {
		t.Fatalf("second request = %d, want 200", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}
}

func TestRateLimitByCaller_KeysByBearerToken(t *testing.T) {
	mw := RateLimitByCaller(RateLimitConfig{KeyRequestsPerMinute: 1})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("sb_aaa"); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := do("sb_aaa"); code != http.StatusTooManyRequests {
		t.Errorf("second request same token = %d, want 429", code)
	}
	// A different token has its own bucket
	if code := do("sb_bbb"); code != http.StatusOK {
		t.Errorf("request with different token = %d, want 200", code)
	}
}

func TestRateLimitByCaller_ZeroIsUnlimited(t *testing.T) {
	mw := RateLimitByCaller(RateLimitConfig{KeyRequestsPerMinute: 0})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i, rec.Code)
		}
	}
}

func TestRateLimitGlobal(t *testing.T) {
	mw := RateLimitGlobal(1)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", rec.Code)
	}
}
