package mw

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
)

// TimeoutConfig defines timeout behavior for different path patterns.
type TimeoutConfig struct {
	// Default timeout for most endpoints
	Default time.Duration
	// Extended timeout for long-running operations (batch quotes, bulk ingest)
	Extended time.Duration
	// Patterns that get the extended timeout (e.g., "/quote", "/products")
	ExtendedPatterns []string
}

func (c TimeoutConfig) timeoutFor(path string) time.Duration {
	for _, pattern := range c.ExtendedPatterns {
		if strings.Contains(path, pattern) {
			return c.Extended
		}
	}
	return c.Default
}

// capturedPanic carries a panic value and its stack across goroutines.
type capturedPanic struct {
	value any
	stack []byte
}

// Timeout returns a middleware that applies configurable per-path timeouts.
// A request that exceeds its deadline gets a 504; panics in the handler
// goroutine are re-raised on the serving goroutine so Recoverer sees them.
func Timeout(cfg TimeoutConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), cfg.timeoutFor(r.URL.Path))
			defer cancel()

			done := make(chan struct{})
			panicChan := make(chan *capturedPanic, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- &capturedPanic{value: p, stack: debug.Stack()}
					}
				}()
				next.ServeHTTP(w, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case p := <-panicChan:
				panic(fmt.Sprintf("%v\n\nOriginal stack trace:\n%s", p.value, p.stack))
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					w.WriteHeader(http.StatusGatewayTimeout)
				}
			}
		})
	}
}
