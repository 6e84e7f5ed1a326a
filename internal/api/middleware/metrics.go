package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bambini-app/bambini-api/internal/platform/metrics"
)

// MetricsMiddleware records per-endpoint request latency. The endpoint
// label is the chi route pattern, not the raw path, so path parameters
// do not explode the label cardinality.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}
			m.EndpointLatency.WithLabelValues(r.Method + " " + endpoint).
				Observe(time.Since(start).Seconds())
		})
	}
}
