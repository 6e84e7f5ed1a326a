// Package metrics defines the application's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SignUps         prometheus.Counter
	AuthFailures    prometheus.Counter
	ActiveSessions  prometheus.Gauge
	ChildrenCreated prometheus.Counter
	LinkFailures    prometheus.Counter
	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default
// registry.
func New() *Metrics {
	return &Metrics{
		SignUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bambini_sign_ups_total",
			Help: "Total number of guardian sign-ups",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bambini_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bambini_active_sessions",
			Help: "Current number of active guardian sessions",
		}),
		ChildrenCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bambini_children_created_total",
			Help: "Total number of child profiles created",
		}),
		LinkFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bambini_link_failures_total",
			Help: "Total number of guardian-child link failures leaving an orphaned child",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bambini_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
