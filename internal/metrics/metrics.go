// Package metrics exposes Prometheus instrumentation for the blogging
// service. Counters are registered via promauto and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "welog_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "welog_registrations_total",
		Help: "Number of registration attempts grouped by status.",
	}, []string{"status"})

	postsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "welog_posts_created_total",
		Help: "Number of posts created across both surfaces.",
	})

	// RequestDuration is observed by the HTTP metrics middleware.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "welog_http_request_duration_seconds",
		Help:    "HTTP request latency grouped by method and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncRegistration increments the registration counter.
func IncRegistration(status string) {
	registrations.WithLabelValues(status).Inc()
}

// IncPostCreated increments the created-posts counter.
func IncPostCreated() {
	postsCreated.Inc()
}
