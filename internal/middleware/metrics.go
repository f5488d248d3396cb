package middleware

import (
	"net/http"
	"strconv"
	"time"

	"welog/internal/metrics"
)

// Metrics records request latency and status for every HTTP request.
// Labels stay low-cardinality: method and status code only, never the path.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		metrics.RequestDuration.
			WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}
