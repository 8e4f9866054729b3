// Package metrics provides Prometheus metrics collection for the API.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global metrics - used by the application
	// Using atomic.Pointer for lock-free initialization checks on hot path metrics.
	requestsTotal     atomic.Pointer[prometheus.CounterVec]
	requestDuration   atomic.Pointer[prometheus.HistogramVec]
	authFailuresTotal atomic.Pointer[prometheus.CounterVec]
	mailOutcomesTotal atomic.Pointer[prometheus.CounterVec]
	mailRetriesTotal  atomic.Pointer[prometheus.Counter]
	mailQueueDepth    atomic.Pointer[prometheus.GaugeVec]
)

// Init initializes all Prometheus metrics and registers them with the provided registry.
// This should be called once at application startup.
func Init(reg prometheus.Registerer) error {
	// HTTP request counter: tracks all requests by method, path (normalized), and status code
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jurylink",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the API",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	// Request duration histogram: tracks latency distribution
	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jurylink",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets, // Default buckets: .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	// Auth failures counter: tracks rejected judging tokens and organizer keys
	authFailuresTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jurylink",
			Subsystem: "api",
			Name:      "auth_failures_total",
			Help:      "Total number of authentication failures",
		},
		[]string{"reason"},
	)
	if err := reg.Register(authFailuresTotalVec); err != nil {
		return fmt.Errorf("failed to register authFailuresTotal: %w", err)
	}

	// Mail outcome counter: dispatches that reached a terminal state
	mailOutcomesTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jurylink",
			Subsystem: "mail",
			Name:      "dispatches_total",
			Help:      "Total number of mail dispatches that reached a final outcome",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(mailOutcomesTotalVec); err != nil {
		return fmt.Errorf("failed to register mailOutcomesTotal: %w", err)
	}

	// Retry counter: dispatches requeued after a transient send failure
	mailRetriesCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jurylink",
			Subsystem: "mail",
			Name:      "retries_total",
			Help:      "Total number of mail dispatches requeued after a failure",
		},
	)
	if err := reg.Register(mailRetriesCounter); err != nil {
		return fmt.Errorf("failed to register mailRetries: %w", err)
	}

	// Queue depth gauge: pending items per priority tier
	mailQueueDepthVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jurylink",
			Subsystem: "mail",
			Name:      "queue_depth",
			Help:      "Number of mail dispatches waiting in the queue",
		},
		[]string{"priority"},
	)
	if err := reg.Register(mailQueueDepthVec); err != nil {
		return fmt.Errorf("failed to register mailQueueDepth: %w", err)
	}

	// Info gauge: static metric with constant label values for build info
	infoGaugeVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jurylink",
			Subsystem: "api",
			Name:      "info",
			Help:      "API version and build information",
		},
		[]string{"version"},
	)
	infoGaugeInstance := infoGaugeVec.WithLabelValues("1.0.0")
	if err := reg.Register(infoGaugeVec); err != nil {
		return fmt.Errorf("failed to register infoGauge: %w", err)
	}
	infoGaugeInstance.Set(1)

	// Store metrics in atomics for lock-free access in record functions
	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	authFailuresTotal.Store(authFailuresTotalVec)
	mailOutcomesTotal.Store(mailOutcomesTotalVec)
	mailRetriesTotal.Store(&mailRetriesCounter)
	mailQueueDepth.Store(mailQueueDepthVec)

	return nil
}

// RecordRequest increments the requests counter for the given method, path, and status code.
// The path should be normalized (e.g., "/judge/:token/info" instead of the raw capability).
// Uses atomic.Pointer for lock-free nil checks; Prometheus operations themselves are thread-safe.
func RecordRequest(method, path, statusCode string) {
	if counter := requestsTotal.Load(); counter != nil {
		counter.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordRequestDuration records the latency for a request.
// Duration should be in seconds.
func RecordRequestDuration(method, path, statusCode string, durationSeconds float64) {
	if histogram := requestDuration.Load(); histogram != nil {
		histogram.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
	}
}

// RecordAuthFailure increments the auth failures counter for the given reason.
// Common reasons: "invalid_format", "not_found", "expired", "invalid_key"
func RecordAuthFailure(reason string) {
	if counter := authFailuresTotal.Load(); counter != nil {
		counter.WithLabelValues(reason).Inc()
	}
}

// RecordMailOutcome increments the dispatch counter with a final outcome,
// either "sent" or "failed".
func RecordMailOutcome(outcome string) {
	if counter := mailOutcomesTotal.Load(); counter != nil {
		counter.WithLabelValues(outcome).Inc()
	}
}

// RecordMailRetry increments the retry counter.
func RecordMailRetry() {
	if counter := mailRetriesTotal.Load(); counter != nil {
		(*counter).Inc()
	}
}

// SetMailQueueDepth sets the pending-item gauge for a priority tier.
func SetMailQueueDepth(priority string, depth float64) {
	if gauge := mailQueueDepth.Load(); gauge != nil {
		gauge.WithLabelValues(priority).Set(depth)
	}
}

// Handler returns an HTTP handler for Prometheus metrics in text format.
// This handler should be registered at /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GetMetricsText returns the Prometheus text-format output from a registry.
// This is useful for testing and debugging.
func GetMetricsText(reg prometheus.Gatherer) (string, error) {
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	// Use httptest to capture the handler output
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body, err := io.ReadAll(w.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metrics output: %w", err)
	}

	return string(body), nil
}
