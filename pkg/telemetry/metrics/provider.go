package metrics

import (
	"polyglot-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks metrics related to translation backend health and
// performance.
//
// Metrics:
//   - polyglot_hermes_provider_health: Backend health status (1=healthy, 0=unhealthy)
//   - polyglot_hermes_provider_latency_seconds: Backend API latency
//   - polyglot_hermes_provider_errors_total: Backend error count by type
//   - polyglot_hermes_provider_requests_total: Calls to each backend by operation
//   - polyglot_hermes_provider_load: In-flight requests per backend
type ProviderMetrics struct {
	// Backend health status (gauge: 1=healthy, 0=unhealthy)
	health *prometheus.GaugeVec

	// Backend API latency histogram
	latency *prometheus.HistogramVec

	// Backend error counter
	errors *prometheus.CounterVec

	// Calls to backend by operation
	requests *prometheus.CounterVec

	// In-flight requests per backend
	load *prometheus.GaugeVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_health",
				Help:      "Backend health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_latency_seconds",
				Help:      "Backend API call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_errors_total",
				Help:      "Total number of backend errors by type",
			},
			[]string{"provider", "error_type"},
		),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_requests_total",
				Help:      "Total number of calls to each backend by operation",
			},
			[]string{"provider", "operation"},
		),

		load: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_load",
				Help:      "In-flight requests per backend",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		pm.health,
		pm.latency,
		pm.errors,
		pm.requests,
		pm.load,
	)

	return pm
}

// UpdateHealth updates the health status of a backend.
// The health metric is a gauge where 1=healthy, 0=unhealthy. Disabled
// backends are reported unhealthy.
func (pm *ProviderMetrics) UpdateHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.health.WithLabelValues(provider).Set(value)
}

// RecordLatency records the latency of a backend API call.
func (pm *ProviderMetrics) RecordLatency(provider string, latencySeconds float64) {
	pm.latency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordError records an error from a backend.
//
// Common error types:
//   - "rate_limit": backend rate limit exceeded
//   - "timeout": request timeout
//   - "auth": authentication/authorization error
//   - "server_error": backend server error (5xx)
//   - "client_error": client error (4xx)
//   - "network": network connectivity error
//   - "parse": response parsing error
func (pm *ProviderMetrics) RecordError(provider, errorType string) {
	pm.errors.WithLabelValues(provider, errorType).Inc()
}

// RecordRequest records a call to a backend.
//
// Operations: "translate", "detect", "health_check".
func (pm *ProviderMetrics) RecordRequest(provider, operation string) {
	pm.requests.WithLabelValues(provider, operation).Inc()
}

// UpdateLoad updates the in-flight request count for a backend.
func (pm *ProviderMetrics) UpdateLoad(provider string, inFlight int) {
	pm.load.WithLabelValues(provider).Set(float64(inFlight))
}
