package metrics

import (
	"time"

	"polyglot-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RoutingMetrics tracks metrics related to provider selection.
//
// Metrics:
//   - polyglot_hermes_routing_selections_total: Selections by strategy and winning backend
//   - polyglot_hermes_routing_scoring_duration_seconds: Candidate scoring duration
//   - polyglot_hermes_routing_fallbacks_total: Failovers by failing backend
//   - polyglot_hermes_routing_attempts: Providers tried per request
type RoutingMetrics struct {
	// Selections by strategy and winner
	selectionsTotal *prometheus.CounterVec

	// Scoring duration histogram
	scoringDuration *prometheus.HistogramVec

	// Failovers by the backend that failed
	fallbacksTotal *prometheus.CounterVec

	// Providers tried per request (1 = first choice served)
	attempts *prometheus.HistogramVec
}

// NewRoutingMetrics creates and registers routing metrics with the provided registry.
func NewRoutingMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RoutingMetrics {
	rm := &RoutingMetrics{
		selectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "routing_selections_total",
				Help:      "Total number of provider selections by strategy and winner",
			},
			[]string{"strategy", "provider"},
		),

		scoringDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "routing_scoring_duration_seconds",
				Help:      "Duration of candidate scoring in seconds",
				// Scoring is in-memory arithmetic and should stay well under a millisecond
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 12), // 1µs to 2ms
			},
			[]string{"strategy"},
		),

		fallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "routing_fallbacks_total",
				Help:      "Total number of failovers by the backend that failed",
			},
			[]string{"provider"},
		),

		attempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "routing_attempts",
				Help:      "Number of providers tried per request",
				Buckets:   prometheus.LinearBuckets(1, 1, 5), // 1 to 5 backends
			},
			[]string{"strategy"},
		),
	}

	registry.MustRegister(
		rm.selectionsTotal,
		rm.scoringDuration,
		rm.fallbacksTotal,
		rm.attempts,
	)

	return rm
}

// RecordSelection records a completed provider selection.
//
// Parameters:
//   - strategy: routing strategy ("cost", "quality", "speed", "balanced")
//   - provider: the winning backend id
//   - duration: time spent scoring candidates
func (rm *RoutingMetrics) RecordSelection(strategy, provider string, duration time.Duration) {
	rm.selectionsTotal.WithLabelValues(strategy, provider).Inc()
	rm.scoringDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordFallback records a failover away from a backend that failed.
func (rm *RoutingMetrics) RecordFallback(provider string) {
	rm.fallbacksTotal.WithLabelValues(provider).Inc()
}

// RecordAttempts records how many providers were tried before a request
// succeeded or ran out of candidates.
func (rm *RoutingMetrics) RecordAttempts(strategy string, attempts int) {
	if attempts > 0 {
		rm.attempts.WithLabelValues(strategy).Observe(float64(attempts))
	}
}
