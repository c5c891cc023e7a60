package metrics

import (
	"time"

	"polyglot-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks metrics related to translation request processing.
//
// Metrics:
//   - polyglot_hermes_translations_total: Translation count by provider, strategy, status
//   - polyglot_hermes_request_duration_seconds: Request duration histogram
//   - polyglot_hermes_characters_total: Total source characters translated
//   - polyglot_hermes_language_pairs_total: Requests by language pair
//   - polyglot_hermes_batch_size: Batch request size distribution
//   - polyglot_hermes_detections_total: Language detection count by result
type RequestMetrics struct {
	// Total translation count
	translationsTotal *prometheus.CounterVec

	// Request duration histogram
	requestDuration *prometheus.HistogramVec

	// Source characters processed
	charactersTotal *prometheus.CounterVec

	// Requests by language pair
	languagePairsTotal *prometheus.CounterVec

	// Batch size distribution
	batchSize prometheus.Histogram

	// Detection requests by detected language
	detectionsTotal *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		translationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "translations_total",
				Help:      "Total number of translation requests processed",
			},
			[]string{"provider", "strategy", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of translation requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider", "strategy"},
		),

		charactersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "characters_total",
				Help:      "Total number of source characters translated",
			},
			[]string{"provider"},
		),

		languagePairsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "language_pairs_total",
				Help:      "Total number of requests by language pair",
			},
			[]string{"source", "target"},
		),

		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batch_size",
				Help:      "Number of texts per batch translation request",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512
			},
		),

		detectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "detections_total",
				Help:      "Total number of language detection requests by detected language",
			},
			[]string{"language"},
		),
	}

	registry.MustRegister(
		rm.translationsTotal,
		rm.requestDuration,
		rm.charactersTotal,
		rm.languagePairsTotal,
		rm.batchSize,
		rm.detectionsTotal,
	)

	return rm
}

// RecordTranslation records metrics for a completed translation request.
//
// Parameters:
//   - provider: backend id that served the request ("deepl", "claude", ...),
//     or "cache" for cache hits
//   - strategy: routing strategy used ("cost", "quality", "speed", "balanced")
//   - status: request status ("success", "error", "cached")
//   - duration: total request duration
//   - chars: source character count
func (rm *RequestMetrics) RecordTranslation(provider, strategy, status string, duration time.Duration, chars int) {
	rm.translationsTotal.WithLabelValues(provider, strategy, status).Inc()
	rm.requestDuration.WithLabelValues(provider, strategy).Observe(duration.Seconds())

	if chars > 0 {
		rm.charactersTotal.WithLabelValues(provider).Add(float64(chars))
	}
}

// RecordLanguagePair records a request for a source/target pair.
// Cardinality limiting happens in the Collector, which folds rare pairs
// into "other".
func (rm *RequestMetrics) RecordLanguagePair(source, target string) {
	rm.languagePairsTotal.WithLabelValues(source, target).Inc()
}

// RecordBatch records the size of a batch translation request.
func (rm *RequestMetrics) RecordBatch(size int) {
	if size > 0 {
		rm.batchSize.Observe(float64(size))
	}
}

// RecordDetection records a language detection request. The language label
// is the detected ISO-639-1 code, or "unknown" when detection failed.
// ISO-639-1 bounds the label set, so no cardinality limiting is needed.
func (rm *RequestMetrics) RecordDetection(language string) {
	if language == "" {
		language = "unknown"
	}
	rm.detectionsTotal.WithLabelValues(language).Inc()
}
