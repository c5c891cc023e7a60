// Package metrics provides Prometheus metrics collection for Hermes.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring
// translation request processing, backend health, routing decisions,
// estimated costs, and cache performance. Recording is cheap enough to sit
// on the request path.
//
// # Metrics Categories
//
//   - Request Metrics: translation count, duration, characters, language pairs
//   - Provider Metrics: backend health, latency, load, and error rates
//   - Routing Metrics: strategy selections, fallbacks, attempts per request
//   - Cost Metrics: estimated spend by backend
//   - Cache Metrics: response cache hits, misses, and sizes
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(cfg, nil)
//
//	// Record a served translation
//	collector.RecordTranslation(
//		"deepl",          // provider
//		"balanced",       // strategy
//		"success",        // status
//		"en", "es",       // language pair
//		450*time.Millisecond,
//		1500,             // source characters
//		0.0375,           // estimated cost in USD
//	)
//
//	// Record provider state
//	collector.RecordProviderLatency("deepl", 0.45)
//	collector.UpdateProviderHealth("deepl", true)
//
//	// Record routing decisions
//	collector.RecordSelection("balanced", "deepl", 12*time.Microsecond)
//
// # Prometheus Endpoint
//
// All metrics are exposed on the /metrics endpoint in standard Prometheus
// format:
//
//	# HELP polyglot_hermes_translations_total Total number of translation requests processed
//	# TYPE polyglot_hermes_translations_total counter
//	polyglot_hermes_translations_total{provider="deepl",status="success",strategy="balanced"} 1234
//
// # Cardinality Management
//
// Language pair labels come straight from request input, so the collector
// caps them at 1,000 unique pairs and folds the rest into "other". All
// other labels are bounded by the five built-in backends and four
// strategies.
package metrics
