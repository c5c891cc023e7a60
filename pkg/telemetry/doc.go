// Package telemetry provides observability for Polyglot Hermes.
//
// # Overview
//
// The telemetry package implements structured logging, Prometheus metrics,
// OpenTelemetry distributed tracing, and health check endpoints. It provides
// visibility into routing decisions and backend behavior while keeping
// per-request overhead low.
//
// # Components
//
//   - logging: Structured logging with credential redaction
//   - metrics: Prometheus metrics collection
//   - tracing: OpenTelemetry distributed tracing
//   - health: Liveness/readiness endpoints
//
// # Usage
//
//	// Logger with credential redaction
//	logger, err := logging.New(&logging.Config{Level: "info", Format: "json"})
//	logger.Info("request served", "provider", "deepl", "latency_ms", 182)
//
//	// Prometheus collector
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordTranslation("deepl", "balanced", "success", "en", "es",
//	    182*time.Millisecond, 11, 0.000275)
//
//	// Spans around the translate path
//	ctx, span := tracer.Start(ctx, "router.translate")
//	defer span.End()
//
// # Credential Protection
//
// Backend API credentials never reach log output. The logging package
// redacts sensitive keys wholesale and scrubs known auth formats
// (DeepL-Auth-Key headers, Bearer/Basic tokens, ?key= query parameters)
// from string values. Custom redaction patterns can be configured.
package telemetry
