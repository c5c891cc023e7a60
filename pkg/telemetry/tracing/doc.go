// Package tracing provides OpenTelemetry distributed tracing for Polyglot Hermes.
//
// # Overview
//
// The tracing package implements W3C Trace Context propagation, span creation,
// and trace export over OTLP gRPC. It provides visibility into how a
// translation request moves through routing, cache, and provider calls with
// minimal overhead per span.
//
// # Distributed Tracing
//
// Distributed tracing tracks requests as they flow through multiple services,
// creating a hierarchy of spans that represent operations. Each span records:
//   - Operation name and duration
//   - Attributes (key-value pairs)
//   - Events (timestamped logs within the span)
//   - Trace context (trace ID, span ID, sampling decision)
//
// # Trace Context Propagation
//
// The package implements W3C Trace Context (https://www.w3.org/TR/trace-context/)
// for propagating trace context across HTTP boundaries:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	tracestate: congo=t61rcWkgMzE
//
// # Sampling Strategies
//
// Three sampling strategies are supported:
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces (tracing disabled)
//   - ratio: Sample a percentage of traces (production)
//
// # Usage
//
//	// Initialize tracer
//	cfg := &config.TracingConfig{
//	    Enabled:     true,
//	    Sampler:     "ratio",
//	    SampleRatio: 0.1,
//	    Endpoint:    "localhost:4317",
//	    ServiceName: "polyglot-hermes",
//	}
//	tracer, err := tracing.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	// Create span
//	ctx, span := tracer.Start(ctx, "router.translate")
//	defer span.End()
//
//	// Add attributes
//	tracing.SetProviderAttributes(span, "deepl", "balanced")
//	tracing.SetTranslationAttributes(span, "en", "es", 42)
//
//	// Add event
//	span.AddEvent("provider_fallback", trace.WithAttributes(
//	    attribute.String("from", "deepl"),
//	    attribute.String("to", "claude"),
//	))
//
// # Span Hierarchy
//
// Spans form a hierarchy representing the call tree:
//
//	server.translate (310ms)
//	├── cache.lookup (1ms)
//	├── router.select (2ms)
//	├── provider.translate (300ms)
//	└── journal.record (1ms)
//
// # HTTP Integration
//
// Extract trace context from incoming HTTP requests:
//
//	ctx := tracing.Extract(r.Context(), r.Header)
//	ctx, span := tracer.Start(ctx, "handle_request")
//	defer span.End()
//
// Inject trace context into outgoing HTTP requests:
//
//	req, _ := http.NewRequestWithContext(ctx, "POST", url, body)
//	tracing.Inject(ctx, req.Header)
//
// # Performance
//
// The tracing package is designed for minimal overhead:
//   - Span creation: <100µs per span
//   - Context propagation: <10µs
//   - Sampling decision: <1µs
//   - When disabled: <1µs (noop span)
//
// # Trace Export
//
// Spans are exported over OTLP gRPC. Jaeger and Zipkin deployments consume
// them through an OTLP-speaking collector:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    insecure: true
//	    export_timeout: 10s
//
// # Attribute Helpers
//
// Common attributes can be set using helper functions:
//
//	// Provider attributes
//	tracing.SetProviderAttributes(span, "deepl", "balanced")
//
//	// Language pair and volume
//	tracing.SetTranslationAttributes(span, "en", "es", 42)
//
//	// Cost attributes
//	tracing.SetCostAttributes(span, 0.00105, 42)
//
//	// Error attributes
//	tracing.SetErrorAttributes(span, err, "rate_limit")
//
// Provider credentials are never attached to spans.
package tracing
