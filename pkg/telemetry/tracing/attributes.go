package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span Attribute Helpers
//
// These functions provide a convenient way to set common attributes on spans.
// They use semantic conventions where applicable and ensure consistent attribute
// naming across the codebase.
//
// # Attribute Keys
//
// Standard attribute keys follow OpenTelemetry semantic conventions:
//   - http.*: HTTP-related attributes
//   - rpc.*: RPC-related attributes
//
// Custom attribute keys use the "hermes.*" namespace:
//   - hermes.provider: translation provider id
//   - hermes.strategy: routing strategy
//   - hermes.lang.*: language pair
//   - hermes.chars: character count
//   - hermes.cost.*: request cost
//
// Provider credentials are never attached to spans, redacted or otherwise.

// Common attribute keys used throughout the system
const (
	// Provider attributes
	AttrProvider = "hermes.provider"
	AttrStrategy = "hermes.strategy"

	// Request attributes
	AttrRequestID = "hermes.request_id"
	AttrTenant    = "hermes.tenant"

	// Language attributes
	AttrSourceLang   = "hermes.lang.source"
	AttrTargetLang   = "hermes.lang.target"
	AttrDetectedLang = "hermes.lang.detected"
	AttrConfidence   = "hermes.lang.confidence"

	// Volume attributes
	AttrCharCount = "hermes.chars"
	AttrBatchSize = "hermes.batch_size"

	// Cost attributes
	AttrCost        = "hermes.cost.total"
	AttrCostPerChar = "hermes.cost.per_char"

	// Routing attributes
	AttrAttempts  = "hermes.routing.attempts"
	AttrFallbacks = "hermes.routing.fallbacks"

	// Cache attributes
	AttrCacheHit  = "hermes.cache.hit"
	AttrCacheName = "hermes.cache.name"

	// Error attributes
	AttrErrorType    = "hermes.error.type"
	AttrErrorMessage = "error.message"

	// Performance attributes
	AttrDuration   = "hermes.duration_ms"
	AttrRetryCount = "hermes.retry_count"
)

// SetProviderAttributes sets provider-related attributes on a span.
//
// Example:
//
//	SetProviderAttributes(span, "deepl", "balanced")
func SetProviderAttributes(span trace.Span, provider, strategy string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrStrategy, strategy),
	)
}

// SetRequestAttributes sets request-related attributes on a span.
// Provider credentials must never be passed here; spans are exported
// off-process.
//
// Example:
//
//	SetRequestAttributes(span, "req-123", "acme")
func SetRequestAttributes(span trace.Span, requestID, tenant string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRequestID, requestID),
	}

	if tenant != "" {
		attrs = append(attrs, attribute.String(AttrTenant, tenant))
	}

	span.SetAttributes(attrs...)
}

// SetTranslationAttributes sets the language pair and character count on a
// span. The source language may be "auto" before detection has run.
//
// Example:
//
//	SetTranslationAttributes(span, "en", "es", 42)
func SetTranslationAttributes(span trace.Span, sourceLang, targetLang string, chars int) {
	span.SetAttributes(
		attribute.String(AttrSourceLang, sourceLang),
		attribute.String(AttrTargetLang, targetLang),
		attribute.Int(AttrCharCount, chars),
	)
}

// SetDetectionAttributes sets language detection results on a span.
//
// Example:
//
//	SetDetectionAttributes(span, "fr", 0.97)
func SetDetectionAttributes(span trace.Span, detected string, confidence float64) {
	span.SetAttributes(
		attribute.String(AttrDetectedLang, detected),
		attribute.Float64(AttrConfidence, confidence),
	)
}

// SetCostAttributes sets cost-related attributes on a span. Costs are USD.
// If chars is positive, the per-character cost is derived and recorded too.
//
// Example:
//
//	SetCostAttributes(span, 0.00105, 42)
func SetCostAttributes(span trace.Span, cost float64, chars int) {
	attrs := []attribute.KeyValue{
		attribute.Float64(AttrCost, cost),
	}

	if chars > 0 {
		attrs = append(attrs, attribute.Float64(AttrCostPerChar, cost/float64(chars)))
	}

	span.SetAttributes(attrs...)
}

// SetRoutingAttributes sets routing outcome attributes on a span. Attempts
// counts providers tried including the one that succeeded; fallbacks counts
// the failed ones before it.
//
// Example:
//
//	SetRoutingAttributes(span, 2, 1)
func SetRoutingAttributes(span trace.Span, attempts, fallbacks int) {
	span.SetAttributes(
		attribute.Int(AttrAttempts, attempts),
		attribute.Int(AttrFallbacks, fallbacks),
	)
}

// SetCacheAttributes sets cache-related attributes on a span.
//
// Example:
//
//	SetCacheAttributes(span, true, "translation")
func SetCacheAttributes(span trace.Span, hit bool, cacheName string) {
	span.SetAttributes(
		attribute.Bool(AttrCacheHit, hit),
		attribute.String(AttrCacheName, cacheName),
	)
}

// SetErrorAttributes sets error-related attributes on a span.
// This also records the error using span.RecordError() and sets the span status.
//
// Example:
//
//	SetErrorAttributes(span, err, "rate_limit")
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMessage, err.Error()),
	)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetDurationAttribute sets the duration attribute on a span.
// Duration is recorded in milliseconds.
//
// Example:
//
//	start := time.Now()
//	// ... do work ...
//	SetDurationAttribute(span, time.Since(start).Milliseconds())
func SetDurationAttribute(span trace.Span, durationMs int64) {
	span.SetAttributes(attribute.Int64(AttrDuration, durationMs))
}

// SetRetryAttribute sets the retry count attribute on a span.
//
// Example:
//
//	SetRetryAttribute(span, 2)
func SetRetryAttribute(span trace.Span, retryCount int) {
	span.SetAttributes(attribute.Int(AttrRetryCount, retryCount))
}

// SetBatchAttribute sets the batch size attribute on a span.
//
// Example:
//
//	SetBatchAttribute(span, len(req.Texts))
func SetBatchAttribute(span trace.Span, size int) {
	span.SetAttributes(attribute.Int(AttrBatchSize, size))
}

// AddEvent adds a named event to the span with optional attributes.
// Events represent interesting points in the span's lifetime.
//
// Example:
//
//	AddEvent(span, "provider_fallback",
//	    attribute.String("from", "deepl"),
//	    attribute.String("to", "claude"),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 10),
	}
}

// WithProvider adds provider and strategy attributes.
func (ab *AttributeBuilder) WithProvider(provider, strategy string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrProvider, provider),
		attribute.String(AttrStrategy, strategy),
	)
	return ab
}

// WithRequest adds request-related attributes.
func (ab *AttributeBuilder) WithRequest(requestID, tenant string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrRequestID, requestID))
	if tenant != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrTenant, tenant))
	}
	return ab
}

// WithTranslation adds language pair and character count attributes.
func (ab *AttributeBuilder) WithTranslation(sourceLang, targetLang string, chars int) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrSourceLang, sourceLang),
		attribute.String(AttrTargetLang, targetLang),
		attribute.Int(AttrCharCount, chars),
	)
	return ab
}

// WithCost adds the cost attribute.
func (ab *AttributeBuilder) WithCost(cost float64) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.Float64(AttrCost, cost))
	return ab
}

// WithCache adds cache attributes.
func (ab *AttributeBuilder) WithCache(hit bool, cacheName string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.Bool(AttrCacheHit, hit),
		attribute.String(AttrCacheName, cacheName),
	)
	return ab
}

// WithCustom adds a custom attribute.
func (ab *AttributeBuilder) WithCustom(key string, value interface{}) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		// Fall back to string representation
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the built attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply applies the attributes to a span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
