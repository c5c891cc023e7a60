package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpan runs fn against a recording span and returns the exported stub.
func recordSpan(t *testing.T, fn func(span trace.Span)) tracetest.SpanStub {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "test-span")
	fn(span)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	return spans[0]
}

func findAttr(stub tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range stub.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSetProviderAttributes(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetProviderAttributes(span, "deepl", "balanced")
	})

	if v, ok := findAttr(stub, AttrProvider); !ok || v.AsString() != "deepl" {
		t.Errorf("%s = %v, want deepl", AttrProvider, v.Emit())
	}
	if v, ok := findAttr(stub, AttrStrategy); !ok || v.AsString() != "balanced" {
		t.Errorf("%s = %v, want balanced", AttrStrategy, v.Emit())
	}
}

func TestSetRequestAttributes(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetRequestAttributes(span, "req-123", "acme")
	})

	if v, ok := findAttr(stub, AttrRequestID); !ok || v.AsString() != "req-123" {
		t.Errorf("%s = %v, want req-123", AttrRequestID, v.Emit())
	}
	if v, ok := findAttr(stub, AttrTenant); !ok || v.AsString() != "acme" {
		t.Errorf("%s = %v, want acme", AttrTenant, v.Emit())
	}
}

func TestSetRequestAttributes_EmptyTenant(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetRequestAttributes(span, "req-123", "")
	})

	if _, ok := findAttr(stub, AttrTenant); ok {
		t.Error("empty tenant must not be recorded")
	}
}

func TestSetTranslationAttributes(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetTranslationAttributes(span, "en", "es", 42)
	})

	if v, ok := findAttr(stub, AttrSourceLang); !ok || v.AsString() != "en" {
		t.Errorf("%s = %v, want en", AttrSourceLang, v.Emit())
	}
	if v, ok := findAttr(stub, AttrTargetLang); !ok || v.AsString() != "es" {
		t.Errorf("%s = %v, want es", AttrTargetLang, v.Emit())
	}
	if v, ok := findAttr(stub, AttrCharCount); !ok || v.AsInt64() != 42 {
		t.Errorf("%s = %v, want 42", AttrCharCount, v.Emit())
	}
}

func TestSetDetectionAttributes(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetDetectionAttributes(span, "fr", 0.97)
	})

	if v, ok := findAttr(stub, AttrDetectedLang); !ok || v.AsString() != "fr" {
		t.Errorf("%s = %v, want fr", AttrDetectedLang, v.Emit())
	}
	if v, ok := findAttr(stub, AttrConfidence); !ok || v.AsFloat64() != 0.97 {
		t.Errorf("%s = %v, want 0.97", AttrConfidence, v.Emit())
	}
}

func TestSetCostAttributes(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetCostAttributes(span, 0.00105, 42)
	})

	if v, ok := findAttr(stub, AttrCost); !ok || v.AsFloat64() != 0.00105 {
		t.Errorf("%s = %v, want 0.00105", AttrCost, v.Emit())
	}
	v, ok := findAttr(stub, AttrCostPerChar)
	if !ok {
		t.Fatalf("%s not recorded", AttrCostPerChar)
	}
	if got, want := v.AsFloat64(), 0.00105/42; got != want {
		t.Errorf("%s = %v, want %v", AttrCostPerChar, got, want)
	}
}

func TestSetCostAttributes_ZeroChars(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetCostAttributes(span, 0.00105, 0)
	})

	if _, ok := findAttr(stub, AttrCostPerChar); ok {
		t.Error("per-char cost must not be derived for zero characters")
	}
}

func TestSetRoutingAttributes(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetRoutingAttributes(span, 2, 1)
	})

	if v, ok := findAttr(stub, AttrAttempts); !ok || v.AsInt64() != 2 {
		t.Errorf("%s = %v, want 2", AttrAttempts, v.Emit())
	}
	if v, ok := findAttr(stub, AttrFallbacks); !ok || v.AsInt64() != 1 {
		t.Errorf("%s = %v, want 1", AttrFallbacks, v.Emit())
	}
}

func TestSetCacheAttributes(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetCacheAttributes(span, true, "translation")
	})

	if v, ok := findAttr(stub, AttrCacheHit); !ok || !v.AsBool() {
		t.Errorf("%s = %v, want true", AttrCacheHit, v.Emit())
	}
	if v, ok := findAttr(stub, AttrCacheName); !ok || v.AsString() != "translation" {
		t.Errorf("%s = %v, want translation", AttrCacheName, v.Emit())
	}
}

func TestSetErrorAttributes(t *testing.T) {
	testErr := errors.New("quota exhausted")

	stub := recordSpan(t, func(span trace.Span) {
		SetErrorAttributes(span, testErr, "rate_limit")
	})

	if v, ok := findAttr(stub, AttrErrorType); !ok || v.AsString() != "rate_limit" {
		t.Errorf("%s = %v, want rate_limit", AttrErrorType, v.Emit())
	}
	if v, ok := findAttr(stub, AttrErrorMessage); !ok || v.AsString() != "quota exhausted" {
		t.Errorf("%s = %v, want quota exhausted", AttrErrorMessage, v.Emit())
	}
	if stub.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", stub.Status.Code)
	}
	if len(stub.Events) == 0 {
		t.Error("expected a recorded error event")
	}
}

func TestSetErrorAttributes_NilError(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		SetErrorAttributes(span, nil, "rate_limit")
	})

	if _, ok := findAttr(stub, AttrErrorType); ok {
		t.Error("nil error must not set attributes")
	}
	if stub.Status.Code == codes.Error {
		t.Error("nil error must not set Error status")
	}
}

func TestAddEvent(t *testing.T) {
	stub := recordSpan(t, func(span trace.Span) {
		AddEvent(span, "provider_fallback",
			attribute.String("from", "deepl"),
			attribute.String("to", "claude"),
		)
	})

	if len(stub.Events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(stub.Events))
	}
	if stub.Events[0].Name != "provider_fallback" {
		t.Errorf("event name = %q, want provider_fallback", stub.Events[0].Name)
	}
	if len(stub.Events[0].Attributes) != 2 {
		t.Errorf("event attributes = %d, want 2", len(stub.Events[0].Attributes))
	}
}

func TestAttributeBuilder(t *testing.T) {
	attrs := NewAttributeBuilder().
		WithProvider("deepl", "balanced").
		WithRequest("req-123", "acme").
		WithTranslation("en", "es", 42).
		WithCost(0.00105).
		WithCache(false, "translation").
		Attributes()

	// provider(2) + request(2) + translation(3) + cost(1) + cache(2)
	if len(attrs) != 10 {
		t.Fatalf("built %d attributes, want 10", len(attrs))
	}

	stub := recordSpan(t, func(span trace.Span) {
		NewAttributeBuilder().
			WithProvider("deepl", "balanced").
			WithRequest("req-123", "").
			Apply(span)
	})

	if v, ok := findAttr(stub, AttrProvider); !ok || v.AsString() != "deepl" {
		t.Errorf("%s = %v, want deepl", AttrProvider, v.Emit())
	}
	if _, ok := findAttr(stub, AttrTenant); ok {
		t.Error("empty tenant must not be recorded by the builder")
	}
}

func TestAttributeBuilder_WithCustom(t *testing.T) {
	attrs := NewAttributeBuilder().
		WithCustom("string", "value").
		WithCustom("int", 7).
		WithCustom("int64", int64(9)).
		WithCustom("float64", 2.5).
		WithCustom("bool", true).
		WithCustom("other", []string{"x"}).
		Attributes()

	if len(attrs) != 6 {
		t.Fatalf("built %d attributes, want 6", len(attrs))
	}

	want := map[string]attribute.Type{
		"string":  attribute.STRING,
		"int":     attribute.INT64,
		"int64":   attribute.INT64,
		"float64": attribute.FLOAT64,
		"bool":    attribute.BOOL,
		"other":   attribute.STRING, // fmt fallback
	}
	for _, kv := range attrs {
		if got := kv.Value.Type(); got != want[string(kv.Key)] {
			t.Errorf("attribute %s type = %v, want %v", kv.Key, got, want[string(kv.Key)])
		}
	}
}

func TestAttributeBuilder_Build(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	opt := NewAttributeBuilder().
		WithProvider("libre", "cost").
		Build()

	_, span := tp.Tracer("test").Start(context.Background(), "start-attrs", opt)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	if v, ok := findAttr(spans[0], AttrProvider); !ok || v.AsString() != "libre" {
		t.Errorf("%s = %v, want libre", AttrProvider, v.Emit())
	}
}
