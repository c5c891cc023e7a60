package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	testTraceID     = "4bf92f3577b34da6a3ce929d0e0e4736"
	testSpanID      = "00f067aa0ba902b7"
	testTraceParent = "00-" + testTraceID + "-" + testSpanID + "-01"
)

// registerW3CPropagator installs the composite propagator globally. New()
// does this for enabled tracers; tests set it explicitly so they do not
// depend on execution order.
func registerW3CPropagator() {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
}

// sampledContext returns a context carrying a remote sampled span context.
func sampledContext(tb testing.TB) context.Context {
	tb.Helper()

	traceID, err := trace.TraceIDFromHex(testTraceID)
	if err != nil {
		tb.Fatalf("TraceIDFromHex() error = %v", err)
	}
	spanID, err := trace.SpanIDFromHex(testSpanID)
	if err != nil {
		tb.Fatalf("SpanIDFromHex() error = %v", err)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(context.Background(), sc)
}

func TestValidateTraceParent(t *testing.T) {
	tests := []struct {
		name        string
		traceparent string
		want        bool
	}{
		{
			name:        "valid traceparent",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
			want:        true,
		},
		{
			name:        "valid traceparent - not sampled",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00",
			want:        true,
		},
		{
			name:        "invalid - wrong number of parts",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7",
			want:        false,
		},
		{
			name:        "invalid - version wrong length",
			traceparent: "0-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
			want:        false,
		},
		{
			name:        "invalid - trace ID wrong length",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e473-00f067aa0ba902b7-01",
			want:        false,
		},
		{
			name:        "invalid - parent ID wrong length",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902-01",
			want:        false,
		},
		{
			name:        "invalid - flags wrong length",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-1",
			want:        false,
		},
		{
			name:        "invalid - non-hex characters in trace ID",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e473g-00f067aa0ba902b7-01",
			want:        false,
		},
		{
			name:        "invalid - non-hex characters in parent ID",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902bz-01",
			want:        false,
		},
		{
			name:        "invalid - all-zeros trace ID",
			traceparent: "00-00000000000000000000000000000000-00f067aa0ba902b7-01",
			want:        false,
		},
		{
			name:        "invalid - all-zeros parent ID",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-0000000000000000-01",
			want:        false,
		},
		{
			name:        "empty string",
			traceparent: "",
			want:        false,
		},
		{
			name:        "invalid format",
			traceparent: "invalid",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTraceParent(tt.traceparent); got != tt.want {
				t.Errorf("ValidateTraceParent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTraceParent(t *testing.T) {
	tests := []struct {
		name         string
		traceparent  string
		wantVersion  string
		wantTraceID  string
		wantParentID string
		wantFlags    string
		wantValid    bool
	}{
		{
			name:         "valid traceparent",
			traceparent:  "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
			wantVersion:  "00",
			wantTraceID:  "4bf92f3577b34da6a3ce929d0e0e4736",
			wantParentID: "00f067aa0ba902b7",
			wantFlags:    "01",
			wantValid:    true,
		},
		{
			name:         "valid traceparent - not sampled",
			traceparent:  "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00",
			wantVersion:  "00",
			wantTraceID:  "4bf92f3577b34da6a3ce929d0e0e4736",
			wantParentID: "00f067aa0ba902b7",
			wantFlags:    "00",
			wantValid:    true,
		},
		{
			name:        "invalid traceparent",
			traceparent: "invalid",
			wantValid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, traceID, parentID, flags, valid := ParseTraceParent(tt.traceparent)
			if valid != tt.wantValid {
				t.Errorf("ParseTraceParent() valid = %v, want %v", valid, tt.wantValid)
			}
			if version != tt.wantVersion {
				t.Errorf("ParseTraceParent() version = %v, want %v", version, tt.wantVersion)
			}
			if traceID != tt.wantTraceID {
				t.Errorf("ParseTraceParent() traceID = %v, want %v", traceID, tt.wantTraceID)
			}
			if parentID != tt.wantParentID {
				t.Errorf("ParseTraceParent() parentID = %v, want %v", parentID, tt.wantParentID)
			}
			if flags != tt.wantFlags {
				t.Errorf("ParseTraceParent() flags = %v, want %v", flags, tt.wantFlags)
			}
		})
	}
}

func TestIsSampledFromTraceParent(t *testing.T) {
	tests := []struct {
		name        string
		traceparent string
		want        bool
	}{
		{
			name:        "sampled (01)",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
			want:        true,
		},
		{
			name:        "not sampled (00)",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00",
			want:        false,
		},
		{
			name:        "sampled with other flags (03)",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-03",
			want:        true,
		},
		{
			name:        "not sampled with other flags (02)",
			traceparent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-02",
			want:        false,
		},
		{
			name:        "invalid traceparent",
			traceparent: "invalid",
			want:        false,
		},
		{
			name:        "empty string",
			traceparent: "",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSampledFromTraceParent(tt.traceparent); got != tt.want {
				t.Errorf("IsSampledFromTraceParent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsHexString(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want bool
	}{
		{
			name: "valid lowercase hex",
			s:    "4bf92f3577b34da6a3ce929d0e0e4736",
			want: true,
		},
		{
			name: "valid uppercase hex",
			s:    "4BF92F3577B34DA6A3CE929D0E0E4736",
			want: true,
		},
		{
			name: "valid mixed case hex",
			s:    "4BF92f3577b34DA6a3CE929d0e0e4736",
			want: true,
		},
		{
			name: "invalid - contains g",
			s:    "4bf92f3577b34da6a3ce929d0e0e473g",
			want: false,
		},
		{
			name: "invalid - contains space",
			s:    "4bf92f35 77b34da6a3ce929d0e0e4736",
			want: false,
		},
		{
			name: "empty string",
			s:    "",
			want: true, // length checks happen in ValidateTraceParent
		},
		{
			name: "valid - all zeros",
			s:    "00000000000000000000000000000000",
			want: true,
		},
		{
			name: "valid - all f's",
			s:    "ffffffffffffffffffffffffffffffff",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHexString(tt.s); got != tt.want {
				t.Errorf("isHexString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	registerW3CPropagator()

	// Valid traceparent populates the context with the remote trace
	headers := http.Header{}
	headers.Set("traceparent", testTraceParent)

	ctx := Extract(context.Background(), headers)
	if got := TraceID(ctx); got != testTraceID {
		t.Errorf("TraceID() = %q, want %q", got, testTraceID)
	}
	if !IsSampled(ctx) {
		t.Error("IsSampled() = false, want true for -01 flags")
	}

	// Unsampled traceparent
	headers = http.Header{}
	headers.Set("traceparent", "00-"+testTraceID+"-"+testSpanID+"-00")
	ctx = Extract(context.Background(), headers)
	if IsSampled(ctx) {
		t.Error("IsSampled() = true, want false for -00 flags")
	}

	// No traceparent leaves the context without a trace
	ctx = Extract(context.Background(), http.Header{})
	if got := TraceID(ctx); got != "" {
		t.Errorf("TraceID() = %q, want empty without traceparent", got)
	}

	// Invalid traceparent is ignored
	headers = http.Header{}
	headers.Set("traceparent", "invalid")
	ctx = Extract(context.Background(), headers)
	if got := TraceID(ctx); got != "" {
		t.Errorf("TraceID() = %q, want empty for invalid traceparent", got)
	}
}

func TestInject(t *testing.T) {
	registerW3CPropagator()

	// No span in context injects nothing
	headers := http.Header{}
	Inject(context.Background(), headers)
	if got := headers.Get("traceparent"); got != "" {
		t.Errorf("traceparent = %q, want empty without span", got)
	}

	// Context with a sampled span context round-trips
	headers = http.Header{}
	Inject(sampledContext(t), headers)
	if got := headers.Get("traceparent"); got != testTraceParent {
		t.Errorf("traceparent = %q, want %q", got, testTraceParent)
	}
}

func TestExtractFromMap(t *testing.T) {
	registerW3CPropagator()

	carrier := map[string]string{
		"traceparent": testTraceParent,
	}

	ctx := ExtractFromMap(context.Background(), carrier)
	if got := TraceID(ctx); got != testTraceID {
		t.Errorf("TraceID() = %q, want %q", got, testTraceID)
	}

	ctx = ExtractFromMap(context.Background(), map[string]string{})
	if got := TraceID(ctx); got != "" {
		t.Errorf("TraceID() = %q, want empty without traceparent", got)
	}
}

func TestInjectToMap(t *testing.T) {
	registerW3CPropagator()

	carrier := map[string]string{}
	InjectToMap(sampledContext(t), carrier)
	if got := carrier["traceparent"]; got != testTraceParent {
		t.Errorf("traceparent = %q, want %q", got, testTraceParent)
	}
}

func TestHTTPMiddleware(t *testing.T) {
	registerW3CPropagator()

	handlerCalled := false
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true

		// The extracted trace must be visible to the handler
		if got := TraceID(r.Context()); got != testTraceID {
			t.Errorf("handler TraceID() = %q, want %q", got, testTraceID)
		}

		w.WriteHeader(http.StatusOK)
	})

	middleware := HTTPMiddleware(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/translate", nil)
	req.Header.Set("traceparent", testTraceParent)

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	if !handlerCalled {
		t.Fatal("HTTPMiddleware() did not call handler")
	}
	if got := rr.Header().Get("X-Trace-ID"); got != testTraceID {
		t.Errorf("X-Trace-ID = %q, want %q", got, testTraceID)
	}
	if got := rr.Header().Get("X-Span-ID"); got != testSpanID {
		t.Errorf("X-Span-ID = %q, want %q", got, testSpanID)
	}
}

func TestHTTPMiddleware_NoTraceParent(t *testing.T) {
	registerW3CPropagator()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	HTTPMiddleware(testHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/translate", nil))

	if got := rr.Header().Get("X-Trace-ID"); got != "" {
		t.Errorf("X-Trace-ID = %q, want empty without inbound trace", got)
	}
}
