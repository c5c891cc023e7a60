package adapters

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPAdapter_Initialize(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		credential string
		wantErr    bool
	}{
		{
			name:       "credential accepted",
			config:     Config{ID: "test"},
			credential: "sk-secret",
			wantErr:    false,
		},
		{
			name:       "empty credential rejected",
			config:     Config{ID: "test"},
			credential: "",
			wantErr:    true,
		},
		{
			name:       "empty credential allowed for keyless backends",
			config:     Config{ID: "test", AllowEmptyCredential: true},
			credential: "",
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewHTTPAdapter(tt.config)

			err := a.Initialize(tt.credential)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Initialize() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var configErr *ConfigError
				if !errors.As(err, &configErr) {
					t.Errorf("expected ConfigError, got %T", err)
				}
				if a.Initialized() {
					t.Error("adapter must stay uninitialized after a failed Initialize")
				}
				if err := a.RequireInitialized(); err == nil {
					t.Error("RequireInitialized must fail before Initialize")
				}
				return
			}

			if !a.Initialized() {
				t.Error("expected adapter to be initialized")
			}
			if a.Credential() != tt.credential {
				t.Errorf("expected credential %q, got %q", tt.credential, a.Credential())
			}
			if err := a.RequireInitialized(); err != nil {
				t.Errorf("RequireInitialized() = %v, want nil", err)
			}
		})
	}
}

func TestHTTPAdapter_RetryOn5xx(t *testing.T) {
	attemptCount := int32(0)

	// Fails twice with 500, then succeeds.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&attemptCount, 1)
		if count <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "internal server error"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer server.Close()

	a := NewHTTPAdapter(Config{
		ID:         "test",
		BaseURL:    server.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	})

	resp, err := a.DoRequest(context.Background(), http.MethodPost, server.URL+"/translate", []byte(`{}`), nil)
	if err != nil {
		t.Fatalf("expected request to succeed after retries, got error: %v", err)
	}
	defer resp.Body.Close()

	if got := atomic.LoadInt32(&attemptCount); got != 3 {
		t.Errorf("expected 3 attempts (2 retries), got %d", got)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestHTTPAdapter_NoRetryOn4xx(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		check      func(t *testing.T, err error)
	}{
		{
			name:       "401 maps to ConfigError",
			statusCode: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var configErr *ConfigError
				if !errors.As(err, &configErr) {
					t.Fatalf("expected ConfigError, got %T: %v", err, err)
				}
				if configErr.Field != "credential" {
					t.Errorf("expected credential field, got %q", configErr.Field)
				}
			},
		},
		{
			name:       "403 maps to ConfigError",
			statusCode: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var configErr *ConfigError
				if !errors.As(err, &configErr) {
					t.Fatalf("expected ConfigError, got %T: %v", err, err)
				}
			},
		},
		{
			name:       "400 maps to InvalidRequestError",
			statusCode: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var invalidErr *InvalidRequestError
				if !errors.As(err, &invalidErr) {
					t.Fatalf("expected InvalidRequestError, got %T: %v", err, err)
				}
			},
		},
		{
			name:       "422 maps to InvalidRequestError",
			statusCode: http.StatusUnprocessableEntity,
			check: func(t *testing.T, err error) {
				var invalidErr *InvalidRequestError
				if !errors.As(err, &invalidErr) {
					t.Fatalf("expected InvalidRequestError, got %T: %v", err, err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attemptCount := int32(0)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attemptCount, 1)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"error": "client error"}`))
			}))
			defer server.Close()

			a := NewHTTPAdapter(Config{
				ID:         "test",
				BaseURL:    server.URL,
				Timeout:    5 * time.Second,
				MaxRetries: 3,
			})

			_, err := a.DoRequest(context.Background(), http.MethodPost, server.URL+"/translate", []byte(`{}`), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)

			if got := atomic.LoadInt32(&attemptCount); got != 1 {
				t.Errorf("expected exactly 1 attempt, got %d", got)
			}
		})
	}
}

func TestHTTPAdapter_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limit exceeded"}`))
	}))
	defer server.Close()

	a := NewHTTPAdapter(Config{ID: "test", BaseURL: server.URL, Timeout: 5 * time.Second})

	_, err := a.DoRequest(context.Background(), http.MethodPost, server.URL+"/translate", []byte(`{}`), nil)

	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %T: %v", err, err)
	}
	if quotaErr.RetryAfter != 30*time.Second {
		t.Errorf("expected RetryAfter 30s, got %s", quotaErr.RetryAfter)
	}
}

func TestHTTPAdapter_ContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; otherwise r.Context() is never
		// canceled and Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	a := NewHTTPAdapter(Config{ID: "test", BaseURL: server.URL, Timeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := a.DoRequest(ctx, http.MethodPost, server.URL+"/translate", []byte(`{}`), nil)

	// Cancellation must surface as the context error, not as an adapter
	// failure the router would count against the provider.
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %T: %v", err, err)
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		t.Error("cancellation must not be reported as a timeout")
	}
}

func TestHTTPAdapter_DeadlineDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewHTTPAdapter(Config{
		ID:         "test",
		BaseURL:    server.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	})

	// The first retry backoff is one second; the deadline fires well before.
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err := a.DoRequest(ctx, http.MethodPost, server.URL+"/translate", []byte(`{}`), nil)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
}

func TestHTTPAdapter_CircuitBreakerOpens(t *testing.T) {
	attemptCount := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attemptCount, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	a := NewHTTPAdapter(Config{
		ID:         "test",
		BaseURL:    server.URL,
		Timeout:    time.Second,
		MaxRetries: -1, // no retries so each call is one breaker sample
	})

	for i := 0; i < 5; i++ {
		_, err := a.DoRequest(context.Background(), http.MethodGet, server.URL+"/health", nil, nil)
		if err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := a.DoRequest(context.Background(), http.MethodGet, server.URL+"/health", nil, nil)
	var unavailableErr *UnavailableError
	if !errors.As(err, &unavailableErr) {
		t.Fatalf("expected UnavailableError, got %T: %v", err, err)
	}
	if !strings.Contains(unavailableErr.Message, "circuit breaker") {
		t.Errorf("expected circuit breaker rejection, got %q", unavailableErr.Message)
	}

	// The open breaker must not let the sixth call reach the upstream.
	if got := atomic.LoadInt32(&attemptCount); got != 5 {
		t.Errorf("expected 5 upstream attempts, got %d", got)
	}
}

func TestHTTPAdapter_ValidateRequest(t *testing.T) {
	a := NewHTTPAdapter(Config{ID: "test"})
	caps := Capabilities{MaxTextLength: 10}

	tests := []struct {
		name      string
		req       *Request
		wantField string
	}{
		{
			name:      "nil request",
			req:       nil,
			wantField: "text",
		},
		{
			name:      "empty text",
			req:       &Request{SourceLang: "en", TargetLang: "es"},
			wantField: "text",
		},
		{
			name:      "invalid target",
			req:       &Request{Text: "hi", SourceLang: "en", TargetLang: "spanish"},
			wantField: "target_lang",
		},
		{
			name:      "invalid source",
			req:       &Request{Text: "hi", SourceLang: "english", TargetLang: "es"},
			wantField: "source_lang",
		},
		{
			name:      "text over backend limit",
			req:       &Request{Text: "this is far too long", SourceLang: "en", TargetLang: "es"},
			wantField: "text",
		},
		{
			name: "auto source accepted",
			req:  &Request{Text: "hi", SourceLang: "auto", TargetLang: "es"},
		},
		{
			name: "valid request",
			req:  &Request{Text: "hi", SourceLang: "en", TargetLang: "es"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.ValidateRequest(tt.req, caps)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateRequest() = %v, want nil", err)
				}
				return
			}

			var invalidErr *InvalidRequestError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("expected InvalidRequestError, got %T: %v", err, err)
			}
			if invalidErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, invalidErr.Field)
			}
		})
	}
}
