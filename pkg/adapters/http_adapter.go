package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Default construction values applied by NewHTTPAdapter.
const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxRetries          = 3
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
)

// HTTPAdapter is the base implementation for HTTP-based translation adapters.
// It provides connection pooling, credential handling, bounded retry with
// exponential backoff, a circuit breaker around the upstream, and optional
// client-side request pacing.
//
// Concrete adapters (DeepL, Claude, etc.) embed this struct and implement the
// Adapter interface methods on top of DoRequest/DoJSONRequest.
type HTTPAdapter struct {
	// config contains the adapter construction configuration
	config Config

	// client is the HTTP client with connection pooling
	client *http.Client

	// breaker opens after repeated upstream availability failures
	breaker *gobreaker.CircuitBreaker

	// limiter paces outgoing requests when RateLimitRPS is set
	limiter *rate.Limiter

	// mu protects credential and initialized
	mu          sync.RWMutex
	credential  string
	initialized bool
}

// NewHTTPAdapter creates a new base HTTP adapter with connection pooling.
// Zero-valued config fields receive defaults.
func NewHTTPAdapter(config Config) *HTTPAdapter {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	} else if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = DefaultMaxIdleConns
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = DefaultIdleConnTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	a := &HTTPAdapter{
		config: config,
		client: client,
	}

	// The breaker trips on availability failures only; quota and validation
	// rejections mean the upstream is answering.
	a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    config.ID,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var unavailable *UnavailableError
			var timeout *TimeoutError
			return !errors.As(err, &unavailable) && !errors.As(err, &timeout)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("adapter circuit breaker state change",
				"adapter", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	if config.RateLimitRPS > 0 {
		burst := int(config.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(config.RateLimitRPS), burst)
	}

	return a
}

// ID returns the adapter's configured identifier.
func (a *HTTPAdapter) ID() string {
	return a.config.ID
}

// Config returns the adapter's construction configuration.
func (a *HTTPAdapter) Config() Config {
	return a.config
}

// Initialize stores the upstream credential. An empty credential fails with
// a ConfigError and leaves the adapter uninitialized, unless the config
// allows keyless operation.
func (a *HTTPAdapter) Initialize(credential string) error {
	if credential == "" && !a.config.AllowEmptyCredential {
		return &ConfigError{
			Provider: a.config.ID,
			Field:    "credential",
			Message:  "credential must not be empty",
		}
	}

	a.mu.Lock()
	a.credential = credential
	a.initialized = true
	a.mu.Unlock()

	return nil
}

// Initialized reports whether a credential has been accepted.
func (a *HTTPAdapter) Initialized() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.initialized
}

// Credential returns the stored upstream credential.
func (a *HTTPAdapter) Credential() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.credential
}

// RequireInitialized returns a NotInitializedError when no credential has
// been accepted yet. Concrete adapters call this at the top of Translate.
func (a *HTTPAdapter) RequireInitialized() error {
	if !a.Initialized() {
		return &NotInitializedError{Provider: a.config.ID}
	}
	return nil
}

// ValidateRequest checks a request against the backend's capabilities before
// sending. Violations fail with an InvalidRequestError.
func (a *HTTPAdapter) ValidateRequest(req *Request, caps Capabilities) error {
	if req == nil || req.Text == "" {
		return &InvalidRequestError{
			Provider: a.config.ID,
			Field:    "text",
			Message:  "text must not be empty",
		}
	}
	if req.TargetLang == "" || !IsLanguageCode(req.TargetLang) {
		return &InvalidRequestError{
			Provider: a.config.ID,
			Field:    "target_lang",
			Message:  fmt.Sprintf("%q is not an ISO-639-1 code", req.TargetLang),
		}
	}
	if req.SourceLang != LangAuto && !IsLanguageCode(req.SourceLang) {
		return &InvalidRequestError{
			Provider: a.config.ID,
			Field:    "source_lang",
			Message:  fmt.Sprintf("%q is not an ISO-639-1 code or %q", req.SourceLang, LangAuto),
		}
	}
	if caps.MaxTextLength > 0 && len(req.Text) > caps.MaxTextLength {
		return &InvalidRequestError{
			Provider: a.config.ID,
			Field:    "text",
			Message:  fmt.Sprintf("text length %d exceeds backend limit %d", len(req.Text), caps.MaxTextLength),
		}
	}
	return nil
}

// SupportsPair reports whether a language pair is covered by the supported
// set. An empty set accepts all pairs; "auto" source is always accepted.
func SupportsPair(supported []string, src, tgt string) bool {
	if len(supported) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(supported))
	for _, code := range supported {
		set[code] = struct{}{}
	}
	if _, ok := set[tgt]; !ok {
		return false
	}
	if src == LangAuto {
		return true
	}
	_, ok := set[src]
	return ok
}

// DoRequest performs an HTTP request through the rate limiter and circuit
// breaker, retrying transient failures (network errors, 5xx) with exponential
// backoff. Quota, auth, and validation rejections return immediately.
func (a *HTTPAdapter) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, a.mapContextErr(ctx)
		}
	}

	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.doWithRetries(ctx, method, url, body, headers)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &UnavailableError{
				Provider: a.config.ID,
				Message:  "circuit breaker open",
				Cause:    err,
			}
		}
		return nil, err
	}

	return result.(*http.Response), nil
}

// doWithRetries runs the attempt loop inside one breaker sample.
func (a *HTTPAdapter) doWithRetries(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			slog.Debug("retrying upstream request",
				"adapter", a.config.ID,
				"attempt", attempt,
				"max_retries", a.config.MaxRetries,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return nil, a.mapContextErr(ctx)
			case <-time.After(backoff):
			}
		}

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		for key, value := range headers {
			req.Header.Set(key, value)
		}
		if req.Header.Get("Content-Type") == "" && body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		slog.Debug("sending upstream request",
			"adapter", a.config.ID,
			"method", method,
			"url", url,
		)

		resp, err := a.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, a.mapContextErr(ctx)
			}

			// Network error, retry.
			lastErr = &UnavailableError{
				Provider: a.config.ID,
				Message:  "request failed",
				Cause:    err,
			}
			slog.Warn("upstream request failed, will retry",
				"adapter", a.config.ID,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		errorBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			// Credential rejected upstream, no point retrying.
			return nil, &ConfigError{
				Provider: a.config.ID,
				Field:    "credential",
				Message:  fmt.Sprintf("rejected upstream (status %d): %s", resp.StatusCode, truncate(errorBody, 200)),
			}

		case http.StatusTooManyRequests:
			return nil, &QuotaExceededError{
				Provider:   a.config.ID,
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    truncate(errorBody, 200),
			}

		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return nil, &InvalidRequestError{
				Provider: a.config.ID,
				Message:  truncate(errorBody, 200),
			}

		default:
			// Server error (5xx) or anything unexpected, retry.
			lastErr = &UnavailableError{
				Provider:   a.config.ID,
				StatusCode: resp.StatusCode,
				Message:    truncate(errorBody, 200),
			}
			slog.Warn("upstream returned error status, will retry",
				"adapter", a.config.ID,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
		}
	}

	return nil, lastErr
}

// DoJSONRequest performs a JSON request and decodes the response.
func (a *HTTPAdapter) DoJSONRequest(ctx context.Context, method, url string, reqBody interface{}, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := a.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: a.config.ID,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    a.config.ID,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// Close releases idle connections. The adapter must not be used afterwards.
func (a *HTTPAdapter) Close() error {
	a.client.CloseIdleConnections()
	slog.Debug("adapter closed", "adapter", a.config.ID)
	return nil
}

// mapContextErr converts a context error into the adapter taxonomy:
// deadline expiry becomes a TimeoutError, caller cancellation propagates
// unchanged so the router can distinguish it from an upstream failure.
func (a *HTTPAdapter) mapContextErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{
			Provider: a.config.ID,
			Timeout:  a.config.Timeout,
		}
	}
	return ctx.Err()
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}

// truncate bounds upstream error bodies before they reach logs or errors.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
