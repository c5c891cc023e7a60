package adapters

import (
	"errors"
	"fmt"
	"time"
)

// ConfigError represents an adapter configuration error, including an empty
// or rejected credential passed to Initialize.
type ConfigError struct {
	// Provider is the id of the adapter with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("adapter %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// NotInitializedError is returned when Translate is called before a
// successful Initialize.
type NotInitializedError struct {
	// Provider is the id of the uninitialized adapter
	Provider string
}

// Error implements the error interface.
func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("adapter %q is not initialized", e.Provider)
}

// QuotaExceededError represents an upstream quota or rate limit rejection
// (HTTP 429 or a backend-specific quota code). It includes the retry-after
// duration if the backend provided one.
type QuotaExceededError struct {
	// Provider is the id of the adapter that was rejected
	Provider string

	// RetryAfter is the duration to wait before retrying (if provided)
	RetryAfter time.Duration

	// Message is the error message from the backend
	Message string
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("adapter %q quota exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("adapter %q quota exceeded: %s", e.Provider, e.Message)
}

// UnavailableError represents an unreachable or failing upstream backend
// (connection failures, 5xx responses, open circuit breaker).
type UnavailableError struct {
	// Provider is the id of the unavailable adapter
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("adapter %q upstream unavailable (status %d): %s",
			e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("adapter %q upstream unavailable: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// InvalidRequestError represents a request the backend rejected as malformed
// (HTTP 400) or that failed adapter-side validation before sending.
type InvalidRequestError struct {
	// Provider is the id of the adapter that rejected the request
	Provider string

	// Field is the offending request field, if known
	Field string

	// Message describes what is invalid
	Message string
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("adapter %q invalid request field %q: %s",
			e.Provider, e.Field, e.Message)
	}
	return fmt.Sprintf("adapter %q invalid request: %s", e.Provider, e.Message)
}

// TimeoutError represents an upstream call exceeding its deadline.
type TimeoutError struct {
	// Provider is the id of the adapter where the timeout occurred
	Provider string

	// Timeout is the configured timeout duration
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("adapter %q request timeout after %s", e.Provider, e.Timeout)
}

// ParseError represents a malformed upstream response.
type ParseError struct {
	// Provider is the id of the adapter that received the malformed response
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("adapter %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Classification buckets adapter failures for the fallback engine.
type Classification int

const (
	// Transient failures are expected to clear on their own; the router
	// moves to the next candidate and counts one strike.
	Transient Classification = iota

	// Permanent failures indicate the adapter or request is broken; the
	// router moves to the next candidate and counts two strikes so the
	// provider turns unhealthy sooner.
	Permanent
)

// String returns the classification name.
func (c Classification) String() string {
	if c == Permanent {
		return "permanent"
	}
	return "transient"
}

// Classify buckets an adapter error as Transient or Permanent.
// Unknown error types are treated as transient.
func Classify(err error) Classification {
	var (
		configErr  *ConfigError
		notInitErr *NotInitializedError
		invalidErr *InvalidRequestError
	)
	switch {
	case errors.As(err, &configErr),
		errors.As(err, &notInitErr),
		errors.As(err, &invalidErr):
		return Permanent
	default:
		return Transient
	}
}
