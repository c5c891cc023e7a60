package routing

import (
	"errors"
	"fmt"
	"strings"
)

// Common routing errors that can be checked with errors.Is().
var (
	// ErrNotInitialized is returned when the router is used before
	// Initialize or after Shutdown.
	ErrNotInitialized = errors.New("router not initialized")

	// ErrNoProviderAvailable is returned when no candidate provider can
	// accept a request.
	ErrNoProviderAvailable = errors.New("no provider available")

	// ErrAllProvidersFailed is returned when every candidate was attempted
	// and failed.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrProviderNotFound is returned when a named provider is not
	// registered.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrInvalidStrategy is returned when an unknown scoring mode is
	// requested.
	ErrInvalidStrategy = errors.New("invalid routing strategy")
)

// NoProviderAvailableError is returned when the candidate set for a
// request is empty after state, load, language, and soft-cap filtering.
// It is distinct from AllProvidersFailedError: no adapter was called.
type NoProviderAvailableError struct {
	// SourceLang is the requested source language.
	SourceLang string

	// TargetLang is the requested target language.
	TargetLang string
}

// Error implements the error interface.
func (e *NoProviderAvailableError) Error() string {
	return fmt.Sprintf("no provider available for %s -> %s", e.SourceLang, e.TargetLang)
}

// Is implements error matching for errors.Is().
func (e *NoProviderAvailableError) Is(target error) bool {
	return target == ErrNoProviderAvailable
}

// AllProvidersFailedError is returned when every candidate was attempted
// and none produced a translation.
type AllProvidersFailedError struct {
	// Attempted contains the ids of providers that were tried, in order.
	Attempted []string

	// LastError is the error from the last attempted provider.
	LastError error
}

// Error implements the error interface.
func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all providers failed (attempted: %s, last error: %v)",
		strings.Join(e.Attempted, ", "), e.LastError)
}

// Is implements error matching for errors.Is().
func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// Unwrap returns the wrapped error for error chain traversal.
func (e *AllProvidersFailedError) Unwrap() error {
	return e.LastError
}

// ProviderNotFoundError is returned when a credential row or API call
// names a provider that is not registered.
type ProviderNotFoundError struct {
	// ProviderID is the requested provider that was not found.
	ProviderID string

	// Available contains the ids of registered providers.
	Available []string
}

// Error implements the error interface.
func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("provider %q not found (available: %s)",
		e.ProviderID, strings.Join(e.Available, ", "))
}

// Is implements error matching for errors.Is().
func (e *ProviderNotFoundError) Is(target error) bool {
	return target == ErrProviderNotFound
}

// InvalidStrategyError is returned when a request carries an unrecognized
// scoring mode.
type InvalidStrategyError struct {
	// Mode is the unrecognized scoring mode.
	Mode string

	// Available contains the recognized modes.
	Available []string
}

// Error implements the error interface.
func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid routing strategy %q (available: %s)",
		e.Mode, strings.Join(e.Available, ", "))
}

// Is implements error matching for errors.Is().
func (e *InvalidStrategyError) Is(target error) bool {
	return target == ErrInvalidStrategy
}
