package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"polyglot-hq/hermes/pkg/adapters"
	"polyglot-hq/hermes/pkg/routing"
)

// MetadataTenant is the adapters.Request metadata key carrying the tenant id.
const MetadataTenant = "tenant"

// Error type buckets recorded on failed entries.
const (
	ErrTypeNoProvider       = "no_provider"
	ErrTypeAllFailed        = "all_providers_failed"
	ErrTypeNotInitialized   = "not_initialized"
	ErrTypeProviderNotFound = "provider_not_found"
	ErrTypeInvalidStrategy  = "invalid_strategy"
	ErrTypeInvalidRequest   = "invalid_request"
	ErrTypeTimeout          = "timeout"
	ErrTypeQuota            = "quota"
	ErrTypeUnavailable      = "unavailable"
	ErrTypeParse            = "parse"
	ErrTypeConfig           = "config"
	ErrTypeCanceled         = "canceled"
	ErrTypeOther            = "other"
)

// NewEntry builds the journal entry for one completed translation. resp may
// be nil on failure and err nil on success. The request text is reduced to
// a length and a hash; it never reaches the entry.
func NewEntry(req *adapters.Request, strategy *routing.Strategy, resp *adapters.Response, err error, latency time.Duration) *Entry {
	mode := routing.ModeBalanced
	if strategy != nil && strategy.Mode != "" {
		mode = strategy.Mode
	}

	e := &Entry{
		ID:        uuid.New().String(),
		Time:      time.Now().UTC(),
		Strategy:  string(mode),
		Success:   err == nil,
		ErrorType: ErrorType(err),
		LatencyMS: latency.Milliseconds(),
	}
	if req != nil {
		e.Tenant = req.Metadata[MetadataTenant]
		e.SourceLang = req.SourceLang
		e.TargetLang = req.TargetLang
		e.CharCount = len(req.Text)
		e.TextHash = HashText(req.Text)
	}
	if resp != nil {
		e.Provider = resp.Provider
		e.Cached = resp.Cached
		if resp.SourceLang != "" {
			e.SourceLang = resp.SourceLang
		}
		// A cached response repeats the original call's cost; nothing was
		// spent serving this request.
		if !resp.Cached {
			e.Cost = resp.Cost
		}
	}
	return e
}

// ErrorType buckets an error into the journal's error_type vocabulary.
// Returns an empty string for nil.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}

	// Routing outcomes come first: AllProvidersFailedError unwraps to the
	// last adapter error, so the adapter checks below would shadow it.
	switch {
	case errors.Is(err, routing.ErrNoProviderAvailable):
		return ErrTypeNoProvider
	case errors.Is(err, routing.ErrAllProvidersFailed):
		return ErrTypeAllFailed
	case errors.Is(err, routing.ErrNotInitialized):
		return ErrTypeNotInitialized
	case errors.Is(err, routing.ErrProviderNotFound):
		return ErrTypeProviderNotFound
	case errors.Is(err, routing.ErrInvalidStrategy):
		return ErrTypeInvalidStrategy
	case errors.Is(err, context.Canceled):
		return ErrTypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTypeTimeout
	}

	var (
		timeoutErr *adapters.TimeoutError
		quotaErr   *adapters.QuotaExceededError
		unavailErr *adapters.UnavailableError
		invalidErr *adapters.InvalidRequestError
		parseErr   *adapters.ParseError
		configErr  *adapters.ConfigError
		notInitErr *adapters.NotInitializedError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return ErrTypeTimeout
	case errors.As(err, &quotaErr):
		return ErrTypeQuota
	case errors.As(err, &unavailErr):
		return ErrTypeUnavailable
	case errors.As(err, &invalidErr):
		return ErrTypeInvalidRequest
	case errors.As(err, &parseErr):
		return ErrTypeParse
	case errors.As(err, &configErr):
		return ErrTypeConfig
	case errors.As(err, &notInitErr):
		return ErrTypeNotInitialized
	}
	return ErrTypeOther
}
