package journal

import (
	"context"
	"time"
)

// DefaultQueryLimit caps Query results when the caller does not set a limit.
const DefaultQueryLimit = 100

// Entry is one usage journal row: the operational record of a single
// completed translation request, successful or not. Entries hold counts,
// a hash, and outcomes only; the text being translated is never stored.
type Entry struct {
	// ID is the entry identifier (UUID v4).
	ID string `json:"id"`

	// Time is when the request completed, in UTC.
	Time time.Time `json:"time"`

	// Tenant is the tenant that issued the request, if known.
	Tenant string `json:"tenant,omitempty"`

	// Provider is the id of the provider that served the request. Empty
	// when no adapter was reached.
	Provider string `json:"provider,omitempty"`

	// SourceLang is the source language, resolved when the request asked
	// for upstream detection.
	SourceLang string `json:"source_lang"`

	// TargetLang is the target language.
	TargetLang string `json:"target_lang"`

	// CharCount is the source text length in characters.
	CharCount int `json:"char_count"`

	// TextHash is the hex-encoded SHA-256 of the source text. It lets
	// operators spot repeated texts without the journal storing any.
	TextHash string `json:"text_hash,omitempty"`

	// Strategy is the scoring mode that routed the request.
	Strategy string `json:"strategy"`

	// Cached reports whether the response came from the cache.
	Cached bool `json:"cached"`

	// Success reports whether the request produced a translation.
	Success bool `json:"success"`

	// ErrorType is the failure bucket for unsuccessful requests
	// (see ErrorType for the vocabulary).
	ErrorType string `json:"error_type,omitempty"`

	// LatencyMS is the end-to-end request latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Cost is the amount spent serving the request in USD. Cache hits
	// spend nothing and record zero.
	Cost float64 `json:"cost"`
}

// Query filters journal entries. Zero fields match everything.
type Query struct {
	// Since is the inclusive lower bound on entry time.
	Since *time.Time `json:"since,omitempty"`

	// Until is the inclusive upper bound on entry time.
	Until *time.Time `json:"until,omitempty"`

	// Tenant filters by tenant.
	Tenant string `json:"tenant,omitempty"`

	// Provider filters by serving provider.
	Provider string `json:"provider,omitempty"`

	// Strategy filters by scoring mode.
	Strategy string `json:"strategy,omitempty"`

	// Success filters by outcome when set.
	Success *bool `json:"success,omitempty"`

	// Limit caps the number of entries returned (0 means
	// DefaultQueryLimit).
	Limit int `json:"limit,omitempty"`

	// Offset skips the first N matching entries.
	Offset int `json:"offset,omitempty"`
}

// Storage is the journal persistence contract. Implementations must be
// safe for concurrent use.
type Storage interface {
	// Store persists one entry.
	Store(ctx context.Context, entry *Entry) error

	// Query returns entries matching q, newest first.
	Query(ctx context.Context, q *Query) ([]*Entry, error)

	// Count returns the number of entries matching q.
	Count(ctx context.Context, q *Query) (int64, error)

	// DeleteBefore removes entries recorded strictly before cutoff and
	// returns the number removed. Retention enforcement is the only
	// deletion the journal performs.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}
