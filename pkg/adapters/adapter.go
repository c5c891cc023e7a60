// Package adapters defines the uniform contract every upstream translation
// backend exposes to the router, the shared HTTP base the concrete adapters
// build on, and the error taxonomy the router classifies failures with.
package adapters

import "context"

// Adapter is the uniform wrapper around one upstream translation backend.
// Implementations are safe for concurrent use.
type Adapter interface {
	// ID returns the stable short identifier for this backend
	// (e.g., "deepl", "claude").
	ID() string

	// Initialize arms the adapter with an upstream credential.
	// An empty credential fails with a ConfigError. Translate fails with
	// NotInitializedError until Initialize has succeeded.
	Initialize(credential string) error

	// Initialized reports whether Initialize has succeeded.
	Initialized() bool

	// Translate sends one request upstream and returns the normalized
	// response. The response carries this adapter's id and the processing
	// time measured from entry to return; Cached is always left false.
	Translate(ctx context.Context, req *Request) (*Response, error)

	// DetectLanguage identifies the language of text. It never fails:
	// any internal error yields {"unknown", 0}.
	DetectLanguage(ctx context.Context, text string) Detection

	// CheckHealth probes the backend. It never fails: any internal error
	// reports false.
	CheckHealth(ctx context.Context) bool

	// Capabilities returns the immutable capability record for this backend.
	Capabilities() Capabilities

	// EstimatedCost returns the estimated USD cost of translating
	// charCount characters.
	EstimatedCost(charCount int) float64

	// SupportsLanguagePair reports whether the backend translates from src
	// to tgt. Backends with an empty supported-language set accept all pairs.
	SupportsLanguagePair(src, tgt string) bool

	// Close releases held resources (idle connections). The adapter must not
	// be used after Close.
	Close() error
}
