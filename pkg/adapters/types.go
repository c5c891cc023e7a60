package adapters

import "time"

// ContextTurn is a single prior turn of the conversation surrounding the text
// being translated. Adapters that support context send recent turns upstream
// to improve pronoun and register resolution.
type ContextTurn struct {
	// Role identifies the turn author ("user" or "assistant")
	Role string `json:"role"`

	// Text is the turn content in its original language
	Text string `json:"text"`
}

// Request represents a provider-agnostic translation request.
// It is transformed to backend-specific formats by each adapter.
type Request struct {
	// Text is the text to translate (must be non-empty)
	Text string `json:"text"`

	// SourceLang is the source language as an ISO-639-1 code,
	// or the sentinel "auto" to request upstream detection
	SourceLang string `json:"source_lang"`

	// TargetLang is the target language as an ISO-639-1 code
	TargetLang string `json:"target_lang"`

	// Quality is an optional quality hint ("standard" or "quality")
	Quality string `json:"quality,omitempty"`

	// Domain is an optional subject-matter hint
	// (legal, medical, creative, technical, general)
	Domain string `json:"domain,omitempty"`

	// Context is an optional ordered sequence of prior conversation turns
	Context []ContextTurn `json:"context,omitempty"`

	// Glossary is an optional list of terms that must survive translation
	// verbatim. Adapters that support glossaries bracket these terms before
	// sending upstream; glossary-unaware adapters ignore the field.
	Glossary []string `json:"glossary,omitempty"`

	// PreferredProvider is an optional provider id hint. It participates in
	// the response cache key and, when the hinted provider is a candidate,
	// moves it to the front of the selection order.
	PreferredProvider string `json:"provider,omitempty"`

	// Metadata contains additional request context (tenant ID, request ID).
	// It is never sent upstream.
	Metadata map[string]string `json:"-"`
}

// Response represents a provider-agnostic translation response.
// It is normalized from backend-specific response formats.
type Response struct {
	// TranslatedText is the translated text with any glossary brackets removed
	TranslatedText string `json:"translated_text"`

	// SourceLang is the resolved source language (detected when the request
	// used "auto")
	SourceLang string `json:"source_lang"`

	// TargetLang is the target language
	TargetLang string `json:"target_lang"`

	// Provider is the id of the adapter that produced this response
	Provider string `json:"provider"`

	// Cached reports whether the response was served from the cache.
	// Adapters always leave this false; the router flips it on a cache hit.
	Cached bool `json:"cached"`

	// ProcessingTimeMS is the adapter-measured time from translate entry to
	// return, in milliseconds
	ProcessingTimeMS int64 `json:"processing_time_ms"`

	// Cost is the estimated cost of the call in USD (zero if unknown)
	Cost float64 `json:"cost,omitempty"`

	// Confidence is the backend-reported translation confidence in [0,1]
	Confidence float64 `json:"confidence,omitempty"`

	// DetectedSourceLang is set when the backend detected the source language
	DetectedSourceLang string `json:"detected_source_lang,omitempty"`
}

// Detection is the result of a language detection call.
type Detection struct {
	// Language is the detected ISO-639-1 code, or "unknown" on failure
	Language string `json:"language"`

	// Confidence is the detection confidence in [0,1] (0 on failure)
	Confidence float64 `json:"confidence"`
}

// Pricing describes a backend's published pricing.
type Pricing struct {
	// CostPerChar is the cost per source character in USD
	CostPerChar float64 `json:"cost_per_char"`

	// Currency is the pricing currency (informational)
	Currency string `json:"currency,omitempty"`
}

// Capabilities describes what a backend supports. It is immutable after
// adapter construction.
type Capabilities struct {
	// SupportsContext indicates the backend accepts prior conversation turns
	SupportsContext bool `json:"supports_context"`

	// SupportsBatch indicates the backend accepts multi-text requests
	SupportsBatch bool `json:"supports_batch"`

	// SupportsGlossary indicates the backend honors glossary terms
	SupportsGlossary bool `json:"supports_glossary"`

	// MaxTextLength is the maximum accepted text length in characters
	// (0 means unlimited)
	MaxTextLength int `json:"max_text_length"`

	// SupportedLanguages is the set of ISO-639-1 codes the backend accepts.
	// An empty set means the backend accepts all languages.
	SupportedLanguages []string `json:"supported_languages"`

	// Pricing is the backend's published pricing, if known
	Pricing *Pricing `json:"pricing,omitempty"`
}

// Config contains construction-time configuration for a single adapter.
// Credentials are not part of the config; they arrive via Initialize.
type Config struct {
	// ID is the adapter identifier (e.g., "deepl", "claude")
	ID string

	// BaseURL overrides the backend's default API endpoint
	BaseURL string

	// Timeout is the per-request timeout for upstream calls
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for transient
	// upstream failures. Zero means the default; negative disables retries.
	MaxRetries int

	// RateLimitRPS caps outgoing requests per second (0 disables pacing)
	RateLimitRPS float64

	// AllowEmptyCredential lets Initialize accept an empty credential.
	// Set for backends that can run without authentication, such as
	// self-hosted LibreTranslate.
	AllowEmptyCredential bool

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Language sentinels
const (
	// LangAuto requests upstream source-language detection
	LangAuto = "auto"

	// LangUnknown is returned when detection fails
	LangUnknown = "unknown"
)

// Quality level constants
const (
	QualityStandard = "standard"
	QualityEnhanced = "quality"
)

// Domain constants
const (
	DomainLegal     = "legal"
	DomainMedical   = "medical"
	DomainCreative  = "creative"
	DomainTechnical = "technical"
	DomainGeneral   = "general"
)

// IsLanguageCode reports whether s looks like an ISO-639-1 code
// (two lowercase ASCII letters).
func IsLanguageCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
