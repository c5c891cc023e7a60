package deepl

import (
	"context"
	"net/http"
	"strings"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
)

const (
	// DefaultBaseURL is the DeepL API endpoint for paid plans.
	DefaultBaseURL = "https://api.deepl.com"

	// costPerChar is DeepL's published per-character price in USD.
	costPerChar = 2.5e-5
)

// supportedLanguages is the set of ISO-639-1 codes DeepL accepts.
var supportedLanguages = []string{
	"ar", "bg", "cs", "da", "de", "el", "en", "es", "et", "fi", "fr", "hu",
	"id", "it", "ja", "ko", "lt", "lv", "nb", "nl", "pl", "pt", "ro", "ru",
	"sk", "sl", "sv", "tr", "uk", "zh",
}

// Adapter is the DeepL backend adapter.
type Adapter struct {
	*adapters.HTTPAdapter
	caps adapters.Capabilities
}

// New creates a new DeepL adapter. The adapter starts uninitialized;
// Initialize supplies the DeepL auth key.
func New(config adapters.Config) (*Adapter, error) {
	if config.ID == "" {
		config.ID = "deepl"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	return &Adapter{
		HTTPAdapter: adapters.NewHTTPAdapter(config),
		caps: adapters.Capabilities{
			SupportsContext:    true,
			SupportsBatch:      true,
			SupportsGlossary:   true,
			MaxTextLength:      30000,
			SupportedLanguages: supportedLanguages,
			Pricing:            &adapters.Pricing{CostPerChar: costPerChar, Currency: "USD"},
		},
	}, nil
}

// Translate sends one translation request to the DeepL v2 API.
func (a *Adapter) Translate(ctx context.Context, req *adapters.Request) (*adapters.Response, error) {
	start := time.Now()

	if err := a.RequireInitialized(); err != nil {
		return nil, err
	}
	if err := a.ValidateRequest(req, a.caps); err != nil {
		return nil, err
	}
	if !a.SupportsLanguagePair(req.SourceLang, req.TargetLang) {
		return nil, &adapters.InvalidRequestError{
			Provider: a.ID(),
			Field:    "target_lang",
			Message:  "language pair not supported by DeepL",
		}
	}

	wireReq := toWireRequest(req)

	var wireResp translateResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.Config().BaseURL+"/v2/translate",
		wireReq, &wireResp, a.authHeaders())
	if err != nil {
		return nil, err
	}

	resp, err := toResponse(a.ID(), req, &wireResp)
	if err != nil {
		return nil, err
	}

	resp.Cost = a.EstimatedCost(len(req.Text))
	resp.ProcessingTimeMS = time.Since(start).Milliseconds()
	return resp, nil
}

// DetectLanguage identifies the language of text. DeepL has no standalone
// detection endpoint, so a minimal translation to English is used and the
// detected source language read back. Any failure yields {"unknown", 0}.
func (a *Adapter) DetectLanguage(ctx context.Context, text string) adapters.Detection {
	unknown := adapters.Detection{Language: adapters.LangUnknown, Confidence: 0}

	if text == "" || !a.Initialized() {
		return unknown
	}
	if len(text) > 200 {
		text = text[:200]
	}

	wireReq := &translateRequest{
		Text:       []string{text},
		TargetLang: "EN",
	}

	var wireResp translateResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.Config().BaseURL+"/v2/translate",
		wireReq, &wireResp, a.authHeaders())
	if err != nil || len(wireResp.Translations) == 0 {
		return unknown
	}

	detected := strings.ToLower(wireResp.Translations[0].DetectedSourceLanguage)
	if !adapters.IsLanguageCode(detected) {
		return unknown
	}

	// DeepL does not report detection confidence.
	return adapters.Detection{Language: detected, Confidence: 0.9}
}

// CheckHealth probes the DeepL usage endpoint. It never fails: an
// uninitialized adapter or any upstream error reports false.
func (a *Adapter) CheckHealth(ctx context.Context) bool {
	if !a.Initialized() {
		return false
	}

	var usage usageResponse
	err := a.DoJSONRequest(ctx, http.MethodGet, a.Config().BaseURL+"/v2/usage",
		nil, &usage, a.authHeaders())
	return err == nil
}

// Capabilities returns the immutable DeepL capability record.
func (a *Adapter) Capabilities() adapters.Capabilities {
	return a.caps
}

// EstimatedCost returns the estimated USD cost of translating charCount
// characters.
func (a *Adapter) EstimatedCost(charCount int) float64 {
	if charCount < 0 {
		return 0
	}
	return float64(charCount) * costPerChar
}

// SupportsLanguagePair reports whether DeepL covers the pair.
func (a *Adapter) SupportsLanguagePair(src, tgt string) bool {
	return adapters.SupportsPair(a.caps.SupportedLanguages, src, tgt)
}

// authHeaders builds the DeepL authorization header set.
func (a *Adapter) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "DeepL-Auth-Key " + a.Credential(),
	}
}
