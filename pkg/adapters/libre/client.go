package libre

import (
	"context"
	"net/http"
	"strings"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
)

// DefaultBaseURL points at a local LibreTranslate instance.
const DefaultBaseURL = "http://localhost:5000"

// supportedLanguages is the language set shipped with the standard
// LibreTranslate models.
var supportedLanguages = []string{
	"ar", "de", "en", "es", "fr", "hi", "it", "ja",
	"ko", "nl", "pl", "pt", "ru", "tr", "zh",
}

// Adapter is the LibreTranslate backend adapter.
type Adapter struct {
	*adapters.HTTPAdapter
	caps adapters.Capabilities
}

// New creates a new LibreTranslate adapter. Initialize accepts an empty
// credential because self-hosted instances commonly run keyless.
func New(config adapters.Config) (*Adapter, error) {
	if config.ID == "" {
		config.ID = "libre"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.AllowEmptyCredential = true

	return &Adapter{
		HTTPAdapter: adapters.NewHTTPAdapter(config),
		caps: adapters.Capabilities{
			SupportsContext:    false,
			SupportsBatch:      false,
			SupportsGlossary:   false,
			MaxTextLength:      5000,
			SupportedLanguages: supportedLanguages,
			// Self-hosted: no per-character cost.
			Pricing: &adapters.Pricing{CostPerChar: 0, Currency: "USD"},
		},
	}, nil
}

// Translate calls the /translate endpoint.
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
			Message:  "language pair not supported by this backend",
		}
	}

	wireReq := toWireRequest(req, a.Credential())

	var wireResp translateResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.Config().BaseURL+"/translate",
		wireReq, &wireResp, nil)
	if err != nil {
		return nil, err
	}

	resp := toResponse(a.ID(), req, &wireResp)
	resp.ProcessingTimeMS = time.Since(start).Milliseconds()
	return resp, nil
}

// DetectLanguage calls the /detect endpoint. Any failure yields
// {"unknown", 0}.
func (a *Adapter) DetectLanguage(ctx context.Context, text string) adapters.Detection {
	unknown := adapters.Detection{Language: adapters.LangUnknown, Confidence: 0}

	if text == "" || !a.Initialized() {
		return unknown
	}
	if len(text) > 500 {
		text = text[:500]
	}

	var wireResp []detection
	err := a.DoJSONRequest(ctx, http.MethodPost, a.Config().BaseURL+"/detect",
		&detectRequest{Q: text, APIKey: a.Credential()}, &wireResp, nil)
	if err != nil || len(wireResp) == 0 {
		return unknown
	}

	code := strings.ToLower(wireResp[0].Language)
	if !adapters.IsLanguageCode(code) {
		return unknown
	}

	// LibreTranslate reports confidence as a percentage.
	confidence := wireResp[0].Confidence / 100
	if confidence < 0 || confidence > 1 {
		confidence = 0
	}
	return adapters.Detection{Language: code, Confidence: confidence}
}

// CheckHealth lists installed languages. It never fails: an uninitialized
// adapter or any upstream error reports false.
func (a *Adapter) CheckHealth(ctx context.Context) bool {
	if !a.Initialized() {
		return false
	}

	var wireResp []languageInfo
	err := a.DoJSONRequest(ctx, http.MethodGet, a.Config().BaseURL+"/languages",
		nil, &wireResp, nil)
	return err == nil
}

// Capabilities returns the immutable capability record.
func (a *Adapter) Capabilities() adapters.Capabilities {
	return a.caps
}

// EstimatedCost always returns 0: the backend is self-hosted.
func (a *Adapter) EstimatedCost(charCount int) float64 {
	return 0
}

// SupportsLanguagePair reports whether both codes are in the installed
// language set.
func (a *Adapter) SupportsLanguagePair(src, tgt string) bool {
	return adapters.SupportsPair(a.caps.SupportedLanguages, src, tgt)
}
