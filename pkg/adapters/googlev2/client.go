package googlev2

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
)

const (
	// DefaultBaseURL is the Google Cloud Translation endpoint.
	DefaultBaseURL = "https://translation.googleapis.com"

	// costPerChar approximates the per-character translation cost in USD.
	costPerChar = 2e-5
)

// Adapter is the Google Translation v2 backend adapter.
type Adapter struct {
	*adapters.HTTPAdapter
	caps adapters.Capabilities
}

// New creates a new Google Translation adapter. The adapter starts
// uninitialized; Initialize supplies the API key.
func New(config adapters.Config) (*Adapter, error) {
	if config.ID == "" {
		config.ID = "google"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	return &Adapter{
		HTTPAdapter: adapters.NewHTTPAdapter(config),
		caps: adapters.Capabilities{
			SupportsContext:  false,
			SupportsBatch:    true,
			SupportsGlossary: false,
			MaxTextLength:    30000,
			// Empty set: the v2 API covers effectively every pair the
			// gateway will see.
			SupportedLanguages: nil,
			Pricing:            &adapters.Pricing{CostPerChar: costPerChar, Currency: "USD"},
		},
	}, nil
}

// Translate calls the v2 translate endpoint.
func (a *Adapter) Translate(ctx context.Context, req *adapters.Request) (*adapters.Response, error) {
	start := time.Now()

	if err := a.RequireInitialized(); err != nil {
		return nil, err
	}
	if err := a.ValidateRequest(req, a.caps); err != nil {
		return nil, err
	}

	wireReq := toWireRequest(req)

	var wireResp translateResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.endpoint(""), wireReq, &wireResp, nil)
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

// DetectLanguage calls the v2 detect endpoint. Any failure yields
// {"unknown", 0}.
func (a *Adapter) DetectLanguage(ctx context.Context, text string) adapters.Detection {
	unknown := adapters.Detection{Language: adapters.LangUnknown, Confidence: 0}

	if text == "" || !a.Initialized() {
		return unknown
	}
	if len(text) > 500 {
		text = text[:500]
	}

	var wireResp detectResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.endpoint("/detect"),
		&detectRequest{Q: []string{text}}, &wireResp, nil)
	if err != nil {
		return unknown
	}

	det, ok := wireResp.first()
	if !ok {
		return unknown
	}

	code := strings.ToLower(det.Language)
	if !adapters.IsLanguageCode(code) {
		return unknown
	}

	confidence := det.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.5
	}
	return adapters.Detection{Language: code, Confidence: confidence}
}

// CheckHealth lists supported languages. It never fails: an uninitialized
// adapter or any upstream error reports false.
func (a *Adapter) CheckHealth(ctx context.Context) bool {
	if !a.Initialized() {
		return false
	}

	var wireResp languagesResponse
	err := a.DoJSONRequest(ctx, http.MethodGet, a.endpoint("/languages"), nil, &wireResp, nil)
	return err == nil
}

// Capabilities returns the immutable capability record.
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

// SupportsLanguagePair always reports true for the v2 API.
func (a *Adapter) SupportsLanguagePair(src, tgt string) bool {
	return adapters.SupportsPair(a.caps.SupportedLanguages, src, tgt)
}

// endpoint builds a v2 API URL with the key in the query string, which is
// how this API authenticates.
func (a *Adapter) endpoint(suffix string) string {
	q := url.Values{"key": {a.Credential()}}
	return a.Config().BaseURL + "/language/translate/v2" + suffix + "?" + q.Encode()
}
