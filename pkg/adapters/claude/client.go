package claude

import (
	"context"
	"net/http"
	"strings"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
)

const (
	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// ModelStandard handles standard-quality requests.
	ModelStandard = "claude-3-5-haiku-20241022"

	// ModelEnhanced handles quality-level requests.
	ModelEnhanced = "claude-3-5-sonnet-20241022"

	// apiVersion is the required anthropic-version header value.
	apiVersion = "2023-06-01"

	// costPerChar approximates the per-character translation cost in USD.
	costPerChar = 3e-5
)

// Adapter is the Anthropic messages backend adapter.
type Adapter struct {
	*adapters.HTTPAdapter
	caps adapters.Capabilities
}

// New creates a new Claude adapter. The adapter starts uninitialized;
// Initialize supplies the Anthropic API key.
func New(config adapters.Config) (*Adapter, error) {
	if config.ID == "" {
		config.ID = "claude"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	return &Adapter{
		HTTPAdapter: adapters.NewHTTPAdapter(config),
		caps: adapters.Capabilities{
			SupportsContext:  true,
			SupportsBatch:    false,
			SupportsGlossary: true,
			MaxTextLength:    10000,
			// Empty set: the model translates any language pair.
			SupportedLanguages: nil,
			Pricing:            &adapters.Pricing{CostPerChar: costPerChar, Currency: "USD"},
		},
	}, nil
}

// Translate prompts the model to translate the request text.
func (a *Adapter) Translate(ctx context.Context, req *adapters.Request) (*adapters.Response, error) {
	start := time.Now()

	if err := a.RequireInitialized(); err != nil {
		return nil, err
	}
	if err := a.ValidateRequest(req, a.caps); err != nil {
		return nil, err
	}

	wireReq := toWireRequest(req)

	var wireResp messagesResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.Config().BaseURL+"/v1/messages",
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

// DetectLanguage prompts the model for the ISO-639-1 code of text.
// Any failure or unparseable answer yields {"unknown", 0}.
func (a *Adapter) DetectLanguage(ctx context.Context, text string) adapters.Detection {
	unknown := adapters.Detection{Language: adapters.LangUnknown, Confidence: 0}

	if text == "" || !a.Initialized() {
		return unknown
	}
	if len(text) > 500 {
		text = text[:500]
	}

	wireReq := detectionRequest(text)

	var wireResp messagesResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.Config().BaseURL+"/v1/messages",
		wireReq, &wireResp, a.authHeaders())
	if err != nil {
		return unknown
	}

	code := strings.ToLower(strings.TrimSpace(wireResp.firstText()))
	if !adapters.IsLanguageCode(code) {
		return unknown
	}

	return adapters.Detection{Language: code, Confidence: 0.85}
}

// CheckHealth sends a minimal messages request. It never fails: an
// uninitialized adapter or any upstream error reports false.
func (a *Adapter) CheckHealth(ctx context.Context) bool {
	if !a.Initialized() {
		return false
	}

	wireReq := &messagesRequest{
		Model:     ModelStandard,
		MaxTokens: 1,
		Messages:  []message{{Role: "user", Content: "ping"}},
	}

	var wireResp messagesResponse
	err := a.DoJSONRequest(ctx, http.MethodPost, a.Config().BaseURL+"/v1/messages",
		wireReq, &wireResp, a.authHeaders())
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

// SupportsLanguagePair always reports true: the model accepts any pair.
func (a *Adapter) SupportsLanguagePair(src, tgt string) bool {
	return adapters.SupportsPair(a.caps.SupportedLanguages, src, tgt)
}

// authHeaders builds the Anthropic authentication header set.
func (a *Adapter) authHeaders() map[string]string {
	return map[string]string{
		"x-api-key":         a.Credential(),
		"anthropic-version": apiVersion,
	}
}
