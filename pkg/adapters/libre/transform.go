package libre

import (
	"strings"

	"polyglot-hq/hermes/pkg/adapters"
)

// translateRequest is the /translate request wire format.
type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// translateResponse is the /translate response wire format. DetectedLanguage
// is present only when the request source was "auto".
type translateResponse struct {
	TranslatedText   string     `json:"translatedText"`
	DetectedLanguage *detection `json:"detectedLanguage,omitempty"`
}

// detection is one language guess. Confidence is a percentage.
type detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// detectRequest is the /detect request wire format.
type detectRequest struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

// languageInfo is one entry of the /languages response, used by health
// checks.
type languageInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// toWireRequest maps a gateway request onto the wire format. The backend
// understands "auto" natively.
func toWireRequest(req *adapters.Request, apiKey string) *translateRequest {
	return &translateRequest{
		Q:      req.Text,
		Source: req.SourceLang,
		Target: req.TargetLang,
		Format: "text",
		APIKey: apiKey,
	}
}

// toResponse normalizes a /translate response into the gateway response.
func toResponse(id string, req *adapters.Request, wire *translateResponse) *adapters.Response {
	resp := &adapters.Response{
		TranslatedText: wire.TranslatedText,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		Provider:       id,
	}

	if wire.DetectedLanguage != nil {
		if code := strings.ToLower(wire.DetectedLanguage.Language); adapters.IsLanguageCode(code) {
			resp.DetectedSourceLang = code
			if req.SourceLang == adapters.LangAuto {
				resp.SourceLang = code
			}
			resp.Confidence = wire.DetectedLanguage.Confidence / 100
		}
	}

	return resp
}
