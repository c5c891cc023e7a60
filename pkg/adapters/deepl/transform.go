package deepl

import (
	"errors"
	"strings"

	"polyglot-hq/hermes/pkg/adapters"
)

var errEmptyTranslations = errors.New("empty translations array")

// translateRequest is the DeepL v2 translate request wire format.
type translateRequest struct {
	Text               []string `json:"text"`
	SourceLang         string   `json:"source_lang,omitempty"`
	TargetLang         string   `json:"target_lang"`
	Context            string   `json:"context,omitempty"`
	ModelType          string   `json:"model_type,omitempty"`
	PreserveFormatting bool     `json:"preserve_formatting,omitempty"`
}

// translateResponse is the DeepL v2 translate response wire format.
type translateResponse struct {
	Translations []translation `json:"translations"`
}

// translation is one translated segment.
type translation struct {
	DetectedSourceLanguage string `json:"detected_source_language"`
	Text                   string `json:"text"`
}

// usageResponse is the DeepL v2 usage response wire format.
type usageResponse struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

// toWireRequest transforms a gateway request into the DeepL wire format.
// DeepL expects upper-case language codes and detects the source itself when
// source_lang is omitted. Glossary terms are bracketed so they pass through
// the engine verbatim.
func toWireRequest(req *adapters.Request) *translateRequest {
	wire := &translateRequest{
		Text:               []string{adapters.BracketGlossaryTerms(req.Text, req.Glossary)},
		TargetLang:         strings.ToUpper(req.TargetLang),
		PreserveFormatting: true,
	}

	if req.SourceLang != adapters.LangAuto {
		wire.SourceLang = strings.ToUpper(req.SourceLang)
	}

	if req.Quality == adapters.QualityEnhanced {
		wire.ModelType = "quality_optimized"
	}

	if len(req.Context) > 0 {
		turns := make([]string, 0, len(req.Context))
		for _, turn := range req.Context {
			turns = append(turns, turn.Text)
		}
		wire.Context = strings.Join(turns, "\n")
	}

	return wire
}

// toResponse normalizes a DeepL wire response into the gateway response.
func toResponse(id string, req *adapters.Request, wire *translateResponse) (*adapters.Response, error) {
	if len(wire.Translations) == 0 {
		return nil, &adapters.ParseError{
			Provider: id,
			Cause:    errEmptyTranslations,
		}
	}

	first := wire.Translations[0]

	resp := &adapters.Response{
		TranslatedText: adapters.StripGlossaryBrackets(first.Text),
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		Provider:       id,
	}

	if detected := strings.ToLower(first.DetectedSourceLanguage); adapters.IsLanguageCode(detected) {
		resp.DetectedSourceLang = detected
		if req.SourceLang == adapters.LangAuto {
			resp.SourceLang = detected
		}
	}

	return resp, nil
}
