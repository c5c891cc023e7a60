package googlev2

import (
	"errors"
	"strings"

	"polyglot-hq/hermes/pkg/adapters"
)

var errEmptyTranslations = errors.New("empty translations array")

// translateRequest is the v2 translate request wire format.
type translateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

// translateResponse is the v2 translate response wire format.
type translateResponse struct {
	Data struct {
		Translations []translation `json:"translations"`
	} `json:"data"`
}

// translation is one translated segment.
type translation struct {
	TranslatedText         string `json:"translatedText"`
	DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
}

// detectRequest is the v2 detect request wire format.
type detectRequest struct {
	Q []string `json:"q"`
}

// detectResponse is the v2 detect response wire format. Detections arrive
// as a list per input segment.
type detectResponse struct {
	Data struct {
		Detections [][]detection `json:"detections"`
	} `json:"data"`
}

// detection is one language guess.
type detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
	IsReliable bool    `json:"isReliable"`
}

// languagesResponse is the v2 languages response wire format, used by
// health checks.
type languagesResponse struct {
	Data struct {
		Languages []struct {
			Language string `json:"language"`
		} `json:"languages"`
	} `json:"data"`
}

// first returns the top detection for the first segment.
func (r *detectResponse) first() (detection, bool) {
	if len(r.Data.Detections) == 0 || len(r.Data.Detections[0]) == 0 {
		return detection{}, false
	}
	return r.Data.Detections[0][0], true
}

// toWireRequest maps a gateway request onto the v2 wire format. An "auto"
// source is expressed by omitting the source field.
func toWireRequest(req *adapters.Request) *translateRequest {
	wire := &translateRequest{
		Q:      []string{req.Text},
		Target: req.TargetLang,
		Format: "text",
	}
	if req.SourceLang != adapters.LangAuto {
		wire.Source = req.SourceLang
	}
	return wire
}

// toResponse normalizes a v2 translate response into the gateway response.
func toResponse(id string, req *adapters.Request, wire *translateResponse) (*adapters.Response, error) {
	if len(wire.Data.Translations) == 0 {
		return nil, &adapters.ParseError{Provider: id, Cause: errEmptyTranslations}
	}
	tr := wire.Data.Translations[0]

	resp := &adapters.Response{
		TranslatedText: tr.TranslatedText,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		Provider:       id,
	}

	if detected := strings.ToLower(tr.DetectedSourceLanguage); detected != "" {
		resp.DetectedSourceLang = detected
		if req.SourceLang == adapters.LangAuto {
			resp.SourceLang = detected
		}
	}

	return resp, nil
}
