package claude

import (
	"errors"
	"fmt"
	"strings"

	"polyglot-hq/hermes/pkg/adapters"
)

var errEmptyContent = errors.New("empty content blocks")

// messagesRequest is the Anthropic messages API request wire format.
type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

// message is a single conversation message.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic messages API response wire format.
type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

// contentBlock is one response content block.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// usage reports token consumption.
type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// firstText returns the first text content block, or "".
func (r *messagesResponse) firstText() string {
	for _, block := range r.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

// modelFor maps the quality hint to a model.
func modelFor(quality string) string {
	if quality == adapters.QualityEnhanced {
		return ModelEnhanced
	}
	return ModelStandard
}

// maxTokensFor sizes the output budget from the input length.
func maxTokensFor(text string) int {
	n := len(text)/3 + 256
	if n < 512 {
		return 512
	}
	if n > 4096 {
		return 4096
	}
	return n
}

// toWireRequest builds a translation prompt from a gateway request.
// When the source language is "auto" the model is asked to emit the detected
// ISO code on the first line so the response can resolve it.
func toWireRequest(req *adapters.Request) *messagesRequest {
	var sb strings.Builder

	sb.WriteString("You are a professional translator.")
	if req.SourceLang == adapters.LangAuto {
		fmt.Fprintf(&sb, " Detect the language of the user's message and translate it into %q (ISO-639-1).", req.TargetLang)
		sb.WriteString(" Reply with the detected ISO-639-1 code on the first line, then the translation on the following lines.")
	} else {
		fmt.Fprintf(&sb, " Translate the user's message from %q into %q (ISO-639-1 codes).", req.SourceLang, req.TargetLang)
		sb.WriteString(" Reply with only the translation.")
	}

	if req.Domain != "" && req.Domain != adapters.DomainGeneral {
		fmt.Fprintf(&sb, " The text is %s content; use terminology appropriate to that domain.", req.Domain)
	}
	if len(req.Glossary) > 0 {
		sb.WriteString(" Terms wrapped in [[double brackets]] must be carried over verbatim, brackets included.")
	}
	if len(req.Context) > 0 {
		sb.WriteString("\n\nEarlier conversation, for context only:\n")
		for _, turn := range req.Context {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Text)
		}
	}

	return &messagesRequest{
		Model:       modelFor(req.Quality),
		MaxTokens:   maxTokensFor(req.Text),
		System:      sb.String(),
		Messages:    []message{{Role: "user", Content: adapters.BracketGlossaryTerms(req.Text, req.Glossary)}},
		Temperature: 0.2,
	}
}

// detectionRequest builds a language-identification prompt.
func detectionRequest(text string) *messagesRequest {
	return &messagesRequest{
		Model:     ModelStandard,
		MaxTokens: 8,
		System:    "Identify the language of the user's message. Reply with only its ISO-639-1 code.",
		Messages:  []message{{Role: "user", Content: text}},
	}
}

// toResponse normalizes a messages response into the gateway response.
func toResponse(id string, req *adapters.Request, wire *messagesResponse) (*adapters.Response, error) {
	text := wire.firstText()
	if text == "" {
		return nil, &adapters.ParseError{Provider: id, Cause: errEmptyContent}
	}

	resp := &adapters.Response{
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Provider:   id,
	}

	if req.SourceLang == adapters.LangAuto {
		// First line carries the detected code when the model honored the
		// prompt; otherwise the whole body is the translation.
		if line, rest, found := strings.Cut(text, "\n"); found {
			code := strings.ToLower(strings.TrimSpace(line))
			if adapters.IsLanguageCode(code) {
				resp.DetectedSourceLang = code
				resp.SourceLang = code
				text = rest
			}
		}
	}

	resp.TranslatedText = adapters.StripGlossaryBrackets(strings.TrimSpace(text))
	return resp, nil
}
