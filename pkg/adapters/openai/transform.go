package openai

import (
	"errors"
	"fmt"
	"strings"

	"polyglot-hq/hermes/pkg/adapters"
)

var errEmptyChoices = errors.New("empty choices array")

// chatRequest is the chat completions request wire format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	N           int           `json:"n,omitempty"`
}

// chatMessage is a single conversation message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat completions response wire format.
type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

// chatChoice is one completion choice.
type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// chatUsage reports token consumption.
type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// modelsResponse is the model listing wire format, used by health checks.
type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// firstContent returns the first choice's message content, or "".
func (r *chatResponse) firstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
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
func toWireRequest(req *adapters.Request) *chatRequest {
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

	messages := []chatMessage{{Role: "system", Content: sb.String()}}
	// Earlier turns precede the text so the model sees them as conversation
	// history rather than material to translate.
	for _, turn := range req.Context {
		role := turn.Role
		if role != "user" && role != "assistant" {
			role = "user"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, chatMessage{
		Role:    "user",
		Content: adapters.BracketGlossaryTerms(req.Text, req.Glossary),
	})

	return &chatRequest{
		Model:       modelFor(req.Quality),
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   maxTokensFor(req.Text),
		N:           1,
	}
}

// detectionRequest builds a language-identification prompt.
func detectionRequest(text string) *chatRequest {
	return &chatRequest{
		Model: ModelStandard,
		Messages: []chatMessage{
			{Role: "system", Content: "Identify the language of the user's message. Reply with only its ISO-639-1 code."},
			{Role: "user", Content: text},
		},
		MaxTokens: 8,
		N:         1,
	}
}

// toResponse normalizes a chat completions response into the gateway response.
func toResponse(id string, req *adapters.Request, wire *chatResponse) (*adapters.Response, error) {
	text := wire.firstContent()
	if text == "" {
		return nil, &adapters.ParseError{Provider: id, Cause: errEmptyChoices}
	}

	resp := &adapters.Response{
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Provider:   id,
	}

	if req.SourceLang == adapters.LangAuto {
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
