// Package adaptertest provides a mock upstream server and canned backend
// responses for testing translation adapters.
package adaptertest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a mock HTTP server that simulates translation backend APIs.
// Responses are registered per path; every received request is recorded so
// tests can assert on the wire format.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// RecordedRequest captures one request the server received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets the mock response for a specific endpoint path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = response
}

// RequestCount returns the number of requests received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// LastRequest returns the most recently recorded request.
func (ms *MockServer) LastRequest() (RecordedRequest, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.requests) == 0 {
		return RecordedRequest{}, false
	}
	return ms.requests[len(ms.requests)-1], true
}

// Reset clears recorded requests and registered responses.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requests = nil
	ms.responses = make(map[string]MockResponse)
}

// handler records the request and replays the registered response.
func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(response.StatusCode)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}

// MockDeepLResponse builds a DeepL /v2/translate response body.
func MockDeepLResponse(text, detectedSource string) map[string]interface{} {
	return map[string]interface{}{
		"translations": []map[string]interface{}{
			{
				"detected_source_language": detectedSource,
				"text":                     text,
			},
		},
	}
}

// MockDeepLUsage builds a DeepL /v2/usage response body.
func MockDeepLUsage() map[string]interface{} {
	return map[string]interface{}{
		"character_count": 125000,
		"character_limit": 500000,
	}
}

// MockClaudeResponse builds an Anthropic messages response body.
func MockClaudeResponse(text, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":   "msg_123",
		"type": "message",
		"role": "assistant",
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"model":       model,
		"stop_reason": "end_turn",
		"usage": map[string]interface{}{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
}

// MockOpenAIResponse builds a chat completions response body.
func MockOpenAIResponse(text, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": text,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// MockGoogleResponse builds a Translation v2 translate response body.
func MockGoogleResponse(text, detectedSource string) map[string]interface{} {
	tr := map[string]interface{}{"translatedText": text}
	if detectedSource != "" {
		tr["detectedSourceLanguage"] = detectedSource
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"translations": []map[string]interface{}{tr},
		},
	}
}

// MockGoogleDetectResponse builds a Translation v2 detect response body.
func MockGoogleDetectResponse(language string, confidence float64) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"detections": [][]map[string]interface{}{
				{
					{"language": language, "confidence": confidence, "isReliable": true},
				},
			},
		},
	}
}

// MockLibreResponse builds a LibreTranslate /translate response body.
// detectedSource may be "" when the request carried an explicit source.
func MockLibreResponse(text, detectedSource string, confidence float64) map[string]interface{} {
	body := map[string]interface{}{"translatedText": text}
	if detectedSource != "" {
		body["detectedLanguage"] = map[string]interface{}{
			"language":   detectedSource,
			"confidence": confidence,
		}
	}
	return body
}

// MockLibreDetectResponse builds a LibreTranslate /detect response body.
func MockLibreDetectResponse(language string, confidence float64) []map[string]interface{} {
	return []map[string]interface{}{
		{"language": language, "confidence": confidence},
	}
}

// MockErrorResponse builds a generic upstream error response.
func MockErrorResponse(statusCode int, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body: map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
				"code":    statusCode,
			},
		},
	}
}

// MockAuthError builds a 401 authentication error response.
func MockAuthError() MockResponse {
	return MockErrorResponse(http.StatusUnauthorized, "Invalid API key")
}

// MockRateLimitError builds a 429 rate limit error response.
func MockRateLimitError(retryAfter int) MockResponse {
	response := MockErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded")
	response.Headers = map[string]string{
		"Retry-After": fmt.Sprintf("%d", retryAfter),
	}
	return response
}

// MockServerError builds a 500 internal server error response.
func MockServerError() MockResponse {
	return MockErrorResponse(http.StatusInternalServerError, "Internal server error")
}
