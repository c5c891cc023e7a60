package routing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
)

// MockAdapter is a scriptable implementation of the adapters.Adapter
// interface for routing tests.
type MockAdapter struct {
	id string

	mu            sync.Mutex
	initialized   bool
	healthy       bool
	healthBlocks  bool
	latency       time.Duration
	translateErr  error
	translateFn   func(ctx context.Context, req *adapters.Request) (*adapters.Response, error)
	translateText string
	initErr       error
	detection     adapters.Detection
	capabilities  adapters.Capabilities
	costPerChar   float64
	closed        bool

	translateCalls atomic.Int64
	healthChecks   atomic.Int64
	detectCalls    atomic.Int64
}

// NewMockAdapter creates a mock adapter that is initialized, healthy, and
// succeeds every call.
func NewMockAdapter(id string) *MockAdapter {
	return &MockAdapter{
		id:          id,
		initialized: true,
		healthy:     true,
		detection:   adapters.Detection{Language: "en", Confidence: 0.9},
	}
}

// SetHealthy scripts the CheckHealth result.
func (m *MockAdapter) SetHealthy(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = healthy
}

// SetHealthBlocks makes CheckHealth block until its context is done, then
// report unhealthy. Used to exercise the monitor's per-provider budget.
func (m *MockAdapter) SetHealthBlocks(blocks bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthBlocks = blocks
}

// SetInitialized scripts the initialized flag without calling Initialize.
func (m *MockAdapter) SetInitialized(initialized bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = initialized
}

// SetInitializeError makes the next Initialize calls fail with err.
func (m *MockAdapter) SetInitializeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initErr = err
}

// SetLatency makes Translate wait before responding. The wait is cut short
// by context cancellation.
func (m *MockAdapter) SetLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
}

// SetTranslateError makes Translate fail with err (nil restores success).
func (m *MockAdapter) SetTranslateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translateErr = err
}

// SetTranslateFunc replaces the translate behavior entirely.
func (m *MockAdapter) SetTranslateFunc(fn func(ctx context.Context, req *adapters.Request) (*adapters.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translateFn = fn
}

// SetTranslateText scripts the translated text returned on success.
func (m *MockAdapter) SetTranslateText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translateText = text
}

// SetDetection scripts the DetectLanguage result.
func (m *MockAdapter) SetDetection(d adapters.Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detection = d
}

// SetCostPerChar scripts the per-character cost used by EstimatedCost and
// successful responses.
func (m *MockAdapter) SetCostPerChar(cost float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.costPerChar = cost
}

// SetSupportedLanguages restricts the language pairs the mock accepts.
func (m *MockAdapter) SetSupportedLanguages(codes []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.capabilities.SupportedLanguages = codes
}

// TranslateCalls returns how many times Translate was invoked.
func (m *MockAdapter) TranslateCalls() int64 {
	return m.translateCalls.Load()
}

// HealthChecks returns how many times CheckHealth was invoked.
func (m *MockAdapter) HealthChecks() int64 {
	return m.healthChecks.Load()
}

// DetectCalls returns how many times DetectLanguage was invoked.
func (m *MockAdapter) DetectCalls() int64 {
	return m.detectCalls.Load()
}

// Closed reports whether Close was called.
func (m *MockAdapter) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ID implements the Adapter interface.
func (m *MockAdapter) ID() string {
	return m.id
}

// Initialize implements the Adapter interface.
func (m *MockAdapter) Initialize(credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initErr != nil {
		return m.initErr
	}
	if credential == "" {
		return &adapters.ConfigError{
			Provider: m.id,
			Field:    "credential",
			Message:  "credential cannot be empty",
		}
	}
	m.initialized = true
	return nil
}

// Initialized implements the Adapter interface.
func (m *MockAdapter) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Translate implements the Adapter interface.
func (m *MockAdapter) Translate(ctx context.Context, req *adapters.Request) (*adapters.Response, error) {
	m.translateCalls.Add(1)

	m.mu.Lock()
	initialized := m.initialized
	latency := m.latency
	fn := m.translateFn
	translateErr := m.translateErr
	text := m.translateText
	costPerChar := m.costPerChar
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if !initialized {
		return nil, &adapters.NotInitializedError{Provider: m.id}
	}
	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if translateErr != nil {
		return nil, translateErr
	}

	if text == "" {
		text = "translated:" + req.Text
	}
	source := req.SourceLang
	if source == adapters.LangAuto {
		source = "en"
	}
	return &adapters.Response{
		TranslatedText:   text,
		SourceLang:       source,
		TargetLang:       req.TargetLang,
		Provider:         m.id,
		ProcessingTimeMS: latency.Milliseconds(),
		Cost:             costPerChar * float64(len(req.Text)),
		Confidence:       0.9,
	}, nil
}

// DetectLanguage implements the Adapter interface.
func (m *MockAdapter) DetectLanguage(ctx context.Context, text string) adapters.Detection {
	m.detectCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detection
}

// CheckHealth implements the Adapter interface.
func (m *MockAdapter) CheckHealth(ctx context.Context) bool {
	m.healthChecks.Add(1)
	m.mu.Lock()
	healthy := m.healthy
	blocks := m.healthBlocks
	m.mu.Unlock()

	if blocks {
		<-ctx.Done()
		return false
	}
	return healthy
}

// Capabilities implements the Adapter interface.
func (m *MockAdapter) Capabilities() adapters.Capabilities {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capabilities
}

// EstimatedCost implements the Adapter interface.
func (m *MockAdapter) EstimatedCost(charCount int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.costPerChar * float64(charCount)
}

// SupportsLanguagePair implements the Adapter interface.
func (m *MockAdapter) SupportsLanguagePair(src, tgt string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return adapters.SupportsPair(m.capabilities.SupportedLanguages, src, tgt)
}

// Close implements the Adapter interface.
func (m *MockAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
