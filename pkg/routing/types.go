package routing

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
)

// ProviderState describes where a provider is in its lifecycle.
//
// The state machine is Uninitialized -> Healthy <-> Unhealthy, with
// Disabled as the terminal state entered on shutdown.
type ProviderState int

const (
	// StateUninitialized means the provider has not received credentials.
	StateUninitialized ProviderState = iota

	// StateHealthy means the provider is armed and passing health checks.
	StateHealthy

	// StateUnhealthy means the provider failed a health check or crossed
	// the consecutive dispatch failure threshold.
	StateUnhealthy

	// StateDisabled is the terminal state entered on shutdown.
	StateDisabled
)

// String returns the state name for logging and API responses.
func (s ProviderState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHealthy:
		return "healthy"
	case StateUnhealthy:
		return "unhealthy"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Params are the static routing parameters for one provider.
type Params struct {
	// Priority is the fallback rank (lower is preferred).
	Priority int

	// CostPerChar is the cost per source character in USD.
	CostPerChar float64

	// QualityScore is the static translation quality estimate in [0,1].
	QualityScore float64

	// MaxLoad caps concurrent dispatches (defaults to DefaultMaxLoad).
	MaxLoad int64
}

// Provider is a registry entry pairing an adapter with its routing
// parameters and runtime state. The load counter is atomic and the
// routing parameters and lifecycle fields sit behind a small per-provider
// mutex, so entries are safe for concurrent use.
type Provider struct {
	// ID is the provider identifier (matches the adapter id).
	ID string

	// Adapter executes calls against the backend.
	Adapter adapters.Adapter

	// currentLoad counts in-flight dispatches.
	currentLoad atomic.Int64

	// mu guards the routing params and lifecycle fields below. Params
	// are mutable so configuration reloads can retune a running fleet.
	mu                  sync.Mutex
	params              Params
	state               ProviderState
	consecutiveFailures int
	lastHealthCheck     time.Time
	lastError           error
}

// clampParams normalizes out-of-range parameters: negative cost to 0,
// quality to [0,1], and a non-positive max load to DefaultMaxLoad.
func clampParams(params Params) Params {
	if params.MaxLoad <= 0 {
		params.MaxLoad = DefaultMaxLoad
	}
	if params.CostPerChar < 0 {
		params.CostPerChar = 0
	}
	params.QualityScore = math.Min(math.Max(params.QualityScore, 0), 1)
	return params
}

// NewProvider creates a registry entry for the given adapter. Out-of-range
// parameters are clamped the same way as on later updates.
func NewProvider(adapter adapters.Adapter, params Params) *Provider {
	return &Provider{
		ID:      adapter.ID(),
		Adapter: adapter,
		params:  clampParams(params),
	}
}

// Params returns a snapshot of the routing parameters.
func (p *Provider) Params() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// applyParams replaces the routing parameters, clamped like at
// construction.
func (p *Provider) applyParams(params Params) {
	params = clampParams(params)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params = params
}

// State returns the current lifecycle state.
func (p *Provider) State() ProviderState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CurrentLoad returns the number of in-flight dispatches.
func (p *Provider) CurrentLoad() int64 {
	return p.currentLoad.Load()
}

// beginDispatch reserves a load slot. It returns false when the provider
// is already at its max load, so the counter never exceeds the cap.
func (p *Provider) beginDispatch() bool {
	maxLoad := p.Params().MaxLoad
	for {
		cur := p.currentLoad.Load()
		if cur >= maxLoad {
			return false
		}
		if p.currentLoad.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// endDispatch releases a load slot. The counter never drops below zero.
func (p *Provider) endDispatch() {
	for {
		cur := p.currentLoad.Load()
		if cur <= 0 {
			return
		}
		if p.currentLoad.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// markInitialized transitions Uninitialized -> Healthy after a successful
// adapter Initialize. Other states are left alone.
func (p *Provider) markInitialized() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateUninitialized {
		p.state = StateHealthy
	}
}

// recordCheck applies a health check result and returns the previous state
// so callers can log transitions. Uninitialized and Disabled providers are
// not moved: a check cannot arm or revive a provider.
func (p *Provider) recordCheck(healthy bool, at time.Time) ProviderState {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.state
	p.lastHealthCheck = at
	if p.state != StateHealthy && p.state != StateUnhealthy {
		return prev
	}
	if healthy {
		p.state = StateHealthy
		p.consecutiveFailures = 0
	} else {
		p.state = StateUnhealthy
	}
	return prev
}

// recordDispatchSuccess clears the consecutive failure counter.
func (p *Provider) recordDispatchSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consecutiveFailures = 0
	p.lastError = nil
}

// recordDispatchFailure adds strikes toward the unhealthy threshold and
// returns true when the provider just crossed it.
func (p *Provider) recordDispatchFailure(err error, strikes, threshold int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastError = err
	p.consecutiveFailures += strikes
	if p.state == StateHealthy && p.consecutiveFailures >= threshold {
		p.state = StateUnhealthy
		return true
	}
	return false
}

// disable moves the provider to the terminal Disabled state.
func (p *Provider) disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateDisabled
}

// status snapshots the provider without its aggregated metrics; the router
// merges those in from the aggregator.
func (p *Provider) status() ProviderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := ProviderStatus{
		ID:                  p.ID,
		State:               p.state.String(),
		Priority:            p.params.Priority,
		CostPerChar:         p.params.CostPerChar,
		QualityScore:        p.params.QualityScore,
		CurrentLoad:         p.currentLoad.Load(),
		MaxLoad:             p.params.MaxLoad,
		ConsecutiveFailures: p.consecutiveFailures,
		LastHealthCheck:     p.lastHealthCheck,
	}
	if p.lastError != nil {
		st.LastError = p.lastError.Error()
	}
	return st
}

// ProviderStatus is a point-in-time snapshot of one provider, merged with
// its aggregated usage metrics.
type ProviderStatus struct {
	// ID is the provider identifier.
	ID string `json:"id"`

	// State is the lifecycle state name.
	State string `json:"state"`

	// Priority is the fallback rank (lower is preferred).
	Priority int `json:"priority"`

	// CostPerChar is the cost per source character in USD.
	CostPerChar float64 `json:"cost_per_char"`

	// QualityScore is the static quality estimate in [0,1].
	QualityScore float64 `json:"quality_score"`

	// CurrentLoad is the in-flight dispatch count.
	CurrentLoad int64 `json:"current_load"`

	// MaxLoad is the concurrent dispatch cap.
	MaxLoad int64 `json:"max_load"`

	// ConsecutiveFailures is the strike count toward the unhealthy
	// threshold.
	ConsecutiveFailures int `json:"consecutive_failures"`

	// LastHealthCheck is when the monitor last probed the provider.
	LastHealthCheck time.Time `json:"last_health_check"`

	// LastError is the most recent dispatch error, if any.
	LastError string `json:"last_error,omitempty"`

	// Metrics is the aggregated usage record from the cache.
	Metrics ProviderMetrics `json:"metrics"`

	// AvgResponseTimeMS is the mean latency of successful calls.
	AvgResponseTimeMS float64 `json:"avg_response_time_ms"`
}

// Candidate is the immutable view of a dispatchable provider that scoring
// strategies order.
type Candidate struct {
	// ID is the provider identifier.
	ID string

	// Priority is the fallback rank (lower is preferred).
	Priority int

	// CostPerChar is the cost per source character in USD.
	CostPerChar float64

	// QualityScore is the static quality estimate in [0,1].
	QualityScore float64

	// CurrentLoad is the in-flight dispatch count at selection time.
	CurrentLoad int64

	// MaxLoad is the concurrent dispatch cap.
	MaxLoad int64

	// EstimatedCost is CostPerChar multiplied by the request text length.
	EstimatedCost float64

	// AvgResponseTimeMS is the observed mean latency from the metrics
	// aggregator (0 when the provider has no history).
	AvgResponseTimeMS float64
}

// StrategyMode selects the scoring mode for candidate ordering.
type StrategyMode string

const (
	// ModeCost orders by ascending estimated request cost.
	ModeCost StrategyMode = "cost"

	// ModeQuality orders by descending quality score.
	ModeQuality StrategyMode = "quality"

	// ModeSpeed orders by ascending current load.
	ModeSpeed StrategyMode = "speed"

	// ModeBalanced orders by a weighted blend of quality, load headroom,
	// and cost. It is the default.
	ModeBalanced StrategyMode = "balanced"
)

// Strategy is the per-request routing preference: a scoring mode plus
// optional soft caps applied to the candidate set before ordering.
type Strategy struct {
	// Mode selects the scoring mode (balanced when empty).
	Mode StrategyMode `json:"mode,omitempty"`

	// MaxCost drops candidates whose estimated cost for this request
	// exceeds the cap in USD (0 disables the cap).
	MaxCost float64 `json:"max_cost,omitempty"`

	// MinQuality drops candidates below this quality score (0 disables).
	MinQuality float64 `json:"min_quality,omitempty"`

	// MaxResponseTimeMS drops candidates whose observed mean latency
	// exceeds the cap. Providers with no history pass (0 disables).
	MaxResponseTimeMS int64 `json:"max_response_time_ms,omitempty"`
}

// Weights are the balanced-mode scoring weights. They must sum to 1.
type Weights struct {
	// Quality weights the static quality score.
	Quality float64 `json:"quality" yaml:"quality"`

	// Speed weights the load headroom term.
	Speed float64 `json:"speed" yaml:"speed"`

	// Cost weights the cost term.
	Cost float64 `json:"cost" yaml:"cost"`
}

// Validate checks that the weights sum to 1.
func (w Weights) Validate() error {
	if math.Abs(w.Quality+w.Speed+w.Cost-1) > 1e-9 {
		return fmt.Errorf("balanced weights must sum to 1, got %g", w.Quality+w.Speed+w.Cost)
	}
	return nil
}

// Defaults applied by Config.applyDefaults and NewProvider.
const (
	// DefaultHealthCheckInterval is the background monitor period.
	DefaultHealthCheckInterval = 60 * time.Second

	// DefaultHealthCheckTimeout is the per-provider health check budget.
	DefaultHealthCheckTimeout = 10 * time.Second

	// DefaultAdapterCallTimeout bounds one adapter translate call.
	DefaultAdapterCallTimeout = 30 * time.Second

	// DefaultCacheTTL is the response and metrics record lifetime.
	DefaultCacheTTL = time.Hour

	// DefaultUnhealthyThreshold is the consecutive dispatch failure count
	// that marks a provider unhealthy.
	DefaultUnhealthyThreshold = 5

	// DefaultCostCeilingPerChar normalizes the cost term of balanced
	// scoring.
	DefaultCostCeilingPerChar = 5e-5

	// DefaultMaxLoad is the concurrent dispatch cap applied when a
	// provider entry does not set one.
	DefaultMaxLoad = 100

	// DefaultBatchConcurrency bounds TranslateBatch fan-out.
	DefaultBatchConcurrency = 4
)

// DefaultWeights returns the standard balanced-mode weights.
func DefaultWeights() Weights {
	return Weights{Quality: 0.4, Speed: 0.3, Cost: 0.3}
}

// Config tunes router behavior. Zero fields take their documented
// defaults, so the zero value is usable.
type Config struct {
	// HealthCheckInterval is the background monitor period.
	HealthCheckInterval time.Duration

	// HealthCheckTimeout is the per-provider health check budget.
	HealthCheckTimeout time.Duration

	// AdapterCallTimeout bounds one adapter translate call.
	AdapterCallTimeout time.Duration

	// CacheTTL is the response and metrics record lifetime.
	CacheTTL time.Duration

	// UnhealthyErrorThreshold is the consecutive dispatch failure count
	// that marks a provider unhealthy.
	UnhealthyErrorThreshold int

	// CostCeilingPerChar normalizes the cost term of balanced scoring.
	CostCeilingPerChar float64

	// BalancedWeights are the balanced-mode scoring weights.
	BalancedWeights Weights

	// BatchConcurrency bounds TranslateBatch fan-out.
	BatchConcurrency int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		HealthCheckInterval:     DefaultHealthCheckInterval,
		HealthCheckTimeout:      DefaultHealthCheckTimeout,
		AdapterCallTimeout:      DefaultAdapterCallTimeout,
		CacheTTL:                DefaultCacheTTL,
		UnhealthyErrorThreshold: DefaultUnhealthyThreshold,
		CostCeilingPerChar:      DefaultCostCeilingPerChar,
		BalancedWeights:         DefaultWeights(),
		BatchConcurrency:        DefaultBatchConcurrency,
	}
}

// applyDefaults fills zero fields with their defaults.
func (c *Config) applyDefaults() {
	if c.HealthCheckInterval <= 0 {
		c.HealthCheckInterval = DefaultHealthCheckInterval
	}
	if c.HealthCheckTimeout <= 0 {
		c.HealthCheckTimeout = DefaultHealthCheckTimeout
	}
	if c.AdapterCallTimeout <= 0 {
		c.AdapterCallTimeout = DefaultAdapterCallTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.UnhealthyErrorThreshold <= 0 {
		c.UnhealthyErrorThreshold = DefaultUnhealthyThreshold
	}
	if c.CostCeilingPerChar <= 0 {
		c.CostCeilingPerChar = DefaultCostCeilingPerChar
	}
	if c.BalancedWeights == (Weights{}) {
		c.BalancedWeights = DefaultWeights()
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = DefaultBatchConcurrency
	}
}
