package routing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"polyglot-hq/hermes/pkg/cache"
)

// ProviderMetrics is the aggregate usage record kept per provider in the
// cache under MetricsKey(id).
type ProviderMetrics struct {
	// TotalRequests counts every dispatch attempt, successful or not.
	TotalRequests int64 `json:"total_requests"`

	// SuccessfulRequests counts dispatches that returned a translation.
	SuccessfulRequests int64 `json:"successful_requests"`

	// TotalResponseTimeMS is the summed latency of successful dispatches.
	TotalResponseTimeMS int64 `json:"total_response_time_ms"`

	// TotalCost is the summed cost of successful dispatches in USD.
	TotalCost float64 `json:"total_cost"`
}

// AverageResponseTimeMS returns the mean latency of successful calls, or
// 0 when there is no history.
func (m ProviderMetrics) AverageResponseTimeMS() float64 {
	if m.SuccessfulRequests == 0 {
		return 0
	}
	return float64(m.TotalResponseTimeMS) / float64(m.SuccessfulRequests)
}

// Aggregator maintains per-provider usage metrics in the shared cache
// with a read-modify-write cycle. Every write refreshes the record TTL.
// Cache failures are logged and never affect request outcomes.
type Aggregator struct {
	cache  cache.Client
	ttl    time.Duration
	logger *slog.Logger

	// mu serializes read-modify-write cycles within this process so
	// concurrent dispatches do not lose increments.
	mu sync.Mutex
}

// NewAggregator creates an aggregator writing records with the given TTL
// (DefaultCacheTTL when non-positive).
func NewAggregator(c cache.Client, ttl time.Duration, logger *slog.Logger) *Aggregator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		cache:  c,
		ttl:    ttl,
		logger: logger.With("component", "aggregator"),
	}
}

// RecordSuccess folds a successful dispatch into the provider's record.
func (a *Aggregator) RecordSuccess(ctx context.Context, providerID string, responseTimeMS int64, cost float64) {
	a.update(ctx, providerID, func(m *ProviderMetrics) {
		m.TotalRequests++
		m.SuccessfulRequests++
		m.TotalResponseTimeMS += responseTimeMS
		m.TotalCost += cost
	})
}

// RecordFailure counts a failed dispatch. Only the total is incremented.
func (a *Aggregator) RecordFailure(ctx context.Context, providerID string) {
	a.update(ctx, providerID, func(m *ProviderMetrics) {
		m.TotalRequests++
	})
}

// Snapshot returns the provider's current record (zeros when absent).
func (a *Aggregator) Snapshot(ctx context.Context, providerID string) ProviderMetrics {
	return a.load(ctx, providerID)
}

// AverageResponseTime returns the provider's observed mean latency in
// milliseconds, or 0 when it has no recorded successes.
func (a *Aggregator) AverageResponseTime(ctx context.Context, providerID string) float64 {
	return a.load(ctx, providerID).AverageResponseTimeMS()
}

func (a *Aggregator) update(ctx context.Context, providerID string, apply func(*ProviderMetrics)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := a.load(ctx, providerID)
	apply(&m)

	buf, err := json.Marshal(m)
	if err != nil {
		a.logger.Warn("metrics record marshal failed", "provider", providerID, "error", err)
		return
	}
	if err := a.cache.Set(ctx, MetricsKey(providerID), buf, a.ttl); err != nil {
		a.logger.Warn("metrics record write failed", "provider", providerID, "error", err)
	}
}

// load reads the provider's record, treating misses, read failures, and
// corrupt entries as an empty record.
func (a *Aggregator) load(ctx context.Context, providerID string) ProviderMetrics {
	raw, err := a.cache.Get(ctx, MetricsKey(providerID))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			a.logger.Warn("metrics record read failed", "provider", providerID, "error", err)
		}
		return ProviderMetrics{}
	}

	var m ProviderMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		a.logger.Warn("metrics record corrupt, resetting", "provider", providerID, "error", err)
		return ProviderMetrics{}
	}
	return m
}
