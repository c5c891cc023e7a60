package metrics

import (
	"fmt"
	"sync"
	"time"

	"polyglot-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the main orchestrator for all Prometheus metrics in Hermes.
// It manages metric registration and provides a unified interface for
// recording metrics across the router, adapters, and cache.
//
// Recording is cheap enough to sit on the request path:
//   - Pre-allocated metric instances
//   - Cardinality limits on the one user-controlled label set (language pairs)
//   - Histogram buckets sized for translation API latencies
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestMetrics *RequestMetrics

	// Provider metrics
	providerMetrics *ProviderMetrics

	// Routing metrics
	routingMetrics *RoutingMetrics

	// Cost metrics
	costMetrics *CostMetrics

	// Cache metrics
	cacheMetrics *CacheMetrics

	// Cardinality tracking for language pairs
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "polyglot",
//		Subsystem: "hermes",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets()
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000), // Max 1K unique language pairs
	}

	// Initialize metric subsystems
	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)
	c.routingMetrics = NewRoutingMetrics(cfg, registry)
	c.costMetrics = NewCostMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)

	return c
}

// RecordTranslation records metrics for a completed translation request.
//
// Parameters:
//   - provider: backend that served the request, or "cache" for cache hits
//   - strategy: routing strategy used
//   - status: "success", "error", or "cached"
//   - source, target: language pair
//   - duration: total request duration
//   - chars: source character count
//   - cost: estimated request cost in USD
func (c *Collector) RecordTranslation(provider, strategy, status, source, target string, duration time.Duration, chars int, cost float64) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordTranslation(provider, strategy, status, duration, chars)
	c.costMetrics.RecordRequestCost(provider, cost)

	// Language pairs come straight from request input, so fold everything
	// past the cardinality limit into "other".
	pair := fmt.Sprintf("pair:%s:%s", source, target)
	if !c.cardinalityLimiter.Allow(pair) {
		source, target = "other", "other"
	}
	c.requestMetrics.RecordLanguagePair(source, target)
}

// RecordBatch records the size of a batch translation request.
func (c *Collector) RecordBatch(size int) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordBatch(size)
}

// RecordDetection records a language detection request by detected language
// ("unknown" when detection failed).
func (c *Collector) RecordDetection(language string) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordDetection(language)
}

// RecordProviderLatency records the latency for a backend API call.
func (c *Collector) RecordProviderLatency(provider string, latency float64) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordLatency(provider, latency)
}

// UpdateProviderHealth updates the health status of a backend.
// The health metric is a gauge where 1=healthy, 0=unhealthy.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.UpdateHealth(provider, healthy)
}

// UpdateProviderLoad updates the in-flight request count for a backend.
func (c *Collector) UpdateProviderLoad(provider string, inFlight int) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.UpdateLoad(provider, inFlight)
}

// RecordProviderError records an error from a backend.
//
// Parameters:
//   - provider: backend id
//   - errorType: type of error (e.g., "rate_limit", "timeout", "auth", "server_error")
func (c *Collector) RecordProviderError(provider, errorType string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordError(provider, errorType)
}

// RecordProviderRequest records a call to a backend.
//
// Operations: "translate", "detect", "health_check".
func (c *Collector) RecordProviderRequest(provider, operation string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordRequest(provider, operation)
}

// RecordSelection records a completed provider selection.
func (c *Collector) RecordSelection(strategy, provider string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.routingMetrics.RecordSelection(strategy, provider, duration)
}

// RecordFallback records a failover away from a backend that failed.
func (c *Collector) RecordFallback(provider string) {
	if !c.config.Enabled {
		return
	}

	c.routingMetrics.RecordFallback(provider)
}

// RecordAttempts records how many providers were tried for a request.
func (c *Collector) RecordAttempts(strategy string, attempts int) {
	if !c.config.Enabled {
		return
	}

	c.routingMetrics.RecordAttempts(strategy, attempts)
}

// RecordCacheHit records a cache hit.
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordHit(cacheName)
}

// RecordCacheMiss records a cache miss.
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordMiss(cacheName)
}

// UpdateCacheSize updates the current size of a cache.
func (c *Collector) UpdateCacheSize(cacheName string, size int) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.UpdateSize(cacheName, size)
}

// RecordCacheEviction records a cache eviction.
func (c *Collector) RecordCacheEviction(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordEviction(cacheName)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
