package routing

import (
	"sync"
	"sync/atomic"
	"time"
)

// RouterStats is a point-in-time snapshot of router activity.
type RouterStats struct {
	// TotalRequests is the total number of translate calls processed.
	TotalRequests int64 `json:"total_requests"`

	// CacheHits counts requests served from the response cache.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses counts requests that went to dispatch.
	CacheMisses int64 `json:"cache_misses"`

	// Fallbacks counts requests where the first-choice provider failed
	// and the remaining candidates were tried.
	Fallbacks int64 `json:"fallbacks"`

	// Failures counts requests that returned no translation.
	Failures int64 `json:"failures"`

	// RequestsPerProvider tracks successful dispatches per provider.
	RequestsPerProvider map[string]int64 `json:"requests_per_provider"`

	// RequestsPerStrategy tracks how often each scoring mode was used.
	RequestsPerStrategy map[string]int64 `json:"requests_per_strategy"`

	// LastResetTime is when the counters were last reset.
	LastResetTime time.Time `json:"last_reset_time"`
}

// AtomicRouterStats tracks router activity with atomic counters, so the
// dispatch path never takes a lock for bookkeeping.
type AtomicRouterStats struct {
	totalRequests atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	fallbacks     atomic.Int64
	failures      atomic.Int64

	// perProvider and perStrategy hold *atomic.Int64 counters keyed by
	// provider id and mode name.
	perProvider sync.Map
	perStrategy sync.Map

	// mu protects lastResetTime.
	mu            sync.RWMutex
	lastResetTime time.Time
}

// NewAtomicRouterStats creates a zeroed stats tracker.
func NewAtomicRouterStats() *AtomicRouterStats {
	return &AtomicRouterStats{
		lastResetTime: time.Now(),
	}
}

// IncrementTotal increments the total request counter.
func (s *AtomicRouterStats) IncrementTotal() {
	s.totalRequests.Add(1)
}

// IncrementCacheHit increments the cache hit counter.
func (s *AtomicRouterStats) IncrementCacheHit() {
	s.cacheHits.Add(1)
}

// IncrementCacheMiss increments the cache miss counter.
func (s *AtomicRouterStats) IncrementCacheMiss() {
	s.cacheMisses.Add(1)
}

// IncrementFallback increments the fallback counter.
func (s *AtomicRouterStats) IncrementFallback() {
	s.fallbacks.Add(1)
}

// IncrementFailure increments the failed request counter.
func (s *AtomicRouterStats) IncrementFailure() {
	s.failures.Add(1)
}

// IncrementProvider increments the successful dispatch counter for a
// provider.
func (s *AtomicRouterStats) IncrementProvider(providerID string) {
	val, _ := s.perProvider.LoadOrStore(providerID, &atomic.Int64{})
	val.(*atomic.Int64).Add(1)
}

// IncrementStrategy increments the use counter for a scoring mode.
func (s *AtomicRouterStats) IncrementStrategy(name string) {
	val, _ := s.perStrategy.LoadOrStore(name, &atomic.Int64{})
	val.(*atomic.Int64).Add(1)
}

// Snapshot returns a point-in-time copy of the counters. The returned
// struct is safe to read without locks.
func (s *AtomicRouterStats) Snapshot() RouterStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perProvider := make(map[string]int64)
	s.perProvider.Range(func(key, value any) bool {
		perProvider[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	perStrategy := make(map[string]int64)
	s.perStrategy.Range(func(key, value any) bool {
		perStrategy[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	return RouterStats{
		TotalRequests:       s.totalRequests.Load(),
		CacheHits:           s.cacheHits.Load(),
		CacheMisses:         s.cacheMisses.Load(),
		Fallbacks:           s.fallbacks.Load(),
		Failures:            s.failures.Load(),
		RequestsPerProvider: perProvider,
		RequestsPerStrategy: perStrategy,
		LastResetTime:       s.lastResetTime,
	}
}

// Reset zeroes all counters.
func (s *AtomicRouterStats) Reset() {
	s.totalRequests.Store(0)
	s.cacheHits.Store(0)
	s.cacheMisses.Store(0)
	s.fallbacks.Store(0)
	s.failures.Store(0)

	s.perProvider.Range(func(key, value any) bool {
		s.perProvider.Delete(key)
		return true
	})
	s.perStrategy.Range(func(key, value any) bool {
		s.perStrategy.Delete(key)
		return true
	})

	s.mu.Lock()
	s.lastResetTime = time.Now()
	s.mu.Unlock()
}
