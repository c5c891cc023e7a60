package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is one stored value with its bookkeeping.
type memoryEntry struct {
	// value is the stored payload
	value []byte

	// expiresAt is the expiry instant (zero time = no expiry)
	expiresAt time.Time

	// lastAccessedAt drives LRU eviction
	lastAccessedAt time.Time
}

// Memory is a thread-safe in-process cache with per-entry TTL and LRU
// eviction. When the cache reaches max capacity it evicts the least recently
// accessed entry. A background goroutine sweeps expired entries.
type Memory struct {
	// entries maps cache keys to stored entries
	entries map[string]*memoryEntry

	// maxEntries is the maximum number of entries (0 = unlimited)
	maxEntries int

	// mu protects concurrent access to the cache
	mu sync.RWMutex

	// stopCh signals the cleanup goroutine to stop
	stopCh chan struct{}

	// stopOnce guards double Close
	stopOnce sync.Once
}

// cleanupInterval is the cadence of the expiry sweeper.
const cleanupInterval = time.Minute

// NewMemory creates a new in-process cache.
// If maxEntries is 0, the cache has unlimited size.
func NewMemory(maxEntries int) *Memory {
	c := &Memory{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}

	go c.cleanupExpired()

	return c
}

// Get returns the value stored under key, or ErrMiss when the key is absent
// or expired.
func (c *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	if !ok {
		c.mu.RUnlock()
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.RUnlock()
		return nil, ErrMiss
	}
	value := entry.value
	c.mu.RUnlock()

	// Update access time with write lock; re-check the entry still exists.
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		entry.lastAccessedAt = time.Now()
	}
	c.mu.Unlock()

	return value, nil
}

// Set stores value under key. When the cache is full, the least recently
// used entry is evicted first.
func (c *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.evictLRU()
		}
	}

	now := time.Now()
	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	c.entries[key] = &memoryEntry{
		value:          value,
		expiresAt:      expiresAt,
		lastAccessedAt: now,
	}

	return nil
}

// Delete removes an entry from the cache.
func (c *Memory) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Size returns the current number of entries.
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close stops the background cleanup goroutine.
// After calling Close, the cache should not be used.
func (c *Memory) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

// evictLRU evicts the least recently used entry.
// Must be called with the write lock held.
func (c *Memory) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// cleanupExpired runs periodically to remove expired entries.
// Runs in a background goroutine until Close is called.
func (c *Memory) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

// removeExpired removes all expired entries.
func (c *Memory) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}
