package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"polyglot-hq/hermes/pkg/journal"
)

// MemoryStorage implements journal.Storage with an in-process map. It backs
// tests and ephemeral deployments; entries are lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]*journal.Entry
}

// NewMemoryStorage creates an empty in-memory journal backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]*journal.Entry),
	}
}

// Store persists one journal entry.
func (s *MemoryStorage) Store(ctx context.Context, entry *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later caller mutation cannot reach the stored entry.
	cp := *entry
	s.entries[entry.ID] = &cp
	return nil
}

// Query returns entries matching q, newest first.
func (s *MemoryStorage) Query(ctx context.Context, q *journal.Query) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*journal.Entry, 0)
	for _, entry := range s.entries {
		if matchesQuery(entry, q) {
			cp := *entry
			matched = append(matched, &cp)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Time.After(matched[j].Time)
	})

	if q.Offset >= len(matched) {
		return []*journal.Entry{}, nil
	}
	matched = matched[q.Offset:]

	limit := q.Limit
	if limit <= 0 {
		limit = journal.DefaultQueryLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

// Count returns the number of entries matching q.
func (s *MemoryStorage) Count(ctx context.Context, q *journal.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, entry := range s.entries {
		if matchesQuery(entry, q) {
			count++
		}
	}
	return count, nil
}

// DeleteBefore removes entries recorded strictly before cutoff.
func (s *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, entry := range s.entries {
		if entry.Time.Before(cutoff) {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close drops all entries.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*journal.Entry)
	return nil
}

// Size returns the number of stored entries (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Clear removes all entries (for testing).
func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*journal.Entry)
}

// matchesQuery reports whether entry passes every filter in q.
func matchesQuery(entry *journal.Entry, q *journal.Query) bool {
	if q.Since != nil && entry.Time.Before(*q.Since) {
		return false
	}
	if q.Until != nil && entry.Time.After(*q.Until) {
		return false
	}
	if q.Tenant != "" && entry.Tenant != q.Tenant {
		return false
	}
	if q.Provider != "" && entry.Provider != q.Provider {
		return false
	}
	if q.Strategy != "" && entry.Strategy != q.Strategy {
		return false
	}
	if q.Success != nil && entry.Success != *q.Success {
		return false
	}
	return true
}
