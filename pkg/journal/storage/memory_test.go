package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"polyglot-hq/hermes/pkg/journal"
)

// TestMemoryStorage_StoreAndQuery tests storing and reading back an entry.
func TestMemoryStorage_StoreAndQuery(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	want := testEntry("entry-1", time.Now().UTC())
	if err := store.Store(ctx, want); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	results, err := store.Query(ctx, &journal.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	got := results[0]
	if got.ID != want.ID {
		t.Errorf("Expected ID %q, got %q", want.ID, got.ID)
	}
	if got.Provider != want.Provider {
		t.Errorf("Expected Provider %q, got %q", want.Provider, got.Provider)
	}
	if got.Cost != want.Cost {
		t.Errorf("Expected Cost %f, got %f", want.Cost, got.Cost)
	}
}

// TestMemoryStorage_CopyOnStore tests that stored entries are isolated
// from later caller mutation.
func TestMemoryStorage_CopyOnStore(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	entry := testEntry("entry-1", time.Now().UTC())
	if err := store.Store(ctx, entry); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	entry.Provider = "changed"

	results, err := store.Query(ctx, &journal.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if results[0].Provider != "deepl" {
		t.Errorf("Expected stored entry to keep Provider 'deepl', got '%s'", results[0].Provider)
	}
}

// TestMemoryStorage_QueryFilters tests the query filter surface.
func TestMemoryStorage_QueryFilters(t *testing.T) {
	store := NewMemoryStorage()
	base := seedEntries(t, store)
	ctx := context.Background()

	since := base.Add(-90 * time.Minute)
	until := base.Add(-90 * time.Minute)
	success := true
	failure := false

	tests := []struct {
		name  string
		query *journal.Query
		want  []string
	}{
		{"all entries", &journal.Query{}, []string{"e4", "e3", "e2", "e1"}},
		{"since", &journal.Query{Since: &since}, []string{"e4", "e3"}},
		{"until", &journal.Query{Until: &until}, []string{"e2", "e1"}},
		{"tenant", &journal.Query{Tenant: "globex"}, []string{"e4", "e3"}},
		{"provider", &journal.Query{Provider: "deepl"}, []string{"e3", "e1"}},
		{"strategy", &journal.Query{Strategy: "balanced"}, []string{"e4", "e2"}},
		{"success only", &journal.Query{Success: &success}, []string{"e4", "e3", "e1"}},
		{"failures only", &journal.Query{Success: &failure}, []string{"e2"}},
		{"no match", &journal.Query{Provider: "unknown"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(results) != len(tt.want) {
				t.Fatalf("Expected %d results, got %d", len(tt.want), len(results))
			}
			for i, id := range tt.want {
				if results[i].ID != id {
					t.Errorf("Expected result %d to be %q, got %q", i, id, results[i].ID)
				}
			}
		})
	}
}

// TestMemoryStorage_QueryPagination tests limit and offset handling.
func TestMemoryStorage_QueryPagination(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		entry := testEntry(fmt.Sprintf("entry-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Store(ctx, entry); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	results, err := store.Query(ctx, &journal.Query{Limit: 2})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "entry-4" || results[1].ID != "entry-3" {
		t.Errorf("Expected newest entries first, got %s, %s", results[0].ID, results[1].ID)
	}

	results, err = store.Query(ctx, &journal.Query{Limit: 2, Offset: 3})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "entry-1" || results[1].ID != "entry-0" {
		t.Errorf("Expected entries 1 and 0, got %s, %s", results[0].ID, results[1].ID)
	}

	results, err = store.Query(ctx, &journal.Query{Offset: 10})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results for offset beyond dataset, got %d", len(results))
	}
}

// TestMemoryStorage_DefaultQueryLimit tests the implicit result cap.
func TestMemoryStorage_DefaultQueryLimit(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < journal.DefaultQueryLimit+5; i++ {
		entry := testEntry(fmt.Sprintf("entry-%d", i), base.Add(time.Duration(i)*time.Second))
		if err := store.Store(ctx, entry); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	results, err := store.Query(ctx, &journal.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != journal.DefaultQueryLimit {
		t.Errorf("Expected %d results without explicit limit, got %d",
			journal.DefaultQueryLimit, len(results))
	}
}

// TestMemoryStorage_Count tests entry counting.
func TestMemoryStorage_Count(t *testing.T) {
	store := NewMemoryStorage()
	seedEntries(t, store)
	ctx := context.Background()

	count, err := store.Count(ctx, &journal.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected count 4, got %d", count)
	}

	count, err = store.Count(ctx, &journal.Query{Provider: "deepl"})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2 for deepl, got %d", count)
	}
}

// TestMemoryStorage_DeleteBefore tests retention deletion, including the
// strict cutoff boundary.
func TestMemoryStorage_DeleteBefore(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	now := time.Now().UTC()
	entries := []*journal.Entry{
		testEntry("old-1", now.AddDate(0, 0, -10)),
		testEntry("old-2", now.AddDate(0, 0, -5)),
		testEntry("at-cutoff", now.AddDate(0, 0, -2)),
		testEntry("recent", now),
	}
	for _, e := range entries {
		if err := store.Store(ctx, e); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	deleted, err := store.DeleteBefore(ctx, now.AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("DeleteBefore() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted entries, got %d", deleted)
	}
	if size := store.Size(); size != 2 {
		t.Errorf("Expected 2 remaining entries, got %d", size)
	}
}

// TestMemoryStorage_SizeAndClear tests the test helpers.
func TestMemoryStorage_SizeAndClear(t *testing.T) {
	store := NewMemoryStorage()
	seedEntries(t, store)

	if size := store.Size(); size != 4 {
		t.Errorf("Expected size 4, got %d", size)
	}

	store.Clear()
	if size := store.Size(); size != 0 {
		t.Errorf("Expected size 0 after Clear(), got %d", size)
	}
}

// TestMemoryStorage_Close tests that Close releases stored entries.
func TestMemoryStorage_Close(t *testing.T) {
	store := NewMemoryStorage()
	seedEntries(t, store)

	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if size := store.Size(); size != 0 {
		t.Errorf("Expected size 0 after Close(), got %d", size)
	}
}
