package retention

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"polyglot-hq/hermes/pkg/journal"
	"polyglot-hq/hermes/pkg/journal/storage"
)

// failingStorage fails DeleteBefore; the pruner touches nothing else.
type failingStorage struct {
	journal.Storage
}

func (failingStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, errors.New("disk error")
}

// seedAged stores oldCount entries ageDays old plus recentCount entries
// from right now.
func seedAged(t *testing.T, store journal.Storage, oldCount, recentCount, ageDays int) {
	t.Helper()

	ctx := context.Background()
	oldTime := time.Now().UTC().AddDate(0, 0, -ageDays)
	for i := 0; i < oldCount; i++ {
		entry := &journal.Entry{
			ID:         fmt.Sprintf("old-%d", i),
			Time:       oldTime,
			Provider:   "deepl",
			SourceLang: "en",
			TargetLang: "de",
			Strategy:   "balanced",
			Success:    true,
		}
		if err := store.Store(ctx, entry); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}
	for i := 0; i < recentCount; i++ {
		entry := &journal.Entry{
			ID:         fmt.Sprintf("recent-%d", i),
			Time:       time.Now().UTC(),
			Provider:   "deepl",
			SourceLang: "en",
			TargetLang: "de",
			Strategy:   "balanced",
			Success:    true,
		}
		if err := store.Store(ctx, entry); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}
}

// TestPruner_Prune tests deleting entries past the retention period.
func TestPruner_Prune(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedAged(t, store, 10, 5, 100)

	pruner := NewPruner(store, &Config{RetentionDays: 90})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 10 {
		t.Errorf("Expected 10 deleted entries, got %d", deleted)
	}

	count, err := store.Count(context.Background(), &journal.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 remaining entries, got %d", count)
	}
}

// TestPruner_RetentionDisabled tests that a zero retention period keeps
// everything.
func TestPruner_RetentionDisabled(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedAged(t, store, 10, 0, 1000)

	pruner := NewPruner(store, &Config{RetentionDays: 0})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected 0 deleted entries, got %d", deleted)
	}

	count, err := store.Count(context.Background(), &journal.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 10 {
		t.Errorf("Expected 10 remaining entries, got %d", count)
	}
}

// TestPruner_StorageError tests error wrapping on storage failure.
func TestPruner_StorageError(t *testing.T) {
	pruner := NewPruner(failingStorage{}, &Config{RetentionDays: 30})

	_, err := pruner.Prune(context.Background())
	if err == nil {
		t.Fatal("Expected Prune() to fail")
	}

	var retErr *journal.RetentionError
	if !errors.As(err, &retErr) {
		t.Fatalf("Expected RetentionError, got %T", err)
	}
	if retErr.RetentionDays != 30 {
		t.Errorf("Expected RetentionDays 30, got %d", retErr.RetentionDays)
	}
}

// TestPruner_NilConfig tests that a nil config takes the defaults.
func TestPruner_NilConfig(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), nil)

	if pruner.config.RetentionDays != 90 {
		t.Errorf("Expected default RetentionDays 90, got %d", pruner.config.RetentionDays)
	}
	if pruner.config.PruneSchedule != "0 3 * * *" {
		t.Errorf("Expected default PruneSchedule '0 3 * * *', got '%s'", pruner.config.PruneSchedule)
	}
}

// TestPruner_StartStop tests scheduler delegation.
func TestPruner_StartStop(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{
		RetentionDays: 90,
		PruneSchedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if pruner.NextPruning() != nil {
		t.Error("Expected no scheduled pruning before Start()")
	}

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	next := pruner.NextPruning()
	if next == nil {
		t.Fatal("NextPruning() returned nil for started pruner")
	}
	if !next.After(time.Now()) {
		t.Errorf("Expected next pruning in the future, got %s", next)
	}

	pruner.Stop()
	if pruner.scheduler.IsRunning() {
		t.Error("Expected scheduler stopped after Stop()")
	}
}
