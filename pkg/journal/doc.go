// Package journal provides the usage journal: one operational record per
// completed translation, covering who asked, which provider served, what it
// cost, and how it ended. The journal is the accounting trail behind
// per-tenant billing and provider spend reviews.
//
// Entries never contain user text. They carry counts, a source-text hash,
// and outcome metadata, so the journal can be retained for months without
// holding user data.
//
// # Recording Flow
//
// Entries are written asynchronously so journal trouble never touches the
// request path:
//
//	router.Translate returns
//	     |
//	journal.NewEntry (id, hash, classification)
//	     |
//	recorder.Record (buffered channel, drops when full)
//	     |
//	storage backend (SQLite or memory)
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path: "data/journal.db",
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := recorder.NewRecorder(store, recorder.DefaultConfig())
//	defer rec.Close()
//
//	resp, err := router.Translate(ctx, req, strat)
//	rec.Record(journal.NewEntry(req, strat, resp, err, time.Since(start)))
//
// # Retention
//
// Old entries are pruned on a cron schedule:
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 90,
//	    PruneSchedule: "0 3 * * *",
//	})
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
//	defer pruner.Stop()
//
// All journal types are safe for concurrent use.
package journal
