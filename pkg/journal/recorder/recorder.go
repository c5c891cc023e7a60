package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"polyglot-hq/hermes/pkg/journal"
)

// Defaults applied when Config fields are unset.
const (
	// DefaultBuffer is the async write channel size.
	DefaultBuffer = 1000

	// DefaultWriteTimeout bounds one storage write.
	DefaultWriteTimeout = 5 * time.Second
)

// Config contains configuration for the journal recorder.
type Config struct {
	// Enabled controls whether entries are recorded at all. A disabled
	// recorder discards everything and starts no worker.
	Enabled bool

	// Buffer is the async write channel size.
	// Default: 1000
	Buffer int

	// WriteTimeout bounds one storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		Buffer:       DefaultBuffer,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// Recorder writes journal entries to storage asynchronously. Record never
// blocks the caller: entries go to a buffered channel that a background
// worker drains, and a full buffer drops the entry and counts the drop.
type Recorder struct {
	storage   journal.Storage
	config    *Config
	entryCh   chan *journal.Entry
	dropped   atomic.Uint64
	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewRecorder creates a recorder in front of the given storage backend and
// starts its write worker. A nil config takes the defaults.
func NewRecorder(storage journal.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	r := &Recorder{
		storage: storage,
		config:  &cfg,
		entryCh: make(chan *journal.Entry, cfg.Buffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "journal.recorder"),
	}

	if !cfg.Enabled {
		return r
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("journal recorder initialized",
		"buffer", cfg.Buffer,
		"write_timeout", cfg.WriteTimeout,
	)

	return r
}

// Record enqueues one entry for writing. It never blocks and never fails:
// a full buffer drops the entry and counts the drop, and a disabled or
// closed recorder discards it.
func (r *Recorder) Record(entry *journal.Entry) {
	if !r.config.Enabled || entry == nil {
		return
	}
	select {
	case <-r.done:
		return
	default:
	}

	select {
	case r.entryCh <- entry:
	default:
		dropped := r.dropped.Add(1)
		r.logger.Warn("journal buffer full, dropping entry",
			"entry_id", entry.ID,
			"dropped_total", dropped,
		)
	}
}

// Dropped returns the number of entries dropped on a full buffer.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Close drains the buffer into storage and stops the worker. It is safe to
// call more than once.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()

		if !r.config.Enabled {
			return
		}
		if dropped := r.dropped.Load(); dropped > 0 {
			r.logger.Warn("journal recorder shut down with dropped entries",
				"dropped_total", dropped,
			)
		} else {
			r.logger.Info("journal recorder shut down")
		}
	})
	return nil
}

// worker drains the entry channel into storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case entry := <-r.entryCh:
			r.writeEntry(entry)

		case <-r.done:
			// Drain what the buffer still holds before exit.
			for {
				select {
				case entry := <-r.entryCh:
					r.writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

// writeEntry writes one entry to storage. Failures are logged and
// swallowed: the journal never affects request outcomes.
func (r *Recorder) writeEntry(entry *journal.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, entry); err != nil {
		r.logger.Error("journal write failed",
			"entry_id", entry.ID,
			"error", err,
		)
		return
	}

	r.logger.Debug("journal entry recorded",
		"entry_id", entry.ID,
		"provider", entry.Provider,
		"success", entry.Success,
	)

	if elapsed := time.Since(start); elapsed > r.config.WriteTimeout/2 {
		r.logger.Warn("slow journal write",
			"entry_id", entry.ID,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
}
