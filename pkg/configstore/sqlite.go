package configstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite is a credential store backed by a SQLite database file. It is
// suitable for single-instance deployments where credentials must survive
// restarts.
//
// The database runs in write-ahead log (WAL) mode with periodic passive
// checkpoints, so reads stay concurrent while writes remain durable.
type SQLite struct {
	db                 *sql.DB
	path               string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	listStmt   *sql.Stmt
	upsertStmt *sql.Stmt
	deleteStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite credential store.
type SQLiteConfig struct {
	// Path is the SQLite database file path.
	Path string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes.
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewSQLite opens or creates a credential database with default settings.
func NewSQLite(path string) (*SQLite, error) {
	return NewSQLiteWithConfig(SQLiteConfig{Path: path})
}

// NewSQLiteWithConfig opens or creates a credential database.
func NewSQLiteWithConfig(cfg SQLiteConfig) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("configstore: database path cannot be empty")
	}
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("configstore: opening database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLite{
		db:                 db,
		path:               cfg.Path,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("configstore: initializing schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("configstore: preparing statements: %w", err)
	}

	go s.checkpointLoop()

	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		tenant_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		credential TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		updated_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (tenant_id, provider_id)
	);

	CREATE INDEX IF NOT EXISTS idx_credentials_tenant ON credentials(tenant_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) prepareStatements() error {
	var err error

	s.listStmt, err = s.db.Prepare(`
		SELECT tenant_id, provider_id, credential, active
		FROM credentials
		WHERE tenant_id = ?
		ORDER BY provider_id
	`)
	if err != nil {
		return fmt.Errorf("preparing list statement: %w", err)
	}

	s.upsertStmt, err = s.db.Prepare(`
		INSERT INTO credentials (tenant_id, provider_id, credential, active, updated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, provider_id) DO UPDATE SET
			credential = excluded.credential,
			active = excluded.active,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM credentials
		WHERE tenant_id = ? AND provider_id = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing delete statement: %w", err)
	}

	return nil
}

// ListCredentials implements the Store interface.
func (s *SQLite) ListCredentials(ctx context.Context, tenantID string) ([]CredentialRow, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("configstore: tenant id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.listStmt.QueryContext(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("configstore: listing credentials: %w", err)
	}
	defer rows.Close()

	var out []CredentialRow
	for rows.Next() {
		var (
			row    CredentialRow
			active int
		)
		if err := rows.Scan(&row.TenantID, &row.ProviderID, &row.Credential, &active); err != nil {
			return nil, fmt.Errorf("configstore: scanning credential row: %w", err)
		}
		row.Active = active != 0
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("configstore: iterating credential rows: %w", err)
	}

	if len(out) == 0 {
		return nil, ErrTenantNotFound
	}
	return out, nil
}

// UpsertCredential implements the Store interface.
func (s *SQLite) UpsertCredential(ctx context.Context, row CredentialRow) error {
	if err := row.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	if row.Active {
		active = 1
	}
	now := time.Now().Unix()
	_, err := s.upsertStmt.ExecContext(ctx, row.TenantID, row.ProviderID, row.Credential, active, now, now)
	if err != nil {
		return fmt.Errorf("configstore: upserting credential: %w", err)
	}
	return nil
}

// DeleteCredential implements the Store interface. Deleting a missing row
// is not an error.
func (s *SQLite) DeleteCredential(ctx context.Context, tenantID, providerID string) error {
	if tenantID == "" {
		return fmt.Errorf("configstore: tenant id cannot be empty")
	}
	if providerID == "" {
		return fmt.Errorf("configstore: provider id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.ExecContext(ctx, tenantID, providerID); err != nil {
		return fmt.Errorf("configstore: deleting credential: %w", err)
	}
	return nil
}

// Close releases the database. It is idempotent.
func (s *SQLite) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.listStmt != nil {
			s.listStmt.Close()
		}
		if s.upsertStmt != nil {
			s.upsertStmt.Close()
		}
		if s.deleteStmt != nil {
			s.deleteStmt.Close()
		}

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic passive WAL checkpoints.
func (s *SQLite) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}
