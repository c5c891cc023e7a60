package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"polyglot-hq/hermes/pkg/journal"
)

// SQLiteConfig contains configuration for the SQLite journal backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/journal.db",
		MaxOpenConns: 10,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements journal.Storage using SQLite. WAL mode is always
// on so retention sweeps never block recording, and the insert runs through
// a statement prepared at startup.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	insert *sql.Stmt
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the journal database and
// initializes its schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "journal.storage.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("sqlite journal storage initialized",
		"path", config.Path,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize enables WAL mode, creates the schema, and prepares the insert.
func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return journal.NewStorageError("sqlite", "enable_wal", err)
	}

	busyTimeoutMS := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMS)); err != nil {
		return journal.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return journal.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return journal.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return journal.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return journal.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	insert, err := s.db.Prepare(insertEntry)
	if err != nil {
		return journal.NewStorageError("sqlite", "prepare_insert", err)
	}
	s.insert = insert

	return nil
}

// Store persists one journal entry.
func (s *SQLiteStorage) Store(ctx context.Context, entry *journal.Entry) error {
	_, err := s.insert.ExecContext(ctx,
		entry.ID, entry.Time.UTC(), entry.Tenant, entry.Provider,
		entry.SourceLang, entry.TargetLang,
		entry.CharCount, entry.TextHash, entry.Strategy,
		entry.Cached, entry.Success, entry.ErrorType,
		entry.LatencyMS, entry.Cost,
	)
	if err != nil {
		return journal.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query returns entries matching q, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, q *journal.Query) ([]*journal.Entry, error) {
	whereClause, args := buildWhereClause(q)

	sqlQuery := "SELECT" + entryColumns + "FROM usage"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY time DESC LIMIT ? OFFSET ?"

	limit := q.Limit
	if limit <= 0 {
		limit = journal.DefaultQueryLimit
	}
	args = append(args, limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	entries := []*journal.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, journal.NewStorageError("sqlite", "scan", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, journal.NewStorageError("sqlite", "query", err)
	}

	return entries, nil
}

// Count returns the number of entries matching q.
func (s *SQLiteStorage) Count(ctx context.Context, q *journal.Query) (int64, error) {
	whereClause, args := buildWhereClause(q)

	sqlQuery := "SELECT COUNT(*) FROM usage"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, journal.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore removes entries recorded strictly before cutoff.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM usage WHERE time < ?", cutoff.UTC())
	if err != nil {
		return 0, journal.NewStorageError("sqlite", "delete", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, journal.NewStorageError("sqlite", "delete", err)
	}
	return deleted, nil
}

// Close releases the prepared statement and the database connection.
func (s *SQLiteStorage) Close() error {
	if s.insert != nil {
		s.insert.Close()
	}
	if err := s.db.Close(); err != nil {
		return journal.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("sqlite journal storage closed")
	return nil
}

// buildWhereClause builds a WHERE clause (without the keyword) and its
// arguments from the query filters.
func buildWhereClause(q *journal.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q.Since != nil {
		conditions = append(conditions, "time >= ?")
		args = append(args, q.Since.UTC())
	}
	if q.Until != nil {
		conditions = append(conditions, "time <= ?")
		args = append(args, q.Until.UTC())
	}
	if q.Tenant != "" {
		conditions = append(conditions, "tenant = ?")
		args = append(args, q.Tenant)
	}
	if q.Provider != "" {
		conditions = append(conditions, "provider = ?")
		args = append(args, q.Provider)
	}
	if q.Strategy != "" {
		conditions = append(conditions, "strategy = ?")
		args = append(args, q.Strategy)
	}
	if q.Success != nil {
		conditions = append(conditions, "success = ?")
		args = append(args, *q.Success)
	}

	return strings.Join(conditions, " AND "), args
}

// scanEntry scans one row into a journal entry.
func scanEntry(rows *sql.Rows) (*journal.Entry, error) {
	var entry journal.Entry
	err := rows.Scan(
		&entry.ID, &entry.Time, &entry.Tenant, &entry.Provider,
		&entry.SourceLang, &entry.TargetLang,
		&entry.CharCount, &entry.TextHash, &entry.Strategy,
		&entry.Cached, &entry.Success, &entry.ErrorType,
		&entry.LatencyMS, &entry.Cost,
	)
	if err != nil {
		return nil, err
	}
	entry.Time = entry.Time.UTC()
	return &entry, nil
}
