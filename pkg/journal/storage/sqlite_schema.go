package storage

// SchemaVersion is the current journal database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the journal schema.
const Schema = `
-- Usage journal, one row per completed translation request.
CREATE TABLE IF NOT EXISTS usage (
    id TEXT PRIMARY KEY,
    time TIMESTAMP NOT NULL,
    tenant TEXT,
    provider TEXT,
    source_lang TEXT NOT NULL,
    target_lang TEXT NOT NULL,
    char_count INTEGER NOT NULL,
    text_hash TEXT,
    strategy TEXT,
    cached BOOLEAN NOT NULL,
    success BOOLEAN NOT NULL,
    error_type TEXT,
    latency_ms INTEGER NOT NULL,
    cost REAL NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for retention sweeps and the filters operators use
CREATE INDEX IF NOT EXISTS idx_usage_time ON usage(time);
CREATE INDEX IF NOT EXISTS idx_usage_tenant ON usage(tenant);
CREATE INDEX IF NOT EXISTS idx_usage_provider ON usage(provider);
`

// insertEntry is the hot-path write; it is prepared once at startup.
const insertEntry = `
INSERT INTO usage (
    id, time, tenant, provider, source_lang, target_lang,
    char_count, text_hash, strategy, cached, success, error_type,
    latency_ms, cost
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// entryColumns is the scan order shared by every SELECT.
const entryColumns = `
    id, time, tenant, provider, source_lang, target_lang,
    char_count, text_hash, strategy, cached, success, error_type,
    latency_ms, cost
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
