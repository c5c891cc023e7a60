// Package storage provides the journal storage backends.
//
// SQLite is the durable backend: WAL mode so the once-daily retention
// sweep never blocks recording, a prepared insert for the hot write path,
// and indexes on the columns operators filter by. The memory backend
// serves tests and ephemeral deployments; its entries are gone on restart.
//
// Both backends are safe for concurrent use. Custom backends implement
// journal.Storage.
package storage
