package config

import "time"

// Config is the root configuration structure for the Hermes gateway.
// It covers the HTTP server, the routing engine, provider backends,
// the response cache, credential storage, the usage journal, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Tenant is the tenant whose credentials arm the gateway at startup.
	// Default: "default"
	Tenant string `yaml:"tenant"`

	// Router contains routing engine configuration including the default
	// strategy, health monitoring cadence, and balanced-mode weights.
	Router RouterConfig `yaml:"router"`

	// Providers contains per-backend overrides keyed by provider id
	// (e.g., "deepl", "claude", "openai", "google", "libre").
	// An empty map enables every built-in backend with its defaults; a
	// non-empty map enables exactly the listed backends.
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Cache contains response cache configuration.
	Cache CacheConfig `yaml:"cache"`

	// Credentials contains credential store configuration.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Journal contains usage journal configuration.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8100", "0.0.0.0:8100").
	// Default: "127.0.0.1:8100"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds one request through the handler chain.
	// Batch requests get this budget for the whole batch.
	// Default: 120s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes caps the request body size in bytes.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// TLS contains TLS termination configuration.
	TLS TLSConfig `yaml:"tls"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// TLSConfig contains TLS termination configuration. TLS is off unless
// enabled; when enabled the server requires TLS 1.3.
type TLSConfig struct {
	// Enabled controls whether the server terminates TLS.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`
}

// CORSConfig contains CORS configuration. CORS is off unless enabled.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// RouterConfig contains configuration for the routing engine.
type RouterConfig struct {
	// DefaultStrategy is the scoring mode used when a request does not
	// name one.
	// Options: "cost", "quality", "speed", "balanced"
	// Default: "balanced"
	DefaultStrategy string `yaml:"default_strategy"`

	// HealthCheckInterval is the background health monitor period.
	// Default: 60s
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`

	// HealthCheckTimeout is the per-provider health check budget.
	// Default: 10s
	HealthCheckTimeout time.Duration `yaml:"health_check_timeout"`

	// AdapterCallTimeout bounds one adapter translate call.
	// Default: 30s
	AdapterCallTimeout time.Duration `yaml:"adapter_call_timeout"`

	// UnhealthyErrorThreshold is the consecutive dispatch failure count
	// that marks a provider unhealthy.
	// Default: 5
	UnhealthyErrorThreshold int `yaml:"unhealthy_error_threshold"`

	// CostCeilingPerChar normalizes the cost term of balanced scoring
	// (USD per character).
	// Default: 0.00005
	CostCeilingPerChar float64 `yaml:"cost_ceiling_per_char"`

	// BatchConcurrency bounds batch translation fan-out.
	// Default: 4
	BatchConcurrency int `yaml:"batch_concurrency"`

	// BalancedWeights are the balanced-mode scoring weights.
	// They must sum to 1.
	// Default: quality 0.4, speed 0.3, cost 0.3
	BalancedWeights WeightsConfig `yaml:"balanced_weights"`
}

// WeightsConfig holds the balanced-mode scoring weights.
type WeightsConfig struct {
	// Quality weights the static quality score.
	Quality float64 `yaml:"quality"`

	// Speed weights the load headroom term.
	Speed float64 `yaml:"speed"`

	// Cost weights the cost term.
	Cost float64 `yaml:"cost"`
}

// ProviderConfig contains overrides for a single provider backend.
// Zero fields keep the backend's built-in values.
type ProviderConfig struct {
	// Disabled removes the backend from service without deleting its
	// configuration block.
	// Default: false
	Disabled bool `yaml:"disabled"`

	// BaseURL overrides the backend's default API endpoint.
	// Example: "https://api-free.deepl.com/v2"
	BaseURL string `yaml:"base_url"`

	// Credential is the API credential for single-tenant deployments
	// backed by the in-memory credential store. Supports environment
	// variable expansion (e.g., "${DEEPL_API_KEY}"). Ignored when the
	// credential store backend is "sqlite".
	Credential string `yaml:"credential"`

	// Timeout is the per-request timeout for upstream calls.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the retry budget for transient upstream failures.
	// Negative disables retries.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// RateLimitRPS caps outgoing requests per second (0 disables pacing).
	RateLimitRPS float64 `yaml:"rate_limit_rps"`

	// Priority is the fallback rank (lower is preferred).
	Priority int `yaml:"priority"`

	// CostPerChar is the cost per source character in USD.
	CostPerChar float64 `yaml:"cost_per_char"`

	// QualityScore is the static translation quality estimate in [0,1].
	QualityScore float64 `yaml:"quality_score"`

	// MaxConcurrent caps concurrent dispatches to this backend.
	MaxConcurrent int64 `yaml:"max_concurrent"`
}

// CacheConfig contains response cache configuration.
type CacheConfig struct {
	// Backend selects the cache implementation.
	// Options: "memory", "redis"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// TTL is the response cache entry lifetime.
	// Default: 1h
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries caps the in-memory cache size (memory backend only).
	// Default: 10000
	MaxEntries int `yaml:"max_entries"`

	// Redis contains Redis-specific configuration.
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	// Address is the Redis server address.
	// Default: "localhost:6379"
	Address string `yaml:"address"`

	// Password is the Redis AUTH password. Supports environment variable
	// expansion.
	Password string `yaml:"password"`

	// DB is the Redis database number.
	// Default: 0
	DB int `yaml:"db"`

	// DialTimeout bounds connection establishment.
	// Default: 5s
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// CredentialsConfig contains credential store configuration.
type CredentialsConfig struct {
	// Backend selects the credential store implementation.
	// Options: "memory" (seeded from provider config), "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite CredentialsSQLiteConfig `yaml:"sqlite"`
}

// CredentialsSQLiteConfig contains SQLite credential store configuration.
type CredentialsSQLiteConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/credentials.db"
	Path string `yaml:"path"`

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5m
	CheckpointInterval time.Duration `yaml:"checkpoint_interval"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// JournalConfig contains usage journal configuration. The journal records
// one row per completed translation and is off unless enabled.
type JournalConfig struct {
	// Enabled controls whether usage recording is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the journal storage backend.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite JournalSQLiteConfig `yaml:"sqlite"`

	// Recorder contains journal recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// JournalSQLiteConfig contains SQLite journal storage configuration.
type JournalSQLiteConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains journal recorder configuration.
type RecorderConfig struct {
	// Buffer is the async write channel size. Writes beyond a full buffer
	// are dropped and counted, never blocking the request path.
	// Default: 1000
	Buffer int `yaml:"buffer"`

	// WriteTimeout bounds one journal write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains journal retention configuration.
type RetentionConfig struct {
	// Days is the number of days to retain journal entries.
	// 0 keeps entries forever.
	// Default: 90
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactCredentials scrubs API keys, bearer tokens, and other
	// secret-shaped values from log fields.
	// Default: true
	RedactCredentials bool `yaml:"redact_credentials"`

	// RedactPatterns contains custom redaction patterns applied after the
	// built-in ones.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom log redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the Prometheus endpoint is exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "polyglot"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "hermes"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for request
	// duration in seconds.
	// Default: [0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
// Spans are exported over OTLP gRPC.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name reported in traces.
	// Default: "polyglot-hermes"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// ExportTimeout is the timeout for span export batches.
	// Default: 10s
	ExportTimeout time.Duration `yaml:"export_timeout"`
}
