package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8100"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 120 * time.Second
	DefaultMaxBodyBytes    = int64(1048576) // 1MB

	// CORS defaults
	DefaultCORSMaxAge = 3600 // 1 hour

	// Tenant default
	DefaultTenant = "default"

	// Router defaults
	DefaultStrategy                = "balanced"
	DefaultHealthCheckInterval     = 60 * time.Second
	DefaultHealthCheckTimeout      = 10 * time.Second
	DefaultAdapterCallTimeout      = 30 * time.Second
	DefaultUnhealthyErrorThreshold = 5
	DefaultCostCeilingPerChar      = 5e-5
	DefaultBatchConcurrency        = 4
	DefaultWeightQuality           = 0.4
	DefaultWeightSpeed             = 0.3
	DefaultWeightCost              = 0.3

	// Provider defaults
	DefaultProviderTimeout    = 60 * time.Second
	DefaultProviderMaxRetries = 3

	// Cache defaults
	DefaultCacheBackend     = "memory"
	DefaultCacheTTL         = time.Hour
	DefaultCacheMaxEntries  = 10000
	DefaultRedisAddress     = "localhost:6379"
	DefaultRedisDialTimeout = 5 * time.Second

	// Credential store defaults
	DefaultCredentialsBackend            = "memory"
	DefaultCredentialsSQLitePath         = "data/credentials.db"
	DefaultCredentialsCheckpointInterval = 5 * time.Minute
	DefaultCredentialsBusyTimeout        = 5 * time.Second

	// Journal defaults
	DefaultJournalBackend      = "sqlite"
	DefaultJournalSQLitePath   = "data/journal.db"
	DefaultJournalMaxOpenConns = 10
	DefaultJournalBusyTimeout  = 5 * time.Second
	DefaultJournalBuffer       = 1000
	DefaultJournalWriteTimeout = 5 * time.Second
	DefaultRetentionDays       = 90
	DefaultRetentionSchedule   = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "polyglot"
	DefaultMetricsSubsystem = "hermes"

	// Tracing defaults (Enabled stays false unless set)
	DefaultTracingSampler       = "ratio"
	DefaultTracingSampleRatio   = 0.1
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingServiceName   = "polyglot-hermes"
	DefaultTracingExportTimeout = 10 * time.Second
)

// DefaultRequestDurationBuckets returns the default histogram buckets for
// request duration (seconds).
func DefaultRequestDurationBuckets() []float64 {
	return []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(&cfg.Server.CORS)

	if cfg.Tenant == "" {
		cfg.Tenant = DefaultTenant
	}

	// Router defaults
	if cfg.Router.DefaultStrategy == "" {
		cfg.Router.DefaultStrategy = DefaultStrategy
	}
	if cfg.Router.HealthCheckInterval == 0 {
		cfg.Router.HealthCheckInterval = DefaultHealthCheckInterval
	}
	if cfg.Router.HealthCheckTimeout == 0 {
		cfg.Router.HealthCheckTimeout = DefaultHealthCheckTimeout
	}
	if cfg.Router.AdapterCallTimeout == 0 {
		cfg.Router.AdapterCallTimeout = DefaultAdapterCallTimeout
	}
	if cfg.Router.UnhealthyErrorThreshold == 0 {
		cfg.Router.UnhealthyErrorThreshold = DefaultUnhealthyErrorThreshold
	}
	if cfg.Router.CostCeilingPerChar == 0 {
		cfg.Router.CostCeilingPerChar = DefaultCostCeilingPerChar
	}
	if cfg.Router.BatchConcurrency == 0 {
		cfg.Router.BatchConcurrency = DefaultBatchConcurrency
	}
	if cfg.Router.BalancedWeights == (WeightsConfig{}) {
		cfg.Router.BalancedWeights = WeightsConfig{
			Quality: DefaultWeightQuality,
			Speed:   DefaultWeightSpeed,
			Cost:    DefaultWeightCost,
		}
	}

	// Provider defaults - applied to each configured provider
	for name, provider := range cfg.Providers {
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		if provider.MaxRetries == 0 {
			provider.MaxRetries = DefaultProviderMaxRetries
		}
		cfg.Providers[name] = provider
	}

	// Cache defaults
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Cache.Redis.Address == "" {
		cfg.Cache.Redis.Address = DefaultRedisAddress
	}
	if cfg.Cache.Redis.DialTimeout == 0 {
		cfg.Cache.Redis.DialTimeout = DefaultRedisDialTimeout
	}

	// Credential store defaults
	if cfg.Credentials.Backend == "" {
		cfg.Credentials.Backend = DefaultCredentialsBackend
	}
	if cfg.Credentials.SQLite.Path == "" {
		cfg.Credentials.SQLite.Path = DefaultCredentialsSQLitePath
	}
	if cfg.Credentials.SQLite.CheckpointInterval == 0 {
		cfg.Credentials.SQLite.CheckpointInterval = DefaultCredentialsCheckpointInterval
	}
	if cfg.Credentials.SQLite.BusyTimeout == 0 {
		cfg.Credentials.SQLite.BusyTimeout = DefaultCredentialsBusyTimeout
	}

	// Journal defaults (Enabled stays false unless set)
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.SQLite.Path == "" {
		cfg.Journal.SQLite.Path = DefaultJournalSQLitePath
	}
	if cfg.Journal.SQLite.MaxOpenConns == 0 {
		cfg.Journal.SQLite.MaxOpenConns = DefaultJournalMaxOpenConns
	}
	if cfg.Journal.SQLite.BusyTimeout == 0 {
		cfg.Journal.SQLite.BusyTimeout = DefaultJournalBusyTimeout
	}
	if cfg.Journal.Recorder.Buffer == 0 {
		cfg.Journal.Recorder.Buffer = DefaultJournalBuffer
	}
	if cfg.Journal.Recorder.WriteTimeout == 0 {
		cfg.Journal.Recorder.WriteTimeout = DefaultJournalWriteTimeout
	}
	if cfg.Journal.Retention.Days == 0 {
		cfg.Journal.Retention.Days = DefaultRetentionDays
	}
	if cfg.Journal.Retention.PruneSchedule == "" {
		cfg.Journal.Retention.PruneSchedule = DefaultRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	// Credential redaction defaults to on. An explicit false cannot be
	// distinguished from unset here; disabling redaction requires the
	// HERMES_LOGGING_REDACT=false override.
	if !cfg.Telemetry.Logging.RedactCredentials {
		cfg.Telemetry.Logging.RedactCredentials = true
	}
	if !cfg.Telemetry.Metrics.Enabled {
		// Metrics default to on, same caveat as redaction.
		cfg.Telemetry.Metrics.Enabled = true
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = DefaultRequestDurationBuckets()
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.ExportTimeout == 0 {
		cfg.Telemetry.Tracing.ExportTimeout = DefaultTracingExportTimeout
	}
}

// applyCORSDefaults fills CORS list fields. Enabled stays false unless set.
func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
