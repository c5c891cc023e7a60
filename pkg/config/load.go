package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path.
// It applies default values, expands ${VAR} references in credential
// fields, and validates the result. Environment variable overrides are
// not applied; use LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses YAML configuration bytes. name appears in error messages.
func Parse(data []byte, name string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration %q: %w", name, err)
	}

	ApplyDefaults(&cfg)
	expandSecrets(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// HERMES_SECTION_FIELD (e.g., HERMES_SERVER_LISTEN_ADDRESS) and always
// take precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file (applies defaults and secret expansion)
//  2. Apply environment variable overrides
//  3. Validate the final configuration
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// expandSecrets expands ${VAR} references in secret-bearing fields.
// Only credential fields are expanded; paths and addresses are literal.
func expandSecrets(cfg *Config) {
	for name, provider := range cfg.Providers {
		if strings.Contains(provider.Credential, "$") {
			provider.Credential = os.ExpandEnv(provider.Credential)
			cfg.Providers[name] = provider
		}
	}
	if strings.Contains(cfg.Cache.Redis.Password, "$") {
		cfg.Cache.Redis.Password = os.ExpandEnv(cfg.Cache.Redis.Password)
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format HERMES_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("HERMES_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("HERMES_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("HERMES_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("HERMES_SERVER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}

	if val := os.Getenv("HERMES_TENANT"); val != "" {
		cfg.Tenant = val
	}

	// Router overrides
	if val := os.Getenv("HERMES_ROUTER_DEFAULT_STRATEGY"); val != "" {
		cfg.Router.DefaultStrategy = val
	}
	if val := os.Getenv("HERMES_ROUTER_HEALTH_CHECK_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Router.HealthCheckInterval = d
		}
	}
	if val := os.Getenv("HERMES_ROUTER_UNHEALTHY_ERROR_THRESHOLD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Router.UnhealthyErrorThreshold = i
		}
	}

	// Provider overrides for the built-in backends
	for _, id := range []string{"deepl", "claude", "openai", "google", "libre"} {
		applyProviderEnvOverrides(cfg, id)
	}

	// Cache overrides
	if val := os.Getenv("HERMES_CACHE_BACKEND"); val != "" {
		cfg.Cache.Backend = val
	}
	if val := os.Getenv("HERMES_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if val := os.Getenv("HERMES_CACHE_REDIS_ADDRESS"); val != "" {
		cfg.Cache.Redis.Address = val
	}
	if val := os.Getenv("HERMES_CACHE_REDIS_PASSWORD"); val != "" {
		cfg.Cache.Redis.Password = val
	}
	if val := os.Getenv("HERMES_CACHE_REDIS_DB"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.Redis.DB = i
		}
	}

	// Credential store overrides
	if val := os.Getenv("HERMES_CREDENTIALS_BACKEND"); val != "" {
		cfg.Credentials.Backend = val
	}
	if val := os.Getenv("HERMES_CREDENTIALS_SQLITE_PATH"); val != "" {
		cfg.Credentials.SQLite.Path = val
	}

	// Journal overrides
	if val := os.Getenv("HERMES_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_JOURNAL_BACKEND"); val != "" {
		cfg.Journal.Backend = val
	}
	if val := os.Getenv("HERMES_JOURNAL_SQLITE_PATH"); val != "" {
		cfg.Journal.SQLite.Path = val
	}
	if val := os.Getenv("HERMES_JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.Retention.Days = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("HERMES_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HERMES_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HERMES_LOGGING_REDACT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.RedactCredentials = b
		}
	}
	if val := os.Getenv("HERMES_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("HERMES_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

// applyProviderEnvOverrides applies environment variable overrides for a
// specific provider. Variables follow the format HERMES_PROVIDERS_<ID>_<FIELD>
// where ID is the uppercase provider id.
func applyProviderEnvOverrides(cfg *Config, id string) {
	prefix := fmt.Sprintf("HERMES_PROVIDERS_%s_", strings.ToUpper(id))

	provider, exists := cfg.Providers[id]
	modified := false

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
		modified = true
	}
	if val := os.Getenv(prefix + "CREDENTIAL"); val != "" {
		provider.Credential = val
		modified = true
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			provider.MaxRetries = i
			modified = true
		}
	}
	if val := os.Getenv(prefix + "DISABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			provider.Disabled = b
			modified = true
		}
	}

	if modified || exists {
		if cfg.Providers == nil {
			cfg.Providers = make(map[string]ProviderConfig)
		}
		if !exists {
			// A provider introduced by environment variables still gets
			// the standard defaults.
			if provider.Timeout == 0 {
				provider.Timeout = DefaultProviderTimeout
			}
			if provider.MaxRetries == 0 {
				provider.MaxRetries = DefaultProviderMaxRetries
			}
		}
		cfg.Providers[id] = provider
	}
}
