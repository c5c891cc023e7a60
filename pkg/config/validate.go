package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// knownStrategies are the accepted router scoring modes.
var knownStrategies = map[string]bool{
	"cost":     true,
	"quality":  true,
	"speed":    true,
	"balanced": true,
}

// knownProviders are the built-in backend ids.
var knownProviders = map[string]bool{
	"deepl":  true,
	"claude": true,
	"openai": true,
	"google": true,
	"libre":  true,
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All errors are collected and returned
// together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateRouter(&cfg.Router)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateCredentials(&cfg.Credentials)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.request_timeout",
			Message: "request timeout must be positive",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}
	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{
				Field:   "server.tls.cert_file",
				Message: "cert file is required when TLS is enabled",
			})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{
				Field:   "server.tls.key_file",
				Message: "key file is required when TLS is enabled",
			})
		}
	}

	return errs
}

// validateRouter validates routing engine configuration.
func validateRouter(cfg *RouterConfig) []FieldError {
	var errs []FieldError

	if !knownStrategies[cfg.DefaultStrategy] {
		errs = append(errs, FieldError{
			Field:   "router.default_strategy",
			Message: fmt.Sprintf("unknown strategy %q (expected cost, quality, speed, or balanced)", cfg.DefaultStrategy),
		})
	}
	if cfg.HealthCheckInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "router.health_check_interval",
			Message: "health check interval must be positive",
		})
	}
	if cfg.HealthCheckTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "router.health_check_timeout",
			Message: "health check timeout must be positive",
		})
	}
	if cfg.UnhealthyErrorThreshold < 0 {
		errs = append(errs, FieldError{
			Field:   "router.unhealthy_error_threshold",
			Message: "unhealthy error threshold must be non-negative",
		})
	}
	if cfg.CostCeilingPerChar < 0 {
		errs = append(errs, FieldError{
			Field:   "router.cost_ceiling_per_char",
			Message: "cost ceiling must be non-negative",
		})
	}

	w := cfg.BalancedWeights
	if w.Quality < 0 || w.Speed < 0 || w.Cost < 0 {
		errs = append(errs, FieldError{
			Field:   "router.balanced_weights",
			Message: "weights must be non-negative",
		})
	} else if math.Abs(w.Quality+w.Speed+w.Cost-1) > 1e-9 {
		errs = append(errs, FieldError{
			Field:   "router.balanced_weights",
			Message: fmt.Sprintf("weights must sum to 1, got %g", w.Quality+w.Speed+w.Cost),
		})
	}

	return errs
}

// validateProviders validates per-backend overrides.
func validateProviders(providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	for name, provider := range providers {
		prefix := fmt.Sprintf("providers.%s", name)

		if !knownProviders[name] {
			errs = append(errs, FieldError{
				Field:   prefix,
				Message: fmt.Sprintf("unknown backend %q (expected deepl, claude, openai, google, or libre)", name),
			})
			continue
		}
		if provider.BaseURL != "" {
			if _, err := url.ParseRequestURI(provider.BaseURL); err != nil {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid base URL: %v", err),
				})
			}
		}
		if provider.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be positive",
			})
		}
		if provider.CostPerChar < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".cost_per_char",
				Message: "cost per char must be non-negative",
			})
		}
		if provider.QualityScore < 0 || provider.QualityScore > 1 {
			errs = append(errs, FieldError{
				Field:   prefix + ".quality_score",
				Message: "quality score must be in [0,1]",
			})
		}
		if provider.MaxConcurrent < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_concurrent",
				Message: "max concurrent must be non-negative",
			})
		}
		if provider.RateLimitRPS < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".rate_limit_rps",
				Message: "rate limit must be non-negative",
			})
		}
	}

	return errs
}

// validateCache validates response cache configuration.
func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, FieldError{
			Field:   "cache.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory or redis)", cfg.Backend),
		})
	}
	if cfg.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "ttl must be positive",
		})
	}
	if cfg.Backend == "redis" && cfg.Redis.Address == "" {
		errs = append(errs, FieldError{
			Field:   "cache.redis.address",
			Message: "redis address is required for the redis backend",
		})
	}

	return errs
}

// validateCredentials validates credential store configuration.
func validateCredentials(cfg *CredentialsConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "credentials.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory or sqlite)", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "credentials.sqlite.path",
			Message: "sqlite path is required for the sqlite backend",
		})
	}

	return errs
}

// validateJournal validates usage journal configuration.
func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return nil
	}

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "journal.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory or sqlite)", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "journal.sqlite.path",
			Message: "sqlite path is required for the sqlite backend",
		})
	}
	if cfg.Recorder.Buffer < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.recorder.buffer",
			Message: "buffer must be non-negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.Days > 0 && len(strings.Fields(cfg.Retention.PruneSchedule)) != 5 {
		errs = append(errs, FieldError{
			Field:   "journal.retention.prune_schedule",
			Message: fmt.Sprintf("invalid cron expression %q (expected 5 fields)", cfg.Retention.PruneSchedule),
		})
	}

	return errs
}

// validateTelemetry validates logging, metrics, and tracing configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (expected json or text)", cfg.Logging.Format),
		})
	}
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" || !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: fmt.Sprintf("metrics path %q must start with /", cfg.Metrics.Path),
			})
		}
		for i, b := range cfg.Metrics.RequestDurationBuckets {
			if i > 0 && b <= cfg.Metrics.RequestDurationBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.request_duration_buckets",
					Message: "buckets must be strictly increasing",
				})
				break
			}
		}
	}
	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("unknown sampler %q (expected always, never, or ratio)", cfg.Tracing.Sampler),
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("sample ratio %v must be between 0.0 and 1.0", cfg.Tracing.SampleRatio),
			})
		}
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
	}

	return errs
}
