// Package config provides configuration management for the Hermes gateway.
//
// This package handles loading, validating, and watching configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.Load("hermes.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadWithEnvOverrides("hermes.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention HERMES_SECTION_FIELD.
// For example:
//
//   - HERMES_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - HERMES_PROVIDERS_DEEPL_CREDENTIAL overrides providers.deepl.credential
//   - HERMES_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// A Watcher reloads the file on change and hands validated configurations
// to a callback; a change that fails validation keeps the previous
// configuration:
//
//	w, err := config.NewWatcher("hermes.yaml", logger)
//	go w.Watch(ctx, func(cfg *config.Config) { /* apply */ })
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8100"
//
//	tenant: "acme"
//
//	providers:
//	  deepl:
//	    credential: "${DEEPL_API_KEY}"
//	  libre:
//	    base_url: "http://localhost:5000"
//
//	cache:
//	  backend: "memory"
//	  ttl: 1h
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
