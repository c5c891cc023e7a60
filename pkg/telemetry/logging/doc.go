// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Automatic redaction of provider credentials (API keys, bearer
//     tokens, DeepL auth keys)
//   - Context-aware logging with request IDs, tenant, and provider fields
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// Create a logger
//	logger, err := logging.New(logging.Config{
//	    Level:             "info",
//	    Format:            "json",
//	    RedactCredentials: true,
//	})
//
//	// Log structured data
//	logger.Info("request served",
//	    "request_id", "req-123",
//	    "api_key", "sk-abc123",  // Automatically redacted
//	    "duration_ms", 1234,
//	)
//
//	// Create context-aware logger
//	ctx := logging.WithRequestID(ctx, "req-123")
//	ctxLogger := logger.WithContext(ctx)
//	ctxLogger.Info("translating")  // Includes request_id automatically
//
// # Credential Redaction
//
// When RedactCredentials is enabled, values under sensitive keys
// (credential, api_key, token, authorization, ...) are replaced with a
// short prefix hint, and string values are run through patterns covering
// the auth schemes of the supported backends:
//
//   - Generic API keys: sk-abc123xyz → ***
//   - Bearer tokens: Bearer eyJhb... → Bearer ***
//   - DeepL auth headers: DeepL-Auth-Key 279a2e9d... → DeepL-Auth-Key ***
//   - key= query parameters: ?key=AIzaSy... → ?key=***
//
// Custom patterns can be added through configuration.
package logging
