// Package server provides the HTTP surface of the Hermes translation
// gateway.
//
// This package ties the routing engine to the network: it mounts the
// translation API and the operational endpoints on a chi router, chains
// middleware for cross-cutting concerns, and manages server lifecycle
// including TLS termination and graceful shutdown.
//
// # Basic Usage
//
// Creating and starting a server:
//
//	import (
//	    "context"
//	    "polyglot-hq/hermes/pkg/config"
//	    "polyglot-hq/hermes/pkg/server"
//	)
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// router is a *routing.Router built from the same config
//	srv := server.New(cfg, router, server.Options{})
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
// The server exposes the following HTTP endpoints:
//
//   - POST /v1/translate - translate one text
//   - POST /v1/translate/batch - translate several texts concurrently
//   - POST /v1/detect - detect the language of a text
//   - GET /v1/providers - per-provider state and usage metrics
//   - GET /v1/stats - router-level counters
//   - GET /health - liveness probe (always returns 200)
//   - GET /ready - readiness probe (runs registered checks)
//   - GET /version - build information
//   - GET /metrics - Prometheus scrape endpoint (when enabled)
//
// # Middleware Chain
//
// Requests pass through the following middleware (outermost to innermost):
//  1. Recovery: recovers from panics and returns a 500 error
//  2. RequestID: accepts or generates an X-Request-ID for correlation
//  3. Logging: logs request/response details with structured fields
//  4. Tracing: extracts W3C trace context (when tracing is enabled)
//  5. CORS: adds Cross-Origin Resource Sharing headers (when enabled)
//  6. Body limit: caps request body size
//  7. Timeout: bounds one request through the handler chain
//
// # Graceful Shutdown
//
// Shutdown stops accepting new connections, waits for active requests up
// to the configured shutdown timeout, then forces connection closure. The
// routing engine is not shut down by the server; the caller owns it.
//
// # TLS Support
//
// When enabled the server terminates TLS 1.3 only:
//
//	server:
//	  tls:
//	    enabled: true
//	    cert_file: "/path/to/cert.pem"
//	    key_file: "/path/to/key.pem"
//
// # Thread Safety
//
// All server operations are safe for concurrent use.
package server
