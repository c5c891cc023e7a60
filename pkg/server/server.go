package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"

	"polyglot-hq/hermes/pkg/config"
	"polyglot-hq/hermes/pkg/journal/recorder"
	"polyglot-hq/hermes/pkg/routing"
	"polyglot-hq/hermes/pkg/telemetry/health"
	"polyglot-hq/hermes/pkg/telemetry/metrics"
	"polyglot-hq/hermes/pkg/telemetry/tracing"
)

// Options carries the optional collaborators of a Server. Any field may be
// nil; the corresponding endpoint or side channel is simply not mounted.
type Options struct {
	// Health serves the /ready endpoint. When nil, /ready reports ready
	// unconditionally.
	Health *health.Checker

	// Metrics serves the Prometheus scrape endpoint and receives
	// per-request observations.
	Metrics *metrics.Collector

	// Tracer opens spans around translate and detect calls and mounts the
	// trace-context propagation middleware.
	Tracer *tracing.Tracer

	// Recorder receives one journal entry per completed translation.
	Recorder *recorder.Recorder

	// Logger receives request logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Version, Commit, and BuildTime feed the /version endpoint.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the HTTP front of the translation gateway.
type Server struct {
	config     *config.Config
	router     *routing.Router
	opts       Options
	logger     *slog.Logger
	httpServer *http.Server

	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server over the given routing engine. The router must be
// initialized before Start; the server never initializes or shuts it down.
func New(cfg *config.Config, router *routing.Router, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: cfg,
		router: router,
		opts:   opts,
		logger: logger.With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// Shutdown is called, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	if s.config.Server.TLS.Enabled {
		tlsConfig, err := s.configureTLS()
		if err != nil {
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting gateway server",
			"address", s.config.Server.ListenAddress,
			"tls_enabled", s.config.Server.TLS.Enabled,
		)

		var err error
		if s.config.Server.TLS.Enabled {
			err = s.httpServer.ListenAndServeTLS(
				s.config.Server.TLS.CertFile,
				s.config.Server.TLS.KeyFile,
			)
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests up to the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("gateway server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler builds the configured HTTP handler: the full route table behind
// the middleware chain. It is exposed for tests and embedding.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(recoveryMiddleware(s.logger))
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	if s.opts.Tracer != nil && s.opts.Tracer.Enabled() {
		r.Use(tracing.HTTPMiddleware)
	}
	if s.config.Server.CORS.Enabled {
		r.Use(corsMiddleware(&s.config.Server.CORS))
	}
	r.Use(maxBodyMiddleware(s.config.Server.MaxBodyBytes))
	r.Use(timeoutMiddleware(s.config.Server.RequestTimeout))

	h := newAPIHandler(s.config, s.router, s.opts)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/translate", h.translate)
		r.Post("/translate/batch", h.translateBatch)
		r.Post("/detect", h.detect)
		r.Get("/providers", h.providers)
		r.Get("/stats", h.stats)
	})

	if s.opts.Health != nil {
		r.Get("/health", s.opts.Health.LivenessHandler())
		r.Get("/ready", s.opts.Health.ReadinessHandler())
	} else {
		r.Get("/health", alwaysOK)
		r.Get("/ready", alwaysOK)
	}
	r.Get("/version", health.VersionHandler(s.opts.Version, s.opts.Commit, s.opts.BuildTime))

	if s.opts.Metrics != nil && s.config.Telemetry.Metrics.Enabled {
		r.Method(http.MethodGet, s.config.Telemetry.Metrics.Path, s.opts.Metrics.Handler())
	}

	return r
}

// alwaysOK is the degenerate probe used when no health checker is wired.
func alwaysOK(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// configureTLS builds the TLS 1.3-only listener configuration.
func (s *Server) configureTLS() (*tls.Config, error) {
	tlsCfg := s.config.Server.TLS
	if tlsCfg.CertFile == "" {
		return nil, fmt.Errorf("TLS cert file not specified")
	}
	if tlsCfg.KeyFile == "" {
		return nil, fmt.Errorf("TLS key file not specified")
	}
	if _, err := os.Stat(tlsCfg.CertFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("TLS cert file not found: %s", tlsCfg.CertFile)
	}
	if _, err := os.Stat(tlsCfg.KeyFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("TLS key file not found: %s", tlsCfg.KeyFile)
	}

	return &tls.Config{
		MinVersion: tls.VersionTLS13,
		CipherSuites: []uint16{
			tls.TLS_AES_128_GCM_SHA256,
			tls.TLS_AES_256_GCM_SHA384,
			tls.TLS_CHACHA20_POLY1305_SHA256,
		},
	}, nil
}
