package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"polyglot-hq/hermes/pkg/adapters"
	"polyglot-hq/hermes/pkg/cache"
	"polyglot-hq/hermes/pkg/cli"
	"polyglot-hq/hermes/pkg/config"
	"polyglot-hq/hermes/pkg/configstore"
	"polyglot-hq/hermes/pkg/journal"
	"polyglot-hq/hermes/pkg/journal/recorder"
	"polyglot-hq/hermes/pkg/journal/retention"
	"polyglot-hq/hermes/pkg/journal/storage"
	"polyglot-hq/hermes/pkg/routing"
	"polyglot-hq/hermes/pkg/routing/strategies"
	"polyglot-hq/hermes/pkg/server"
	"polyglot-hq/hermes/pkg/telemetry/health"
	"polyglot-hq/hermes/pkg/telemetry/logging"
	"polyglot-hq/hermes/pkg/telemetry/metrics"
	"polyglot-hq/hermes/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Hermes gateway server",
	Long: `Start the Hermes gateway server with the specified configuration.

The server listens on the configured address and routes translation requests
across the enabled provider backends, with caching, health monitoring, and
usage journaling.

Examples:
  # Start with default config
  hermes run

  # Start with custom config
  hermes run --config /etc/hermes/config.yaml

  # Override listen address
  hermes run --listen 0.0.0.0:8100

  # Validate config without starting the server
  hermes run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	appLogger, err := logging.New(logging.Config{
		Level:             cfg.Telemetry.Logging.Level,
		Format:            cfg.Telemetry.Logging.Format,
		AddSource:         cfg.Telemetry.Logging.AddSource,
		RedactCredentials: cfg.Telemetry.Logging.RedactCredentials,
		RedactPatterns:    cfg.Telemetry.Logging.RedactPatterns,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger := appLogger.Slog()
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Hermes v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx := context.Background()

	// Response cache
	cacheClient, err := buildCache(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer cacheClient.Close()

	// Credential store
	store, err := buildCredentialStore(ctx, cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer store.Close()

	// Provider registry and routing engine
	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	routerCfg := routerConfig(cfg)
	rankers := strategies.DefaultSet(routerCfg.BalancedWeights, routerCfg.CostCeilingPerChar)
	router, err := routing.NewRouter(registry, store, cacheClient, rankers, routerCfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	if err := router.Initialize(ctx, cfg.Tenant); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("router initialization failed: %w", err))
	}
	defer router.Shutdown()

	fmt.Printf("✓ Providers armed (%d of %d healthy)\n",
		len(registry.Healthy()), len(registry.IDs()))

	// Usage journal
	var journalRecorder *recorder.Recorder
	if cfg.Journal.Enabled {
		journalStorage, err := buildJournalStorage(cfg)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer journalStorage.Close()

		journalRecorder = recorder.NewRecorder(journalStorage, &recorder.Config{
			Enabled:      true,
			Buffer:       cfg.Journal.Recorder.Buffer,
			WriteTimeout: cfg.Journal.Recorder.WriteTimeout,
		})
		defer journalRecorder.Close()

		if cfg.Journal.Retention.PruneSchedule != "" {
			pruner := retention.NewPruner(journalStorage, &retention.Config{
				RetentionDays: cfg.Journal.Retention.Days,
				PruneSchedule: cfg.Journal.Retention.PruneSchedule,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start journal retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					slog.Debug("journal retention scheduler started", "next_pruning", next)
				}
			}
		}

		fmt.Println("✓ Usage journal initialized")
	}

	// Telemetry
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("tracer initialization failed: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	checker := health.New(cfg.Router.HealthCheckTimeout)
	checker.RegisterCheck("providers", health.ProviderCheck(func() int {
		return len(registry.Healthy())
	}))

	// HTTP server
	srv := server.New(cfg, router, server.Options{
		Health:    checker,
		Metrics:   collector,
		Tracer:    tracer,
		Recorder:  journalRecorder,
		Logger:    logger,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Config hot reload: safe fields are re-applied in place; anything
	// else (provider set, listen address, backends) needs a restart.
	// Explicit level flags stay in force across reloads.
	watcher, err := config.NewWatcher(cfgFile, logger)
	if err != nil {
		slog.Warn("config watcher unavailable, hot reload disabled", "error", err)
	} else {
		levelPinned := runFlags.logLevel != "" || verbose
		go func() {
			err := watcher.Watch(serverCtx, func(newCfg *config.Config) {
				applyReload(newCfg, appLogger, registry, levelPinned)
			})
			if err != nil {
				slog.Warn("config watcher stopped", "error", err)
			}
		}()
		defer func() { _ = watcher.Stop() }()
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(serverCtx); err != nil {
			errChan <- err
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Gateway listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}
		cancel()

		if journalRecorder != nil {
			if dropped := journalRecorder.Dropped(); dropped > 0 {
				slog.Warn("journal entries dropped under load", "count", dropped)
			}
		}

		fmt.Println("✓ Gateway stopped")
		return nil
	}
}

// applyReload pushes the safe-to-reload fields from a freshly loaded
// configuration into the running gateway: the log level and per-provider
// routing parameter overrides. levelPinned keeps a flag-set level in
// force. Providers absent from the new config keep their current params.
func applyReload(cfg *config.Config, appLogger *logging.Logger, registry *routing.Registry, levelPinned bool) {
	if !levelPinned {
		if err := appLogger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
			slog.Warn("reload: keeping current log level", "error", err)
		}
	}

	for _, id := range registry.IDs() {
		pc, ok := cfg.Providers[id]
		if !ok {
			continue
		}
		base, ok := routing.DefaultParams(id)
		if !ok {
			continue
		}
		params := routing.MergeParams(base, routing.Params{
			Priority:     pc.Priority,
			CostPerChar:  pc.CostPerChar,
			QualityScore: pc.QualityScore,
			MaxLoad:      pc.MaxConcurrent,
		})
		if err := registry.UpdateParams(id, params); err != nil {
			slog.Warn("reload: provider params not applied", "provider", id, "error", err)
		}
	}
}

// buildCache constructs the response cache backend.
func buildCache(cfg *config.Config) (cache.Client, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return cache.NewMemory(cfg.Cache.MaxEntries), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:        cfg.Cache.Redis.Address,
			Password:    cfg.Cache.Redis.Password,
			DB:          cfg.Cache.Redis.DB,
			DialTimeout: cfg.Cache.Redis.DialTimeout,
		})
		return cache.NewRedis(rdb), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Cache.Backend)
	}
}

// buildCredentialStore constructs the credential store. The memory backend
// is seeded from the provider config blocks so single-tenant deployments
// need no separate credential step.
func buildCredentialStore(ctx context.Context, cfg *config.Config) (configstore.Store, error) {
	switch cfg.Credentials.Backend {
	case "", "memory":
		store := configstore.NewMemory()
		for _, id := range enabledProviderIDs(cfg) {
			row := configstore.CredentialRow{
				TenantID:   cfg.Tenant,
				ProviderID: id,
				Credential: cfg.Providers[id].Credential,
				Active:     true,
			}
			if err := store.UpsertCredential(ctx, row); err != nil {
				return nil, fmt.Errorf("seeding credential for %q: %w", id, err)
			}
		}
		return store, nil
	case "sqlite":
		return configstore.NewSQLiteWithConfig(configstore.SQLiteConfig{
			Path:               cfg.Credentials.SQLite.Path,
			CheckpointInterval: cfg.Credentials.SQLite.CheckpointInterval,
			BusyTimeout:        cfg.Credentials.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported credentials backend: %s", cfg.Credentials.Backend)
	}
}

// buildRegistry constructs the provider registry from the config blocks.
func buildRegistry(cfg *config.Config, logger *slog.Logger) (*routing.Registry, error) {
	ids := enabledProviderIDs(cfg)

	adapterConfigs := make(map[string]adapters.Config, len(ids))
	overrides := make(map[string]routing.Params, len(ids))
	for _, id := range ids {
		pc := cfg.Providers[id]
		adapterConfigs[id] = adapters.Config{
			ID:                   id,
			BaseURL:              pc.BaseURL,
			Timeout:              pc.Timeout,
			MaxRetries:           pc.MaxRetries,
			RateLimitRPS:         pc.RateLimitRPS,
			AllowEmptyCredential: id == "libre",
		}
		overrides[id] = routing.Params{
			Priority:     pc.Priority,
			CostPerChar:  pc.CostPerChar,
			QualityScore: pc.QualityScore,
			MaxLoad:      pc.MaxConcurrent,
		}
	}

	return routing.NewDefaultRegistry(ids, adapterConfigs, overrides,
		cfg.Router.UnhealthyErrorThreshold, logger)
}

// enabledProviderIDs returns the backend ids to arm, in priority order. An
// empty providers map enables every built-in backend.
func enabledProviderIDs(cfg *config.Config) []string {
	all := routing.DefaultProviderIDs()
	if len(cfg.Providers) == 0 {
		return all
	}

	ids := make([]string, 0, len(cfg.Providers))
	for _, id := range all {
		pc, ok := cfg.Providers[id]
		if ok && !pc.Disabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// routerConfig maps the file configuration onto the routing engine config.
func routerConfig(cfg *config.Config) routing.Config {
	return routing.Config{
		HealthCheckInterval:     cfg.Router.HealthCheckInterval,
		HealthCheckTimeout:      cfg.Router.HealthCheckTimeout,
		AdapterCallTimeout:      cfg.Router.AdapterCallTimeout,
		CacheTTL:                cfg.Cache.TTL,
		UnhealthyErrorThreshold: cfg.Router.UnhealthyErrorThreshold,
		CostCeilingPerChar:      cfg.Router.CostCeilingPerChar,
		BalancedWeights: routing.Weights{
			Quality: cfg.Router.BalancedWeights.Quality,
			Speed:   cfg.Router.BalancedWeights.Speed,
			Cost:    cfg.Router.BalancedWeights.Cost,
		},
		BatchConcurrency: cfg.Router.BatchConcurrency,
	}
}

// buildJournalStorage constructs the journal storage backend.
func buildJournalStorage(cfg *config.Config) (journal.Storage, error) {
	switch cfg.Journal.Backend {
	case "", "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Journal.SQLite.Path,
			MaxOpenConns: cfg.Journal.SQLite.MaxOpenConns,
			BusyTimeout:  cfg.Journal.SQLite.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported journal backend: %s", cfg.Journal.Backend)
	}
}
