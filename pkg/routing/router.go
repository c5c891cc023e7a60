package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"polyglot-hq/hermes/pkg/adapters"
	"polyglot-hq/hermes/pkg/cache"
	"polyglot-hq/hermes/pkg/configstore"
)

// Ranker orders scored candidates for dispatch. Implementations live in
// the strategies subpackage; the interface is declared here to avoid an
// import cycle.
type Ranker interface {
	// Rank returns the candidates in dispatch order without mutating the
	// input slice. Implementations must be safe for concurrent use.
	Rank(candidates []Candidate) []Candidate

	// Name returns the mode name for logging and statistics.
	Name() string
}

// Router dispatches translation requests across the provider fleet:
// response cache first, then scored selection, then priority-ordered
// fallback through the remaining candidates.
type Router struct {
	registry   *Registry
	selector   *Selector
	rankers    map[StrategyMode]Ranker
	cache      cache.Client
	aggregator *Aggregator
	monitor    *HealthMonitor
	store      configstore.Store
	config     Config
	stats      *AtomicRouterStats
	logger     *slog.Logger

	// initialized gates every dispatch; Shutdown clears it.
	initialized atomic.Bool
}

// NewRouter assembles a router over the given registry. The ranker map
// must cover at least the balanced mode; strategies.DefaultSet builds the
// standard four.
func NewRouter(registry *Registry, store configstore.Store, cacheClient cache.Client, rankers map[StrategyMode]Ranker, cfg Config, logger *slog.Logger) (*Router, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("config store cannot be nil")
	}
	if cacheClient == nil {
		return nil, fmt.Errorf("cache client cannot be nil")
	}
	if _, ok := rankers[ModeBalanced]; !ok {
		return nil, fmt.Errorf("rankers must include the balanced mode")
	}

	cfg.applyDefaults()
	if err := cfg.BalancedWeights.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	aggregator := NewAggregator(cacheClient, cfg.CacheTTL, logger)
	return &Router{
		registry:   registry,
		selector:   NewSelector(registry, aggregator),
		rankers:    rankers,
		cache:      cacheClient,
		aggregator: aggregator,
		monitor:    NewHealthMonitor(registry, cfg.HealthCheckInterval, cfg.HealthCheckTimeout, logger),
		store:      store,
		config:     cfg,
		stats:      NewAtomicRouterStats(),
		logger:     logger.With("component", "router"),
	}, nil
}

// Initialize loads the tenant's credentials from the config store, arms
// each active provider, and starts the health monitor. A provider whose
// Initialize fails is logged and left unarmed; store errors abort.
func (r *Router) Initialize(ctx context.Context, tenantID string) error {
	rows, err := r.store.ListCredentials(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("loading credentials for tenant %q: %w", tenantID, err)
	}

	armed := 0
	for _, row := range rows {
		if !row.Active {
			continue
		}
		if err := r.registry.InitializeProvider(row.ProviderID, row.Credential); err != nil {
			r.logger.Warn("provider initialization failed",
				"provider", row.ProviderID,
				"error", err,
			)
			continue
		}
		armed++
		r.logger.Info("provider initialized", "provider", row.ProviderID)
	}

	r.logger.Info("router initialized",
		"tenant", tenantID,
		"providers_armed", armed,
		"providers_total", len(r.registry.IDs()),
	)
	r.monitor.Start()
	r.initialized.Store(true)
	return nil
}

// Translate serves one translation request.
func (r *Router) Translate(ctx context.Context, req *adapters.Request, strategy *Strategy) (*adapters.Response, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	r.stats.IncrementTotal()

	strat := Strategy{}
	if strategy != nil {
		strat = *strategy
	}
	if strat.Mode == "" {
		strat.Mode = ModeBalanced
	}
	ranker, ok := r.rankers[strat.Mode]
	if !ok {
		return nil, &InvalidStrategyError{Mode: string(strat.Mode), Available: r.rankerModes()}
	}

	key := ResponseCacheKey(req.SourceLang, req.TargetLang, req.PreferredProvider, req.Text)
	if resp := r.cacheProbe(ctx, key); resp != nil {
		r.stats.IncrementCacheHit()
		r.logger.Debug("response cache hit", "key", key)
		return resp, nil
	}
	r.stats.IncrementCacheMiss()

	candidates := r.selector.Candidates(ctx, req, strat)
	if len(candidates) == 0 {
		r.stats.IncrementFailure()
		return nil, &NoProviderAvailableError{SourceLang: req.SourceLang, TargetLang: req.TargetLang}
	}

	order := ranker.Rank(candidates)
	order = promoteHint(order, req.PreferredProvider)
	r.stats.IncrementStrategy(ranker.Name())

	return r.dispatch(ctx, req, order, key)
}

// dispatch walks the ordered candidates until one succeeds. After the
// first failure the remaining candidates are re-ordered by ascending
// priority; scoring is never re-entered.
func (r *Router) dispatch(ctx context.Context, req *adapters.Request, order []Candidate, cacheKey string) (*adapters.Response, error) {
	var (
		attempted []string
		lastErr   error
	)

	for i := 0; i < len(order); i++ {
		if i == 1 {
			sortByPriority(order[1:])
			r.stats.IncrementFallback()
		}
		p, ok := r.registry.Get(order[i].ID)
		if !ok {
			continue
		}
		if !p.beginDispatch() {
			// Filled up between selection and dispatch.
			r.logger.Debug("provider saturated, skipping", "provider", p.ID)
			continue
		}

		resp, err := r.callAdapter(ctx, p, req)
		if err == nil {
			r.registry.RecordSuccess(p.ID)
			r.aggregator.RecordSuccess(ctx, p.ID, resp.ProcessingTimeMS, resp.Cost)
			r.cacheStore(ctx, cacheKey, resp)
			r.stats.IncrementProvider(p.ID)
			r.logger.Debug("translate dispatched",
				"provider", p.ID,
				"processing_time_ms", resp.ProcessingTimeMS,
				"fallback", i > 0,
			)
			return resp, nil
		}

		if ctx.Err() != nil {
			// The caller gave up: release happened in callAdapter, no
			// metrics are written, and the cancellation propagates.
			return nil, ctx.Err()
		}

		attempted = append(attempted, p.ID)
		lastErr = err
		r.registry.RecordFailure(p.ID, err)
		r.aggregator.RecordFailure(ctx, p.ID)
		r.logger.Warn("provider dispatch failed",
			"provider", p.ID,
			"error", err,
			"classification", adapters.Classify(err).String(),
		)
	}

	r.stats.IncrementFailure()
	if len(attempted) == 0 {
		return nil, &NoProviderAvailableError{SourceLang: req.SourceLang, TargetLang: req.TargetLang}
	}
	return nil, &AllProvidersFailedError{Attempted: attempted, LastError: lastErr}
}

// callAdapter runs one adapter translate under the per-call timeout. The
// load slot is released however the call returns, including on panic.
func (r *Router) callAdapter(ctx context.Context, p *Provider, req *adapters.Request) (_ *adapters.Response, err error) {
	defer p.endDispatch()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("adapter %q panicked: %v", p.ID, rec)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, r.config.AdapterCallTimeout)
	defer cancel()
	return p.Adapter.Translate(callCtx, req)
}

// TranslateBatch translates several requests concurrently with a bounded
// group. Results align with the input slice; the first error cancels the
// remaining work and is returned.
func (r *Router) TranslateBatch(ctx context.Context, reqs []*adapters.Request, strategy *Strategy) ([]*adapters.Response, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	if len(reqs) == 0 {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.BatchConcurrency)

	results := make([]*adapters.Response, len(reqs))
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := r.Translate(gctx, req, strategy)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DetectLanguage identifies the language of text, asking the healthy
// provider with the best priority first and falling down the list until
// one produces an answer. When every provider fails the unknown
// detection is returned without an error.
func (r *Router) DetectLanguage(ctx context.Context, text string) (adapters.Detection, error) {
	unknown := adapters.Detection{Language: adapters.LangUnknown, Confidence: 0}
	if !r.initialized.Load() {
		return unknown, ErrNotInitialized
	}
	if text == "" {
		return unknown, nil
	}

	for _, p := range r.registry.Healthy() {
		if err := ctx.Err(); err != nil {
			return unknown, err
		}
		d := p.Adapter.DetectLanguage(ctx, text)
		if d.Language != "" && d.Language != adapters.LangUnknown {
			return d, nil
		}
	}
	return unknown, nil
}

// ProviderStats returns a snapshot of every provider's lifecycle state
// merged with its aggregated usage metrics.
func (r *Router) ProviderStats(ctx context.Context) []ProviderStatus {
	statuses := r.registry.Snapshot()
	for i := range statuses {
		m := r.aggregator.Snapshot(ctx, statuses[i].ID)
		statuses[i].Metrics = m
		statuses[i].AvgResponseTimeMS = m.AverageResponseTimeMS()
	}
	return statuses
}

// Stats returns a snapshot of the router-level counters.
func (r *Router) Stats() RouterStats {
	return r.stats.Snapshot()
}

// Shutdown stops the health monitor, disables every provider, and closes
// their adapters. Further calls are rejected with ErrNotInitialized.
func (r *Router) Shutdown() error {
	r.initialized.Store(false)
	r.monitor.Stop()
	err := r.registry.Shutdown()
	r.logger.Info("router shut down")
	return err
}

// validateRequest rejects requests no adapter could serve, so malformed
// input never burns a dispatch attempt or a provider health strike.
func validateRequest(req *adapters.Request) error {
	if req == nil || req.Text == "" {
		return &adapters.InvalidRequestError{Provider: "router", Field: "text", Message: "text cannot be empty"}
	}
	if !adapters.IsLanguageCode(req.TargetLang) {
		return &adapters.InvalidRequestError{
			Provider: "router",
			Field:    "target_lang",
			Message:  fmt.Sprintf("%q is not an ISO-639-1 code", req.TargetLang),
		}
	}
	if req.SourceLang != adapters.LangAuto && !adapters.IsLanguageCode(req.SourceLang) {
		return &adapters.InvalidRequestError{
			Provider: "router",
			Field:    "source_lang",
			Message:  fmt.Sprintf("%q is not an ISO-639-1 code or %q", req.SourceLang, adapters.LangAuto),
		}
	}
	return nil
}

// cacheProbe returns the cached response for key, or nil on miss. Cache
// failures are logged and treated as misses.
func (r *Router) cacheProbe(ctx context.Context, key string) *adapters.Response {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			r.logger.Warn("response cache read failed", "key", key, "error", err)
		}
		return nil
	}

	var resp adapters.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		r.logger.Warn("response cache entry corrupt", "key", key, "error", err)
		return nil
	}
	resp.Cached = true
	return &resp
}

// cacheStore writes a successful response for later hits. Failures are
// logged and ignored.
func (r *Router) cacheStore(ctx context.Context, key string, resp *adapters.Response) {
	buf, err := json.Marshal(resp)
	if err != nil {
		r.logger.Warn("response marshal failed", "key", key, "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, buf, r.config.CacheTTL); err != nil {
		r.logger.Warn("response cache write failed", "key", key, "error", err)
	}
}

// rankerModes returns the configured mode names sorted for stable error
// messages.
func (r *Router) rankerModes() []string {
	modes := make([]string, 0, len(r.rankers))
	for mode := range r.rankers {
		modes = append(modes, string(mode))
	}
	sort.Strings(modes)
	return modes
}

// promoteHint moves the hinted provider to the front of the order when it
// is present; unknown hints are ignored.
func promoteHint(order []Candidate, hint string) []Candidate {
	if hint == "" {
		return order
	}
	for i, c := range order {
		if c.ID != hint {
			continue
		}
		if i == 0 {
			return order
		}
		promoted := make([]Candidate, 0, len(order))
		promoted = append(promoted, c)
		promoted = append(promoted, order[:i]...)
		promoted = append(promoted, order[i+1:]...)
		return promoted
	}
	return order
}

// sortByPriority orders candidates by ascending priority, then id.
func sortByPriority(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		return candidates[i].ID < candidates[j].ID
	})
}
