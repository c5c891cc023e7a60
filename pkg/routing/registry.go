package routing

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
)

// Registry owns the provider set and its lifecycle state. The set is
// fixed at construction; all mutation after that goes through per-provider
// methods, so the registry itself needs no lock.
type Registry struct {
	providers map[string]*Provider

	// ids is the provider id list in ascending order, giving every
	// iteration a deterministic base order.
	ids []string

	// threshold is the consecutive dispatch failure count that marks a
	// provider unhealthy.
	threshold int

	logger *slog.Logger
}

// NewRegistry builds a registry from the given provider entries.
func NewRegistry(provs []*Provider, threshold int, logger *slog.Logger) (*Registry, error) {
	if len(provs) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}
	if threshold <= 0 {
		threshold = DefaultUnhealthyThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}

	byID := make(map[string]*Provider, len(provs))
	ids := make([]string, 0, len(provs))
	for _, p := range provs {
		if p.ID == "" {
			return nil, fmt.Errorf("provider id cannot be empty")
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)

	return &Registry{
		providers: byID,
		ids:       ids,
		threshold: threshold,
		logger:    logger.With("component", "registry"),
	}, nil
}

// Get returns the provider with the given id.
func (r *Registry) Get(id string) (*Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// IDs returns the registered provider ids in ascending order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// All returns every provider in id order.
func (r *Registry) All() []*Provider {
	out := make([]*Provider, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.providers[id])
	}
	return out
}

// Healthy returns the healthy providers ordered by ascending priority,
// then id. Language detection walks this list.
func (r *Registry) Healthy() []*Provider {
	out := make([]*Provider, 0, len(r.ids))
	for _, id := range r.ids {
		if p := r.providers[id]; p.State() == StateHealthy {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Params().Priority, out[j].Params().Priority
		if pi != pj {
			return pi < pj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Candidates returns providers able to accept a request for the given
// language pair: healthy, below max load, and supporting the pair.
func (r *Registry) Candidates(sourceLang, targetLang string) []*Provider {
	out := make([]*Provider, 0, len(r.ids))
	for _, id := range r.ids {
		p := r.providers[id]
		if p.State() != StateHealthy {
			continue
		}
		if p.CurrentLoad() >= p.Params().MaxLoad {
			continue
		}
		if !p.Adapter.SupportsLanguagePair(sourceLang, targetLang) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// InitializeProvider arms the named provider with a credential. On success
// the provider transitions to Healthy.
func (r *Registry) InitializeProvider(id, credential string) error {
	p, ok := r.providers[id]
	if !ok {
		return &ProviderNotFoundError{ProviderID: id, Available: r.IDs()}
	}
	if err := p.Adapter.Initialize(credential); err != nil {
		return err
	}
	p.markInitialized()
	return nil
}

// UpdateParams replaces the routing parameters of the named provider.
// Values are clamped the same way as at construction, and the change is
// visible to subsequent selections immediately. Lifecycle state and the
// load counter are untouched.
func (r *Registry) UpdateParams(id string, params Params) error {
	p, ok := r.providers[id]
	if !ok {
		return &ProviderNotFoundError{ProviderID: id, Available: r.IDs()}
	}
	p.applyParams(params)
	applied := p.Params()
	r.logger.Info("provider routing parameters updated",
		"provider", id,
		"priority", applied.Priority,
		"cost_per_char", applied.CostPerChar,
		"quality_score", applied.QualityScore,
		"max_load", applied.MaxLoad,
	)
	return nil
}

// RecordSuccess clears the provider's consecutive failure counter.
func (r *Registry) RecordSuccess(id string) {
	if p, ok := r.providers[id]; ok {
		p.recordDispatchSuccess()
	}
}

// RecordFailure counts a dispatch failure toward the provider's unhealthy
// threshold. Permanent failures count double so misconfigured providers
// leave rotation sooner. It returns true when the provider transitioned
// to Unhealthy.
func (r *Registry) RecordFailure(id string, err error) bool {
	p, ok := r.providers[id]
	if !ok {
		return false
	}

	strikes := 1
	if adapters.Classify(err) == adapters.Permanent {
		strikes = 2
	}
	crossed := p.recordDispatchFailure(err, strikes, r.threshold)
	if crossed {
		r.logger.Warn("provider marked unhealthy",
			"provider", id,
			"threshold", r.threshold,
			"error", err,
		)
	}
	return crossed
}

// ApplyHealthCheck records a health check result and logs state
// transitions.
func (r *Registry) ApplyHealthCheck(id string, healthy bool) {
	p, ok := r.providers[id]
	if !ok {
		return
	}

	prev := p.recordCheck(healthy, time.Now())
	if now := p.State(); now != prev {
		r.logger.Info("provider health transition",
			"provider", id,
			"from", prev.String(),
			"to", now.String(),
		)
	}
}

// Snapshot returns the lifecycle status of every provider in id order,
// without aggregated metrics.
func (r *Registry) Snapshot() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.providers[id].status())
	}
	return out
}

// Shutdown disables every provider and closes its adapter. Close errors
// are collected and returned together.
func (r *Registry) Shutdown() error {
	var errs []error
	for _, id := range r.ids {
		p := r.providers[id]
		p.disable()
		if err := p.Adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing adapter %q: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
