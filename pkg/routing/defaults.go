package routing

import (
	"fmt"
	"log/slog"

	"polyglot-hq/hermes/pkg/adapterfactory"
	"polyglot-hq/hermes/pkg/adapters"
)

// defaultParams are the built-in routing parameters per backend. DeepL
// leads on quality and takes the most traffic; LibreTranslate is the free
// last resort.
var defaultParams = map[string]Params{
	"deepl":  {Priority: 1, CostPerChar: 2.5e-5, QualityScore: 0.98, MaxLoad: 200},
	"claude": {Priority: 2, CostPerChar: 3e-5, QualityScore: 0.95, MaxLoad: 100},
	"openai": {Priority: 3, CostPerChar: 2e-5, QualityScore: 0.92, MaxLoad: 100},
	"google": {Priority: 4, CostPerChar: 2e-5, QualityScore: 0.90, MaxLoad: 100},
	"libre":  {Priority: 5, CostPerChar: 0, QualityScore: 0.75, MaxLoad: 100},
}

// DefaultProviderIDs returns the built-in backend ids in priority order.
func DefaultProviderIDs() []string {
	return []string{"deepl", "claude", "openai", "google", "libre"}
}

// DefaultParams returns the built-in routing parameters for a backend id.
func DefaultParams(id string) (Params, bool) {
	p, ok := defaultParams[id]
	return p, ok
}

// NewDefaultRegistry constructs the registry for the built-in backends,
// uninitialized. ids selects which backends to include (nil means all).
// adapterConfigs overrides transport settings per backend; overrides
// replaces routing parameters field by field where non-zero.
func NewDefaultRegistry(ids []string, adapterConfigs map[string]adapters.Config, overrides map[string]Params, threshold int, logger *slog.Logger) (*Registry, error) {
	if len(ids) == 0 {
		ids = DefaultProviderIDs()
	}

	provs := make([]*Provider, 0, len(ids))
	for _, id := range ids {
		params, ok := defaultParams[id]
		if !ok {
			return nil, fmt.Errorf("unknown backend %q", id)
		}
		if o, ok := overrides[id]; ok {
			params = MergeParams(params, o)
		}

		adapter, err := adapterfactory.New(id, adapterConfigs[id])
		if err != nil {
			return nil, fmt.Errorf("constructing adapter %q: %w", id, err)
		}
		provs = append(provs, NewProvider(adapter, params))
	}
	return NewRegistry(provs, threshold, logger)
}

// MergeParams overlays non-zero override fields onto the base parameters.
func MergeParams(base, override Params) Params {
	if override.Priority != 0 {
		base.Priority = override.Priority
	}
	if override.CostPerChar != 0 {
		base.CostPerChar = override.CostPerChar
	}
	if override.QualityScore != 0 {
		base.QualityScore = override.QualityScore
	}
	if override.MaxLoad != 0 {
		base.MaxLoad = override.MaxLoad
	}
	return base
}
