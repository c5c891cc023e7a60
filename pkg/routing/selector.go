package routing

import (
	"context"

	"polyglot-hq/hermes/pkg/adapters"
)

// Selector builds the scored candidate view for a request. It narrows the
// registry's candidate set with the soft caps a strategy carries, leaving
// ordering to the scoring strategies.
type Selector struct {
	registry *Registry
	metrics  *Aggregator
}

// NewSelector creates a selector over the given registry and aggregator.
func NewSelector(registry *Registry, metrics *Aggregator) *Selector {
	return &Selector{
		registry: registry,
		metrics:  metrics,
	}
}

// Candidates returns the filtered candidate views for a request. A
// provider survives when it can accept the language pair and passes every
// soft cap the strategy sets. Observed latency is only fetched when the
// latency cap is in play; providers with no history pass that cap.
func (s *Selector) Candidates(ctx context.Context, req *adapters.Request, strategy Strategy) []Candidate {
	provs := s.registry.Candidates(req.SourceLang, req.TargetLang)
	textLen := len(req.Text)
	needLatency := strategy.MaxResponseTimeMS > 0

	out := make([]Candidate, 0, len(provs))
	for _, p := range provs {
		params := p.Params()
		c := Candidate{
			ID:            p.ID,
			Priority:      params.Priority,
			CostPerChar:   params.CostPerChar,
			QualityScore:  params.QualityScore,
			CurrentLoad:   p.CurrentLoad(),
			MaxLoad:       params.MaxLoad,
			EstimatedCost: params.CostPerChar * float64(textLen),
		}
		if strategy.MaxCost > 0 && c.EstimatedCost > strategy.MaxCost {
			continue
		}
		if strategy.MinQuality > 0 && c.QualityScore < strategy.MinQuality {
			continue
		}
		if needLatency {
			c.AvgResponseTimeMS = s.metrics.AverageResponseTime(ctx, p.ID)
			if c.AvgResponseTimeMS > float64(strategy.MaxResponseTimeMS) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
