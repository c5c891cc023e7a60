package strategies

import "polyglot-hq/hermes/pkg/routing"

// BalancedStrategy blends quality, load headroom, and cost into one
// composite score and orders descending:
//
//	S = w_q*quality + w_s*(1 - load/max_load) + w_c*(1 - cost_per_char/ceiling)
//
// Each term is clamped to [0,1] before weighting, so a provider priced
// above the ceiling contributes zero on the cost term instead of a
// penalty. It is the default mode.
type BalancedStrategy struct {
	weights     routing.Weights
	costCeiling float64
}

// NewBalancedStrategy creates a balanced strategy. Zero weights or a
// non-positive ceiling fall back to the defaults.
func NewBalancedStrategy(weights routing.Weights, costCeiling float64) *BalancedStrategy {
	if weights == (routing.Weights{}) {
		weights = routing.DefaultWeights()
	}
	if costCeiling <= 0 {
		costCeiling = routing.DefaultCostCeilingPerChar
	}
	return &BalancedStrategy{
		weights:     weights,
		costCeiling: costCeiling,
	}
}

// Rank implements the Ranker interface.
func (s *BalancedStrategy) Rank(candidates []routing.Candidate) []routing.Candidate {
	return rankBy(candidates, func(a, b routing.Candidate) int {
		return compareFloat(s.Score(b), s.Score(a))
	})
}

// Score computes the composite score for one candidate.
func (s *BalancedStrategy) Score(c routing.Candidate) float64 {
	quality := clamp01(c.QualityScore)

	headroom := 0.0
	if c.MaxLoad > 0 {
		headroom = clamp01(1 - float64(c.CurrentLoad)/float64(c.MaxLoad))
	}

	costTerm := clamp01(1 - c.CostPerChar/s.costCeiling)

	return s.weights.Quality*quality + s.weights.Speed*headroom + s.weights.Cost*costTerm
}

// Name returns the mode name.
func (s *BalancedStrategy) Name() string {
	return "balanced"
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
