package strategies

import "polyglot-hq/hermes/pkg/routing"

// CostStrategy orders candidates by ascending estimated request cost, so
// free providers always lead and the most expensive backend is the last
// resort.
type CostStrategy struct{}

// NewCostStrategy creates a cost-first strategy.
func NewCostStrategy() *CostStrategy {
	return &CostStrategy{}
}

// Rank implements the Ranker interface.
func (s *CostStrategy) Rank(candidates []routing.Candidate) []routing.Candidate {
	return rankBy(candidates, func(a, b routing.Candidate) int {
		return compareFloat(a.EstimatedCost, b.EstimatedCost)
	})
}

// Name returns the mode name.
func (s *CostStrategy) Name() string {
	return "cost"
}
