package strategies

import "polyglot-hq/hermes/pkg/routing"

// SpeedStrategy orders candidates by ascending current load: the emptiest
// provider is assumed to answer fastest. Equal loads fall back to the
// shared priority tie-break.
type SpeedStrategy struct{}

// NewSpeedStrategy creates a load-first strategy.
func NewSpeedStrategy() *SpeedStrategy {
	return &SpeedStrategy{}
}

// Rank implements the Ranker interface.
func (s *SpeedStrategy) Rank(candidates []routing.Candidate) []routing.Candidate {
	return rankBy(candidates, func(a, b routing.Candidate) int {
		switch {
		case a.CurrentLoad < b.CurrentLoad:
			return -1
		case a.CurrentLoad > b.CurrentLoad:
			return 1
		default:
			return 0
		}
	})
}

// Name returns the mode name.
func (s *SpeedStrategy) Name() string {
	return "speed"
}
