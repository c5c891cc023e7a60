// Package strategies implements the candidate scoring modes used by the
// routing package: cost, quality, speed, and balanced.
//
// Every strategy orders a copy of the candidate slice and breaks ties the
// same way, ascending priority then lexicographic id, so selection is
// deterministic for a given provider state.
package strategies

import (
	"sort"

	"polyglot-hq/hermes/pkg/routing"
)

// Ranker is the interface all scoring strategies implement. It mirrors
// the interface the routing package declares for its dispatch path.
//
// Implementations must be safe for concurrent use; they are called from
// every in-flight request.
type Ranker interface {
	// Rank returns the candidates in dispatch order without mutating the
	// input slice.
	Rank(candidates []routing.Candidate) []routing.Candidate

	// Name returns the mode name for logging and statistics.
	Name() string
}

// DefaultSet builds the standard ranker set keyed by mode, ready to hand
// to routing.NewRouter.
func DefaultSet(weights routing.Weights, costCeiling float64) map[routing.StrategyMode]routing.Ranker {
	return map[routing.StrategyMode]routing.Ranker{
		routing.ModeCost:     NewCostStrategy(),
		routing.ModeQuality:  NewQualityStrategy(),
		routing.ModeSpeed:    NewSpeedStrategy(),
		routing.ModeBalanced: NewBalancedStrategy(weights, costCeiling),
	}
}

// rankBy copies the candidates and stable-sorts them with less, falling
// back to the shared tie-break when less reports equality.
func rankBy(candidates []routing.Candidate, less func(a, b routing.Candidate) int) []routing.Candidate {
	out := make([]routing.Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		if c := less(out[i], out[j]); c != 0 {
			return c < 0
		}
		return tieBreak(out[i], out[j]) < 0
	})
	return out
}

// tieBreak orders by ascending priority, then lexicographic id.
func tieBreak(a, b routing.Candidate) int {
	if a.Priority != b.Priority {
		if a.Priority < b.Priority {
			return -1
		}
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// compareFloat returns -1, 0, or 1 for ascending float ordering.
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
