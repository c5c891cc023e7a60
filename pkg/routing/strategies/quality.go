package strategies

import "polyglot-hq/hermes/pkg/routing"

// QualityStrategy orders candidates by descending quality score,
// regardless of cost or load.
type QualityStrategy struct{}

// NewQualityStrategy creates a quality-first strategy.
func NewQualityStrategy() *QualityStrategy {
	return &QualityStrategy{}
}

// Rank implements the Ranker interface.
func (s *QualityStrategy) Rank(candidates []routing.Candidate) []routing.Candidate {
	return rankBy(candidates, func(a, b routing.Candidate) int {
		return compareFloat(b.QualityScore, a.QualityScore)
	})
}

// Name returns the mode name.
func (s *QualityStrategy) Name() string {
	return "quality"
}
