// Package itinerary implements the persona-driven multi-leg scheduler: it
// scores a city's candidate pool against a persona snapshot, distributes the
// ranked candidates across the days of a trip leg, and commits the resulting
// slots together with their ranking audit events in one transaction.
package itinerary

import (
	"sort"

	"wayfarer/internal/persona"
	"wayfarer/internal/types"
)

// Model identity stamped on every ranking event. The scorer is fully
// deterministic, so (name, version) is enough to reproduce any recorded
// ranking offline.
const (
	ModelName    = "persona-linear-scorer"
	ModelVersion = "1.0.0"
)

// ScoringWeights holds the scoring blend parameters.
type ScoringWeights struct {
	Convergence  float64
	Authority    float64
	PersonaBoost float64

	// NeutralDefault substitutes for a missing convergence or authority
	// score. Missing quality data is neutral, not disqualifying: an
	// under-annotated node should not rank below a node with a genuinely
	// poor score.
	NeutralDefault float64
}

// DefaultScoringWeights returns the production scoring configuration.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Convergence:    0.6,
		Authority:      0.4,
		PersonaBoost:   0.3,
		NeutralDefault: 0.5,
	}
}

// categoryDimension maps activity categories to persona dimensions. Categories
// absent from this table receive no persona adjustment: neutral, not
// penalized.
var categoryDimension = map[string]string{
	"food":       persona.DimensionFood,
	"restaurant": persona.DimensionFood,
	"cafe":       persona.DimensionFood,
	"adventure":  persona.DimensionAdventure,
	"outdoor":    persona.DimensionAdventure,
	"sport":      persona.DimensionAdventure,
	"culture":    persona.DimensionCulture,
	"museum":     persona.DimensionCulture,
	"nightlife":  persona.DimensionCulture,
	"nature":     persona.DimensionNature,
	"park":       persona.DimensionNature,
	"budget":     persona.DimensionBudget,
}

// ScoredCandidate pairs an activity node with its computed rank value.
type ScoredCandidate struct {
	Node  types.ActivityNode
	Score float64
}

// ScoreActivity computes the rank value of one candidate under the given
// persona snapshot.
//
// Base score blends the node's convergence and authority scores; a nil score
// contributes the neutral default. If the node's category maps to a persona
// dimension with a nonzero snapshot score, a proportional bonus is added.
func ScoreActivity(node types.ActivityNode, snapshot map[string]float64, w ScoringWeights) float64 {
	convergence := w.NeutralDefault
	if node.ConvergenceScore != nil {
		convergence = *node.ConvergenceScore
	}
	authority := w.NeutralDefault
	if node.AuthorityScore != nil {
		authority = *node.AuthorityScore
	}

	score := w.Convergence*convergence + w.Authority*authority

	if dimension, ok := categoryDimension[node.Category]; ok {
		if personaScore := snapshot[dimension]; personaScore > 0 {
			score += w.PersonaBoost * personaScore
		}
	}

	return score
}

// RankCandidates scores the pool and returns it sorted by score descending.
// Ties break by ascending node id: the ordering must be fully deterministic
// so recorded ranking events are reproducible for offline evaluation. No
// randomness is permitted anywhere in this path.
func RankCandidates(pool []types.ActivityNode, snapshot map[string]float64, w ScoringWeights) []ScoredCandidate {
	ranked := make([]ScoredCandidate, len(pool))
	for i, node := range pool {
		ranked[i] = ScoredCandidate{
			Node:  node,
			Score: ScoreActivity(node, snapshot, w),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Node.ID < ranked[j].Node.ID
	})

	return ranked
}

// rankedIDs extracts the node ids of a ranked slice in order.
func rankedIDs(ranked []ScoredCandidate) []string {
	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.Node.ID
	}
	return ids
}

// poolIDs extracts the node ids of the unranked pool in listing order.
func poolIDs(pool []types.ActivityNode) []string {
	ids := make([]string, len(pool))
	for i, n := range pool {
		ids[i] = n.ID
	}
	return ids
}
