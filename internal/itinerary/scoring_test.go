package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/persona"
	"wayfarer/internal/types"
)

func fptr(f float64) *float64 { return &f }

func node(id, category string, convergence, authority *float64) types.ActivityNode {
	return types.ActivityNode{
		ID:               id,
		Name:             "node " + id,
		City:             "Lisbon",
		Country:          "Portugal",
		Category:         category,
		ConvergenceScore: convergence,
		AuthorityScore:   authority,
	}
}

func TestScoreActivity_BaseBlend(t *testing.T) {
	w := DefaultScoringWeights()

	score := ScoreActivity(node("a", "other", fptr(1.0), fptr(1.0)), nil, w)
	assert.InDelta(t, w.Convergence+w.Authority, score, 1e-9)

	score = ScoreActivity(node("a", "other", fptr(0.0), fptr(0.0)), nil, w)
	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestScoreActivity_MissingScoresAreNeutralNotZero(t *testing.T) {
	w := DefaultScoringWeights()

	unannotated := ScoreActivity(node("a", "other", nil, nil), nil, w)
	worst := ScoreActivity(node("b", "other", fptr(0.0), fptr(0.0)), nil, w)

	// Under-annotated candidates must not be penalized down to the floor.
	assert.Greater(t, unannotated, worst)
	assert.InDelta(t, w.NeutralDefault*(w.Convergence+w.Authority), unannotated, 1e-9)
}

func TestScoreActivity_PersonaBonus(t *testing.T) {
	w := DefaultScoringWeights()
	snapshot := map[string]float64{persona.DimensionFood: 0.5}

	plain := ScoreActivity(node("a", "other", fptr(0.8), fptr(0.8)), snapshot, w)
	boosted := ScoreActivity(node("a", "food", fptr(0.8), fptr(0.8)), snapshot, w)

	assert.InDelta(t, w.PersonaBoost*0.5, boosted-plain, 1e-9)
}

func TestScoreActivity_UnmappedCategoryIsNeutral(t *testing.T) {
	w := DefaultScoringWeights()
	snapshot := map[string]float64{persona.DimensionFood: 0.9}

	with := ScoreActivity(node("a", "mystery", fptr(0.5), fptr(0.5)), snapshot, w)
	without := ScoreActivity(node("a", "mystery", fptr(0.5), fptr(0.5)), nil, w)

	assert.InDelta(t, with, without, 1e-9, "no persona signal means no adjustment, not a penalty")
}

func TestScoreActivity_ZeroDimensionScoreNoBonus(t *testing.T) {
	w := DefaultScoringWeights()
	snapshot := map[string]float64{persona.DimensionCulture: 0.0}

	with := ScoreActivity(node("a", "museum", fptr(0.5), fptr(0.5)), snapshot, w)
	without := ScoreActivity(node("a", "museum", fptr(0.5), fptr(0.5)), nil, w)

	assert.InDelta(t, with, without, 1e-9)
}

func TestRankCandidates_SortsByScoreThenID(t *testing.T) {
	w := DefaultScoringWeights()

	pool := []types.ActivityNode{
		node("c", "other", fptr(0.5), fptr(0.5)),
		node("a", "other", fptr(0.5), fptr(0.5)),
		node("b", "other", fptr(0.9), fptr(0.9)),
	}

	ranked := RankCandidates(pool, nil, w)
	require.Len(t, ranked, 3)

	assert.Equal(t, "b", ranked[0].Node.ID)
	// Equal scores break ties by ascending id.
	assert.Equal(t, "a", ranked[1].Node.ID)
	assert.Equal(t, "c", ranked[2].Node.ID)
}

func TestRankCandidates_Deterministic(t *testing.T) {
	w := DefaultScoringWeights()
	snapshot := map[string]float64{persona.DimensionFood: 0.4, persona.DimensionNature: 0.2}

	pool := []types.ActivityNode{
		node("n1", "food", fptr(0.7), nil),
		node("n2", "park", nil, fptr(0.6)),
		node("n3", "museum", fptr(0.5), fptr(0.9)),
		node("n4", "other", nil, nil),
	}

	first := rankedIDs(RankCandidates(pool, snapshot, w))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, rankedIDs(RankCandidates(pool, snapshot, w)))
	}
}

func TestRankCandidates_EmptyPool(t *testing.T) {
	ranked := RankCandidates(nil, nil, DefaultScoringWeights())
	assert.Empty(t, ranked)
}
