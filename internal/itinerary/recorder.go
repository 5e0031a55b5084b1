package itinerary

import (
	"time"

	"wayfarer/internal/types"
)

// buildRankingEvent assembles the audit event for one generated day.
//
// CandidateIDs is always the entire scored pool for the generation call (in
// listing order), not just the placed subset, so offline training sees every
// candidate the ranker considered. RankedIDs is the full deterministic sort
// order. Exactly one event is built per generated day, however many slots
// were placed that day.
func buildRankingEvent(
	userID, tripID string,
	absoluteDay int,
	candidateIDs, rankedIDs []string,
	plan DayPlan,
	latency time.Duration,
) types.RankingEvent {
	latencyMs := latency.Milliseconds()
	if latencyMs < 0 {
		latencyMs = 0
	}

	return types.RankingEvent{
		UserID:       userID,
		TripID:       tripID,
		DayNumber:    absoluteDay,
		CandidateIDs: candidateIDs,
		RankedIDs:    rankedIDs,
		SelectedIDs:  plan.SelectedIDs,
		ModelName:    ModelName,
		ModelVersion: ModelVersion,
		Surface:      "itinerary",
		LatencyMs:    latencyMs,
	}
}
