// Package persona derives a sparse preference profile from a user's recent
// behavioral signal history. The profile ("snapshot") maps preference
// dimension names to 0-1 scores and feeds the itinerary scoring function.
package persona

import (
	"context"
	"fmt"
	"strings"

	"wayfarer/internal/types"
)

// signalWindow is the number of most-recent user-originated signals
// considered per snapshot.
const signalWindow = 200

// Preference dimension names. These are the keys of the snapshot map and the
// targets of the activity category mapping in the scoring function.
const (
	DimensionFood      = "food"
	DimensionAdventure = "adventure"
	DimensionCulture   = "culture"
	DimensionNature    = "nature"
	DimensionBudget    = "budget"
)

// dimensionKeywords is the keyword dispatch table: dimension -> substring
// patterns matched case-insensitively against a signal's raw action. Editing
// a dimension means editing this table, never the matching logic.
//
// Adventure and nature are deliberately disjoint: "hiking" counts for
// adventure only, even though both dimensions are outdoor-adjacent. A raw
// action may still match several dimensions through different keywords.
var dimensionKeywords = map[string][]string{
	DimensionFood: {
		"restaurant", "dining", "food market", "street food",
		"cafe", "brunch", "tasting",
	},
	DimensionAdventure: {
		"hiking", "outdoor", "sport", "climbing",
		"kayak", "surf", "cycling",
	},
	DimensionCulture: {
		"museum", "temple", "gallery", "bar",
		"theatre", "historic", "cathedral",
	},
	DimensionNature: {
		"park", "garden", "beach", "lake",
		"waterfall", "viewpoint",
	},
	DimensionBudget: {
		"budget", "cheap hotel", "hostel", "affordable",
		"low cost", "deal",
	},
}

// Dimensions returns the defined dimension names. Order is unspecified.
func Dimensions() []string {
	out := make([]string, 0, len(dimensionKeywords))
	for d := range dimensionKeywords {
		out = append(out, d)
	}
	return out
}

// SignalReader is the narrow read contract the aggregator needs from the
// behavioral signal store.
type SignalReader interface {
	ListRecentByUser(ctx context.Context, userID string, source types.SignalSource, limit int) ([]types.BehavioralSignal, error)
}

// Aggregator computes persona snapshots. It is stateless and side-effect
// free: the same signal history always yields the same snapshot.
type Aggregator struct {
	signals SignalReader
}

// NewAggregator creates an Aggregator over the given signal reader.
func NewAggregator(signals SignalReader) *Aggregator {
	return &Aggregator{signals: signals}
}

// Snapshot returns the sparse preference map for a user.
//
// Each dimension's score is matchingSignals / totalSignals, where a signal
// matches a dimension when its raw action contains any of the dimension's
// keywords (case-insensitive substring). A signal may count toward several
// dimensions, so the scores can sum past 1.0. Dimensions with a zero score
// are omitted; a user with no signals yields an empty map.
func (a *Aggregator) Snapshot(ctx context.Context, userID string) (map[string]float64, error) {
	signals, err := a.signals.ListRecentByUser(ctx, userID, types.SourceUserAction, signalWindow)
	if err != nil {
		return nil, fmt.Errorf("loading signals for persona snapshot: %w", err)
	}

	return Aggregate(signals), nil
}

// Aggregate computes the snapshot from an explicit signal slice. Split out
// from Snapshot so the pure aggregation is directly testable.
func Aggregate(signals []types.BehavioralSignal) map[string]float64 {
	if len(signals) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int, len(dimensionKeywords))
	for _, signal := range signals {
		action := strings.ToLower(signal.RawAction)
		for dimension, keywords := range dimensionKeywords {
			if matchesAny(action, keywords) {
				counts[dimension]++
			}
		}
	}

	total := float64(len(signals))
	snapshot := make(map[string]float64, len(counts))
	for dimension, count := range counts {
		if count > 0 {
			snapshot[dimension] = float64(count) / total
		}
	}

	return snapshot
}

// matchesAny reports whether the lowercased action contains any keyword.
func matchesAny(action string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(action, kw) {
			return true
		}
	}
	return false
}
