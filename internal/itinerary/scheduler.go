package itinerary

import (
	"wayfarer/internal/types"
)

// DayPlan is one day's scheduling output: the candidates placed that day in
// rank order, plus the id sets the ranking recorder needs.
type DayPlan struct {
	// Day is the leg-relative day number, starting at 1.
	Day int

	// Placed holds the candidates assigned to this day in sort order.
	Placed []ScoredCandidate

	// SelectedIDs are the ids of Placed, in order.
	SelectedIDs []string
}

// BuildDayPlans distributes the ranked candidates across dayCount days at
// slotsPerDay slots each. Day 1 takes the top slotsPerDay candidates, day 2
// the next, and so on: a candidate placed on any day is excluded from every
// later day of the same generation call. Later days receive fewer (or zero)
// placements once the pool is exhausted; a day with no placements still
// appears in the output so its ranking event is recorded.
func BuildDayPlans(ranked []ScoredCandidate, slotsPerDay, dayCount int) []DayPlan {
	plans := make([]DayPlan, 0, dayCount)

	next := 0
	for day := 1; day <= dayCount; day++ {
		plan := DayPlan{Day: day}

		for s := 0; s < slotsPerDay && next < len(ranked); s++ {
			candidate := ranked[next]
			next++
			plan.Placed = append(plan.Placed, candidate)
			plan.SelectedIDs = append(plan.SelectedIDs, candidate.Node.ID)
		}

		plans = append(plans, plan)
	}

	return plans
}

// buildSlots converts the day plans into slot rows. DayNumber is the
// absolute, trip-wide number resolved by the caller per day; SortOrder is the
// in-day rank position starting at 0.
func buildSlots(tripID, legID string, plans []DayPlan, absoluteDayFor func(relativeDay int) int) []types.Slot {
	var slots []types.Slot
	for _, plan := range plans {
		dayNumber := absoluteDayFor(plan.Day)
		for order, candidate := range plan.Placed {
			slots = append(slots, types.Slot{
				TripID:         tripID,
				LegID:          &legID,
				DayNumber:      dayNumber,
				SortOrder:      order,
				SlotType:       types.SlotTypeActivity,
				Status:         types.SlotStatusProposed,
				ActivityNodeID: candidate.Node.ID,
			})
		}
	}
	return slots
}
