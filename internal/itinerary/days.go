package itinerary

import (
	"log/slog"
	"time"

	"wayfarer/internal/types"
)

// LegDayCount returns the inclusive day span of a leg's date range, floored
// at 1: a leg whose start and end fall on the same instant still occupies one
// trip day.
func LegDayCount(leg types.Leg) int {
	return inclusiveDayCount(leg.StartDate, leg.EndDate)
}

// inclusiveDayCount counts calendar days between two instants inclusively,
// floored at 1.
func inclusiveDayCount(start, end time.Time) int {
	if end.Before(start) {
		return 1
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// AbsoluteDay maps a leg-relative day number to a trip-wide absolute day:
// the sum of day counts over every leg preceding the target (by position)
// plus the relative day. Day 1 of leg N therefore equals
// 1 + sum(LegDayCount(legs[0..N-1])).
//
// When legID matches no known leg the relative day is returned unchanged.
// The fallback is kept for compatibility with existing callers, but it can
// hide a wrong leg id behind a plausible-looking number, so it is logged as
// a warning rather than absorbed silently.
func AbsoluteDay(legs []types.Leg, legID string, legRelativeDay int, logger *slog.Logger) int {
	offset := 0
	for _, leg := range legs {
		if leg.ID == legID {
			return offset + legRelativeDay
		}
		offset += LegDayCount(leg)
	}

	if logger != nil {
		logger.Warn("absolute day fallback: leg id not found in trip legs",
			"leg_id", legID,
			"leg_relative_day", legRelativeDay,
		)
	}
	return legRelativeDay
}
