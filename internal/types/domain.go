package types

import (
	"time"
)

// Location represents a geographic coordinate with an optional display name.
type Location struct {
	Lat         float64 `json:"lat" db:"location_lat"`
	Lon         float64 `json:"lon" db:"location_lon"`
	DisplayName string  `json:"display_name,omitempty" db:"location_display_name"`
}

// Trip is the top-level container for a multi-city journey. Only the fields
// the itinerary generator reads are modeled here; member management, sharing
// tokens, and settings live in other services.
type Trip struct {
	ID        string     `json:"id" db:"id"`
	OwnerID   string     `json:"owner_id" db:"owner_id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Leg is one city segment of a multi-city trip. Legs are ordered by Position
// within a trip; their date ranges are non-overlapping and chronologically
// increasing. StartDate and EndDate are an inclusive range. A leg is immutable
// once slots reference it, except for administrative correction.
type Leg struct {
	ID       string `json:"id" db:"id"`
	TripID   string `json:"trip_id" db:"trip_id"`
	Position int    `json:"position" db:"position"`
	City     string `json:"city" db:"city"`
	Country  string `json:"country" db:"country"`
	Timezone string `json:"timezone" db:"timezone"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ActivityNode is a location-bound point of interest eligible for scheduling.
// Read-only to the itinerary subsystem; the ingestion pipeline that creates
// these rows is out of scope.
//
// ConvergenceScore measures cross-source agreement (0-1), AuthorityScore is a
// source-credibility weighted quality score (0-1). Either may be nil for
// under-annotated nodes; scoring treats nil as a neutral default, never as
// zero.
type ActivityNode struct {
	ID       string   `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	City     string   `json:"city" db:"city"`
	Country  string   `json:"country" db:"country"`
	Category string   `json:"category" db:"category"`
	Location Location `json:"location" db:"-"`

	ConvergenceScore *float64 `json:"convergence_score,omitempty" db:"convergence_score"`
	AuthorityScore   *float64 `json:"authority_score,omitempty" db:"authority_score"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Slot is one scheduled placement of an activity on a trip day.
//
// DayNumber is absolute (trip-wide), counted continuously across all legs.
// SortOrder is the position within the day. Slots are created in batch by the
// generator with status "proposed"; later mutations (accept/skip/reorder)
// belong to trip-management flows and never happen here. The generator never
// deletes slots.
type Slot struct {
	ID             string     `json:"id" db:"id"`
	TripID         string     `json:"trip_id" db:"trip_id"`
	LegID          *string    `json:"leg_id,omitempty" db:"leg_id"`
	DayNumber      int        `json:"day_number" db:"day_number"`
	SortOrder      int        `json:"sort_order" db:"sort_order"`
	SlotType       SlotType   `json:"slot_type" db:"slot_type"`
	Status         SlotStatus `json:"status" db:"status"`
	ActivityNodeID string     `json:"activity_node_id" db:"activity_node_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BehavioralSignal is one append-only record of a user action. The persona
// aggregator reads recent signals; the generator writes exactly one
// pace/context signal per successful generation, making the subsystem its own
// feedback-loop producer.
type BehavioralSignal struct {
	ID         string       `json:"id" db:"id"`
	UserID     string       `json:"user_id" db:"user_id"`
	RawAction  string       `json:"raw_action" db:"raw_action"`
	SignalType SignalType   `json:"signal_type" db:"signal_type"`
	Source     SignalSource `json:"source" db:"source"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// RankingEvent is an immutable audit record of one generated day: the full
// candidate pool considered, the complete ranking order, and the subset
// actually placed. Exactly one event is written per generated day, in the
// same transaction as the slots it describes. Events are write-once and never
// updated; the offline training pipeline consumes them as-is.
//
// CandidateIDs always has length equal to the full scored pool for the
// generation call, regardless of how many candidates were placed.
type RankingEvent struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	TripID    string `json:"trip_id" db:"trip_id"`
	DayNumber int    `json:"day_number" db:"day_number"`

	CandidateIDs []string `json:"candidate_ids" db:"candidate_ids"`
	RankedIDs    []string `json:"ranked_ids" db:"ranked_ids"`
	SelectedIDs  []string `json:"selected_ids" db:"selected_ids"`

	ModelName    string `json:"model_name" db:"model_name"`
	ModelVersion string `json:"model_version" db:"model_version"`
	Surface      string `json:"surface" db:"surface"`
	LatencyMs    int64  `json:"latency_ms" db:"latency_ms"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ClimateProfile is a seeded (city, month) climate description row. Cities
// without a profile simply have no description; that is not an error.
type ClimateProfile struct {
	City        string `json:"city" db:"city"`
	Month       int    `json:"month" db:"month"`
	Description string `json:"description" db:"description"`
}
