package types

// SlotStatus is the lifecycle state of an itinerary slot.
type SlotStatus string

const (
	// SlotStatusProposed is the initial state of every generated slot.
	SlotStatusProposed SlotStatus = "proposed"
)

// SlotType distinguishes how a slot was created.
type SlotType string

const (
	// SlotTypeActivity is a generator-placed activity slot.
	SlotTypeActivity SlotType = "activity"
)

// SignalType categorizes a behavioral signal.
type SignalType string

const (
	// SignalTypePaceContext records the act of generating an itinerary,
	// including the pace the user asked for.
	SignalTypePaceContext SignalType = "pace_context"
)

// SignalSource is the provenance tag of a behavioral signal. The persona
// aggregator only reads SourceUserAction rows; rows tagged with any other
// source (synthetic seeds, imports) are excluded so they cannot skew a real
// user's persona.
type SignalSource string

const (
	SourceUserAction SignalSource = "user_action"
)

// PaceSetting is a named scheduling intensity chosen by the user.
type PaceSetting string

const (
	PaceRelaxed  PaceSetting = "relaxed"
	PaceModerate PaceSetting = "moderate"
	PacePacked   PaceSetting = "packed"
)

// paceSlotsPerDay is the explicit pace -> slots-per-day lookup. The mapping
// is enumerated rather than computed so product can retune a pace without
// touching scheduling logic.
var paceSlotsPerDay = map[PaceSetting]int{
	PaceRelaxed:  2,
	PaceModerate: 4,
	PacePacked:   6,
}

// SlotsPerDay returns the number of activity slots scheduled per day for the
// pace, and whether the pace is a known setting.
func (p PaceSetting) SlotsPerDay() (int, bool) {
	n, ok := paceSlotsPerDay[p]
	return n, ok
}

// Valid reports whether the pace is one of the enumerated settings.
func (p PaceSetting) Valid() bool {
	_, ok := paceSlotsPerDay[p]
	return ok
}

// GenerationSource labels the terminal outcome of a generation call.
type GenerationSource string

const (
	// GenerationSourceGenerated means slots were scheduled and committed.
	GenerationSourceGenerated GenerationSource = "generated"
	// GenerationSourceEmpty means the city had no candidate pool; nothing
	// was written.
	GenerationSourceEmpty GenerationSource = "empty"
)
