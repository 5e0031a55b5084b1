package types

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// requestValidator enforces the struct tags on request DTOs. A single
// instance is kept because validator caches struct metadata.
var requestValidator = validator.New()

// GenerateLegRequest carries everything the itinerary generator needs for one
// leg. All fields are required; Validate rejects malformed input before any
// read or write happens.
type GenerateLegRequest struct {
	TripID  string `json:"trip_id" validate:"required,uuid4"`
	LegID   string `json:"leg_id" validate:"required,uuid4"`
	UserID  string `json:"user_id" validate:"required,uuid4"`
	City    string `json:"city" validate:"required,min=1,max=120"`
	Country string `json:"country" validate:"required,min=1,max=120"`

	// Inclusive date range of the leg.
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`

	Pace PaceSetting `json:"pace" validate:"required"`
}

// Validate applies the struct tags plus the domain rules tags cannot
// express. It returns a *AppError with a validation_* code on failure.
func (r *GenerateLegRequest) Validate() error {
	if r.TripID == "" || r.LegID == "" || r.UserID == "" {
		return NewAppError(ErrCodeValidationMissingField,
			"trip_id, leg_id and user_id are required", nil)
	}
	if r.City == "" {
		return NewAppError(ErrCodeValidationInvalidCity,
			"city must not be empty", nil)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return NewAppError(ErrCodeValidationInvalidDateRange,
			"start_date and end_date are required", nil)
	}
	if r.EndDate.Before(r.StartDate) {
		return NewAppError(ErrCodeValidationInvalidDateRange,
			"end_date must not precede start_date", nil)
	}
	if !r.Pace.Valid() {
		return NewAppError(ErrCodeValidationInvalidPace,
			"pace must be one of relaxed, moderate, packed", nil)
	}
	if err := requestValidator.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return NewAppError(ErrCodeInternalUnexpected,
				"request validation failed", err)
		}
		field := verrs[0]
		details := map[string]any{"field": field.Field(), "rule": field.Tag()}
		switch field.Field() {
		case "City", "Country":
			return NewAppError(ErrCodeValidationInvalidCity,
				"city and country must be between 1 and 120 characters", nil).
				WithDetails(details)
		default:
			return NewAppError(ErrCodeValidationInvalidID,
				"trip_id, leg_id and user_id must be UUIDs", nil).
				WithDetails(details)
		}
	}
	return nil
}

// GenerationResult is the terminal outcome of a generation call.
type GenerationResult struct {
	SlotsCreated int              `json:"slots_created"`
	Source       GenerationSource `json:"source"`
}

// ClimateContext describes the climate backdrop for a (city, date) pair.
// Description is nil when the city has no seeded profile or the lookup
// failed; callers treat nil as "no context available", never as an error.
type ClimateContext struct {
	City        string  `json:"city"`
	Month       int     `json:"month"`
	Season      string  `json:"season"`
	Description *string `json:"description,omitempty"`
}

// RankingExportMessage is the SQS payload published after a successful
// generation commit. The rank-archiver worker consumes it to build the
// offline-training archive for the affected days.
type RankingExportMessage struct {
	MessageID  string    `json:"message_id"`
	TripID     string    `json:"trip_id"`
	LegID      string    `json:"leg_id"`
	UserID     string    `json:"user_id"`
	DayNumbers []int     `json:"day_numbers"`
	EventCount int       `json:"event_count"`
	EmittedAt  time.Time `json:"emitted_at"`
}
