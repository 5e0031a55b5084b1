package types

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGenerateRequest() GenerateLegRequest {
	return GenerateLegRequest{
		TripID:    "0a8a43d2-3c70-4a6e-b6e5-9f1a2b3c4d5e",
		LegID:     "1b9b54e3-4d81-4b7f-a7f6-0a2b3c4d5e6f",
		UserID:    "2cac65f4-5e92-4c80-b807-1b3c4d5e6f70",
		City:      "Lisbon",
		Country:   "Portugal",
		StartDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC),
		Pace:      PaceModerate,
	}
}

func TestGenerateLegRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*GenerateLegRequest)
		wantCode ErrorCode
	}{
		{
			name:   "valid request passes",
			mutate: func(r *GenerateLegRequest) {},
		},
		{
			name:     "missing trip id",
			mutate:   func(r *GenerateLegRequest) { r.TripID = "" },
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name:     "missing user id",
			mutate:   func(r *GenerateLegRequest) { r.UserID = "" },
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name:     "non-uuid trip id",
			mutate:   func(r *GenerateLegRequest) { r.TripID = "not-a-uuid" },
			wantCode: ErrCodeValidationInvalidID,
		},
		{
			name:     "non-uuid user id",
			mutate:   func(r *GenerateLegRequest) { r.UserID = "user-1" },
			wantCode: ErrCodeValidationInvalidID,
		},
		{
			name:     "empty city",
			mutate:   func(r *GenerateLegRequest) { r.City = "" },
			wantCode: ErrCodeValidationInvalidCity,
		},
		{
			name:     "overlong city",
			mutate:   func(r *GenerateLegRequest) { r.City = strings.Repeat("x", 121) },
			wantCode: ErrCodeValidationInvalidCity,
		},
		{
			name:     "zero start date",
			mutate:   func(r *GenerateLegRequest) { r.StartDate = time.Time{} },
			wantCode: ErrCodeValidationInvalidDateRange,
		},
		{
			name: "end before start",
			mutate: func(r *GenerateLegRequest) {
				r.EndDate = r.StartDate.AddDate(0, 0, -1)
			},
			wantCode: ErrCodeValidationInvalidDateRange,
		},
		{
			name:     "unknown pace",
			mutate:   func(r *GenerateLegRequest) { r.Pace = PaceSetting("sprint") },
			wantCode: ErrCodeValidationInvalidPace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGenerateRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestGenerateLegRequest_Validate_SameDayRange(t *testing.T) {
	// A same-day range is a valid one-day leg, not an inverted range.
	req := validGenerateRequest()
	req.EndDate = req.StartDate

	assert.NoError(t, req.Validate())
}

func TestPaceSetting_SlotsPerDay(t *testing.T) {
	tests := []struct {
		pace      PaceSetting
		wantSlots int
		wantOK    bool
	}{
		{PaceRelaxed, 2, true},
		{PaceModerate, 4, true},
		{PacePacked, 6, true},
		{PaceSetting("sprint"), 0, false},
		{PaceSetting(""), 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.pace), func(t *testing.T) {
			n, ok := tt.pace.SlotsPerDay()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSlots, n)
			assert.Equal(t, tt.wantOK, tt.pace.Valid())
		})
	}
}
