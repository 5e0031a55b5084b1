package climate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonForMonth_AllMonths(t *testing.T) {
	tests := []struct {
		month time.Month
		want  Season
	}{
		{time.January, SeasonWinter},
		{time.February, SeasonWinter},
		{time.March, SeasonSpring},
		{time.April, SeasonSpring},
		{time.May, SeasonSpring},
		{time.June, SeasonSummer},
		{time.July, SeasonSummer},
		{time.August, SeasonSummer},
		{time.September, SeasonAutumn},
		{time.October, SeasonAutumn},
		{time.November, SeasonAutumn},
		{time.December, SeasonWinter},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonForMonth(tt.month))
		})
	}
}

func TestSeasonForMonth_Stable(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		first := SeasonForMonth(m)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, SeasonForMonth(m))
		}
	}
}

type stubSource struct {
	description string
	found       bool
	err         error
}

func (s *stubSource) DescriptionFor(_ context.Context, _ string, _ int) (string, bool, error) {
	return s.description, s.found, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_Context_Seeded(t *testing.T) {
	p := NewProvider(&stubSource{description: "Warm and dry", found: true}, testLogger())

	got := p.Context(context.Background(), "Lisbon", time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "Lisbon", got.City)
	assert.Equal(t, 7, got.Month)
	assert.Equal(t, "summer", got.Season)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Warm and dry", *got.Description)
}

func TestProvider_Context_UnseededCity(t *testing.T) {
	p := NewProvider(&stubSource{found: false}, testLogger())

	got := p.Context(context.Background(), "Ulaanbaatar", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "winter", got.Season)
	assert.Nil(t, got.Description, "unseeded city yields nil description")
}

func TestProvider_Context_LookupFailureAbsorbed(t *testing.T) {
	p := NewProvider(&stubSource{err: errors.New("timeout")}, testLogger())

	got := p.Context(context.Background(), "Lisbon", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	// Failure degrades to season-only context, never an error.
	assert.Equal(t, "autumn", got.Season)
	assert.Nil(t, got.Description)
}
