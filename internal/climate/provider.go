package climate

import (
	"context"
	"log/slog"
	"time"

	"wayfarer/internal/types"
)

// DescriptionSource is the narrow lookup contract for seeded climate
// descriptions keyed by (city, month). Implemented by the database profile
// repository and by the optional remote climate client.
type DescriptionSource interface {
	DescriptionFor(ctx context.Context, city string, month int) (description string, found bool, err error)
}

// Provider resolves climate context for a city and date. Lookup failures and
// unseeded cities both resolve to a nil description: climate context is
// advisory and must never fail a generation call.
type Provider struct {
	source DescriptionSource
	logger *slog.Logger
}

// NewProvider creates a Provider over the given description source.
func NewProvider(source DescriptionSource, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{source: source, logger: logger}
}

// Context returns the climate context for the city at the given date. The
// season is derived purely from the month; the description comes from the
// source when seeded. No retries, no caching: the caller treats a nil
// description as "no context available", never as an error.
func (p *Provider) Context(ctx context.Context, city string, date time.Time) types.ClimateContext {
	month := date.Month()

	out := types.ClimateContext{
		City:   city,
		Month:  int(month),
		Season: string(SeasonForMonth(month)),
	}

	description, found, err := p.source.DescriptionFor(ctx, city, int(month))
	if err != nil {
		// Absorbed: climate context degrades to season-only.
		p.logger.WarnContext(ctx, "climate description lookup failed",
			"city", city,
			"month", int(month),
			"error", err,
		)
		return out
	}
	if found {
		out.Description = &description
	}

	return out
}
