package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wayfarer/internal/types"
)

// LegRepository provides read access to the trip_legs table. Legs are created
// and corrected by the trip-management service; the itinerary generator only
// reads them.
type LegRepository struct {
	db DBTX
}

// NewLegRepository creates a LegRepository backed by the given connection
// (pool or transaction).
func NewLegRepository(db DBTX) *LegRepository {
	return &LegRepository{db: db}
}

const legColumns = `l.id, l.trip_id, l.position, l.city, l.country, l.timezone,
	l.start_date, l.end_date, l.created_at, l.updated_at`

// scanLeg scans a single leg row. Column order must match legColumns.
func scanLeg(row pgx.Row) (*types.Leg, error) {
	var leg types.Leg
	err := row.Scan(
		&leg.ID,
		&leg.TripID,
		&leg.Position,
		&leg.City,
		&leg.Country,
		&leg.Timezone,
		&leg.StartDate,
		&leg.EndDate,
		&leg.CreatedAt,
		&leg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &leg, nil
}

// ListByTrip returns all legs of a trip ordered by position ascending. The
// position ordering is load-bearing: absolute day numbers are computed by
// summing day counts over preceding legs in this order.
func (r *LegRepository) ListByTrip(ctx context.Context, tripID string) ([]types.Leg, error) {
	query := fmt.Sprintf(`SELECT %s FROM trip_legs l WHERE l.trip_id = $1 ORDER BY l.position ASC`, legColumns)

	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query trip legs", err)
	}
	defer rows.Close()

	var legs []types.Leg
	for rows.Next() {
		leg, err := scanLeg(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan leg row", err)
		}
		legs = append(legs, *leg)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate leg rows", err)
	}

	return legs, nil
}

// GetByID returns a single leg, or an AppError with ErrCodeNotFoundLeg when
// absent.
func (r *LegRepository) GetByID(ctx context.Context, legID string) (*types.Leg, error) {
	query := fmt.Sprintf(`SELECT %s FROM trip_legs l WHERE l.id = $1`, legColumns)

	leg, err := scanLeg(r.db.QueryRow(ctx, query, legID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundLeg, "leg not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to fetch leg", err)
	}
	return leg, nil
}
