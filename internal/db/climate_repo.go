package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"wayfarer/internal/types"
)

// ClimateRepository reads seeded (city, month) climate descriptions. Unseeded
// cities are the common case and are reported via the found flag rather than
// an error.
type ClimateRepository struct {
	db DBTX
}

// NewClimateRepository creates a ClimateRepository backed by the given
// connection (pool or transaction).
func NewClimateRepository(db DBTX) *ClimateRepository {
	return &ClimateRepository{db: db}
}

// DescriptionFor returns the climate description for a (city, month) pair.
// The second return value is false when no profile is seeded for the pair.
func (r *ClimateRepository) DescriptionFor(ctx context.Context, city string, month int) (string, bool, error) {
	const query = `SELECT c.description FROM climate_profiles c
		WHERE LOWER(c.city) = LOWER($1) AND c.month = $2`

	var description string
	err := r.db.QueryRow(ctx, query, city, month).Scan(&description)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, types.NewAppError(types.ErrCodeInternalDB, "failed to fetch climate profile", err)
	}

	return description, true, nil
}
