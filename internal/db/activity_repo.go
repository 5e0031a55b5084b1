package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wayfarer/internal/types"
)

// ActivityRepository provides read access to the activity_nodes table, which
// holds the candidate pool of location-bound points of interest. The table is
// populated by the ingestion pipeline and is strictly read-only here.
type ActivityRepository struct {
	db DBTX
}

// NewActivityRepository creates an ActivityRepository backed by the given
// connection (pool or transaction).
func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `a.id, a.name, a.city, a.country, a.category,
	a.location_lat, a.location_lon, a.convergence_score, a.authority_score, a.created_at`

// scanActivity scans a single activity row. Column order must match
// activityColumns.
func scanActivity(row pgx.Row) (*types.ActivityNode, error) {
	var node types.ActivityNode
	err := row.Scan(
		&node.ID,
		&node.Name,
		&node.City,
		&node.Country,
		&node.Category,
		&node.Location.Lat,
		&node.Location.Lon,
		&node.ConvergenceScore,
		&node.AuthorityScore,
		&node.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// CountByCity returns the number of eligible candidate activities for a city.
// The generator uses this as a cheap pre-check: a zero count short-circuits
// the whole generation call before any scoring work.
func (r *ActivityRepository) CountByCity(ctx context.Context, city, country string) (int, error) {
	const query = `SELECT COUNT(*) FROM activity_nodes a
		WHERE a.city = $1 AND a.country = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, city, country).Scan(&count); err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count activities", err)
	}
	return count, nil
}

// ListByCity returns the full candidate pool for a city ordered by id
// ascending. The stable ordering matters: it is the tie-break baseline that
// keeps ranking events reproducible.
func (r *ActivityRepository) ListByCity(ctx context.Context, city, country string) ([]types.ActivityNode, error) {
	query := fmt.Sprintf(`SELECT %s FROM activity_nodes a
		WHERE a.city = $1 AND a.country = $2
		ORDER BY a.id ASC`, activityColumns)

	rows, err := r.db.Query(ctx, query, city, country)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query activities", err)
	}
	defer rows.Close()

	var nodes []types.ActivityNode
	for rows.Next() {
		node, err := scanActivity(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan activity row", err)
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate activity rows", err)
	}

	return nodes, nil
}
