package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/types"
)

// RankingEventRepository provides append-only access to the ranking_events
// audit table. Events are write-once: there is deliberately no update or
// delete method on this repository.
type RankingEventRepository struct {
	db DBTX
}

// NewRankingEventRepository creates a RankingEventRepository backed by the
// given connection (pool or transaction).
func NewRankingEventRepository(db DBTX) *RankingEventRepository {
	return &RankingEventRepository{db: db}
}

const rankingColumns = `e.id, e.user_id, e.trip_id, e.day_number,
	e.candidate_ids, e.ranked_ids, e.selected_ids,
	e.model_name, e.model_version, e.surface, e.latency_ms, e.created_at`

// Insert appends one ranking event. The id array columns are stored as
// Postgres text[]; pgx handles the []string conversion natively.
func (r *RankingEventRepository) Insert(ctx context.Context, event types.RankingEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO ranking_events
		(id, user_id, trip_id, day_number, candidate_ids, ranked_ids, selected_ids,
		 model_name, model_version, surface, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := r.db.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.TripID,
		event.DayNumber,
		event.CandidateIDs,
		event.RankedIDs,
		event.SelectedIDs,
		event.ModelName,
		event.ModelVersion,
		event.Surface,
		event.LatencyMs,
		event.CreatedAt,
	); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to insert ranking event", err).
			WithDetails(map[string]any{"trip_id": event.TripID, "day_number": event.DayNumber})
	}

	return nil
}

// ListByTripDays returns the ranking events of a trip restricted to the given
// day numbers, ordered by day ascending. The rank-archiver worker uses this
// to build export archives.
func (r *RankingEventRepository) ListByTripDays(ctx context.Context, tripID string, dayNumbers []int) ([]types.RankingEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM ranking_events e
		WHERE e.trip_id = $1 AND e.day_number = ANY($2)
		ORDER BY e.day_number ASC, e.created_at ASC`, rankingColumns)

	rows, err := r.db.Query(ctx, query, tripID, dayNumbers)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query ranking events", err)
	}
	defer rows.Close()

	var events []types.RankingEvent
	for rows.Next() {
		var e types.RankingEvent
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.TripID, &e.DayNumber,
			&e.CandidateIDs, &e.RankedIDs, &e.SelectedIDs,
			&e.ModelName, &e.ModelVersion, &e.Surface, &e.LatencyMs, &e.CreatedAt,
		); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan ranking event row", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate ranking event rows", err)
	}

	return events, nil
}
