package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/types"
)

// SignalRepository provides access to the behavioral_signals table: recent
// reads for persona aggregation, and the single pace/context insert per
// generation call.
type SignalRepository struct {
	db DBTX
}

// NewSignalRepository creates a SignalRepository backed by the given
// connection (pool or transaction).
func NewSignalRepository(db DBTX) *SignalRepository {
	return &SignalRepository{db: db}
}

// ListRecentByUser returns up to limit signals for the user restricted to the
// given provenance source, newest first. Persona aggregation calls this with
// SourceUserAction and limit 200.
func (r *SignalRepository) ListRecentByUser(ctx context.Context, userID string, source types.SignalSource, limit int) ([]types.BehavioralSignal, error) {
	const query = `SELECT s.id, s.user_id, s.raw_action, s.signal_type, s.source, s.created_at
		FROM behavioral_signals s
		WHERE s.user_id = $1 AND s.source = $2
		ORDER BY s.created_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, userID, source, limit)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query behavioral signals", err)
	}
	defer rows.Close()

	var signals []types.BehavioralSignal
	for rows.Next() {
		var s types.BehavioralSignal
		if err := rows.Scan(&s.ID, &s.UserID, &s.RawAction, &s.SignalType, &s.Source, &s.CreatedAt); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan signal row", err)
		}
		signals = append(signals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate signal rows", err)
	}

	return signals, nil
}

// Insert appends one behavioral signal. The id and created_at are assigned
// here when unset so callers can pass a bare value struct.
func (r *SignalRepository) Insert(ctx context.Context, signal types.BehavioralSignal) error {
	if signal.ID == "" {
		signal.ID = uuid.NewString()
	}
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO behavioral_signals (id, user_id, raw_action, signal_type, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.Exec(ctx, query,
		signal.ID,
		signal.UserID,
		signal.RawAction,
		signal.SignalType,
		signal.Source,
		signal.CreatedAt,
	); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to insert behavioral signal", err)
	}

	return nil
}
