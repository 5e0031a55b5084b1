package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wayfarer/internal/types"
)

// GenerationStore is the pool-backed entry point for the generation commit.
// It satisfies the itinerary service's GenerationDB contract: every write of
// a generation call (slot batch, pace signal, per-day ranking events) happens
// inside one transaction so the audit trail can never diverge from the
// user-facing slots.
type GenerationStore struct {
	pool *pgxpool.Pool
}

// NewGenerationStore creates a GenerationStore over the given pool.
func NewGenerationStore(pool *pgxpool.Pool) *GenerationStore {
	return &GenerationStore{pool: pool}
}

// BeginGeneration opens the commit transaction. The returned GenerationTx
// must be committed or rolled back by the caller.
func (s *GenerationStore) BeginGeneration(ctx context.Context) (*GenerationTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to begin generation transaction", err)
	}
	return newGenerationTx(tx), nil
}

// GenerationTx wraps a pgx transaction with the typed write operations of the
// generation commit. The repositories are bound to the transaction, so every
// operation is part of the same atomic unit.
type GenerationTx struct {
	tx       pgx.Tx
	slots    *SlotRepository
	signals  *SignalRepository
	rankings *RankingEventRepository
}

func newGenerationTx(tx pgx.Tx) *GenerationTx {
	return &GenerationTx{
		tx:       tx,
		slots:    NewSlotRepository(tx),
		signals:  NewSignalRepository(tx),
		rankings: NewRankingEventRepository(tx),
	}
}

// AcquireLegLock takes a transaction-scoped advisory lock keyed by
// (tripID, legID). A concurrent generation commit for the same leg blocks
// here until this transaction finishes, closing the double-write window
// between overlapping calls. The lock releases automatically at commit or
// rollback.
func (t *GenerationTx) AcquireLegLock(ctx context.Context, tripID, legID string) error {
	if _, err := t.tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		tripID+":"+legID,
	); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to acquire generation lock", err).
			WithDetails(map[string]any{"leg_id": legID})
	}
	return nil
}

// InsertSlots batch-inserts the generated slots.
func (t *GenerationTx) InsertSlots(ctx context.Context, slots []types.Slot) error {
	return t.slots.InsertBatch(ctx, slots)
}

// InsertSignal records the single pace/context signal for the generation act.
func (t *GenerationTx) InsertSignal(ctx context.Context, signal types.BehavioralSignal) error {
	return t.signals.Insert(ctx, signal)
}

// InsertRankingEvent appends one per-day ranking audit event.
func (t *GenerationTx) InsertRankingEvent(ctx context.Context, event types.RankingEvent) error {
	return t.rankings.Insert(ctx, event)
}

// Commit commits the transaction.
func (t *GenerationTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to commit generation transaction", err)
	}
	return nil
}

// Rollback rolls back the transaction. Safe to call after Commit (no-op).
func (t *GenerationTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to roll back generation transaction", err)
	}
	return nil
}
