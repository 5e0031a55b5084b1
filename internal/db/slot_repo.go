package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/types"
)

// SlotRepository provides the batch insert used by the generation commit.
// Later slot mutations (accept, skip, reorder) belong to trip-management
// flows and are not implemented here; the generator never updates or deletes
// slots.
type SlotRepository struct {
	db DBTX
}

// NewSlotRepository creates a SlotRepository backed by the given connection
// (pool or transaction).
func NewSlotRepository(db DBTX) *SlotRepository {
	return &SlotRepository{db: db}
}

// InsertBatch inserts all slots of a generation call. Ids and timestamps are
// assigned for slots that lack them. Intended to run inside the generation
// transaction so the batch lands atomically with the signal and ranking
// events.
func (r *SlotRepository) InsertBatch(ctx context.Context, slots []types.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	const query = `INSERT INTO itinerary_slots
		(id, trip_id, leg_id, day_number, sort_order, slot_type, status, activity_node_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now().UTC()
	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if slot.UpdatedAt.IsZero() {
			slot.UpdatedAt = now
		}

		if _, err := r.db.Exec(ctx, query,
			slot.ID,
			slot.TripID,
			slot.LegID,
			slot.DayNumber,
			slot.SortOrder,
			slot.SlotType,
			slot.Status,
			slot.ActivityNodeID,
			slot.CreatedAt,
			slot.UpdatedAt,
		); err != nil {
			return types.NewAppError(types.ErrCodeInternalDB, "failed to insert itinerary slot", err).
				WithDetails(map[string]any{"day_number": slot.DayNumber, "sort_order": slot.SortOrder})
		}
	}

	return nil
}
