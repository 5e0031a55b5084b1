package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"wayfarer/internal/types"
)

// ActivityReader is the candidate-pool lookup contract.
type ActivityReader interface {
	CountByCity(ctx context.Context, city, country string) (int, error)
	ListByCity(ctx context.Context, city, country string) ([]types.ActivityNode, error)
}

// LegReader lists a trip's legs ordered by position.
type LegReader interface {
	ListByTrip(ctx context.Context, tripID string) ([]types.Leg, error)
}

// PersonaSource computes the sparse preference snapshot for a user.
type PersonaSource interface {
	Snapshot(ctx context.Context, userID string) (map[string]float64, error)
}

// ClimateSource resolves advisory climate context. Implementations absorb
// their own failures; Context never errors.
type ClimateSource interface {
	Context(ctx context.Context, city string, date time.Time) types.ClimateContext
}

// GenerationTx is the atomic commit unit for one generation call. Every
// write method operates inside the transaction opened by
// GenerationDB.BeginGeneration; either all of them land or none do.
type GenerationTx interface {
	// AcquireLegLock serializes concurrent commits for the same leg.
	AcquireLegLock(ctx context.Context, tripID, legID string) error
	InsertSlots(ctx context.Context, slots []types.Slot) error
	InsertSignal(ctx context.Context, signal types.BehavioralSignal) error
	InsertRankingEvent(ctx context.Context, event types.RankingEvent) error

	// Commit commits the transaction.
	Commit(ctx context.Context) error
	// Rollback rolls back the transaction. Safe to call after Commit (no-op).
	Rollback(ctx context.Context) error
}

// GenerationDB opens generation commit transactions.
type GenerationDB interface {
	BeginGeneration(ctx context.Context) (GenerationTx, error)
}

// ExportPublisher announces committed ranking events to the offline training
// pipeline. Publishing is best-effort: a failure is logged, never surfaced to
// the caller.
type ExportPublisher interface {
	PublishRankingExport(ctx context.Context, msg types.RankingExportMessage) error
}

// Metrics is the telemetry contract for generation outcomes.
type Metrics interface {
	RecordGeneration(ctx context.Context, source types.GenerationSource, slotsCreated int, duration time.Duration)
}

// Service orchestrates itinerary generation for a single leg. One synchronous
// call per request; scoring and scheduling are pure in-memory computations
// over a bounded pool, so no internal parallelism is used.
type Service struct {
	activities ActivityReader
	legs       LegReader
	persona    PersonaSource
	climate    ClimateSource
	db         GenerationDB
	publisher  ExportPublisher
	metrics    Metrics
	logger     *slog.Logger

	weights ScoringWeights

	// inflight coalesces concurrent generation calls for the same leg
	// within this process; cross-instance duplicates are serialized by the
	// transaction-scoped leg lock.
	inflight singleflight.Group

	// now is injectable for deterministic latency in tests.
	now func() time.Time
}

// NewService wires a generation Service. publisher and metrics may be nil;
// both degrade to no-ops.
func NewService(
	activities ActivityReader,
	legs LegReader,
	personaSrc PersonaSource,
	climateSrc ClimateSource,
	generationDB GenerationDB,
	publisher ExportPublisher,
	metrics Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		activities: activities,
		legs:       legs,
		persona:    personaSrc,
		climate:    climateSrc,
		db:         generationDB,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		weights:    DefaultScoringWeights(),
		now:        time.Now,
	}
}

// Generate runs the full generation state machine for one leg:
//
//	START -> EMPTY                       (no candidate pool; zero writes)
//	START -> SCORED -> SCHEDULED -> COMMIT -> DONE
//
// Validation failures reject the call before any read or write. A commit
// failure propagates to the caller with nothing applied; retry policy, if
// any, belongs to the caller.
func (s *Service) Generate(ctx context.Context, req types.GenerateLegRequest) (types.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return types.GenerationResult{}, err
	}

	key := req.TripID + ":" + req.LegID
	result, err, shared := s.inflight.Do(key, func() (any, error) {
		return s.generate(ctx, req)
	})
	if err != nil {
		return types.GenerationResult{}, err
	}
	if shared {
		s.logger.InfoContext(ctx, "coalesced concurrent generation call",
			"trip_id", req.TripID,
			"leg_id", req.LegID,
		)
	}

	return result.(types.GenerationResult), nil
}

func (s *Service) generate(ctx context.Context, req types.GenerateLegRequest) (types.GenerationResult, error) {
	started := s.now()

	// START: cheap pool pre-check. An empty pool is the defined terminal
	// "nothing to do" state: no slots, no transaction, no ranking events,
	// no signal.
	poolSize, err := s.activities.CountByCity(ctx, req.City, req.Country)
	if err != nil {
		return types.GenerationResult{}, fmt.Errorf("counting candidate pool: %w", err)
	}
	if poolSize == 0 {
		s.logger.InfoContext(ctx, "no candidate pool for city; nothing to generate",
			"trip_id", req.TripID,
			"leg_id", req.LegID,
			"city", req.City,
		)
		result := types.GenerationResult{SlotsCreated: 0, Source: types.GenerationSourceEmpty}
		s.recordMetrics(ctx, result, s.now().Sub(started))
		return result, nil
	}

	// SCORED: load inputs and rank the pool. Climate context failures are
	// absorbed inside the provider; everything else is fatal.
	pool, err := s.activities.ListByCity(ctx, req.City, req.Country)
	if err != nil {
		return types.GenerationResult{}, fmt.Errorf("loading candidate pool: %w", err)
	}

	snapshot, err := s.persona.Snapshot(ctx, req.UserID)
	if err != nil {
		return types.GenerationResult{}, fmt.Errorf("computing persona snapshot: %w", err)
	}

	climateCtx := s.climate.Context(ctx, req.City, req.StartDate)

	scoringStart := s.now()
	ranked := RankCandidates(pool, snapshot, s.weights)

	// SCHEDULED: distribute the ranking across the leg's days.
	slotsPerDay, _ := req.Pace.SlotsPerDay()
	dayCount := inclusiveDayCount(req.StartDate, req.EndDate)
	plans := BuildDayPlans(ranked, slotsPerDay, dayCount)

	legs, err := s.legs.ListByTrip(ctx, req.TripID)
	if err != nil {
		return types.GenerationResult{}, fmt.Errorf("loading trip legs: %w", err)
	}

	candidateIDs := poolIDs(pool)
	orderedIDs := rankedIDs(ranked)
	latency := s.now().Sub(scoringStart)

	slots := buildSlots(req.TripID, req.LegID, plans, func(relativeDay int) int {
		return AbsoluteDay(legs, req.LegID, relativeDay, s.logger)
	})

	events := make([]types.RankingEvent, 0, len(plans))
	for _, plan := range plans {
		events = append(events, buildRankingEvent(
			req.UserID,
			req.TripID,
			AbsoluteDay(legs, req.LegID, plan.Day, nil),
			candidateIDs,
			orderedIDs,
			plan,
			latency,
		))
	}

	signal := types.BehavioralSignal{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		RawAction:  fmt.Sprintf("generated %s itinerary for %s (%s, %d days)", req.Pace, req.City, climateCtx.Season, dayCount),
		SignalType: types.SignalTypePaceContext,
		Source:     types.SourceUserAction,
		CreatedAt:  s.now().UTC(),
	}

	// COMMIT: one transaction for the slot batch, the generation signal,
	// and every per-day ranking event. Partial application would corrupt
	// the training audit trail and must never be observable.
	if err := s.commit(ctx, req, slots, signal, events); err != nil {
		return types.GenerationResult{}, err
	}

	result := types.GenerationResult{
		SlotsCreated: len(slots),
		Source:       types.GenerationSourceGenerated,
	}

	s.logger.InfoContext(ctx, "itinerary generated",
		"trip_id", req.TripID,
		"leg_id", req.LegID,
		"city", req.City,
		"pool_size", poolSize,
		"days", dayCount,
		"slots_created", result.SlotsCreated,
	)

	s.recordMetrics(ctx, result, s.now().Sub(started))
	s.publishExport(ctx, req, events)

	return result, nil
}

// commit applies all generation writes atomically.
func (s *Service) commit(
	ctx context.Context,
	req types.GenerateLegRequest,
	slots []types.Slot,
	signal types.BehavioralSignal,
	events []types.RankingEvent,
) error {
	tx, err := s.db.BeginGeneration(ctx)
	if err != nil {
		return fmt.Errorf("opening generation transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.AcquireLegLock(ctx, req.TripID, req.LegID); err != nil {
		return fmt.Errorf("locking leg for generation: %w", err)
	}
	if err := tx.InsertSlots(ctx, slots); err != nil {
		return fmt.Errorf("inserting slots: %w", err)
	}
	if err := tx.InsertSignal(ctx, signal); err != nil {
		return fmt.Errorf("inserting generation signal: %w", err)
	}
	for _, event := range events {
		if err := tx.InsertRankingEvent(ctx, event); err != nil {
			return fmt.Errorf("inserting ranking event for day %d: %w", event.DayNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing generation: %w", err)
	}

	return nil
}

// recordMetrics is a nil-safe metrics hook.
func (s *Service) recordMetrics(ctx context.Context, result types.GenerationResult, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordGeneration(ctx, result.Source, result.SlotsCreated, duration)
}

// publishExport announces the committed ranking events. Failures are logged
// and swallowed: the commit already succeeded and export is asynchronous by
// design.
func (s *Service) publishExport(ctx context.Context, req types.GenerateLegRequest, events []types.RankingEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}

	dayNumbers := make([]int, len(events))
	for i, e := range events {
		dayNumbers[i] = e.DayNumber
	}

	msg := types.RankingExportMessage{
		MessageID:  uuid.NewString(),
		TripID:     req.TripID,
		LegID:      req.LegID,
		UserID:     req.UserID,
		DayNumbers: dayNumbers,
		EventCount: len(events),
		EmittedAt:  s.now().UTC(),
	}

	if err := s.publisher.PublishRankingExport(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish ranking export trigger",
			"trip_id", req.TripID,
			"leg_id", req.LegID,
			"error", err,
		)
	}
}
