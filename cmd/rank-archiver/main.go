// Package main is the entrypoint for the Rank Archiver Lambda function.
//
// The Rank Archiver consumes RankingExportMessage payloads from the ranking
// export SQS queue, loads the referenced ranking events from the database,
// encodes them as a zstd-compressed NDJSON archive, and writes the archive to
// the configured object store. It implements the SQS Lambda handler pattern
// where each invocation receives a batch of SQS messages; records that fail
// are reported via partial batch responses so SQS retries only those.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"wayfarer/internal/archive"
	"wayfarer/internal/config"
	"wayfarer/internal/db"
	"wayfarer/internal/types"
)

// EventLister loads ranking events for an archive request. Implemented by
// db.RankingEventRepository.
type EventLister interface {
	ListByTripDays(ctx context.Context, tripID string, dayNumbers []int) ([]types.RankingEvent, error)
}

// ObjectStore persists a finished archive under a key. The filesystem
// implementation below covers local runs and Lambda's /tmp; an S3-backed
// implementation can be dropped in without touching the handler.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader) error
}

// Handler holds the dependencies for the rank archiver Lambda handler.
type Handler struct {
	events EventLister
	store  ObjectStore
	logger *slog.Logger
}

// Handle processes an SQS event containing one or more export messages. Each
// message is processed independently; failures are returned in
// batchItemFailures so SQS retries them without replaying the whole batch.
func (h *Handler) Handle(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	response := events.SQSEventResponse{}

	for _, record := range sqsEvent.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.ErrorContext(ctx, "failed to process export message",
				"sqs_message_id", record.MessageId,
				"error", err,
			)
			response.BatchItemFailures = append(response.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId},
			)
		}
	}

	return response, nil
}

// processRecord archives the ranking events referenced by a single message.
func (h *Handler) processRecord(ctx context.Context, record events.SQSMessage) error {
	var msg types.RankingExportMessage
	if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal export message",
			"sqs_message_id", record.MessageId,
			"error", err,
		)
		// Permanent parse failure, retrying cannot help. ACK and move on.
		return nil
	}

	if msg.TripID == "" || len(msg.DayNumbers) == 0 {
		h.logger.WarnContext(ctx, "export message missing trip or days, skipping",
			"message_id", msg.MessageID,
		)
		return nil
	}

	logger := h.logger.With(
		"message_id", msg.MessageID,
		"trip_id", msg.TripID,
		"leg_id", msg.LegID,
	)

	rankingEvents, err := h.events.ListByTripDays(ctx, msg.TripID, msg.DayNumbers)
	if err != nil {
		return fmt.Errorf("loading ranking events: %w", err)
	}
	if len(rankingEvents) == 0 {
		logger.WarnContext(ctx, "no ranking events found for export, skipping",
			"day_numbers", msg.DayNumbers,
		)
		return nil
	}

	var buf bytes.Buffer
	if err := archive.WriteEvents(&buf, rankingEvents); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}

	key := archiveKey(msg)
	compressedBytes := buf.Len()
	if err := h.store.Put(ctx, key, &buf); err != nil {
		return fmt.Errorf("storing archive %s: %w", key, err)
	}

	logger.InfoContext(ctx, "ranking archive written",
		"key", key,
		"event_count", len(rankingEvents),
		"compressed_bytes", compressedBytes,
	)

	return nil
}

// archiveKey builds a deterministic, per-message object key. Re-delivery of
// the same message overwrites the same object, keeping archiving idempotent.
func archiveKey(msg types.RankingExportMessage) string {
	emitted := msg.EmittedAt
	if emitted.IsZero() {
		emitted = time.Now().UTC()
	}
	return fmt.Sprintf("rankings/%s/%s/%s-%s.ndjson.zst",
		msg.TripID,
		msg.LegID,
		emitted.UTC().Format("20060102T150405Z"),
		msg.MessageID,
	)
}

// FilesystemStore writes archives under a base directory, creating the key's
// parent directories as needed.
type FilesystemStore struct {
	BaseDir string
}

func (s FilesystemStore) Put(_ context.Context, key string, body io.Reader) error {
	path := filepath.Join(s.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("writing archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing archive file: %w", err)
	}
	return nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("rank archiver initializing (cold start)")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	archiveDir := os.Getenv("ARCHIVE_DIR")
	if archiveDir == "" {
		// Lambda only guarantees /tmp to be writable.
		archiveDir = "/tmp/wayfarer-archives"
	}

	handler := &Handler{
		events: db.NewRankingEventRepository(pool),
		store:  FilesystemStore{BaseDir: archiveDir},
		logger: logger,
	}

	logger.Info("rank archiver initialized", "archive_dir", archiveDir)

	// Local mode: read a JSON SQS event from stdin instead of starting the
	// Lambda runtime. Enables local integration testing without the RIE.
	if cfg.IsLocal() {
		logger.Info("APP_ENV=local: reading SQS event from stdin")
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("failed to read stdin", "error", err)
			os.Exit(1)
		}
		var sqsEvent events.SQSEvent
		if err := json.Unmarshal(payload, &sqsEvent); err != nil {
			logger.Error("failed to parse stdin as SQS event", "error", err)
			os.Exit(1)
		}
		response, err := handler.Handle(context.Background(), sqsEvent)
		if err != nil {
			logger.Error("handler execution failed", "error", err)
			os.Exit(1)
		}
		logger.Info("handler execution completed",
			"records_processed", len(sqsEvent.Records),
			"failures", len(response.BatchItemFailures),
		)
		if len(response.BatchItemFailures) > 0 {
			os.Exit(1)
		}
		return
	}

	lambda.Start(handler.Handle)
}
