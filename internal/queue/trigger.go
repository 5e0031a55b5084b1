// Package queue provides the SQS-based producer that announces committed
// ranking events to the offline export pipeline.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"wayfarer/internal/config"
	"wayfarer/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// ExportTrigger publishes RankingExportMessages after a generation commit.
// The rank-archiver worker consumes them to build training archives. The
// itinerary service treats publishing as best-effort; this type only reports
// the failure, it never retries.
type ExportTrigger struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
}

// NewExportTrigger creates an ExportTrigger reading the queue URL from the
// AWS configuration.
func NewExportTrigger(client SQSSender, awsCfg config.AWSConfig, logger *slog.Logger) *ExportTrigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportTrigger{
		client:   client,
		queueURL: awsCfg.RankingExportQueue,
		logger:   logger,
	}
}

// PublishRankingExport serializes the message to JSON and dispatches it to
// the export queue. The message id rides along as an SQS attribute so the
// worker can dedupe replays without parsing the body.
func (t *ExportTrigger) PublishRankingExport(ctx context.Context, msg types.RankingExportMessage) error {
	if t.queueURL == "" {
		return fmt.Errorf("queue: ranking export queue is not configured")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("queue: failed to marshal RankingExportMessage: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(t.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"message_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.MessageID),
			},
		},
	}

	if _, err := t.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("queue: failed to send RankingExportMessage to %s: %w", t.queueURL, err)
	}

	t.logger.InfoContext(ctx, "ranking export message sent",
		"queue_url", t.queueURL,
		"message_id", msg.MessageID,
		"trip_id", msg.TripID,
		"leg_id", msg.LegID,
		"event_count", msg.EventCount,
	)

	return nil
}
