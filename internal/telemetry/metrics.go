// Package telemetry emits operational metrics for itinerary generation to
// CloudWatch. A noop collector covers local development and tests.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"wayfarer/internal/types"
)

// Metric and dimension names published under the service namespace.
const (
	MetricGenerationCount   = "ItineraryGeneration"
	MetricGenerationSlots   = "ItineraryGenerationSlots"
	MetricGenerationLatency = "ItineraryGenerationLatency"

	DimSource = "Source"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics publishes generation outcomes to CloudWatch.
//
// Metrics emitted per generation call:
//   - ItineraryGeneration: Dims {Source} -- one count per call
//   - ItineraryGenerationSlots: Dims {Source} -- slots committed
//   - ItineraryGenerationLatency: Dims {Source} -- wall time in milliseconds
type CloudWatchMetrics struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchMetrics creates a collector publishing to the given namespace.
func NewCloudWatchMetrics(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchMetrics {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatchMetrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordGeneration emits the three generation metrics for one call. Metric
// publishing failures are logged and swallowed; telemetry must never affect
// the request outcome.
func (m *CloudWatchMetrics) RecordGeneration(ctx context.Context, source types.GenerationSource, slotsCreated int, duration time.Duration) {
	sourceDim := cwtypes.Dimension{
		Name:  aws.String(DimSource),
		Value: aws.String(string(source)),
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(MetricGenerationCount),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{sourceDim},
			},
			{
				MetricName: aws.String(MetricGenerationSlots),
				Value:      aws.Float64(float64(slotsCreated)),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{sourceDim},
			},
			{
				MetricName: aws.String(MetricGenerationLatency),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: []cwtypes.Dimension{sourceDim},
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.ErrorContext(ctx, "failed to record generation metrics",
			"error", err,
			"source", string(source),
			"slots_created", slotsCreated,
		)
	}
}

// NoopMetrics discards all metrics. Used in local development and as the
// default when no CloudWatch client is wired.
type NoopMetrics struct{}

// RecordGeneration does nothing.
func (NoopMetrics) RecordGeneration(context.Context, types.GenerationSource, int, time.Duration) {}
