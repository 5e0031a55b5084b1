package telemetry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"wayfarer/internal/types"
)

// mockCloudWatchClient records PutMetricData calls for verification.
type mockCloudWatchClient struct {
	calls     []*cloudwatch.PutMetricDataInput
	returnErr error
}

func (m *mockCloudWatchClient) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.calls = append(m.calls, params)
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func assertDimension(t *testing.T, dims []cwtypes.Dimension, name, value string) {
	t.Helper()
	for _, d := range dims {
		if *d.Name == name {
			if *d.Value != value {
				t.Errorf("dimension %s: expected %q, got %q", name, value, *d.Value)
			}
			return
		}
	}
	t.Errorf("dimension %s not found", name)
}

func TestCloudWatchMetrics_RecordGeneration(t *testing.T) {
	cw := &mockCloudWatchClient{}
	metrics := NewCloudWatchMetrics(cw, "Wayfarer", nil)

	metrics.RecordGeneration(context.Background(), types.GenerationSourceGenerated, 8, 125*time.Millisecond)

	if len(cw.calls) != 1 {
		t.Fatalf("expected 1 PutMetricData call, got %d", len(cw.calls))
	}

	input := cw.calls[0]
	if *input.Namespace != "Wayfarer" {
		t.Errorf("expected namespace Wayfarer, got %q", *input.Namespace)
	}
	if len(input.MetricData) != 3 {
		t.Fatalf("expected 3 metric data, got %d", len(input.MetricData))
	}

	byName := map[string]cwtypes.MetricDatum{}
	for _, d := range input.MetricData {
		byName[*d.MetricName] = d
	}

	count, ok := byName[MetricGenerationCount]
	if !ok {
		t.Fatalf("missing %s datum", MetricGenerationCount)
	}
	if *count.Value != 1.0 {
		t.Errorf("expected count 1.0, got %f", *count.Value)
	}
	if count.Unit != cwtypes.StandardUnitCount {
		t.Errorf("expected unit Count, got %s", count.Unit)
	}
	assertDimension(t, count.Dimensions, DimSource, string(types.GenerationSourceGenerated))

	slots, ok := byName[MetricGenerationSlots]
	if !ok {
		t.Fatalf("missing %s datum", MetricGenerationSlots)
	}
	if *slots.Value != 8.0 {
		t.Errorf("expected slots 8.0, got %f", *slots.Value)
	}

	latency, ok := byName[MetricGenerationLatency]
	if !ok {
		t.Fatalf("missing %s datum", MetricGenerationLatency)
	}
	if *latency.Value != 125.0 {
		t.Errorf("expected latency 125ms, got %f", *latency.Value)
	}
	if latency.Unit != cwtypes.StandardUnitMilliseconds {
		t.Errorf("expected unit Milliseconds, got %s", latency.Unit)
	}
}

func TestCloudWatchMetrics_EmptySourceDimension(t *testing.T) {
	cw := &mockCloudWatchClient{}
	metrics := NewCloudWatchMetrics(cw, "Wayfarer", nil)

	metrics.RecordGeneration(context.Background(), types.GenerationSourceEmpty, 0, time.Millisecond)

	datum := cw.calls[0].MetricData[0]
	assertDimension(t, datum.Dimensions, DimSource, string(types.GenerationSourceEmpty))
}

func TestCloudWatchMetrics_PublishFailureIsSwallowed(t *testing.T) {
	cw := &mockCloudWatchClient{returnErr: fmt.Errorf("access denied")}
	metrics := NewCloudWatchMetrics(cw, "Wayfarer", nil)

	// Must not panic or propagate.
	metrics.RecordGeneration(context.Background(), types.GenerationSourceGenerated, 4, time.Second)

	if len(cw.calls) != 1 {
		t.Fatalf("expected the call to be attempted, got %d", len(cw.calls))
	}
}

func TestNoopMetrics(t *testing.T) {
	NoopMetrics{}.RecordGeneration(context.Background(), types.GenerationSourceGenerated, 4, time.Second)
}
