package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*GenerationMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	m, err := NewGenerationMetricsWithProvider(provider)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		assert.Equal(t, MeterName, sm.Scope.Name)
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func counterTotal(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestGenerationMetrics_Creation(t *testing.T) {
	m, err := NewGenerationMetrics()
	require.NoError(t, err)
	assert.NotNil(t, m.generatedCounter)
	assert.NotNil(t, m.failedCounter)
	assert.NotNil(t, m.fallbackCounter)
	assert.NotNil(t, m.barcodeFailures)
	assert.NotNil(t, m.durationHistogram)
}

func TestGenerationMetrics_Record(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordGenerated(ctx, "MAZE_VERTICAL", 12*time.Millisecond)
	m.RecordGenerated(ctx, "RIDDLE", time.Millisecond)
	m.RecordFailed(ctx, "KAKURO", time.Millisecond)
	m.RecordFallback(ctx, "HASHI")
	m.RecordBarcodeFailure(ctx)

	got := collect(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, got["receipt_escape.puzzles.generated"]))
	assert.Equal(t, int64(1), counterTotal(t, got["receipt_escape.puzzles.failed"]))
	assert.Equal(t, int64(1), counterTotal(t, got["receipt_escape.puzzles.fallback"]))
	assert.Equal(t, int64(1), counterTotal(t, got["receipt_escape.barcodes.failed"]))

	hist, ok := got["receipt_escape.puzzle.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestGenerationMetrics_FallbackAttributes(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordFallback(context.Background(), "HASHI")

	sum := collect(t, reader)["receipt_escape.puzzles.fallback"].(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	requested, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("puzzle.requested_type"))
	require.True(t, ok)
	assert.Equal(t, "HASHI", requested.AsString())
}
