// Package metrics records puzzle generation metrics through OpenTelemetry.
// NewGenerationMetrics binds to the global meter provider, which is a no-op
// unless the process installs an SDK provider first (see "serve --metrics").
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of every instrument in this package
const MeterName = "receipt-escape/puzzles"

// GenerationMetrics collects counters for the generation dispatcher
type GenerationMetrics struct {
	generatedCounter  metric.Int64Counter
	failedCounter     metric.Int64Counter
	fallbackCounter   metric.Int64Counter
	barcodeFailures   metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// NewGenerationMetrics creates the generation instruments on the global
// meter provider
func NewGenerationMetrics() (*GenerationMetrics, error) {
	return NewGenerationMetricsWithProvider(otel.GetMeterProvider())
}

// NewGenerationMetricsWithProvider creates the generation instruments on mp
func NewGenerationMetricsWithProvider(mp metric.MeterProvider) (*GenerationMetrics, error) {
	meter := mp.Meter(MeterName)

	generatedCounter, err := meter.Int64Counter(
		"receipt_escape.puzzles.generated",
		metric.WithDescription("Total number of puzzles generated"),
		metric.WithUnit("{puzzle}"),
	)
	if err != nil {
		return nil, err
	}

	failedCounter, err := meter.Int64Counter(
		"receipt_escape.puzzles.failed",
		metric.WithDescription("Total number of generations that returned an error"),
		metric.WithUnit("{puzzle}"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCounter, err := meter.Int64Counter(
		"receipt_escape.puzzles.fallback",
		metric.WithDescription("Requests for unknown puzzle types served as plain text"),
		metric.WithUnit("{puzzle}"),
	)
	if err != nil {
		return nil, err
	}

	barcodeFailures, err := meter.Int64Counter(
		"receipt_escape.barcodes.failed",
		metric.WithDescription("Barcode encodings that degraded to no image"),
		metric.WithUnit("{barcode}"),
	)
	if err != nil {
		return nil, err
	}

	durationHistogram, err := meter.Float64Histogram(
		"receipt_escape.puzzle.duration",
		metric.WithDescription("Duration of puzzle generation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &GenerationMetrics{
		generatedCounter:  generatedCounter,
		failedCounter:     failedCounter,
		fallbackCounter:   fallbackCounter,
		barcodeFailures:   barcodeFailures,
		durationHistogram: durationHistogram,
	}, nil
}

// RecordGenerated records a successful generation
func (gm *GenerationMetrics) RecordGenerated(ctx context.Context, puzzleType string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("puzzle.type", puzzleType),
		attribute.String("status", "generated"),
	)
	gm.generatedCounter.Add(ctx, 1, attrs)
	gm.durationHistogram.Record(ctx, duration.Seconds(), attrs)
}

// RecordFailed records a generation that returned an error
func (gm *GenerationMetrics) RecordFailed(ctx context.Context, puzzleType string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("puzzle.type", puzzleType),
		attribute.String("status", "failed"),
	)
	gm.failedCounter.Add(ctx, 1, attrs)
	gm.durationHistogram.Record(ctx, duration.Seconds(), attrs)
}

// RecordFallback records a request for an unknown type
func (gm *GenerationMetrics) RecordFallback(ctx context.Context, requested string) {
	gm.fallbackCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("puzzle.requested_type", requested),
		),
	)
}

// RecordBarcodeFailure records a barcode that could not be encoded
func (gm *GenerationMetrics) RecordBarcodeFailure(ctx context.Context) {
	gm.barcodeFailures.Add(ctx, 1)
}
