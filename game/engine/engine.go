package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/receipt-escape/game/barcode"
	"github.com/wricardo/receipt-escape/game/metrics"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

// Generator provides the main interface for puzzle generation
type Generator interface {
	// Generate builds a puzzle of the named type. Unknown types are served
	// as TEXT.
	Generate(ctx context.Context, typeName string, opts puzzle.Options) (*puzzle.Result, error)

	// GenerateBarcode returns a PNG data URI for text, or nil on failure
	GenerateBarcode(ctx context.Context, text string) *string

	// Types lists the puzzle types this generator can build
	Types() []puzzle.TypeInfo
}

// PuzzleEngine implements the Generator interface
type PuzzleEngine struct {
	builders map[puzzle.PuzzleType]Builder
	metrics  *metrics.GenerationMetrics
	log      logrus.FieldLogger
	encode   func(text string) *string
}

// Option configures a PuzzleEngine
type Option func(*PuzzleEngine)

// WithMetrics records generation metrics on m
func WithMetrics(m *metrics.GenerationMetrics) Option {
	return func(e *PuzzleEngine) { e.metrics = m }
}

// WithLogger replaces the standard logrus logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *PuzzleEngine) { e.log = l }
}

// WithBarcodeEncoder replaces the barcode encoder
func WithBarcodeEncoder(fn func(text string) *string) Option {
	return func(e *PuzzleEngine) { e.encode = fn }
}

// New creates a puzzle engine with the full builder table
func New(opts ...Option) *PuzzleEngine {
	e := &PuzzleEngine{
		builders: defaultRegistry(),
		log:      logrus.StandardLogger(),
		encode:   barcode.Generate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate builds one puzzle. The returned Result always carries the answer
// that was actually embedded; callers must read it back instead of trusting
// any answer passed in opts.
func (e *PuzzleEngine) Generate(ctx context.Context, typeName string, opts puzzle.Options) (*puzzle.Result, error) {
	pt := puzzle.PuzzleType(strings.ToUpper(strings.TrimSpace(typeName)))
	build, ok := e.builders[pt]
	if !ok {
		e.log.WithField("requested_type", typeName).Warn("unknown puzzle type, falling back to TEXT")
		if e.metrics != nil {
			e.metrics.RecordFallback(ctx, typeName)
		}
		pt = puzzle.Text
		build = e.builders[pt]
	}

	seed := opts.Seed()
	if seed == 0 {
		seed = rand.Int64()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	start := time.Now()
	data, answer, err := build(rng, opts)
	elapsed := time.Since(start)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordFailed(ctx, string(pt), elapsed)
		}
		return nil, fmt.Errorf("generating %s: %w", pt, err)
	}
	if e.metrics != nil {
		e.metrics.RecordGenerated(ctx, string(pt), elapsed)
	}

	e.log.WithFields(logrus.Fields{
		"type":     pt,
		"seed":     seed,
		"duration": elapsed,
	}).Debug("puzzle generated")

	return &puzzle.Result{Type: pt, Answer: answer, Data: data, Seed: seed}, nil
}

// GenerateBarcode encodes text as a Code 128 data URI. Encoding failures are
// logged by the encoder and surface here only as nil.
func (e *PuzzleEngine) GenerateBarcode(ctx context.Context, text string) *string {
	uri := e.encode(text)
	if uri == nil && e.metrics != nil {
		e.metrics.RecordBarcodeFailure(ctx)
	}
	return uri
}

// Types returns the catalog entries for every registered builder
func (e *PuzzleEngine) Types() []puzzle.TypeInfo {
	types := make([]puzzle.TypeInfo, 0, len(e.builders))
	for _, info := range puzzle.Catalog {
		if _, ok := e.builders[info.Type]; ok {
			types = append(types, info)
		}
	}
	return types
}
