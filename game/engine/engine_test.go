package engine

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/wricardo/receipt-escape/game/content"
	"github.com/wricardo/receipt-escape/game/maze"
	"github.com/wricardo/receipt-escape/game/metrics"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

func TestGenerateMazeScenario(t *testing.T) {
	eng := New()
	res, err := eng.Generate(context.Background(), "MAZE_VERTICAL", puzzle.Options{"answer": "EXIT"})
	require.NoError(t, err)

	assert.Equal(t, puzzle.MazeVertical, res.Type)
	assert.Equal(t, "EXIT", res.Answer)

	m, ok := res.Data.(*maze.Maze)
	require.True(t, ok, "maze payload has type %T", res.Data)
	assert.Equal(t, 21, m.Width)
	assert.Equal(t, 45, m.Height)
	assert.Equal(t, "EXIT", m.ReadPath(m.Path))
	require.NoError(t, maze.Verify(&m.Grid, m.Entrance, m.Exit))
}

func TestGenerateMiniSudokuScenario(t *testing.T) {
	eng := New()
	for i := 0; i < 10; i++ {
		res, err := eng.Generate(context.Background(), "MINI_SUDOKU", puzzle.Options{})
		require.NoError(t, err)

		data, ok := res.Data.(content.MiniSudokuData)
		require.True(t, ok)

		blank := 0
		for _, row := range data.Puzzle {
			for _, v := range row {
				if v == 0 {
					blank++
				}
			}
		}
		assert.Equal(t, 4, blank)
		for _, c := range [][2]int{{0, 0}, {0, 3}, {3, 0}, {3, 3}} {
			assert.Equal(t, 0, data.Puzzle[c[0]][c[1]])
		}

		sum := data.Solved[0][0] + data.Solved[0][3] + data.Solved[3][0] + data.Solved[3][3]
		assert.Equal(t, strconv.Itoa(sum), res.Answer)
	}
}

// newRecordedMetrics returns metrics backed by a manual reader and a func
// that reports the current total of a counter
func newRecordedMetrics(t *testing.T) (*metrics.GenerationMetrics, func(name string) int64) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	m, err := metrics.NewGenerationMetricsWithProvider(provider)
	require.NoError(t, err)

	total := func(name string) int64 {
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		var n int64
		for _, sm := range rm.ScopeMetrics {
			for _, metric := range sm.Metrics {
				if metric.Name != name {
					continue
				}
				if sum, ok := metric.Data.(metricdata.Sum[int64]); ok {
					for _, dp := range sum.DataPoints {
						n += dp.Value
					}
				}
			}
		}
		return n
	}
	return m, total
}

func TestUnknownTypeFallsBackToText(t *testing.T) {
	m, total := newRecordedMetrics(t)

	eng := New(WithMetrics(m))
	res, err := eng.Generate(context.Background(), "HASHI", puzzle.Options{"text": "hello", "answer": "world"})
	require.NoError(t, err)

	assert.Equal(t, puzzle.Text, res.Type)
	assert.Equal(t, "WORLD", res.Answer)
	assert.Equal(t, content.PlainTextData{Content: "hello"}, res.Data)

	assert.Equal(t, int64(1), total("receipt_escape.puzzles.fallback"))
	assert.Equal(t, int64(1), total("receipt_escape.puzzles.generated"))

	_, err = eng.Generate(context.Background(), "RIDDLE", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total("receipt_escape.puzzles.fallback"))
	assert.Equal(t, int64(2), total("receipt_escape.puzzles.generated"))
}

func TestTypeNameIsCaseInsensitive(t *testing.T) {
	eng := New()
	res, err := eng.Generate(context.Background(), " riddle ", nil)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Riddle, res.Type)

	res, err = eng.Generate(context.Background(), "kakuro", puzzle.Options{"seed": 3})
	require.NoError(t, err)
	assert.Equal(t, puzzle.Kakuro, res.Type)
}

func TestSeedReproducesPuzzle(t *testing.T) {
	eng := New()
	ctx := context.Background()

	for _, pt := range puzzle.KnownTypes() {
		a, err := eng.Generate(ctx, string(pt), puzzle.Options{"seed": 1234})
		require.NoError(t, err, pt)
		b, err := eng.Generate(ctx, string(pt), puzzle.Options{"seed": 1234})
		require.NoError(t, err, pt)

		assert.Equal(t, int64(1234), a.Seed)
		assert.Equal(t, a.Answer, b.Answer, pt)

		ja, err := json.Marshal(a.Data)
		require.NoError(t, err)
		jb, err := json.Marshal(b.Data)
		require.NoError(t, err)
		assert.JSONEq(t, string(ja), string(jb), pt)
	}
}

func TestEveryTypeGeneratesWithDefaults(t *testing.T) {
	eng := New()
	require.Len(t, eng.Types(), len(puzzle.Catalog))

	for _, info := range eng.Types() {
		t.Run(string(info.Type), func(t *testing.T) {
			res, err := eng.Generate(context.Background(), string(info.Type), nil)
			require.NoError(t, err)
			assert.Equal(t, info.Type, res.Type)
			assert.NotEmpty(t, res.Answer)
			assert.NotNil(t, res.Data)
			assert.NotZero(t, res.Seed)
		})
	}
}

func TestComputedAnswersOverrideHints(t *testing.T) {
	eng := New()
	res, err := eng.Generate(context.Background(), "NUMBER_SEQUENCE", puzzle.Options{"answer": "IGNORED", "rule": "square"})
	require.NoError(t, err)
	assert.Equal(t, "36", res.Answer)
}

func TestGenerateBarcode(t *testing.T) {
	m, total := newRecordedMetrics(t)

	calls := 0
	eng := New(WithMetrics(m), WithBarcodeEncoder(func(text string) *string {
		calls++
		if text == "" {
			return nil
		}
		uri := "data:image/png;base64,AAAA"
		return &uri
	}))

	assert.NotNil(t, eng.GenerateBarcode(context.Background(), "ABCD1234"))
	assert.Equal(t, int64(0), total("receipt_escape.barcodes.failed"))
	assert.Nil(t, eng.GenerateBarcode(context.Background(), ""))
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(1), total("receipt_escape.barcodes.failed"))
}

func TestDefaultBarcodeEncoder(t *testing.T) {
	eng := New()
	uri := eng.GenerateBarcode(context.Background(), "A1B2C3D4")
	require.NotNil(t, uri)
	assert.Contains(t, *uri, "data:image/png;base64,")
}
