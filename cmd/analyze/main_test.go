package main

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/receipt-escape/game/maze"
)

func TestAnalyzeMaze(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5^0x9e3779b97f4a7c15))
	m, err := maze.Generate(rng, "EXIT")
	require.NoError(t, err)

	st := analyzeMaze(m)

	assert.Equal(t, len(m.Path), st.PathLength)
	assert.True(t, st.ReadsBack)
	assert.Greater(t, st.OpenCells, st.PathLength)
	assert.Greater(t, st.DeadEnds, 0)
	assert.LessOrEqual(t, st.NoiseCells, st.NoiseTarget)
	assert.GreaterOrEqual(t, st.NoiseRate, 0.0)
	assert.LessOrEqual(t, st.NoiseRate, 1.0)
}

func TestAnalyzeMaze_NoNoiseOnPath(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9^0x9e3779b97f4a7c15))
	m, err := maze.Generate(rng, "ABC")
	require.NoError(t, err)

	// Every glyph on the solution path belongs to the answer
	assert.Equal(t, "ABC", m.ReadPath(m.Path))
	st := analyzeMaze(m)
	assert.True(t, st.ReadsBack)
}

func TestAnalyzeBatch(t *testing.T) {
	stats, failures := analyzeBatch(1, 10, 11, 21, "KEY")
	assert.Equal(t, 0, failures)
	require.Len(t, stats, 10)

	for i, st := range stats {
		assert.Equal(t, int64(1+i), st.Seed)
		assert.True(t, st.ReadsBack)
	}
}

func TestAnalyzeBatch_BadSize(t *testing.T) {
	stats, failures := analyzeBatch(1, 3, 4, 4, "KEY")
	assert.Empty(t, stats)
	assert.Equal(t, 3, failures)
}

func TestSummarize(t *testing.T) {
	stats := []MazeStats{
		{PathLength: 10, DeadEnds: 2, NoiseCells: 1, NoiseTarget: 10, ReadsBack: true},
		{PathLength: 30, DeadEnds: 4, NoiseCells: 3, NoiseTarget: 10, ReadsBack: false},
	}

	s := summarize(stats)

	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 10, s.MinPathLength)
	assert.Equal(t, 30, s.MaxPathLength)
	assert.InDelta(t, 20.0, s.MeanPathLength, 1e-9)
	assert.InDelta(t, 3.0, s.MeanDeadEnds, 1e-9)
	assert.InDelta(t, 0.2, s.NoiseRate, 1e-9)
	assert.Equal(t, 1, s.ReadBackErrors)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, summarize(nil))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, Summary{Count: 2, MinPathLength: 5, MaxPathLength: 9, MeanPathLength: 7})
	assert.Contains(t, buf.String(), "2 mazes")
	assert.Contains(t, buf.String(), "min 5, max 9")
	assert.Contains(t, buf.String(), "reads back")

	buf.Reset()
	printSummary(&buf, Summary{Count: 1, ReadBackErrors: 1, Failures: 2})
	assert.Contains(t, buf.String(), "CRITICAL")
	assert.Contains(t, buf.String(), "2 mazes failed")
}

func TestOpenNeighbors(t *testing.T) {
	g, err := maze.NewGrid(5, 5)
	require.NoError(t, err)
	g.At(1, 1).Kind = maze.Path
	g.At(2, 1).Kind = maze.Path
	g.At(3, 1).Kind = maze.Path

	assert.Equal(t, 1, openNeighbors(g, 1, 1))
	assert.Equal(t, 2, openNeighbors(g, 2, 1))
	assert.Equal(t, 0, openNeighbors(g, 0, 4))
}
