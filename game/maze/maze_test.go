package maze

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x5eed))
}

func TestGenerateDimensions(t *testing.T) {
	m, err := Generate(newRand(1), "EXIT")
	require.NoError(t, err)

	assert.Equal(t, Width, m.Width)
	assert.Equal(t, Height, m.Height)
	assert.Len(t, m.Cells, Width*Height)
	assert.Equal(t, puzzle.Position{X: 1, Y: 0}, m.Entrance)
	assert.Equal(t, Height-1, m.Exit.Y)
	assert.Equal(t, "EXIT", m.ReadPath(m.Path))
}

func TestMazeIsPerfect(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		m, err := Generate(newRand(seed), "PERFECT")
		require.NoError(t, err)
		require.NoError(t, Verify(&m.Grid, m.Entrance, m.Exit), "seed %d", seed)
	}
}

func TestPathBoundToChosenExit(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		m, err := Generate(newRand(seed), "A")
		require.NoError(t, err)

		first := m.Path[0]
		last := m.Path[len(m.Path)-1]
		assert.Equal(t, puzzle.Position{X: 1, Y: 1}, first)
		assert.Equal(t, puzzle.Position{X: m.Exit.X, Y: m.Height - 2}, last)

		for i := 1; i < len(m.Path); i++ {
			dx := m.Path[i].X - m.Path[i-1].X
			dy := m.Path[i].Y - m.Path[i-1].Y
			assert.Equal(t, 1, dx*dx+dy*dy, "seed %d: path jumps at %d", seed, i)
			assert.True(t, m.IsPath(m.Path[i].X, m.Path[i].Y))
		}
	}
}

func TestAnswerReadBack(t *testing.T) {
	answers := []string{"ESCAPE", "AAAA", "ZZ"}
	for n := 1; n <= 10; n++ {
		answers = append(answers, strings.Repeat("X", n), "ABCDEFGHIJ"[:n])
	}

	for i, answer := range answers {
		m, err := Generate(newRand(uint64(i)), answer)
		require.NoError(t, err)
		assert.Equal(t, answer, m.ReadPath(m.Path), "answer %q", answer)
		assert.Equal(t, answer, m.Answer)

		marked := 0
		for _, c := range m.Cells {
			if c.Solution {
				marked++
			}
		}
		assert.Equal(t, len(answer), marked)
	}
}

func TestSingleCharacterPinnedToStart(t *testing.T) {
	m, err := Generate(newRand(9), "K")
	require.NoError(t, err)
	start := m.At(m.Path[0].X, m.Path[0].Y)
	assert.Equal(t, "K", start.Glyph)
	assert.True(t, start.Solution)
}

func TestNoNoiseOnSolutionPath(t *testing.T) {
	for seed := uint64(0); seed < 100; seed++ {
		m, err := Generate(newRand(seed), "ESCAPE")
		require.NoError(t, err)

		for _, p := range m.Path {
			c := m.At(p.X, p.Y)
			if c.Glyph != "" {
				assert.True(t, c.Solution, "seed %d: noise glyph %q on path at %v", seed, c.Glyph, p)
			}
		}
		assert.Equal(t, "ESCAPE", m.ReadPath(m.Path))
	}
}

func TestNoiseOnlyOnPathCells(t *testing.T) {
	m, err := Generate(newRand(3), "")
	require.NoError(t, err)

	noisy := 0
	for _, c := range m.Cells {
		if c.Glyph == "" {
			continue
		}
		assert.Equal(t, Path, c.Kind)
		assert.False(t, c.Solution)
		assert.Contains(t, NoiseAlphabet, c.Glyph)
		noisy++
	}
	assert.Greater(t, noisy, 0)
}

func TestEmptyAnswerLeavesPathBlank(t *testing.T) {
	m, err := Generate(newRand(4), "")
	require.NoError(t, err)
	assert.Equal(t, "", m.ReadPath(m.Path))
	assert.Equal(t, "", m.Answer)
}

func TestLongAnswerClipped(t *testing.T) {
	long := strings.Repeat("AB", 30)
	m, err := Generate(newRand(5), long)
	require.NoError(t, err)
	assert.Equal(t, long[:MaxAnswerLength], m.Answer)
	assert.Equal(t, m.Answer, m.ReadPath(m.Path))
}

func TestSmallMazeClipsToPathLength(t *testing.T) {
	m, err := GenerateSize(newRand(6), 5, 5, "ABCDEFGHIJ")
	require.NoError(t, err)
	assert.Equal(t, len(m.Path), len(m.Answer))
	assert.Equal(t, m.Answer, m.ReadPath(m.Path))
}

func TestNewGridRejectsEvenSizes(t *testing.T) {
	_, err := NewGrid(20, 45)
	assert.True(t, errors.Is(err, ErrBadSize))
	_, err = NewGrid(3, 3)
	assert.True(t, errors.Is(err, ErrBadSize))
}

func TestVerifyDetectsLoop(t *testing.T) {
	m, err := Generate(newRand(8), "")
	require.NoError(t, err)

	// knock out an interior wall between two carved cells to create a cycle
	g := &m.Grid
	for y := 1; y < g.Height-1; y++ {
		for x := 2; x < g.Width-2; x++ {
			if g.At(x, y).Kind == Wall && g.IsPath(x-1, y) && g.IsPath(x+1, y) {
				g.At(x, y).Kind = Path
				assert.True(t, errors.Is(Verify(g, m.Entrance, m.Exit), ErrNotPerfect))
				return
			}
		}
	}
	t.Fatal("no wall found to remove")
}

func TestVerifyDetectsBorderHole(t *testing.T) {
	m, err := Generate(newRand(10), "")
	require.NoError(t, err)
	m.At(m.Width-1, 5).Kind = Path
	assert.True(t, errors.Is(Verify(&m.Grid, m.Entrance, m.Exit), ErrNotPerfect))
}

func TestFindExitOnUncarvedGrid(t *testing.T) {
	g, err := NewGrid(7, 7)
	require.NoError(t, err)
	_, err = FindExit(g)
	assert.True(t, errors.Is(err, ErrNoExit))
}

func TestSolveUnreachable(t *testing.T) {
	g, err := NewGrid(7, 7)
	require.NoError(t, err)
	g.At(1, 1).Kind = Path
	g.At(5, 5).Kind = Path
	_, err = Solve(g, puzzle.Position{X: 1, Y: 1}, puzzle.Position{X: 5, Y: 5})
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestRowsRendering(t *testing.T) {
	m, err := Generate(newRand(11), "EXIT")
	require.NoError(t, err)
	rows := m.Rows()
	require.Len(t, rows, Height)
	assert.Equal(t, byte(' '), rows[0][1])
	assert.Equal(t, byte('#'), rows[0][0])
}

func TestOpeningsStayBlank(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		m, err := Generate(newRand(seed), "")
		require.NoError(t, err)
		assert.Empty(t, m.At(m.Entrance.X, m.Entrance.Y).Glyph)
		assert.Empty(t, m.At(m.Exit.X, m.Exit.Y).Glyph)
		assert.Equal(t, 0, m.Entrance.Y)
		assert.Equal(t, m.Height-1, m.Exit.Y)
		assert.Equal(t, OpeningMarker, m.Marker)
	}
}
