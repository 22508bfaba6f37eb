package maze

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

const (
	Width  = 21
	Height = 45

	// NoiseRate is the probability that a non-solution path cell gets a glyph
	NoiseRate = 0.12

	// NoiseAlphabet is the glyph set for decoy characters
	NoiseAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// MaxAnswerLength caps the embedded answer so glyphs stay spread out
	MaxAnswerLength = 40
)

// ErrNotPerfect means the carved passages contain a loop or are disconnected
var ErrNotPerfect = errors.New("maze is not perfect")

// OpeningMarker is what a renderer draws at Entrance and Exit.
const OpeningMarker = "↓"

// Maze is a finished maze with its answer embedded. The Entrance and Exit
// cells are open Path cells with no Glyph; renderers draw Marker over them
// from the Entrance and Exit positions.
type Maze struct {
	Grid
	Entrance puzzle.Position   `json:"entrance"`
	Exit     puzzle.Position   `json:"exit"`
	Marker   string            `json:"marker"`
	Path     []puzzle.Position `json:"path"`
	Answer   string            `json:"answer"`
}

// Generate builds a Width x Height maze spelling answer along its solution path
func Generate(rng *rand.Rand, answer string) (*Maze, error) {
	return GenerateSize(rng, Width, Height, answer)
}

// GenerateSize is Generate with explicit odd dimensions
func GenerateSize(rng *rand.Rand, width, height int, answer string) (*Maze, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	start := puzzle.Position{X: 1, Y: 1}
	Carve(rng, g, start)

	last, err := FindExit(g)
	if err != nil {
		return nil, err
	}

	entrance := puzzle.Position{X: start.X, Y: 0}
	exit := puzzle.Position{X: last.X, Y: height - 1}
	g.At(entrance.X, entrance.Y).Kind = Path
	g.At(exit.X, exit.Y).Kind = Path

	path, err := Solve(g, start, last)
	if err != nil {
		return nil, fmt.Errorf("solving maze: %w", err)
	}

	answer = clip(answer, min(MaxAnswerLength, len(path)))
	solution := Embed(g, path, answer)
	solution.Put(entrance)
	solution.Put(exit)
	noise := AddNoise(rng, g, solution, NoiseRate, NoiseAlphabet)

	if err := Verify(g, entrance, exit); err != nil {
		return nil, err
	}
	if got := g.ReadPath(path); got != answer {
		return nil, fmt.Errorf("answer read-back mismatch: got %q, want %q", got, answer)
	}

	logrus.WithFields(logrus.Fields{
		"width":       width,
		"height":      height,
		"path_length": len(path),
		"answer_len":  len([]rune(answer)),
		"noise":       noise,
	}).Debug("maze generated")

	return &Maze{
		Grid:     *g,
		Entrance: entrance,
		Exit:     exit,
		Marker:   OpeningMarker,
		Path:     path,
		Answer:   answer,
	}, nil
}

// Embed writes answer rune i at path index i*(L-1)/max(A-1,1) and flags
// those cells as solution cells. It returns the set of every path position,
// which must stay free of noise.
func Embed(g *Grid, path []puzzle.Position, answer string) mapset.Set[puzzle.Position] {
	onPath := mapset.New[puzzle.Position]()
	for _, p := range path {
		onPath.Put(p)
	}

	letters := []rune(answer)
	if len(letters) == 0 || len(path) == 0 {
		return onPath
	}

	denom := max(len(letters)-1, 1)
	for i, r := range letters {
		p := path[i*(len(path)-1)/denom]
		c := g.At(p.X, p.Y)
		c.Glyph = string(r)
		c.Solution = true
	}
	return onPath
}

// AddNoise gives glyph-less path cells outside protected a random glyph with
// the given probability. It returns the number of cells decorated.
func AddNoise(rng *rand.Rand, g *Grid, protected mapset.Set[puzzle.Position], rate float64, alphabet string) int {
	glyphs := []rune(alphabet)
	n := 0
	for i := range g.Cells {
		c := &g.Cells[i]
		if c.Kind != Path || c.Glyph != "" {
			continue
		}
		if protected.Has(puzzle.Position{X: c.X, Y: c.Y}) {
			continue
		}
		if rng.Float64() < rate {
			c.Glyph = string(glyphs[rng.IntN(len(glyphs))])
			n++
		}
	}
	return n
}

// Verify checks the structural invariants of a finished grid: the border is
// closed except at entrance and exit, and the path cells form a tree (all
// connected, edges = vertices - 1), so exactly one simple path joins any
// two of them.
func Verify(g *Grid, entrance, exit puzzle.Position) error {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x != 0 && y != 0 && x != g.Width-1 && y != g.Height-1 {
				continue
			}
			p := puzzle.Position{X: x, Y: y}
			if g.At(x, y).Kind == Path && p != entrance && p != exit {
				return fmt.Errorf("%w: border opening at %v", ErrNotPerfect, p)
			}
		}
	}

	vertices, edges := 0, 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.IsPath(x, y) {
				continue
			}
			vertices++
			if g.IsPath(x+1, y) {
				edges++
			}
			if g.IsPath(x, y+1) {
				edges++
			}
		}
	}
	if vertices == 0 {
		return fmt.Errorf("%w: no path cells", ErrNotPerfect)
	}
	if edges != vertices-1 {
		return fmt.Errorf("%w: %d cells joined by %d passages", ErrNotPerfect, vertices, edges)
	}

	reached := mapset.New[puzzle.Position]()
	reached.Put(entrance)
	queue := []puzzle.Position{entrance}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range steps {
			next := puzzle.Position{X: cur.X + s.X, Y: cur.Y + s.Y}
			if g.IsPath(next.X, next.Y) && !reached.Has(next) {
				reached.Put(next)
				queue = append(queue, next)
			}
		}
	}
	if reached.Size() != vertices {
		return fmt.Errorf("%w: %d of %d cells reachable", ErrNotPerfect, reached.Size(), vertices)
	}
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
