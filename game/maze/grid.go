package maze

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

// Kind distinguishes carved cells from walls
type Kind uint8

const (
	Wall Kind = iota
	Path
)

// String returns the lower-case name of the kind
func (k Kind) String() string {
	if k == Path {
		return "path"
	}
	return "wall"
}

// MarshalJSON renders the kind as "wall" or "path"
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses "wall" or "path"
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "path":
		*k = Path
	case "wall":
		*k = Wall
	default:
		return fmt.Errorf("unknown cell kind %q", s)
	}
	return nil
}

// Cell is a single maze square
type Cell struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Kind     Kind   `json:"type"`
	Glyph    string `json:"char,omitempty"`
	Solution bool   `json:"isSolution,omitempty"`
}

// ErrBadSize is returned for even or too-small dimensions
var ErrBadSize = errors.New("maze dimensions must be odd and at least 5")

// Grid is a row-major rectangle of cells
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// NewGrid returns a grid of the given size with every cell a wall
func NewGrid(width, height int) (*Grid, error) {
	if width < 5 || height < 5 || width%2 == 0 || height%2 == 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadSize, width, height)
	}

	g := &Grid{Width: width, Height: height, Cells: make([]Cell, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Cells[y*width+x] = Cell{X: x, Y: y, Kind: Wall}
		}
	}
	return g, nil
}

// InBounds reports whether x,y lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at x,y. Callers must check bounds first.
func (g *Grid) At(x, y int) *Cell {
	return &g.Cells[y*g.Width+x]
}

// IsPath reports whether x,y is in bounds and carved
func (g *Grid) IsPath(x, y int) bool {
	return g.InBounds(x, y) && g.At(x, y).Kind == Path
}

// Rows renders the grid as text: '#' walls, ' ' empty paths, glyphs as-is
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	for y := 0; y < g.Height; y++ {
		row := make([]rune, 0, g.Width)
		for x := 0; x < g.Width; x++ {
			c := g.At(x, y)
			switch {
			case c.Kind == Wall:
				row = append(row, '#')
			case c.Glyph != "":
				row = append(row, []rune(c.Glyph)[0])
			default:
				row = append(row, ' ')
			}
		}
		rows[y] = string(row)
	}
	return rows
}

// ReadPath concatenates the glyphs found along path, skipping empty cells
func (g *Grid) ReadPath(path []puzzle.Position) string {
	var out []byte
	for _, p := range path {
		out = append(out, g.At(p.X, p.Y).Glyph...)
	}
	return string(out)
}

var steps = []puzzle.Position{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
