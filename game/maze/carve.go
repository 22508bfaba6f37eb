package maze

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

var (
	// ErrNoExit means no path cell exists in the second-to-last row
	ErrNoExit = errors.New("maze has no exit cell")

	// ErrUnreachable means the solver could not reach the target cell
	ErrUnreachable = errors.New("exit not reachable from entrance")
)

// Carve runs a randomized backtracker in 2-cell steps starting at start.
// Only interior cells are carved so the border stays closed.
func Carve(rng *rand.Rand, g *Grid, start puzzle.Position) {
	interior := func(x, y int) bool {
		return x > 0 && x < g.Width-1 && y > 0 && y < g.Height-1
	}

	g.At(start.X, start.Y).Kind = Path
	stack := []puzzle.Position{start}
	dirs := []puzzle.Position{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

		advanced := false
		for _, d := range dirs {
			nx, ny := cur.X+d.X, cur.Y+d.Y
			if !interior(nx, ny) || g.At(nx, ny).Kind != Wall {
				continue
			}
			g.At(cur.X+d.X/2, cur.Y+d.Y/2).Kind = Path
			g.At(nx, ny).Kind = Path
			stack = append(stack, puzzle.Position{X: nx, Y: ny})
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
}

// FindExit scans the second-to-last row at odd columns and returns the first
// path cell. The exit opening sits directly below it.
func FindExit(g *Grid) (puzzle.Position, error) {
	y := g.Height - 2
	for x := 1; x < g.Width-1; x += 2 {
		if g.At(x, y).Kind == Path {
			return puzzle.Position{X: x, Y: y}, nil
		}
	}
	return puzzle.Position{}, fmt.Errorf("%w: scanned row %d", ErrNoExit, y)
}

// Solve returns the shortest path of path cells from start to target,
// inclusive of both ends. The search stops only on the exact target cell.
func Solve(g *Grid, start, target puzzle.Position) ([]puzzle.Position, error) {
	if !g.IsPath(start.X, start.Y) || !g.IsPath(target.X, target.Y) {
		return nil, fmt.Errorf("%w: %v -> %v", ErrUnreachable, start, target)
	}

	parent := make(map[puzzle.Position]puzzle.Position)
	parent[start] = start
	queue := []puzzle.Position{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == target {
			var path []puzzle.Position
			for p := cur; ; p = parent[p] {
				path = append(path, p)
				if p == start {
					break
				}
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, nil
		}

		for _, s := range steps {
			next := puzzle.Position{X: cur.X + s.X, Y: cur.Y + s.Y}
			if !g.IsPath(next.X, next.Y) {
				continue
			}
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	return nil, fmt.Errorf("%w: %v -> %v", ErrUnreachable, start, target)
}
