// Command analyze generates a batch of mazes and prints heuristics about
// them: solution path length, dead ends, how often decoy glyphs land on
// side passages and whether the embedded answer reads back along the path.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/receipt-escape/game/maze"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

// MazeStats describes a single generated maze
type MazeStats struct {
	Seed        int64   `json:"seed"`
	PathLength  int     `json:"path_length"`
	OpenCells   int     `json:"open_cells"`
	DeadEnds    int     `json:"dead_ends"`
	NoiseCells  int     `json:"noise_cells"`
	NoiseTarget int     `json:"noise_eligible"`
	NoiseRate   float64 `json:"noise_rate"`
	ReadsBack   bool    `json:"reads_back"`
}

// Summary aggregates MazeStats over a batch
type Summary struct {
	Count          int     `json:"count"`
	Failures       int     `json:"failures"`
	MinPathLength  int     `json:"min_path_length"`
	MaxPathLength  int     `json:"max_path_length"`
	MeanPathLength float64 `json:"mean_path_length"`
	MeanDeadEnds   float64 `json:"mean_dead_ends"`
	NoiseRate      float64 `json:"noise_rate"`
	ReadBackErrors int     `json:"read_back_errors"`
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "print statistics over a batch of generated mazes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 100, Usage: "number of mazes"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "seed of the first maze; the rest follow sequentially"},
			&cli.IntFlag{Name: "width", Value: maze.Width, Usage: "maze width (odd)"},
			&cli.IntFlag{Name: "height", Value: maze.Height, Usage: "maze height (odd)"},
			&cli.StringFlag{Name: "answer", Value: puzzle.DefaultAnswer, Usage: "answer to embed"},
			&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print one line per maze"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stats, failures := analyzeBatch(
				int64(cmd.Int("seed")), cmd.Int("count"),
				cmd.Int("width"), cmd.Int("height"), cmd.String("answer"),
			)
			summary := summarize(stats)
			summary.Failures = failures

			if cmd.Bool("verbose") {
				for _, s := range stats {
					fmt.Printf("seed=%d path=%d dead_ends=%d noise=%d/%d reads_back=%t\n",
						s.Seed, s.PathLength, s.DeadEnds, s.NoiseCells, s.NoiseTarget, s.ReadsBack)
				}
			}
			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(os.Stdout, summary)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("analyze failed")
	}
}

// analyzeBatch generates count mazes from consecutive seeds. Mazes that fail
// to generate are counted and skipped.
func analyzeBatch(seed int64, count, width, height int, answer string) ([]MazeStats, int) {
	stats := make([]MazeStats, 0, count)
	failures := 0
	for i := 0; i < count; i++ {
		s := seed + int64(i)
		rng := rand.New(rand.NewPCG(uint64(s), uint64(s)^0x9e3779b97f4a7c15))
		m, err := maze.GenerateSize(rng, width, height, answer)
		if err != nil {
			logrus.WithError(err).WithField("seed", s).Warn("maze generation failed")
			failures++
			continue
		}
		st := analyzeMaze(m)
		st.Seed = s
		stats = append(stats, st)
	}
	return stats, failures
}

// analyzeMaze computes the statistics of one maze
func analyzeMaze(m *maze.Maze) MazeStats {
	onPath := make(map[puzzle.Position]bool, len(m.Path)+2)
	for _, p := range m.Path {
		onPath[p] = true
	}
	onPath[m.Entrance] = true
	onPath[m.Exit] = true

	st := MazeStats{PathLength: len(m.Path)}
	for _, c := range m.Cells {
		if c.Kind != maze.Path {
			continue
		}
		st.OpenCells++
		if openNeighbors(&m.Grid, c.X, c.Y) == 1 {
			st.DeadEnds++
		}

		pos := puzzle.Position{X: c.X, Y: c.Y}
		if onPath[pos] {
			continue
		}
		st.NoiseTarget++
		if c.Glyph != "" {
			st.NoiseCells++
		}
	}
	if st.NoiseTarget > 0 {
		st.NoiseRate = float64(st.NoiseCells) / float64(st.NoiseTarget)
	}
	st.ReadsBack = m.ReadPath(m.Path) == m.Answer
	return st
}

func openNeighbors(g *maze.Grid, x, y int) int {
	n := 0
	for _, d := range [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		if g.IsPath(x+d[0], y+d[1]) {
			n++
		}
	}
	return n
}

// summarize aggregates per-maze statistics. The noise rate is pooled over
// every eligible cell rather than averaged per maze.
func summarize(stats []MazeStats) Summary {
	sum := Summary{Count: len(stats)}
	if len(stats) == 0 {
		return sum
	}

	sum.MinPathLength = stats[0].PathLength
	var pathTotal, deadTotal, noise, eligible int
	for _, s := range stats {
		sum.MinPathLength = min(sum.MinPathLength, s.PathLength)
		sum.MaxPathLength = max(sum.MaxPathLength, s.PathLength)
		pathTotal += s.PathLength
		deadTotal += s.DeadEnds
		noise += s.NoiseCells
		eligible += s.NoiseTarget
		if !s.ReadsBack {
			sum.ReadBackErrors++
		}
	}
	sum.MeanPathLength = float64(pathTotal) / float64(len(stats))
	sum.MeanDeadEnds = float64(deadTotal) / float64(len(stats))
	if eligible > 0 {
		sum.NoiseRate = float64(noise) / float64(eligible)
	}
	return sum
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n=== Maze analysis (%d mazes) ===\n", s.Count)
	fmt.Fprintf(w, "Path length: min %d, max %d, mean %.1f\n", s.MinPathLength, s.MaxPathLength, s.MeanPathLength)
	fmt.Fprintf(w, "Dead ends per maze: %.1f\n", s.MeanDeadEnds)
	fmt.Fprintf(w, "Noise rate: %.3f (target %.2f)\n", s.NoiseRate, maze.NoiseRate)

	if s.Failures > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d mazes failed to generate\n", s.Failures)
	}
	if s.ReadBackErrors > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d mazes do not spell their answer along the path\n", s.ReadBackErrors)
	} else {
		fmt.Fprintf(w, "✅ Every answer reads back along its solution path\n")
	}
}
