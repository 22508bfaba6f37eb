// Command smoke drives a running puzzle server end to end. For every puzzle
// type it generates a puzzle, checks that a wrong answer is rejected and the
// embedded answer (submitted through the task code) is accepted, then deletes
// it. Finally it prints a whole deck.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/receipt-escape/game/puzzle"
	"github.com/wricardo/receipt-escape/game/service"
)

// wrongAnswer never matches a generated answer
const wrongAnswer = "~NOT-THE-ANSWER~"

// Report summarizes a smoke run
type Report struct {
	Passed   int
	Failures []string
}

func (r *Report) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// OK reports whether every check passed
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// runSmoke exercises every puzzle type and, when deck is set, one deck
func runSmoke(ctx context.Context, c *Client, deck, station string, seed int) (*Report, error) {
	report := &Report{}
	log := logrus.WithField("component", "smoke")

	types, err := c.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	log.WithField("count", len(types)).Info("Puzzle types listed")

	for _, info := range types {
		typeLog := log.WithField("type", info.Type)

		artifact, err := c.Generate(ctx, service.GenerateRequest{
			Type:    string(info.Type),
			Config:  puzzle.Options{"seed": seed},
			Station: station,
			Label:   "smoke",
		})
		if err != nil {
			report.fail("%s: generate: %v", info.Type, err)
			continue
		}
		if artifact.Result == nil || artifact.Result.Type != info.Type {
			report.fail("%s: generated wrong type", info.Type)
			continue
		}

		answer := artifact.Result.Answer
		if correct, err := c.Check(ctx, artifact.ID, wrongAnswer); err != nil || correct {
			report.fail("%s: wrong answer accepted (err=%v)", info.Type, err)
		}
		if correct, err := c.Check(ctx, artifact.TaskCode, answer); err != nil || !correct {
			report.fail("%s: answer %q rejected via task code %s (err=%v)", info.Type, answer, artifact.TaskCode, err)
		} else {
			report.Passed++
			typeLog.WithFields(logrus.Fields{"task_code": artifact.TaskCode, "answer": answer}).Debug("Puzzle verified")
		}

		if err := c.Delete(ctx, artifact.ID); err != nil {
			report.fail("%s: delete: %v", info.Type, err)
		}
	}

	if deck != "" {
		result, err := c.GenerateDeck(ctx, deck, station)
		switch {
		case err != nil:
			report.fail("deck %s: %v", deck, err)
		case result.Count == 0 || result.Count != len(result.Puzzles):
			report.fail("deck %s: generated %d puzzles, listed %d", deck, result.Count, len(result.Puzzles))
		default:
			report.Passed++
			log.WithFields(logrus.Fields{"deck": result.Deck, "count": result.Count}).Info("Deck printed")
		}
	}

	return report, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "smoke",
		Usage: "exercise a running puzzle server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "server URL", Sources: cli.EnvVars("API_URL")},
			&cli.StringFlag{Name: "deck", Value: "classic", Usage: "deck to print at the end (empty skips it)"},
			&cli.StringFlag{Name: "station", Value: "smoke", Usage: "print station to target"},
			&cli.IntFlag{Name: "seed", Value: 42, Usage: "seed for every generated puzzle"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("v") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			logrus.Infof("Connecting to puzzle server at %s", cmd.String("url"))

			report, err := runSmoke(ctx, NewClient(cmd.String("url")), cmd.String("deck"), cmd.String("station"), cmd.Int("seed"))
			if err != nil {
				return err
			}
			for _, f := range report.Failures {
				logrus.Error(f)
			}
			if !report.OK() {
				return fmt.Errorf("%d checks failed, %d passed", len(report.Failures), report.Passed)
			}
			logrus.WithField("passed", report.Passed).Info("All checks passed")
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Error("smoke failed")
		os.Exit(1)
	}
}
