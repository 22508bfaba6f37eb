package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/receipt-escape/game/barcode"
	"github.com/wricardo/receipt-escape/game/engine"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "generate one puzzle and print it as JSON",
		ArgsUsage: "<TYPE>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "set",
				Aliases: []string{"s"},
				Usage:   "puzzle option as key=value (repeatable); JSON values such as 3 or [\"A\",\"B\"] are decoded",
			},
			&cli.IntFlag{Name: "seed", Usage: "random seed for reproducible output (0 picks one)"},
			&cli.BoolFlag{Name: "barcode", Usage: "include a barcode of the answer"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			typeName := cmd.Args().First()
			if typeName == "" {
				return fmt.Errorf("puzzle type is required (one of %s)", strings.Join(typeNames(), ", "))
			}

			opts, err := parseOptions(cmd.StringSlice("set"))
			if err != nil {
				return err
			}
			if seed := cmd.Int("seed"); seed != 0 {
				opts["seed"] = seed
			}

			gen := engine.New()
			result, err := gen.Generate(ctx, typeName, opts)
			if err != nil {
				return err
			}

			output := map[string]any{"puzzle": result}
			if cmd.Bool("barcode") {
				output["barcode"] = gen.GenerateBarcode(ctx, result.Answer)
			}
			return writeJSON(cmd.Root().Writer, output)
		},
	}
}

func samplesCommand() *cli.Command {
	return &cli.Command{
		Name:  "samples",
		Usage: "write one sample JSON file per puzzle type",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "output directory", Value: "samples"},
			&cli.IntFlag{Name: "seed", Usage: "random seed shared by every sample", Value: 1},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			written, err := writeSamples(ctx, engine.New(), cmd.String("out"), cmd.Int("seed"))
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"dir": cmd.String("out"), "count": written}).Info("Samples written")
			return nil
		},
	}
}

func barcodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "barcode",
		Usage:     "render text as a Code 128 barcode",
		ArgsUsage: "<TEXT>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write a PNG file instead of printing a data URI"},
			&cli.IntFlag{Name: "scale", Usage: "width of the narrowest bar in pixels", Value: barcode.DefaultScale},
			&cli.IntFlag{Name: "height", Usage: "bar height in pixels", Value: barcode.DefaultBarHeight},
			&cli.BoolFlag{Name: "no-caption", Usage: "omit the printed text under the bars"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text := strings.ToUpper(strings.TrimSpace(cmd.Args().First()))
			if text == "" {
				return fmt.Errorf("barcode text is required")
			}

			png, err := barcode.Encode(text, barcode.Options{
				Scale:     cmd.Int("scale"),
				BarHeight: cmd.Int("height"),
				Caption:   !cmd.Bool("no-caption"),
			})
			if err != nil {
				return err
			}

			if out := cmd.String("out"); out != "" {
				if err := os.WriteFile(out, png, 0644); err != nil {
					return fmt.Errorf("failed to write barcode: %w", err)
				}
				logrus.WithField("file", out).Info("Barcode written")
				return nil
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, barcode.DataURI(png))
			return err
		},
	}
}

// parseOptions turns key=value pairs into puzzle options. Values that parse
// as JSON keep their JSON type; anything else is kept as a string.
func parseOptions(pairs []string) (puzzle.Options, error) {
	opts := puzzle.Options{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q (expected key=value)", pair)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			opts[key] = decoded
		} else {
			opts[key] = value
		}
	}
	return opts, nil
}

// writeSamples generates every catalogued type into dir as TYPE.json
func writeSamples(ctx context.Context, gen engine.Generator, dir string, seed int) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create sample directory: %w", err)
	}

	written := 0
	for _, info := range gen.Types() {
		result, err := gen.Generate(ctx, string(info.Type), puzzle.Options{"seed": seed})
		if err != nil {
			logrus.WithError(err).WithField("type", info.Type).Warn("Sample generation failed")
			continue
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return written, fmt.Errorf("failed to marshal %s sample: %w", info.Type, err)
		}
		path := filepath.Join(dir, string(info.Type)+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}

func typeNames() []string {
	types := puzzle.KnownTypes()
	names := make([]string, len(types))
	for i, pt := range types {
		names[i] = string(pt)
	}
	return names
}

func writeJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
