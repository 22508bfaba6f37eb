package engine

import (
	"math/rand/v2"

	"github.com/wricardo/receipt-escape/game/content"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

// Builder produces a payload and its answer from raw options
type Builder func(rng *rand.Rand, opts puzzle.Options) (any, string, error)

// typed adapts a content builder and its option decoder into a Builder
func typed[C, D any](decode func(puzzle.Options) C, build func(*rand.Rand, C) (D, string, error)) Builder {
	return func(rng *rand.Rand, opts puzzle.Options) (any, string, error) {
		data, answer, err := build(rng, decode(opts))
		if err != nil {
			return nil, "", err
		}
		return data, answer, nil
	}
}

// untyped adapts builders that take no configuration
func untyped[D any](build func(*rand.Rand, struct{}) (D, string, error)) Builder {
	return typed(func(puzzle.Options) struct{} { return struct{}{} }, build)
}

func defaultRegistry() map[puzzle.PuzzleType]Builder {
	return map[puzzle.PuzzleType]Builder{
		puzzle.MazeVertical:   typed(content.AnswerConfigFrom, content.BuildMaze),
		puzzle.WordSearch:     typed(content.WordSearchConfigFrom, content.BuildWordSearch),
		puzzle.Cipher:         typed(content.CipherConfigFrom, content.BuildCipher),
		puzzle.Polybius:       typed(content.TextConfigFrom, content.BuildPolybius),
		puzzle.Tactile:        typed(content.TactileConfigFrom, content.BuildTactile),
		puzzle.Scytale:        typed(content.ScytaleConfigFrom, content.BuildScytale),
		puzzle.Mirror:         typed(content.TextConfigFrom, content.BuildMirror),
		puzzle.Anagram:        typed(content.AnswerConfigFrom, content.BuildAnagram),
		puzzle.MicroText:      typed(content.AnswerConfigFrom, content.BuildMicroText),
		puzzle.Folding:        typed(content.FoldingConfigFrom, content.BuildFolding),
		puzzle.SoundWave:      typed(content.SoundWaveConfigFrom, content.BuildSoundWave),
		puzzle.Text:           typed(content.PlainTextConfigFrom, content.BuildText),
		puzzle.ASCII:          typed(content.AsciiConfigFrom, content.BuildAscii),
		puzzle.Riddle:         typed(content.RiddleConfigFrom, content.BuildRiddle),
		puzzle.WordLadder:     untyped(content.BuildWordLadder),
		puzzle.Rebus:          untyped(content.BuildRebus),
		puzzle.Nonogram:       typed(content.NonogramConfigFrom, content.BuildNonogram),
		puzzle.SymbolMath:     untyped(content.BuildSymbolMath),
		puzzle.NumberSequence: typed(content.SequenceConfigFrom, content.BuildNumberSequence),
		puzzle.MiniSudoku:     typed(content.ShiftConfigFrom, content.BuildMiniSudoku),
		puzzle.Kakuro:         typed(content.ShiftConfigFrom, content.BuildKakuro),
		puzzle.SpotDiff:       typed(content.SpotDiffConfigFrom, content.BuildSpotDiff),
	}
}
