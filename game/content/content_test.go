package content

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/receipt-escape/game/clues"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 42))
}

func TestCipherVariants(t *testing.T) {
	data, answer, err := BuildCipher(nil, CipherConfigFrom(puzzle.Options{"text": "hello world"}))
	require.NoError(t, err)
	assert.Equal(t, "HELLO WORLD", answer)
	assert.Equal(t, "KHOOR ZRUOG", data.Ciphertext)
	assert.Equal(t, "SHIFT +3", data.PartialKey)

	data, _, err = BuildCipher(nil, CipherConfigFrom(puzzle.Options{"text": "XYZ", "shift": -1}))
	require.NoError(t, err)
	assert.Equal(t, "WXY", data.Ciphertext)

	data, answer, err = BuildCipher(nil, CipherConfigFrom(puzzle.Options{"text": "AB 1", "variant": "pigpen"}))
	require.NoError(t, err)
	assert.Equal(t, "AB 1", answer)
	require.Len(t, data.Symbols, 4)
	assert.Equal(t, Symbol{Kind: "pigpen", Class: "pp-border-rb", Char: "A"}, data.Symbols[0])
	assert.Equal(t, "text", data.Symbols[2].Kind)
	assert.True(t, data.VisualKey)

	data, _, err = BuildCipher(nil, CipherConfigFrom(puzzle.Options{"text": "Z", "variant": "ICON"}))
	require.NoError(t, err)
	assert.Equal(t, "fa-solid fa-bolt", data.Symbols[0].Class)

	cfg := CipherConfigFrom(puzzle.Options{"variant": "ROT13"})
	assert.Equal(t, VariantCaesar, cfg.Variant)
	assert.Equal(t, puzzle.DefaultAnswer, cfg.Text)
}

func TestPolybius(t *testing.T) {
	data, answer, err := BuildPolybius(nil, TextConfigFrom(puzzle.Options{"text": "jam 42 it"}))
	require.NoError(t, err)
	assert.Equal(t, "IAMIT", answer)
	assert.Equal(t, [][]string{{"24", "11", "32"}, {"24", "44"}}, data.Words)

	_, answer, err = BuildPolybius(nil, TextConfigFrom(puzzle.Options{"text": "123"}))
	require.NoError(t, err)
	assert.Equal(t, puzzle.DefaultAnswer, answer)
}

func TestTactile(t *testing.T) {
	data, answer, err := BuildTactile(nil, TactileConfigFrom(puzzle.Options{"text": "SOS 1"}))
	require.NoError(t, err)
	assert.Equal(t, "SOS1", answer)
	assert.Equal(t, [][]string{{"...", "---", "..."}, {".----"}}, data.Words)

	data, answer, err = BuildTactile(nil, TactileConfigFrom(puzzle.Options{"text": "AB 9", "mode": "braille"}))
	require.NoError(t, err)
	assert.Equal(t, ModeBraille, data.Mode)
	assert.Equal(t, "AB", answer)
	assert.Equal(t, [][]string{{"⠁", "⠃"}}, data.Words)
}

func TestScytaleRoundTrip(t *testing.T) {
	data, answer, err := BuildScytale(nil, ScytaleConfigFrom(puzzle.Options{"text": "meet at dawn", "rails": 3}))
	require.NoError(t, err)
	assert.Equal(t, "MEETATDAWN", answer)
	assert.Equal(t, 3, data.Rails)
	assert.Equal(t, len(answer), data.Length)

	plain := UnwindScytale(data.Strip, data.Rails)
	assert.Equal(t, answer, plain[:data.Length])
	assert.Equal(t, strings.Repeat(string(ScytalePad), len(plain)-data.Length), plain[data.Length:])

	cfg := ScytaleConfigFrom(puzzle.Options{"rails": 1})
	assert.Equal(t, 2, cfg.Rails)
}

func TestMirror(t *testing.T) {
	data, answer, err := BuildMirror(nil, TextConfigFrom(puzzle.Options{"text": "door"}))
	require.NoError(t, err)
	assert.Equal(t, "DOOR", answer)
	assert.Equal(t, "ROOD", data.Mirrored)
}

func TestAnagramAnswerIsExtractedLetters(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		data, answer, err := BuildAnagram(newRand(seed), AnswerConfigFrom(puzzle.Options{"answer": "test"}))
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(data.Words), 4)

		var built strings.Builder
		seen := map[string]bool{}
		for _, w := range data.Words {
			assert.False(t, seen[w.Original], "word %s used twice", w.Original)
			seen[w.Original] = true
			assert.Equal(t, string(w.Original[w.ExtractIndex]), w.ExtractChar)
			assert.Equal(t, w.ExtractIndex+1, w.DisplayPosition)
			assert.ElementsMatch(t, []rune(w.Original), []rune(w.Scrambled))
			built.WriteString(w.ExtractChar)
		}
		assert.Equal(t, built.String(), answer)
		assert.True(t, strings.HasPrefix(answer, "TEST"))
	}
}

func TestAnagramUnmatchedLetters(t *testing.T) {
	// Q has no pool word, so the answer differs from the input
	_, answer, err := BuildAnagram(newRand(1), AnswerConfig{Answer: "QQ"})
	require.NoError(t, err)
	assert.Len(t, answer, 4)
	assert.NotContains(t, answer, "Q")
}

func TestMicroText(t *testing.T) {
	data, answer, err := BuildMicroText(newRand(3), AnswerConfigFrom(puzzle.Options{"answer": "hidden"}))
	require.NoError(t, err)
	assert.Equal(t, "HIDDEN", answer)
	require.Len(t, data.Blocks, 7)

	hidden := 0
	for i, b := range data.Blocks {
		if b.HasHidden {
			hidden++
			assert.Equal(t, data.HiddenLineIndex, i)
			assert.Equal(t, "HIDDEN", b.HiddenCode)
		}
	}
	assert.Equal(t, 1, hidden)
	assert.Equal(t, "LOOK VERY CLOSELY AT LINE "+strconv.Itoa(data.HiddenLineIndex+1), data.Instruction)
}

func TestSimpleCallerSupplied(t *testing.T) {
	fold, answer, err := BuildFolding(nil, FoldingConfigFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "1234", fold.Code)
	assert.Equal(t, "1234", answer)

	wave, answer, err := BuildSoundWave(newRand(1), SoundWaveConfigFrom(puzzle.Options{"answer": "beep"}))
	require.NoError(t, err)
	assert.Equal(t, "BEEP", answer)
	assert.Len(t, wave.Bars, 40)
	assert.Equal(t, 440.0, wave.Frequency)
	assert.Equal(t, "loop", wave.Pattern)
	for _, b := range wave.Bars {
		assert.GreaterOrEqual(t, b, 10)
		assert.LessOrEqual(t, b, 100)
	}

	text, answer, err := BuildText(nil, PlainTextConfigFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "NO DATA", text.Content)
	assert.Equal(t, puzzle.DefaultAnswer, answer)
}

func TestPoolSelected(t *testing.T) {
	art, answer, err := BuildAscii(newRand(1), AsciiConfigFrom(puzzle.Options{"answer": "ghost"}))
	require.NoError(t, err)
	assert.Equal(t, "GHOST", answer)
	assert.Contains(t, art.Art, "(_/ \\_)")

	_, answer, err = BuildAscii(newRand(1), AsciiConfigFrom(puzzle.Options{"answer": "DRAGON"}))
	require.NoError(t, err)
	assert.Contains(t, []string{"KEY", "LOCK", "BOMB", "GHOST"}, answer)

	riddle, answer, err := BuildRiddle(newRand(1), RiddleConfigFrom(puzzle.Options{
		"riddle_text":   "What has a neck but no head?",
		"riddle_answer": "bottle",
	}))
	require.NoError(t, err)
	assert.Equal(t, "BOTTLE", answer)
	assert.Equal(t, "What has a neck but no head?", riddle.Text)

	// half an override is ignored
	_, answer, err = BuildRiddle(newRand(1), RiddleConfigFrom(puzzle.Options{"riddle_answer": "bottle"}))
	require.NoError(t, err)
	assert.NotEqual(t, "BOTTLE", answer)

	rebus, answer, err := BuildRebus(newRand(2), struct{}{})
	require.NoError(t, err)
	assert.NotEmpty(t, rebus.Lines)
	assert.NotEmpty(t, answer)
}

func TestWordLaddersAreValid(t *testing.T) {
	for _, ladder := range WordLadders {
		require.GreaterOrEqual(t, len(ladder), 3)
		for i := 1; i < len(ladder); i++ {
			a, b := ladder[i-1], ladder[i]
			require.Equal(t, len(a), len(b), "%v", ladder)
			diff := 0
			for j := range a {
				if a[j] != b[j] {
					diff++
				}
			}
			assert.Equal(t, 1, diff, "%s -> %s", a, b)
		}
	}

	data, answer, err := BuildWordLadder(newRand(5), struct{}{})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("_", len(answer)), data.Rungs[data.HiddenIndex])
	assert.NotContains(t, strings.Join(data.Rungs, " "), answer)
}

func TestNonogramCluesMatchSolution(t *testing.T) {
	for seed := uint64(0); seed < 40; seed++ {
		data, answer, err := BuildNonogram(newRand(seed), NonogramConfig{})
		require.NoError(t, err)
		assert.Equal(t, clues.NonogramClues(data.Solution), data.Clues)
		assert.Equal(t, len(data.Solution), data.Height)
		assert.NotEmpty(t, answer)
	}
}

func TestNonogramMirrorOption(t *testing.T) {
	cfg := NonogramConfigFrom(puzzle.Options{"mirror": "true"})
	require.NotNil(t, cfg.Mirror)

	data, answer, err := BuildNonogram(newRand(1), cfg)
	require.NoError(t, err)
	assert.True(t, data.Mirrored)

	var pic Picture
	for _, p := range Pictures {
		if p.Name == answer {
			pic = p
		}
	}
	orig, err := clues.ParseBitmap(pic.Rows)
	require.NoError(t, err)
	assert.Equal(t, clues.MirrorBitmap(orig), data.Solution)
}

func TestPicturesParse(t *testing.T) {
	for _, p := range Pictures {
		_, err := clues.ParseBitmap(p.Rows)
		assert.NoError(t, err, p.Name)
	}
}

func TestRotateDigitsPreservesLatinGrids(t *testing.T) {
	require.True(t, ValidLatinGrid(miniSudokuBase, 2, 2))
	require.True(t, ValidLatinGrid(SudokuBase(), 3, 3))

	for shift := 0; shift < 9; shift++ {
		assert.True(t, ValidLatinGrid(RotateDigits(miniSudokuBase, shift, 4), 2, 2), "4x4 shift %d", shift)
		assert.True(t, ValidLatinGrid(RotateDigits(SudokuBase(), shift, 9), 3, 3), "9x9 shift %d", shift)
	}
}

func TestRotateDigitsKeepsBlanks(t *testing.T) {
	out := RotateDigits([][]int{{0, 4}, {9, 0}}, 1, 9)
	assert.Equal(t, [][]int{{0, 5}, {1, 0}}, out)
}

func TestValidLatinGridRejects(t *testing.T) {
	assert.False(t, ValidLatinGrid([][]int{{1, 2}, {1, 2}}, 1, 1))
	assert.False(t, ValidLatinGrid([][]int{
		{1, 2, 3, 4},
		{2, 3, 4, 1},
		{3, 4, 1, 2},
		{4, 1, 2, 3},
	}, 2, 2), "rows and columns fine but boxes repeat")
	assert.False(t, ValidLatinGrid(nil, 2, 2))
}

func TestMiniSudoku(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		data, answer, err := BuildMiniSudoku(newRand(seed), ShiftConfig{})
		require.NoError(t, err)
		require.True(t, ValidLatinGrid(data.Solved, 2, 2))

		blanks := 0
		for y, row := range data.Puzzle {
			for x, v := range row {
				corner := (y == 0 || y == 3) && (x == 0 || x == 3)
				if v == 0 {
					blanks++
					assert.True(t, corner, "seed %d: blank at %d,%d", seed, x, y)
				} else {
					assert.Equal(t, data.Solved[y][x], v)
				}
			}
		}
		assert.Equal(t, 4, blanks)

		sum := data.Solved[0][0] + data.Solved[0][3] + data.Solved[3][0] + data.Solved[3][3]
		assert.Equal(t, strconv.Itoa(sum), answer)
	}
}

func TestShiftOption(t *testing.T) {
	data, _, err := BuildMiniSudoku(newRand(1), ShiftConfigFrom(puzzle.Options{"shift": 11}))
	require.NoError(t, err)
	assert.Equal(t, 2, data.Shift)
}

func TestKakuroCluesMatchSolution(t *testing.T) {
	open, err := clues.ParseLayout(kakuroLayout)
	require.NoError(t, err)

	for shift := 0; shift < 9; shift++ {
		s := shift
		data, answer, err := BuildKakuro(newRand(1), ShiftConfig{Shift: &s})
		require.NoError(t, err)

		recomputed, err := clues.SumClues(open, data.Solved)
		require.NoError(t, err)
		assert.Equal(t, recomputed, data.Clues)

		runs, err := clues.Runs(open, data.Solved)
		require.NoError(t, err)
		for _, run := range runs {
			seen := map[int]bool{}
			for _, d := range run {
				assert.False(t, seen[d], "shift %d: digit %d repeats in run %v", shift, d, run)
				seen[d] = true
			}
		}

		var want strings.Builder
		for _, k := range data.KeyCells {
			want.WriteString(strconv.Itoa(data.Solved[k.Y][k.X]))
		}
		assert.Equal(t, want.String(), answer)
		assert.Len(t, answer, 3)
	}
}

func TestCheckDistinctRuns(t *testing.T) {
	assert.NoError(t, checkDistinctRuns([][]int{{1, 2, 3}, {9}, {4, 5}}))

	err := checkDistinctRuns([][]int{{1, 2}, {3, 4, 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGrid)
	assert.Contains(t, err.Error(), "digit 3")
}

func TestScytaleUnwindsToPaddedText(t *testing.T) {
	for rails := 2; rails <= 6; rails++ {
		data, answer, err := BuildScytale(newRand(1), ScytaleConfig{Text: "ATTACK AT DAWN", Rails: rails})
		require.NoError(t, err)
		assert.Equal(t, "ATTACKATDAWN", answer)
		assert.True(t, strings.HasPrefix(UnwindScytale(data.Strip, rails), answer), "rails %d", rails)
	}
}

func TestWordSearch(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		data, answer, err := BuildWordSearch(newRand(seed), WordSearchConfigFrom(puzzle.Options{"answer": "code red"}))
		require.NoError(t, err)
		assert.Equal(t, "CODERED", answer)
		require.Len(t, data.Grid, 10)
		require.Len(t, data.AnswerPositions, len(answer))

		for i, p := range data.AnswerPositions {
			assert.Equal(t, answer[i], data.Grid[p.Y][p.X])
		}
		for _, pw := range data.Placements {
			for i, p := range pw.Positions {
				assert.Equal(t, pw.Word[i], data.Grid[p.Y][p.X])
			}
		}
		assert.LessOrEqual(t, len(data.Words), 4)
	}
}

func TestWordSearchClipsLongAnswer(t *testing.T) {
	cfg := WordSearchConfigFrom(puzzle.Options{"answer": strings.Repeat("A", 30), "grid_size": 6})
	_, answer, err := BuildWordSearch(newRand(1), cfg)
	require.NoError(t, err)
	assert.Len(t, answer, 18)
}

func TestSymbolMath(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		data, answer, err := BuildSymbolMath(newRand(seed), struct{}{})
		require.NoError(t, err)
		require.Len(t, data.Equations, 3)

		// solve the chain the way a player would
		a := data.Equations[0].Right / 2
		b := data.Equations[1].Right - a
		c := data.Equations[2].Right - b
		assert.Equal(t, strconv.Itoa(c), answer)
		assert.True(t, strings.HasSuffix(data.Equations[2].Left, data.AskSymbol))
		assert.GreaterOrEqual(t, c, 2)
		assert.LessOrEqual(t, c, 6)
	}
}

func TestNumberSequenceRules(t *testing.T) {
	want := map[string]struct {
		visible []int
		answer  string
	}{
		"double": {[]int{2, 4, 8, 16, 32}, "64"},
		"add3":   {[]int{1, 4, 7, 10, 13}, "16"},
		"square": {[]int{1, 4, 9, 16, 25}, "36"},
		"fib":    {[]int{1, 2, 3, 5, 8}, "13"},
		"add5":   {[]int{2, 7, 12, 17, 22}, "27"},
		"triple": {[]int{1, 3, 9, 27, 81}, "243"},
	}

	for name, tt := range want {
		t.Run(name, func(t *testing.T) {
			data, answer, err := BuildNumberSequence(newRand(1), SequenceConfigFrom(puzzle.Options{"rule": name}))
			require.NoError(t, err)
			assert.Equal(t, tt.visible, data.Visible)
			assert.Equal(t, tt.answer, answer)
		})
	}
}

func TestSpotDiff(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		data, answer, err := BuildSpotDiff(newRand(seed), SpotDiffConfigFrom(nil))
		require.NoError(t, err)
		require.Len(t, data.BlockA, 6)
		require.Len(t, data.BlockB, 6)
		assert.Equal(t, 4, data.DiffCount)

		var got strings.Builder
		changed := 0
		for i := range data.BlockA {
			require.Len(t, data.BlockA[i], 20)
			for j := range data.BlockA[i] {
				if data.BlockA[i][j] != data.BlockB[i][j] {
					changed++
					got.WriteByte(data.BlockB[i][j])
				}
			}
		}
		assert.Equal(t, 4, changed)
		assert.Equal(t, got.String(), answer)
	}
}
