package content

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/wricardo/receipt-escape/game/clues"
	"github.com/wricardo/receipt-escape/game/maze"
	"github.com/wricardo/receipt-escape/game/placement"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

// ErrInvalidGrid means a solved grid broke its row, column or box constraints
var ErrInvalidGrid = errors.New("solved grid violates constraints")

// BuildMaze generates a vertical maze with the answer on its solution path.
// The answer returned is the one actually embedded, which may be clipped.
func BuildMaze(rng *rand.Rand, cfg AnswerConfig) (*maze.Maze, string, error) {
	m, err := maze.Generate(rng, cfg.Answer)
	if err != nil {
		return nil, "", fmt.Errorf("generating maze: %w", err)
	}
	return m, m.Answer, nil
}

// WordSearchConfig configures WORD_SEARCH puzzles
type WordSearchConfig struct {
	Answer    string
	GridSize  int
	WordCount int
}

// WordSearchConfigFrom decodes WORD_SEARCH options. Spaces are removed from
// the answer since every letter occupies a cell.
func WordSearchConfigFrom(o puzzle.Options) WordSearchConfig {
	size := min(max(o.Int("grid_size", 10), 6), 20)
	return WordSearchConfig{
		Answer:    strings.Join(strings.Fields(o.Answer()), ""),
		GridSize:  size,
		WordCount: min(max(o.Int("word_count", 4), 0), len(WordSearchBank)),
	}
}

// WordSearchData is the payload of a WORD_SEARCH puzzle
type WordSearchData struct {
	Grid            []string               `json:"grid"`
	GridSize        int                    `json:"gridSize"`
	Words           []string               `json:"words"`
	Placements      []placement.PlacedWord `json:"placements"`
	AnswerPositions []puzzle.Position      `json:"answerPositions"`
}

// BuildWordSearch reserves cells for the answer letters, hides themed words
// and fills the rest. Words that do not fit are left out of the word list.
func BuildWordSearch(rng *rand.Rand, cfg WordSearchConfig) (WordSearchData, string, error) {
	answer := []rune(cfg.Answer)
	if limit := cfg.GridSize * cfg.GridSize / 2; len(answer) > limit {
		answer = answer[:limit]
	}

	board := placement.NewBoard(cfg.GridSize)
	cells, err := placement.ReserveAnswer(rng, board, string(answer))
	if err != nil {
		return WordSearchData{}, "", err
	}

	bank := make([]string, len(WordSearchBank))
	copy(bank, WordSearchBank)
	rng.Shuffle(len(bank), func(i, j int) { bank[i], bank[j] = bank[j], bank[i] })

	placed := placement.PlaceWords(rng, board, bank[:cfg.WordCount], placement.DefaultAttempts)
	placement.Fill(rng, board, placement.FillerAlphabet)

	letters := board.Letters()
	for i, idx := range cells {
		if !board.IsReserved(idx) || letters[idx] != string(answer[i]) {
			return WordSearchData{}, "", fmt.Errorf("%w: answer letter %d lost at cell %d", ErrInvalidGrid, i, idx)
		}
	}

	words := make([]string, len(placed))
	for i, pw := range placed {
		words[i] = pw.Word
	}
	positions := make([]puzzle.Position, len(cells))
	for i, idx := range cells {
		positions[i] = puzzle.Position{X: idx % cfg.GridSize, Y: idx / cfg.GridSize}
	}

	return WordSearchData{
		Grid:            board.Rows(),
		GridSize:        cfg.GridSize,
		Words:           words,
		Placements:      placed,
		AnswerPositions: positions,
	}, string(answer), nil
}

// NonogramConfig configures NONOGRAM puzzles. A nil Mirror means pick at random.
type NonogramConfig struct {
	Mirror *bool
}

// NonogramConfigFrom decodes the optional "mirror" flag
func NonogramConfigFrom(o puzzle.Options) NonogramConfig {
	if !o.Has("mirror") {
		return NonogramConfig{}
	}
	m := o.Bool("mirror", false)
	return NonogramConfig{Mirror: &m}
}

// NonogramData is the payload of a NONOGRAM puzzle
type NonogramData struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Clues    clues.RunClues `json:"clues"`
	Solution [][]bool       `json:"solution"`
	Mirrored bool           `json:"mirrored"`
}

// BuildNonogram picks a picture, optionally mirrors it and derives the
// run-length clues from the final bitmap
func BuildNonogram(rng *rand.Rand, cfg NonogramConfig) (NonogramData, string, error) {
	pic := Pictures[rng.IntN(len(Pictures))]
	bitmap, err := clues.ParseBitmap(pic.Rows)
	if err != nil {
		return NonogramData{}, "", fmt.Errorf("picture %s: %w", pic.Name, err)
	}

	mirror := rng.IntN(2) == 0
	if cfg.Mirror != nil {
		mirror = *cfg.Mirror
	}
	if mirror {
		bitmap = clues.MirrorBitmap(bitmap)
	}

	return NonogramData{
		Width:    len(bitmap[0]),
		Height:   len(bitmap),
		Clues:    clues.NonogramClues(bitmap),
		Solution: bitmap,
		Mirrored: mirror,
	}, pic.Name, nil
}

// ShiftConfig configures grid puzzles varied by digit rotation. A nil Shift
// means pick at random.
type ShiftConfig struct {
	Shift *int
}

// ShiftConfigFrom decodes the optional "shift" option
func ShiftConfigFrom(o puzzle.Options) ShiftConfig {
	if !o.Has("shift") {
		return ShiftConfig{}
	}
	s := o.Int("shift", 0)
	return ShiftConfig{Shift: &s}
}

func (c ShiftConfig) pick(rng *rand.Rand) int {
	if c.Shift != nil {
		return ((*c.Shift % 9) + 9) % 9
	}
	return rng.IntN(9)
}

// RotateDigits applies v -> (v+shift-1) mod n + 1 to every non-zero cell.
// The map is a permutation of 1..n so all uniqueness constraints survive.
func RotateDigits(grid [][]int, shift, n int) [][]int {
	out := make([][]int, len(grid))
	for y, row := range grid {
		out[y] = make([]int, len(row))
		for x, v := range row {
			if v == 0 {
				continue
			}
			out[y][x] = ((v+shift-1)%n+n)%n + 1
		}
	}
	return out
}

// ValidLatinGrid reports whether an n x n grid holds each of 1..n exactly
// once in every row, column and boxW x boxH box
func ValidLatinGrid(grid [][]int, boxW, boxH int) bool {
	n := len(grid)
	if n == 0 || boxW <= 0 || boxH <= 0 || n%boxW != 0 || n%boxH != 0 {
		return false
	}

	complete := func(get func(i int) int) bool {
		seen := make([]bool, n+1)
		for i := 0; i < n; i++ {
			v := get(i)
			if v < 1 || v > n || seen[v] {
				return false
			}
			seen[v] = true
		}
		return true
	}

	for i := 0; i < n; i++ {
		if len(grid[i]) != n {
			return false
		}
	}
	for i := 0; i < n; i++ {
		r := i
		if !complete(func(j int) int { return grid[r][j] }) {
			return false
		}
		if !complete(func(j int) int { return grid[j][r] }) {
			return false
		}
	}
	for by := 0; by < n; by += boxH {
		for bx := 0; bx < n; bx += boxW {
			ox, oy := bx, by
			if !complete(func(j int) int { return grid[oy+j/boxW][ox+j%boxW] }) {
				return false
			}
		}
	}
	return true
}

var miniSudokuBase = [][]int{
	{1, 2, 3, 4},
	{3, 4, 1, 2},
	{2, 1, 4, 3},
	{4, 3, 2, 1},
}

// MiniSudokuData is the payload of a MINI_SUDOKU puzzle. Zero cells in
// Puzzle are blank.
type MiniSudokuData struct {
	Puzzle      [][]int `json:"puzzle"`
	Solved      [][]int `json:"solved"`
	Shift       int     `json:"shift"`
	Instruction string  `json:"instruction"`
}

// BuildMiniSudoku varies the base 4x4 grid with band and stack swaps plus a
// digit rotation, blanks the four corners and asks for their sum
func BuildMiniSudoku(rng *rand.Rand, cfg ShiftConfig) (MiniSudokuData, string, error) {
	solved := copyGrid(miniSudokuBase)

	// rows may only move within their band and bands as a whole, same for columns
	if rng.IntN(2) == 0 {
		solved[0], solved[1] = solved[1], solved[0]
	}
	if rng.IntN(2) == 0 {
		solved[2], solved[3] = solved[3], solved[2]
	}
	if rng.IntN(2) == 0 {
		solved[0], solved[1], solved[2], solved[3] = solved[2], solved[3], solved[0], solved[1]
	}
	if rng.IntN(2) == 0 {
		swapColumns(solved, 0, 1)
	}
	if rng.IntN(2) == 0 {
		swapColumns(solved, 2, 3)
	}

	shift := cfg.pick(rng)
	solved = RotateDigits(solved, shift, 4)
	if !ValidLatinGrid(solved, 2, 2) {
		return MiniSudokuData{}, "", fmt.Errorf("%w: mini sudoku %v", ErrInvalidGrid, solved)
	}

	grid := copyGrid(solved)
	last := len(grid) - 1
	sum := 0
	for _, c := range [][2]int{{0, 0}, {0, last}, {last, 0}, {last, last}} {
		sum += solved[c[0]][c[1]]
		grid[c[0]][c[1]] = 0
	}

	return MiniSudokuData{
		Puzzle:      grid,
		Solved:      solved,
		Shift:       shift,
		Instruction: "SUM OF CORNER VALUES",
	}, strconv.Itoa(sum), nil
}

// kakuroLayout is cropped from the top-left of a 9x9 sudoku so every run of
// open cells holds distinct digits
var kakuroLayout = []string{
	"#######",
	"#..##..",
	"#......",
	"##..#..",
	"#..#..#",
	"#......",
	"#..##..",
}

// kakuroKeys are the open cells whose digits spell the answer, in order
var kakuroKeys = []puzzle.Position{{X: 1, Y: 1}, {X: 3, Y: 3}, {X: 5, Y: 5}}

// SudokuBase returns the canonical solved 9x9 sudoku
func SudokuBase() [][]int {
	grid := make([][]int, 9)
	for r := range grid {
		grid[r] = make([]int, 9)
		for c := range grid[r] {
			grid[r][c] = (r*3+r/3+c)%9 + 1
		}
	}
	return grid
}

// KakuroData is the payload of a KAKURO puzzle. Solved holds 0 in blocked
// cells.
type KakuroData struct {
	Layout      []string          `json:"layout"`
	Clues       []clues.SumClue   `json:"clues"`
	Solved      [][]int           `json:"solved"`
	KeyCells    []puzzle.Position `json:"keyCells"`
	Shift       int               `json:"shift"`
	Instruction string            `json:"instruction"`
}

// BuildKakuro fills the fixed layout from a rotated 9x9 sudoku, derives the
// sum clues from the filled grid and reads the answer off the key cells
func BuildKakuro(rng *rand.Rand, cfg ShiftConfig) (KakuroData, string, error) {
	shift := cfg.pick(rng)
	source := RotateDigits(SudokuBase(), shift, 9)
	if !ValidLatinGrid(source, 3, 3) {
		return KakuroData{}, "", fmt.Errorf("%w: kakuro source shift %d", ErrInvalidGrid, shift)
	}

	open, err := clues.ParseLayout(kakuroLayout)
	if err != nil {
		return KakuroData{}, "", fmt.Errorf("kakuro layout: %w", err)
	}

	solved := make([][]int, len(open))
	for y, row := range open {
		solved[y] = make([]int, len(row))
		for x, isOpen := range row {
			if isOpen {
				solved[y][x] = source[y][x]
			}
		}
	}

	runs, err := clues.Runs(open, solved)
	if err != nil {
		return KakuroData{}, "", fmt.Errorf("kakuro runs: %w", err)
	}
	if err := checkDistinctRuns(runs); err != nil {
		return KakuroData{}, "", err
	}

	sums, err := clues.SumClues(open, solved)
	if err != nil {
		return KakuroData{}, "", fmt.Errorf("kakuro clues: %w", err)
	}

	var answer strings.Builder
	for _, k := range kakuroKeys {
		if !open[k.Y][k.X] {
			return KakuroData{}, "", fmt.Errorf("%w: key cell %v is blocked", ErrInvalidGrid, k)
		}
		answer.WriteString(strconv.Itoa(solved[k.Y][k.X]))
	}

	return KakuroData{
		Layout:      kakuroLayout,
		Clues:       sums,
		Solved:      solved,
		KeyCells:    kakuroKeys,
		Shift:       shift,
		Instruction: "READ THE CIRCLED CELLS IN ORDER",
	}, answer.String(), nil
}

// checkDistinctRuns fails when a digit repeats inside one open run
func checkDistinctRuns(runs [][]int) error {
	for _, run := range runs {
		seen := make(map[int]bool, len(run))
		for _, d := range run {
			if seen[d] {
				return fmt.Errorf("%w: digit %d repeats in run %v", ErrInvalidGrid, d, run)
			}
			seen[d] = true
		}
	}
	return nil
}

func copyGrid(g [][]int) [][]int {
	out := make([][]int, len(g))
	for i, row := range g {
		out[i] = append([]int(nil), row...)
	}
	return out
}

func swapColumns(g [][]int, a, b int) {
	for _, row := range g {
		row[a], row[b] = row[b], row[a]
	}
}
