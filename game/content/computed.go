package content

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

// Equation is one line of a SYMBOL_MATH puzzle
type Equation struct {
	Left  string `json:"left"`
	Right int    `json:"right"`
}

// SymbolMathData is the payload of a SYMBOL_MATH puzzle
type SymbolMathData struct {
	Equations []Equation `json:"equations"`
	AskSymbol string     `json:"askSymbol"`
}

// BuildSymbolMath assigns values 2..6 to three symbols and prints a chain of
// equations that pins each one down. The answer is the third symbol's value.
func BuildSymbolMath(rng *rand.Rand, _ struct{}) (SymbolMathData, string, error) {
	pool := make([]string, len(symbolPool))
	copy(pool, symbolPool)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	a, b, c := pool[0], pool[1], pool[2]

	va := rng.IntN(5) + 2
	vb := rng.IntN(5) + 2
	vc := rng.IntN(5) + 2

	return SymbolMathData{
		Equations: []Equation{
			{Left: a + " + " + a, Right: va * 2},
			{Left: a + " + " + b, Right: va + vb},
			{Left: b + " + " + c, Right: vb + vc},
		},
		AskSymbol: c,
	}, strconv.Itoa(vc), nil
}

// SequenceRule generates the i-th term of a number sequence
type SequenceRule struct {
	Name string
	Desc string
	term func(i int, prev []int) int
}

func pow(base, exp int) int {
	n := 1
	for ; exp > 0; exp-- {
		n *= base
	}
	return n
}

// SequenceRules is the catalog of NUMBER_SEQUENCE generators
var SequenceRules = []SequenceRule{
	{Name: "double", Desc: "Doubling", term: func(i int, _ []int) int { return 2 * pow(2, i) }},
	{Name: "add3", Desc: "Add 3", term: func(i int, _ []int) int { return 1 + 3*i }},
	{Name: "square", Desc: "Squares", term: func(i int, _ []int) int { return (i + 1) * (i + 1) }},
	{Name: "fib", Desc: "Fibonacci", term: func(i int, prev []int) int {
		if i < 2 {
			return i + 1
		}
		return prev[i-1] + prev[i-2]
	}},
	{Name: "add5", Desc: "Add 5", term: func(i int, _ []int) int { return 2 + 5*i }},
	{Name: "triple", Desc: "Tripling", term: func(i int, _ []int) int { return pow(3, i) }},
}

// SequenceConfig configures NUMBER_SEQUENCE puzzles; an empty Rule means random
type SequenceConfig struct {
	Rule string
}

// SequenceConfigFrom reads the optional "rule" option
func SequenceConfigFrom(o puzzle.Options) SequenceConfig {
	return SequenceConfig{Rule: strings.ToLower(o.String("rule", ""))}
}

// SequenceData is the payload of a NUMBER_SEQUENCE puzzle
type SequenceData struct {
	Visible []int  `json:"visible"`
	Hint    string `json:"hint"`
}

const (
	sequenceTerms   = 6
	sequenceVisible = 5
)

// BuildNumberSequence shows five terms of a rule; the answer is the sixth
func BuildNumberSequence(rng *rand.Rand, cfg SequenceConfig) (SequenceData, string, error) {
	rule := SequenceRules[rng.IntN(len(SequenceRules))]
	for _, r := range SequenceRules {
		if r.Name == cfg.Rule {
			rule = r
			break
		}
	}

	terms := make([]int, 0, sequenceTerms)
	for i := 0; i < sequenceTerms; i++ {
		terms = append(terms, rule.term(i, terms))
	}

	return SequenceData{
		Visible: terms[:sequenceVisible],
		Hint:    rule.Desc,
	}, strconv.Itoa(terms[sequenceVisible]), nil
}

// SpotDiffConfig configures SPOT_DIFF puzzles
type SpotDiffConfig struct {
	Differences int
}

const (
	spotDiffLines  = 6
	spotDiffLength = 20
	spotDiffChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ0123456789"
)

// SpotDiffConfigFrom reads "differences", clamped to 1..12
func SpotDiffConfigFrom(o puzzle.Options) SpotDiffConfig {
	return SpotDiffConfig{Differences: min(max(o.Int("differences", 4), 1), 12)}
}

// Difference records one changed character
type Difference struct {
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Original string `json:"original"`
	Modified string `json:"modified"`
}

// SpotDiffData is the payload of a SPOT_DIFF puzzle
type SpotDiffData struct {
	BlockA      []string     `json:"blockA"`
	BlockB      []string     `json:"blockB"`
	DiffCount   int          `json:"diffCount"`
	Differences []Difference `json:"differences"`
	Instruction string       `json:"instruction"`
}

// BuildSpotDiff prints two text blocks that differ in a few distinct cells.
// The answer is the replacement characters in reading order.
func BuildSpotDiff(rng *rand.Rand, cfg SpotDiffConfig) (SpotDiffData, string, error) {
	base := make([][]byte, spotDiffLines)
	for i := range base {
		base[i] = make([]byte, spotDiffLength)
		for j := range base[i] {
			base[i][j] = spotDiffChars[rng.IntN(len(spotDiffChars))]
		}
	}

	modified := make([][]byte, spotDiffLines)
	for i := range base {
		modified[i] = append([]byte(nil), base[i]...)
	}

	// distinct cells, drawn without replacement
	cells := rng.Perm(spotDiffLines * spotDiffLength)[:cfg.Differences]
	sort.Ints(cells)

	diffs := make([]Difference, 0, len(cells))
	var answer strings.Builder
	for _, cell := range cells {
		line, col := cell/spotDiffLength, cell%spotDiffLength
		orig := base[line][col]
		next := orig
		for next == orig {
			next = spotDiffChars[rng.IntN(len(spotDiffChars))]
		}
		modified[line][col] = next
		diffs = append(diffs, Difference{Line: line, Col: col, Original: string(orig), Modified: string(next)})
		answer.WriteByte(next)
	}

	blockA := make([]string, spotDiffLines)
	blockB := make([]string, spotDiffLines)
	for i := range base {
		blockA[i] = string(base[i])
		blockB[i] = string(modified[i])
	}

	return SpotDiffData{
		BlockA:      blockA,
		BlockB:      blockB,
		DiffCount:   len(diffs),
		Differences: diffs,
		Instruction: fmt.Sprintf("FIND %d DIFFERENCES. TYPE THE NEW CHARACTERS.", len(diffs)),
	}, answer.String(), nil
}
