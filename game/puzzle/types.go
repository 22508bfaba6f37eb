package puzzle

import "strings"

// PuzzleType identifies a generator in the dispatch table
type PuzzleType string

const (
	MazeVertical   PuzzleType = "MAZE_VERTICAL"
	WordSearch     PuzzleType = "WORD_SEARCH"
	Cipher         PuzzleType = "CIPHER"
	Polybius       PuzzleType = "POLYBIUS"
	Tactile        PuzzleType = "TACTILE"
	Scytale        PuzzleType = "SCYTALE"
	Mirror         PuzzleType = "MIRROR"
	Anagram        PuzzleType = "ANAGRAM"
	MicroText      PuzzleType = "MICRO_TEXT"
	Folding        PuzzleType = "FOLDING"
	SoundWave      PuzzleType = "SOUND_WAVE"
	Text           PuzzleType = "TEXT"
	ASCII          PuzzleType = "ASCII"
	Riddle         PuzzleType = "RIDDLE"
	WordLadder     PuzzleType = "WORD_LADDER"
	Rebus          PuzzleType = "REBUS"
	Nonogram       PuzzleType = "NONOGRAM"
	SymbolMath     PuzzleType = "SYMBOL_MATH"
	NumberSequence PuzzleType = "NUMBER_SEQUENCE"
	MiniSudoku     PuzzleType = "MINI_SUDOKU"
	Kakuro         PuzzleType = "KAKURO"
	SpotDiff       PuzzleType = "SPOT_DIFF"

	// DefaultAnswer is used when a caller-supplied answer is missing
	DefaultAnswer = "SECRET"
)

// AnswerPattern describes how a generator arrives at its answer
type AnswerPattern string

const (
	CallerSupplied AnswerPattern = "caller_supplied"
	PoolSelected   AnswerPattern = "pool_selected"
	Computed       AnswerPattern = "computed"
)

// TypeInfo documents a registered puzzle type
type TypeInfo struct {
	Type        PuzzleType    `json:"type"`
	Pattern     AnswerPattern `json:"pattern"`
	Description string        `json:"description"`
}

// Catalog lists every known puzzle type in display order.
var Catalog = []TypeInfo{
	{MazeVertical, CallerSupplied, "Tall maze; the answer is spelled along the solution path"},
	{WordSearch, CallerSupplied, "Letter grid with hidden words; leftover reserved letters spell the answer"},
	{Cipher, CallerSupplied, "Substitution cipher (CAESAR, PIGPEN or ICON)"},
	{Polybius, CallerSupplied, "Polybius square coordinates"},
	{Tactile, CallerSupplied, "Morse or Braille encoded text"},
	{Scytale, CallerSupplied, "Transposition cipher read around a rod"},
	{Mirror, CallerSupplied, "Mirrored text to be read in a reflection"},
	{Anagram, CallerSupplied, "Scrambled words; marked letters form the answer"},
	{MicroText, CallerSupplied, "Block of text hiding a tiny code on one line"},
	{Folding, CallerSupplied, "Code split across a fold"},
	{SoundWave, CallerSupplied, "Decorative waveform paired with an audio cue"},
	{Text, CallerSupplied, "Plain text clue"},
	{ASCII, PoolSelected, "ASCII silhouette to identify"},
	{Riddle, PoolSelected, "Classic what-am-I riddle"},
	{WordLadder, PoolSelected, "Word ladder with a hidden rung"},
	{Rebus, PoolSelected, "Word arrangement representing a phrase"},
	{Nonogram, PoolSelected, "Shaded picture reconstructed from run-length clues"},
	{SymbolMath, Computed, "Symbol equations; solve for the asked symbol"},
	{NumberSequence, Computed, "Find the next number of a sequence"},
	{MiniSudoku, Computed, "4x4 sudoku; the answer is the sum of the corners"},
	{Kakuro, Computed, "Sum-clue grid; the answer is read from the key cells"},
	{SpotDiff, Computed, "Two text blocks; type the changed characters"},
}

// KnownTypes returns the identifiers of every puzzle type in Catalog
func KnownTypes() []PuzzleType {
	types := make([]PuzzleType, 0, len(Catalog))
	for _, info := range Catalog {
		types = append(types, info.Type)
	}
	return types
}

// IsKnown reports whether name matches a catalogued puzzle type
func IsKnown(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Lookup returns the catalog entry for name, ignoring case and surrounding space
func Lookup(name string) (TypeInfo, bool) {
	t := PuzzleType(strings.ToUpper(strings.TrimSpace(name)))
	for _, info := range Catalog {
		if info.Type == t {
			return info, true
		}
	}
	return TypeInfo{}, false
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is the envelope produced by every generation call
type Result struct {
	Type   PuzzleType `json:"type"`
	Answer string     `json:"answer"`
	Data   any        `json:"data"`

	// Seed reproduces the result when passed back as the "seed" option
	Seed int64 `json:"seed"`
}

// NormalizeAnswer canonicalizes player input and answers for comparison
func NormalizeAnswer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
