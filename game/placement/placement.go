// Package placement lays words and reserved answer letters onto a square
// letter board for word-search puzzles.
package placement

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

const (
	// DefaultAttempts is the retry budget per word
	DefaultAttempts = 50

	// FillerAlphabet omits glyphs that are easily confused on thermal paper (I, O)
	FillerAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// ErrBoardFull is returned when the answer has more letters than the board has cells
var ErrBoardFull = errors.New("answer does not fit on board")

// Board is a square grid of letters; zero runes are empty cells
type Board struct {
	Size     int
	cells    []rune
	reserved mapset.Set[int]
}

// PlacedWord records a word that made it onto the board
type PlacedWord struct {
	Word       string            `json:"word"`
	Horizontal bool              `json:"horizontal"`
	Positions  []puzzle.Position `json:"positions"`
}

// NewBoard creates an empty size x size board
func NewBoard(size int) *Board {
	return &Board{
		Size:     size,
		cells:    make([]rune, size*size),
		reserved: mapset.New[int](),
	}
}

// At returns the letter at x,y or 0 when empty
func (b *Board) At(x, y int) rune {
	return b.cells[y*b.Size+x]
}

// IsReserved reports whether the cell at index i holds an answer letter
func (b *Board) IsReserved(i int) bool {
	return b.reserved.Has(i)
}

// Rows returns the board as strings, one per row; empty cells render as '.'
func (b *Board) Rows() []string {
	rows := make([]string, b.Size)
	for y := 0; y < b.Size; y++ {
		row := make([]rune, b.Size)
		for x := 0; x < b.Size; x++ {
			if r := b.At(x, y); r != 0 {
				row[x] = r
			} else {
				row[x] = '.'
			}
		}
		rows[y] = string(row)
	}
	return rows
}

// Letters returns the board cells in row-major order as single-letter strings
func (b *Board) Letters() []string {
	out := make([]string, len(b.cells))
	for i, r := range b.cells {
		if r != 0 {
			out[i] = string(r)
		}
	}
	return out
}

// ReserveAnswer writes each answer letter into a distinct random empty cell
// and returns the chosen cell indices in answer order.
func ReserveAnswer(rng *rand.Rand, b *Board, answer string) ([]int, error) {
	letters := []rune(answer)

	var free []int
	for i, r := range b.cells {
		if r == 0 {
			free = append(free, i)
		}
	}
	if len(letters) > len(free) {
		return nil, fmt.Errorf("%w: %d letters, %d free cells", ErrBoardFull, len(letters), len(free))
	}

	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	positions := make([]int, len(letters))
	for i, r := range letters {
		idx := free[i]
		b.cells[idx] = r
		b.reserved.Put(idx)
		positions[i] = idx
	}
	return positions, nil
}

// PlaceWords tries each word up to attempts times with a random orientation
// and origin. A placement is accepted only if every cell it covers is empty
// or already holds the same letter. Words that never fit are dropped.
func PlaceWords(rng *rand.Rand, b *Board, words []string, attempts int) []PlacedWord {
	placed := []PlacedWord{}
	for _, word := range words {
		pw, ok := placeWord(rng, b, []rune(word), attempts)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"word":     word,
				"attempts": attempts,
			}).Debug("word dropped from board")
			continue
		}
		placed = append(placed, pw)
	}
	return placed
}

func placeWord(rng *rand.Rand, b *Board, word []rune, attempts int) (PlacedWord, bool) {
	if len(word) == 0 || len(word) > b.Size {
		return PlacedWord{}, false
	}

	span := b.Size - len(word) + 1
	for attempt := 0; attempt < attempts; attempt++ {
		horizontal := rng.IntN(2) == 0

		var startX, startY int
		if horizontal {
			startX, startY = rng.IntN(span), rng.IntN(b.Size)
		} else {
			startX, startY = rng.IntN(b.Size), rng.IntN(span)
		}

		positions := make([]puzzle.Position, len(word))
		fits := true
		for i, r := range word {
			x, y := startX, startY
			if horizontal {
				x += i
			} else {
				y += i
			}
			if cur := b.At(x, y); cur != 0 && cur != r {
				fits = false
				break
			}
			positions[i] = puzzle.Position{X: x, Y: y}
		}
		if !fits {
			continue
		}

		for i, p := range positions {
			b.cells[p.Y*b.Size+p.X] = word[i]
		}
		return PlacedWord{Word: string(word), Horizontal: horizontal, Positions: positions}, true
	}
	return PlacedWord{}, false
}

// Fill writes random letters from alphabet into every empty cell
func Fill(rng *rand.Rand, b *Board, alphabet string) {
	letters := []rune(alphabet)
	for i, r := range b.cells {
		if r == 0 {
			b.cells[i] = letters[rng.IntN(len(letters))]
		}
	}
}
