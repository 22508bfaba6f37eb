package clues

import (
	"errors"
	"fmt"
)

// ErrDigitMismatch is returned when a digit grid does not fit its layout
var ErrDigitMismatch = errors.New("digit grid does not match layout")

// SumClue is the clue printed in a blocked cell. Across is the sum of the
// open run to its right and Down the sum of the open run below it; zero
// means there is no run in that direction.
type SumClue struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Across int `json:"across,omitempty"`
	Down   int `json:"down,omitempty"`
}

// SumClues derives the clue set for a number-placement grid. open marks the
// open cells and digits holds the solved digit for each of them. Clues are
// returned in row-major order and only for blocked cells that start at least
// one run.
func SumClues(open [][]bool, digits [][]int) ([]SumClue, error) {
	if err := checkDigits(open, digits); err != nil {
		return nil, err
	}

	var clues []SumClue
	for y, row := range open {
		for x, isOpen := range row {
			if isOpen {
				continue
			}
			c := SumClue{X: x, Y: y}
			for i := x + 1; i < len(row) && row[i]; i++ {
				c.Across += digits[y][i]
			}
			for j := y + 1; j < len(open) && open[j][x]; j++ {
				c.Down += digits[j][x]
			}
			if c.Across > 0 || c.Down > 0 {
				clues = append(clues, c)
			}
		}
	}
	return clues, nil
}

// Runs returns every maximal horizontal and vertical run of open cells as
// lists of digits. Used to check that no digit repeats within a run.
func Runs(open [][]bool, digits [][]int) ([][]int, error) {
	if err := checkDigits(open, digits); err != nil {
		return nil, err
	}

	var runs [][]int
	var cur []int
	flush := func() {
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}

	for y, row := range open {
		for x, isOpen := range row {
			if isOpen {
				cur = append(cur, digits[y][x])
			} else {
				flush()
			}
		}
		flush()
	}
	if len(open) > 0 {
		for x := range open[0] {
			for y := range open {
				if open[y][x] {
					cur = append(cur, digits[y][x])
				} else {
					flush()
				}
			}
			flush()
		}
	}
	return runs, nil
}

func checkDigits(open [][]bool, digits [][]int) error {
	if len(open) != len(digits) {
		return fmt.Errorf("%w: %d layout rows, %d digit rows", ErrDigitMismatch, len(open), len(digits))
	}
	for y, row := range open {
		if len(row) != len(digits[y]) {
			return fmt.Errorf("%w: row %d width %d, digits width %d", ErrDigitMismatch, y, len(row), len(digits[y]))
		}
		for x, isOpen := range row {
			if isOpen && (digits[y][x] < 1 || digits[y][x] > 9) {
				return fmt.Errorf("%w: open cell (%d,%d) holds %d", ErrDigitMismatch, x, y, digits[y][x])
			}
		}
	}
	return nil
}
