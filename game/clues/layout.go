package clues

import (
	"errors"
	"fmt"
)

// ErrBadLayout is returned for ragged or malformed layout rows
var ErrBadLayout = errors.New("invalid layout")

// ParseBitmap converts rows of '#'/'X' and '.' into a filled bitmap
func ParseBitmap(rows []string) ([][]bool, error) {
	return parseRows(rows)
}

// ParseLayout converts rows of '#'/'X' (blocked) and '.' (open) into an
// open-cell mask. The result is true for open cells.
func ParseLayout(rows []string) ([][]bool, error) {
	blocked, err := parseRows(rows)
	if err != nil {
		return nil, err
	}
	open := make([][]bool, len(blocked))
	for y, row := range blocked {
		open[y] = make([]bool, len(row))
		for x, b := range row {
			open[y][x] = !b
		}
	}
	return open, nil
}

func parseRows(rows []string) ([][]bool, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadLayout)
	}

	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrBadLayout)
	}

	out := make([][]bool, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadLayout, y+1, len(row), width)
		}
		out[y] = make([]bool, width)
		for x, ch := range row {
			switch ch {
			case '#', 'X':
				out[y][x] = true
			case '.':
			default:
				return nil, fmt.Errorf("%w: invalid character '%c' at row %d, col %d", ErrBadLayout, ch, y+1, x+1)
			}
		}
	}
	return out, nil
}
