package clues

// RunLengths returns the lengths of consecutive filled runs in line.
// A line with no filled cells yields the single sentinel 0.
func RunLengths(line []bool) []int {
	runs := []int{}
	n := 0
	for _, filled := range line {
		if filled {
			n++
			continue
		}
		if n > 0 {
			runs = append(runs, n)
			n = 0
		}
	}
	if n > 0 {
		runs = append(runs, n)
	}
	if len(runs) == 0 {
		return []int{0}
	}
	return runs
}

// RunClues holds row and column clues of a shaded bitmap
type RunClues struct {
	Rows [][]int `json:"rows"`
	Cols [][]int `json:"cols"`
}

// NonogramClues computes row and column run-lengths for a rectangular bitmap
func NonogramClues(bitmap [][]bool) RunClues {
	clues := RunClues{Rows: make([][]int, len(bitmap))}
	if len(bitmap) == 0 {
		clues.Cols = [][]int{}
		return clues
	}

	width := len(bitmap[0])
	for y, row := range bitmap {
		clues.Rows[y] = RunLengths(row)
	}

	clues.Cols = make([][]int, width)
	col := make([]bool, len(bitmap))
	for x := 0; x < width; x++ {
		for y := range bitmap {
			col[y] = bitmap[y][x]
		}
		clues.Cols[x] = RunLengths(col)
	}
	return clues
}

// MirrorBitmap returns a horizontally flipped copy of bitmap
func MirrorBitmap(bitmap [][]bool) [][]bool {
	out := make([][]bool, len(bitmap))
	for y, row := range bitmap {
		flipped := make([]bool, len(row))
		for x, v := range row {
			flipped[len(row)-1-x] = v
		}
		out[y] = flipped
	}
	return out
}
