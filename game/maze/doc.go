// Package maze builds tall printable mazes with an answer spelled along the
// solution path.
//
// Generation runs in fixed stages inside Generate and cannot be reordered by
// callers:
//
//  1. Carve: randomized depth-first backtracking in 2-cell steps from (1,1),
//     producing a perfect maze on the odd lattice.
//  2. Open: the entrance is opened in the top border above (1,1); the exit is
//     opened in the bottom border below the first path cell found scanning
//     the second-to-last row at odd columns.
//  3. Solve: breadth-first search from (1,1) to the cell directly above the
//     exit opening. The search target is that exact cell, never any cell in
//     the bottom row.
//  4. Embed: answer rune i is written at path index i*(L-1)/max(A-1,1).
//  5. Noise: non-solution path cells receive a random glyph with probability
//     NoiseRate. Cells on the solution path never receive noise.
//
// Reading the glyphs along Maze.Path in order always yields Maze.Answer.
package maze
