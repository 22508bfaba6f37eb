// Package clues derives display clues from solved grids.
//
// Clues are always a pure function of the solved grid: nonogram run-lengths
// come from a bitmap and kakuro sums come from a blocked/open layout plus the
// digits filling its open cells. Generators recompute clues on every call so
// the printed clues and the solution cannot drift apart.
//
// Layouts and bitmaps are authored as rows of characters, in the same way
// board layouts are written in deck files:
//
//	'#' or 'X'  filled (bitmap) / blocked (layout)
//	'.'         empty (bitmap) / open (layout)
package clues
