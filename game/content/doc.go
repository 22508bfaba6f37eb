// Package content implements every puzzle builder except the dispatcher.
//
// Each builder is a two-phase function: it receives a typed config and a
// per-call random source and returns the rendering payload together with the
// canonical answer. The answer is always a return value, never a field
// patched after the fact, so a builder cannot hand back a stale default.
//
// Builders fall into three families:
//
//   - caller-supplied: the answer comes from the config, possibly
//     canonicalized (CIPHER, POLYBIUS, TACTILE, SCYTALE, MIRROR, ANAGRAM,
//     MICRO_TEXT, FOLDING, SOUND_WAVE, TEXT, WORD_SEARCH, MAZE_VERTICAL)
//   - pool-selected: the answer is drawn from a fixed catalog (ASCII, RIDDLE,
//     WORD_LADDER, REBUS, NONOGRAM)
//   - computed: the answer is derived from freshly built content
//     (SYMBOL_MATH, NUMBER_SEQUENCE, MINI_SUDOKU, KAKURO, SPOT_DIFF)
//
// Grid puzzles that vary their appearance with row swaps or digit rotation
// apply the transform to the solved grid first and derive clues and answers
// from the transformed grid.
package content
