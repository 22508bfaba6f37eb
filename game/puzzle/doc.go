// Package puzzle holds the types shared by every puzzle generator.
//
// A generation request is a PuzzleType plus an Options bag. Options is the
// loosely-typed configuration received from callers (JSON bodies, deck files,
// MCP arguments); generators never read it directly but decode it into a
// typed per-type config struct through the accessors defined here.
//
// Core Types:
//
// Result is the envelope returned for every generation: the type that was
// actually built, the canonical answer a player must submit, and an opaque
// type-specific payload for the renderer. Deck and Stage describe a named,
// ordered list of generation requests loaded from configuration files.
//
// Answers:
//
// For caller-supplied and pool-selected types the answer may be known before
// generation; for computed types (SYMBOL_MATH, NUMBER_SEQUENCE, MINI_SUDOKU,
// KAKURO, SPOT_DIFF, ANAGRAM) it is only known afterwards. Callers must always
// read Result.Answer rather than any answer hint passed in Options.
package puzzle
