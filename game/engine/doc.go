// Package engine dispatches puzzle generation requests to their builders.
//
// The dispatcher owns an immutable table from PuzzleType to builder, created
// once by New. Every call gets its own random source, seeded from the "seed"
// option when present, so concurrent generations share no state and a seed
// always reproduces the same puzzle.
//
// Core Types:
//
// The Generator interface defines the contract used by the service layer,
// implemented by PuzzleEngine. Builders are adapted from the typed
// two-phase functions in package content: each decodes its options into a
// typed config, builds the payload and returns the answer alongside it.
//
// Usage:
//
//	eng := engine.New()
//	res, err := eng.Generate(ctx, "MAZE_VERTICAL", puzzle.Options{"answer": "EXIT"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Answer) // EXIT
//
// Error Handling:
//
// An unknown type is not an error: the request is served by the TEXT builder
// and the fallback is logged and counted. Errors are returned only when a
// builder detects a broken structural invariant, which indicates a bug.
// GenerateBarcode never returns an error; a failed encoding yields nil.
package engine
