// Package service provides the business logic layer for the receipt printer
// escape room.
//
// The service package implements:
//   - Puzzle generation with stored, addressable artifacts
//   - Answer checking against the embedded answer
//   - Deck loading, saving and whole-deck generation
//   - Barcode rendering for printed task codes
//
// Core Interfaces:
//
// PuzzleService is the main service interface used by the REST server, the
// MCP tool server and the CLI. ArtifactStore keeps generated artifacts and
// DeckManager loads and saves decks. Notifier receives every stored artifact
// so print stations can be pushed new tickets.
//
// Usage:
//
//	store := archive.NewStore()
//	decks, _ := config.NewManager("configs")
//	svc := service.NewPuzzleService(engine.New(), store, decks)
//
//	artifact, err := svc.Generate(ctx, service.GenerateRequest{
//		Type:   "MAZE_VERTICAL",
//		Config: puzzle.Options{"answer": "exit"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	check, _ := svc.CheckAnswer(ctx, artifact.TaskCode, " Exit ")
//
// Artifacts:
//
// Every artifact gets a random UUID. The first eight hex characters,
// upper-cased, form the task code that is printed as a barcode; lookups accept
// either form.
package service
