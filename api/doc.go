// Package api provides the HTTP REST API for the receipt escape room.
//
// The api package implements:
//   - Puzzle generation and lookup endpoints
//   - Answer checking
//   - Deck listing, saving and whole-deck generation
//   - Barcode rendering
//   - WebSocket upgrade for print stations
//
// Endpoints:
//
// Puzzles:
//   - GET /api/types - List puzzle types
//   - POST /api/puzzles - Generate a puzzle
//   - GET /api/puzzles?limit=N - List generated puzzles, newest first
//   - GET /api/puzzles/{id} - Get a puzzle by ID or task code
//   - DELETE /api/puzzles/{id} - Delete a puzzle
//   - POST /api/puzzles/{id}/check - Check an answer
//
// Decks:
//   - GET /api/decks - List decks
//   - POST /api/decks - Save a deck
//   - GET /api/decks/{name} - Get a deck
//   - POST /api/decks/{name}/generate - Generate every stage of a deck
//
// Other:
//   - GET /api/barcode?text=... - Code 128 PNG data URI (image is null when the text cannot be encoded)
//   - GET /ws?station=... - Print station push channel
//   - GET /health - Liveness
//
// Request Format:
//
//	POST /api/puzzles
//	{
//	  "type": "MAZE_VERTICAL",
//	  "config": {"answer": "EXIT", "seed": 42},
//	  "label": "door",
//	  "clue": "Find the way out",
//	  "station": "lab"
//	}
//
// Unknown types are generated as TEXT rather than rejected.
//
// Usage:
//
//	server := api.NewServer(puzzleService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with an appropriate status code: 400 for bad
// input or invalid decks, 404 for unknown puzzles or decks, 500 otherwise.
//
//	{"error": "artifact not found: 0A1B2C3D"}
package api
