// Package mcp exposes the puzzle engine to AI agents over the Model Context
// Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST API
// of a running receipt-escape server, and the JSON response is rendered as
// text for the agent.
//
// MCP Tools:
//   - list_puzzle_types: Every type with its answer pattern
//   - generate_puzzle: Generate one puzzle for a print station
//   - get_puzzle: Show a puzzle by ID or task code
//   - list_puzzles: Recently generated puzzles
//   - check_answer: Check a player's answer
//   - list_decks: Saved decks
//   - generate_deck: Generate a whole deck
//   - barcode: Code 128 data URI for arbitrary text
//   - puzzle_instructions: Guide to types and options
//
// Answers are only included in tool output when reveal_answer is set, so an
// agent can act as a hint giver without spoiling puzzles.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
