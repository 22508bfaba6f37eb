// Package config provides deck management for the escape room.
//
// The config package handles:
//   - Loading decks from JSON files
//   - Deck validation
//   - Default deck selection
//   - Deck discovery and listing
//
// Deck Format:
//
// A deck is a JSON file in the config directory. It names the room and lists
// the puzzles printed for it, in order:
//
//	{
//	  "name": "Classic",
//	  "description": "The original three room run",
//	  "stages": [
//	    {"label": "door", "type": "MAZE_VERTICAL", "config": {"answer": "EXIT"}},
//	    {"label": "vault", "type": "MINI_SUDOKU", "clue": "Add the corners"}
//	  ]
//	}
//
// The file name without .json is the deck ID used by the API.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	deck, err := manager.LoadDeck("classic")
//	decks, err := manager.ListDecks()
//
// The default deck is classic.json when it exists, otherwise the first valid
// deck in the directory, otherwise a small built-in deck.
package config
