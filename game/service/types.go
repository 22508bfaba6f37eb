package service

import (
	"time"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

// Artifact is a generated puzzle as handed to a print station
type Artifact struct {
	ID           string         `json:"id"`
	TaskCode     string         `json:"task_code"`
	Label        string         `json:"label,omitempty"`
	Clue         string         `json:"clue,omitempty"`
	Deck         string         `json:"deck,omitempty"`
	Station      string         `json:"station"`
	CreatedAt    time.Time      `json:"created_at"`
	Result       *puzzle.Result `json:"result"`
	BarcodeImage *string        `json:"barcode_image"`
}

// Info returns the listing view of the artifact
func (a *Artifact) Info() *ArtifactInfo {
	info := &ArtifactInfo{
		ID:        a.ID,
		TaskCode:  a.TaskCode,
		Label:     a.Label,
		Deck:      a.Deck,
		Station:   a.Station,
		CreatedAt: a.CreatedAt,
	}
	if a.Result != nil {
		info.Type = a.Result.Type
	}
	return info
}

// ArtifactInfo is the listing view of an artifact. It never carries the answer.
type ArtifactInfo struct {
	ID        string            `json:"id"`
	TaskCode  string            `json:"task_code"`
	Type      puzzle.PuzzleType `json:"type"`
	Label     string            `json:"label,omitempty"`
	Deck      string            `json:"deck,omitempty"`
	Station   string            `json:"station"`
	CreatedAt time.Time         `json:"created_at"`
}

// GenerateRequest describes a single puzzle to produce
type GenerateRequest struct {
	Type    string         `json:"type"`
	Config  puzzle.Options `json:"config,omitempty"`
	Label   string         `json:"label,omitempty"`
	Clue    string         `json:"clue,omitempty"`
	Station string         `json:"station,omitempty"`
	Deck    string         `json:"deck,omitempty"`
}

// CheckResult reports whether a submitted answer matched
type CheckResult struct {
	ID      string `json:"id"`
	Correct bool   `json:"correct"`
}

// DeckGeneration is the outcome of printing a whole deck
type DeckGeneration struct {
	Deck    string      `json:"deck"`
	Station string      `json:"station"`
	Count   int         `json:"count"`
	Puzzles []*Artifact `json:"puzzles"`
}

// DeckInfo provides information about a stored deck
type DeckInfo struct {
	Filename    string `json:"filename"`
	DeckID      string `json:"deck_id"` // identifier to use for generation
	Name        string `json:"name"`
	Description string `json:"description"`
	Stages      int    `json:"stages"`
}
