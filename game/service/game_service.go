package service

import (
	"context"
	"errors"

	"github.com/wricardo/receipt-escape/game/puzzle"
)

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrInvalidRequest   = errors.New("invalid request")
)

// DefaultStation receives artifacts generated without an explicit station
const DefaultStation = "default"

// PuzzleService defines every operation exposed to the transports
type PuzzleService interface {
	// Puzzles
	ListTypes(ctx context.Context) []puzzle.TypeInfo
	Generate(ctx context.Context, req GenerateRequest) (*Artifact, error)
	GetArtifact(ctx context.Context, id string) (*Artifact, error)
	ListArtifacts(ctx context.Context, limit int) ([]*ArtifactInfo, error)
	DeleteArtifact(ctx context.Context, id string) error
	CheckAnswer(ctx context.Context, id, answer string) (*CheckResult, error)

	// Decks
	ListDecks(ctx context.Context) ([]*DeckInfo, error)
	LoadDeck(ctx context.Context, name string) (*puzzle.Deck, error)
	SaveDeck(ctx context.Context, name string, deck *puzzle.Deck) error
	GenerateDeck(ctx context.Context, name, station string) (*DeckGeneration, error)

	// Barcode renders text as a Code128 PNG data URI, nil if it cannot be encoded
	Barcode(ctx context.Context, text string) *string
}

// ArtifactStore defines artifact storage operations
type ArtifactStore interface {
	Put(artifact *Artifact) error
	Get(id string) (*Artifact, error)
	List() []*Artifact
	Delete(id string) error
}

// DeckManager handles deck loading and saving
type DeckManager interface {
	LoadDeck(name string) (*puzzle.Deck, error)
	ListDecks() ([]*DeckInfo, error)
	GetDefault() *puzzle.Deck
	SaveDeck(name string, deck *puzzle.Deck) error
}

// Notifier is told about every stored artifact, keyed by print station
type Notifier interface {
	Notify(station string, artifact *Artifact)
}
