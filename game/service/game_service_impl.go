package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/receipt-escape/game/engine"
	"github.com/wricardo/receipt-escape/game/puzzle"
)

// taskCodeLength is the number of hex characters of the artifact ID printed
// under the barcode and accepted wherever an ID is.
const taskCodeLength = 8

var tracer = otel.Tracer("receipt-escape/service")

// puzzleServiceImpl implements the PuzzleService interface
type puzzleServiceImpl struct {
	generator engine.Generator
	artifacts ArtifactStore
	decks     DeckManager
	notifier  Notifier
	log       logrus.FieldLogger
	now       func() time.Time
}

// Option customizes the service returned by NewPuzzleService
type Option func(*puzzleServiceImpl)

// WithNotifier registers a listener for stored artifacts
func WithNotifier(n Notifier) Option {
	return func(s *puzzleServiceImpl) { s.notifier = n }
}

// WithLogger replaces the standard logrus logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *puzzleServiceImpl) { s.log = l }
}

// WithClock replaces time.Now, used by tests that depend on ordering
func WithClock(now func() time.Time) Option {
	return func(s *puzzleServiceImpl) { s.now = now }
}

// NewPuzzleService creates a new puzzle service instance
func NewPuzzleService(generator engine.Generator, artifacts ArtifactStore, decks DeckManager, opts ...Option) PuzzleService {
	s := &puzzleServiceImpl{
		generator: generator,
		artifacts: artifacts,
		decks:     decks,
		log:       logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskCode derives the short printable code of an artifact ID
func TaskCode(id string) string {
	code := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(code) > taskCodeLength {
		code = code[:taskCodeLength]
	}
	return code
}

func (s *puzzleServiceImpl) ListTypes(ctx context.Context) []puzzle.TypeInfo {
	return s.generator.Types()
}

// Generate produces, stores and announces a single artifact
func (s *puzzleServiceImpl) Generate(ctx context.Context, req GenerateRequest) (*Artifact, error) {
	ctx, span := tracer.Start(ctx, "puzzle_service.generate")
	defer span.End()

	if strings.TrimSpace(req.Type) == "" {
		err := fmt.Errorf("%w: type is required", ErrInvalidRequest)
		failSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("puzzle.requested_type", req.Type))

	result, err := s.generator.Generate(ctx, req.Type, req.Config)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to generate puzzle: %w", err)
	}

	station := strings.TrimSpace(req.Station)
	if station == "" {
		station = DefaultStation
	}

	id := uuid.NewString()
	artifact := &Artifact{
		ID:        id,
		TaskCode:  TaskCode(id),
		Label:     req.Label,
		Clue:      req.Clue,
		Deck:      req.Deck,
		Station:   station,
		CreatedAt: s.now(),
		Result:    result,
	}
	artifact.BarcodeImage = s.generator.GenerateBarcode(ctx, artifact.TaskCode)

	if err := s.artifacts.Put(artifact); err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	span.SetAttributes(
		attribute.String("puzzle.type", string(result.Type)),
		attribute.String("artifact.id", artifact.ID),
		attribute.String("artifact.station", station),
	)
	s.log.WithFields(logrus.Fields{
		"id":        artifact.ID,
		"task_code": artifact.TaskCode,
		"type":      result.Type,
		"station":   station,
	}).Info("Puzzle generated")

	if s.notifier != nil {
		s.notifier.Notify(station, artifact)
	}
	return artifact, nil
}

// GetArtifact resolves an artifact by full ID or by its printed task code
func (s *puzzleServiceImpl) GetArtifact(ctx context.Context, id string) (*Artifact, error) {
	artifact, err := s.artifacts.Get(id)
	if err == nil {
		return artifact, nil
	}
	if !errors.Is(err, ErrArtifactNotFound) {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}

	if code := strings.ToUpper(strings.TrimSpace(id)); len(code) == taskCodeLength {
		for _, a := range s.artifacts.List() {
			if a.TaskCode == code {
				return a, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, id)
}

// ListArtifacts returns the newest artifacts first. A non-positive limit
// returns everything.
func (s *puzzleServiceImpl) ListArtifacts(ctx context.Context, limit int) ([]*ArtifactInfo, error) {
	artifacts := s.artifacts.List()
	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].CreatedAt.Equal(artifacts[j].CreatedAt) {
			return artifacts[i].ID < artifacts[j].ID
		}
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	if limit > 0 && len(artifacts) > limit {
		artifacts = artifacts[:limit]
	}

	result := make([]*ArtifactInfo, 0, len(artifacts))
	for _, a := range artifacts {
		result = append(result, a.Info())
	}
	return result, nil
}

func (s *puzzleServiceImpl) DeleteArtifact(ctx context.Context, id string) error {
	artifact, err := s.GetArtifact(ctx, id)
	if err != nil {
		return err
	}
	if err := s.artifacts.Delete(artifact.ID); err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// CheckAnswer compares player input with the embedded answer after
// normalizing both. The answer itself is never returned.
func (s *puzzleServiceImpl) CheckAnswer(ctx context.Context, id, answer string) (*CheckResult, error) {
	ctx, span := tracer.Start(ctx, "puzzle_service.check_answer")
	defer span.End()

	artifact, err := s.GetArtifact(ctx, id)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}

	correct := artifact.Result != nil &&
		puzzle.NormalizeAnswer(answer) == puzzle.NormalizeAnswer(artifact.Result.Answer)
	span.SetAttributes(
		attribute.String("artifact.id", artifact.ID),
		attribute.Bool("answer.correct", correct),
	)
	s.log.WithFields(logrus.Fields{
		"id":      artifact.ID,
		"correct": correct,
	}).Info("Answer checked")

	return &CheckResult{ID: artifact.ID, Correct: correct}, nil
}

func (s *puzzleServiceImpl) ListDecks(ctx context.Context) ([]*DeckInfo, error) {
	return s.decks.ListDecks()
}

// LoadDeck returns the named deck, or the default deck when name is empty
func (s *puzzleServiceImpl) LoadDeck(ctx context.Context, name string) (*puzzle.Deck, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".json")
	if name == "" {
		return s.decks.GetDefault(), nil
	}

	deck, err := s.decks.LoadDeck(name)
	if err != nil {
		available, listErr := s.decks.ListDecks()
		if listErr == nil && len(available) > 0 {
			ids := make([]string, 0, len(available))
			for _, d := range available {
				ids = append(ids, d.DeckID)
			}
			return nil, fmt.Errorf("deck '%s' not available (known decks: %v): %w", name, ids, err)
		}
		return nil, fmt.Errorf("failed to load deck %s: %w", name, err)
	}
	return deck, nil
}

func (s *puzzleServiceImpl) SaveDeck(ctx context.Context, name string, deck *puzzle.Deck) error {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".json")
	if name == "" {
		return fmt.Errorf("%w: deck name is required", ErrInvalidRequest)
	}
	if err := s.decks.SaveDeck(name, deck); err != nil {
		return fmt.Errorf("failed to save deck %s: %w", name, err)
	}
	return nil
}

// GenerateDeck prints every stage of a deck in order. Generation stops at the
// first failing stage; artifacts already produced stay stored.
func (s *puzzleServiceImpl) GenerateDeck(ctx context.Context, name, station string) (*DeckGeneration, error) {
	ctx, span := tracer.Start(ctx, "puzzle_service.generate_deck")
	defer span.End()

	deck, err := s.LoadDeck(ctx, name)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}
	if err := puzzle.ValidateDeck(deck); err != nil {
		failSpan(span, err)
		return nil, err
	}

	deckID := strings.TrimSuffix(strings.TrimSpace(name), ".json")
	if deckID == "" {
		deckID = deck.Name
	}
	if strings.TrimSpace(station) == "" {
		station = DefaultStation
	}
	span.SetAttributes(
		attribute.String("deck.id", deckID),
		attribute.Int("deck.stages", len(deck.Stages)),
	)

	out := &DeckGeneration{Deck: deckID, Station: station}
	for i, stage := range deck.Stages {
		artifact, err := s.Generate(ctx, GenerateRequest{
			Type:    stage.Type,
			Config:  stage.Config.Clone(),
			Label:   stage.Label,
			Clue:    stage.Clue,
			Station: station,
			Deck:    deckID,
		})
		if err != nil {
			failSpan(span, err)
			return nil, fmt.Errorf("stage %d (%s): %w", i, stage.Label, err)
		}
		out.Puzzles = append(out.Puzzles, artifact)
	}
	out.Count = len(out.Puzzles)

	s.log.WithFields(logrus.Fields{
		"deck":    deckID,
		"station": station,
		"count":   out.Count,
	}).Info("Deck generated")
	return out, nil
}

func (s *puzzleServiceImpl) Barcode(ctx context.Context, text string) *string {
	return s.generator.GenerateBarcode(ctx, text)
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
