package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/receipt-escape/game/puzzle"
	"github.com/wricardo/receipt-escape/game/service"
)

// DefaultDeckName is loaded as the default deck when present
const DefaultDeckName = "classic"

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrInvalidDeck  = puzzle.ErrInvalidDeck
)

// Manager handles deck loading and caching
type Manager struct {
	configDir   string
	defaultDeck *puzzle.Deck
	decks       map[string]*puzzle.Deck
	log         logrus.FieldLogger
	mu          sync.RWMutex
}

// NewManager creates a new deck manager over configDir
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		decks:     make(map[string]*puzzle.Deck),
		log:       logrus.WithField("component", "decks"),
	}
	m.loadDefaultDeck()
	return m, nil
}

// LoadDeck loads a deck by name, with or without the .json suffix
func (m *Manager) LoadDeck(name string) (*puzzle.Deck, error) {
	name = deckID(name)

	m.mu.RLock()
	if deck, exists := m.decks[name]; exists {
		m.mu.RUnlock()
		return deck, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if deck, exists := m.decks[name]; exists {
		return deck, nil
	}

	data, err := os.ReadFile(m.deckPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, name)
		}
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}

	var deck puzzle.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidDeck, name, err)
	}
	if err := puzzle.ValidateDeck(&deck); err != nil {
		return nil, err
	}

	m.decks[name] = &deck
	return &deck, nil
}

// ListDecks returns information about every valid deck in the directory.
// Invalid files are skipped and logged.
func (m *Manager) ListDecks() ([]*service.DeckInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var decks []*service.DeckInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := deckID(entry.Name())
		deck, err := m.LoadDeck(name)
		if err != nil {
			m.log.WithError(err).WithField("file", entry.Name()).Warn("Skipping invalid deck")
			continue
		}

		decks = append(decks, &service.DeckInfo{
			Filename:    entry.Name(),
			DeckID:      name,
			Name:        deck.Name,
			Description: deck.Description,
			Stages:      len(deck.Stages),
		})
	}
	return decks, nil
}

// GetDefault returns the default deck
func (m *Manager) GetDefault() *puzzle.Deck {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultDeck
}

// SetDefault sets the default deck by name
func (m *Manager) SetDefault(name string) error {
	deck, err := m.LoadDeck(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultDeck = deck
	return nil
}

// RefreshCache drops every cached deck and reloads the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.decks = make(map[string]*puzzle.Deck)
	m.mu.Unlock()

	m.loadDefaultDeck()
}

// SaveDeck validates a deck and writes it to disk
func (m *Manager) SaveDeck(name string, deck *puzzle.Deck) error {
	if err := puzzle.ValidateDeck(deck); err != nil {
		return err
	}

	name = deckID(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return fmt.Errorf("%w: bad deck name %q", ErrInvalidDeck, name)
	}

	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}
	if err := os.WriteFile(m.deckPath(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write deck file: %w", err)
	}

	m.mu.Lock()
	m.decks[name] = deck
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"deck": name, "stages": len(deck.Stages)}).Info("Deck saved")
	return nil
}

// loadDefaultDeck picks classic, then the first valid deck on disk, then
// the built-in minimal deck.
func (m *Manager) loadDefaultDeck() {
	deck, err := m.LoadDeck(DefaultDeckName)
	if err != nil {
		decks, listErr := m.ListDecks()
		if listErr != nil || len(decks) == 0 {
			deck = MinimalDeck()
		} else if deck, err = m.LoadDeck(decks[0].DeckID); err != nil {
			deck = MinimalDeck()
		}
	}

	m.mu.Lock()
	m.defaultDeck = deck
	m.mu.Unlock()

	m.log.WithField("deck", deck.Name).Debug("Default deck selected")
}

func (m *Manager) deckPath(name string) string {
	return filepath.Join(m.configDir, name+".json")
}

func deckID(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), ".json")
}

// MinimalDeck is the built-in deck used when no deck file can be loaded
func MinimalDeck() *puzzle.Deck {
	return &puzzle.Deck{
		Name:        "default",
		Description: "Built-in three stage deck",
		Stages: []puzzle.Stage{
			{Label: "door", Type: string(puzzle.MazeVertical), Config: puzzle.Options{"answer": "EXIT"}},
			{Label: "radio", Type: string(puzzle.Cipher), Config: puzzle.Options{"text": "TUNE IN"}},
			{Label: "vault", Type: string(puzzle.MiniSudoku)},
		},
	}
}
