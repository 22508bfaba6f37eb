package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDeck is returned when a deck fails validation
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is a named, ordered list of puzzles printed together for one room
type Deck struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Stages      []Stage `json:"stages"`
}

// Stage is a single generation request inside a deck
type Stage struct {
	Label  string  `json:"label"`
	Type   string  `json:"type"`
	Clue   string  `json:"clue,omitempty"`
	Config Options `json:"config,omitempty"`
}

// ValidateDeck checks that a deck has a name, at least one stage and only
// known puzzle types. All problems are reported together.
func ValidateDeck(d *Deck) error {
	if d == nil {
		return fmt.Errorf("%w: deck is nil", ErrInvalidDeck)
	}

	var problems []string
	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name is required")
	}
	if len(d.Stages) == 0 {
		problems = append(problems, "at least one stage is required")
	}

	labels := make(map[string]int)
	for i, s := range d.Stages {
		if strings.TrimSpace(s.Type) == "" {
			problems = append(problems, fmt.Sprintf("stage %d: type is required", i))
		} else if !IsKnown(s.Type) {
			problems = append(problems, fmt.Sprintf("stage %d: unknown type %q", i, s.Type))
		}
		if s.Label != "" {
			if prev, ok := labels[s.Label]; ok {
				problems = append(problems, fmt.Sprintf("stage %d: label %q already used by stage %d", i, s.Label, prev))
			} else {
				labels[s.Label] = i
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDeck, strings.Join(problems, "; "))
	}
	return nil
}
