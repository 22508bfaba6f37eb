package archive

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/receipt-escape/game/service"
)

var (
	ErrArtifactExists = errors.New("artifact already exists")
	ErrInvalidID      = errors.New("invalid artifact ID")
)

// Store keeps generated artifacts in memory, optionally mirrored to a
// Persistence. IDs are case-insensitive.
type Store struct {
	artifacts   map[string]*service.Artifact
	persistence Persistence
	log         logrus.FieldLogger
	mu          sync.RWMutex
}

// NewStore creates an in-memory artifact store
func NewStore() *Store {
	return &Store{
		artifacts: make(map[string]*service.Artifact),
		log:       logrus.WithField("component", "archive"),
	}
}

// NewStoreWithPersistence creates a store that writes through to p
func NewStoreWithPersistence(p Persistence) *Store {
	s := NewStore()
	s.persistence = p
	return s
}

// Put stores a new artifact. Persistence failures are logged, not returned.
func (s *Store) Put(artifact *service.Artifact) error {
	if artifact == nil || artifact.ID == "" {
		return ErrInvalidID
	}

	key := strings.ToLower(artifact.ID)
	s.mu.Lock()
	if _, exists := s.artifacts[key]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrArtifactExists, artifact.ID)
	}
	s.artifacts[key] = artifact
	s.mu.Unlock()

	if s.persistence != nil {
		if err := s.persistence.Save(artifact); err != nil {
			s.log.WithError(err).WithField("id", artifact.ID).Warn("Failed to persist artifact")
		}
	}
	return nil
}

// Get retrieves an artifact, falling back to persistence when it is not in memory
func (s *Store) Get(id string) (*service.Artifact, error) {
	key := strings.ToLower(id)

	s.mu.RLock()
	artifact, exists := s.artifacts[key]
	s.mu.RUnlock()
	if exists {
		return artifact, nil
	}

	if s.persistence != nil && s.persistence.Exists(id) {
		artifact, err := s.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted artifact: %w", err)
		}

		s.mu.Lock()
		s.artifacts[key] = artifact
		s.mu.Unlock()
		return artifact, nil
	}

	return nil, service.ErrArtifactNotFound
}

// List returns every artifact held in memory, in no particular order
func (s *Store) List() []*service.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*service.Artifact, 0, len(s.artifacts))
	for _, a := range s.artifacts {
		result = append(result, a)
	}
	return result
}

// Delete removes an artifact from memory and persistence
func (s *Store) Delete(id string) error {
	key := strings.ToLower(id)

	s.mu.Lock()
	_, inMemory := s.artifacts[key]
	delete(s.artifacts, key)
	s.mu.Unlock()

	if s.persistence != nil && s.persistence.Exists(id) {
		if err := s.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted artifact: %w", err)
		}
		return nil
	}

	if !inMemory {
		return service.ErrArtifactNotFound
	}
	return nil
}

// Count returns the number of artifacts in memory
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// CleanupExpired removes artifacts created more than maxAge ago, from memory
// and from persistence. It returns how many were removed.
func (s *Store) CleanupExpired(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	var expired []string
	for key, a := range s.artifacts {
		if a.CreatedAt.Before(cutoff) {
			delete(s.artifacts, key)
			expired = append(expired, a.ID)
		}
	}
	s.mu.Unlock()

	if s.persistence != nil {
		for _, id := range expired {
			if err := s.persistence.Delete(id); err != nil && !errors.Is(err, service.ErrArtifactNotFound) {
				s.log.WithError(err).WithField("id", id).Warn("Failed to delete expired artifact")
			}
		}
	}

	if len(expired) > 0 {
		s.log.WithField("removed", len(expired)).Info("Expired artifacts cleaned up")
	}
	return len(expired)
}

// LoadPersisted loads every persisted artifact into memory
func (s *Store) LoadPersisted() error {
	if s.persistence == nil {
		return nil
	}

	ids, err := s.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted artifacts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		key := strings.ToLower(id)
		if _, exists := s.artifacts[key]; exists {
			continue
		}

		artifact, err := s.persistence.Load(id)
		if err != nil {
			s.log.WithError(err).WithField("id", id).Warn("Failed to load persisted artifact")
			continue
		}
		s.artifacts[key] = artifact
		loaded++
	}

	if loaded > 0 {
		s.log.WithField("count", loaded).Info("Loaded persisted artifacts")
	}
	return nil
}

// SaveAll writes every in-memory artifact to persistence
func (s *Store) SaveAll() error {
	if s.persistence == nil {
		return nil
	}

	artifacts := s.List()
	errorCount := 0
	for _, a := range artifacts {
		if err := s.persistence.Save(a); err != nil {
			s.log.WithError(err).WithField("id", a.ID).Warn("Failed to save artifact")
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d artifacts", errorCount)
	}
	return nil
}
