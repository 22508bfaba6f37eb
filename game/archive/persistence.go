package archive

import (
	"github.com/wricardo/receipt-escape/game/service"
)

// Persistence defines durable storage for artifacts
type Persistence interface {
	// Save persists an artifact
	Save(artifact *service.Artifact) error

	// Load retrieves an artifact by ID
	Load(id string) (*service.Artifact, error)

	// Delete removes an artifact
	Delete(id string) error

	// ListAll returns every persisted artifact ID
	ListAll() ([]string, error)

	// Exists checks if an artifact is persisted
	Exists(id string) bool
}
