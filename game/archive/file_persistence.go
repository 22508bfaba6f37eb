package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/receipt-escape/game/service"
)

// FilePersistence stores one indented JSON file per artifact. Puzzle data
// comes back as generic JSON values, which is all the transports need.
type FilePersistence struct {
	dir string
}

// NewFilePersistence creates the archive directory if needed
func NewFilePersistence(dir string) (*FilePersistence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FilePersistence{dir: dir}, nil
}

// Save writes an artifact to <dir>/<id>.json
func (fp *FilePersistence) Save(artifact *service.Artifact) error {
	if artifact == nil {
		return fmt.Errorf("artifact cannot be nil")
	}
	if !validID(artifact.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, artifact.ID)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := os.WriteFile(fp.filePath(artifact.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact file: %w", err)
	}
	return nil
}

// Load reads an artifact back from disk
func (fp *FilePersistence) Load(id string) (*service.Artifact, error) {
	if !validID(id) {
		return nil, service.ErrArtifactNotFound
	}

	data, err := os.ReadFile(fp.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, service.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to read artifact file: %w", err)
	}

	var artifact service.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return &artifact, nil
}

// Delete removes an artifact file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return service.ErrArtifactNotFound
	}
	if err := os.Remove(fp.filePath(id)); err != nil {
		return fmt.Errorf("failed to remove artifact file: %w", err)
	}
	return nil
}

// ListAll returns the IDs of every artifact file
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// Exists checks if an artifact file exists
func (fp *FilePersistence) Exists(id string) bool {
	if !validID(id) {
		return false
	}
	_, err := os.Stat(fp.filePath(id))
	return err == nil
}

func (fp *FilePersistence) filePath(id string) string {
	return filepath.Join(fp.dir, strings.ToLower(id)+".json")
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\.`)
}
