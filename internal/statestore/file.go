package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// FileStore keeps the queue state in one JSON file on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a JSON-backed state store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the state from disk or returns an empty state when missing.
func (s *FileStore) Load(_ context.Context) (models.QueueState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.QueueState{}, nil
		}
		return models.QueueState{}, fmt.Errorf("read state: %w", err)
	}

	var state models.QueueState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.QueueState{}, fmt.Errorf("decode state %s: %w", s.path, err)
	}
	return state, nil
}

// Save writes the state through a temp file and rename so a crash never
// leaves a half-written file behind.
func (s *FileStore) Save(_ context.Context, state models.QueueState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
