package objectstore

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

const defaultContentType = "audio/mpeg"

// FSStore is a bucket of objects rooted at a directory. Keys are slash
// separated paths relative to the root.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem object store rooted at root.
func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

// path maps a key to a file under root, rejecting keys that escape it.
func (s *FSStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if key == "" || clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// GetObject returns the object under key, or nil when it does not exist.
func (s *FSStore) GetObject(_ context.Context, key string) (*models.Object, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}

	return &models.Object{
		Key:         key,
		ContentType: ContentType(key),
		Body:        data,
	}, nil
}

// PutObject writes body under key, creating parent directories.
func (s *FSStore) PutObject(_ context.Context, key string, body []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return fmt.Errorf("write object %s: %w", key, err)
	}
	return nil
}

// ContentType guesses a media type from the key's extension.
func ContentType(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".wav":
		return "audio/wav"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return defaultContentType
}
