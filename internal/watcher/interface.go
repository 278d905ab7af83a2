package watcher

import "context"

// Watcher feeds media files dropped into a directory to a handler.
type Watcher interface {
	// Start handles files already present, then new ones, until ctx is done.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles one media file.
type EventHandler func(ctx context.Context, filePath string) error
