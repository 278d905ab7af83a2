package ingest

import (
	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
	"github.com/nguyentantai21042004/minutes-worker/pkg/executor"
)

// Options configures an Ingester.
type Options struct {
	OwnerID    int64
	FFmpegPath string
	ArchiveDir string // processed files are moved here; empty removes them
	TempDir    string
}

type implIngester struct {
	opts     Options
	objects  ObjectWriter
	minutes  MinutesCreator
	queue    Enqueuer
	executor executor.Executor
	logger   logger.Logger
}

// New creates an Ingester.
func New(opts Options, objects ObjectWriter, minutes MinutesCreator, queue Enqueuer, exec executor.Executor, log logger.Logger) Ingester {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	return &implIngester{
		opts:     opts,
		objects:  objects,
		minutes:  minutes,
		queue:    queue,
		executor: exec,
		logger:   log,
	}
}
