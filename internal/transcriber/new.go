package transcriber

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
)

const (
	DefaultChunkSize       = 1 << 20
	DefaultConcurrency     = 5
	DefaultMaxChunkRetries = 3
	DefaultRetryDelay      = 3 * time.Second
	DefaultLanguage        = "ja"
)

// Options tunes chunking and retry behaviour. Zero values take the defaults.
type Options struct {
	Language        string
	ChunkSize       int
	Concurrency     int
	MaxChunkRetries int
	RetryDelay      time.Duration
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MaxChunkRetries <= 0 {
		o.MaxChunkRetries = DefaultMaxChunkRetries
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	} else if o.RetryDelay == 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	return o
}

type implTranscriber struct {
	stt    SpeechToText
	opts   Options
	logger logger.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a chunking Transcriber backed by stt.
func New(stt SpeechToText, opts Options, log logger.Logger) Transcriber {
	return &implTranscriber{
		stt:    stt,
		opts:   opts.withDefaults(),
		logger: log,
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
