package summarizer

import (
	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
)

// DefaultMaxAttempts bounds the generate / quality-check loop.
const DefaultMaxAttempts = 2

type implSummarizer struct {
	generator   Generator
	checker     Generator
	maxAttempts int
	logger      logger.Logger
}

// New creates a Summarizer. generator writes the minutes and checker runs the
// independent quality check; they may be the same service.
func New(generator, checker Generator, maxAttempts int, log logger.Logger) Summarizer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &implSummarizer{
		generator:   generator,
		checker:     checker,
		maxAttempts: maxAttempts,
		logger:      log,
	}
}

type implClassifier struct {
	generator Generator
	logger    logger.Logger
}

// NewClassifier creates a meeting-type Classifier backed by generator.
func NewClassifier(generator Generator, log logger.Logger) Classifier {
	return &implClassifier{
		generator: generator,
		logger:    log,
	}
}
