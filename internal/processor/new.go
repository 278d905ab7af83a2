package processor

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/minutes-worker/internal/export"
	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
	"github.com/nguyentantai21042004/minutes-worker/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-worker/internal/transcriber"
)

const tracerName = "github.com/nguyentantai21042004/minutes-worker/processor"

// Deps are the collaborators a Processor drives. Exporter may be nil.
type Deps struct {
	Metadata    MetadataStore
	Objects     ObjectStore
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Classifier  summarizer.Classifier
	Exporter    export.Exporter
}

type implProcessor struct {
	deps   Deps
	tracer trace.Tracer
	logger logger.Logger
}

// New creates a new Processor instance
func New(deps Deps, log logger.Logger) Processor {
	return &implProcessor{
		deps:   deps,
		tracer: otel.Tracer(tracerName),
		logger: log,
	}
}
