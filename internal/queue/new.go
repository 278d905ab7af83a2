package queue

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
	"github.com/nguyentantai21042004/minutes-worker/internal/statestore"
)

const tracerName = "github.com/nguyentantai21042004/minutes-worker/queue"

const (
	DefaultBatchDelay = 100 * time.Millisecond
	DefaultRetryDelay = time.Second
	DefaultNextDelay  = 100 * time.Millisecond
	DefaultRetryLimit = 3
)

// Options tunes the actor's alarm delays and retry budget.
type Options struct {
	Name       string
	BatchDelay time.Duration // enqueue -> first wake
	RetryDelay time.Duration // after a retry
	NextDelay  time.Duration // between jobs
	RetryLimit int
}

func (o Options) withDefaults() Options {
	if o.BatchDelay <= 0 {
		o.BatchDelay = DefaultBatchDelay
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.NextDelay <= 0 {
		o.NextDelay = DefaultNextDelay
	}
	if o.RetryLimit <= 0 {
		o.RetryLimit = DefaultRetryLimit
	}
	return o
}

// Actor owns one persisted job queue. State transitions are serialized by
// mu and at most one job is processed at a time.
type Actor struct {
	opts      Options
	store     statestore.StateStore
	processor Processor
	status    StatusWriter
	logger    logger.Logger
	tracer    trace.Tracer

	now      func() time.Time
	schedule scheduleFunc

	// mu guards the persisted state and the alarm fields below.
	mu      sync.Mutex
	stop    stopFunc
	stopped bool
	baseCtx context.Context
	wakes   sync.WaitGroup

	// wakeMu serializes OnWake so a single job is in flight.
	wakeMu sync.Mutex
}

// New creates an Actor. status may be nil.
func New(store statestore.StateStore, processor Processor, status StatusWriter, opts Options, log logger.Logger) *Actor {
	return &Actor{
		opts:      opts.withDefaults(),
		store:     store,
		processor: processor,
		status:    status,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		schedule: func(d time.Duration, f func()) stopFunc {
			return time.AfterFunc(d, f).Stop
		},
		baseCtx: context.Background(),
	}
}
