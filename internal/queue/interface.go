package queue

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

var (
	// ErrJobExists is returned when enqueuing an id that is already queued.
	ErrJobExists = errors.New("job already exists")
	// ErrJobNotFound is returned when completing, retrying or failing an unknown id.
	ErrJobNotFound = errors.New("job not found")
	// ErrInvalidJob is returned when an enqueued job has no target or an unknown action.
	ErrInvalidJob = errors.New("invalid job")
)

// Processor runs one dequeued job.
type Processor interface {
	Process(ctx context.Context, job models.Job) error
}

// StatusWriter records the terminal FAILED status on the job's target.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id int64, status models.MinutesStatus) error
}

// stopFunc cancels a scheduled wake.
type stopFunc func() bool

// scheduleFunc runs f after d.
type scheduleFunc func(d time.Duration, f func()) stopFunc
