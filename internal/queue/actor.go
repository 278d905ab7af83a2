package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/minutes-worker/internal/metrics"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// update loads the state, applies fn and saves it. The caller holds a.mu.
func (a *Actor) update(ctx context.Context, fn func(state *models.QueueState) error) error {
	state, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load queue state: %w", err)
	}
	if err := fn(&state); err != nil {
		return err
	}
	if err := a.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save queue state: %w", err)
	}
	metrics.JobsWaiting.Set(float64(state.CountStatus(models.JobStatusWaiting)))
	return nil
}

// Enqueue appends job as waiting and arms the alarm if it is idle or stale.
// An empty id gets a generated one.
func (a *Actor) Enqueue(ctx context.Context, job models.Job) (string, error) {
	if job.Payload.TargetID <= 0 {
		return "", fmt.Errorf("%w: targetId must be positive", ErrInvalidJob)
	}
	switch job.Payload.Action {
	case "", models.ActionTranscribeAndSummarize, models.ActionSummarizeOnly:
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidJob, job.Payload.Action)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.update(ctx, func(state *models.QueueState) error {
		if state.Find(job.ID) >= 0 {
			return fmt.Errorf("enqueue %s: %w", job.ID, ErrJobExists)
		}
		now := a.now()
		state.Jobs = append(state.Jobs, models.Job{
			ID:        job.ID,
			Status:    models.JobStatusWaiting,
			Payload:   job.Payload,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if state.WakeAt == nil || state.WakeAt.Before(now) {
			a.arm(state, a.opts.BatchDelay)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.JobsEnqueuedTotal.Inc()
	a.logger.Info(ctx, "Enqueued job %s for minutes %d", job.ID, job.Payload.TargetID)
	return job.ID, nil
}

// Dequeue marks the first waiting job as processing and returns it. It
// returns nil when nothing is waiting or another job is still processing.
func (a *Actor) Dequeue(ctx context.Context) (*models.Job, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dequeueLocked(ctx, false)
}

func (a *Actor) dequeueLocked(ctx context.Context, consumeAlarm bool) (*models.Job, error) {
	var (
		job      *models.Job
		retrying bool
	)
	err := a.update(ctx, func(state *models.QueueState) error {
		if consumeAlarm {
			a.disarm(state)
		}
		if state.CountStatus(models.JobStatusProcessing) > 0 {
			if consumeAlarm && state.CountStatus(models.JobStatusWaiting) > 0 {
				a.arm(state, a.opts.RetryDelay)
			}
			return nil
		}
		for i := range state.Jobs {
			if state.Jobs[i].Status != models.JobStatusWaiting {
				continue
			}
			retrying = state.Jobs[i].IsRetrying()
			state.Jobs[i].Status = models.JobStatusProcessing
			state.Jobs[i].UpdatedAt = a.now()
			j := state.Jobs[i]
			job = &j
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if retrying {
		a.logger.Info(ctx, "Dequeued job %s again after %d failed attempt(s)", job.ID, job.RetryCount)
	}
	return job, nil
}

// Complete marks the job done.
func (a *Actor) Complete(ctx context.Context, id string) error {
	return a.resolve(ctx, id, func(j *models.Job) {
		j.Status = models.JobStatusDone
	})
}

// Retry puts the job back to waiting in its original position and counts the attempt.
func (a *Actor) Retry(ctx context.Context, id, errMsg string) error {
	return a.resolve(ctx, id, func(j *models.Job) {
		j.Status = models.JobStatusWaiting
		j.RetryCount++
		j.Error = errMsg
	})
}

// Fail marks the job failed for good.
func (a *Actor) Fail(ctx context.Context, id, errMsg string) error {
	return a.resolve(ctx, id, func(j *models.Job) {
		j.Status = models.JobStatusFailed
		j.Error = errMsg
	})
}

func (a *Actor) resolve(ctx context.Context, id string, fn func(j *models.Job)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.update(ctx, func(state *models.QueueState) error {
		i := state.Find(id)
		if i < 0 {
			return fmt.Errorf("job %s: %w", id, ErrJobNotFound)
		}
		fn(&state.Jobs[i])
		state.Jobs[i].UpdatedAt = a.now()
		return nil
	})
}

// Jobs returns a snapshot of every job in insertion order.
func (a *Actor) Jobs(ctx context.Context) ([]models.Job, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load queue state: %w", err)
	}
	return state.Jobs, nil
}
