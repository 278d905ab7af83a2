package queue

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/minutes-worker/internal/metrics"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// OnWake consumes the alarm, processes at most one waiting job and resolves
// it, then re-arms if work remains. It never loops over the whole queue.
func (a *Actor) OnWake(ctx context.Context) error {
	a.wakeMu.Lock()
	defer a.wakeMu.Unlock()

	a.mu.Lock()
	job, err := a.dequeueLocked(ctx, true)
	a.mu.Unlock()
	if err != nil {
		return fmt.Errorf("dequeue: %w", err)
	}
	if job == nil {
		a.logger.Debug(ctx, "Queue %s idle", a.opts.Name)
		return nil
	}

	ctx, span := a.tracer.Start(ctx, "minutes.queue.wake",
		trace.WithAttributes(
			attribute.String("minutes.queue", a.opts.Name),
			attribute.String("minutes.job.id", job.ID),
			attribute.Int("minutes.retry_count", job.RetryCount),
		),
	)
	defer span.End()

	var (
		retried bool
		rerr    error
	)
	perr := a.processor.Process(ctx, *job)
	switch {
	case perr == nil:
		if rerr = a.Complete(ctx, job.ID); rerr == nil {
			metrics.JobsCompletedTotal.WithLabelValues("done").Inc()
			a.logger.Info(ctx, "Job %s done", job.ID)
		}

	case job.RetryCount < a.opts.RetryLimit:
		span.RecordError(perr)
		if rerr = a.Retry(ctx, job.ID, perr.Error()); rerr == nil {
			retried = true
			metrics.JobsCompletedTotal.WithLabelValues("retried").Inc()
			a.logger.Warn(ctx, "Job %s failed, retry %d/%d: %v",
				job.ID, job.RetryCount+1, a.opts.RetryLimit, perr)
		}

	default:
		span.RecordError(perr)
		a.markTargetFailed(ctx, job)
		if rerr = a.Fail(ctx, job.ID, perr.Error()); rerr == nil {
			metrics.JobsCompletedTotal.WithLabelValues("failed").Inc()
			a.logger.Error(ctx, "Job %s failed after %d retries: %v", job.ID, job.RetryCount, perr)
		}
	}

	if rerr != nil {
		span.RecordError(rerr)
		a.logger.Error(ctx, "Resolve job %s: %v", job.ID, rerr)
	}
	return errors.Join(rerr, a.rearm(ctx, job.ID, retried || rerr != nil))
}

// markTargetFailed writes FAILED to the target record. Errors are logged only.
func (a *Actor) markTargetFailed(ctx context.Context, job *models.Job) {
	if a.status == nil {
		return
	}
	if err := a.status.UpdateStatus(ctx, job.Payload.TargetID, models.MinutesStatusFailed); err != nil {
		a.logger.Warn(ctx, "Mark minutes %d failed: %v", job.Payload.TargetID, err)
	}
}

// rearm schedules the next wake: RetryDelay after a retry or an unsaved
// resolution, NextDelay when other jobs wait, otherwise the alarm stays idle.
// A job whose resolution was not saved is still processing; it goes back to
// waiting without counting an attempt.
func (a *Actor) rearm(ctx context.Context, id string, delayed bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.update(ctx, func(state *models.QueueState) error {
		if i := state.Find(id); i >= 0 && state.Jobs[i].Status == models.JobStatusProcessing {
			state.Jobs[i].Status = models.JobStatusWaiting
			state.Jobs[i].UpdatedAt = a.now()
		}
		switch {
		case delayed:
			a.arm(state, a.opts.RetryDelay)
		case state.CountStatus(models.JobStatusWaiting) > 0:
			a.arm(state, a.opts.NextDelay)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rearm: %w", err)
	}
	return nil
}
