package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// The alarm is idle when state.WakeAt is nil and armed(T) otherwise. The
// timer handle in a.stop always matches the persisted WakeAt.

// arm sets the alarm to fire after d, replacing any armed time. The caller holds a.mu.
func (a *Actor) arm(state *models.QueueState, d time.Duration) {
	at := a.now().Add(d)
	state.WakeAt = &at
	a.setTimer(d)
}

// disarm returns the alarm to idle. The caller holds a.mu.
func (a *Actor) disarm(state *models.QueueState) {
	state.WakeAt = nil
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
}

func (a *Actor) setTimer(d time.Duration) {
	if a.stop != nil {
		a.stop()
	}
	if a.stopped {
		a.stop = nil
		return
	}
	a.stop = a.schedule(d, a.fire)
}

// fire is the timer callback.
func (a *Actor) fire() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.wakes.Add(1)
	ctx := a.baseCtx
	a.mu.Unlock()
	defer a.wakes.Done()

	if err := a.OnWake(ctx); err != nil {
		a.logger.Error(ctx, "Queue %s wake failed: %v", a.opts.Name, err)
	}
}

// WakeAt reports the armed wake time, or nil when the alarm is idle.
func (a *Actor) WakeAt(ctx context.Context) (*time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load queue state: %w", err)
	}
	return state.WakeAt, nil
}

// Start recovers the persisted state and re-arms the alarm. Jobs left
// processing by a previous run go back to waiting. Wakes run on a context
// detached from ctx's cancellation so an in-flight job finishes on shutdown.
func (a *Actor) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = false
	a.baseCtx = context.WithoutCancel(ctx)

	recovered := 0
	err := a.update(ctx, func(state *models.QueueState) error {
		for i := range state.Jobs {
			if state.Jobs[i].Status == models.JobStatusProcessing {
				state.Jobs[i].Status = models.JobStatusWaiting
				state.Jobs[i].UpdatedAt = a.now()
				recovered++
			}
		}

		switch {
		case state.WakeAt != nil && state.WakeAt.After(a.now()):
			a.setTimer(state.WakeAt.Sub(a.now()))
		case state.WakeAt != nil || state.CountStatus(models.JobStatusWaiting) > 0:
			a.arm(state, a.opts.BatchDelay)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if recovered > 0 {
		a.logger.Warn(ctx, "Queue %s recovered %d interrupted job(s)", a.opts.Name, recovered)
	}
	a.logger.Info(ctx, "Queue %s started", a.opts.Name)
	return nil
}

// Stop cancels the pending wake and waits for an in-flight wake to return.
// The persisted WakeAt is kept so Start can re-arm it.
func (a *Actor) Stop() {
	a.mu.Lock()
	a.stopped = true
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
	a.mu.Unlock()

	a.wakes.Wait()
}
