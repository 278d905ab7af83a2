package processor

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/minutes-worker/internal/metrics"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
	"github.com/nguyentantai21042004/minutes-worker/internal/summarizer"
)

// Process runs one job end to end. Writing the result with COMPLETED is the
// only success exit; every earlier error is returned to the queue.
func (p *implProcessor) Process(ctx context.Context, job models.Job) (err error) {
	startTime := time.Now()
	action := job.Payload.EffectiveAction()
	id := job.Payload.TargetID

	ctx, span := p.tracer.Start(ctx, "minutes.job.process",
		trace.WithAttributes(
			attribute.String("minutes.job.id", job.ID),
			attribute.Int64("minutes.target_id", id),
			attribute.String("minutes.action", string(action)),
			attribute.Int("minutes.retry_count", job.RetryCount),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		metrics.JobDurationSeconds.WithLabelValues(string(action)).Observe(time.Since(startTime).Seconds())
	}()

	p.logger.Info(ctx, "Processing job %s: minutes %d (%s, retry %d)", job.ID, id, action, job.RetryCount)

	// Step 1: Load target
	m, err := p.deps.Metadata.GetMinutes(ctx, id)
	if err != nil {
		return fmt.Errorf("load minutes %d: %w", id, err)
	}

	// Step 2: Owner preferences
	raw, err := p.deps.Metadata.GetPreferences(ctx, m.OwnerID)
	if err != nil {
		return fmt.Errorf("load preferences for owner %d: %w", m.OwnerID, err)
	}
	prefs := normalizePreferences(raw)

	// Step 3: Resolve media object
	key := m.ObjectKey()
	if key == "" {
		return fmt.Errorf("minutes %d has no media: %w", id, models.ErrNotFound)
	}
	obj, err := p.deps.Objects.GetObject(ctx, key)
	if err != nil {
		return fmt.Errorf("get object %s: %w", key, err)
	}
	if obj == nil {
		return fmt.Errorf("object %s: %w", key, models.ErrNotFound)
	}

	// Step 4: Mark processing
	if err := p.deps.Metadata.UpdateStatus(ctx, id, models.MinutesStatusProcessing); err != nil {
		return fmt.Errorf("mark minutes %d processing: %w", id, err)
	}

	// Step 5: Transcript
	var result models.Result
	switch action {
	case models.ActionSummarizeOnly:
		if m.Transcript == "" {
			return fmt.Errorf("summarize minutes %d without transcript: %w", id, models.ErrBadRequest)
		}
		result.Transcript = m.Transcript
		result.Subtitle = m.Subtitle
		p.logger.Info(ctx, "Reusing stored transcript for minutes %d", id)
	case models.ActionTranscribeAndSummarize:
		tr, err := p.transcribe(ctx, obj)
		if err != nil {
			return err
		}
		result.Transcript = tr.Transcript
		result.Subtitle = tr.Subtitle
	default:
		return fmt.Errorf("unknown action %q: %w", action, models.ErrBadRequest)
	}

	// Step 6: Meeting type
	mt := p.resolveMeetingType(ctx, m, result.Transcript, prefs.MeetingType)

	// Step 7: Summarize
	summary, err := p.summarize(ctx, result.Transcript, summarizer.Options{
		Language:        prefs.Language,
		StylePreference: prefs.StylePreference,
		MeetingType:     mt,
	})
	if err != nil {
		return err
	}
	result.Summary = summary

	// Step 8: Write result
	if err := p.deps.Metadata.UpdateResult(ctx, id, result); err != nil {
		return fmt.Errorf("write result for minutes %d: %w", id, err)
	}

	if p.deps.Exporter != nil {
		if err := p.deps.Exporter.Export(ctx, m, result); err != nil {
			p.logger.Warn(ctx, "Export minutes %d failed: %v", id, err)
		}
	}

	p.logger.Info(ctx, "Minutes %d completed in %s", id, time.Since(startTime))
	return nil
}
