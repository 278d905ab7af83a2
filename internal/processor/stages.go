package processor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
	"github.com/nguyentantai21042004/minutes-worker/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-worker/internal/transcriber"
)

func (p *implProcessor) transcribe(ctx context.Context, obj *models.Object) (transcriber.Result, error) {
	ctx, span := p.tracer.Start(ctx, "minutes.transcribe",
		trace.WithAttributes(
			attribute.String("minutes.object.key", obj.Key),
			attribute.String("minutes.object.content_type", obj.ContentType),
			attribute.Int("minutes.object.size", obj.Size()),
		),
	)
	defer span.End()

	res, err := p.deps.Transcriber.Transcribe(ctx, obj)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return transcriber.Result{}, fmt.Errorf("transcribe %s: %w", obj.Key, err)
	}
	span.SetAttributes(attribute.Int("minutes.segments", len(res.Segments)))
	return res, nil
}

func (p *implProcessor) summarize(ctx context.Context, transcript string, opts summarizer.Options) (string, error) {
	ctx, span := p.tracer.Start(ctx, "minutes.summarize",
		trace.WithAttributes(
			attribute.String("minutes.language", opts.Language),
			attribute.String("minutes.meeting_type", string(opts.MeetingType)),
		),
	)
	defer span.End()

	summary, err := p.deps.Summarizer.Summarize(ctx, transcript, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("summarize: %w", err)
	}
	return summary, nil
}

// resolveMeetingType uses the stored type when it is a known one, otherwise
// classifies the transcript. A classification is persisted as auto unless
// the record was set manually. When classification fails the owner's
// preferred type is used and nothing is persisted.
func (p *implProcessor) resolveMeetingType(ctx context.Context, m *models.Minutes, transcript string, fallback models.MeetingType) models.MeetingType {
	if mt, ok := models.ParseMeetingType(m.MeetingType); ok {
		return mt
	}

	mt, err := p.deps.Classifier.Classify(ctx, transcript)
	if err != nil {
		p.logger.Warn(ctx, "Classify minutes %d failed, using %s: %v", m.ID, fallback, err)
		return fallback
	}

	if m.MeetingTypeSource == models.MeetingTypeSourceManual {
		return mt
	}
	if err := p.deps.Metadata.UpdateMeetingType(ctx, m.ID, mt, models.MeetingTypeSourceAuto); err != nil {
		p.logger.Warn(ctx, "Persist meeting type for minutes %d failed: %v", m.ID, err)
	}
	return mt
}
