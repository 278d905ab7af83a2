package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
	"github.com/nguyentantai21042004/minutes-worker/internal/watcher"
)

// Ingest stores the file (and the extracted audio of a video), creates an
// UPLOADING minutes record and enqueues a transcribe_and_summarize job.
func (i *implIngester) Ingest(ctx context.Context, filePath string) error {
	base := filepath.Base(filePath)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	prefix := "inbox/" + uuid.NewString()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", base, err)
	}

	m := &models.Minutes{
		OwnerID: i.opts.OwnerID,
		Title:   title,
		Status:  models.MinutesStatusUploading,
	}

	switch {
	case watcher.IsVideoFile(base):
		m.VideoKey = prefix + "/" + base
		if err := i.objects.PutObject(ctx, m.VideoKey, data); err != nil {
			return fmt.Errorf("store video: %w", err)
		}
		audio, err := i.extractAudio(ctx, filePath)
		if err != nil {
			return err
		}
		m.AudioKey = prefix + "/audio.mp3"
		if err := i.objects.PutObject(ctx, m.AudioKey, audio); err != nil {
			return fmt.Errorf("store audio: %w", err)
		}
	case watcher.IsAudioFile(base):
		m.AudioKey = prefix + "/" + base
		if err := i.objects.PutObject(ctx, m.AudioKey, data); err != nil {
			return fmt.Errorf("store audio: %w", err)
		}
	default:
		return fmt.Errorf("%s: %w", base, models.ErrUnsupportedMedia)
	}

	id, err := i.minutes.CreateMinutes(ctx, m)
	if err != nil {
		return fmt.Errorf("create minutes: %w", err)
	}

	jobID, err := i.queue.Enqueue(ctx, models.Job{
		Payload: models.Payload{TargetID: id, Action: models.ActionTranscribeAndSummarize},
	})
	if err != nil {
		return fmt.Errorf("enqueue minutes %d: %w", id, err)
	}

	i.logger.Info(ctx, "[QUEUED] %s -> minutes %d (job %s)", base, id, jobID)
	i.archive(ctx, filePath)
	return nil
}

// archive moves the source out of the inbox so it is not picked up again.
func (i *implIngester) archive(ctx context.Context, filePath string) {
	if i.opts.ArchiveDir == "" {
		if err := os.Remove(filePath); err != nil {
			i.logger.Warn(ctx, "Failed to remove %s: %v", filePath, err)
		}
		return
	}

	if err := os.MkdirAll(i.opts.ArchiveDir, 0o755); err != nil {
		i.logger.Warn(ctx, "Failed to create archive dir: %v", err)
		return
	}
	dest := filepath.Join(i.opts.ArchiveDir, filepath.Base(filePath))
	if err := os.Rename(filePath, dest); err != nil {
		i.logger.Warn(ctx, "Failed to archive %s: %v", filePath, err)
	}
}
