package ingest

import (
	"context"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// Ingester turns a media file from the inbox into a queued minutes job.
type Ingester interface {
	Ingest(ctx context.Context, filePath string) error
}

// ObjectWriter stores media objects.
type ObjectWriter interface {
	PutObject(ctx context.Context, key string, body []byte) error
}

// MinutesCreator inserts new minutes records.
type MinutesCreator interface {
	CreateMinutes(ctx context.Context, m *models.Minutes) (int64, error)
}

// Enqueuer queues a job for the worker.
type Enqueuer interface {
	Enqueue(ctx context.Context, job models.Job) (string, error)
}
