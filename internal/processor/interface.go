package processor

import (
	"context"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// Processor turns one queued job into a completed minutes record or an error.
type Processor interface {
	Process(ctx context.Context, job models.Job) error
}

// MetadataStore reads and writes minutes records and owner preferences.
type MetadataStore interface {
	GetMinutes(ctx context.Context, id int64) (*models.Minutes, error)
	GetPreferences(ctx context.Context, ownerID int64) (models.Preferences, error)
	UpdateStatus(ctx context.Context, id int64, status models.MinutesStatus) error
	UpdateMeetingType(ctx context.Context, id int64, mt models.MeetingType, source models.MeetingTypeSource) error
	UpdateResult(ctx context.Context, id int64, result models.Result) error
}

// ObjectStore returns stored media. A missing object is (nil, nil).
type ObjectStore interface {
	GetObject(ctx context.Context, key string) (*models.Object, error)
}
