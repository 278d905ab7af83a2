package export

import (
	"context"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// Exporter writes finished minutes to an external format.
type Exporter interface {
	Export(ctx context.Context, m *models.Minutes, result models.Result) error
}
