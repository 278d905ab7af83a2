package statestore

import (
	"context"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// StateStore persists the queue actor's state. Load on a store that was
// never saved returns an empty state.
type StateStore interface {
	Load(ctx context.Context) (models.QueueState, error)
	Save(ctx context.Context, state models.QueueState) error
}
