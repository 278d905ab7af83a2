package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// RedisStore keeps the queue state as one JSON value under queue:<name>:state.
// The caller owns the client lifecycle.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a Redis-backed state store for the named queue.
func NewRedisStore(client redis.Cmdable, queueName string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    Key(queueName),
	}
}

// Key is the Redis key holding the state of the named queue.
func Key(queueName string) string {
	return "queue:" + queueName + ":state"
}

func (s *RedisStore) Load(ctx context.Context) (models.QueueState, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.QueueState{}, nil
		}
		return models.QueueState{}, fmt.Errorf("get %s: %w", s.key, err)
	}

	var state models.QueueState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.QueueState{}, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, state models.QueueState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}
