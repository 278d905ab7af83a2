package statestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

func sampleState() models.QueueState {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	wake := now.Add(100 * time.Millisecond)
	return models.QueueState{
		Jobs: []models.Job{
			{
				ID:        "job-1",
				Status:    models.JobStatusWaiting,
				Payload:   models.Payload{TargetID: 7, Action: models.ActionSummarizeOnly},
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:         "job-2",
				Status:     models.JobStatusFailed,
				Payload:    models.Payload{TargetID: 8},
				CreatedAt:  now,
				UpdatedAt:  now,
				RetryCount: 3,
				Error:      "load minutes 8: not found",
			},
		},
		WakeAt: &wake,
	}
}

// checkRoundTrip saves a state and expects the same jobs and wake time back.
func checkRoundTrip(t *testing.T, s StateStore) {
	t.Helper()
	ctx := context.Background()
	want := sampleState()

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(got.Jobs) != len(want.Jobs) {
		t.Fatalf("len(Jobs) = %d, want %d", len(got.Jobs), len(want.Jobs))
	}
	for i := range want.Jobs {
		g, w := got.Jobs[i], want.Jobs[i]
		if g.ID != w.ID || g.Status != w.Status || g.Payload != w.Payload || g.RetryCount != w.RetryCount || g.Error != w.Error {
			t.Errorf("Jobs[%d] = %+v, want %+v", i, g, w)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("Jobs[%d].CreatedAt = %v, want %v", i, g.CreatedAt, w.CreatedAt)
		}
	}
	if got.WakeAt == nil || !got.WakeAt.Equal(*want.WakeAt) {
		t.Errorf("WakeAt = %v, want %v", got.WakeAt, want.WakeAt)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	state, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(state.Jobs) != 0 || state.WakeAt != nil {
		t.Errorf("Load() = %+v, want empty state", state)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "queue.json")
	checkRoundTrip(t, NewFileStore(path))

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Error("Load() error = nil, want decode error")
	}
}

// TestRedisStoreRoundTrip needs a Redis server at REDIS_ADDR.
func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	name := "statestore-test-" + time.Now().Format("150405.000000")
	defer client.Del(ctx, Key(name))

	s := NewRedisStore(client, name)
	empty, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() on missing key error = %v", err)
	}
	if len(empty.Jobs) != 0 {
		t.Errorf("Load() on missing key = %+v", empty)
	}

	checkRoundTrip(t, s)
}

func TestKey(t *testing.T) {
	if got := Key("default-queue"); got != "queue:default-queue:state" {
		t.Errorf("Key() = %s", got)
	}
}
