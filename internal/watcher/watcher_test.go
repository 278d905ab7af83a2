package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
)

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path  string
		audio bool
		video bool
	}{
		{"a.mp3", true, false},
		{"a.M4A", true, false},
		{"a.mp4", false, true},
		{"a.MOV", false, true},
		{"a.txt", false, false},
		{"noext", false, false},
	}
	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.audio {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.audio)
		}
		if got := IsVideoFile(tt.path); got != tt.video {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.video)
		}
		if got := IsMediaFile(tt.path); got != (tt.audio || tt.video) {
			t.Errorf("IsMediaFile(%q) = %v", tt.path, got)
		}
	}
}

// TestWatcherHandlesBacklogAndNewFiles covers files present before Start and files created after.
func TestWatcherHandlesBacklogAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "early.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		mu   sync.Mutex
		seen []string
	)
	handled := make(chan struct{}, 4)
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		handled <- struct{}{}
		return nil
	}

	w, err := New(Options{Dir: dir, SettleDelay: time.Millisecond}, handler, logger.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	waitHandled(t, handled)
	if err := os.WriteFile(filepath.Join(dir, "late.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitHandled(t, handled)

	cancel()
	if err := <-errCh; err != context.Canceled {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(seen)
	if len(seen) != 2 || seen[0] != "early.mp3" || seen[1] != "late.mp4" {
		t.Errorf("handled %v, want [early.mp3 late.mp4]", seen)
	}
}

func waitHandled(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(Options{Dir: filepath.Join(t.TempDir(), "missing")}, nil, logger.Discard()); err == nil {
		t.Error("New() error = nil, want error")
	}
}

// TestWatcherCancelDuringSettle checks shutdown does not wait out the settle delay.
func TestWatcherCancelDuringSettle(t *testing.T) {
	dir := t.TempDir()
	called := make(chan struct{}, 1)
	handler := func(ctx context.Context, path string) error {
		called <- struct{}{}
		return nil
	}

	w, err := New(Options{Dir: dir, SettleDelay: time.Hour}, handler, logger.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "slow.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return during the settle delay")
	}
	select {
	case <-called:
		t.Error("handler ran after cancellation")
	default:
	}
}
