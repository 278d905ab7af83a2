package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

type fakeObjects struct {
	puts map[string][]byte
}

func (f *fakeObjects) PutObject(ctx context.Context, key string, body []byte) error {
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[key] = body
	return nil
}

type fakeMinutes struct {
	created []models.Minutes
}

func (f *fakeMinutes) CreateMinutes(ctx context.Context, m *models.Minutes) (int64, error) {
	f.created = append(f.created, *m)
	return int64(100 + len(f.created)), nil
}

type fakeQueue struct {
	jobs []models.Job
	err  error
}

func (f *fakeQueue) Enqueue(ctx context.Context, job models.Job) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.jobs = append(f.jobs, job)
	return "job-1", nil
}

// fakeExecutor writes fake mp3 bytes to the last argument, like ffmpeg's output path.
type fakeExecutor struct {
	calls [][]string
	err   error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return "", f.err
	}
	return "", os.WriteFile(args[len(args)-1], []byte("mp3-bytes"), 0o644)
}

type fixture struct {
	inbox   string
	archive string
	objects *fakeObjects
	minutes *fakeMinutes
	queue   *fakeQueue
	exec    *fakeExecutor
	ing     Ingester
}

func newFixture(t *testing.T) *fixture {
	root := t.TempDir()
	f := &fixture{
		inbox:   filepath.Join(root, "inbox"),
		archive: filepath.Join(root, "inbox", "archived"),
		objects: &fakeObjects{},
		minutes: &fakeMinutes{},
		queue:   &fakeQueue{},
		exec:    &fakeExecutor{},
	}
	if err := os.MkdirAll(f.inbox, 0o755); err != nil {
		t.Fatal(err)
	}
	f.ing = New(Options{OwnerID: 9, ArchiveDir: f.archive, TempDir: root}, f.objects, f.minutes, f.queue, f.exec, logger.Discard())
	return f
}

func (f *fixture) drop(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(f.inbox, name)
	if err := os.WriteFile(p, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestIngestVideoExtractsAudio(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "Weekly Sync.mp4")

	if err := f.ing.Ingest(context.Background(), path); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if len(f.exec.calls) != 1 || f.exec.calls[0][0] != "ffmpeg" {
		t.Fatalf("executor calls = %v", f.exec.calls)
	}
	m := f.minutes.created[0]
	if m.Title != "Weekly Sync" || m.OwnerID != 9 || m.Status != models.MinutesStatusUploading {
		t.Errorf("created = %+v", m)
	}
	if !strings.HasSuffix(m.VideoKey, "/Weekly Sync.mp4") || !strings.HasSuffix(m.AudioKey, "/audio.mp3") {
		t.Errorf("keys = %s, %s", m.VideoKey, m.AudioKey)
	}
	if string(f.objects.puts[m.AudioKey]) != "mp3-bytes" || string(f.objects.puts[m.VideoKey]) != "media" {
		t.Errorf("stored objects = %v", f.objects.puts)
	}

	if len(f.queue.jobs) != 1 {
		t.Fatalf("jobs = %v", f.queue.jobs)
	}
	if p := f.queue.jobs[0].Payload; p.TargetID != 101 || p.Action != models.ActionTranscribeAndSummarize {
		t.Errorf("payload = %+v", p)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("source still in inbox")
	}
	if _, err := os.Stat(filepath.Join(f.archive, "Weekly Sync.mp4")); err != nil {
		t.Errorf("source not archived: %v", err)
	}
}

func TestIngestAudioSkipsExtraction(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "call.m4a")

	if err := f.ing.Ingest(context.Background(), path); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(f.exec.calls) != 0 {
		t.Errorf("ffmpeg called for audio input")
	}
	m := f.minutes.created[0]
	if m.VideoKey != "" || !strings.HasSuffix(m.AudioKey, "/call.m4a") {
		t.Errorf("keys = %q, %q", m.VideoKey, m.AudioKey)
	}
}

func TestIngestErrors(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		f := newFixture(t)
		err := f.ing.Ingest(context.Background(), f.drop(t, "notes.txt"))
		if !errors.Is(err, models.ErrUnsupportedMedia) {
			t.Errorf("Ingest() error = %v, want ErrUnsupportedMedia", err)
		}
	})

	t.Run("ffmpeg failure", func(t *testing.T) {
		f := newFixture(t)
		f.exec.err = errors.New("exit status 1")
		path := f.drop(t, "talk.mov")

		if err := f.ing.Ingest(context.Background(), path); err == nil {
			t.Fatal("Ingest() error = nil, want error")
		}
		if len(f.minutes.created) != 0 {
			t.Error("minutes created after ffmpeg failure")
		}
		if _, err := os.Stat(path); err != nil {
			t.Error("failed source should stay in inbox")
		}
	})

	t.Run("enqueue failure", func(t *testing.T) {
		f := newFixture(t)
		f.queue.err = errors.New("store down")
		if err := f.ing.Ingest(context.Background(), f.drop(t, "a.mp3")); err == nil {
			t.Error("Ingest() error = nil, want error")
		}
	})
}
