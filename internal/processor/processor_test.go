package processor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
	"github.com/nguyentantai21042004/minutes-worker/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-worker/internal/transcriber"
)

// fakeMetadata keeps one minutes record and records every write.
type fakeMetadata struct {
	minutes     map[int64]*models.Minutes
	prefs       models.Preferences
	statuses    []models.MinutesStatus
	meetingType []models.MeetingType
	result      *models.Result
}

func (f *fakeMetadata) GetMinutes(ctx context.Context, id int64) (*models.Minutes, error) {
	m, ok := f.minutes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMetadata) GetPreferences(ctx context.Context, ownerID int64) (models.Preferences, error) {
	return f.prefs, nil
}

func (f *fakeMetadata) UpdateStatus(ctx context.Context, id int64, status models.MinutesStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeMetadata) UpdateMeetingType(ctx context.Context, id int64, mt models.MeetingType, source models.MeetingTypeSource) error {
	f.meetingType = append(f.meetingType, mt)
	return nil
}

func (f *fakeMetadata) UpdateResult(ctx context.Context, id int64, result models.Result) error {
	f.result = &result
	f.statuses = append(f.statuses, models.MinutesStatusCompleted)
	return nil
}

type fakeObjects map[string]*models.Object

func (f fakeObjects) GetObject(ctx context.Context, key string) (*models.Object, error) {
	return f[key], nil
}

type fakeTranscriber struct {
	transcribe func(ctx context.Context, obj *models.Object) (transcriber.Result, error)
	keys       []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, obj *models.Object) (transcriber.Result, error) {
	f.keys = append(f.keys, obj.Key)
	return f.transcribe(ctx, obj)
}

type fakeSummarizer struct {
	opts []summarizer.Options
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript string, opts summarizer.Options) (string, error) {
	f.opts = append(f.opts, opts)
	return "## 概要\n" + transcript, nil
}

type fakeClassifier struct {
	mt    models.MeetingType
	err   error
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, transcript string) (models.MeetingType, error) {
	f.calls++
	return f.mt, f.err
}

type fakeExporter struct {
	exported []int64
}

func (f *fakeExporter) Export(ctx context.Context, m *models.Minutes, result models.Result) error {
	f.exported = append(f.exported, m.ID)
	return nil
}

type fixture struct {
	meta       *fakeMetadata
	objects    fakeObjects
	tr         *fakeTranscriber
	sum        *fakeSummarizer
	classifier *fakeClassifier
	exporter   *fakeExporter
	proc       Processor
}

func newFixture(m *models.Minutes) *fixture {
	f := &fixture{
		meta: &fakeMetadata{minutes: map[int64]*models.Minutes{m.ID: m}},
		objects: fakeObjects{
			"audio/1.mp3": {Key: "audio/1.mp3", ContentType: "audio/mpeg", Body: []byte("mp3")},
			"video/1.mp4": {Key: "video/1.mp4", ContentType: "video/mp4", Body: []byte("mp4")},
		},
		tr: &fakeTranscriber{transcribe: func(ctx context.Context, obj *models.Object) (transcriber.Result, error) {
			return transcriber.Result{Transcript: "[0.00 - 1.00] hello", Subtitle: "WEBVTT\n\n"}, nil
		}},
		sum:        &fakeSummarizer{},
		classifier: &fakeClassifier{mt: models.MeetingTypeOneOnOne},
		exporter:   &fakeExporter{},
	}
	f.proc = New(Deps{
		Metadata:    f.meta,
		Objects:     f.objects,
		Transcriber: f.tr,
		Summarizer:  f.sum,
		Classifier:  f.classifier,
		Exporter:    f.exporter,
	}, logger.Discard())
	return f
}

func job(id int64, action models.Action) models.Job {
	return models.Job{ID: "job-1", Status: models.JobStatusProcessing, Payload: models.Payload{TargetID: id, Action: action}}
}

func TestProcessTranscribeAndSummarize(t *testing.T) {
	f := newFixture(&models.Minutes{ID: 1, OwnerID: 9, VideoKey: "video/1.mp4", AudioKey: "audio/1.mp3"})
	f.meta.prefs = models.Preferences{Language: "en", StylePreference: "short bullets"}

	if err := f.proc.Process(context.Background(), job(1, "")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(f.tr.keys) != 1 || f.tr.keys[0] != "audio/1.mp3" {
		t.Errorf("transcribed %v, want audio object", f.tr.keys)
	}
	want := []models.MinutesStatus{models.MinutesStatusProcessing, models.MinutesStatusCompleted}
	if len(f.meta.statuses) != 2 || f.meta.statuses[0] != want[0] || f.meta.statuses[1] != want[1] {
		t.Errorf("statuses = %v, want %v", f.meta.statuses, want)
	}
	if f.meta.result == nil || f.meta.result.Transcript != "[0.00 - 1.00] hello" || f.meta.result.Subtitle != "WEBVTT\n\n" {
		t.Fatalf("result = %+v", f.meta.result)
	}
	if f.meta.result.Summary != "## 概要\n[0.00 - 1.00] hello" {
		t.Errorf("summary = %q", f.meta.result.Summary)
	}

	opts := f.sum.opts[0]
	if opts.Language != "en" || opts.StylePreference != "short bullets" || opts.MeetingType != models.MeetingTypeOneOnOne {
		t.Errorf("summarizer options = %+v", opts)
	}
	if len(f.meta.meetingType) != 1 || f.meta.meetingType[0] != models.MeetingTypeOneOnOne {
		t.Errorf("persisted meeting types = %v", f.meta.meetingType)
	}
	if len(f.exporter.exported) != 1 {
		t.Errorf("exported = %v, want one export", f.exporter.exported)
	}
}

func TestProcessFallsBackToVideoObject(t *testing.T) {
	f := newFixture(&models.Minutes{ID: 1, VideoKey: "video/1.mp4"})

	if err := f.proc.Process(context.Background(), job(1, models.ActionTranscribeAndSummarize)); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if f.tr.keys[0] != "video/1.mp4" {
		t.Errorf("transcribed %s, want video/1.mp4", f.tr.keys[0])
	}
}

func TestProcessNotFound(t *testing.T) {
	tests := []struct {
		name    string
		minutes *models.Minutes
		target  int64
	}{
		{name: "missing record", minutes: &models.Minutes{ID: 1, AudioKey: "audio/1.mp3"}, target: 2},
		{name: "missing object", minutes: &models.Minutes{ID: 1, AudioKey: "audio/gone.mp3"}, target: 1},
		{name: "no media keys", minutes: &models.Minutes{ID: 1}, target: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.minutes)

			err := f.proc.Process(context.Background(), job(tt.target, ""))
			if !errors.Is(err, models.ErrNotFound) {
				t.Fatalf("Process() error = %v, want ErrNotFound", err)
			}
			if len(f.meta.statuses) != 0 {
				t.Errorf("statuses = %v, want none", f.meta.statuses)
			}
		})
	}
}

func TestProcessNotFoundMessage(t *testing.T) {
	f := newFixture(&models.Minutes{ID: 1})

	err := f.proc.Process(context.Background(), job(42, ""))
	if err == nil || err.Error() != "load minutes 42: not found" {
		t.Errorf("Process() error = %v, want \"load minutes 42: not found\"", err)
	}
}

func TestProcessSummarizeOnly(t *testing.T) {
	f := newFixture(&models.Minutes{
		ID:         1,
		AudioKey:   "audio/1.mp3",
		Transcript: "[0.00 - 2.00] stored",
		Subtitle:   "WEBVTT\n\nstored",
	})

	if err := f.proc.Process(context.Background(), job(1, models.ActionSummarizeOnly)); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(f.tr.keys) != 0 {
		t.Errorf("transcriber called for summarize_only")
	}
	if f.meta.result.Transcript != "[0.00 - 2.00] stored" || f.meta.result.Subtitle != "WEBVTT\n\nstored" {
		t.Errorf("result = %+v", f.meta.result)
	}
}

func TestProcessSummarizeOnlyWithoutTranscript(t *testing.T) {
	f := newFixture(&models.Minutes{ID: 1, AudioKey: "audio/1.mp3"})

	err := f.proc.Process(context.Background(), job(1, models.ActionSummarizeOnly))
	if !errors.Is(err, models.ErrBadRequest) {
		t.Fatalf("Process() error = %v, want ErrBadRequest", err)
	}
	if f.meta.result != nil {
		t.Error("result written for a bad request")
	}
}

func TestProcessTranscriptionFailure(t *testing.T) {
	f := newFixture(&models.Minutes{ID: 1, AudioKey: "audio/1.mp3"})
	f.tr.transcribe = func(ctx context.Context, obj *models.Object) (transcriber.Result, error) {
		return transcriber.Result{}, errors.New("all chunks failed")
	}

	err := f.proc.Process(context.Background(), job(1, ""))
	if err == nil || !strings.Contains(err.Error(), "all chunks failed") {
		t.Fatalf("Process() error = %v", err)
	}
	if f.meta.result != nil {
		t.Error("result written after transcription failure")
	}
}

func TestProcessMeetingType(t *testing.T) {
	tests := []struct {
		name          string
		minutes       models.Minutes
		prefs         models.Preferences
		classifyErr   error
		wantType      models.MeetingType
		wantClassify  int
		wantPersisted int
	}{
		{
			name:     "stored type is reused",
			minutes:  models.Minutes{MeetingType: "study_session", MeetingTypeSource: models.MeetingTypeSourceAuto},
			wantType: models.MeetingTypeStudySession,
		},
		{
			name:          "classified and persisted",
			wantType:      models.MeetingTypeOneOnOne,
			wantClassify:  1,
			wantPersisted: 1,
		},
		{
			name:         "manual source never overwritten",
			minutes:      models.Minutes{MeetingTypeSource: models.MeetingTypeSourceManual},
			wantType:     models.MeetingTypeOneOnOne,
			wantClassify: 1,
		},
		{
			name:         "classifier failure uses preference",
			prefs:        models.Preferences{MeetingType: models.MeetingTypeClientMeeting},
			classifyErr:  errors.New("timeout"),
			wantType:     models.MeetingTypeClientMeeting,
			wantClassify: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.minutes
			m.ID = 1
			m.AudioKey = "audio/1.mp3"
			f := newFixture(&m)
			f.meta.prefs = tt.prefs
			f.classifier.err = tt.classifyErr

			if err := f.proc.Process(context.Background(), job(1, "")); err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if got := f.sum.opts[0].MeetingType; got != tt.wantType {
				t.Errorf("meeting type = %s, want %s", got, tt.wantType)
			}
			if f.classifier.calls != tt.wantClassify {
				t.Errorf("classify calls = %d, want %d", f.classifier.calls, tt.wantClassify)
			}
			if len(f.meta.meetingType) != tt.wantPersisted {
				t.Errorf("persisted = %v, want %d writes", f.meta.meetingType, tt.wantPersisted)
			}
		})
	}
}

func TestNormalizePreferences(t *testing.T) {
	long := strings.Repeat("あ", 200)

	tests := []struct {
		name string
		in   models.Preferences
		want models.Preferences
	}{
		{
			name: "defaults",
			in:   models.Preferences{},
			want: models.Preferences{Language: "ja", MeetingType: models.MeetingTypeRegular},
		},
		{
			name: "english kept",
			in:   models.Preferences{Language: " EN ", MeetingType: "one_on_one"},
			want: models.Preferences{Language: "en", MeetingType: models.MeetingTypeOneOnOne},
		},
		{
			name: "unknown values",
			in:   models.Preferences{Language: "fr", MeetingType: "standup"},
			want: models.Preferences{Language: "ja", MeetingType: models.MeetingTypeRegular},
		},
		{
			name: "preference capped",
			in:   models.Preferences{StylePreference: long},
			want: models.Preferences{Language: "ja", StylePreference: strings.Repeat("あ", 120), MeetingType: models.MeetingTypeRegular},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePreferences(tt.in); got != tt.want {
				t.Errorf("normalizePreferences() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
