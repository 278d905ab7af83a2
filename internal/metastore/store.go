package metastore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

//go:embed schema.sql
var schema string

// Store reads and writes minutes records and owner preferences in MySQL.
// The caller owns the *sql.DB.
type Store struct {
	db *sql.DB
}

// New creates a Store on db. Open db with parseTime=true.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Round(time.Microsecond)
}

// GetMinutes loads one minutes record. A missing row is models.ErrNotFound.
func (s *Store) GetMinutes(ctx context.Context, id int64) (*models.Minutes, error) {
	query := `
		SELECT
		  id,
		  owner_id,
		  title,
		  video_key,
		  audio_key,
		  status,
		  transcript,
		  subtitle,
		  summary,
		  meeting_type,
		  meeting_type_source,
		  created_at,
		  updated_at
		FROM minutes
		WHERE id = ?
`
	var (
		m                                                 models.Minutes
		status                                            string
		videoKey, audioKey, transcript, subtitle, summary sql.NullString
		meetingType, meetingTypeSource                    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.OwnerID,
		&m.Title,
		&videoKey,
		&audioKey,
		&status,
		&transcript,
		&subtitle,
		&summary,
		&meetingType,
		&meetingTypeSource,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("select minutes: %w", err)
	}

	m.Status = models.MinutesStatus(status)
	m.VideoKey = videoKey.String
	m.AudioKey = audioKey.String
	m.Transcript = transcript.String
	m.Subtitle = subtitle.String
	m.Summary = summary.String
	m.MeetingType = meetingType.String
	m.MeetingTypeSource = models.MeetingTypeSource(meetingTypeSource.String)
	return &m, nil
}

// CreateMinutes inserts a new record and returns its id.
func (s *Store) CreateMinutes(ctx context.Context, m *models.Minutes) (int64, error) {
	ts := now()
	query := `INSERT INTO minutes (owner_id, title, video_key, audio_key, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		m.OwnerID,
		m.Title,
		nullString(m.VideoKey),
		nullString(m.AudioKey),
		string(m.Status),
		ts,
		ts,
	)
	if err != nil {
		return 0, fmt.Errorf("insert minutes: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get lastInsertId: %w", err)
	}
	return id, nil
}

// GetPreferences loads the owner's summary settings. A missing owner yields
// empty preferences.
func (s *Store) GetPreferences(ctx context.Context, ownerID int64) (models.Preferences, error) {
	query := `SELECT minutes_language, summary_preference, default_meeting_type FROM users WHERE id = ?`
	var language, preference, meetingType sql.NullString
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&language, &preference, &meetingType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{}, nil
		}
		return models.Preferences{}, fmt.Errorf("select preferences: %w", err)
	}
	return models.Preferences{
		Language:        language.String,
		StylePreference: preference.String,
		MeetingType:     models.MeetingType(meetingType.String),
	}, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status models.MinutesStatus) error {
	return s.exec(ctx, "update status",
		`UPDATE minutes SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now(), id)
}

func (s *Store) UpdateMeetingType(ctx context.Context, id int64, mt models.MeetingType, source models.MeetingTypeSource) error {
	return s.exec(ctx, "update meeting type",
		`UPDATE minutes SET meeting_type = ?, meeting_type_source = ?, updated_at = ? WHERE id = ?`,
		string(mt), string(source), now(), id)
}

// UpdateResult stores the pipeline output and marks the record COMPLETED.
func (s *Store) UpdateResult(ctx context.Context, id int64, result models.Result) error {
	return s.exec(ctx, "update result",
		`UPDATE minutes SET status = ?, transcript = ?, summary = ?, subtitle = ?, updated_at = ? WHERE id = ?`,
		string(models.MinutesStatusCompleted), result.Transcript, result.Summary, result.Subtitle, now(), id)
}

func (s *Store) exec(ctx context.Context, op, query string, args ...interface{}) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
