package models

import "time"

// MinutesStatus is the user-visible processing status of a minutes record.
type MinutesStatus string

const (
	MinutesStatusUploading  MinutesStatus = "UPLOADING"
	MinutesStatusProcessing MinutesStatus = "PROCESSING"
	MinutesStatusCompleted  MinutesStatus = "COMPLETED"
	MinutesStatusFailed     MinutesStatus = "FAILED"
)

// MeetingType drives which sections the summary must contain.
type MeetingType string

const (
	MeetingTypeRegular       MeetingType = "regular"
	MeetingTypeStudySession  MeetingType = "study_session"
	MeetingTypeOneOnOne      MeetingType = "one_on_one"
	MeetingTypeClientMeeting MeetingType = "client_meeting"
)

// MeetingTypes lists every known meeting type.
var MeetingTypes = []MeetingType{
	MeetingTypeRegular,
	MeetingTypeStudySession,
	MeetingTypeOneOnOne,
	MeetingTypeClientMeeting,
}

// ParseMeetingType returns the known meeting type matching raw, if any.
func ParseMeetingType(raw string) (MeetingType, bool) {
	for _, mt := range MeetingTypes {
		if string(mt) == raw {
			return mt, true
		}
	}
	return "", false
}

// MeetingTypeSource records who chose the meeting type.
type MeetingTypeSource string

const (
	MeetingTypeSourceAuto   MeetingTypeSource = "auto"
	MeetingTypeSourceManual MeetingTypeSource = "manual"
)

// Minutes is the metadata record a job targets.
type Minutes struct {
	ID                int64
	OwnerID           int64
	Title             string
	VideoKey          string
	AudioKey          string
	Status            MinutesStatus
	Transcript        string
	Subtitle          string
	Summary           string
	MeetingType       string
	MeetingTypeSource MeetingTypeSource
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ObjectKey prefers the extracted audio object over the original upload.
func (m *Minutes) ObjectKey() string {
	if m.AudioKey != "" {
		return m.AudioKey
	}
	return m.VideoKey
}

// Result is the final output written back to the minutes record.
type Result struct {
	Transcript string
	Subtitle   string
	Summary    string
}

// Preferences are the owner's summary settings.
type Preferences struct {
	Language        string
	StylePreference string
	MeetingType     MeetingType
}

// Object is a stored media blob.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
}

// Size returns the body length in bytes.
func (o *Object) Size() int {
	return len(o.Body)
}

// TranscriptSegment is one timed piece of transcribed speech, in seconds.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// QualityCheckResult is the verdict of the summary validator.
type QualityCheckResult struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}
