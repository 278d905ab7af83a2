package models

import "time"

// JobStatus is the lifecycle state of a queued job.
type JobStatus string

const (
	JobStatusWaiting    JobStatus = "waiting"
	JobStatusProcessing JobStatus = "processing"
	JobStatusFailed     JobStatus = "failed"
	JobStatusDone       JobStatus = "done"
)

// Action selects which pipeline stages a job runs.
type Action string

const (
	ActionTranscribeAndSummarize Action = "transcribe_and_summarize"
	ActionSummarizeOnly          Action = "summarize_only"
)

// Payload identifies the minutes record a job works on.
type Payload struct {
	TargetID int64  `json:"targetId"`
	Action   Action `json:"action,omitempty"`
}

// EffectiveAction returns the action, defaulting to transcribe_and_summarize.
func (p Payload) EffectiveAction() Action {
	if p.Action == "" {
		return ActionTranscribeAndSummarize
	}
	return p.Action
}

// Job is one unit of queued work.
type Job struct {
	ID         string    `json:"id"`
	Status     JobStatus `json:"status"`
	Payload    Payload   `json:"payload"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	RetryCount int       `json:"retryCount"`
	Error      string    `json:"error,omitempty"`
}

// IsRetrying reports whether a waiting job has already failed at least once.
func (j Job) IsRetrying() bool {
	return j.Status == JobStatusWaiting && j.RetryCount > 0
}

// QueueState is everything the queue actor persists.
type QueueState struct {
	Jobs   []Job      `json:"jobs"`
	WakeAt *time.Time `json:"wakeAt,omitempty"`
}

// Find returns the index of the job with the given id, or -1.
func (s *QueueState) Find(id string) int {
	for i := range s.Jobs {
		if s.Jobs[i].ID == id {
			return i
		}
	}
	return -1
}

// CountStatus returns how many jobs are in the given status.
func (s *QueueState) CountStatus(status JobStatus) int {
	n := 0
	for _, j := range s.Jobs {
		if j.Status == status {
			n++
		}
	}
	return n
}
