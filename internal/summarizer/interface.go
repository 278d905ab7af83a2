package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// Role is the author of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn sent to the text-generation service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Generator is the external text-generation service.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// Options carries the owner's preferences into the prompt.
type Options struct {
	Language        string
	StylePreference string
	MeetingType     models.MeetingType
}

// Summarizer produces structured meeting minutes from a timed transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, opts Options) (string, error)
}

// Classifier guesses the meeting type of a transcript.
type Classifier interface {
	Classify(ctx context.Context, transcript string) (models.MeetingType, error)
}
