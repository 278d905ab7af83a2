package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// SpeechToText is the external speech-to-text service. It returns the raw
// response body for one audio chunk; parsing is done by the stage.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, contentType, language string) ([]byte, error)
}

// Transcriber turns an audio object into a timed transcript and subtitle track.
type Transcriber interface {
	Transcribe(ctx context.Context, obj *models.Object) (Result, error)
}

// Result is the stitched output of a transcription run.
type Result struct {
	Transcript string
	Subtitle   string
	Segments   []models.TranscriptSegment
}
