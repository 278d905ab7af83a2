package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const transcribePrompt = `Transcribe this audio verbatim in %s.
Return JSON only, no code fences, in this shape:
{"segments":[{"start":0.0,"end":2.5,"text":"..."}],"duration":12.3}
start and end are seconds from the beginning of this audio. duration is the length of this audio in seconds.
Do not add speaker labels, summaries or any text that is not spoken.`

var languageNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
}

// SpeechToText adapts a Client to transcriber.SpeechToText. Audio is sent
// inline and the model is asked for timed segments as JSON.
type SpeechToText struct {
	client *Client
}

// NewSpeechToText creates a SpeechToText on client.
func NewSpeechToText(client *Client) *SpeechToText {
	return &SpeechToText{client: client}
}

// Transcribe returns the raw response text for one audio chunk.
func (s *SpeechToText) Transcribe(ctx context.Context, audio []byte, contentType, language string) ([]byte, error) {
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	lang, ok := languageNames[language]
	if !ok {
		lang = languageNames["ja"]
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(fmt.Sprintf(transcribePrompt, lang)),
			genai.NewPartFromBytes(audio, contentType),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	resp, err := s.client.call(ctx, contents, cfg)
	if err != nil {
		return nil, err
	}

	text := strings.Join(candidateParts(resp), "")
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty transcription response")
	}
	return []byte(text), nil
}
