package transcriber

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// fallbackChunkDuration is used when a chunk reports no usable duration.
const fallbackChunkDuration = 10.0

// sttResponse covers the response shapes the speech-to-text service returns:
// a segment list (optionally with a reported duration) or flat text.
type sttResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start *float64 `json:"start"`
		End   *float64 `json:"end"`
		Text  string   `json:"text"`
	} `json:"segments"`
	Duration          float64 `json:"duration"`
	TranscriptionInfo *struct {
		Duration float64 `json:"duration"`
	} `json:"transcription_info"`
}

// parseChunkResponse extracts chunk-local segments and the chunk duration.
// found is false when the response carried no text at all.
func parseChunkResponse(raw []byte) (segments []models.TranscriptSegment, duration float64, found bool) {
	body := bytes.TrimSpace(stripCodeFence(raw))

	var resp sttResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// Not JSON: treat the whole body as flat text.
		if text := cleanText(string(body)); text != "" {
			return []models.TranscriptSegment{{Start: 0, End: 1, Text: text}}, fallbackChunkDuration, true
		}
		return nil, fallbackChunkDuration, false
	}

	if resp.Segments != nil {
		segments = make([]models.TranscriptSegment, 0, len(resp.Segments))
		for _, s := range resp.Segments {
			start := 0.0
			if s.Start != nil && *s.Start > 0 {
				start = *s.Start
			}
			end := start
			if s.End != nil && *s.End > start {
				end = *s.End
			}
			segments = append(segments, models.TranscriptSegment{Start: start, End: end, Text: cleanText(s.Text)})
		}

		switch {
		case resp.TranscriptionInfo != nil && resp.TranscriptionInfo.Duration > 0:
			duration = resp.TranscriptionInfo.Duration
		case resp.Duration > 0:
			duration = resp.Duration
		case len(segments) > 0 && segments[len(segments)-1].End > 0:
			duration = segments[len(segments)-1].End
		default:
			duration = fallbackChunkDuration
		}
		return segments, duration, len(segments) > 0
	}

	if text := cleanText(resp.Text); text != "" {
		return []models.TranscriptSegment{{Start: 0, End: 1, Text: text}}, fallbackChunkDuration, true
	}

	return nil, fallbackChunkDuration, false
}

// cleanText flattens whitespace so each segment stays on one transcript line.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = s[3:]
	if nl := bytes.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return bytes.TrimSuffix(bytes.TrimSpace(s), []byte("```"))
}
