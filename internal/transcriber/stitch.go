package transcriber

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// ChunkResult is the chunk-local output of one speech-to-text call.
type ChunkResult struct {
	Index    int
	Segments []models.TranscriptSegment
	Duration float64
	Dropped  bool
}

var reTranscriptLine = regexp.MustCompile(`^\[(\d+(?:\.\d+)?) - (\d+(?:\.\d+)?)\] ?(.*)$`)

// Stitch orders chunk results by index and shifts each chunk's segments by
// the summed duration of all chunks before it.
func Stitch(results []ChunkResult) []models.TranscriptSegment {
	var (
		offset float64
		all    []models.TranscriptSegment
	)

	for _, r := range sortResults(results) {
		for _, s := range r.Segments {
			all = append(all, models.TranscriptSegment{
				Start: s.Start + offset,
				End:   s.End + offset,
				Text:  s.Text,
			})
		}
		offset += r.Duration
	}

	return all
}

// FormatTranscript renders one "[start - end] text" line per segment.
// The summarizer prompt consumes this format verbatim.
func FormatTranscript(segments []models.TranscriptSegment) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		lines[i] = fmt.Sprintf("[%.2f - %.2f] %s", s.Start, s.End, s.Text)
	}
	return strings.Join(lines, "\n")
}

// ParseTranscript reads lines produced by FormatTranscript back into segments.
func ParseTranscript(transcript string) ([]models.TranscriptSegment, error) {
	var segments []models.TranscriptSegment
	for n, line := range strings.Split(transcript, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := reTranscriptLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: malformed transcript line %q", n+1, line)
		}
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: start: %w", n+1, err)
		}
		end, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: end: %w", n+1, err)
		}
		segments = append(segments, models.TranscriptSegment{Start: start, End: end, Text: m[3]})
	}
	return segments, nil
}
