package transcriber

import (
	"fmt"
	"math"
	"strings"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// RenderVTT renders segments as a WEBVTT subtitle track.
func RenderVTT(segments []models.TranscriptSegment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, s := range segments {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n", formatTimestamp(s.Start), formatTimestamp(s.End), s.Text)
	}
	return b.String()
}

// formatTimestamp formats seconds as HH:MM:SS.mmm.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	hh := ms / 3_600_000
	mm := ms / 60_000 % 60
	ss := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hh, mm, ss, ms%1000)
}
