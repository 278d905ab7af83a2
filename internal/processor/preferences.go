package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

const (
	maxPreferenceRunes = 120
	maxShortFieldRunes = 32

	defaultLanguage = "ja"
)

// normalizePreferences maps missing or unknown values to safe defaults and
// caps every field's length.
func normalizePreferences(p models.Preferences) models.Preferences {
	language := strings.ToLower(truncate(strings.TrimSpace(p.Language), maxShortFieldRunes))
	if language != "en" {
		language = defaultLanguage
	}

	mt, ok := models.ParseMeetingType(truncate(strings.TrimSpace(string(p.MeetingType)), maxShortFieldRunes))
	if !ok {
		mt = models.MeetingTypeRegular
	}

	return models.Preferences{
		Language:        language,
		StylePreference: truncate(strings.TrimSpace(p.StylePreference), maxPreferenceRunes),
		MeetingType:     mt,
	}
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes])
}
