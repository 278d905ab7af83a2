package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

// classifyExcerptRunes keeps the classification call lightweight.
const classifyExcerptRunes = 6000

const classifyPrompt = `Classify the meeting transcript into exactly one type:
- study_session: a lecture, seminar, training or study group
- one_on_one: a conversation between two people such as a 1on1 or interview
- client_meeting: a meeting with a customer, client or external partner
- regular: any other internal meeting

Reply with the type name only.`

// Classify asks the generator for a meeting type. Anything it cannot map to
// a known type becomes regular.
func (c *implClassifier) Classify(ctx context.Context, transcript string) (models.MeetingType, error) {
	messages := []Message{
		{Role: RoleSystem, Content: classifyPrompt},
		{Role: RoleUser, Content: excerpt(transcript, classifyExcerptRunes)},
	}

	resp, err := c.generator.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("classify meeting type: %w", err)
	}

	mt := parseMeetingType(ExtractText(resp))
	c.logger.Info(ctx, "Detected meeting type: %s", mt)
	return mt, nil
}

// parseMeetingType finds the first known type name in the reply.
func parseMeetingType(reply string) models.MeetingType {
	s := strings.ToLower(reply)
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for _, mt := range []models.MeetingType{
		models.MeetingTypeStudySession,
		models.MeetingTypeOneOnOne,
		models.MeetingTypeClientMeeting,
		models.MeetingTypeRegular,
	} {
		if strings.Contains(s, string(mt)) {
			return mt
		}
	}
	return models.MeetingTypeRegular
}

func excerpt(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes])
}
