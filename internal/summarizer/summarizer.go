package summarizer

import (
	"context"
	"fmt"
	"slices"
)

const emptyOutputFeedback = "The previous response contained no minutes text. Produce the complete minutes."

// Summarize generates minutes and validates them, regenerating with the
// validator's feedback until a check passes or the attempt budget runs out.
// The last non-empty candidate is returned even if no check passed. Output
// that post-processing would empty entirely is kept as generated.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string, opts Options) (string, error) {
	messages := buildMessages(transcript, opts)

	var (
		best     string
		previous string
		feedback string
		lastErr  error
	)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			if previous != "" {
				messages = append(messages, Message{Role: RoleAssistant, Content: previous})
			}
			messages = append(messages, feedbackMessage(feedback))
		}

		s.logger.Info(ctx, "Summarization attempt %d/%d (language=%s, meeting type=%s)",
			attempt, s.maxAttempts, opts.Language, opts.MeetingType)

		resp, err := s.generator.Generate(ctx, slices.Clone(messages))
		if err != nil {
			s.logger.Error(ctx, "Generate summary attempt %d: %v", attempt, err)
			lastErr = err
			previous = ""
			feedback = emptyOutputFeedback
			continue
		}

		text := ExtractText(resp)
		candidate := PostProcess(text)
		if candidate == "" && text != "" {
			candidate = text
		}
		previous = candidate
		if candidate == "" {
			s.logger.Warn(ctx, "Attempt %d returned no text (%T)", attempt, resp)
			feedback = emptyOutputFeedback
			continue
		}
		best = candidate

		result := s.checkQuality(ctx, transcript, candidate, opts)
		if result.Passed {
			s.logger.Info(ctx, "Quality check passed on attempt %d", attempt)
			return candidate, nil
		}

		s.logger.Warn(ctx, "Quality check failed on attempt %d: %s", attempt, result.Feedback)
		feedback = result.Feedback
	}

	if best == "" && lastErr != nil {
		return "", fmt.Errorf("generate summary: %w", lastErr)
	}

	s.logger.Warn(ctx, "Returning best-effort summary after %d attempts", s.maxAttempts)
	return best, nil
}
