package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/minutes-worker/internal/metrics"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

const genericQualityFeedback = "The quality check response could not be read. Re-check the language, section order, Summary length and Timeline format."

// buildQualityPrompt renders the validator instructions for language and meeting type.
func buildQualityPrompt(language string, mt models.MeetingType) string {
	var order []string
	for _, s := range requiredSections(mt) {
		order = append(order, heading(s, language))
	}

	var (
		summary  = heading(sectionByKey(sectionSummary), language)
		actions  = heading(sectionByKey(sectionNextActions), language)
		agenda   = heading(sectionByKey(sectionAgenda), language)
		speakers = heading(sectionByKey(sectionSpeakers), language)
		timeline = heading(sectionByKey(sectionTimeline), language)
	)

	var b strings.Builder
	b.WriteString("You validate meeting minutes against their source transcript. Check every rule below.\n\n")
	fmt.Fprintf(&b, "1. The whole minutes text is written in %s.\n", languageName(language))
	fmt.Fprintf(&b, "2. The %s section exists and is %d to %d characters long.\n",
		summary, minSummaryChars, maxSummaryChars)
	fmt.Fprintf(&b, "3. Sections that are present appear in this relative order: %s. Missing optional sections are fine.\n",
		strings.Join(order, " > "))
	fmt.Fprintf(&b, "4. The %s section has at most %d bullets and each bullet starts with a label of the form [start - end] copied from the transcript.\n",
		timeline, maxTimelineBullets)
	fmt.Fprintf(&b, "5. The %s section appears only if the transcript explicitly lists agenda items, and then directly after %s and before %s.\n",
		agenda, actions, timeline)
	fmt.Fprintf(&b, "6. The %s section, if present, labels speakers only as Speaker A, Speaker B and so on.\n", speakers)
	b.WriteString("7. Nothing is stated that the transcript does not support.\n\n")
	b.WriteString(`Reply with minified JSON only, no code fences: {"passed":true|false,"feedback":"..."}. ` +
		"When passed is false, feedback must list each violated rule concretely.")
	return b.String()
}

// checkQuality runs the independent validation call. Any failure to obtain
// or read a verdict counts as not passed.
func (s *implSummarizer) checkQuality(ctx context.Context, transcript, candidate string, opts Options) models.QualityCheckResult {
	messages := []Message{
		{Role: RoleSystem, Content: buildQualityPrompt(opts.Language, opts.MeetingType)},
		{Role: RoleUser, Content: "Transcript:\n" + transcript},
		{Role: RoleUser, Content: "Minutes:\n" + candidate},
	}

	resp, err := s.checker.Generate(ctx, messages)
	if err != nil {
		s.logger.Warn(ctx, "Quality check call failed: %v", err)
		return models.QualityCheckResult{Passed: false, Feedback: genericQualityFeedback}
	}

	result := parseQualityCheck(ExtractText(resp))
	metrics.QualityChecksTotal.WithLabelValues(strconv.FormatBool(result.Passed)).Inc()
	return result
}

// parseQualityCheck reads the {passed, feedback} verdict, tolerating code
// fences and surrounding prose.
func parseQualityCheck(text string) models.QualityCheckResult {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return models.QualityCheckResult{Feedback: genericQualityFeedback}
	}

	var verdict struct {
		Passed   *bool  `json:"passed"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &verdict); err != nil || verdict.Passed == nil {
		return models.QualityCheckResult{Feedback: genericQualityFeedback}
	}

	result := models.QualityCheckResult{Passed: *verdict.Passed, Feedback: strings.TrimSpace(verdict.Feedback)}
	if !result.Passed && result.Feedback == "" {
		result.Feedback = genericQualityFeedback
	}
	return result
}
