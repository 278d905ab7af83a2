package summarizer

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

const (
	sectionSummary       = "summary"
	sectionDecisions     = "decisions"
	sectionNextActions   = "next_actions"
	sectionAgenda        = "agenda"
	sectionSpeakers      = "speakers"
	sectionTimeline      = "timeline"
	sectionRisks         = "risks"
	sectionOpenQuestions = "open_questions"

	maxTimelineBullets = 10
	minSummaryChars    = 50
	maxSummaryChars    = 180
)

// section is one heading of the minutes with its vocabulary cues.
type section struct {
	key      string
	headings map[string]string // language -> heading text
	rule     string
	include  map[string][]string
	exclude  map[string][]string
}

var sections = []section{
	{
		key:      sectionSummary,
		headings: map[string]string{"ja": "概要", "en": "Summary"},
		rule: fmt.Sprintf("Always present. %d to %d characters of prose describing the whole meeting, built only from the transcript.",
			minSummaryChars, maxSummaryChars),
	},
	{
		key:      sectionDecisions,
		headings: map[string]string{"ja": "決定事項", "en": "Decisions"},
		rule:     "Only items the participants explicitly agreed on or decided.",
		include: map[string][]string{
			"ja": {"決定", "決まり", "合意", "承認", "〜することにした", "〜で進める"},
			"en": {"decided", "agreed", "approved", "we will go with", "final"},
		},
		exclude: map[string][]string{
			"ja": {"検討", "提案", "〜かもしれない", "〜したい", "案"},
			"en": {"maybe", "consider", "proposal", "might", "would like to"},
		},
	},
	{
		key:      sectionNextActions,
		headings: map[string]string{"ja": "次のアクション", "en": "Next Actions"},
		rule:     "Tasks explicitly assigned or promised, with owner and due date only when stated.",
		include: map[string][]string{
			"ja": {"やります", "対応します", "担当", "までに", "宿題"},
			"en": {"I will", "action item", "owner", "by next", "follow up"},
		},
		exclude: map[string][]string{
			"ja": {"できたらいい", "いつか", "一般論"},
			"en": {"it would be nice", "someday", "in general"},
		},
	},
	{
		key:      sectionAgenda,
		headings: map[string]string{"ja": "詳細アジェンダ", "en": "Detailed Agenda"},
		rule:     "Conditional. Include only when the transcript explicitly lists agenda items; place it directly after Next Actions and before Timeline.",
		include: map[string][]string{
			"ja": {"議題", "アジェンダ", "本日のテーマ", "一つ目", "次の項目"},
			"en": {"agenda", "first item", "next topic", "today we will cover"},
		},
	},
	{
		key:      sectionSpeakers,
		headings: map[string]string{"ja": "話者別サマリ", "en": "Speaker Summary"},
		rule:     "Main points of each inferred speaker, labelled Speaker A, Speaker B, Speaker C in order of first appearance. Omit when only one speaker can be inferred.",
	},
	{
		key:      sectionTimeline,
		headings: map[string]string{"ja": "タイムライン", "en": "Timeline"},
		rule: fmt.Sprintf("At most %d bullets in chronological order. Each bullet starts with the label copied verbatim from the transcript in the form [start - end]; treat the label as an opaque string and never convert it to clock time.",
			maxTimelineBullets),
	},
	{
		key:      sectionRisks,
		headings: map[string]string{"ja": "リスク・懸念事項", "en": "Risks and Concerns"},
		rule:     "Only concerns or risks a participant explicitly raised.",
		include: map[string][]string{
			"ja": {"懸念", "心配", "リスク", "問題", "遅れ"},
			"en": {"concern", "worried", "risk", "blocker", "delay"},
		},
	},
	{
		key:      sectionOpenQuestions,
		headings: map[string]string{"ja": "要確認事項", "en": "Open Questions"},
		rule:     "Questions raised but not answered in the transcript.",
		include: map[string][]string{
			"ja": {"確認", "不明", "未定", "？"},
			"en": {"to be confirmed", "unclear", "TBD", "?"},
		},
		exclude: map[string][]string{
			"ja": {"回答済み"},
			"en": {"already answered"},
		},
	},
}

var languageNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
}

var meetingTypeDescriptions = map[models.MeetingType]string{
	models.MeetingTypeRegular:       "a regular internal meeting",
	models.MeetingTypeStudySession:  "a study session or lecture",
	models.MeetingTypeOneOnOne:      "a one-on-one meeting",
	models.MeetingTypeClientMeeting: "a meeting with a client or external partner",
}

const defaultStylePreference = "No special style preference. Follow the format above."

// requiredSections lists the sections for a meeting type in output order.
// Study sessions have no Decisions section.
func requiredSections(mt models.MeetingType) []section {
	out := make([]section, 0, len(sections))
	for _, s := range sections {
		if s.key == sectionDecisions && mt == models.MeetingTypeStudySession {
			continue
		}
		out = append(out, s)
	}
	return out
}

// sectionByKey returns the section definition for key.
func sectionByKey(key string) section {
	for _, s := range sections {
		if s.key == key {
			return s
		}
	}
	panic("summarizer: unknown section " + key)
}

func heading(s section, language string) string {
	if h, ok := s.headings[language]; ok {
		return h
	}
	return s.headings["ja"]
}

func languageName(language string) string {
	if name, ok := languageNames[language]; ok {
		return name
	}
	return languageNames["ja"]
}

// buildSystemPrompt renders the minutes instructions for language and meeting type.
func buildSystemPrompt(language string, mt models.MeetingType) string {
	lang := languageName(language)
	desc, ok := meetingTypeDescriptions[mt]
	if !ok {
		desc = meetingTypeDescriptions[models.MeetingTypeRegular]
	}

	var b strings.Builder
	b.WriteString("You are a meeting minutes assistant. Produce clear, structured, strictly evidence-based minutes from a transcript.\n\n")
	fmt.Fprintf(&b, "The recording is %s.\n\n", desc)

	b.WriteString("## Input format\n")
	b.WriteString("Each transcript line looks like `[start - end] text`. The bracketed label is an opaque string: copy it verbatim when you cite it and do not reinterpret it as a clock time. There are no speaker labels.\n\n")

	b.WriteString("## Speaker identification\n")
	b.WriteString("Infer speaker changes only from what is visible in the transcript:\n")
	b.WriteString("1. Silence gap: when a segment starts well after the previous one ended, treat it as a likely speaker change.\n")
	b.WriteString("2. Context or tone shift: a clear change of topic or style, such as a question followed by an answer, suggests a new speaker.\n")
	b.WriteString("3. Segment boundaries: segment breaks mark natural pauses and may coincide with a speaker switch.\n")
	b.WriteString("Speaker names are unknown. Use generic labels Speaker A, Speaker B, Speaker C and so on, and never guess roles or identities.\n\n")

	b.WriteString("## Absolute rules\n")
	b.WriteString("- Do not write anything that does not explicitly appear in the transcript. No speculation, no general knowledge, no filled-in context.\n")
	b.WriteString("- Do not alter the meaning of what was said. You may compress, never extend.\n")
	fmt.Fprintf(&b, "- Write the entire output in %s, including headings, regardless of the transcript language.\n", lang)
	b.WriteString("- If a section has no supporting content, omit it entirely. Never write placeholder text.\n\n")

	b.WriteString("## Output format (Markdown)\n")
	b.WriteString("Use exactly these `##` headings, in this order:\n\n")
	for i, s := range requiredSections(mt) {
		fmt.Fprintf(&b, "%d. ## %s\n   %s\n", i+1, heading(s, language), s.rule)
		if cues := s.include[language]; len(cues) > 0 {
			fmt.Fprintf(&b, "   Include when the transcript uses cues like: %s\n", strings.Join(cues, ", "))
		}
		if cues := s.exclude[language]; len(cues) > 0 {
			fmt.Fprintf(&b, "   Exclude statements marked by: %s\n", strings.Join(cues, ", "))
		}
	}

	return b.String()
}

// buildMessages assembles the system prompt, the style turn and the transcript turn.
func buildMessages(transcript string, opts Options) []Message {
	style := strings.TrimSpace(opts.StylePreference)
	if style == "" {
		style = defaultStylePreference
	}

	return []Message{
		{Role: RoleSystem, Content: buildSystemPrompt(opts.Language, opts.MeetingType)},
		{Role: RoleUser, Content: "Style preference: " + style},
		{Role: RoleUser, Content: transcript},
	}
}

// feedbackMessage asks for a corrected regeneration after a failed check.
func feedbackMessage(feedback string) Message {
	return Message{
		Role: RoleUser,
		Content: "The previous minutes failed the quality check with this feedback:\n" +
			feedback +
			"\nRegenerate the complete minutes from the transcript, fixing every point above and keeping all other rules.",
	}
}
