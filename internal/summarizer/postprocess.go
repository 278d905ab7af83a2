package summarizer

import (
	"regexp"
	"strings"
)

var (
	reHeading     = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	reBulletStart = regexp.MustCompile(`^([\-\*\+・•]|\d+\.)\s*`)
)

// noneMarkers are the phrasings models use for an empty section.
var noneMarkers = map[string]bool{
	"なし":             true,
	"特になし":           true,
	"該当なし":           true,
	"ありません":          true,
	"特にありません":        true,
	"記載なし":           true,
	"none":           true,
	"n/a":            true,
	"na":             true,
	"nothing":        true,
	"not applicable": true,
	"no items":       true,
	"none mentioned": true,
	"—":              true,
}

// markdownSection is a heading and the lines beneath it.
type markdownSection struct {
	heading string // full heading line, "" for text before the first heading
	title   string
	body    []string
}

// splitSections groups markdown lines under their headings.
func splitSections(markdown string) []markdownSection {
	var out []markdownSection
	current := markdownSection{}
	for _, line := range strings.Split(markdown, "\n") {
		if m := reHeading.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			out = append(out, current)
			current = markdownSection{heading: strings.TrimSpace(line), title: m[2]}
			continue
		}
		current.body = append(current.body, line)
	}
	return append(out, current)
}

// isNoneLine reports whether a body line only says "nothing here".
func isNoneLine(line string) bool {
	s := strings.TrimSpace(line)
	s = reBulletStart.ReplaceAllString(s, "")
	s = strings.Trim(s, "*_` ")
	s = strings.TrimRight(s, "。.!！")
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || noneMarkers[s]
}

func isEmptySection(body []string) bool {
	for _, line := range body {
		if strings.TrimSpace(line) == "" || strings.TrimSpace(line) == "---" {
			continue
		}
		if !isNoneLine(line) {
			return false
		}
	}
	return true
}

// isSummaryTitle matches the Summary heading in any supported language. A
// title like "概要（Summary）" matches on either name; "Speaker Summary" does not.
func isSummaryTitle(title string) bool {
	for _, name := range titleNames(title) {
		for _, h := range sectionByKey(sectionSummary).headings {
			if strings.EqualFold(name, h) {
				return true
			}
		}
	}
	return false
}

// titleNames splits a heading title into its main name and an optional
// parenthesized alias, without numbering or emphasis.
func titleNames(title string) []string {
	t := strings.Trim(strings.TrimSpace(title), "*_ ")
	t = reBulletStart.ReplaceAllString(t, "")
	t = strings.NewReplacer("（", "(", "）", ")").Replace(t)

	main, alias, found := strings.Cut(t, "(")
	names := []string{strings.TrimSpace(main)}
	if found {
		names = append(names, strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(alias), ")")))
	}
	return names
}

// PostProcess drops sections that are empty or only say "none", keeping the
// Summary section unconditionally.
func PostProcess(markdown string) string {
	var kept []string
	for _, sec := range splitSections(markdown) {
		if sec.heading == "" {
			if !isEmptySection(sec.body) {
				kept = append(kept, strings.TrimSpace(strings.Join(sec.body, "\n")))
			}
			continue
		}
		if isEmptySection(sec.body) && !isSummaryTitle(sec.title) {
			continue
		}
		block := sec.heading
		if body := strings.TrimSpace(strings.Join(sec.body, "\n")); body != "" {
			block += "\n" + body
		}
		kept = append(kept, block)
	}
	return strings.TrimSpace(strings.Join(kept, "\n\n"))
}
