package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet    = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reTimeLabel = regexp.MustCompile(`^\[(\d+(?:\.\d+)?) - (\d+(?:\.\d+)?)\]\s*(.*)$`)
)

// Export writes <id>-summary.docx and <id>-transcript.docx.
func (e *implDocxExporter) Export(ctx context.Context, m *models.Minutes, result models.Result) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	title := m.Title
	if title == "" {
		title = fmt.Sprintf("Minutes #%d", m.ID)
	}

	summaryPath := filepath.Join(e.dir, fmt.Sprintf("%d-summary.docx", m.ID))
	if err := markdownToDocx(title, result.Summary, summaryPath); err != nil {
		return fmt.Errorf("write summary docx: %w", err)
	}

	transcriptPath := filepath.Join(e.dir, fmt.Sprintf("%d-transcript.docx", m.ID))
	if err := transcriptToDocx(title, result.Transcript, transcriptPath); err != nil {
		return fmt.Errorf("write transcript docx: %w", err)
	}

	e.logger.Info(ctx, "Exported minutes %d -> %s, %s", m.ID, summaryPath, transcriptPath)
	return nil
}

// markdownToDocx converts the minutes markdown to a styled docx file.
func markdownToDocx(title, markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}

	return doc.SaveTo(outputPath)
}

// transcriptToDocx writes one paragraph per transcript line with the time
// label in bold, skipping consecutive duplicate lines.
func transcriptToDocx(title, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	var last string
	for _, line := range strings.Split(transcript, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		p := doc.AddParagraph("")
		m := reTimeLabel.FindStringSubmatch(trimmed)
		if m == nil {
			p.AddText(trimmed).Font(fontName).Size(fontSize).Color("000000")
			continue
		}
		if m[3] == last {
			continue
		}
		last = m[3]
		p.AddText(fmt.Sprintf("[%s - %s] ", m[1], m[2])).Font(fontName).Size(fontSize).Color("555555").Bold(true)
		p.AddText(m[3]).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
