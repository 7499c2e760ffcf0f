// Package transcript saves the extracted text of a document for reading
// alongside the narrated video.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
	"github.com/nguyentantai21042004/narration-flow/internal/subtitle"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteText writes one fragment per line.
func WriteText(path string, frags []fragment.Fragment) error {
	lines := make([]string, 0, len(frags))
	for _, f := range frags {
		lines = append(lines, f.Text)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// WriteDocx renders the fragments as a styled Word document.
func WriteDocx(path, title string, frags []fragment.Fragment) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, f := range frags {
		p := doc.AddParagraph("")
		switch {
		case f.Role.HeadingDepth() > 0:
			addStyledRun(p, f.Text, true, headingSize(f.Role.HeadingDepth()))
		case f.Role == fragment.Strong:
			addStyledRun(p, f.Text, true, fontSize)
		case f.Role == fragment.ListItem:
			addStyledRun(p, "• "+f.Text, false, fontSize)
		default:
			addStyledRun(p, f.Text, false, fontSize)
		}
	}

	return save(doc, path)
}

// WriteSRTDocx writes a dialogue-only transcript of the cues.
// Repeated lines are written once.
func WriteSRTDocx(path, title string, cues []subtitle.Cue) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	seen := make(map[string]bool)
	for _, c := range cues {
		for _, line := range strings.Split(c.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			addStyledRun(doc.AddParagraph(""), line, false, fontSize)
		}
	}

	return save(doc, path)
}

func save(doc *docx.RootDoc, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func headingSize(depth int) uint64 {
	switch depth {
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
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
