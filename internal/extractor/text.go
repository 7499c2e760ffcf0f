package extractor

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
)

var blankLine = regexp.MustCompile(`\n\s*\n`)

// extractText treats every blank-line separated block as a paragraph.
func (e *implExtractor) extractText(path string) ([]fragment.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	var frags []fragment.Fragment
	for _, para := range blankLine.Split(content, -1) {
		frags = e.add(frags, fragment.Paragraph, para)
	}
	return frags, nil
}
