package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
)

// Extensions lists the document types Extract understands.
var Extensions = []string{".html", ".htm", ".epub", ".txt", ".md", ".markdown"}

// Supports reports whether path has a supported document extension.
func (e *implExtractor) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range Extensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Extract reads path and returns its narratable fragments in document order.
func (e *implExtractor) Extract(ctx context.Context, path string) ([]fragment.Fragment, error) {
	if !e.Supports(path) {
		return nil, apperr.Validation("unsupported file extension %q (supported: %s)",
			filepath.Ext(path), strings.Join(Extensions, ", "))
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}

	e.logger.Info(ctx, "Extracting fragments from %s", filepath.Base(path))

	var (
		frags []fragment.Fragment
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		frags, err = e.extractHTMLFile(path)
	case ".epub":
		frags, err = e.extractEPUB(ctx, path)
	case ".txt":
		frags, err = e.extractText(path)
	case ".md", ".markdown":
		frags, err = e.extractMarkdown(path)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "Extracted %d fragments from %s", len(frags), filepath.Base(path))
	return frags, nil
}

// add appends text under role when it survives cleaning.
func (e *implExtractor) add(frags []fragment.Fragment, role fragment.Role, raw string) []fragment.Fragment {
	text := cleanText(raw)
	if !e.valid(text) {
		return frags
	}
	return append(frags, fragment.Fragment{Role: role, Text: text})
}

// valid requires MinLength characters and MinLength letters.
func (e *implExtractor) valid(text string) bool {
	if utf8.RuneCountInString(text) < e.minLength {
		return false
	}
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= e.minLength
}

// cleanText NFC-normalises s, replaces characters outside the Latin
// printable ranges with spaces and collapses whitespace.
func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if printableLatin(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func printableLatin(r rune) bool {
	switch {
	case r >= 0x20 && r <= 0x7E:
		return true
	case r >= 0xA0 && r <= 0x24F:
		return true
	case r >= 0x1E00 && r <= 0x1EFF:
		return true
	}
	return false
}
