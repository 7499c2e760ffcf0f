package extractor

import (
	"regexp"

	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

// Options controls fragment filtering and EPUB chapter detection.
type Options struct {
	// ChapterLanguage selects the chapter-heading pattern: es, en, fr or de.
	ChapterLanguage string
	// MinLength is the minimum number of characters and letters a fragment needs.
	MinLength int
}

type implExtractor struct {
	minLength int
	chapter   *regexp.Regexp
	logger    logger.Logger
}

// New creates a new Extractor instance
func New(opts Options, log logger.Logger) Extractor {
	if opts.MinLength <= 0 {
		opts.MinLength = 3
	}
	chapter, ok := chapterPatterns[opts.ChapterLanguage]
	if !ok {
		chapter = chapterPatterns["es"]
	}
	return &implExtractor{
		minLength: opts.MinLength,
		chapter:   chapter,
		logger:    log,
	}
}

// Paragraphs opening with one of these words are promoted to chapter headings in EPUBs.
var chapterPatterns = map[string]*regexp.Regexp{
	"es": regexp.MustCompile(`(?i)^(cap[ií]tulo|secci[oó]n|parte)\b`),
	"en": regexp.MustCompile(`(?i)^(chapter|section|part)\b`),
	"fr": regexp.MustCompile(`(?i)^(chapitre|section|partie)\b`),
	"de": regexp.MustCompile(`(?i)^(kapitel|abschnitt|teil)\b`),
}
