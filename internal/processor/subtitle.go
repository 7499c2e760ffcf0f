package processor

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/internal/recognizer"
	"github.com/nguyentantai21042004/narration-flow/internal/subtitle"
)

// Subtitles recognizes wavPath and writes the segmented cues to srtPath.
// Without lang, recognition.language is used, then the file name.
func (p *implProcessor) Subtitles(ctx context.Context, wavPath string, lang language.Code, srtPath string) (int, error) {
	if lang == "" {
		lang = language.Code(p.cfg.Recognition.Language)
	}
	if lang == "" {
		lang = recognizer.LanguageFromFilename(wavPath)
	}
	cues, err := p.subtitles(ctx, p.logger, wavPath, lang, srtPath)
	if err != nil {
		return 0, err
	}
	return len(cues), nil
}

func (p *implProcessor) subtitles(ctx context.Context, log logger.Logger, wavPath string, lang language.Code, srtPath string) ([]subtitle.Cue, error) {
	log.Info(ctx, "Recognizing speech (%s): %s", lang, wavPath)
	chunks, err := p.recognizer.Recognize(ctx, wavPath, lang)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	mode := subtitle.ModeFromWindow(p.cfg.SegmentWindow())
	cues, err := subtitle.Segment(chunks, mode)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	if err := subtitle.WriteSRTFile(srtPath, cues); err != nil {
		return nil, fmt.Errorf("write subtitles: %w", err)
	}

	log.Info(ctx, "Subtitles created: %s (%d cues)", srtPath, len(cues))
	return cues, nil
}
