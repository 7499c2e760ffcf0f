package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/composer"
	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/internal/narration"
	"github.com/nguyentantai21042004/narration-flow/internal/synthesizer"
	"github.com/nguyentantai21042004/narration-flow/internal/transcript"
)

const (
	audioDir      = "audio"
	subtitlesDir  = "subtitles"
	videoDir      = "video"
	transcriptDir = "transcripts"
)

// Process orchestrates the entire narration pipeline
func (p *implProcessor) Process(ctx context.Context, docPath string) (*Result, error) {
	startTime := time.Now()
	res := &Result{JobID: uuid.NewString()}
	log := p.logger.With("job", res.JobID[:8])

	log.Info(ctx, "========================================")
	log.Info(ctx, "Starting document processing: %s", docPath)
	log.Info(ctx, "========================================")

	if err := p.ensureOutputLayout(); err != nil {
		return res, err
	}

	// Steps 1-4: extract, transcript, assemble, synthesize
	if err := p.narrate(ctx, log, docPath, res); err != nil {
		return res, err
	}

	// Step 5: Recognize and segment subtitles; a missing model only skips this step
	base := baseName(docPath)
	srtPath := filepath.Join(p.cfg.Paths.Output, subtitlesDir, base+".srt")
	recLang := res.Language
	if p.cfg.Recognition.Language != "" {
		recLang = language.Code(p.cfg.Recognition.Language)
	}
	cues, err := p.subtitles(ctx, log, res.WAVPath, recLang, srtPath)
	switch {
	case errors.Is(err, apperr.ErrResourceMissing):
		log.Warn(ctx, "Skipping subtitles: %v", err)
	case err != nil:
		return res, fmt.Errorf("subtitles: %w", err)
	default:
		res.SubtitlePath, res.Cues = srtPath, len(cues)
		if p.wantsTranscript("docx") {
			docxPath := filepath.Join(p.cfg.Paths.Output, transcriptDir, base+".subtitles.docx")
			if err := transcript.WriteSRTDocx(docxPath, base, cues); err != nil {
				log.Warn(ctx, "Failed to write subtitle transcript: %v", err)
			} else {
				res.Transcripts = append(res.Transcripts, docxPath)
			}
		}
	}

	// Step 6: Compose video
	if p.cfg.Video.Enabled && p.composer != nil {
		videoPath := filepath.Join(p.cfg.Paths.Output, videoDir, base+".mp4")
		in := composer.Input{
			AudioPath:    res.WAVPath,
			SubtitlePath: res.SubtitlePath,
			Title:        p.videoTitle(docPath),
			OutputPath:   videoPath,
		}
		if err := p.composer.Compose(ctx, in); err != nil {
			return res, fmt.Errorf("compose video: %w", err)
		}
		res.VideoPath = videoPath
	}

	// Step 7: Move original document to archived folder
	if err := p.moveToArchived(ctx, log, docPath); err != nil {
		log.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Processing completed successfully!")
	log.Info(ctx, "Language: %s", res.Language)
	log.Info(ctx, "Output audio: %s (%s)", res.WAVPath, fileSize(res.WAVPath))
	if res.SubtitlePath != "" {
		log.Info(ctx, "Output subtitle: %s (%d cues)", res.SubtitlePath, res.Cues)
	}
	if res.VideoPath != "" {
		log.Info(ctx, "Output video: %s (%s)", res.VideoPath, fileSize(res.VideoPath))
	}
	log.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	log.Info(ctx, "========================================")

	return res, nil
}

// Narrate produces the narration audio for one document.
func (p *implProcessor) Narrate(ctx context.Context, docPath string) (*Result, error) {
	res := &Result{JobID: uuid.NewString()}
	log := p.logger.With("job", res.JobID[:8])
	if err := p.ensureOutputLayout(); err != nil {
		return res, err
	}
	if err := p.narrate(ctx, log, docPath, res); err != nil {
		return res, err
	}
	return res, nil
}

func (p *implProcessor) narrate(ctx context.Context, log logger.Logger, docPath string, res *Result) error {
	base := baseName(docPath)

	frags, err := p.extractor.Extract(ctx, docPath)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	log.Info(ctx, "Document extracted: %d fragments", len(frags))

	if p.cfg.Extraction.SaveTranscript {
		res.Transcripts = append(res.Transcripts, p.saveTranscripts(ctx, log, base, frags)...)
	}

	text, err := narration.Assemble(frags)
	if err != nil {
		return fmt.Errorf("assemble narration: %w", err)
	}

	lang := language.Code(p.cfg.Narration.Language)
	if lang == "" {
		lang = language.Detect(text)
		log.Info(ctx, "Detected language: %s", lang)
	}
	res.Language = lang

	format := p.synthesizer.Format()
	audioPath := filepath.Join(p.cfg.Paths.Output, audioDir, base+"."+format)
	wavPath := filepath.Join(p.cfg.Paths.Output, audioDir, base+".wav")
	if format == "wav" {
		// the 16 kHz conversion takes the .wav name
		audioPath = filepath.Join(p.cfg.Paths.Temp, res.JobID+".wav")
		defer p.cleanupTempFile(ctx, audioPath)
	}

	log.Info(ctx, "Synthesizing %d characters of narration", len(text))
	if err := p.synthesizer.Synthesize(ctx, synthesizer.Request{Text: text, Language: lang}, audioPath); err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	if format != "wav" {
		res.AudioPath = audioPath
	}

	if err := p.convertToWAV(ctx, audioPath, wavPath); err != nil {
		return err
	}
	res.WAVPath = wavPath
	if res.AudioPath == "" {
		res.AudioPath = wavPath
	}

	log.Info(ctx, "Audio created: %s", wavPath)
	return nil
}

// ensureOutputLayout creates the audio, subtitles, video and transcripts
// folders under paths.output.
func (p *implProcessor) ensureOutputLayout() error {
	for _, dir := range []string{audioDir, subtitlesDir, videoDir, transcriptDir} {
		if err := os.MkdirAll(filepath.Join(p.cfg.Paths.Output, dir), 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}

func (p *implProcessor) saveTranscripts(ctx context.Context, log logger.Logger, base string, frags []fragment.Fragment) []string {
	var written []string
	dir := filepath.Join(p.cfg.Paths.Output, transcriptDir)
	for _, format := range p.cfg.Extraction.TranscriptFormats {
		path := filepath.Join(dir, base+"."+format)
		var err error
		switch format {
		case "txt":
			err = transcript.WriteText(path, frags)
		case "docx":
			err = transcript.WriteDocx(path, base, frags)
		default:
			continue
		}
		if err != nil {
			log.Warn(ctx, "Failed to write %s transcript: %v", format, err)
			continue
		}
		log.Info(ctx, "Transcript saved to: %s", path)
		written = append(written, path)
	}
	return written
}

func (p *implProcessor) wantsTranscript(format string) bool {
	return p.cfg.Extraction.SaveTranscript && slices.Contains(p.cfg.Extraction.TranscriptFormats, format)
}

// videoTitle prefers a date in the document's folder name over the configured title.
func (p *implProcessor) videoTitle(docPath string) string {
	if title, ok := composer.DateTitleFromPath(filepath.Dir(docPath)); ok {
		return title
	}
	return p.cfg.Video.Title
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}
