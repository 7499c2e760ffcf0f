package synthesizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/pkg/executor"
)

// EdgeOptions configures the edge-tts command line backend.
type EdgeOptions struct {
	Binary  string
	Voices  map[string]string
	Prosody Prosody
	TempDir string
}

type edgeSynthesizer struct {
	binary   string
	voices   voiceTable
	prosody  Prosody
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

// NewEdge creates a Synthesizer that shells out to edge-tts.
func NewEdge(opts EdgeOptions, exec executor.Executor, log logger.Logger) (Synthesizer, error) {
	if err := opts.Prosody.Validate(); err != nil {
		return nil, err
	}
	if opts.Binary == "" {
		opts.Binary = "edge-tts"
	}
	return &edgeSynthesizer{
		binary:   opts.Binary,
		voices:   newVoiceTable(DefaultEdgeVoices, opts.Voices),
		prosody:  opts.Prosody,
		tempDir:  opts.TempDir,
		executor: exec,
		logger:   log,
	}, nil
}

func (s *edgeSynthesizer) Format() string { return "mp3" }

func (s *edgeSynthesizer) identity(lang language.Code) string {
	return fmt.Sprintf("edge|%s|%+d|%+d", s.voices.voice(lang), s.prosody.RatePercent(), s.prosody.VolumePercent())
}

// Synthesize writes the narration to a temp file so long texts never hit
// argument length limits.
func (s *edgeSynthesizer) Synthesize(ctx context.Context, req Request, outPath string) error {
	if strings.TrimSpace(req.Text) == "" {
		return apperr.Validation("narration text is empty")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	if s.tempDir != "" {
		if err := os.MkdirAll(s.tempDir, 0755); err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
	}

	textFile, err := os.CreateTemp(s.tempDir, "narration-*.txt")
	if err != nil {
		return fmt.Errorf("create text file: %w", err)
	}
	defer os.Remove(textFile.Name())

	if _, err := textFile.WriteString(req.Text); err != nil {
		textFile.Close()
		return fmt.Errorf("write text file: %w", err)
	}
	if err := textFile.Close(); err != nil {
		return fmt.Errorf("close text file: %w", err)
	}

	voice := s.voices.voice(req.Language)
	args := []string{
		"--file", textFile.Name(),
		"--voice", voice,
		fmt.Sprintf("--rate=%+d%%", s.prosody.RatePercent()),
		fmt.Sprintf("--volume=%+d%%", s.prosody.VolumePercent()),
		"--write-media", outPath,
	}

	s.logger.Debug(ctx, "Synthesizing %d characters with %s", len(req.Text), voice)
	if _, err := s.executor.Execute(ctx, s.binary, args...); err != nil {
		return apperr.Upstream("edge-tts", err)
	}
	return nil
}
