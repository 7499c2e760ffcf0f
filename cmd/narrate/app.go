package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/narration-flow/internal/composer"
	"github.com/nguyentantai21042004/narration-flow/internal/config"
	"github.com/nguyentantai21042004/narration-flow/internal/extractor"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/internal/processor"
	"github.com/nguyentantai21042004/narration-flow/internal/recognizer"
	"github.com/nguyentantai21042004/narration-flow/internal/synthesizer"
	"github.com/nguyentantai21042004/narration-flow/pkg/executor"
)

// app holds what every pipeline command needs.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	extractor extractor.Extractor
	processor processor.Processor
}

// loadConfig reads --config. A missing default file falls back to built-in
// defaults; a missing file named explicitly is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithOptions(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Debug(ctx, "System: %s/%s, %d CPU cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	exec := executor.New()
	ext := extractor.New(extractor.Options{
		ChapterLanguage: cfg.Extraction.ChapterLanguage,
		MinLength:       cfg.Extraction.MinLength,
	}, log)

	synth, err := synthesizer.New(ctx, cfg, exec, log)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}

	var comp composer.Composer
	if cfg.Video.Enabled {
		comp = composer.New(composer.Options{
			FFmpegBinary:     cfg.FFmpeg.Binary,
			Encoder:          cfg.FFmpeg.Encoder,
			Preset:           cfg.FFmpeg.Preset,
			AudioCodec:       cfg.FFmpeg.AudioCodec,
			BackgroundImage:  cfg.Video.BackgroundImage,
			BackgroundMusic:  cfg.Video.BackgroundMusic,
			BackgroundVolume: cfg.Video.BackgroundVolume,
			FPS:              cfg.Video.FPS,
			Font:             cfg.Video.Font,
			TempDir:          cfg.Paths.Temp,
		}, exec, log)
	}

	proc := processor.New(cfg, processor.Dependencies{
		Executor:    exec,
		Extractor:   ext,
		Synthesizer: synth,
		Recognizer:  recognizer.New(cfg, exec, log),
		Composer:    comp,
	}, log)

	return &app{cfg: cfg, log: log, extractor: ext, processor: proc}, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

func (a *app) banner(ctx context.Context, title string) {
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "%s", title)
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Synthesis: %s, recognition: %s", a.cfg.Synthesis.Backend, a.cfg.Recognition.Backend)
	a.log.Info(ctx, "Max Concurrent Processing: %d", a.cfg.Performance.MaxConcurrent)
}
