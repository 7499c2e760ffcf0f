package synthesizer

import (
	"context"

	"github.com/nguyentantai21042004/narration-flow/internal/config"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/pkg/executor"
)

// New builds the configured backend, wrapped in the disk cache when enabled.
func New(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) (Synthesizer, error) {
	prosody := Prosody{Pace: cfg.Narration.Pace, Volume: cfg.Narration.Volume}

	var (
		synth Synthesizer
		err   error
	)
	switch cfg.Synthesis.Backend {
	case config.BackendGemini:
		synth, err = NewGemini(ctx, GeminiOptions{
			APIKey:            cfg.Synthesis.Gemini.APIKey,
			Model:             cfg.Synthesis.Gemini.Model,
			Voices:            cfg.Synthesis.Gemini.Voices,
			RequestsPerMinute: cfg.Synthesis.Gemini.RequestsPerMinute,
		}, log)
	default:
		synth, err = NewEdge(EdgeOptions{
			Binary:  cfg.Synthesis.Edge.Binary,
			Voices:  cfg.Synthesis.Edge.Voices,
			Prosody: prosody,
			TempDir: cfg.Paths.Temp,
		}, exec, log)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.Cache.Enabled {
		return synth, nil
	}
	return Cached(synth, cfg.Cache.Dir, cfg.Cache.CompressionLevel, log)
}
