package recognizer

import (
	"github.com/nguyentantai21042004/narration-flow/internal/config"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/pkg/executor"
)

// New builds the configured recognition backend.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Recognizer {
	switch cfg.Recognition.Backend {
	case config.BackendWhisper:
		return NewWhisper(WhisperOptions{
			BinaryPath: cfg.Recognition.Whisper.BinaryPath,
			Models:     cfg.Recognition.Whisper.Models,
			Threads:    cfg.Recognition.Whisper.Threads,
			TempDir:    cfg.Paths.Temp,
		}, exec, log)
	default:
		return NewVosk(VoskOptions{
			Servers:       cfg.Recognition.Vosk.Servers,
			ChunkDuration: cfg.Recognition.ChunkDuration,
		}, log)
	}
}
