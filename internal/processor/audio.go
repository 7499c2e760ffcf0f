package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// convertToWAV resamples the narration to 16-bit mono PCM WAV for the recognizers.
func (p *implProcessor) convertToWAV(ctx context.Context, srcPath, wavPath string) error {
	if err := os.MkdirAll(filepath.Dir(wavPath), 0755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}

	// -vn: No video
	// -ar: Sample rate (16kHz suits both vosk and whisper)
	// -ac 1: Mono
	// -c:a pcm_s16le: PCM 16-bit little-endian
	args := []string{
		"-i", srcPath,
		"-vn",
		"-ar", strconv.Itoa(p.cfg.FFmpeg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.FFmpeg.Binary, args...); err != nil {
		return fmt.Errorf("ffmpeg convert audio: %w", err)
	}
	return nil
}
