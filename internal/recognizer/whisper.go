package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/audio"
	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/internal/subtitle"
	"github.com/nguyentantai21042004/narration-flow/pkg/executor"
)

// WhisperOptions configures the whisper.cpp command line backend.
type WhisperOptions struct {
	BinaryPath string
	// Models maps a language code to a ggml model file.
	Models  map[string]string
	Threads int
	TempDir string
}

type whisperRecognizer struct {
	binaryPath string
	models     map[string]string
	threads    int
	tempDir    string
	executor   executor.Executor
	logger     logger.Logger
}

// NewWhisper creates a Recognizer that runs whisper-cli with full JSON output.
func NewWhisper(opts WhisperOptions, exec executor.Executor, log logger.Logger) Recognizer {
	if opts.BinaryPath == "" {
		opts.BinaryPath = "whisper-cli"
	}
	if opts.Threads <= 0 {
		opts.Threads = 8
	}
	return &whisperRecognizer{
		binaryPath: opts.BinaryPath,
		models:     opts.Models,
		threads:    opts.Threads,
		tempDir:    opts.TempDir,
		executor:   exec,
		logger:     log,
	}
}

func (r *whisperRecognizer) Recognize(ctx context.Context, wavPath string, lang language.Code) ([]subtitle.Chunk, error) {
	model := r.models[string(lang)]
	if model == "" {
		return nil, apperr.ResourceMissing("no whisper model configured for language %q", lang)
	}
	if _, err := os.Stat(model); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ResourceMissing("whisper model not found at %s", model)
		}
		return nil, fmt.Errorf("stat model: %w", err)
	}

	f, _, err := audio.OpenMonoPCM16(wavPath)
	if err != nil {
		return nil, err
	}
	f.Close()

	if r.tempDir != "" {
		if err := os.MkdirAll(r.tempDir, 0755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	workDir, err := os.MkdirTemp(r.tempDir, "whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	outputPrefix := filepath.Join(workDir, "transcript")

	// -ojf writes token-level offsets to <prefix>.json
	args := []string{
		"-m", model,
		"-f", wavPath,
		"-l", string(lang),
		"-t", strconv.Itoa(r.threads),
		"-ojf",
		"-np",
		"--output-file", outputPrefix,
	}

	r.logger.Info(ctx, "Starting transcription with %d threads: %s", r.threads, filepath.Base(wavPath))
	if _, err := r.executor.Execute(ctx, r.binaryPath, args...); err != nil {
		return nil, apperr.Upstream("whisper", err)
	}

	data, err := os.ReadFile(outputPrefix + ".json")
	if err != nil {
		return nil, apperr.Upstream("whisper", fmt.Errorf("read output: %w", err))
	}

	chunks, err := parseWhisperJSON(data)
	if err != nil {
		return nil, apperr.Upstream("whisper", err)
	}
	return chunks, nil
}

type whisperOutput struct {
	Transcription []struct {
		Tokens []whisperToken `json:"tokens"`
	} `json:"transcription"`
}

type whisperToken struct {
	// Text stays raw: a token may end in the middle of a multi-byte character.
	Text    json.RawMessage `json:"text"`
	Offsets struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"offsets"`
}

// parseWhisperJSON merges sub-word tokens into words, one chunk per segment.
// A token opening with a space starts a new word; special tokens are dropped.
func parseWhisperJSON(data []byte) ([]subtitle.Chunk, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisper json: %w", err)
	}

	var chunks []subtitle.Chunk
	for _, seg := range out.Transcription {
		var (
			words []subtitle.WordTiming
			raw   []byte
			start int64
			end   int64
		)
		flush := func() error {
			if len(raw) == 0 {
				return nil
			}
			var text string
			if err := json.Unmarshal(append(append([]byte{'"'}, raw...), '"'), &text); err != nil {
				return fmt.Errorf("decode token text: %w", err)
			}
			if text = strings.TrimSpace(text); text != "" {
				words = append(words, subtitle.WordTiming{
					Word:  text,
					Start: float64(start) / 1000,
					End:   float64(end) / 1000,
				})
			}
			raw = raw[:0]
			return nil
		}

		for _, tok := range seg.Tokens {
			piece := bytes.TrimSuffix(bytes.TrimPrefix(tok.Text, []byte{'"'}), []byte{'"'})
			if bytes.HasPrefix(piece, []byte("[_")) && bytes.HasSuffix(piece, []byte("]")) {
				continue
			}
			if len(raw) == 0 || bytes.HasPrefix(piece, []byte{' '}) {
				if err := flush(); err != nil {
					return nil, err
				}
				start = tok.Offsets.From
			}
			raw = append(raw, piece...)
			end = tok.Offsets.To
		}
		if err := flush(); err != nil {
			return nil, err
		}

		if len(words) > 0 {
			chunks = append(chunks, subtitle.Chunk{Words: words})
		}
	}
	return chunks, nil
}
