package synthesizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"

	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

// identifier is implemented by backends whose output depends on more than the text.
type identifier interface {
	identity(lang language.Code) string
}

type cachedSynthesizer struct {
	inner   Synthesizer
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  logger.Logger
}

// Cached wraps inner with a content-addressed, zstd-compressed disk cache.
// Identical text, language, voice and prosody reuse the stored audio.
func Cached(inner Synthesizer, dir string, level int, log logger.Logger) (Synthesizer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if level <= 0 {
		level = 3
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &cachedSynthesizer{
		inner:   inner,
		dir:     dir,
		encoder: encoder,
		decoder: decoder,
		logger:  log,
	}, nil
}

func (c *cachedSynthesizer) Format() string { return c.inner.Format() }

func (c *cachedSynthesizer) key(req Request) string {
	id := c.inner.Format()
	if ider, ok := c.inner.(identifier); ok {
		id = ider.identity(req.Language)
	}
	hash := sha256.Sum256([]byte(id + "\x00" + string(req.Language) + "\x00" + req.Text))
	return hex.EncodeToString(hash[:])
}

func (c *cachedSynthesizer) entryPath(key string) string {
	return filepath.Join(c.dir, key[:2], key+"."+c.inner.Format()+".zst")
}

func (c *cachedSynthesizer) Synthesize(ctx context.Context, req Request, outPath string) error {
	entry := c.entryPath(c.key(req))

	if compressed, err := os.ReadFile(entry); err == nil {
		data, err := c.decoder.DecodeAll(compressed, nil)
		if err == nil {
			if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
				return fmt.Errorf("create audio dir: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}
			c.logger.Info(ctx, "Synthesis cache hit (%s)", humanize.Bytes(uint64(len(data))))
			return nil
		}
		c.logger.Warn(ctx, "Discarding corrupt cache entry %s: %v", filepath.Base(entry), err)
	} else if !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn(ctx, "Failed to read cache entry: %v", err)
	}

	if err := c.inner.Synthesize(ctx, req, outPath); err != nil {
		return err
	}

	if err := c.store(entry, outPath); err != nil {
		c.logger.Warn(ctx, "Failed to cache synthesized audio: %v", err)
	}
	return nil
}

// store compresses outPath into entry through a temp file and rename.
func (c *cachedSynthesizer) store(entry, outPath string) error {
	data, err := os.ReadFile(outPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(entry), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(entry), ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(c.encoder.EncodeAll(data, nil)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), entry)
}
