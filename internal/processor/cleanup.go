package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

// moveToArchived moves a processed document out of the input folder.
// Documents outside the input folder stay where they are.
func (p *implProcessor) moveToArchived(ctx context.Context, log logger.Logger, docPath string) error {
	if p.cfg.Paths.Archived == "" || !within(p.cfg.Paths.Input, docPath) {
		return nil
	}

	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(docPath))

	log.Info(ctx, "Moving to archived folder: %s -> %s", docPath, destPath)
	if err := os.Rename(docPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}
