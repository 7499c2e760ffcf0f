package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProcessDir processes every supported document in dir, at most
// performance.max_concurrent at a time. Failed documents are logged and
// reported together once the batch has finished.
func (p *implProcessor) ProcessDir(ctx context.Context, dir string) error {
	docs, err := p.discoverDocuments(dir)
	if err != nil {
		return fmt.Errorf("discover documents: %w", err)
	}
	if len(docs) == 0 {
		p.logger.Info(ctx, "No documents found in %s", dir)
		return nil
	}

	p.logger.Info(ctx, "Found %d documents to process", len(docs))

	group := newBoundedGroup(p.cfg.Performance.MaxConcurrent)
	started := 0
	var stopErr error
	for i, doc := range docs {
		p.logger.Info(ctx, "[%d/%d] Processing: %s", i+1, len(docs), filepath.Base(doc))
		err := group.Go(ctx, func() error {
			if _, err := p.Process(ctx, doc); err != nil {
				p.logger.Error(ctx, "Failed to process %s: %v", doc, err)
				return fmt.Errorf("%s: %w", filepath.Base(doc), err)
			}
			return nil
		})
		if err != nil {
			stopErr = err
			break
		}
		started++
	}
	failed, err := group.Wait()

	p.logger.Info(ctx, "Batch complete: %d success, %d failed, %d not started", started-failed, failed, len(docs)-started)
	return errors.Join(err, stopErr)
}

func (p *implProcessor) discoverDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if p.extractor.Supports(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
