package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	accept        func(path string) bool
	settle        time.Duration
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// Start blocks handling new documents in the input folder until ctx is done.
// Documents already being processed are allowed to finish.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isDocument(event.Name) {
				w.logger.Debug(ctx, "Ignoring unsupported file: %s", event.Name)
				continue
			}
			w.logger.Info(ctx, "New document detected: %s", event.Name)

			// Acquire semaphore slot (blocks if max concurrent reached)
			select {
			case w.semaphore <- struct{}{}:
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

			w.wg.Add(1)
			go func(filePath string) {
				defer w.wg.Done()
				defer func() { <-w.semaphore }()

				// Give the writer time to finish the file
				if !w.wait(ctx) {
					return
				}
				if err := w.handler(ctx, filePath); err != nil {
					w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
				}
			}(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) wait(ctx context.Context) bool {
	if w.settle == 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(w.settle)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// isDocument skips hidden and partially downloaded files.
func (w *implWatcher) isDocument(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".crdownload") {
		return false
	}
	return w.accept(path)
}
