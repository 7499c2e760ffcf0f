package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

// DefaultSettle is how long a new file is left alone before it is handled.
const DefaultSettle = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Dir           string
	MaxConcurrent int
	// Settle is the delay between the create event and the handler call.
	Settle time.Duration
	// Accept reports whether a file should be handled; nil accepts everything.
	Accept func(path string) bool
}

// New creates a new Watcher instance with concurrency control
func New(opts Options, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(opts.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	}
	if opts.Accept == nil {
		opts.Accept = func(string) bool { return true }
	}

	return &implWatcher{
		inputDir:      opts.Dir,
		handler:       handler,
		accept:        opts.Accept,
		settle:        opts.Settle,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: opts.MaxConcurrent,
		semaphore:     make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
