package watcher

import "context"

// Watcher monitors the input folder for new documents
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once for every new document
type EventHandler func(ctx context.Context, filePath string) error
