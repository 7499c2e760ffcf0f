package watcher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: "error", Output: io.Discard})
}

func htmlOnly(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".html")
}

func TestIsDocument(t *testing.T) {
	w := &implWatcher{accept: htmlOnly}

	tests := []struct {
		path string
		want bool
	}{
		{"/in/chapter.html", true},
		{"/in/CHAPTER.HTML", true},
		{"/in/.chapter.html", false},
		{"/in/chapter.html.part", false},
		{"/in/chapter.html.crdownload", false},
		{"/in/chapter.pdf", false},
	}
	for _, tt := range tests {
		if got := w.isDocument(tt.path); got != tt.want {
			t.Errorf("isDocument(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(Options{Dir: filepath.Join(t.TempDir(), "missing")}, nil, testLogger())
	if err == nil {
		t.Fatal("New() should fail for a missing directory")
	}
}

func TestStart(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)
	handler := func(ctx context.Context, path string) error {
		got <- path
		return nil
	}

	w, err := New(Options{Dir: dir, MaxConcurrent: 1, Settle: 10 * time.Millisecond, Accept: htmlOnly}, handler, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the event loop a moment to start.
	time.Sleep(50 * time.Millisecond)
	for _, name := range []string{"notes.pdf", ".hidden.html", "story.html"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case path := <-got:
		if filepath.Base(path) != "story.html" {
			t.Errorf("handled %s, want story.html", path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}

	select {
	case path := <-got:
		t.Errorf("unexpected extra event for %s", path)
	default:
	}
}
