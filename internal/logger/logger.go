package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type implLogger struct {
	logger *log.Logger
}

// Options configures a Logger.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text, json, logfmt
	Output io.Writer // defaults to stderr
}

// New creates a text Logger writing to stderr at the given level
func New(level string) Logger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions creates a Logger; unknown levels fall back to info.
func NewWithOptions(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	lvl, err := log.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		lvl = log.InfoLevel
	}

	l := log.NewWithOptions(out, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Formatter:       formatter(opts.Format),
	})

	return &implLogger{logger: l}
}

func formatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Errorf(msg, args...)
}

func (l *implLogger) With(keyvals ...interface{}) Logger {
	return &implLogger{logger: l.logger.With(keyvals...)}
}
