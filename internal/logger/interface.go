package logger

import "context"

// Logger is the printf-style logger passed to every pipeline component.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})

	// With returns a logger that adds the key/value pairs to every entry.
	With(keyvals ...interface{}) Logger
}
