package executor

import "context"

// Executor runs external tools such as ffmpeg, edge-tts and whisper-cli.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
	LookPath(name string) (string, error)
}
