package composer

import (
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/pkg/executor"
)

// Options mirrors the video and ffmpeg sections of the configuration.
type Options struct {
	FFmpegBinary     string
	Encoder          string
	Preset           string
	AudioCodec       string
	BackgroundImage  string
	BackgroundMusic  string
	BackgroundVolume float64
	FPS              int
	Font             string
	TempDir          string
}

type implComposer struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Composer instance
func New(opts Options, exec executor.Executor, log logger.Logger) Composer {
	if opts.FFmpegBinary == "" {
		opts.FFmpegBinary = "ffmpeg"
	}
	if opts.Encoder == "" {
		opts.Encoder = softwareEncoder
	}
	if opts.Preset == "" {
		opts.Preset = "medium"
	}
	if opts.AudioCodec == "" {
		opts.AudioCodec = "aac"
	}
	if opts.FPS <= 0 {
		opts.FPS = 12
	}
	if opts.Font == "" {
		opts.Font = "Arial"
	}
	return &implComposer{
		opts:     opts,
		executor: exec,
		logger:   log,
	}
}
