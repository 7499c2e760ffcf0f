package composer

import "context"

// Input names the files of one narrated video.
type Input struct {
	AudioPath string
	// SubtitlePath is optional; cues are burned in upper case.
	SubtitlePath string
	// Title is optional text drawn at the bottom of the frame.
	Title      string
	OutputPath string
}

// Composer renders a still image, narration audio and subtitles into a video.
type Composer interface {
	Compose(ctx context.Context, in Input) error
}
