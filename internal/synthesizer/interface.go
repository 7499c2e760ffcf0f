package synthesizer

import (
	"context"

	"github.com/nguyentantai21042004/narration-flow/internal/language"
)

// Request is one narration string and the language whose voice reads it.
type Request struct {
	Text     string
	Language language.Code
}

// Synthesizer renders narration text to an audio file.
// A failed call is reported once and never retried.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request, outPath string) error
	// Format is the container the backend writes: "mp3" or "wav".
	Format() string
}
