package recognizer

import (
	"context"

	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/subtitle"
)

// Recognizer produces word timings for a mono 16-bit PCM WAV file.
// Each returned chunk is one utterance as segmented by the backend.
type Recognizer interface {
	Recognize(ctx context.Context, wavPath string, lang language.Code) ([]subtitle.Chunk, error)
}
