package subtitle

import (
	"fmt"
	"math"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

// Segment groups recognizer chunks into cues according to mode.
func Segment(chunks []Chunk, mode Mode) ([]Cue, error) {
	switch m := mode.(type) {
	case FixedWindow:
		return SegmentFixed(Flatten(chunks), m.Duration)
	case Natural:
		if err := validateWords(Flatten(chunks)); err != nil {
			return nil, err
		}
		return SegmentNatural(chunks), nil
	default:
		return nil, apperr.Validation("unknown segmentation mode %T", mode)
	}
}

// SegmentFixed partitions words into cues on a fixed grid of window seconds.
//
// A cue is closed when a word starts at or after segmentStart+window, and the
// grid then advances by exactly window regardless of where that word starts.
// After a long silence the next cue therefore starts on the grid, possibly
// well before its first word.
func SegmentFixed(words []WordTiming, window float64) ([]Cue, error) {
	if math.IsNaN(window) || math.IsInf(window, 0) || window <= 0 {
		return nil, apperr.Validation("segment window must be a positive number of seconds, got %v", window)
	}
	if err := validateWords(words); err != nil {
		return nil, err
	}

	cues := []Cue{}
	segmentStart := 0.0
	var buf []WordTiming

	for _, w := range words {
		if w.Start >= segmentStart+window && len(buf) > 0 {
			cues = append(cues, newCue(len(cues)+1, segmentStart, buf))
			segmentStart += window
			buf = buf[:0]
		}
		buf = append(buf, w)
	}
	if len(buf) > 0 {
		cues = append(cues, newCue(len(cues)+1, segmentStart, buf))
	}

	return cues, nil
}

// SegmentNatural emits one cue per non-empty chunk using the chunk's first
// start and last end verbatim.
func SegmentNatural(chunks []Chunk) []Cue {
	cues := []Cue{}
	for _, c := range chunks {
		if len(c.Words) == 0 {
			continue
		}
		cues = append(cues, newCue(len(cues)+1, c.Words[0].Start, c.Words))
	}
	return cues
}

func newCue(index int, start float64, words []WordTiming) Cue {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Word
	}
	return Cue{
		Index: index,
		Start: start,
		End:   words[len(words)-1].End,
		Text:  strings.Join(texts, " "),
	}
}

func validateWords(words []WordTiming) error {
	for i, w := range words {
		if !finite(w.Start) || !finite(w.End) || w.Start < 0 || w.End < w.Start {
			return apperr.Validation("word %d %q has invalid timing [%v, %v]", i, w.Word, w.Start, w.End)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// String renders a cue for logs.
func (c Cue) String() string {
	return fmt.Sprintf("#%d [%s --> %s] %s", c.Index, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Text)
}
