// Package subtitle re-segments recognizer word timings into subtitle cues and
// reads and writes them as SRT.
package subtitle

// WordTiming is one recognized word with its offsets in seconds.
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Chunk is a recognizer-internal group of words, in chronological order.
type Chunk struct {
	Words []WordTiming `json:"result"`
}

// Cue is one subtitle entry. Index starts at 1.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns End - Start in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// Flatten concatenates the words of every chunk, preserving order.
func Flatten(chunks []Chunk) []WordTiming {
	n := 0
	for _, c := range chunks {
		n += len(c.Words)
	}
	words := make([]WordTiming, 0, n)
	for _, c := range chunks {
		words = append(words, c.Words...)
	}
	return words
}
