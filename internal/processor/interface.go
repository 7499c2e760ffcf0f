package processor

import (
	"context"

	"github.com/nguyentantai21042004/narration-flow/internal/language"
)

// Processor turns documents into narration audio, subtitles and video.
type Processor interface {
	// Process runs the whole pipeline for one document.
	Process(ctx context.Context, docPath string) (*Result, error)
	// ProcessDir runs Process for every supported document in dir.
	ProcessDir(ctx context.Context, dir string) error
	// Narrate stops after the narration audio has been written.
	Narrate(ctx context.Context, docPath string) (*Result, error)
	// Subtitles writes an SRT file for a mono 16-bit PCM WAV.
	// An empty lang is guessed from the file name.
	Subtitles(ctx context.Context, wavPath string, lang language.Code, srtPath string) (int, error)
}

// Result lists what one pipeline run produced. Empty paths were skipped.
type Result struct {
	JobID        string
	Language     language.Code
	AudioPath    string
	WAVPath      string
	SubtitlePath string
	Cues         int
	VideoPath    string
	Transcripts  []string
}
