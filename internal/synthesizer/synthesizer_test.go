package synthesizer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/audio"
	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: "error", Output: io.Discard})
}

// fakeExecutor records the last command and writes a stub file to --write-media.
type fakeExecutor struct {
	name string
	args []string
	text string
	err  error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.name, f.args = name, args
	if f.err != nil {
		return "", f.err
	}
	for i, a := range args {
		switch a {
		case "--file":
			data, _ := os.ReadFile(args[i+1])
			f.text = string(data)
		case "--write-media":
			if err := os.WriteFile(args[i+1], []byte("ID3 fake mp3"), 0644); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func (f *fakeExecutor) LookPath(name string) (string, error) { return name, nil }

func TestProsody(t *testing.T) {
	tests := []struct {
		name       string
		prosody    Prosody
		wantErr    bool
		wantRate   int
		wantVolume int
	}{
		{"default", DefaultProsody(), false, 15, 0},
		{"slower and quieter", Prosody{Pace: 0.8, Volume: 0.5}, false, -20, -50},
		{"near upper bound", Prosody{Pace: 1.99, Volume: 1.5}, false, 99, 50},
		{"edges stay below a full percent swing", Prosody{Pace: 1.996, Volume: 0.004}, false, 99, -99},
		{"pace zero", Prosody{Pace: 0, Volume: 1}, true, 0, 0},
		{"pace two", Prosody{Pace: 2, Volume: 1}, true, 0, 0},
		{"volume negative", Prosody{Pace: 1, Volume: -1}, true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prosody.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Errorf("Validate() error %v is not a validation error", err)
				}
				return
			}
			if got := tt.prosody.RatePercent(); got != tt.wantRate {
				t.Errorf("RatePercent() = %d, want %d", got, tt.wantRate)
			}
			if got := tt.prosody.VolumePercent(); got != tt.wantVolume {
				t.Errorf("VolumePercent() = %d, want %d", got, tt.wantVolume)
			}
		})
	}
}

func TestEdgeSynthesize(t *testing.T) {
	exec := &fakeExecutor{}
	synth, err := NewEdge(EdgeOptions{Prosody: DefaultProsody(), TempDir: t.TempDir()}, exec, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "audio", "story.mp3")
	req := Request{Text: ". . . Hola mundo. . .", Language: language.Spanish}
	if err := synth.Synthesize(context.Background(), req, out); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if exec.name != "edge-tts" {
		t.Errorf("binary = %q, want edge-tts", exec.name)
	}
	joined := strings.Join(exec.args, " ")
	for _, want := range []string{"--voice es-MX-DaliaNeural", "--rate=+15%", "--volume=+0%", "--write-media " + out} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if exec.text != req.Text {
		t.Errorf("text file = %q, want %q", exec.text, req.Text)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if synth.Format() != "mp3" {
		t.Errorf("Format() = %q", synth.Format())
	}
}

func TestEdgeVoiceSelection(t *testing.T) {
	exec := &fakeExecutor{}
	synth, err := NewEdge(EdgeOptions{
		Prosody: Prosody{Pace: 0.9, Volume: 1.2},
		Voices:  map[string]string{"en": "en-GB-SoniaNeural", "fr": "ignored"},
		TempDir: t.TempDir(),
	}, exec, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "a.mp3")
	if err := synth.Synthesize(context.Background(), Request{Text: "Hello there", Language: "de"}, out); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(exec.args, " ")
	for _, want := range []string{"--voice en-GB-SoniaNeural", "--rate=-10%", "--volume=+20%"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

func TestEdgeErrors(t *testing.T) {
	t.Run("invalid prosody", func(t *testing.T) {
		_, err := NewEdge(EdgeOptions{Prosody: Prosody{Pace: 3, Volume: 1}}, &fakeExecutor{}, testLogger())
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("NewEdge() error = %v, want validation error", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		synth, _ := NewEdge(EdgeOptions{Prosody: DefaultProsody()}, &fakeExecutor{}, testLogger())
		err := synth.Synthesize(context.Background(), Request{Text: "  ", Language: language.English}, filepath.Join(t.TempDir(), "x.mp3"))
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Synthesize() error = %v, want validation error", err)
		}
	})

	t.Run("command failure is upstream", func(t *testing.T) {
		exec := &fakeExecutor{err: errors.New("network unreachable")}
		synth, _ := NewEdge(EdgeOptions{Prosody: DefaultProsody(), TempDir: t.TempDir()}, exec, testLogger())
		err := synth.Synthesize(context.Background(), Request{Text: "Hello", Language: language.English}, filepath.Join(t.TempDir(), "x.mp3"))
		if !errors.Is(err, apperr.ErrUpstream) {
			t.Errorf("Synthesize() error = %v, want upstream error", err)
		}
	})
}

type fakeGenerator struct {
	calls  int
	model  string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model, f.config = model, config
	return f.resp, f.err
}

func audioResponse(mime string, chunks ...[]byte) *genai.GenerateContentResponse {
	var parts []*genai.Part
	for _, c := range chunks {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: c}})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGeminiSynthesize(t *testing.T) {
	gen := &fakeGenerator{resp: audioResponse("audio/L16;codec=pcm;rate=16000", []byte{1, 0, 2, 0}, []byte{3, 0})}
	synth := newGemini(gen, GeminiOptions{Voices: map[string]string{"es": "Aoede"}, RequestsPerMinute: 600}, testLogger())

	out := filepath.Join(t.TempDir(), "speech.wav")
	if err := synth.Synthesize(context.Background(), Request{Text: "Hola amigos", Language: language.Spanish}, out); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if gen.model != "gemini-2.5-flash-preview-tts" {
		t.Errorf("model = %q", gen.model)
	}
	if got := gen.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; got != "Aoede" {
		t.Errorf("voice = %q, want Aoede", got)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	info, err := audio.Inspect(f)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if err := info.RequireMonoPCM16(); err != nil {
		t.Error(err)
	}
	if info.SampleRate != 16000 || info.DataSize != 6 {
		t.Errorf("info = %+v", info)
	}
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"api failure", &fakeGenerator{err: errors.New("429 RESOURCE_EXHAUSTED")}},
		{"no candidates", &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{"no audio parts", &fakeGenerator{resp: audioResponse("audio/L16")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := newGemini(tt.gen, GeminiOptions{RequestsPerMinute: 600}, testLogger())
			err := synth.Synthesize(context.Background(), Request{Text: "Hello", Language: language.English}, filepath.Join(t.TempDir(), "x.wav"))
			if !errors.Is(err, apperr.ErrUpstream) {
				t.Errorf("Synthesize() error = %v, want upstream error", err)
			}
			if tt.gen.calls != 1 {
				t.Errorf("GenerateContent called %d times, want exactly 1", tt.gen.calls)
			}
		})
	}
}

func TestMimeSampleRate(t *testing.T) {
	tests := []struct {
		mime   string
		want   uint32
		wantOK bool
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000, true},
		{"audio/L16; rate=16000", 16000, true},
		{"audio/L16", 0, false},
		{"audio/L16;rate=abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := mimeSampleRate(tt.mime)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("mimeSampleRate(%q) = %d, %v; want %d, %v", tt.mime, got, ok, tt.want, tt.wantOK)
		}
	}
}

type countingSynthesizer struct {
	calls int
}

func (c *countingSynthesizer) Synthesize(ctx context.Context, req Request, outPath string) error {
	c.calls++
	return os.WriteFile(outPath, bytes.Repeat([]byte(req.Text), 100), 0644)
}

func (c *countingSynthesizer) Format() string { return "mp3" }

func TestCached(t *testing.T) {
	inner := &countingSynthesizer{}
	synth, err := Cached(inner, t.TempDir(), 3, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	req := Request{Text: "cached narration", Language: language.English}
	first := filepath.Join(dir, "first.mp3")
	second := filepath.Join(dir, "nested", "second.mp3")

	if err := synth.Synthesize(context.Background(), req, first); err != nil {
		t.Fatal(err)
	}
	if err := synth.Synthesize(context.Background(), req, second); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Error("cached audio differs from synthesized audio")
	}

	other := req
	other.Language = language.Spanish
	if err := synth.Synthesize(context.Background(), other, filepath.Join(dir, "third.mp3")); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("language change should miss the cache, calls = %d", inner.calls)
	}
	if synth.Format() != "mp3" {
		t.Errorf("Format() = %q", synth.Format())
	}
}

func TestCacheKeyIncludesProsody(t *testing.T) {
	fast, _ := NewEdge(EdgeOptions{Prosody: Prosody{Pace: 1.5, Volume: 1}}, &fakeExecutor{}, testLogger())
	slow, _ := NewEdge(EdgeOptions{Prosody: Prosody{Pace: 0.5, Volume: 1}}, &fakeExecutor{}, testLogger())

	dir := t.TempDir()
	a, _ := Cached(fast, dir, 1, testLogger())
	b, _ := Cached(slow, dir, 1, testLogger())

	req := Request{Text: "same text", Language: language.English}
	if a.(*cachedSynthesizer).key(req) == b.(*cachedSynthesizer).key(req) {
		t.Error("different prosody must produce different cache keys")
	}
}
