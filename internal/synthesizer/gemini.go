package synthesizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/audio"
	"github.com/nguyentantai21042004/narration-flow/internal/language"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

// Gemini TTS returns raw 16-bit mono PCM at this rate unless the MIME type says otherwise.
const geminiSampleRate = 24000

// GeminiOptions configures the Gemini speech generation backend.
type GeminiOptions struct {
	APIKey            string
	Model             string
	Voices            map[string]string
	RequestsPerMinute int
}

// contentGenerator is the part of *genai.Models the backend calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiSynthesizer struct {
	models  contentGenerator
	model   string
	voices  voiceTable
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewGemini creates a Synthesizer backed by the Gemini API.
func NewGemini(ctx context.Context, opts GeminiOptions, log logger.Logger) (Synthesizer, error) {
	if opts.APIKey == "" {
		return nil, apperr.Validation("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return newGemini(client.Models, opts, log), nil
}

func newGemini(models contentGenerator, opts GeminiOptions, log logger.Logger) *geminiSynthesizer {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash-preview-tts"
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 10
	}
	return &geminiSynthesizer{
		models:  models,
		model:   opts.Model,
		voices:  newVoiceTable(DefaultGeminiVoices, opts.Voices),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1),
		logger:  log,
	}
}

func (s *geminiSynthesizer) Format() string { return "wav" }

func (s *geminiSynthesizer) identity(lang language.Code) string {
	return "gemini|" + s.model + "|" + s.voices.voice(lang)
}

func (s *geminiSynthesizer) Synthesize(ctx context.Context, req Request, outPath string) error {
	if strings.TrimSpace(req.Text) == "" {
		return apperr.Validation("narration text is empty")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	voice := s.voices.voice(req.Language)
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	s.logger.Debug(ctx, "Requesting %s speech for %d characters with voice %s", s.model, len(req.Text), voice)
	result, err := s.models.GenerateContent(ctx, s.model, genai.Text(req.Text), config)
	if err != nil {
		return apperr.Upstream("gemini", err)
	}

	pcm, sampleRate, err := audioPayload(result)
	if err != nil {
		return apperr.Upstream("gemini", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	if err := os.WriteFile(outPath, audio.EncodeWAV(pcm, audio.MonoPCM16(sampleRate)), 0644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}

// audioPayload concatenates the inline PCM parts of the first candidate.
func audioPayload(result *genai.GenerateContentResponse) ([]byte, uint32, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, 0, fmt.Errorf("empty response from Gemini")
	}

	var (
		pcm        []byte
		sampleRate uint32 = geminiSampleRate
	)
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		if r, ok := mimeSampleRate(part.InlineData.MIMEType); ok {
			sampleRate = r
		}
		pcm = append(pcm, part.InlineData.Data...)
	}
	if len(pcm) == 0 {
		return nil, 0, fmt.Errorf("response carried no audio")
	}
	return pcm, sampleRate, nil
}

// mimeSampleRate reads the rate parameter of e.g. "audio/L16;codec=pcm;rate=24000".
func mimeSampleRate(mime string) (uint32, bool) {
	for _, param := range strings.Split(mime, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || key != "rate" {
			continue
		}
		r, err := strconv.ParseUint(value, 10, 32)
		if err != nil || r == 0 {
			return 0, false
		}
		return uint32(r), true
	}
	return 0, false
}
