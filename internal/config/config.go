package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Narration   NarrationConfig   `yaml:"narration"`
	Synthesis   SynthesisConfig   `yaml:"synthesis"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Subtitles   SubtitlesConfig   `yaml:"subtitles"`
	Video       VideoConfig       `yaml:"video"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Cache       CacheConfig       `yaml:"cache"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type PathsConfig struct {
	Input    string `yaml:"input" env:"NARRATE_INPUT_DIR"`
	Output   string `yaml:"output" env:"NARRATE_OUTPUT_DIR"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type ExtractionConfig struct {
	ChapterLanguage   string   `yaml:"chapter_language"`
	MinLength         int      `yaml:"min_length"`
	SaveTranscript    bool     `yaml:"save_transcript"`
	TranscriptFormats []string `yaml:"transcript_formats"`
}

type NarrationConfig struct {
	// Language bypasses detection when set ("es" or "en").
	Language string  `yaml:"language" env:"NARRATE_LANGUAGE"`
	Pace     float64 `yaml:"pace"`
	Volume   float64 `yaml:"volume"`
}

type SynthesisConfig struct {
	Backend string       `yaml:"backend" env:"NARRATE_SYNTHESIS_BACKEND"`
	Edge    EdgeConfig   `yaml:"edge"`
	Gemini  GeminiConfig `yaml:"gemini"`
}

type EdgeConfig struct {
	Binary string            `yaml:"binary"`
	Voices map[string]string `yaml:"voices"`
}

type GeminiConfig struct {
	APIKey            string            `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model             string            `yaml:"model"`
	Voices            map[string]string `yaml:"voices"`
	RequestsPerMinute int               `yaml:"requests_per_minute"`
}

type RecognitionConfig struct {
	Backend string `yaml:"backend" env:"NARRATE_RECOGNITION_BACKEND"`
	// ChunkDuration is the seconds of audio sent per recognizer call.
	ChunkDuration float64 `yaml:"chunk_duration"`
	// Language overrides the narration language for recognition.
	Language string        `yaml:"language"`
	Vosk     VoskConfig    `yaml:"vosk"`
	Whisper  WhisperConfig `yaml:"whisper"`
}

type VoskConfig struct {
	// Servers maps a language code to a vosk-server websocket URL.
	Servers map[string]string `yaml:"servers"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	// Models maps a language code to a ggml model file.
	Models  map[string]string `yaml:"models"`
	Threads int               `yaml:"threads"`
}

type SubtitlesConfig struct {
	// Window is the fixed cue length in seconds; 0 selects natural segmentation.
	Window *float64 `yaml:"window" env:"NARRATE_SUBTITLE_WINDOW"`
}

type VideoConfig struct {
	Enabled          bool    `yaml:"enabled"`
	BackgroundImage  string  `yaml:"background_image"`
	BackgroundMusic  string  `yaml:"background_music"`
	BackgroundVolume float64 `yaml:"background_volume"`
	FPS              int     `yaml:"fps"`
	Title            string  `yaml:"title"`
	Font             string  `yaml:"font"`
}

type FFmpegConfig struct {
	Binary     string `yaml:"binary"`
	Encoder    string `yaml:"encoder"`
	Preset     string `yaml:"preset"`
	AudioCodec string `yaml:"audio_codec"`
	SampleRate int    `yaml:"sample_rate"`
}

type CacheConfig struct {
	Enabled          bool   `yaml:"enabled" env:"NARRATE_CACHE"`
	Dir              string `yaml:"dir"`
	CompressionLevel int    `yaml:"compression_level"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"NARRATE_LOG_LEVEL"`
	Format string `yaml:"format" env:"NARRATE_LOG_FORMAT"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads a YAML config file, applies environment overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(&cfg)
}

// Default returns a validated configuration with the standard data/ layout.
func Default() (*Config, error) {
	return finish(&Config{
		Paths: PathsConfig{Input: "data/input", Output: "data/output"},
	})
}

func finish(cfg *Config) (*Config, error) {
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expandPaths() error {
	paths := []*string{
		&c.Paths.Input, &c.Paths.Output, &c.Paths.Archived, &c.Paths.Temp,
		&c.Cache.Dir, &c.Video.BackgroundImage, &c.Video.BackgroundMusic,
		&c.Recognition.Whisper.BinaryPath,
	}
	for _, p := range paths {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand path %s: %w", *p, err)
		}
		*p = expanded
	}
	for lang, p := range c.Recognition.Whisper.Models {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return fmt.Errorf("expand path %s: %w", p, err)
		}
		c.Recognition.Whisper.Models[lang] = expanded
	}
	return nil
}

// SegmentWindow returns the configured cue window in seconds.
func (c *Config) SegmentWindow() float64 {
	if c.Subtitles.Window == nil {
		return DefaultWindow
	}
	return *c.Subtitles.Window
}

const (
	DefaultWindow = 4.0

	BackendEdge    = "edge"
	BackendGemini  = "gemini"
	BackendVosk    = "vosk"
	BackendWhisper = "whisper"
)

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return apperr.Validation("paths.input is required")
	}
	if c.Paths.Output == "" {
		return apperr.Validation("paths.output is required")
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Extraction.ChapterLanguage == "" {
		c.Extraction.ChapterLanguage = "es"
	}
	if c.Extraction.MinLength == 0 {
		c.Extraction.MinLength = 3
	}
	if len(c.Extraction.TranscriptFormats) == 0 {
		c.Extraction.TranscriptFormats = []string{"txt"}
	}
	if c.Narration.Pace == 0 {
		c.Narration.Pace = 1.15
	}
	if c.Narration.Volume == 0 {
		c.Narration.Volume = 1.0
	}
	if c.Synthesis.Backend == "" {
		c.Synthesis.Backend = BackendEdge
	}
	if c.Synthesis.Edge.Binary == "" {
		c.Synthesis.Edge.Binary = "edge-tts"
	}
	if c.Synthesis.Gemini.Model == "" {
		c.Synthesis.Gemini.Model = "gemini-2.5-flash-preview-tts"
	}
	if c.Synthesis.Gemini.RequestsPerMinute == 0 {
		c.Synthesis.Gemini.RequestsPerMinute = 10
	}
	if c.Recognition.Backend == "" {
		c.Recognition.Backend = BackendVosk
	}
	if c.Recognition.ChunkDuration == 0 {
		c.Recognition.ChunkDuration = 1.0
	}
	if c.Recognition.Whisper.BinaryPath == "" {
		c.Recognition.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Recognition.Whisper.Threads == 0 {
		c.Recognition.Whisper.Threads = 8
	}
	if c.Subtitles.Window == nil {
		w := DefaultWindow
		c.Subtitles.Window = &w
	}
	if c.Video.BackgroundVolume == 0 {
		c.Video.BackgroundVolume = 0.3
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 12
	}
	if c.Video.Title == "" {
		c.Video.Title = "Sample Content"
	}
	if c.Video.Font == "" {
		c.Video.Font = "Arial"
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.Encoder == "" {
		c.FFmpeg.Encoder = "libx264"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "aac"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "data/cache"
	}
	if c.Cache.CompressionLevel == 0 {
		c.Cache.CompressionLevel = 3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return c.checkRanges()
}

func (c *Config) checkRanges() error {
	if !(c.Narration.Pace > 0 && c.Narration.Pace < 2) {
		return apperr.Validation("narration.pace must be between 0 and 2, got %v", c.Narration.Pace)
	}
	if !(c.Narration.Volume > 0 && c.Narration.Volume < 2) {
		return apperr.Validation("narration.volume must be between 0 and 2, got %v", c.Narration.Volume)
	}
	if err := checkLanguage("narration.language", c.Narration.Language); err != nil {
		return err
	}
	if err := checkLanguage("recognition.language", c.Recognition.Language); err != nil {
		return err
	}
	switch c.Synthesis.Backend {
	case BackendEdge, BackendGemini:
	default:
		return apperr.Validation("synthesis.backend must be %q or %q, got %q", BackendEdge, BackendGemini, c.Synthesis.Backend)
	}
	switch c.Recognition.Backend {
	case BackendVosk, BackendWhisper:
	default:
		return apperr.Validation("recognition.backend must be %q or %q, got %q", BackendVosk, BackendWhisper, c.Recognition.Backend)
	}
	if !(c.Recognition.ChunkDuration > 0) {
		return apperr.Validation("recognition.chunk_duration must be positive, got %v", c.Recognition.ChunkDuration)
	}
	if w := *c.Subtitles.Window; !(w >= 0) {
		return apperr.Validation("subtitles.window must be zero or positive, got %v", w)
	}
	if c.Video.BackgroundVolume < 0 {
		return apperr.Validation("video.background_volume must not be negative")
	}
	if c.Video.Enabled && c.Video.BackgroundImage == "" {
		return apperr.Validation("video.background_image is required when video is enabled")
	}
	for _, f := range c.Extraction.TranscriptFormats {
		if f != "txt" && f != "docx" {
			return apperr.Validation("extraction.transcript_formats: unknown format %q", f)
		}
	}
	if c.Performance.MaxConcurrent < 0 {
		return apperr.Validation("performance.max_concurrent must not be negative")
	}
	return nil
}

func checkLanguage(field, code string) error {
	switch code {
	case "", "es", "en":
		return nil
	}
	return apperr.Validation("%s must be 'es' or 'en', got %q", field, code)
}
