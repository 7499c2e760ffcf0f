package processor

import (
	"github.com/nguyentantai21042004/narration-flow/internal/composer"
	"github.com/nguyentantai21042004/narration-flow/internal/config"
	"github.com/nguyentantai21042004/narration-flow/internal/extractor"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
	"github.com/nguyentantai21042004/narration-flow/internal/recognizer"
	"github.com/nguyentantai21042004/narration-flow/internal/synthesizer"
	"github.com/nguyentantai21042004/narration-flow/pkg/executor"
)

// Dependencies are the collaborators behind each pipeline step.
type Dependencies struct {
	Executor    executor.Executor
	Extractor   extractor.Extractor
	Synthesizer synthesizer.Synthesizer
	Recognizer  recognizer.Recognizer
	Composer    composer.Composer
}

type implProcessor struct {
	cfg         *config.Config
	executor    executor.Executor
	extractor   extractor.Extractor
	synthesizer synthesizer.Synthesizer
	recognizer  recognizer.Recognizer
	composer    composer.Composer
	logger      logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Dependencies, log logger.Logger) Processor {
	return &implProcessor{
		cfg:         cfg,
		executor:    deps.Executor,
		extractor:   deps.Extractor,
		synthesizer: deps.Synthesizer,
		recognizer:  deps.Recognizer,
		composer:    deps.Composer,
		logger:      log,
	}
}
