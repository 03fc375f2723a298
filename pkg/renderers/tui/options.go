package tui

import (
	"io"
	"log/slog"
	"os"
)

// OutputFormat controls how Render serializes answers.
type OutputFormat string

const (
	// OutputFormatJSON emits the answer store as application/json.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one "label: answer" line per question.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the filler applies to messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// FileReader loads the bytes of a file chosen for a file question.
type FileReader func(path string) ([]byte, error)

// Option configures the TUI renderer and filler.
type Option func(*config)

type config struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	readFile     FileReader
	rounds       int
	logger       *slog.Logger
}

func newConfig(options []Option) config {
	cfg := config{
		outputFormat: OutputFormatPrettyText,
		theme:        Theme{ErrorPrefix: "! "},
		readFile:     os.ReadFile,
		rounds:       3,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(os.Stdout)
	}
	return cfg
}

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(cfg *config) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithOutputFormat selects the Render serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(cfg *config) {
		if format != "" {
			cfg.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

// WithFileReader replaces os.ReadFile for file questions.
func WithFileReader(fn FileReader) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.readFile = fn
		}
	}
}

// WithCorrectionRounds bounds how many times Fill re-asks invalid questions.
func WithCorrectionRounds(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.rounds = n
		}
	}
}

// WithLogger sets the logger used for reference data failures.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
