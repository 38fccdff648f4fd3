package cli

import (
	"context"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-booktrans/internal/config"
	"github.com/alnah/go-booktrans/internal/merge"
	"github.com/alnah/go-booktrans/internal/segment"
	"github.com/alnah/go-booktrans/internal/sheet"
	"github.com/alnah/go-booktrans/internal/token"
	"github.com/alnah/go-booktrans/internal/translate"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader      ConfigLoader
	CounterFactory    CounterFactory
	TranslatorFactory TranslatorFactory
	ConverterFactory  ConverterFactory
	Merger            Merger
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// CounterFactory creates token counters for a target model.
// Unknown models fail here, before any file is read.
type CounterFactory interface {
	NewCounter(model string) (segment.TokenCounter, error)
}

// TranslatorFactory creates chunk translators.
type TranslatorFactory interface {
	NewTranslator(apiKey, model string, maxRetries int) translate.Translator
}

// Converter converts a workbook into a page-annotated text document.
type Converter interface {
	Convert(xlsxPath, outputPath string) error
}

// ConverterFactory creates workbook converters.
type ConverterFactory interface {
	NewConverter(title, sheetName string) Converter
}

// Merger merges a source document and its translation into a bilingual file.
type Merger interface {
	Merge(ctx context.Context, arabicPath, englishPath, outputPath string) error
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithCounterFactory sets the token counter factory.
func WithCounterFactory(f CounterFactory) EnvOption {
	return func(e *Env) {
		e.CounterFactory = f
	}
}

// WithTranslatorFactory sets the translator factory.
func WithTranslatorFactory(f TranslatorFactory) EnvOption {
	return func(e *Env) {
		e.TranslatorFactory = f
	}
}

// WithConverterFactory sets the workbook converter factory.
func WithConverterFactory(f ConverterFactory) EnvOption {
	return func(e *Env) {
		e.ConverterFactory = f
	}
}

// WithMerger sets the bilingual merger.
func WithMerger(m Merger) EnvOption {
	return func(e *Env) {
		e.Merger = m
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:            os.Stderr,
		Getenv:            os.Getenv,
		ConfigLoader:      &defaultConfigLoader{},
		CounterFactory:    &defaultCounterFactory{},
		TranslatorFactory: &defaultTranslatorFactory{},
		ConverterFactory:  &defaultConverterFactory{},
		Merger:            &defaultMerger{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultCounterFactory implements CounterFactory using tiktoken.
type defaultCounterFactory struct{}

func (defaultCounterFactory) NewCounter(model string) (segment.TokenCounter, error) {
	return token.NewCounter(model)
}

// defaultTranslatorFactory implements TranslatorFactory using OpenAI.
type defaultTranslatorFactory struct{}

func (defaultTranslatorFactory) NewTranslator(apiKey, model string, maxRetries int) translate.Translator {
	client := openai.NewClient(apiKey)
	return translate.NewClient(client, model, translate.WithMaxRetries(maxRetries))
}

// defaultConverterFactory implements ConverterFactory using the sheet package.
type defaultConverterFactory struct{}

func (defaultConverterFactory) NewConverter(title, sheetName string) Converter {
	return sheet.NewConverter(sheet.WithTitle(title), sheet.WithSheet(sheetName))
}

// defaultMerger implements Merger using the merge package.
type defaultMerger struct{}

func (defaultMerger) Merge(ctx context.Context, arabicPath, englishPath, outputPath string) error {
	return merge.Files(ctx, arabicPath, englishPath, outputPath)
}
