package cli_test

// Shared mocks for command-level tests. Each mock records the arguments
// it was called with so tests can assert on the wiring, not just the
// exit status.

import (
	"context"

	"github.com/alnah/go-booktrans/internal/cli"
	"github.com/alnah/go-booktrans/internal/config"
	"github.com/alnah/go-booktrans/internal/segment"
	"github.com/alnah/go-booktrans/internal/translate"
)

type mockConfigLoader struct {
	cfg config.Config
	err error
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	return m.cfg, m.err
}

// fieldCounter counts whitespace-separated fields; injected so the
// translate command never touches tiktoken.
type fieldCounter struct{}

func (fieldCounter) Count(text string) int {
	n := 0
	inField := false
	for _, r := range text {
		switch {
		case r == ' ' || r == '\n' || r == '\t':
			inField = false
		case !inField:
			inField = true
			n++
		}
	}
	return n
}

type mockCounterFactory struct {
	model string
	err   error
}

func (m *mockCounterFactory) NewCounter(model string) (segment.TokenCounter, error) {
	m.model = model
	if m.err != nil {
		return nil, m.err
	}
	return fieldCounter{}, nil
}

// echoTranslator returns its input prefixed with "EN: ".
type echoTranslator struct {
	calls int
}

func (e *echoTranslator) Translate(_ context.Context, text string) (string, error) {
	e.calls++
	return "EN: " + text, nil
}

type mockTranslatorFactory struct {
	apiKey     string
	model      string
	maxRetries int
	translator translate.Translator
}

func (m *mockTranslatorFactory) NewTranslator(apiKey, model string, maxRetries int) translate.Translator {
	m.apiKey = apiKey
	m.model = model
	m.maxRetries = maxRetries
	return m.translator
}

type mockConverter struct {
	xlsxPath   string
	outputPath string
	err        error
}

func (m *mockConverter) Convert(xlsxPath, outputPath string) error {
	m.xlsxPath = xlsxPath
	m.outputPath = outputPath
	return m.err
}

type mockConverterFactory struct {
	title     string
	sheetName string
	converter *mockConverter
}

func (m *mockConverterFactory) NewConverter(title, sheetName string) cli.Converter {
	m.title = title
	m.sheetName = sheetName
	return m.converter
}

type mockMerger struct {
	arabicPath  string
	englishPath string
	outputPath  string
	err         error
}

func (m *mockMerger) Merge(_ context.Context, arabicPath, englishPath, outputPath string) error {
	m.arabicPath = arabicPath
	m.englishPath = englishPath
	m.outputPath = outputPath
	return m.err
}
