package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-booktrans/internal/segment"
	"github.com/alnah/go-booktrans/internal/translate"
)

// Default flag values for the translate command.
const (
	defaultRetries = 3
	defaultDelay   = 2 * time.Second
)

// TranslateCmd creates the translate command.
// The env parameter provides injectable dependencies for testing.
func TranslateCmd(env *Env) *cobra.Command {
	var (
		output  string
		model   string
		budget  int
		delay   time.Duration
		retries int
	)

	cmd := &cobra.Command{
		Use:   "translate <book.txt>",
		Short: "Translate a page-annotated document from Arabic to English",
		Long: `Translate a page-annotated text document using OpenAI's chat API.

The document is split into token-bounded chunks at page, paragraph, and
sentence boundaries, each chunk is translated in order, and the joined
translation is written in a single pass at the end. A chunk that still
fails after retries is skipped with a warning; the run continues.

Requires OPENAI_API_KEY (a .env file in the working directory is read).`,
		Example: `  booktrans translate kafiah.txt
  booktrans translate kafiah.txt -o kafiah_english.txt -m gpt-4o-mini
  booktrans translate kafiah.txt --budget 1500 --delay 5s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, env, args[0], output, model, budget, delay, retries)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>_english.txt)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "OpenAI model (default: config, then OPENAI_MODEL, then gpt-3.5-turbo)")
	cmd.Flags().IntVar(&budget, "budget", segment.DefaultBudget, "Max tokens per chunk")
	cmd.Flags().DurationVar(&delay, "delay", defaultDelay, "Pause after each translation call")
	cmd.Flags().IntVar(&retries, "retries", defaultRetries, "Max retries per chunk on transient errors")

	return cmd
}

// runTranslate executes the translation pipeline.
// Validation order: file exists -> config -> API key -> model/tokenizer.
func runTranslate(cmd *cobra.Command, env *Env, inputPath, output, model string, budget int, delay time.Duration, retries int) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. File exists
	if err := requireFile(inputPath); err != nil {
		return err
	}

	// 2. Config (model precedence: flag > config file > env > default)
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}
	if model == "" {
		model = cfg.Model
	}

	// 3. API key present
	apiKey := env.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export OPENAI_API_KEY=sk-...)", ErrAPIKeyMissing)
	}

	// 4. Tokenizer known for the model (fails before any network call)
	counter, err := env.CounterFactory.NewCounter(model)
	if err != nil {
		return err
	}

	// === PIPELINE ===

	segmenter, err := segment.New(counter, segment.WithBudget(budget))
	if err != nil {
		return err
	}

	translator := env.TranslatorFactory.NewTranslator(apiKey, model, retries)

	book, err := translate.NewBook(translator, segmenter,
		translate.WithDelay(delay),
		translate.WithProgress(func(chunk segment.Chunk, total int) {
			fmt.Fprintf(env.Stderr, "Translating chunk %d/%d (%d tokens)\n",
				chunk.Index+1, total, chunk.Tokens)
		}),
		translate.WithWarn(func(msg string) {
			fmt.Fprintln(env.Stderr, msg)
		}),
	)
	if err != nil {
		return err
	}

	outputPath := resolveOutput(output, cfg.OutputDir, deriveTranslatedPath(inputPath))

	stats, err := book.Translate(ctx, inputPath, outputPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Translated %d/%d chunks (%d failed). Output saved to %s\n",
		stats.Translated, stats.Chunks, stats.Failed, outputPath)
	return nil
}
