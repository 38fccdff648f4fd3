package translate

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-booktrans/internal/segment"
)

// defaultDelay is the pause after every attempted translation call,
// success or failure. Both outcomes consume the API rate limit.
const defaultDelay = 2 * time.Second

// headerRe matches the document header block at the very start of the
// input: a title and subtitle line wrapped in 80-"=" delimiter lines,
// as written by the sheet converter.
var headerRe = regexp.MustCompile(`(?s)^={80}\n.*?\n.*?\n={80}`)

// ProgressFunc reports a chunk about to be translated.
type ProgressFunc func(chunk segment.Chunk, total int)

// WarnFunc is a callback for warning messages during translation.
// Set to nil to suppress warnings.
type WarnFunc func(msg string)

// defaultWarnFunc writes warnings to stderr.
func defaultWarnFunc(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// Stats summarizes one book translation run.
type Stats struct {
	Chunks     int  // Total chunks produced by the segmenter.
	Translated int  // Chunks translated successfully.
	Failed     int  // Chunks skipped after retries were exhausted.
	Header     bool // Whether a document header was found and translated.
}

// Book orchestrates the translation of a whole document: it reads the
// input, segments it into token-bounded chunks, translates them in
// order, and writes the reassembled output in a single write at the end.
// A failed chunk is skipped with a warning; the pipeline never aborts on
// a per-chunk failure.
type Book struct {
	translator Translator
	segmenter  *segment.Segmenter
	delay      time.Duration
	progress   ProgressFunc
	warn       WarnFunc
}

// BookOption configures a Book.
type BookOption func(*Book)

// WithDelay sets the pause after each translation attempt.
// Zero disables throttling (used in tests).
func WithDelay(d time.Duration) BookOption {
	return func(b *Book) {
		if d >= 0 {
			b.delay = d
		}
	}
}

// WithProgress sets a callback invoked before each chunk is translated.
func WithProgress(fn ProgressFunc) BookOption {
	return func(b *Book) {
		b.progress = fn
	}
}

// WithWarn sets a callback for warning messages.
// By default, warnings are written to stderr. Set to nil to suppress.
func WithWarn(fn WarnFunc) BookOption {
	return func(b *Book) {
		b.warn = fn
	}
}

// NewBook creates a Book orchestrator around a translator and a segmenter.
func NewBook(translator Translator, segmenter *segment.Segmenter, opts ...BookOption) (*Book, error) {
	if translator == nil {
		return nil, fmt.Errorf("translator is required")
	}
	if segmenter == nil {
		return nil, fmt.Errorf("segmenter is required")
	}
	b := &Book{
		translator: translator,
		segmenter:  segmenter,
		delay:      defaultDelay,
		warn:       defaultWarnFunc,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Translate reads the document at inputPath, translates it chunk by
// chunk, and writes the joined translation to outputPath. The output is
// written once, after all chunks are processed; an interrupted run
// leaves no partial file.
func (b *Book) Translate(ctx context.Context, inputPath, outputPath string) (Stats, error) {
	var stats Stats

	data, err := os.ReadFile(inputPath) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return stats, fmt.Errorf("cannot read input file: %w", err)
	}
	text := string(data)

	chunks := b.segmenter.Split(text)
	stats.Chunks = len(chunks)

	sections := make([]string, 0, len(chunks)+1)

	// The header block is translated as one standalone unit before the
	// chunk loop. It carries no page label, so it never reaches the
	// segmenter's labeled path.
	if header := headerRe.FindString(text); header != "" {
		translated, err := b.translator.Translate(ctx, header)
		switch {
		case err == nil:
			sections = append(sections, translated)
			stats.Header = true
		case ctx.Err() != nil:
			return stats, ctx.Err()
		default:
			b.warnf("Warning: failed to translate document header: %v", err)
		}
	}

	for _, chunk := range chunks {
		if b.progress != nil {
			b.progress(chunk, len(chunks))
		}

		translated, err := b.translator.Translate(ctx, chunk.Text)
		switch {
		case err == nil:
			sections = append(sections, translated)
			stats.Translated++
		case ctx.Err() != nil:
			return stats, ctx.Err()
		default:
			stats.Failed++
			b.warnf("Warning: failed to translate %s: %v", chunk, err)
		}

		// Throttle after every attempt, success or failure.
		if err := b.sleep(ctx); err != nil {
			return stats, err
		}
	}

	out := strings.Join(sections, "\n\n")
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil { // #nosec G306 -- plain text output
		return stats, fmt.Errorf("cannot write output file: %w", err)
	}

	return stats, nil
}

// sleep pauses for the configured delay, honoring context cancellation.
func (b *Book) sleep(ctx context.Context) error {
	if b.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(b.delay)
	select {
	case <-ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *Book) warnf(format string, args ...any) {
	if b.warn != nil {
		b.warn(fmt.Sprintf(format, args...))
	}
}
