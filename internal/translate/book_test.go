package translate_test

// Notes:
// - The Translator is a scripted mock; the segmenter uses a word-count
//   fake counter so chunk boundaries are predictable.
// - Files live in t.TempDir; WithDelay(0) disables throttling.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-booktrans/internal/segment"
	"github.com/alnah/go-booktrans/internal/translate"
)

// mockTranslator prefixes each input with "EN: "; inputs listed in
// failOn return errFail instead. All calls are recorded.
type mockTranslator struct {
	failOn map[string]bool
	calls  []string
}

var errFail = errors.New("translation failed")

var _ translate.Translator = (*mockTranslator)(nil)

func (m *mockTranslator) Translate(_ context.Context, text string) (string, error) {
	m.calls = append(m.calls, text)
	if m.failOn[text] {
		return "", errFail
	}
	return "EN: " + text, nil
}

type fieldCounter struct{}

func (fieldCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func newBook(t *testing.T, tr translate.Translator, opts ...translate.BookOption) *translate.Book {
	t.Helper()
	seg, err := segment.New(fieldCounter{})
	if err != nil {
		t.Fatalf("segment.New() error = %v", err)
	}
	opts = append([]translate.BookOption{
		translate.WithDelay(0),
		translate.WithWarn(nil),
	}, opts...)
	b, err := translate.NewBook(tr, seg, opts...)
	if err != nil {
		t.Fatalf("NewBook() error = %v", err)
	}
	return b
}

func writeInput(t *testing.T, content string) (inputPath, outputPath string) {
	t.Helper()
	dir := t.TempDir()
	inputPath = filepath.Join(dir, "book.txt")
	outputPath = filepath.Join(dir, "book_english.txt")
	if err := os.WriteFile(inputPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	return inputPath, outputPath
}

func TestNewBook_RequiresDependencies(t *testing.T) {
	t.Parallel()

	seg, err := segment.New(fieldCounter{})
	if err != nil {
		t.Fatalf("segment.New() error = %v", err)
	}

	if _, err := translate.NewBook(nil, seg); err == nil {
		t.Error("NewBook(nil translator) expected error")
	}
	if _, err := translate.NewBook(&mockTranslator{}, nil); err == nil {
		t.Error("NewBook(nil segmenter) expected error")
	}
}

func TestTranslateBook_AllChunksSucceed(t *testing.T) {
	t.Parallel()

	input := "Page 1\n----\n\none.\n\ntwo.\n"
	inputPath, outputPath := writeInput(t, input)

	tr := &mockTranslator{}
	b := newBook(t, tr)

	stats, err := b.Translate(context.Background(), inputPath, outputPath)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	want := translate.Stats{Chunks: 2, Translated: 2}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	wantOut := "EN: Page 1\none.\n\nEN: Page 1\ntwo."
	if string(out) != wantOut {
		t.Errorf("output = %q, want %q", string(out), wantOut)
	}
}

func TestTranslateBook_FailedChunkSkipped(t *testing.T) {
	t.Parallel()

	input := "Page 1\n----\n\none.\n\ntwo.\n\nthree.\n"
	inputPath, outputPath := writeInput(t, input)

	var warnings []string
	tr := &mockTranslator{failOn: map[string]bool{"Page 1\ntwo.": true}}
	b := newBook(t, tr, translate.WithWarn(func(msg string) {
		warnings = append(warnings, msg)
	}))

	stats, err := b.Translate(context.Background(), inputPath, outputPath)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	want := translate.Stats{Chunks: 3, Translated: 2, Failed: 1}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	wantOut := "EN: Page 1\none.\n\nEN: Page 1\nthree."
	if string(out) != wantOut {
		t.Errorf("output = %q, want %q", string(out), wantOut)
	}

	if len(warnings) != 1 || !strings.Contains(warnings[0], "failed to translate") {
		t.Errorf("warnings = %q, want one skip warning", warnings)
	}
}

func TestTranslateBook_HeaderTranslatedFirst(t *testing.T) {
	t.Parallel()

	bar := strings.Repeat("=", 80)
	header := bar + "\nMy Book\nSource: book.xlsx\n" + bar
	input := header + "\n\nPage 1\n----\n\nbody.\n"
	inputPath, outputPath := writeInput(t, input)

	tr := &mockTranslator{}
	b := newBook(t, tr)

	stats, err := b.Translate(context.Background(), inputPath, outputPath)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !stats.Header {
		t.Error("Stats.Header = false, want true")
	}

	if len(tr.calls) == 0 || tr.calls[0] != header {
		t.Fatalf("first call = %q, want the header block", tr.calls)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(out), "EN: "+bar) {
		t.Errorf("output does not start with translated header: %q", string(out))
	}
}

func TestTranslateBook_MissingInput(t *testing.T) {
	t.Parallel()

	tr := &mockTranslator{}
	b := newBook(t, tr)

	_, err := b.Translate(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), "out.txt")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Translate() error = %v, want os.ErrNotExist", err)
	}
	if len(tr.calls) != 0 {
		t.Errorf("translator called %d times for missing input", len(tr.calls))
	}
}

func TestTranslateBook_CancelledContext(t *testing.T) {
	t.Parallel()

	input := "Page 1\n----\n\none.\n\ntwo.\n"
	inputPath, outputPath := writeInput(t, input)

	ctx, cancel := context.WithCancel(context.Background())

	tr := &cancellingTranslator{cancel: cancel}
	seg, err := segment.New(fieldCounter{})
	if err != nil {
		t.Fatalf("segment.New() error = %v", err)
	}
	b, err := translate.NewBook(tr, seg, translate.WithDelay(0), translate.WithWarn(nil))
	if err != nil {
		t.Fatalf("NewBook() error = %v", err)
	}

	_, err = b.Translate(ctx, inputPath, outputPath)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Translate() error = %v, want context.Canceled", err)
	}

	// No partial output is written on abort.
	if _, err := os.Stat(outputPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output file exists after cancellation")
	}
	if tr.calls != 1 {
		t.Errorf("translator called %d times after cancellation, want 1", tr.calls)
	}
}

// cancellingTranslator cancels the run from inside the first call and
// returns the context error, simulating an interrupt mid-request.
type cancellingTranslator struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingTranslator) Translate(ctx context.Context, _ string) (string, error) {
	c.calls++
	c.cancel()
	return "", ctx.Err()
}

func TestTranslateBook_ProgressReported(t *testing.T) {
	t.Parallel()

	input := "Page 1\n----\n\none.\n\ntwo.\n"
	inputPath, outputPath := writeInput(t, input)

	var seen []segment.Chunk
	var totals []int
	tr := &mockTranslator{}
	b := newBook(t, tr, translate.WithProgress(func(c segment.Chunk, total int) {
		seen = append(seen, c)
		totals = append(totals, total)
	}))

	if _, err := b.Translate(context.Background(), inputPath, outputPath); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("progress called %d times, want 2", len(seen))
	}
	for i, c := range seen {
		if c.Index != i {
			t.Errorf("progress chunk %d has Index %d", i, c.Index)
		}
	}
	for _, total := range totals {
		if total != 2 {
			t.Errorf("progress total = %d, want 2", total)
		}
	}
}
