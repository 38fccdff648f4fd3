// Package segment splits page-annotated documents into translation-ready
// chunks bounded by a model token budget.
//
// Boundary preservation is hierarchical: a paragraph that fits the budget
// becomes exactly one chunk; a paragraph that does not is split at
// sentence boundaries and sentences are greedily accumulated up to the
// budget. Sentences are never subdivided, so a single sentence larger
// than the budget is emitted as an over-budget chunk (accepted overflow).
package segment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultBudget is the default maximum token count per chunk.
// Conservative relative to model context limits, leaving room for the
// system instruction and the translated response.
const DefaultBudget = 2000

// ErrNilCounter indicates a Segmenter was constructed without a counter.
var ErrNilCounter = errors.New("token counter is required")

// TokenCounter measures text length in model tokens.
// *token.Counter implements this; tests inject deterministic fakes.
type TokenCounter interface {
	Count(text string) int
}

// Chunk is one bounded unit of text submitted as a single translation
// request.
type Chunk struct {
	Index  int    // Zero-based position in the chunk sequence.
	Text   string // Serialized chunk text, page labels included.
	Tokens int    // Token count of Text.
}

// String returns a human-readable representation for diagnostics.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %d tokens", c.Index, c.Tokens)
}

// sentenceEndRe matches sentence-ending punctuation followed by
// whitespace. The punctuation stays attached to the preceding sentence;
// the whitespace is discarded.
var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// Segmenter splits documents into token-bounded chunks.
type Segmenter struct {
	counter TokenCounter
	budget  int
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithBudget sets the maximum token count per chunk.
// Non-positive values are ignored and the default kept.
func WithBudget(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.budget = n
		}
	}
}

// New creates a Segmenter using counter to measure chunk sizes.
func New(counter TokenCounter, opts ...Option) (*Segmenter, error) {
	if counter == nil {
		return nil, ErrNilCounter
	}
	s := &Segmenter{
		counter: counter,
		budget:  DefaultBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Budget returns the configured maximum token count per chunk.
func (s *Segmenter) Budget() int {
	return s.budget
}

// Split transforms a raw page-annotated document into an ordered chunk
// sequence. Page and paragraph order is preserved; paragraphs are never
// batched together, and chunks never span pages. An empty or
// whitespace-only document yields no chunks.
func (s *Segmenter) Split(doc string) []Chunk {
	var chunks []Chunk
	for _, page := range Parse(doc).Pages {
		for _, para := range page.Paragraphs {
			text := withLabel(page.Label, para)
			n := s.counter.Count(text)
			if n <= s.budget {
				chunks = append(chunks, Chunk{Index: len(chunks), Text: text, Tokens: n})
				continue
			}
			chunks = s.splitOversized(chunks, page.Label, para)
		}
	}
	return chunks
}

// splitOversized handles a paragraph whose labeled text exceeds the
// budget: it is split into sentences, each individually labeled, and
// consecutive sentences are greedily accumulated until adding the next
// one would cross the budget.
func (s *Segmenter) splitOversized(chunks []Chunk, label, para string) []Chunk {
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, "\n")
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Text:   text,
			Tokens: s.counter.Count(text),
		})
		current = nil
		currentTokens = 0
	}

	for _, sentence := range splitSentences(para) {
		line := withLabel(label, sentence)
		n := s.counter.Count(line)

		if currentTokens+n > s.budget {
			// An oversized lone sentence still starts its own chunk and
			// is flushed as-is on the next iteration or at the end.
			flush()
		}
		current = append(current, line)
		currentTokens += n
	}
	flush()

	return chunks
}

// splitSentences splits a paragraph on sentence-ending punctuation
// followed by whitespace, keeping the punctuation on the preceding
// sentence. Text without sentence boundaries is returned whole.
func splitSentences(text string) []string {
	matches := sentenceEndRe.FindAllStringIndex(text, -1)
	if matches == nil {
		return []string{text}
	}

	sentences := make([]string, 0, len(matches)+1)
	start := 0
	for _, m := range matches {
		// m[0] is the punctuation character; keep it.
		sentences = append(sentences, text[start:m[0]+1])
		start = m[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// withLabel prefixes text with the page label when one exists.
func withLabel(label, text string) string {
	if label == "" {
		return text
	}
	return label + "\n" + text
}
