// Package token counts text length in model tokens.
//
// Chunk budgets are enforced against the tokenizer of the target model,
// not a character heuristic: an estimate that undershoots would let
// over-budget chunks through to the API.
package token

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// ErrUnknownModel indicates the model has no known tokenizer encoding.
var ErrUnknownModel = errors.New("unknown model")

// Counter counts tokens using the encoding associated with one model.
// Safe for concurrent use. Create with NewCounter.
type Counter struct {
	model string
	enc   *tiktoken.Tiktoken
}

// NewCounter resolves the tokenizer encoding for model.
// An unrecognized model fails here, at construction, so a misconfigured
// run aborts before any document is read.
func NewCounter(model string) (*Counter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownModel, model, err)
	}
	return &Counter{model: model, enc: enc}, nil
}

// Model returns the model this counter was built for.
func (c *Counter) Model() string {
	return c.model
}

// Count returns the number of tokens in text. Deterministic for a fixed
// model/text pair.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
