// Package translate sends Arabic text to the OpenAI chat completion API
// and reassembles the English output into a translated document.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-booktrans/internal/apierr"
)

// systemInstruction is the fixed system prompt for every translation
// request. Page markers must survive translation so the bilingual merge
// can resynchronize on them.
const systemInstruction = `You are a professional translator specializing in Arabic to English translation.
Translate the following Arabic text to English, maintaining the original meaning and style.
If the text contains a page number, preserve it in the translation.
Focus on accuracy and clarity in the translation.`

// userPromptPrefix is prepended to each chunk in the user message.
const userPromptPrefix = "Translate this text from Arabic to English:\n\n"

// translationTemperature biases the model toward literal, deterministic
// output.
const translationTemperature = 0.3

// Default retry configuration for per-chunk translation calls.
const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// ErrEmptyResponse indicates the API returned a completion with no choices.
var ErrEmptyResponse = errors.New("empty completion response")

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ chatCompleter = (*openai.Client)(nil)

// Translator translates one chunk of Arabic text to English.
type Translator interface {
	// Translate sends text as a single translation request and returns
	// the translated text. Failures are classified into the apierr
	// sentinels; the caller decides skip-vs-abort.
	Translate(ctx context.Context, text string) (string, error)
}

// Client translates text using OpenAI's chat completion API.
// It supports automatic retries with exponential backoff for transient
// errors. Create with NewClient; credential and model selection are
// passed in explicitly, the package never reads the environment.
type Client struct {
	client     chatCompleter
	model      string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Compile-time interface compliance check.
var _ Translator = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMaxRetries sets the maximum number of retry attempts per chunk.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) ClientOption {
	return func(c *Client) {
		if base > 0 {
			c.baseDelay = base
		}
		if max > 0 {
			c.maxDelay = max
		}
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) ClientOption {
	return func(c *Client) {
		c.client = cc
	}
}

// NewClient creates a translation client for the given model.
// The OpenAI client is injected to keep credential resolution at the
// process entry point.
func NewClient(client *openai.Client, model string, opts ...ClientOption) *Client {
	c := &Client{
		client:     client,
		model:      model,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate sends one chunk to the model and returns the translated
// text. Transient failures (rate limits, timeouts, server errors) are
// retried with exponential backoff before the error is surfaced.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userPromptPrefix + text},
		},
		Temperature: translationTemperature,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: c.maxRetries,
		BaseDelay:  c.baseDelay,
		MaxDelay:   c.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}, isRetryableError)
}

// classifyError maps OpenAI API errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Distinguish between temporary rate limit and quota exceeded
			// (billing issue). Quota exceeded should not be retried - it
			// requires user action.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	// Check for context timeout/deadline exceeded.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// isRetryableError determines if an error is transient and should be retried.
func isRetryableError(err error) bool {
	// Rate limits are retryable (with backoff).
	if errors.Is(err, apierr.ErrRateLimit) {
		return true
	}

	// Timeouts are retryable.
	if errors.Is(err, apierr.ErrTimeout) {
		return true
	}

	// Server errors (5xx) are retryable.
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	// Context cancellation and auth errors are not retryable.
	return false
}
