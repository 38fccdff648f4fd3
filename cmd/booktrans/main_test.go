package main

// Notes:
// - exitCode classifies by errors.Is, so sentinels are tested wrapped
//   the way the commands actually return them.

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alnah/go-booktrans/internal/apierr"
	"github.com/alnah/go-booktrans/internal/cli"
	"github.com/alnah/go-booktrans/internal/sheet"
	"github.com/alnah/go-booktrans/internal/token"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitOK},
		{"generic error", errors.New("boom"), ExitGeneral},
		{"interrupt", context.Canceled, ExitInterrupt},
		{"wrapped interrupt", fmt.Errorf("run aborted: %w", context.Canceled), ExitInterrupt},
		{"usage: unknown flag", errors.New(`unknown flag: --frobnicate`), ExitUsage},
		{"usage: wrong arg count", errors.New("accepts 1 arg(s), received 2"), ExitUsage},
		{"missing api key", fmt.Errorf("%w (set it with: export OPENAI_API_KEY=sk-...)", cli.ErrAPIKeyMissing), ExitSetup},
		{"unknown model", fmt.Errorf("%w %q: no encoding", token.ErrUnknownModel, "gpt-x"), ExitSetup},
		{"file not found", fmt.Errorf("%w: book.txt", cli.ErrFileNotFound), ExitValidation},
		{"bad sheet", fmt.Errorf("%w (text in column 4, page in column 5)", sheet.ErrBadSheet), ExitValidation},
		{"bad page number", fmt.Errorf("row 3: %w: %q", sheet.ErrBadPageNumber, "twelve"), ExitValidation},
		{"rate limited", fmt.Errorf("rate limit reached: %w", apierr.ErrRateLimit), ExitTranslation},
		{"quota exceeded", fmt.Errorf("quota: %w", apierr.ErrQuotaExceeded), ExitTranslation},
		{"timeout", fmt.Errorf("request timed out: %w", apierr.ErrTimeout), ExitTranslation},
		{"auth failed", fmt.Errorf("invalid key: %w", apierr.ErrAuthFailed), ExitTranslation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsCobraUsageError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unknown flag", errors.New("unknown flag: --x"), true},
		{"unknown shorthand", errors.New(`unknown shorthand flag: 'z' in -z`), true},
		{"flag needs argument", errors.New("flag needs an argument: --output"), true},
		{"arg count", errors.New("accepts 2 arg(s), received 1"), true},
		{"domain error", errors.New("cannot read input file"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isCobraUsageError(tt.err); got != tt.want {
				t.Errorf("isCobraUsageError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
