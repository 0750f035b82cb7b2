package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func TestClassifyGeminiError(t *testing.T) {
	cases := []struct {
		name          string
		err           error
		retryable     bool
		recordFailure bool
	}{
		{name: "nil", err: nil},
		{name: "context canceled", err: context.Canceled},
		{name: "invalid input", err: fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)},
		{
			name:          "quota fails fast but counts",
			err:           domain.WrapError(domain.ErrTemporary, "generate", errors.New("429 quota exceeded")),
			retryable:     false,
			recordFailure: true,
		},
		{
			name:          "transport blip retries",
			err:           errors.New("connection reset by peer"),
			retryable:     true,
			recordFailure: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyGeminiError(tc.err)
			if got.Retryable != tc.retryable {
				t.Fatalf("retryable: got %v, want %v", got.Retryable, tc.retryable)
			}
			if got.RecordFailure != tc.recordFailure {
				t.Fatalf("record failure: got %v, want %v", got.RecordFailure, tc.recordFailure)
			}
		})
	}
}
