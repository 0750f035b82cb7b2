package gemini

import (
	"errors"
	"testing"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Fatalf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	if got := clampScore(-3); got != 0 {
		t.Fatalf("clamp(-3) = %v", got)
	}
	if got := clampScore(14); got != 10 {
		t.Fatalf("clamp(14) = %v", got)
	}
	if got := clampScore(7.5); got != 7.5 {
		t.Fatalf("clamp(7.5) = %v", got)
	}
}

func TestClassifyErrorMarksQuotaAsTemporary(t *testing.T) {
	err := classifyError("generate", errors.New("googleapi: Error 429: quota exceeded"))
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("quota error not temporary: %v", err)
	}

	err = classifyError("generate", errors.New("invalid request"))
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("generic error marked temporary: %v", err)
	}
}
