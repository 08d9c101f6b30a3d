package jobs

import (
	"strings"
	"testing"
)

func TestApplySpeakingStyleAppendsBlockOnce(t *testing.T) {
	styled := ApplySpeakingStyle("質問してください。")

	if count := strings.Count(styled, speakingStyleHeading); count != 1 {
		t.Fatalf("expected exactly one style block, got %d", count)
	}
	if !strings.Contains(styled, "質問してください。\n\n"+speakingStyleHeading) {
		t.Fatalf("expected blank-line separation before the style block, got %q", styled)
	}
}

func TestApplySpeakingStyleIsIdempotent(t *testing.T) {
	prompts := []string{
		"質問してください。",
		"",
		DefaultInterviewPrompt,
	}

	for _, prompt := range prompts {
		once := ApplySpeakingStyle(prompt)
		twice := ApplySpeakingStyle(once)

		if once != twice {
			t.Fatalf("expected repeated application to be a no-op for %q", prompt)
		}
	}
}

func TestApplySpeakingStyleTrimsTrailingWhitespace(t *testing.T) {
	styled := ApplySpeakingStyle("質問してください。  \n\t\n")

	if !strings.HasPrefix(styled, "質問してください。\n\n"+speakingStyleHeading) {
		t.Fatalf("expected trailing whitespace trimmed before appending, got %q", styled)
	}
}
