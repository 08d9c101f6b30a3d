package jobs

import (
	"strings"
	"testing"
)

func TestResolvePromptPrefersJSONPromptField(t *testing.T) {
	metadata := `{"prompt": "  あなたは技術面接官です。  ", "openingMessage": "こんにちは"}`

	prompt := ResolvePrompt(metadata)

	if !strings.HasPrefix(prompt, "あなたは技術面接官です。") {
		t.Fatalf("expected trimmed prompt field to lead the result, got %q", prompt)
	}
	if !strings.Contains(prompt, speakingStyleHeading) {
		t.Fatalf("expected resolved prompt to carry the style block")
	}
	if strings.Contains(prompt, "openingMessage") {
		t.Fatalf("expected raw metadata to be ignored when the prompt field is usable")
	}
}

func TestResolvePromptTreatsFreeTextAsLiteralPrompt(t *testing.T) {
	prompt := ResolvePrompt("  just plain text  ")

	if !strings.HasPrefix(prompt, "just plain text") {
		t.Fatalf("expected trimmed free text as the prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, speakingStyleHeading) {
		t.Fatalf("expected literal prompt to carry the style block")
	}
}

func TestResolvePromptFallsBackToRawJSONWithoutUsablePromptField(t *testing.T) {
	metadata := `{"openingMessage": "こんにちは"}`

	prompt := ResolvePrompt(metadata)

	if !strings.HasPrefix(prompt, metadata) {
		t.Fatalf("expected raw metadata as literal prompt when the prompt field is missing, got %q", prompt)
	}
}

func TestResolvePromptDefaults(t *testing.T) {
	testCases := []struct {
		name     string
		metadata string
	}{
		{name: "empty metadata", metadata: ""},
		{name: "blank metadata", metadata: "   \n\t "},
		{name: "blank prompt field and blank raw", metadata: " "},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			prompt := ResolvePrompt(testCase.metadata)

			if !strings.HasPrefix(prompt, DefaultInterviewPrompt[:30]) {
				t.Fatalf("expected default prompt, got %q", prompt)
			}
			if !strings.Contains(prompt, speakingStyleHeading) {
				t.Fatalf("expected default prompt to carry the style block")
			}
		})
	}
}

func TestResolvePromptIgnoresNonStringPromptField(t *testing.T) {
	metadata := `{"prompt": 42}`

	prompt := ResolvePrompt(metadata)

	if !strings.HasPrefix(prompt, metadata) {
		t.Fatalf("expected raw metadata fallback for non-string prompt field, got %q", prompt)
	}
}

func TestResolveOpeningMessage(t *testing.T) {
	testCases := []struct {
		name     string
		metadata string
		expected string
		present  bool
	}{
		{name: "present and trimmed", metadata: `{"openingMessage": "  Hi there  "}`, expected: "Hi there", present: true},
		{name: "empty metadata", metadata: "", present: false},
		{name: "free text has no opening message", metadata: "just plain text", present: false},
		{name: "json scalar is not an object", metadata: `"hello"`, present: false},
		{name: "missing field", metadata: `{"prompt": "p"}`, present: false},
		{name: "blank field", metadata: `{"openingMessage": "   "}`, present: false},
		{name: "non-string field", metadata: `{"openingMessage": 7}`, present: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			opening, ok := ResolveOpeningMessage(testCase.metadata)

			if ok != testCase.present {
				t.Fatalf("expected present=%t, got %t", testCase.present, ok)
			}
			if ok && opening != testCase.expected {
				t.Fatalf("expected opening message %q, got %q", testCase.expected, opening)
			}
		})
	}
}
