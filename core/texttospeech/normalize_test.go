package texttospeech

import (
	"slices"
	"testing"
)

func TestNormalizeFragmentConvertsASCIIPunctuation(t *testing.T) {
	if got := NormalizeFragment("元気ですか?"); got != "元気ですか？" {
		t.Fatalf("expected full-width question mark, got %q", got)
	}
	if got := NormalizeFragment("すごい!"); got != "すごい！" {
		t.Fatalf("expected full-width exclamation mark, got %q", got)
	}
}

func TestNormalizeFragmentStripsTrailingLatinRuns(t *testing.T) {
	testCases := []struct {
		name     string
		fragment string
		expected string
	}{
		{
			name:     "after sentence end",
			fragment: "これは質問です。Thank you for your time",
			expected: "これは質問です。",
		},
		{
			name:     "after sentence end with whitespace",
			fragment: "お話しください。 Let me know",
			expected: "お話しください。",
		},
		{
			name:     "whitespace separated without sentence end",
			fragment: "ありがとうございます thinking about it",
			expected: "ありがとうございます",
		},
		{
			name:     "glued directly onto japanese text",
			fragment: "頑張りましょうexactly",
			expected: "頑張りましょう",
		},
		{
			name:     "short run is kept",
			fragment: "これはAIの話です",
			expected: "これはAIの話です",
		},
		{
			name:     "latin in the middle is kept",
			fragment: "APIの設計について教えてください。",
			expected: "APIの設計について教えてください。",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := NormalizeFragment(testCase.fragment); got != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestNormalizeFragmentLeavesPurelyLatinFragmentsUnstripped(t *testing.T) {
	// No Japanese content, so the trailing-run heuristics must not fire.
	if got := NormalizeFragment("Thank you for your time"); got != "Thank you for your time" {
		t.Fatalf("expected purely-Latin fragment untouched by stripping, got %q", got)
	}
}

func TestNormalizeFragmentBreaksBetweenSentences(t *testing.T) {
	if got := NormalizeFragment("はい。そうです。"); got != "はい。\nそうです。" {
		t.Fatalf("expected line break between sentences, got %q", got)
	}

	// Already separated sentences gain no extra break.
	if got := NormalizeFragment("はい。\nそうです。"); got != "はい。\nそうです。" {
		t.Fatalf("expected no duplicate break, got %q", got)
	}

	// Consecutive terminal marks each get their break.
	if got := NormalizeFragment("はい！！どうぞ"); got != "はい！\n！\nどうぞ" {
		t.Fatalf("expected breaks after every terminal mark, got %q", got)
	}
}

func TestNormalizeFragmentCollapsesBlankLineRuns(t *testing.T) {
	if got := NormalizeFragment("一つ目。\n\n\n\n二つ目。"); got != "一つ目。\n\n二つ目。" {
		t.Fatalf("expected blank-line runs collapsed to two, got %q", got)
	}
}

func TestNormalizeChunksPreservesLengthAndOrder(t *testing.T) {
	input := []string{"元気ですか?", "これは質問です。Thank you for your time", "", "Hello"}
	source := func(yield func(string) bool) {
		for _, fragment := range input {
			if !yield(fragment) {
				return
			}
		}
	}

	var output []string
	for fragment := range NormalizeChunks(source) {
		output = append(output, fragment)
	}

	expected := []string{"元気ですか？", "これは質問です。", "", "Hello"}
	if !slices.Equal(output, expected) {
		t.Fatalf("expected %q, got %q", expected, output)
	}
}

func TestNormalizeChunksStopsWithConsumer(t *testing.T) {
	yielded := 0
	source := func(yield func(string) bool) {
		for {
			yielded++
			if !yield("はい。") {
				return
			}
		}
	}

	taken := 0
	NormalizeChunks(source)(func(string) bool {
		taken++
		return taken < 3
	})

	if taken != 3 {
		t.Fatalf("expected consumer to take 3 fragments, got %d", taken)
	}
	if yielded != 3 {
		t.Fatalf("expected source to stop once the consumer stopped, got %d yields", yielded)
	}
}

func TestStripMarkupFragmentRemovesAsterisks(t *testing.T) {
	if got := StripMarkupFragment("**大事**なこと"); got != "大事なこと" {
		t.Fatalf("expected asterisks removed, got %q", got)
	}
}
