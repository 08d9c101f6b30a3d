package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "user speech started", event: NewUserSpeechStarted(), expected: KindUserSpeechStarted},
		{name: "user speech ended", event: NewUserSpeechEnded(), expected: KindUserSpeechEnded},
		{name: "user interim updated", event: NewUserTranscriptInterimUpdated("text"), expected: KindUserTranscriptInterimUpdated},
		{name: "user transcript final", event: NewUserTranscriptFinal("text"), expected: KindUserTranscriptFinal},
		{name: "assistant response segment", event: NewAssistantResponseSegment("seg"), expected: KindAssistantResponseSegment},
		{name: "assistant response final", event: NewAssistantResponseFinal(), expected: KindAssistantResponseFinal},
		{name: "assistant turn finalized", event: NewAssistantTurnFinalized("text"), expected: KindAssistantTurnFinalized},
		{name: "assistant speech frame", event: NewAssistantSpeechFrame([]byte{1}), expected: KindAssistantSpeechFrame},
		{name: "assistant speech final", event: NewAssistantSpeechFinal(), expected: KindAssistantSpeechFinal},
		{name: "turn cancelled", event: NewTurnCancelled(), expected: KindTurnCancelled},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestFinalizedEventsExposeTextContent(t *testing.T) {
	if got := NewUserTranscriptFinal("こんにちは").TextContent(); got != "こんにちは" {
		t.Fatalf("expected transcript text content, got %q", got)
	}
	if got := NewAssistantTurnFinalized("はい。").TextContent(); got != "はい。" {
		t.Fatalf("expected finalized message text content, got %q", got)
	}
}
