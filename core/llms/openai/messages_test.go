package openai

import (
	"testing"

	"github.com/sage-agents/sage-core/core/llms"
)

func TestToOpenAIMessagesLeadsWithInstructions(t *testing.T) {
	messages := toOpenAIMessages("system prompt", []llms.Turn{
		{Role: llms.TurnRoleUser, Content: "こんにちは"},
		{Role: llms.TurnRoleAssistant, Content: "はじめまして。"},
	})

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != messageRoleSystem || messages[0].Content != "system prompt" {
		t.Fatalf("expected instructions as leading system message, got %+v", messages[0])
	}
	if messages[1].Role != messageRoleUser || messages[2].Role != messageRoleAssistant {
		t.Fatalf("expected history roles preserved in order, got %+v", messages[1:])
	}
}

func TestToOpenAIMessagesSkipsEmptyInstructions(t *testing.T) {
	messages := toOpenAIMessages("", []llms.Turn{{Role: llms.TurnRoleUser, Content: "hi"}})

	if len(messages) != 1 {
		t.Fatalf("expected only the history message, got %d", len(messages))
	}
	if messages[0].Role != messageRoleUser {
		t.Fatalf("expected user role, got %q", messages[0].Role)
	}
}
