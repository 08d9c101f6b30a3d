package session

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/sage-agents/sage-core/core/events"
)

type capturingRoomChannel struct {
	payloads chan []byte
	err      error
}

func newCapturingRoomChannel() *capturingRoomChannel {
	return &capturingRoomChannel{payloads: make(chan []byte, 8)}
}

func (c *capturingRoomChannel) PublishData(_ context.Context, payload []byte) error {
	if c.err != nil {
		return c.err
	}
	c.payloads <- payload
	return nil
}

func (c *capturingRoomChannel) awaitMessage(t *testing.T) TranscriptMessage {
	t.Helper()

	select {
	case payload := <-c.payloads:
		var message TranscriptMessage
		if err := json.Unmarshal(payload, &message); err != nil {
			t.Fatalf("failed to unmarshal published payload: %v", err)
		}
		return message
	case <-time.After(time.Second):
		t.Fatalf("expected a published transcript message")
		return TranscriptMessage{}
	}
}

func TestTranscriptBridgePublishesFinalUserTranscriptAsCandidate(t *testing.T) {
	channel := newCapturingRoomChannel()
	bridge := newTranscriptBridge(context.Background(), channel)

	bridge.handleEvent(events.NewUserTranscriptFinal("よろしくお願いします"))
	bridge.Wait()

	message := channel.awaitMessage(t)
	if message.Role != RoleCandidate {
		t.Fatalf("expected role %q, got %q", RoleCandidate, message.Role)
	}
	if message.Text != "よろしくお願いします" {
		t.Fatalf("expected transcript text preserved, got %q", message.Text)
	}
}

func TestTranscriptBridgePublishesFinalizedAssistantTurnAsInterviewer(t *testing.T) {
	channel := newCapturingRoomChannel()
	bridge := newTranscriptBridge(context.Background(), channel)

	bridge.handleEvent(events.NewAssistantTurnFinalized("自己紹介をお願いします。"))
	bridge.Wait()

	message := channel.awaitMessage(t)
	if message.Role != RoleInterviewer {
		t.Fatalf("expected role %q, got %q", RoleInterviewer, message.Role)
	}
	if message.Text != "自己紹介をお願いします。" {
		t.Fatalf("expected response text preserved, got %q", message.Text)
	}
}

func TestTranscriptBridgeDropsBlankText(t *testing.T) {
	channel := newCapturingRoomChannel()
	bridge := newTranscriptBridge(context.Background(), channel)

	bridge.handleEvent(events.NewUserTranscriptFinal("   "))
	bridge.handleEvent(events.NewAssistantTurnFinalized(""))
	bridge.Wait()

	select {
	case payload := <-channel.payloads:
		t.Fatalf("expected no publish for blank text, got %s", payload)
	default:
	}
}

func TestTranscriptBridgeIgnoresUnrelatedEvents(t *testing.T) {
	channel := newCapturingRoomChannel()
	bridge := newTranscriptBridge(context.Background(), channel)

	bridge.handleEvent(events.NewUserTranscriptInterimUpdated("まだ話している"))
	bridge.handleEvent(events.NewUserSpeechStarted())
	bridge.handleEvent(events.NewAssistantResponseSegment("部分"))
	bridge.Wait()

	select {
	case payload := <-channel.payloads:
		t.Fatalf("expected no publish for non-final events, got %s", payload)
	default:
	}
}

func TestTranscriptBridgeObservesPublishFailures(t *testing.T) {
	channel := newCapturingRoomChannel()
	channel.err = fmt.Errorf("data channel closed")
	bridge := newTranscriptBridge(context.Background(), channel)

	bridge.handleEvent(events.NewUserTranscriptFinal("聞こえますか"))
	bridge.Wait()

	select {
	case failure := <-bridge.Failures():
		if failure.Role != RoleCandidate {
			t.Fatalf("expected candidate failure, got %q", failure.Role)
		}
		if failure.TaskID == "" {
			t.Fatalf("expected failure to carry a task id")
		}
		if failure.Err == nil {
			t.Fatalf("expected failure to carry the publish error")
		}
	default:
		t.Fatalf("expected an observable publish failure")
	}
}

func TestCoerceTextPrefersTextContent(t *testing.T) {
	if got := coerceText("plain"); got != "plain" {
		t.Fatalf("expected plain string passthrough, got %q", got)
	}
	if got := coerceText(events.NewAssistantTurnFinalized("content")); got != "content" {
		t.Fatalf("expected text content accessor, got %q", got)
	}
	if got := coerceText(42); got != "42" {
		t.Fatalf("expected generic conversion fallback, got %q", got)
	}
}

func TestTranscriptBridgePreservesNonASCIIPayload(t *testing.T) {
	channel := newCapturingRoomChannel()
	bridge := newTranscriptBridge(context.Background(), channel)

	bridge.handleEvent(events.NewUserTranscriptFinal("日本語のテキスト"))
	bridge.Wait()

	select {
	case payload := <-channel.payloads:
		expected := `{"role":"candidate","text":"日本語のテキスト"}`
		if string(payload) != expected {
			t.Fatalf("expected %s, got %s", expected, payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a published transcript message")
	}
}
