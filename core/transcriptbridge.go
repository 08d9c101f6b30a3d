package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sage-agents/sage-core/core/events"
)

const (
	// RoleCandidate labels transcript messages carrying what the user said.
	RoleCandidate = "candidate"
	// RoleInterviewer labels transcript messages carrying what the agent said.
	RoleInterviewer = "interviewer"
)

// TranscriptMessage is the outbound payload published for each completed
// conversational turn.
type TranscriptMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// TextContenter is implemented by events that carry publishable text. It is
// resolved at the boundary where events enter the bridge, instead of probing
// event shapes at publish time.
type TextContenter interface {
	TextContent() string
}

// PublishFailure reports one failed fire-and-forget publish. Failures never
// propagate to the event source; they are logged and made observable here.
type PublishFailure struct {
	TaskID string
	Role   string
	Err    error
}

const publishFailureObservationCapacity = 16

// transcriptBridge republishes completed turns over the room's data channel.
// Publishes are fire-and-forget: event handling never blocks on delivery.
type transcriptBridge struct {
	channel RoomChannel

	baseContext context.Context

	tasks    sync.WaitGroup
	failures chan PublishFailure
}

func newTranscriptBridge(ctx context.Context, channel RoomChannel) *transcriptBridge {
	return &transcriptBridge{
		channel:     channel,
		baseContext: ctx,
		failures:    make(chan PublishFailure, publishFailureObservationCapacity),
	}
}

func (b *transcriptBridge) handleEvent(event events.Event) {
	if b == nil {
		return
	}

	switch typedEvent := event.(type) {
	case events.UserTranscriptFinal:
		b.publish(RoleCandidate, typedEvent)
	case events.AssistantTurnFinalized:
		b.publish(RoleInterviewer, typedEvent)
	}
}

func (b *transcriptBridge) publish(role string, message any) {
	text := strings.TrimSpace(coerceText(message))
	if text == "" {
		return
	}

	taskID := uuid.NewString()
	b.tasks.Add(1)
	go func() {
		defer b.tasks.Done()

		payload, err := json.Marshal(TranscriptMessage{Role: role, Text: text})
		if err == nil {
			err = b.channel.PublishData(b.baseContext, payload)
		}
		if err != nil {
			logger.Warn("failed to publish transcript message",
				"task_id", taskID, "role", role, "error", err)
			b.observeFailure(PublishFailure{TaskID: taskID, Role: role, Err: err})
		}
	}()
}

// coerceText extracts publishable text from a message. Events entering
// through handleEvent always satisfy TextContenter; the remaining branches
// cover direct publishes of plain values.
func coerceText(message any) string {
	switch typedMessage := message.(type) {
	case string:
		return typedMessage
	case TextContenter:
		return typedMessage.TextContent()
	case fmt.Stringer:
		return typedMessage.String()
	default:
		return fmt.Sprintf("%v", message)
	}
}

// Failures exposes publish failures for observation. The channel is never
// closed; reading it is optional and publishing never blocks on it.
func (b *transcriptBridge) Failures() <-chan PublishFailure {
	return b.failures
}

func (b *transcriptBridge) observeFailure(failure PublishFailure) {
	select {
	case b.failures <- failure:
	default:
	}
}

// Wait blocks until all outstanding publish tasks have completed or failed.
func (b *transcriptBridge) Wait() {
	if b == nil {
		return
	}
	b.tasks.Wait()
}
