package events

const (
	// KindAssistantResponseSegment identifies streamed assistant response text.
	KindAssistantResponseSegment Kind = "assistant_response.segment"
	// KindAssistantResponseFinal identifies assistant response stream completion.
	KindAssistantResponseFinal Kind = "assistant_response.final"
	// KindAssistantTurnFinalized identifies the assembled response for a completed turn.
	KindAssistantTurnFinalized Kind = "assistant_response.turn_finalized"
)

// AssistantResponseSegment carries a streamed assistant response text segment.
type AssistantResponseSegment struct {
	Base
	Segment string
}

// NewAssistantResponseSegment creates an assistant response segment event.
func NewAssistantResponseSegment(segment string) AssistantResponseSegment {
	return AssistantResponseSegment{Base: NewBase(KindAssistantResponseSegment), Segment: segment}
}

// AssistantResponseFinal marks assistant response stream completion.
type AssistantResponseFinal struct{ Base }

// NewAssistantResponseFinal creates an assistant response final event.
func NewAssistantResponseFinal() AssistantResponseFinal {
	return AssistantResponseFinal{Base: NewBase(KindAssistantResponseFinal)}
}

// AssistantTurnFinalized carries the final assembled response text for a
// completed assistant turn.
type AssistantTurnFinalized struct {
	Base
	Message string
}

// NewAssistantTurnFinalized creates an assistant turn finalized event.
func NewAssistantTurnFinalized(message string) AssistantTurnFinalized {
	return AssistantTurnFinalized{Base: NewBase(KindAssistantTurnFinalized), Message: message}
}

// TextContent returns the assembled response text.
func (e AssistantTurnFinalized) TextContent() string { return e.Message }
