package events

const (
	// KindAssistantSpeechFrame identifies a synthesized speech audio frame.
	KindAssistantSpeechFrame Kind = "assistant_speech.frame"
	// KindAssistantSpeechFinal identifies the end of speech generation.
	KindAssistantSpeechFinal Kind = "assistant_speech.final"
)

// AssistantSpeechFrame carries a synthesized speech audio frame.
type AssistantSpeechFrame struct {
	Base
	Audio []byte
}

// NewAssistantSpeechFrame creates an assistant speech frame event.
func NewAssistantSpeechFrame(audio []byte) AssistantSpeechFrame {
	return AssistantSpeechFrame{Base: NewBase(KindAssistantSpeechFrame), Audio: audio}
}

// AssistantSpeechFinal marks the end of speech generation for the turn.
type AssistantSpeechFinal struct{ Base }

// NewAssistantSpeechFinal creates an assistant speech final event.
func NewAssistantSpeechFinal() AssistantSpeechFinal {
	return AssistantSpeechFinal{Base: NewBase(KindAssistantSpeechFinal)}
}
