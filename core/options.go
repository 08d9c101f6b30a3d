package session

import (
	"context"

	"github.com/sage-agents/sage-core/core/audio"
	"github.com/sage-agents/sage-core/core/llms"
	"github.com/sage-agents/sage-core/core/speechtotext"
	"github.com/sage-agents/sage-core/core/texttospeech"
)

type SessionOption func(*Session)

type LLMWithStream interface {
	PromptWithStream(ctx context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream
}

func WithStreamingLLM(client LLMWithStream) SessionOption {
	return func(s *Session) {
		s.llm = client
	}
}

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

func WithSpeechToTextClient(client SpeechToText) SessionOption {
	return func(s *Session) {
		s.speechToText.set(client)
	}
}

type TextToSpeech interface {
	NewSpeechGenerator(ctx context.Context, opts ...texttospeech.SynthesisOption) (texttospeech.SpeechGenerator, error)
}

func WithTextToSpeechClient(client TextToSpeech) SessionOption {
	return func(s *Session) {
		s.textToSpeech = client
	}
}

// RoomChannel is the reliable outbound data channel of the hosting room.
type RoomChannel interface {
	PublishData(ctx context.Context, payload []byte) error
}

// WithRoomChannel enables transcript publishing over the given channel.
func WithRoomChannel(channel RoomChannel) SessionOption {
	return func(s *Session) {
		s.roomChannel = channel
	}
}

// WithJobMetadata provides the opaque per-job configuration string. The
// instruction prompt and opening message are resolved from it on Start.
func WithJobMetadata(metadata string) SessionOption {
	return func(s *Session) {
		s.jobMetadata = metadata
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SessionOption {
	return func(s *Session) {
		if encodingInfo.IsZero() {
			return
		}
		s.encodingInfo = encodingInfo
	}
}

type StartOptions struct {
	onTranscription        func(transcript string)
	onInterimTranscription func(transcript string)
	onSpeakingStateChanged func(isSpeaking bool)
	onResponse             func(response string)
	onResponseEnd          func()
	onCancellation         func()
	onAudio                func(audio []byte)
	onAudioEnded           func()
}

type StartOption func(*StartOptions)

// WithTranscriptionCallback registers a callback for final transcriptions
// produced by the configured speech-to-text client.
func WithTranscriptionCallback(callback func(transcript string)) StartOption {
	return func(o *StartOptions) {
		o.onTranscription = callback
	}
}

// WithInterimTranscriptionCallback registers a callback for interim
// transcriptions produced by the configured speech-to-text client.
func WithInterimTranscriptionCallback(callback func(transcript string)) StartOption {
	return func(o *StartOptions) {
		o.onInterimTranscription = callback
	}
}

// WithSpeakingStateChangedCallback registers a callback for speaking-state
// updates produced by the configured speech-to-text client.
func WithSpeakingStateChangedCallback(callback func(isSpeaking bool)) StartOption {
	return func(o *StartOptions) {
		o.onSpeakingStateChanged = callback
	}
}

func WithResponseCallback(callback func(response string)) StartOption {
	return func(o *StartOptions) {
		o.onResponse = callback
	}
}

func WithResponseEndCallback(callback func()) StartOption {
	return func(o *StartOptions) {
		o.onResponseEnd = callback
	}
}

func WithCancellationCallback(callback func()) StartOption {
	return func(o *StartOptions) {
		o.onCancellation = callback
	}
}

func WithAudioCallback(callback func(audio []byte)) StartOption {
	return func(o *StartOptions) {
		o.onAudio = callback
	}
}

func WithAudioEndedCallback(callback func()) StartOption {
	return func(o *StartOptions) {
		o.onAudioEnded = callback
	}
}
