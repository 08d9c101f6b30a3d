package deepgram

import (
	"sync/atomic"
	"testing"

	"github.com/sage-agents/sage-core/core/speechtotext"
)

func TestNewCallbackConfigDefaultsToNoopCallbacks(t *testing.T) {
	callbacks, wsConfig := newCallbackConfig(speechtotext.TranscriptionOptions{})

	callbacks.interimTranscriptionCallback("interim")
	callbacks.transcriptionCallback("full")
	callbacks.startSpeechCallback()
	callbacks.endSpeechCallback()

	if wsConfig.shouldDetectSpeechStart {
		t.Fatalf("expected speech-start detection disabled when callback is unset")
	}
	if wsConfig.shouldEnhanceSpeechEndingDetection {
		t.Fatalf("expected speech-end enhancement disabled when callbacks are unset")
	}
	if wsConfig.shouldRequestInterimResults {
		t.Fatalf("expected interim-results disabled when callbacks are unset")
	}
}

func TestNewCallbackConfigKeepsConfiguredCallbacksAndFlags(t *testing.T) {
	interimCalls := atomic.Int32{}
	transcriptionCalls := atomic.Int32{}
	startCalls := atomic.Int32{}
	endCalls := atomic.Int32{}

	callbacks, wsConfig := newCallbackConfig(speechtotext.TranscriptionOptions{
		InterimTranscriptionCallback: func(string) { interimCalls.Add(1) },
		TranscriptionCallback:        func(string) { transcriptionCalls.Add(1) },
		SpeechStartedCallback:        func() { startCalls.Add(1) },
		SpeechEndedCallback:          func() { endCalls.Add(1) },
	})

	callbacks.interimTranscriptionCallback("こんに")
	callbacks.transcriptionCallback("こんにちは")
	callbacks.startSpeechCallback()
	callbacks.endSpeechCallback()

	if !wsConfig.shouldDetectSpeechStart {
		t.Fatalf("expected speech-start detection enabled")
	}
	if !wsConfig.shouldEnhanceSpeechEndingDetection {
		t.Fatalf("expected speech-end enhancement enabled")
	}
	if !wsConfig.shouldRequestInterimResults {
		t.Fatalf("expected interim-results enabled")
	}

	if got := interimCalls.Load(); got != 1 {
		t.Fatalf("expected interim callback once, got %d", got)
	}
	if got := transcriptionCalls.Load(); got != 1 {
		t.Fatalf("expected transcription callback once, got %d", got)
	}
	if got := startCalls.Load(); got != 1 {
		t.Fatalf("expected speech-start callback once, got %d", got)
	}
	if got := endCalls.Load(); got != 1 {
		t.Fatalf("expected speech-end callback once, got %d", got)
	}
}

func TestProcessMessageAccumulatesFinalsAcrossUtterance(t *testing.T) {
	var finals []string
	var interims []string
	endCalls := atomic.Int32{}

	client := &TranscriptionClient{}
	callbacks, _ := newCallbackConfig(speechtotext.TranscriptionOptions{
		InterimTranscriptionCallback: func(transcript string) { interims = append(interims, transcript) },
		TranscriptionCallback:        func(transcript string) { finals = append(finals, transcript) },
		SpeechEndedCallback:          func() { endCalls.Add(1) },
	})

	client.processMessage([]byte(`{"type":"SpeechStarted"}`), callbacks)
	client.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"こんに"}]}}`), callbacks)
	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":false,"channel":{"alternatives":[{"transcript":"こんにちは"}]}}`), callbacks)
	client.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"元気"}]}}`), callbacks)
	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":true,"channel":{"alternatives":[{"transcript":"元気ですか"}]}}`), callbacks)

	if len(finals) != 1 || finals[0] != "こんにちは 元気ですか" {
		t.Fatalf("expected one accumulated final transcript, got %q", finals)
	}
	if len(interims) != 2 {
		t.Fatalf("expected two interim updates, got %q", interims)
	}
	if interims[1] != "こんにちは 元気" {
		t.Fatalf("expected interim update to include accumulated finals, got %q", interims[1])
	}
	if got := endCalls.Load(); got != 1 {
		t.Fatalf("expected speech-end callback once, got %d", got)
	}
}

func TestProcessMessageUtteranceEndFlushesUnendedSegment(t *testing.T) {
	var finals []string

	client := &TranscriptionClient{}
	callbacks, _ := newCallbackConfig(speechtotext.TranscriptionOptions{
		TranscriptionCallback: func(transcript string) { finals = append(finals, transcript) },
	})

	client.processMessage([]byte(`{"type":"SpeechStarted"}`), callbacks)
	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":false,"channel":{"alternatives":[{"transcript":"はい"}]}}`), callbacks)
	client.processMessage([]byte(`{"type":"UtteranceEnd"}`), callbacks)

	if len(finals) != 1 || finals[0] != "はい" {
		t.Fatalf("expected utterance end to flush the transcript, got %q", finals)
	}

	// A second utterance end without new speech must not flush again.
	client.processMessage([]byte(`{"type":"UtteranceEnd"}`), callbacks)
	if len(finals) != 1 {
		t.Fatalf("expected no duplicate flush, got %q", finals)
	}
}
