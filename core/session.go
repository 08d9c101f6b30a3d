package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sage-agents/sage-core/core/audio"
	"github.com/sage-agents/sage-core/core/events"
	"github.com/sage-agents/sage-core/core/jobs"
	"github.com/sage-agents/sage-core/core/llms"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Session drives one conversational job: it resolves the job configuration,
// streams user speech through the transcription client, generates and speaks
// responses, and republishes completed turns over the room channel.
type Session struct {
	speechToText *speechToText
	llm          LLMWithStream
	textToSpeech TextToSpeech
	roomChannel  RoomChannel

	jobMetadata       string
	instructionPrompt string
	openingMessage    *string

	encodingInfo audio.EncodingInfo

	conversation conversation
	bridge       *transcriptBridge
	emitEvent    eventEmitter

	responsePipeline atomic.Pointer[responsePipeline]

	baseContext context.Context
	baseCancel  context.CancelFunc

	started   atomic.Bool
	closeOnce sync.Once
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		speechToText: newSpeechToText(nil),
		encodingInfo: audio.DefaultEncodingInfo(),
		emitEvent:    noopEventEmitter,
		baseContext:  context.Background(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start resolves the job configuration and begins handling the conversation.
//
// Contract: call Start at most once per session instance.
func (s *Session) Start(ctx context.Context, opts ...StartOption) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("session already started")
	}

	ctx, span := tracer.Start(ctx, "start session")
	defer span.End()

	startOptions := StartOptions{}
	for _, opt := range opts {
		opt(&startOptions)
	}

	s.baseContext, s.baseCancel = context.WithCancel(ctx)

	s.instructionPrompt = jobs.ResolvePrompt(s.jobMetadata)
	if opening, ok := jobs.ResolveOpeningMessage(s.jobMetadata); ok {
		s.openingMessage = &opening
	}

	// Final transcripts drive turn taking in addition to any observer
	// callback.
	startOptions.onTranscription = chainTranscriptionHandler(startOptions.onTranscription, func(transcript string) {
		go s.respond(transcript)
	})

	emitters := []eventEmitter{newCallbackEventEmitter(startOptions)}
	if s.roomChannel != nil {
		s.bridge = newTranscriptBridge(s.baseContext, s.roomChannel)
		emitters = append(emitters, s.bridge.handleEvent)
	} else {
		// Degraded mode: the conversation continues, completed turns are
		// simply not republished.
		logger.Warn("no room channel configured, transcript publishing disabled")
	}
	s.emitEvent = combineEventEmitters(emitters...)
	s.speechToText.SetEventEmitter(s.emitEvent)

	if err := s.speechToText.Start(s.baseContext, s.encodingInfo); err != nil {
		recordedErr := fmt.Errorf("failed to initialize speech-to-text: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	if s.openingMessage != nil {
		go s.Say(*s.openingMessage)
	}

	return nil
}

func chainTranscriptionHandler(callback func(string), handler func(string)) func(string) {
	if callback == nil {
		return handler
	}
	return func(transcript string) {
		callback(transcript)
		handler(transcript)
	}
}

// respond runs one generated assistant turn for the given user transcript.
func (s *Session) respond(transcript string) {
	if s.llm == nil {
		return
	}

	ctx, span := tracer.Start(s.baseContext, "respond to transcript")
	defer span.End()

	history := s.conversation.History()
	s.conversation.appendTurn(llms.TurnRoleUser, transcript)

	pipeline := newResponsePipeline(responsePipelineConfig{
		llm:          s.llm,
		prompt:       &transcript,
		instructions: s.instructionPrompt,
		history:      history,

		textToSpeech: s.textToSpeech,
		encodingInfo: s.encodingInfo,

		emitEvent: s.emitEvent,
	})
	s.runPipeline(ctx, pipeline)
}

// Say speaks a scripted message as an assistant turn, bypassing generation.
func (s *Session) Say(message string) {
	ctx, span := tracer.Start(s.baseContext, "say message")
	defer span.End()

	pipeline := newResponsePipeline(responsePipelineConfig{
		textToSpeech: s.textToSpeech,
		encodingInfo: s.encodingInfo,

		emitEvent: s.emitEvent,
	})
	pipeline.preload(message)
	s.runPipeline(ctx, pipeline)
}

func (s *Session) runPipeline(ctx context.Context, pipeline *responsePipeline) {
	// A new turn supersedes whatever is still speaking.
	if previous := s.responsePipeline.Swap(pipeline); previous != nil {
		previous.Cancel()
	}
	defer s.responsePipeline.CompareAndSwap(pipeline, nil)

	response, err := pipeline.Run(ctx)
	if err != nil {
		recordedErr := fmt.Errorf("response pipeline failed: %w", err)
		span := trace.SpanFromContext(ctx)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
	}

	if response == "" || pipeline.IsCancelled() {
		return
	}

	s.conversation.appendTurn(llms.TurnRoleAssistant, response)
	s.emitEvent(events.NewAssistantResponseFinal())
	s.emitEvent(events.NewAssistantTurnFinalized(response))
}

// SendAudio forwards captured audio to the transcription client.
func (s *Session) SendAudio(audio []byte) error {
	return s.speechToText.SendAudio(audio)
}

// CancelTurn cancels the in-flight assistant turn, if any.
func (s *Session) CancelTurn() {
	s.responsePipeline.Load().Cancel()
}

// History returns a point-in-time copy of the finalized conversation turns.
func (s *Session) History() []llms.Turn {
	return s.conversation.History()
}

// InstructionPrompt returns the resolved instruction prompt. Empty before
// Start.
func (s *Session) InstructionPrompt() string {
	return s.instructionPrompt
}

// OpeningMessage returns the resolved opening message, or nil when the job
// metadata does not configure one.
func (s *Session) OpeningMessage() *string {
	return s.openingMessage
}

// PublishFailures exposes transcript publish failures for observation.
// Returns nil when no room channel is configured.
func (s *Session) PublishFailures() <-chan PublishFailure {
	if s.bridge == nil {
		return nil
	}
	return s.bridge.Failures()
}

// Close tears the session down: the active turn is cancelled, the
// transcription stream is closed, and outstanding transcript publishes are
// awaited.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.responsePipeline.Load().Cancel()

		if err := s.speechToText.Close(s.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close speech-to-text client: %w", err)
			span := trace.SpanFromContext(s.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		// Outstanding transcript publishes run on the base context; await
		// them before cancelling it so teardown does not force them to fail.
		s.bridge.Wait()

		if s.baseCancel != nil {
			s.baseCancel()
		}
	})
}
