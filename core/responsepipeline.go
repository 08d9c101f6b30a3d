package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sage-agents/sage-core/core/audio"
	"github.com/sage-agents/sage-core/core/events"
	"github.com/sage-agents/sage-core/core/llms"
	"github.com/sage-agents/sage-core/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// responsePipeline runs one assistant turn: response generation feeds the
// fragment buffer, speech synthesis drains it through the normalizer into the
// configured generator. Either side may be absent.
type responsePipeline struct {
	ctxMu sync.RWMutex
	ctx   context.Context

	llm          LLMWithStream
	prompt       *string
	instructions string
	history      []llms.Turn

	fragmentBuffer *fragmentBuffer
	textToSpeech   TextToSpeech
	encodingInfo   audio.EncodingInfo

	emitEvent eventEmitter
	onCancel  func()

	generatorMu sync.Mutex
	generator   texttospeech.SpeechGenerator

	cancelled       atomic.Bool
	cancelledSignal chan struct{}
}

type responsePipelineConfig struct {
	llm          LLMWithStream
	prompt       *string
	instructions string
	history      []llms.Turn

	textToSpeech TextToSpeech
	encodingInfo audio.EncodingInfo

	emitEvent eventEmitter
	onCancel  func()
}

func newResponsePipeline(config responsePipelineConfig) *responsePipeline {
	emitEvent := config.emitEvent
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}

	return &responsePipeline{
		llm:          config.llm,
		prompt:       config.prompt,
		instructions: config.instructions,
		history:      config.history,

		fragmentBuffer: newFragmentBuffer(),
		textToSpeech:   config.textToSpeech,
		encodingInfo:   config.encodingInfo,

		emitEvent: emitEvent,
		onCancel:  config.onCancel,

		cancelledSignal: make(chan struct{}),
	}
}

// preload seeds the fragment buffer with scripted text, for turns that speak
// a fixed message instead of generating one.
func (p *responsePipeline) preload(message string) {
	p.fragmentBuffer.Add(message)
	p.fragmentBuffer.Complete()
	p.emitEvent(events.NewAssistantResponseSegment(message))
}

// Run executes the pipeline workers and returns the assembled response text.
func (p *responsePipeline) Run(ctx context.Context) (string, error) {
	if p == nil {
		return "", fmt.Errorf("response pipeline is required")
	}

	p.ctxMu.Lock()
	p.ctx = ctx
	p.ctxMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workerErr error
	workerErrMu := sync.Mutex{}
	addWorkerErr := func(err error) {
		if err == nil {
			return
		}
		workerErrMu.Lock()
		workerErr = errors.Join(workerErr, err)
		workerErrMu.Unlock()
	}

	runWorker := func(run workerRun) {
		if err := run(ctx); err != nil {
			addWorkerErr(err)
			cancel()
		}
	}

	wg := &sync.WaitGroup{}
	if p.llm != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWorker(panicSafeNamedWorker("response generation", p.generateResponse))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		runWorker(panicSafeNamedWorker("speech synthesis", p.synthesizeSpeech))
	}()

	wg.Wait()

	response := p.fragmentBuffer.String()
	if workerErr != nil {
		return response, fmt.Errorf("one or more turn processes failed: %w", workerErr)
	}

	return response, nil
}

func (p *responsePipeline) generateResponse(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "generate response")
	defer span.End()

	defer p.fragmentBuffer.Complete()

	stream := p.llm.PromptWithStream(ctx, p.prompt,
		llms.WithSystemPrompt(p.instructions),
		llms.WithTurns(p.history...),
	)

	for chunk, err := range stream.Chunks(ctx) {
		if err != nil {
			err = fmt.Errorf("failed to generate response: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if p.IsCancelled() {
			break
		}

		switch typedChunk := chunk.(type) {
		case llms.StreamContentChunk:
			p.fragmentBuffer.Add(typedChunk.Content())
			p.emitEvent(events.NewAssistantResponseSegment(typedChunk.Content()))
		case llms.StreamUsageChunk:
			span.SetAttributes(
				attribute.Int("llm.usage.input_tokens", typedChunk.Usage().InputTokens),
				attribute.Int("llm.usage.output_tokens", typedChunk.Usage().OutputTokens),
				attribute.Int("llm.usage.total_tokens", typedChunk.Usage().TotalTokens),
			)
		}
	}

	return nil
}

func (p *responsePipeline) synthesizeSpeech(ctx context.Context) error {
	done := withContextCancelHook(ctx, p.fragmentBuffer.Clear)
	defer close(done)

	_, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	if p.textToSpeech == nil {
		// Nothing to synthesize with; drain the buffer so generation can
		// finish and the turn still produces its response text.
		for range p.fragmentBuffer.Fragments {
			if p.IsCancelled() {
				break
			}
		}
		return nil
	}

	speechEnded := make(chan struct{})
	// Generators that fail mid-stream report through the error callback and
	// never signal the end of speech; the failure has to unblock the wait
	// below so the turn can still finalize.
	generatorFailed := make(chan struct{})
	signalGeneratorFailed := sync.OnceFunc(func() { close(generatorFailed) })
	generator, err := p.textToSpeech.NewSpeechGenerator(ctx,
		texttospeech.WithEncodingInfo(p.encodingInfo),
		texttospeech.WithSpeechAudioCallback(func(audio []byte) {
			p.emitEvent(events.NewAssistantSpeechFrame(audio))
		}),
		texttospeech.WithSpeechEndedCallback(func() {
			p.emitEvent(events.NewAssistantSpeechFinal())
			close(speechEnded)
		}),
		texttospeech.WithErrorCallback(func(err error) {
			span.RecordError(fmt.Errorf("speech generation error: %w", err))
			signalGeneratorFailed()
		}),
	)
	if err != nil {
		err = fmt.Errorf("failed to open speech generator: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	p.setGenerator(generator)
	defer p.setGenerator(nil)

	for fragment := range texttospeech.NormalizeChunks(p.fragmentBuffer.Fragments) {
		if p.IsCancelled() {
			break
		}
		if len(fragment) == 0 {
			continue
		}

		if err := generator.SendText(fragment); err != nil {
			span.RecordError(fmt.Errorf("failed to send text to speech generator: %w", err))
			continue
		}
		if strings.ContainsAny(fragment, "。！？") {
			if err := generator.Mark(); err != nil {
				span.RecordError(fmt.Errorf("failed to send mark to speech generator: %w", err))
			}
		}
	}

	if p.IsCancelled() {
		return nil
	}

	if err := generator.EndOfText(); err != nil {
		span.RecordError(fmt.Errorf("failed to end text to speech generator: %w", err))
		return nil
	}

	select {
	case <-speechEnded:
	case <-generatorFailed:
	case <-ctx.Done():
	case <-p.cancelledSignal:
	}

	return nil
}

func (p *responsePipeline) setGenerator(generator texttospeech.SpeechGenerator) {
	p.generatorMu.Lock()
	p.generator = generator
	p.generatorMu.Unlock()
}

func (p *responsePipeline) Cancel() {
	if p == nil || !p.cancelled.CompareAndSwap(false, true) {
		return
	}

	close(p.cancelledSignal)
	p.fragmentBuffer.Clear()

	p.generatorMu.Lock()
	generator := p.generator
	p.generatorMu.Unlock()
	if generator != nil {
		if err := generator.Cancel(); err != nil {
			logger.Warn("failed to cancel speech generator", "error", err)
		}
	}

	p.emitEvent(events.NewTurnCancelled())
	if p.onCancel != nil {
		p.onCancel()
	}
}

func (p *responsePipeline) IsCancelled() bool {
	if p == nil {
		return false
	}

	return p.cancelled.Load()
}

func (p *responsePipeline) Ctx() context.Context {
	if p == nil {
		return nil
	}

	p.ctxMu.RLock()
	defer p.ctxMu.RUnlock()

	return p.ctx
}
