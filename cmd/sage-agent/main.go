// Command sage-agent runs a conversational interview session against the
// local microphone, with a health endpoint for the dispatching system.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	session "github.com/sage-agents/sage-core/core"
	"github.com/sage-agents/sage-core/core/audio/miniaudio"
	"github.com/sage-agents/sage-core/core/jobs"
	"github.com/sage-agents/sage-core/core/llms/openai"
	sttdeepgram "github.com/sage-agents/sage-core/core/speechtotext/deepgram"
	"github.com/sage-agents/sage-core/core/texttospeech/elevenlabs"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("%s failed: %v", jobs.AgentName(), err)
	}
}

func run(ctx context.Context) error {
	transcriptionClient, err := sttdeepgram.NewTranscriptionClient()
	if err != nil {
		return fmt.Errorf("failed to create transcription client: %w", err)
	}

	llmClient, err := openai.NewClient(os.Getenv("LLM_MODEL"))
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	synthesisClient, err := elevenlabs.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create synthesis client: %w", err)
	}

	capture, err := miniaudio.NewClient()
	if err != nil {
		return fmt.Errorf("failed to open audio capture: %w", err)
	}
	defer capture.Close()

	sess := session.NewSession(
		session.WithJobMetadata(os.Getenv("JOB_METADATA")),
		session.WithSpeechToTextClient(transcriptionClient),
		session.WithStreamingLLM(llmClient),
		session.WithTextToSpeechClient(synthesisClient),
		session.WithEncodingInfo(capture.EncodingInfo()),
	)
	defer sess.Close()

	err = sess.Start(ctx,
		session.WithTranscriptionCallback(func(transcript string) {
			log.Printf("candidate: %s", transcript)
		}),
		session.WithResponseEndCallback(func() {
			log.Printf("interviewer turn complete")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if err := capture.StartCapture(ctx, func(audio []byte) {
		_ = sess.SendAudio(audio)
	}); err != nil {
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	go serveHealth(ctx)

	<-ctx.Done()
	return nil
}

func serveHealth(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/health", otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), "health"))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", jobs.HTTPPort()),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	log.Printf("%s serving health on %s", jobs.AgentName(), server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("health server error: %v", err)
	}
}
