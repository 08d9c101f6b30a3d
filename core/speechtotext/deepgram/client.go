package deepgram

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sage-agents/sage-core/core/jobs"
)

type TranscriptionClient struct {
	apiKey   string
	model    string
	language string

	conn   *websocket.Conn
	connMu sync.Mutex

	lastMsgTs time.Time

	accumulatedTranscript string
	unendedSegment        bool
}

type ClientOption func(*TranscriptionClient)

func WithModel(model string) ClientOption {
	return func(c *TranscriptionClient) { c.model = model }
}

func WithLanguage(language string) ClientOption {
	return func(c *TranscriptionClient) { c.language = language }
}

func NewTranscriptionClient(opts ...ClientOption) (*TranscriptionClient, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	client := &TranscriptionClient{
		apiKey:   apiKey,
		model:    jobs.DefaultSTTModel,
		language: jobs.DefaultSTTLanguage,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
