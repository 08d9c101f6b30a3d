package elevenlabs

import (
	"context"
	"fmt"
	"os"

	"github.com/sage-agents/sage-core/core/audio"
	"github.com/sage-agents/sage-core/core/jobs"
)

type Client struct {
	apiKey string
	model  string
	voice  string

	encodingInfo audio.EncodingInfo
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithVoice(voiceID string) ClientOption {
	return func(c *Client) { c.voice = voiceID }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) ClientOption {
	return func(c *Client) {
		if encodingInfo.IsZero() {
			return
		}
		c.encodingInfo = encodingInfo
	}
}

func NewClient(_ context.Context, opts ...ClientOption) (*Client, error) {
	apiKey, ok := os.LookupEnv("ELEVENLABS_API_KEY")
	if !ok {
		return nil, fmt.Errorf("elevenlabs api key not found")
	}

	client := &Client{
		apiKey:       apiKey,
		model:        jobs.DefaultTTSModel,
		voice:        jobs.DefaultTTSVoice,
		encodingInfo: audio.DefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.voice == "" {
		return nil, fmt.Errorf("invalid voice %q", client.voice)
	}

	return client, nil
}
