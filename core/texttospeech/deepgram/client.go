package deepgram

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/sage-agents/sage-core/core/audio"
)

type voice string

const (
	VoiceAsteria voice = "aura-asteria-en"
	VoiceOrion   voice = "aura-orion-en"
	VoiceLuna    voice = "aura-luna-en"

	defaultVoice = VoiceAsteria
)

// AvailableVoices lists the voices this client accepts.
func AvailableVoices() []voice {
	return []voice{VoiceAsteria, VoiceOrion, VoiceLuna}
}

type Client struct {
	apiKey string
	voice  voice

	encodingInfo audio.EncodingInfo
}

type ClientOption func(*Client)

func WithVoice(v voice) ClientOption {
	return func(c *Client) { c.voice = v }
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
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	client := &Client{
		apiKey:       apiKey,
		voice:        defaultVoice,
		encodingInfo: audio.DefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(client)
	}

	if !slices.Contains(AvailableVoices(), client.voice) {
		return nil, fmt.Errorf("invalid voice %q", client.voice)
	}

	return client, nil
}
