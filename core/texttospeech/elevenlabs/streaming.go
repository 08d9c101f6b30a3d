package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sage-agents/sage-core/core/audio"
	"github.com/sage-agents/sage-core/core/texttospeech"
)

type speechStream struct {
	ws *websocket.Conn
	mu sync.Mutex

	options texttospeech.SynthesisOptions

	// pendingMark accumulates text since the last mark. ElevenLabs sends no
	// flush confirmation, so marks are reported when the flush is written.
	pendingMark string

	textComplete bool
	cancelled    bool
	closed       bool
}

// NewSpeechGenerator opens a stream-input synthesis connection. Audio is
// reported through the configured callbacks until EndOfText has been fully
// synthesized or the stream is cancelled.
func (c *Client) NewSpeechGenerator(ctx context.Context, opts ...texttospeech.SynthesisOption) (texttospeech.SpeechGenerator, error) {
	stream := &speechStream{
		options: texttospeech.SynthesisOptions{
			SpeechAudioCallback: func([]byte) {},
			SpeechMarkCallback:  func(string) {},
			SpeechEndedCallback: func() {},
			ErrorCallback:       func(error) {},
			EncodingInfo:        c.encodingInfo,
		},
	}

	for _, opt := range opts {
		opt(&stream.options)
	}

	var err error
	if stream.ws, err = connectWebsocket(ctx, c.apiKey, c.model, c.voice, stream.options.EncodingInfo); err != nil {
		return nil, fmt.Errorf("failed to open websocket: %w", err)
	}

	// An initial blank message carries the voice settings and primes the
	// stream before any real text arrives.
	if err := stream.writeWebsocketMessage(inputMessage{
		Text:          " ",
		VoiceSettings: &voiceSettings{Stability: 0.5, SimilarityBoost: 0.8},
	}); err != nil {
		_ = stream.ws.Close()
		return nil, fmt.Errorf("failed to prime stream: %w", err)
	}

	go stream.processIncomingMessages()

	return stream, nil
}

func connectWebsocket(ctx context.Context, apiKey, model, voiceID string, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	urlValues := url.Values{}
	urlValues.Set("model_id", model)
	urlValues.Set("output_format", outputFormat(encodingInfo))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx,
		(&url.URL{
			Scheme: "wss",
			Host:   "api.elevenlabs.io",
			Path:   "/v1/text-to-speech/" + voiceID + "/stream-input",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"xi-api-key": {apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to elevenlabs: %w", err)
	}

	return conn, nil
}

func outputFormat(encodingInfo audio.EncodingInfo) string {
	return fmt.Sprintf("pcm_%d", encodingInfo.SampleRate)
}

func (s *speechStream) processIncomingMessages() {
	for {
		_, msg, err := s.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !s.closed {
				log.Printf("Websocket read error: %v", err)
				s.options.ErrorCallback(err)
			}
			_ = s.Close()
			return
		}

		var parsedMsg outputMessage
		if err := json.Unmarshal(msg, &parsedMsg); err != nil {
			log.Printf("Failed to unmarshal elevenlabs message: %v", err)
			continue
		}

		if parsedMsg.Audio != "" {
			audioBytes, err := base64.StdEncoding.DecodeString(parsedMsg.Audio)
			if err != nil {
				log.Printf("Failed to decode elevenlabs audio: %v", err)
				continue
			}
			if len(audioBytes) > 0 {
				s.options.SpeechAudioCallback(audioBytes)
			}
		}

		if parsedMsg.IsFinal != nil && *parsedMsg.IsFinal {
			s.options.SpeechEndedCallback()
			_ = s.Close()
			return
		}
	}
}

func (s *speechStream) SendText(text string) error {
	if s.closed {
		return fmt.Errorf("speech stream closed")
	} else if s.cancelled {
		return fmt.Errorf("speech stream cancelled")
	} else if s.textComplete {
		return fmt.Errorf("speech stream text already completed")
	}

	if err := s.writeWebsocketMessage(inputMessage{Text: text}); err != nil {
		return fmt.Errorf("failed to send websocket text message: %w", err)
	}
	s.pendingMark += text
	return nil
}

func (s *speechStream) Mark() error {
	if s.closed {
		return fmt.Errorf("speech stream closed")
	} else if s.cancelled {
		return fmt.Errorf("speech stream cancelled")
	} else if s.textComplete {
		return fmt.Errorf("speech stream text already completed")
	}

	if err := s.writeWebsocketMessage(inputMessage{Text: " ", Flush: true}); err != nil {
		return fmt.Errorf("failed to send websocket flush message: %w", err)
	}

	s.options.SpeechMarkCallback(s.pendingMark)
	s.pendingMark = ""
	return nil
}

func (s *speechStream) EndOfText() error {
	if s.closed {
		return fmt.Errorf("speech stream closed")
	} else if s.cancelled {
		return fmt.Errorf("speech stream cancelled")
	}

	s.textComplete = true
	if err := s.writeWebsocketMessage(inputMessage{Text: ""}); err != nil {
		return fmt.Errorf("failed to send websocket end message: %w", err)
	}
	return nil
}

func (s *speechStream) Cancel() error {
	if s.closed {
		return fmt.Errorf("speech stream closed")
	}
	if s.cancelled {
		return nil
	}

	// There is no clear message in the stream-input protocol, dropping the
	// connection is the only way to stop generation.
	s.cancelled = true
	return s.Close()
}

func (s *speechStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.ws.Close(); err != nil {
		return fmt.Errorf("failed to close websocket: %w", err)
	}
	return nil
}

type inputMessage struct {
	Text          string         `json:"text"`
	Flush         bool           `json:"flush,omitempty"`
	VoiceSettings *voiceSettings `json:"voice_settings,omitempty"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type outputMessage struct {
	Audio   string `json:"audio"`
	IsFinal *bool  `json:"isFinal"`
}

func (s *speechStream) writeWebsocketMessage(msg inputMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("websocket connection closed")
	}
	if s.ws == nil {
		return fmt.Errorf("websocket connection closed")
	}

	if err := s.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}
