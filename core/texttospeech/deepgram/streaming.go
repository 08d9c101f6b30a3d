package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sage-agents/sage-core/core/audio"
	"github.com/sage-agents/sage-core/core/texttospeech"
)

type speechStream struct {
	ws *websocket.Conn
	mu sync.Mutex

	// segments holds text between marks; segment boundaries map to
	// outstanding Flushed confirmations.
	segments   []string
	segmentsMu sync.Mutex

	options texttospeech.SynthesisOptions

	textComplete bool
	cancelled    bool
	closed       bool
}

// NewSpeechGenerator opens a streaming synthesis connection. Audio and mark
// confirmations are reported through the configured callbacks until EndOfText
// has been fully synthesized or the stream is cancelled.
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
	if stream.ws, err = connectWebsocket(ctx, c.apiKey, c.voice, stream.options.EncodingInfo); err != nil {
		return nil, fmt.Errorf("failed to open websocket: %w", err)
	}

	go stream.processIncomingMessages()

	return stream, nil
}

func connectWebsocket(ctx context.Context, apiKey string, v voice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Encoding)
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(v))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx,
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (s *speechStream) processIncomingMessages() {
	for {
		msgType, msg, err := s.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !s.closed {
				log.Printf("Websocket read error: %v", err)
				s.options.ErrorCallback(err)
			}
			if err := s.Cancel(); err != nil {
				_ = s.Close() // Ignored on purpose
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if len(msg) > 0 {
				s.options.SpeechAudioCallback(msg)
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				log.Printf("Failed to unmarshal deepgram message: %v", err)
				continue
			}

			switch parsedMsg.Type {
			case "Flushed":
				s.confirmFlush()
			}
		}
	}
}

func (s *speechStream) confirmFlush() {
	s.segmentsMu.Lock()
	defer s.segmentsMu.Unlock()

	if len(s.segments) > 0 {
		s.options.SpeechMarkCallback(s.segments[0])
		s.segments = s.segments[1:]
	}

	if len(s.segments) == 0 && s.textComplete {
		s.options.SpeechEndedCallback()
		_ = s.Close()
		return
	}

	// Text held back behind the confirmed mark can now go out.
	if len(s.segments) > 0 {
		if err := s.sendWebsocketMessage(speakMsg(s.segments[0])); err != nil {
			log.Printf("Failed to send deepgram text: %v", err)
		}
	}
	if len(s.segments) > 1 {
		if err := s.sendWebsocketMessage(flushMsg); err != nil {
			log.Printf("Failed to flush deepgram buffer: %v", err)
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

	s.segmentsMu.Lock()
	defer s.segmentsMu.Unlock()

	if len(s.segments) == 0 {
		s.segments = append(s.segments, "")
	}

	if len(s.segments) == 1 {
		if err := s.sendWebsocketMessage(speakMsg(text)); err != nil {
			return fmt.Errorf("failed to send websocket speak message: %w", err)
		}
	}
	s.segments[len(s.segments)-1] += text
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

	s.segmentsMu.Lock()
	defer s.segmentsMu.Unlock()

	if len(s.segments) == 1 {
		if err := s.sendWebsocketMessage(flushMsg); err != nil {
			return fmt.Errorf("failed to send websocket flush message: %w", err)
		}
	}

	// NOTE: Deepgram sometimes drops text that arrives right after a flush.
	// Text behind the mark is held back until the flush confirmation arrives.
	s.segments = append(s.segments, "")

	return nil
}

func (s *speechStream) EndOfText() error {
	if s.closed {
		return fmt.Errorf("speech stream closed")
	} else if s.cancelled {
		return fmt.Errorf("speech stream cancelled")
	}

	s.segmentsMu.Lock()
	defer s.segmentsMu.Unlock()

	s.textComplete = true
	if len(s.segments) == 0 || (len(s.segments) == 1 && s.segments[0] == "") {
		s.segments = nil
		s.options.SpeechEndedCallback()
		_ = s.Close()
		return nil
	}

	if err := s.sendWebsocketMessage(flushMsg); err != nil {
		return fmt.Errorf("failed to send websocket flush message: %w", err)
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

	s.cancelled = true
	if err := s.sendWebsocketMessage(clearMsg); err != nil {
		return fmt.Errorf("failed to send websocket clear message: %w", err)
	}

	_ = s.Close()
	return nil
}

func (s *speechStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.writeWebsocketMessage(closeMsg); err != nil {
		if aggressiveCloseErr := s.ws.Close(); aggressiveCloseErr != nil {
			return fmt.Errorf("failed to close websocket: %w", errors.Join(err, aggressiveCloseErr))
		}
	}
	return nil
}

type websocketMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

var (
	speakMsg = func(text string) websocketMessage {
		return websocketMessage{Type: "Speak", Text: text}
	}
	flushMsg = websocketMessage{Type: "Flush"}
	clearMsg = websocketMessage{Type: "Clear"}
	closeMsg = websocketMessage{Type: "Close"}
)

func (s *speechStream) sendWebsocketMessage(msg websocketMessage) error {
	if s.closed {
		return fmt.Errorf("websocket connection closed")
	}
	return s.writeWebsocketMessage(msg)
}

func (s *speechStream) writeWebsocketMessage(msg websocketMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ws == nil {
		return fmt.Errorf("websocket connection closed")
	}

	if err := s.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}
