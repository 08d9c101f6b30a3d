package texttospeech

import "github.com/sage-agents/sage-core/core/audio"

type SynthesisOptions struct {
	// SpeechAudioCallback is called when the TTS client produces audio.
	SpeechAudioCallback func(audio []byte)
	// SpeechMarkCallback is called when the TTS client has produced speech up
	// to a previously requested mark. Each mark is reported once.
	SpeechMarkCallback func(string)
	// SpeechEndedCallback is called when the TTS client has finished
	// producing speech for the stream.
	SpeechEndedCallback func()
	// ErrorCallback is called when the TTS client encounters an error, this
	// usually means the generation has been cancelled.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type SynthesisOption func(*SynthesisOptions)

func WithSpeechAudioCallback(callback func([]byte)) SynthesisOption {
	return func(o *SynthesisOptions) { o.SpeechAudioCallback = callback }
}

func WithSpeechMarkCallback(callback func(string)) SynthesisOption {
	return func(o *SynthesisOptions) { o.SpeechMarkCallback = callback }
}

func WithSpeechEndedCallback(callback func()) SynthesisOption {
	return func(o *SynthesisOptions) { o.SpeechEndedCallback = callback }
}

func WithErrorCallback(callback func(error)) SynthesisOption {
	return func(o *SynthesisOptions) { o.ErrorCallback = callback }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesisOption {
	return func(o *SynthesisOptions) {
		if encodingInfo.IsZero() {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}

type SpeechGenerator interface {
	// SendText sends text to the generator. Speech is generated in the order
	// text is sent.
	//
	// SendText will error if EndOfText, Cancel or Close has been called.
	SendText(string) error
	// Mark marks the current point in the text. The mark is reported through
	// SpeechMarkCallback once the text sent up to it has been generated.
	//
	// Mark will error if EndOfText, Cancel or Close has been called.
	Mark() error
	// EndOfText signals that no more text will be sent. The generator closes
	// itself after the remaining speech has been generated.
	//
	// EndOfText will error if Cancel or Close has been called.
	EndOfText() error
	// Cancel immediately stops further speech generation and closes the
	// generator.
	//
	// Repeated calls to Cancel are ignored.
	Cancel() error
	// Close immediately closes the generator. No more speech is produced
	// after this call.
	//
	// Repeated calls to Close are ignored.
	Close() error
}
