package audio

const (
	DefaultSampleRate = 16000
	DefaultEncoding   = EncodingLinear16
)

const (
	EncodingLinear16 = "linear16"
	EncodingMulaw    = "mulaw"
	EncodingAlaw     = "alaw"
)

// EncodingInfo describes the raw audio format exchanged with providers.
type EncodingInfo struct {
	SampleRate int
	Encoding   string
}

func DefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Encoding: DefaultEncoding}
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Encoding == ""
}

// BytesPerSample returns the sample width in bytes, or -1 for unknown
// encodings.
func (e EncodingInfo) BytesPerSample() int {
	switch e.Encoding {
	case EncodingMulaw, EncodingAlaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

// SilenceValue returns the byte value that encodes silence for the format.
func (e EncodingInfo) SilenceValue() byte {
	switch e.Encoding {
	case EncodingAlaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	}
	return 0
}
