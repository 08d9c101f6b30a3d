package deepgram

import (
	"fmt"

	"github.com/sage-agents/sage-core/core/audio"
)

// validateEncoding checks the requested format against what the listen API
// accepts for raw audio.
func validateEncoding(encoding audio.EncodingInfo) error {
	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
	default:
		return fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	switch encoding.Encoding {
	case audio.EncodingLinear16:
	case audio.EncodingAlaw, audio.EncodingMulaw:
		if encoding.SampleRate != 8000 {
			return fmt.Errorf("unsupported sample rate %d for %s encoding", encoding.SampleRate, encoding.Encoding)
		}
	default:
		return fmt.Errorf("unsupported encoding %q", encoding.Encoding)
	}

	return nil
}
