// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for PCM file writers and format selection
package encode

import (
	"fmt"
	"io"
)

// Output formats
const (
	FormatF32 = "f32"
	FormatWAV = "wav"
)

// Encoder writes mono float32 samples in [-1, 1]
type Encoder interface {
	// Write appends samples to the output
	Write(samples []float32) error

	// Close finishes the output. The underlying writer is not closed.
	Close() error
}

// New creates an encoder for format writing to w at sampleRate
func New(format string, w io.WriteSeeker, sampleRate int) (Encoder, error) {
	switch format {
	case FormatF32:
		return NewF32(w), nil
	case FormatWAV:
		return NewWAV(w, sampleRate)
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}
