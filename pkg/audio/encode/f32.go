// ABOUTME: Raw float32 PCM writer
// ABOUTME: Writes samples as packed little-endian IEEE floats
package encode

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// F32Encoder writes headerless float32 little-endian samples
type F32Encoder struct {
	w   io.Writer
	buf []byte
}

// NewF32 creates a raw float32 encoder
func NewF32(w io.Writer) *F32Encoder {
	return &F32Encoder{w: w}
}

// Write appends samples as 4-byte little-endian floats
func (e *F32Encoder) Write(samples []float32) error {
	if cap(e.buf) < len(samples)*4 {
		e.buf = make([]byte, len(samples)*4)
	}
	out := e.buf[:len(samples)*4]
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}

	if _, err := e.w.Write(out); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}

// Close is a no-op; raw output has no trailer
func (e *F32Encoder) Close() error {
	return nil
}
