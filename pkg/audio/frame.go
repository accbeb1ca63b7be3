// ABOUTME: Packed PCM frame buffer and sample extraction
// ABOUTME: Converts packed sample bytes to float32 without reading past the valid span
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Frame holds packed, interleaved PCM. Data may be larger than the valid
// region; only the first NbSamples*Format.FrameSize() bytes are meaningful.
type Frame struct {
	Format    Format
	NbSamples int
	Data      []byte
}

// NewFrame allocates a frame able to hold capacity samples per channel
func NewFrame(format Format, capacity int) *Frame {
	return &Frame{
		Format: format,
		Data:   make([]byte, capacity*format.FrameSize()),
	}
}

// Capacity returns how many samples per channel fit in Data
func (f *Frame) Capacity() int {
	size := f.Format.FrameSize()
	if size == 0 {
		return 0
	}
	return len(f.Data) / size
}

// Reset marks the frame empty while keeping its buffer
func (f *Frame) Reset() {
	f.NbSamples = 0
}

// ValidBytes computes the byte span holding NbSamples samples across all
// channels. It fails if that span does not fit inside Data.
func (f *Frame) ValidBytes() (int, error) {
	width := f.Format.SampleFormat.BytesPerSample()
	if width == 0 {
		return 0, fmt.Errorf("unknown sample format: %q", f.Format.SampleFormat)
	}
	if f.NbSamples < 0 || f.Format.Channels() < 0 {
		return 0, fmt.Errorf("invalid frame shape: %d samples, %d channels", f.NbSamples, f.Format.Channels())
	}
	n := f.NbSamples * f.Format.Channels() * width
	if n > len(f.Data) {
		return 0, fmt.Errorf("frame claims %d bytes but buffer holds %d", n, len(f.Data))
	}
	return n, nil
}

// AppendFloat32 appends the valid samples of a packed float32 frame to dst.
// Bytes past the valid span are never read.
func AppendFloat32(dst []float32, f *Frame) ([]float32, error) {
	if f.Format.SampleFormat != SampleFormatF32 {
		return dst, fmt.Errorf("expected %s frame, got %s", SampleFormatF32, f.Format.SampleFormat)
	}
	n, err := f.ValidBytes()
	if err != nil {
		return dst, err
	}
	raw := f.Data[:n]
	for i := 0; i+4 <= len(raw); i += 4 {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(raw[i:])))
	}
	return dst, nil
}

// PutFloat32 writes samples into f.Data as packed little-endian float32
// starting at sample offset off (counted across channels).
func PutFloat32(f *Frame, off int, samples []float32) {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(f.Data[(off+i)*4:], math.Float32bits(s))
	}
}

// ToFloat32 decodes packed samples of the given format into float32 values
// in [-1, 1). Trailing bytes that do not form a whole sample are ignored.
func ToFloat32(format SampleFormat, data []byte, out []float32) ([]float32, error) {
	width := format.BytesPerSample()
	if width == 0 {
		return out, fmt.Errorf("unsupported sample format: %q", format)
	}
	count := len(data) / width
	for i := 0; i < count; i++ {
		b := data[i*width:]
		switch format {
		case SampleFormatS16:
			out = append(out, float32(int16(binary.LittleEndian.Uint16(b)))/32768)
		case SampleFormatS24:
			out = append(out, float32(SampleFrom24Bit([3]byte{b[0], b[1], b[2]}))/8388608)
		case SampleFormatS32:
			out = append(out, float32(float64(int32(binary.LittleEndian.Uint32(b)))/2147483648))
		case SampleFormatF32:
			out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}
	}
	return out, nil
}
