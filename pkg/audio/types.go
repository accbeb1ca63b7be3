// ABOUTME: Audio type definitions
// ABOUTME: Defines sample formats, channel layouts and the source/target format triple
package audio

import "fmt"

// SampleFormat names how a single sample is stored. All formats handled by
// the native pipeline are packed (interleaved) and little-endian.
type SampleFormat string

const (
	SampleFormatS16 SampleFormat = "s16"
	SampleFormatS24 SampleFormat = "s24" // 3 bytes per sample
	SampleFormatS32 SampleFormat = "s32"
	SampleFormatF32 SampleFormat = "flt"
)

// BytesPerSample returns the storage width of one sample, or 0 if unknown
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case SampleFormatS16:
		return 2
	case SampleFormatS24:
		return 3
	case SampleFormatS32, SampleFormatF32:
		return 4
	default:
		return 0
	}
}

// ChannelLayout identifies the speaker arrangement of a stream
type ChannelLayout struct {
	Name     string
	Channels int
}

var (
	LayoutMono     = ChannelLayout{Name: "mono", Channels: 1}
	LayoutStereo   = ChannelLayout{Name: "stereo", Channels: 2}
	LayoutSurround = ChannelLayout{Name: "3.0", Channels: 3}
	LayoutQuad     = ChannelLayout{Name: "quad", Channels: 4}
	Layout5Point0  = ChannelLayout{Name: "5.0", Channels: 5}
	Layout5Point1  = ChannelLayout{Name: "5.1", Channels: 6}
	Layout6Point1  = ChannelLayout{Name: "6.1", Channels: 7}
	Layout7Point1  = ChannelLayout{Name: "7.1", Channels: 8}
)

var defaultLayouts = []ChannelLayout{
	LayoutMono, LayoutStereo, LayoutSurround, LayoutQuad,
	Layout5Point0, Layout5Point1, Layout6Point1, Layout7Point1,
}

// DefaultLayout returns the conventional layout for a channel count
func DefaultLayout(channels int) ChannelLayout {
	if channels >= 1 && channels <= len(defaultLayouts) {
		return defaultLayouts[channels-1]
	}
	return ChannelLayout{Name: fmt.Sprintf("%dc", channels), Channels: channels}
}

func (l ChannelLayout) String() string {
	return l.Name
}

// Format describes the sample format, channel layout and sample rate of PCM data.
// A resampler is only valid for the Format it was built for.
type Format struct {
	SampleFormat SampleFormat
	Layout       ChannelLayout
	SampleRate   int
}

// Channels returns the channel count of the layout
func (f Format) Channels() int {
	return f.Layout.Channels
}

// FrameSize returns the byte size of one sample across all channels
func (f Format) FrameSize() int {
	return f.SampleFormat.BytesPerSample() * f.Layout.Channels
}

func (f Format) String() string {
	return fmt.Sprintf("%s %s %dHz", f.SampleFormat, f.Layout, f.SampleRate)
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	// Take lower 24 bits, pack little-endian
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	// Reconstruct 24-bit value and sign-extend to 32-bit
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF // Set upper 8 bits to 1 for negative values
	}
	return val
}

// Float32ToInt16 converts a float32 sample in [-1, 1] to int16 with clipping
func Float32ToInt16(sample float32) int16 {
	if sample >= 1 {
		return 32767
	}
	if sample <= -1 {
		return -32768
	}
	return int16(sample * 32767)
}
