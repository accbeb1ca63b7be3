// ABOUTME: Decoded PCM buffer definition
// ABOUTME: Interleaved float32 samples tagged with the source format they were decoded from
package audio

// Buffer represents decoded PCM audio. Samples are interleaved float32 in
// [-1, 1) regardless of the source sample format; the Format still reports the
// source triple so a resampler can detect format changes.
type Buffer struct {
	PTS     int64 // stream timestamp of the first sample (stream time base)
	Samples []float32
	format  Format
}

// NewBuffer wraps interleaved samples decoded from format
func NewBuffer(format Format, pts int64, samples []float32) *Buffer {
	return &Buffer{
		PTS:     pts,
		Samples: samples,
		format:  format,
	}
}

// Format returns the source format the samples were decoded from
func (b *Buffer) Format() Format {
	return b.format
}

// NbSamples returns the number of samples per channel
func (b *Buffer) NbSamples() int {
	ch := b.format.Channels()
	if ch == 0 {
		return 0
	}
	return len(b.Samples) / ch
}

// Interleaved returns the raw interleaved samples
func (b *Buffer) Interleaved() []float32 {
	return b.Samples
}
