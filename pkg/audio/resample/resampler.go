// ABOUTME: Linear resampler bound to a single source format
// ABOUTME: Reports format changes and queues output that exceeds the destination frame
package resample

import (
	"fmt"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
)

// interleaved is implemented by frames that expose float32 samples
type interleaved interface {
	Interleaved() []float32
}

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	src      audio.Format
	dst      audio.Format
	ratio    float64 // input samples per output sample
	position float64
	last     []float32 // previous input sample, one per output channel
	hasLast  bool
	pending  []float32 // converted output not yet delivered
	mixed    []float32
}

// New creates a resampler from src to dst. dst must be packed float32 with
// either one channel or the same channel count as src.
func New(src, dst audio.Format) (*Resampler, error) {
	if dst.SampleFormat != audio.SampleFormatF32 {
		return nil, fmt.Errorf("unsupported target sample format: %s", dst.SampleFormat)
	}
	if src.SampleRate <= 0 || dst.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates: %d -> %d", src.SampleRate, dst.SampleRate)
	}
	if src.Channels() < 1 {
		return nil, fmt.Errorf("invalid source layout: %s", src.Layout)
	}
	if dst.Channels() != 1 && dst.Channels() != src.Channels() {
		return nil, fmt.Errorf("cannot map %s to %s", src.Layout, dst.Layout)
	}

	return &Resampler{
		src:   src,
		dst:   dst,
		ratio: float64(src.SampleRate) / float64(dst.SampleRate),
		last:  make([]float32, dst.Channels()),
	}, nil
}

// Run converts src into dst and returns how many samples per channel remain queued
func (r *Resampler) Run(src codec.Frame, dst *audio.Frame) (int, error) {
	if src.Format() != r.src {
		return 0, codec.ErrInputChanged
	}
	in, ok := src.(interleaved)
	if !ok {
		return 0, fmt.Errorf("frame type %T does not expose samples", src)
	}

	r.resample(r.mix(in.Interleaved()))
	return r.deliver(dst), nil
}

// Flush moves queued samples into dst and returns how many remain
func (r *Resampler) Flush(dst *audio.Frame) (int, error) {
	return r.deliver(dst), nil
}

// Close releases resampler resources
func (r *Resampler) Close() error {
	r.pending = nil
	return nil
}

// mix maps source channels onto target channels
func (r *Resampler) mix(samples []float32) []float32 {
	inCh := r.src.Channels()
	if r.dst.Channels() == inCh {
		return samples
	}

	// Downmix to mono by averaging channels
	frames := len(samples) / inCh
	r.mixed = r.mixed[:0]
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < inCh; ch++ {
			sum += samples[i*inCh+ch]
		}
		r.mixed = append(r.mixed, sum/float32(inCh))
	}
	return r.mixed
}

// resample interpolates input onto the output grid and queues the result.
// The last input sample is carried into the next call so chunk boundaries
// interpolate like the interior of the signal.
func (r *Resampler) resample(input []float32) {
	channels := r.dst.Channels()
	inputFrames := len(input) / channels
	if inputFrames == 0 {
		return
	}

	// Index 0 refers to the carried sample when there is one
	offset := 0
	if r.hasLast {
		offset = 1
	}
	total := inputFrames + offset

	sample := func(idx, ch int) float32 {
		if idx < offset {
			return r.last[ch]
		}
		return input[(idx-offset)*channels+ch]
	}

	for {
		// Calculate which input frame we need
		idx := int(r.position)
		if idx+1 >= total {
			break
		}

		// Linear interpolation factor
		frac := float32(r.position - float64(idx))
		for ch := 0; ch < channels; ch++ {
			s1 := sample(idx, ch)
			s2 := sample(idx+1, ch)
			r.pending = append(r.pending, s1*(1-frac)+s2*frac)
		}
		r.position += r.ratio
	}

	// Keep position relative to the new carried sample
	r.position -= float64(total - 1)
	for ch := 0; ch < channels; ch++ {
		r.last[ch] = sample(total-1, ch)
	}
	r.hasLast = true
}

// deliver copies as much queued output as fits into dst
func (r *Resampler) deliver(dst *audio.Frame) int {
	channels := r.dst.Channels()
	dst.Format = r.dst

	queued := len(r.pending) / channels
	if dst.Capacity() == 0 {
		dst.Data = make([]byte, queued*r.dst.FrameSize())
	}

	n := queued
	if capacity := dst.Capacity(); n > capacity {
		n = capacity
	}

	audio.PutFloat32(dst, 0, r.pending[:n*channels])
	dst.NbSamples = n

	// Shift remaining samples to the front of the queue
	remaining := copy(r.pending, r.pending[n*channels:])
	r.pending = r.pending[:remaining]

	return queued - n
}
