//go:build ffmpeg

// ABOUTME: libswresample resampler adapter
// ABOUTME: Converts decoded frames to the packed target format and reports buffered delay
package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
)

// Resampler wraps a SwrContext bound to one source format
type Resampler struct {
	swr    *astiav.SoftwareResampleContext
	src    audio.Format
	dst    audio.Format
	layout astiav.ChannelLayout
	out    *astiav.Frame
}

func newResampler(src, dst audio.Format) (*Resampler, error) {
	if dst.SampleFormat != audio.SampleFormatF32 {
		return nil, fmt.Errorf("unsupported target sample format: %s", dst.SampleFormat)
	}
	if dst.SampleRate <= 0 || src.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates: %d -> %d", src.SampleRate, dst.SampleRate)
	}

	var layout astiav.ChannelLayout
	switch dst.Channels() {
	case 1:
		layout = astiav.ChannelLayoutMono
	case 2:
		layout = astiav.ChannelLayoutStereo
	default:
		return nil, fmt.Errorf("unsupported target channel count: %d", dst.Channels())
	}

	swr := astiav.AllocSoftwareResampleContext()
	if swr == nil {
		return nil, errors.New("failed to allocate resample context")
	}

	return &Resampler{
		swr:    swr,
		src:    src,
		dst:    dst,
		layout: layout,
		out:    astiav.AllocFrame(),
	}, nil
}

// Run converts src into dst. The context is configured from the first frame,
// so a frame in any other format yields codec.ErrInputChanged.
func (r *Resampler) Run(src codec.Frame, dst *audio.Frame) (int, error) {
	f, ok := src.(*frame)
	if !ok {
		return 0, fmt.Errorf("frame of type %T was not produced by the ffmpeg decoder", src)
	}
	if f.Format() != r.src {
		return 0, codec.ErrInputChanged
	}
	return r.convert(f.f, dst)
}

// Flush drains buffered samples into dst
func (r *Resampler) Flush(dst *audio.Frame) (int, error) {
	return r.convert(nil, dst)
}

func (r *Resampler) convert(in *astiav.Frame, dst *audio.Frame) (int, error) {
	dst.Reset()

	r.out.Unref()
	r.out.SetSampleFormat(astiav.SampleFormatFlt)
	r.out.SetChannelLayout(r.layout)
	r.out.SetSampleRate(r.dst.SampleRate)
	r.out.SetNbSamples(dst.Capacity())
	if err := r.out.AllocBuffer(0); err != nil {
		return 0, fmt.Errorf("failed to allocate output frame: %w", err)
	}

	if err := r.swr.ConvertFrame(in, r.out); err != nil {
		if errors.Is(err, astiav.ErrInputChanged) {
			return 0, codec.ErrInputChanged
		}
		return 0, err
	}

	n := r.out.NbSamples()
	if n > 0 {
		data, err := r.out.Data().Bytes(1)
		if err != nil {
			return 0, fmt.Errorf("failed to read output frame: %w", err)
		}
		size := n * dst.Format.FrameSize()
		if size > len(data) || size > len(dst.Data) {
			return 0, fmt.Errorf("resampler produced %d samples for a %d sample frame", n, dst.Capacity())
		}
		copy(dst.Data, data[:size])
	}
	dst.NbSamples = n

	return int(r.swr.Delay(int64(r.dst.SampleRate))), nil
}

// Close frees the resample context
func (r *Resampler) Close() error {
	r.out.Free()
	r.swr.Free()
	return nil
}
