// ABOUTME: Decoder factory and shared frame queue
// ABOUTME: Maps codec names to native decoders and implements send/receive buffering
package decode

import (
	"errors"
	"fmt"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

// Codec names understood by New
const (
	CodecPCMS16 = "pcm_s16le"
	CodecPCMS24 = "pcm_s24le"
	CodecPCMS32 = "pcm_s32le"
	CodecPCMF32 = "pcm_f32le"
	CodecOpus   = "opus"
)

var pcmCodecs = map[string]audio.SampleFormat{
	CodecPCMS16: audio.SampleFormatS16,
	CodecPCMS24: audio.SampleFormatS24,
	CodecPCMS32: audio.SampleFormatS32,
	CodecPCMF32: audio.SampleFormatF32,
}

// FormatPacket is implemented by PCM packets that carry their own format,
// such as FLAC frames whose channel count differs from the stream header
type FormatPacket interface {
	media.Packet
	Format() audio.Format
}

// PCMCodec returns the codec name for packed little-endian samples of format f
func PCMCodec(f audio.SampleFormat) string {
	for name, sf := range pcmCodecs {
		if sf == f {
			return name
		}
	}
	return ""
}

// Supported reports whether New can build a decoder for the codec
func Supported(name string) bool {
	_, ok := pcmCodecs[name]
	return ok || name == CodecOpus
}

// New creates a decoder for a stream with the given codec parameters
func New(params media.CodecParameters) (codec.Decoder, error) {
	if params.Codec == CodecOpus {
		dec, err := NewOpus(params.Channels)
		if err != nil {
			return nil, err
		}
		return dec, nil
	}

	sf, ok := pcmCodecs[params.Codec]
	if !ok {
		return nil, fmt.Errorf("no native decoder for codec %q", params.Codec)
	}
	dec, err := NewPCM(audio.Format{
		SampleFormat: sf,
		Layout:       audio.DefaultLayout(params.Channels),
		SampleRate:   params.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	return dec, nil
}

var errDrained = errors.New("decoder already drained")

// frameQueue holds decoded frames until they are received
type frameQueue struct {
	frames   []*audio.Buffer
	draining bool
}

func (q *frameQueue) push(b *audio.Buffer) {
	q.frames = append(q.frames, b)
}

func (q *frameQueue) drain() {
	q.draining = true
}

func (q *frameQueue) next() (codec.Frame, error) {
	if len(q.frames) == 0 {
		if q.draining {
			return nil, codec.ErrEOF
		}
		return nil, codec.ErrAgain
	}
	b := q.frames[0]
	q.frames[0] = nil
	q.frames = q.frames[1:]
	return b, nil
}
