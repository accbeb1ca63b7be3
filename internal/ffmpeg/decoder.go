//go:build ffmpeg

// ABOUTME: libavcodec decoder adapter
// ABOUTME: Maps the send/receive API and its EAGAIN/EOF signals onto codec.Decoder
package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

// Decoder decodes the packets of one stream
type Decoder struct {
	cc    *astiav.CodecContext
	frame *astiav.Frame
}

func newDecoder(s *Stream, threading *codec.ThreadingConfig) (*Decoder, error) {
	cp := s.s.CodecParameters()

	c := astiav.FindDecoder(cp.CodecID())
	if c == nil {
		return nil, fmt.Errorf("no decoder for codec %s", cp.CodecID().Name())
	}

	cc := astiav.AllocCodecContext(c)
	if cc == nil {
		return nil, errors.New("failed to allocate codec context")
	}

	if err := cp.ToCodecContext(cc); err != nil {
		cc.Free()
		return nil, fmt.Errorf("failed to copy codec parameters: %w", err)
	}
	cc.SetTimeBase(s.s.TimeBase())

	if threading != nil {
		cc.SetThreadCount(threading.Count)
		cc.SetThreadType(threadType(threading.Kind))
	}

	if err := cc.Open(c, nil); err != nil {
		cc.Free()
		return nil, fmt.Errorf("failed to open codec %s: %w", c.Name(), err)
	}

	return &Decoder{
		cc:    cc,
		frame: astiav.AllocFrame(),
	}, nil
}

func threadType(k codec.ThreadKind) astiav.ThreadType {
	if k == codec.ThreadKindSlice {
		return astiav.ThreadTypeSlice
	}
	return astiav.ThreadTypeFrame
}

// SendPacket submits a packet read from a Container. nil starts draining.
func (d *Decoder) SendPacket(p media.Packet) error {
	var pkt *astiav.Packet
	if p != nil {
		fp, ok := p.(*packet)
		if !ok || fp.pkt == nil {
			return fmt.Errorf("packet of type %T was not read by the ffmpeg container", p)
		}
		pkt = fp.pkt
	}

	err := d.cc.SendPacket(pkt)
	if errors.Is(err, astiav.ErrEof) {
		// Already draining
		return nil
	}
	return err
}

// ReceiveFrame returns the next decoded frame. The frame is reused by the
// following call.
func (d *Decoder) ReceiveFrame() (codec.Frame, error) {
	d.frame.Unref()
	err := d.cc.ReceiveFrame(d.frame)
	switch {
	case err == nil:
		return &frame{f: d.frame}, nil
	case errors.Is(err, astiav.ErrEagain):
		return nil, codec.ErrAgain
	case errors.Is(err, astiav.ErrEof):
		return nil, codec.ErrEOF
	default:
		return nil, err
	}
}

// Format is the decoder's output format after opening
func (d *Decoder) Format() audio.Format {
	return audio.Format{
		SampleFormat: sampleFormat(d.cc.SampleFormat()),
		Layout:       channelLayout(d.cc.ChannelLayout()),
		SampleRate:   d.cc.SampleRate(),
	}
}

// Close frees the codec context and frame
func (d *Decoder) Close() error {
	d.frame.Free()
	d.cc.Free()
	return nil
}

// frame adapts an AVFrame to codec.Frame
type frame struct {
	f *astiav.Frame
}

func (f *frame) Format() audio.Format {
	return audio.Format{
		SampleFormat: sampleFormat(f.f.SampleFormat()),
		Layout:       channelLayout(f.f.ChannelLayout()),
		SampleRate:   f.f.SampleRate(),
	}
}

func (f *frame) NbSamples() int { return f.f.NbSamples() }

// sampleFormat names FFmpeg sample formats the way the native pipeline does
// where they overlap, and by their FFmpeg name (fltp, s16p, dbl) otherwise
func sampleFormat(sf astiav.SampleFormat) audio.SampleFormat {
	switch sf {
	case astiav.SampleFormatS16:
		return audio.SampleFormatS16
	case astiav.SampleFormatS32:
		return audio.SampleFormatS32
	case astiav.SampleFormatFlt:
		return audio.SampleFormatF32
	default:
		return audio.SampleFormat(sf.Name())
	}
}

func channelLayout(l astiav.ChannelLayout) audio.ChannelLayout {
	return audio.ChannelLayout{Name: l.String(), Channels: l.Channels()}
}
