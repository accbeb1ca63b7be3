//go:build ffmpeg

// ABOUTME: Container over an FFmpeg format context
// ABOUTME: Exposes every stream of a file and reads packets with av_read_frame
package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/asticode/go-astiav"

	"github.com/aksiksi/shush/pkg/media"
)

// avTimeBase is the unit of AVFormatContext.duration
var avTimeBase = astiav.NewRational(1, 1000000)

// Stream is one track of an FFmpeg container
type Stream struct {
	s        *astiav.Stream
	duration int64
	params   media.CodecParameters
}

func newStream(s *astiav.Stream, fc *astiav.FormatContext) *Stream {
	cp := s.CodecParameters()

	duration := s.Duration()
	if duration <= 0 || duration == astiav.NoPtsValue {
		// Some muxers only record a file-level duration
		duration = 0
		if d := fc.Duration(); d > 0 && d != astiav.NoPtsValue {
			duration = astiav.RescaleQ(d, avTimeBase, s.TimeBase())
		}
	}

	params := media.CodecParameters{
		MediaType:  mediaType(cp.MediaType()),
		Codec:      cp.CodecID().Name(),
		Channels:   cp.ChannelLayout().Channels(),
		SampleRate: cp.SampleRate(),
		BitRate:    cp.BitRate(),
		Decodable:  astiav.FindDecoder(cp.CodecID()) != nil,
		Default:    s.DispositionFlags().Has(astiav.DispositionFlagDefault),
	}

	return &Stream{
		s:        s,
		duration: duration,
		params:   params,
	}
}

func (s *Stream) Index() int { return s.s.Index() }

func (s *Stream) TimeBase() media.Rational {
	tb := s.s.TimeBase()
	return media.NewRational(tb.Num(), tb.Den())
}

func (s *Stream) Duration() int64                        { return s.duration }
func (s *Stream) CodecParameters() media.CodecParameters { return s.params }

func mediaType(t astiav.MediaType) media.MediaType {
	switch t {
	case astiav.MediaTypeAudio:
		return media.MediaTypeAudio
	case astiav.MediaTypeVideo:
		return media.MediaTypeVideo
	case astiav.MediaTypeSubtitle:
		return media.MediaTypeSubtitle
	case astiav.MediaTypeData:
		return media.MediaTypeData
	default:
		return media.MediaTypeUnknown
	}
}

// Container is an open FFmpeg input
type Container struct {
	fc      *astiav.FormatContext
	streams []media.Stream
	byIndex map[int]*Stream
}

// Open opens path with libavformat and probes its streams
func Open(path string) (media.Container, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("failed to allocate format context")
	}

	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}

	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("failed to find stream info: %w", err)
	}

	c := &Container{
		fc:      fc,
		byIndex: make(map[int]*Stream),
	}
	for _, s := range fc.Streams() {
		st := newStream(s, fc)
		c.streams = append(c.streams, st)
		c.byIndex[st.Index()] = st
	}

	log.Printf("Opened %s with ffmpeg: %d streams", path, len(c.streams))
	return c, nil
}

// Streams returns every stream in file order
func (c *Container) Streams() []media.Stream {
	return c.streams
}

// Stream returns the stream with the given index
func (c *Container) Stream(index int) (media.Stream, error) {
	s, ok := c.byIndex[index]
	if !ok {
		return nil, fmt.Errorf("%w: %d", media.ErrStreamNotFound, index)
	}
	return s, nil
}

// ReadPacket reads the next packet of any stream. The caller releases it.
func (c *Container) ReadPacket() (media.Packet, error) {
	pkt := astiav.AllocPacket()
	if err := c.fc.ReadFrame(pkt); err != nil {
		pkt.Free()
		if errors.Is(err, astiav.ErrEof) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read packet: %w", err)
	}
	return &packet{pkt: pkt}, nil
}

// Seek seeks backward to the keyframe at or before ts. libavformat's
// seek_frame API does not take a window, so minTs and maxTs only validate
// the request.
func (c *Container) Seek(streamIndex int, ts, minTs, maxTs int64) error {
	if _, ok := c.byIndex[streamIndex]; !ok {
		return fmt.Errorf("%w: %d", media.ErrStreamNotFound, streamIndex)
	}
	if ts < minTs || ts > maxTs {
		return fmt.Errorf("seek target %d outside window %d..%d", ts, minTs, maxTs)
	}
	if err := c.fc.SeekFrame(streamIndex, ts, astiav.NewSeekFlags(astiav.SeekFlagBackward)); err != nil {
		return fmt.Errorf("failed to seek stream %d to %d: %w", streamIndex, ts, err)
	}
	return nil
}

// Close closes the input and frees the format context
func (c *Container) Close() error {
	c.fc.CloseInput()
	c.fc.Free()
	return nil
}

// packet wraps an AVPacket owned by the caller until Release
type packet struct {
	pkt *astiav.Packet
}

func (p *packet) StreamIndex() int { return p.pkt.StreamIndex() }

func (p *packet) PTS() (int64, bool) {
	pts := p.pkt.Pts()
	return pts, pts != astiav.NoPtsValue
}

func (p *packet) Data() []byte { return p.pkt.Data() }

// Release frees the packet
func (p *packet) Release() {
	if p.pkt != nil {
		p.pkt.Free()
		p.pkt = nil
	}
}
