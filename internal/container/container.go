// ABOUTME: Single-stream container shared by all native formats
// ABOUTME: Opens files by extension and adapts packet sources to media.Container
package container

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/audio/decode"
	"github.com/aksiksi/shush/pkg/media"
)

// ErrUnsupportedFormat is returned for file extensions without a native container
var ErrUnsupportedFormat = errors.New("unsupported container format")

// source produces the packets of a single stream
type source interface {
	readPacket() (media.Packet, error)
	// seek positions the source so the next packet contains sample ts
	seek(ts int64) error
	close() error
}

// Open opens path with the native container matching its extension
func Open(path string) (media.Container, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
		return openWAV(path)
	case ".mp3":
		return openMP3(path)
	case ".flac":
		return openFLAC(path)
	case ".ogg", ".opus":
		return openOgg(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Stream is the only stream of a native container
type Stream struct {
	timeBase media.Rational
	duration int64
	params   media.CodecParameters
}

func (s *Stream) Index() int                             { return 0 }
func (s *Stream) TimeBase() media.Rational               { return s.timeBase }
func (s *Stream) Duration() int64                        { return s.duration }
func (s *Stream) CodecParameters() media.CodecParameters { return s.params }

// newPCMStream describes a stream of packed PCM packets in format f
func newPCMStream(f audio.Format, duration int64) *Stream {
	return &Stream{
		timeBase: media.NewRational(1, f.SampleRate),
		duration: duration,
		params: media.CodecParameters{
			MediaType:  media.MediaTypeAudio,
			Codec:      decode.PCMCodec(f.SampleFormat),
			Channels:   f.Channels(),
			SampleRate: f.SampleRate,
			BitRate:    int64(f.FrameSize() * f.SampleRate * 8),
			Decodable:  decode.Supported(decode.PCMCodec(f.SampleFormat)),
			Default:    true,
		},
	}
}

// File is an open native container
type File struct {
	name   string
	stream *Stream
	src    source
}

func newFile(name string, stream *Stream, src source) *File {
	p := stream.params
	log.Printf("Opened %s: %s, %d channels, %dHz, %v", name, p.Codec, p.Channels, p.SampleRate,
		media.ToDuration(stream.timeBase, stream.duration))
	return &File{
		name:   name,
		stream: stream,
		src:    src,
	}
}

// Streams returns the container's single stream
func (f *File) Streams() []media.Stream {
	return []media.Stream{f.stream}
}

// Stream returns the stream at index
func (f *File) Stream(index int) (media.Stream, error) {
	if index != 0 {
		return nil, fmt.Errorf("%w: %d", media.ErrStreamNotFound, index)
	}
	return f.stream, nil
}

// ReadPacket returns the next packet or io.EOF
func (f *File) ReadPacket() (media.Packet, error) {
	p, err := f.src.readPacket()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	return p, err
}

// Seek positions the container on the packet containing ts. minTs and maxTs
// are accepted for interface compatibility; native sources land exactly.
func (f *File) Seek(streamIndex int, ts, minTs, maxTs int64) error {
	if streamIndex != 0 {
		return fmt.Errorf("%w: %d", media.ErrStreamNotFound, streamIndex)
	}
	if ts < minTs || ts > maxTs {
		return fmt.Errorf("seek target %d outside window %d..%d", ts, minTs, maxTs)
	}
	return f.src.seek(ts)
}

// Close closes the underlying file
func (f *File) Close() error {
	return f.src.close()
}

// pcmPacket is a packet of packed PCM that carries its own format
type pcmPacket struct {
	media.RawPacket
	format audio.Format
}

func (p *pcmPacket) Format() audio.Format { return p.format }

func newPCMPacket(format audio.Format, pts int64, data []byte) *pcmPacket {
	return &pcmPacket{
		RawPacket: media.RawPacket{Pts: pts, HasPts: true, Payload: data},
		format:    format,
	}
}
