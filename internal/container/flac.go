// ABOUTME: FLAC container backed by mewkiz/flac
// ABOUTME: Emits one PCM packet per FLAC frame, keeping each frame's own format
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/media"
)

type flacSource struct {
	f      *os.File
	stream *flac.Stream
	format audio.Format
	bits   int
	pos    int64
}

func openFLAC(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stream, err := flac.NewSeek(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to parse FLAC: %w", err)
	}

	bits := int(stream.Info.BitsPerSample)
	format := audio.Format{
		SampleFormat: flacSampleFormat(bits),
		Layout:       audio.DefaultLayout(int(stream.Info.NChannels)),
		SampleRate:   int(stream.Info.SampleRate),
	}
	if format.SampleFormat == "" {
		f.Close()
		return nil, fmt.Errorf("unsupported FLAC bit depth: %d", bits)
	}

	src := &flacSource{
		f:      f,
		stream: stream,
		format: format,
		bits:   bits,
	}
	return newFile("FLAC", newPCMStream(format, int64(stream.Info.NSamples)), src), nil
}

// flacSampleFormat picks the narrowest packed format holding bits-wide samples
func flacSampleFormat(bits int) audio.SampleFormat {
	switch {
	case bits < 4:
		return ""
	case bits <= 16:
		return audio.SampleFormatS16
	case bits <= 24:
		return audio.SampleFormatS24
	case bits <= 32:
		return audio.SampleFormatS32
	default:
		return ""
	}
}

func (s *flacSource) readPacket() (media.Packet, error) {
	frame, err := s.stream.ParseNext()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
	}

	// Header fields of zero defer to the stream info
	bits := int(frame.BitsPerSample)
	if bits == 0 {
		bits = s.bits
	}
	rate := int(frame.SampleRate)
	if rate == 0 {
		rate = s.format.SampleRate
	}
	channels := len(frame.Subframes)

	format := audio.Format{
		SampleFormat: flacSampleFormat(bits),
		Layout:       audio.DefaultLayout(channels),
		SampleRate:   rate,
	}
	if format.SampleFormat == "" || channels == 0 {
		return nil, fmt.Errorf("unsupported FLAC frame: %d channels, %d bits", channels, bits)
	}

	// Left-align samples in the packed width so full scale maps to [-1, 1)
	width := format.SampleFormat.BytesPerSample()
	shift := uint(width*8 - bits)
	n := frame.Subframes[0].NSamples
	data := make([]byte, n*channels*width)
	for i := 0; i < n; i++ {
		for ch, sub := range frame.Subframes {
			v := sub.Samples[i] << shift
			b := data[(i*channels+ch)*width:]
			switch width {
			case 2:
				binary.LittleEndian.PutUint16(b, uint16(int16(v)))
			case 3:
				packed := audio.SampleTo24Bit(v)
				copy(b, packed[:])
			case 4:
				binary.LittleEndian.PutUint32(b, uint32(v))
			}
		}
	}

	p := newPCMPacket(format, s.pos, data)
	s.pos += int64(n)
	return p, nil
}

func (s *flacSource) seek(ts int64) error {
	start, err := s.stream.Seek(uint64(ts))
	if err != nil {
		return fmt.Errorf("failed to seek to sample %d: %w", ts, err)
	}
	s.pos = int64(start)
	return nil
}

func (s *flacSource) close() error {
	return s.f.Close()
}
