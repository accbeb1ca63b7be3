// ABOUTME: MP3 container backed by go-mp3
// ABOUTME: Decodes MPEG audio to 16-bit stereo PCM packets while demuxing
package container

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/media"
)

const (
	// go-mp3 always produces 16-bit little-endian stereo
	mp3FrameBytes = 4

	// mp3PacketFrames matches the MPEG-1 Layer III frame length
	mp3PacketFrames = 1152
)

type mp3Source struct {
	f      *os.File
	dec    *mp3.Decoder
	format audio.Format
	pos    int64
	buf    []byte
}

func openMP3(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	src := &mp3Source{
		f:   f,
		dec: dec,
		format: audio.Format{
			SampleFormat: audio.SampleFormatS16,
			Layout:       audio.LayoutStereo,
			SampleRate:   dec.SampleRate(),
		},
		buf: make([]byte, mp3PacketFrames*mp3FrameBytes),
	}

	var total int64
	if length := dec.Length(); length > 0 {
		total = length / mp3FrameBytes
	}
	return newFile("MP3", newPCMStream(src.format, total), src), nil
}

func (s *mp3Source) readPacket() (media.Packet, error) {
	n, err := io.ReadFull(s.dec, s.buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	// Drop a trailing partial sample frame
	n -= n % mp3FrameBytes
	if n == 0 {
		return nil, io.EOF
	}

	data := make([]byte, n)
	copy(data, s.buf[:n])
	p := newPCMPacket(s.format, s.pos, data)
	s.pos += int64(n / mp3FrameBytes)
	return p, nil
}

func (s *mp3Source) seek(ts int64) error {
	if _, err := s.dec.Seek(ts*mp3FrameBytes, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to sample %d: %w", ts, err)
	}
	s.pos = ts
	return nil
}

func (s *mp3Source) close() error {
	return s.f.Close()
}
