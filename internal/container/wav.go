// ABOUTME: WAV container backed by go-audio/wav
// ABOUTME: Reads integer PCM in fixed-size packets and seeks by re-reading from the data chunk
package container

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/media"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	// wavPacketFrames is the number of sample frames per packet
	wavPacketFrames = 1024
)

type wavSource struct {
	f        *os.File
	dec      *wav.Decoder
	format   audio.Format
	bitDepth int
	total    int64 // sample frames in the data chunk
	pos      int64
	buf      *goaudio.IntBuffer
}

func openWAV(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	src, err := newWAVSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return newFile("WAV", newPCMStream(src.format, src.total), src), nil
}

func newWAVSource(f *os.File) (*wavSource, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("unsupported WAV encoding: format tag %d", dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to find PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	var sf audio.SampleFormat
	switch bitDepth {
	case 8, 16:
		sf = audio.SampleFormatS16
	case 24:
		sf = audio.SampleFormatS24
	case 32:
		sf = audio.SampleFormatS32
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", bitDepth)
	}

	channels := int(dec.NumChans)
	format := audio.Format{
		SampleFormat: sf,
		Layout:       audio.DefaultLayout(channels),
		SampleRate:   int(dec.SampleRate),
	}

	// The data chunk length bounds reads; trailing chunks are never decoded
	frameBytes := channels * (bitDepth / 8)
	return &wavSource{
		f:        f,
		dec:      dec,
		format:   format,
		bitDepth: bitDepth,
		total:    int64(dec.PCMSize / frameBytes),
		buf:      &goaudio.IntBuffer{Data: make([]int, wavPacketFrames*channels)},
	}, nil
}

// read fills the buffer with up to frames sample frames
func (s *wavSource) read(frames int) (int, error) {
	if remaining := s.total - s.pos; int64(frames) > remaining {
		frames = int(remaining)
	}
	if frames == 0 {
		return 0, io.EOF
	}

	channels := s.format.Channels()
	s.buf.Data = s.buf.Data[:frames*channels]
	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PCM: %w", err)
	}
	read := n / channels
	if read == 0 {
		return 0, io.EOF
	}
	s.pos += int64(read)
	return read, nil
}

func (s *wavSource) readPacket() (media.Packet, error) {
	pts := s.pos
	frames, err := s.read(wavPacketFrames)
	if err != nil {
		return nil, err
	}

	samples := s.buf.Data[:frames*s.format.Channels()]
	width := s.format.SampleFormat.BytesPerSample()
	data := make([]byte, len(samples)*width)
	for i, v := range samples {
		b := data[i*width:]
		switch s.bitDepth {
		case 8:
			// 8-bit WAV is unsigned
			binary.LittleEndian.PutUint16(b, uint16(int16((v-128)<<8)))
		case 16:
			binary.LittleEndian.PutUint16(b, uint16(int16(v)))
		case 24:
			packed := audio.SampleTo24Bit(int32(v))
			copy(b, packed[:])
		case 32:
			binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		}
	}
	return newPCMPacket(s.format, pts, data), nil
}

func (s *wavSource) seek(ts int64) error {
	if ts > s.total {
		ts = s.total
	}
	if ts < s.pos {
		if err := s.dec.Rewind(); err != nil {
			return fmt.Errorf("failed to rewind: %w", err)
		}
		s.pos = 0
	}

	// PCM chunks cannot be addressed directly through the decoder, so skip
	// forward by reading
	for s.pos < ts {
		want := ts - s.pos
		if want > wavPacketFrames {
			want = wavPacketFrames
		}
		if _, err := s.read(int(want)); err != nil {
			return fmt.Errorf("failed to skip to sample %d: %w", ts, err)
		}
	}
	return nil
}

func (s *wavSource) close() error {
	return s.f.Close()
}
