// ABOUTME: Tests for the FLAC container
// ABOUTME: Generates FLAC files with the mewkiz/flac encoder and checks packets, seeking and extraction
package container

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/extract"
	"github.com/aksiksi/shush/pkg/media"
)

const flacBlockSize = 4096

// writeFLAC writes frames fixed-size blocks per channel, every sample set to value
func writeFLAC(t *testing.T, rate, channels, bits, frames int, value int32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.flac")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(rate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bits),
		NSamples:      uint64(frames * flacBlockSize),
	}
	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		f.Close()
		t.Fatalf("failed to create encoder: %v", err)
	}

	layout := frame.ChannelsMono
	if channels == 2 {
		layout = frame.ChannelsLR
	}
	for i := 0; i < frames; i++ {
		subframes := make([]*frame.Subframe, channels)
		for ch := range subframes {
			samples := make([]int32, flacBlockSize)
			for j := range samples {
				samples[j] = value
			}
			subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples,
				NSamples:  flacBlockSize,
			}
		}
		fr := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         flacBlockSize,
				SampleRate:        uint32(rate),
				Channels:          layout,
				BitsPerSample:     uint8(bits),
			},
			Subframes: subframes,
		}
		if err := enc.WriteFrame(fr); err != nil {
			t.Fatalf("failed to write frame %d: %v", i, err)
		}
	}

	// Close rewrites the stream info and closes f
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize FLAC: %v", err)
	}
	return path
}

func TestOpenFLAC(t *testing.T) {
	c, err := Open(writeFLAC(t, 16000, 2, 16, 3, 100))
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer c.Close()

	s, err := c.Stream(0)
	if err != nil {
		t.Fatalf("failed to get stream: %v", err)
	}
	if s.TimeBase() != media.NewRational(1, 16000) {
		t.Errorf("expected time base 1/16000, got %s", s.TimeBase())
	}
	if s.Duration() != 3*flacBlockSize {
		t.Errorf("expected duration %d, got %d", 3*flacBlockSize, s.Duration())
	}

	params := s.CodecParameters()
	if params.Codec != "pcm_s16le" {
		t.Errorf("expected codec pcm_s16le, got %s", params.Codec)
	}
	if params.Channels != 2 || params.SampleRate != 16000 {
		t.Errorf("expected 2 channels at 16000Hz, got %d at %d", params.Channels, params.SampleRate)
	}
	if !params.Decodable {
		t.Error("expected decodable stream")
	}
}

func TestOpenFLACInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.flac")
	if err := os.WriteFile(path, []byte("not a flac stream"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for invalid FLAC")
	}
}

func TestFLACPackets(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		bits     int
		value    int32
		format   audio.SampleFormat
	}{
		{"16-bit mono", 1, 16, 16384, audio.SampleFormatS16},
		{"16-bit stereo", 2, 16, -16384, audio.SampleFormatS16},
		{"24-bit mono", 1, 24, 4194304, audio.SampleFormatS24},
		{"12-bit mono", 1, 12, 1024, audio.SampleFormatS16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(writeFLAC(t, 16000, tt.channels, tt.bits, 3, tt.value))
			if err != nil {
				t.Fatalf("failed to open: %v", err)
			}
			defer c.Close()

			packets := readAll(t, c)
			if len(packets) != 3 {
				t.Fatalf("expected 3 packets, got %d", len(packets))
			}

			want := float32(0.5)
			if tt.value < 0 {
				want = -0.5
			}
			for i, p := range packets {
				pts, ok := p.PTS()
				if !ok || pts != int64(i*flacBlockSize) {
					t.Errorf("packet %d: expected PTS %d, got %d", i, i*flacBlockSize, pts)
				}
				f := p.Format()
				if f.SampleFormat != tt.format || f.Channels() != tt.channels || f.SampleRate != 16000 {
					t.Errorf("packet %d: unexpected format %s", i, f)
				}

				got, err := audio.ToFloat32(f.SampleFormat, p.Data(), nil)
				if err != nil {
					t.Fatalf("conversion failed: %v", err)
				}
				if len(got) != flacBlockSize*tt.channels {
					t.Fatalf("packet %d: expected %d samples, got %d", i, flacBlockSize*tt.channels, len(got))
				}
				for j := 0; j < len(got); j += 511 {
					if got[j] != want {
						t.Fatalf("packet %d sample %d: expected %v, got %v", i, j, want, got[j])
					}
				}
			}
		})
	}
}

func TestFLACSeek(t *testing.T) {
	c, err := Open(writeFLAC(t, 16000, 1, 16, 10, 16384))
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer c.Close()

	tests := []struct {
		name   string
		target int64
	}{
		{"mid frame", 16000},
		{"backward", 100},
		{"frame boundary", 8 * flacBlockSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Seek(0, tt.target, tt.target, tt.target); err != nil {
				t.Fatalf("seek failed: %v", err)
			}
			p, err := c.ReadPacket()
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}

			// The first packet after a seek is the frame holding the target
			pts, ok := p.PTS()
			if !ok || pts > tt.target || tt.target >= pts+flacBlockSize {
				t.Errorf("expected frame containing %d, got PTS %d", tt.target, pts)
			}
			if pts%flacBlockSize != 0 {
				t.Errorf("expected frame-aligned PTS, got %d", pts)
			}
		})
	}

	if err := c.Seek(0, 10*flacBlockSize, 10*flacBlockSize, 10*flacBlockSize); err == nil {
		t.Error("expected error seeking past the last sample")
	}
}

func TestExtractFLAC(t *testing.T) {
	c, s := openTest(t, writeFLAC(t, 16000, 1, 16, 10, 16384))

	out, err := extract.Decode(c, s.Index(), extract.Options{SampleRate: 16000, Backend: Backend{}})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// The first frame has PTS 0 and is skipped; the resampler holds back
	// the final sample
	expected := 9*flacBlockSize - 1
	if len(out) != expected {
		t.Fatalf("expected %d samples, got %d", expected, len(out))
	}
	for i, v := range out {
		if math.Abs(float64(v)-0.5) > 1e-4 {
			t.Fatalf("sample %d: expected 0.5, got %v", i, v)
		}
	}
}

func TestExtractFLACSeekAndDuration(t *testing.T) {
	c, s := openTest(t, writeFLAC(t, 16000, 1, 16, 10, 16384))

	seek := time.Second
	duration := time.Second
	out, err := extract.Decode(c, s.Index(), extract.Options{
		SampleRate: 16000,
		Backend:    Backend{},
		SeekTo:     &seek,
		Duration:   &duration,
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// Seeking lands on a frame boundary, so output is whole frames of at
	// most the seek-to-end span
	if len(out) == 0 || len(out) > 5*flacBlockSize {
		t.Errorf("expected between 1 and %d samples, got %d", 5*flacBlockSize, len(out))
	}
	for i, v := range out {
		if math.Abs(float64(v)-0.5) > 1e-4 {
			t.Fatalf("sample %d: expected 0.5, got %v", i, v)
		}
	}
}
