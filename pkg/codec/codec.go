// ABOUTME: Decoder and resampler interface definitions
// ABOUTME: Common contracts for the native and ffmpeg codec backends
package codec

import (
	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/media"
)

// Frame is a decoded, uncompressed block of audio
type Frame interface {
	Format() audio.Format
	NbSamples() int
}

// Decoder turns packets of a single stream into frames
type Decoder interface {
	// SendPacket submits a packet. A nil packet signals end of input.
	SendPacket(p media.Packet) error

	// ReceiveFrame returns the next decoded frame, ErrAgain when more packets
	// are needed, or ErrEOF once a drained decoder has nothing left. The
	// frame is only valid until the next call.
	ReceiveFrame() (Frame, error)

	// Format is the decoder's native output format
	Format() audio.Format

	// Close releases decoder resources
	Close() error
}

// Resampler converts frames of one source format to a fixed target format
type Resampler interface {
	// Run converts src into dst and returns the number of converted samples
	// still buffered. It returns ErrInputChanged if src does not match the
	// source format the resampler was built for.
	Run(src Frame, dst *audio.Frame) (delay int, err error)

	// Flush moves buffered samples into dst and returns what remains buffered
	Flush(dst *audio.Frame) (delay int, err error)

	// Close releases resampler resources
	Close() error
}

// Backend builds decoders and resamplers for streams of one container family
type Backend interface {
	Name() string

	// NewDecoder opens a decoder for s. threading is nil for single-threaded
	// decoding.
	NewDecoder(s media.Stream, threading *ThreadingConfig) (Decoder, error)

	// NewResampler builds a resampler from src to dst
	NewResampler(src, dst audio.Format) (Resampler, error)
}
