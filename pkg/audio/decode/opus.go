// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Opus packets to float32 frames and trims samples before time zero
package decode

import (
	"fmt"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
	"gopkg.in/hraban/opus.v2"
)

// OpusSampleRate is the rate Opus streams are always decoded at
const OpusSampleRate = 48000

// maxOpusFrame is the longest Opus packet in samples per channel (120ms at 48kHz)
const maxOpusFrame = 5760

// OpusDecoder decodes Opus audio
type OpusDecoder struct {
	decoder *opus.Decoder
	format  audio.Format
	pcm     []float32
	queue   frameQueue
}

// NewOpus creates a new Opus decoder. Packet timestamps are expected in
// 1/48000 units; samples with a negative timestamp are encoder priming and
// are discarded. extract.Decode never sends such packets, since it skips
// every packet whose timestamp is not positive, so the trim only applies
// when the decoder is driven directly.
func NewOpus(channels int) (*OpusDecoder, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("unsupported opus channel count: %d (supported: 1, 2)", channels)
	}

	dec, err := opus.NewDecoder(OpusSampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{
		decoder: dec,
		format: audio.Format{
			SampleFormat: audio.SampleFormatF32,
			Layout:       audio.DefaultLayout(channels),
			SampleRate:   OpusSampleRate,
		},
		pcm: make([]float32, maxOpusFrame*channels),
	}, nil
}

// SendPacket decodes one Opus packet. A nil packet starts draining.
func (d *OpusDecoder) SendPacket(p media.Packet) error {
	if p == nil {
		d.queue.drain()
		return nil
	}
	if d.queue.draining {
		return errDrained
	}

	n, err := d.decoder.DecodeFloat32(p.Data(), d.pcm)
	if err != nil {
		return fmt.Errorf("opus decode failed: %w", err)
	}

	ch := d.format.Channels()
	pts, ok := p.PTS()
	drop := 0
	if ok && pts < 0 {
		drop = int(min(-pts, int64(n)))
		pts += int64(drop)
	}
	if drop == n {
		return nil
	}

	// The decode buffer is reused, so each frame gets its own copy
	samples := make([]float32, (n-drop)*ch)
	copy(samples, d.pcm[drop*ch:n*ch])
	d.queue.push(audio.NewBuffer(d.format, pts, samples))
	return nil
}

// ReceiveFrame returns the next decoded frame
func (d *OpusDecoder) ReceiveFrame() (codec.Frame, error) {
	return d.queue.next()
}

// Format returns the decoder output format
func (d *OpusDecoder) Format() audio.Format {
	return d.format
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	d.queue.frames = nil
	return nil
}
