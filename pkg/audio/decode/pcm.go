// ABOUTME: PCM audio decoder
// ABOUTME: Decodes packed little-endian PCM packets to float32 frames
package decode

import (
	"fmt"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

// PCMDecoder decodes PCM audio
type PCMDecoder struct {
	format audio.Format
	queue  frameQueue
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if format.SampleFormat.BytesPerSample() == 0 {
		return nil, fmt.Errorf("unsupported sample format: %q", format.SampleFormat)
	}
	if format.Channels() < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels())
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}

	return &PCMDecoder{
		format: format,
	}, nil
}

// SendPacket converts one packet of PCM bytes. A nil packet starts draining.
func (d *PCMDecoder) SendPacket(p media.Packet) error {
	if p == nil {
		d.queue.drain()
		return nil
	}
	if d.queue.draining {
		return errDrained
	}

	format := d.format
	if fp, ok := p.(FormatPacket); ok {
		format = fp.Format()
	}

	data := p.Data()
	if size := format.FrameSize(); size == 0 || len(data)%size != 0 {
		return fmt.Errorf("packet of %d bytes is not a whole number of %s frames", len(data), format)
	}

	samples, err := audio.ToFloat32(format.SampleFormat, data, make([]float32, 0, len(data)/format.SampleFormat.BytesPerSample()))
	if err != nil {
		return err
	}

	pts, _ := p.PTS()
	d.queue.push(audio.NewBuffer(format, pts, samples))
	return nil
}

// ReceiveFrame returns the next decoded frame
func (d *PCMDecoder) ReceiveFrame() (codec.Frame, error) {
	return d.queue.next()
}

// Format returns the stream's declared format
func (d *PCMDecoder) Format() audio.Format {
	return d.format
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	d.queue.frames = nil
	return nil
}
