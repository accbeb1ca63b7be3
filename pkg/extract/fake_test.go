// ABOUTME: Synthetic container, decoder and resampler for pipeline tests
// ABOUTME: Decoded samples carry their packet's PTS so tests can trace output back to packets
package extract

import (
	"errors"
	"io"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

var (
	mono   = audio.Format{SampleFormat: audio.SampleFormatS16, Layout: audio.LayoutMono, SampleRate: 16000}
	stereo = audio.Format{SampleFormat: audio.SampleFormatS16, Layout: audio.LayoutStereo, SampleRate: 16000}
)

type fakeStream struct {
	index    int
	timeBase media.Rational
	duration int64
}

func (s *fakeStream) Index() int               { return s.index }
func (s *fakeStream) TimeBase() media.Rational { return s.timeBase }
func (s *fakeStream) Duration() int64          { return s.duration }
func (s *fakeStream) CodecParameters() media.CodecParameters {
	return media.CodecParameters{MediaType: media.MediaTypeAudio, Codec: "fake", Channels: 1, SampleRate: 16000, Decodable: true}
}

type fakeContainer struct {
	streams  []media.Stream
	packets  []media.Packet
	pos      int
	readErr  error
	seeks    int
	released int
}

// newContainer builds a single-stream container with a 1/1000 time base and
// one packet per PTS
func newContainer(pts ...int64) *fakeContainer {
	c := &fakeContainer{
		streams: []media.Stream{&fakeStream{index: 0, timeBase: media.NewRational(1, 1000), duration: 60000}},
	}
	for _, v := range pts {
		c.packets = append(c.packets, &releasablePacket{RawPacket: media.RawPacket{Index: 0, Pts: v, HasPts: true}, owner: c})
	}
	return c
}

func (c *fakeContainer) Streams() []media.Stream { return c.streams }

func (c *fakeContainer) Stream(index int) (media.Stream, error) {
	if index < 0 || index >= len(c.streams) {
		return nil, media.ErrStreamNotFound
	}
	return c.streams[index], nil
}

func (c *fakeContainer) ReadPacket() (media.Packet, error) {
	if c.readErr != nil && c.pos == len(c.packets) {
		return nil, c.readErr
	}
	if c.pos >= len(c.packets) {
		return nil, io.EOF
	}
	p := c.packets[c.pos]
	c.pos++
	return p, nil
}

// Seek lands on the first packet at or after minTs
func (c *fakeContainer) Seek(index int, ts, minTs, maxTs int64) error {
	c.seeks++
	for i, p := range c.packets {
		if pts, ok := p.PTS(); ok && pts >= minTs {
			c.pos = i
			return nil
		}
	}
	c.pos = len(c.packets)
	return nil
}

func (c *fakeContainer) Close() error { return nil }

type releasablePacket struct {
	media.RawPacket
	owner *fakeContainer
}

func (p *releasablePacket) Release() { p.owner.released++ }

// fakeDecoder emits framesPerPacket frames of samplesPerFrame samples for
// each packet. Every sample equals the packet's PTS.
type fakeDecoder struct {
	format          audio.Format
	formats         map[int64]audio.Format // per-PTS override of format
	samplesPerFrame int
	framesPerPacket int
	// hold keeps the newest frames back until the decoder is drained
	hold    int
	sendErr map[int64]error

	queue    []*audio.Buffer
	draining bool
	sent     []int64
	closed   bool
}

func newDecoder() *fakeDecoder {
	return &fakeDecoder{
		format:          mono,
		samplesPerFrame: 4,
		framesPerPacket: 1,
	}
}

func (d *fakeDecoder) SendPacket(p media.Packet) error {
	if p == nil {
		d.draining = true
		return nil
	}
	pts, _ := p.PTS()
	if err := d.sendErr[pts]; err != nil {
		return err
	}
	d.sent = append(d.sent, pts)

	format := d.format
	if f, ok := d.formats[pts]; ok {
		format = f
	}
	for i := 0; i < d.framesPerPacket; i++ {
		samples := make([]float32, d.samplesPerFrame*format.Channels())
		for j := range samples {
			samples[j] = float32(pts)
		}
		d.queue = append(d.queue, audio.NewBuffer(format, pts, samples))
	}
	return nil
}

func (d *fakeDecoder) ReceiveFrame() (codec.Frame, error) {
	ready := len(d.queue)
	if !d.draining {
		ready -= d.hold
	}
	if ready <= 0 {
		if d.draining {
			return nil, codec.ErrEOF
		}
		return nil, codec.ErrAgain
	}
	f := d.queue[0]
	d.queue = d.queue[1:]
	return f, nil
}

func (d *fakeDecoder) Format() audio.Format { return d.format }

func (d *fakeDecoder) Close() error {
	d.closed = true
	return nil
}

// fakeResampler averages channels to mono without changing the rate. Output
// beyond the destination capacity is reported as delay.
type fakeResampler struct {
	src     audio.Format
	dst     audio.Format
	pending []float32
	runErr  error
	runs    int
	flushes int
	closed  bool
}

func (r *fakeResampler) Run(src codec.Frame, dst *audio.Frame) (int, error) {
	if r.runErr != nil {
		return 0, r.runErr
	}
	if src.Format() != r.src {
		return 0, codec.ErrInputChanged
	}
	r.runs++
	b := src.(*audio.Buffer)
	ch := r.src.Channels()
	for i := 0; i+ch <= len(b.Samples); i += ch {
		var sum float32
		for _, s := range b.Samples[i : i+ch] {
			sum += s
		}
		r.pending = append(r.pending, sum/float32(ch))
	}
	return r.deliver(dst), nil
}

func (r *fakeResampler) Flush(dst *audio.Frame) (int, error) {
	r.flushes++
	return r.deliver(dst), nil
}

func (r *fakeResampler) deliver(dst *audio.Frame) int {
	dst.Format = r.dst
	n := len(r.pending)
	if n > dst.Capacity() {
		n = dst.Capacity()
	}
	audio.PutFloat32(dst, 0, r.pending[:n])
	dst.NbSamples = n
	r.pending = r.pending[n:]
	return len(r.pending)
}

func (r *fakeResampler) Close() error {
	r.closed = true
	return nil
}

type fakeBackend struct {
	decoder    *fakeDecoder
	decoderErr error
	// refuse lists source formats NewResampler rejects
	refuse    map[audio.Format]bool
	runErr    error
	threading *codec.ThreadingConfig

	decoders   int
	resamplers []*fakeResampler
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) NewDecoder(s media.Stream, threading *codec.ThreadingConfig) (codec.Decoder, error) {
	b.decoders++
	b.threading = threading
	if b.decoderErr != nil {
		return nil, b.decoderErr
	}
	return b.decoder, nil
}

func (b *fakeBackend) NewResampler(src, dst audio.Format) (codec.Resampler, error) {
	if b.refuse[src] {
		return nil, errors.New("unsupported source format")
	}
	r := &fakeResampler{src: src, dst: dst, runErr: b.runErr}
	b.resamplers = append(b.resamplers, r)
	return r, nil
}
