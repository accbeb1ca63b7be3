// ABOUTME: Top-level decode operation
// ABOUTME: Seeks, filters packets, decodes and resamples into mono float32 PCM
package extract

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

// Decode extracts stream streamIndex of c as packed mono float32 samples at
// opts.SampleRate. Packets with a non-positive or unknown PTS are skipped.
// The first fatal error is returned and no partial output is kept.
func Decode(c media.Container, streamIndex int, opts Options) ([]float32, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	stream, err := c.Stream(streamIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream %d: %w", streamIndex, err)
	}
	tb := stream.TimeBase()

	var end *int64
	if opts.Duration != nil {
		bound := *opts.Duration
		if opts.SeekTo != nil {
			bound += *opts.SeekTo
		}
		raw := media.ToRaw(tb, bound)
		end = &raw
	}

	if opts.SeekTo != nil {
		if err := media.SeekTo(c, stream, *opts.SeekTo); err != nil {
			return nil, err
		}
	}

	var threading *codec.ThreadingConfig
	if opts.Threaded {
		threading, err = codec.BuildThreadingConfig()
		if err != nil {
			return nil, err
		}
	}

	dec, err := opts.Backend.NewDecoder(stream, threading)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open decoder: %w", codec.ErrCodec, err)
	}
	defer dec.Close()

	target := audio.Format{
		SampleFormat: audio.SampleFormatF32,
		Layout:       audio.LayoutMono,
		SampleRate:   opts.SampleRate,
	}
	slot, err := newResamplerSlot(opts.Backend, dec.Format(), target)
	if err != nil {
		return nil, err
	}
	defer slot.Close()

	log.Printf("Decoding stream %d with %s backend: %s -> %s (threading: %s)",
		streamIndex, opts.Backend.Name(), dec.Format(), target, threadKind(threading))

	x := &extraction{
		dec:      dec,
		slot:     slot,
		dst:      audio.NewFrame(target, opts.frameSamples()),
		progress: opts.Progress,
	}
	if err := x.run(media.NewPacketFilter(c, streamIndex, end), tb); err != nil {
		return nil, err
	}

	log.Printf("Decoded %d samples from %d packets (%d skipped, %d resampler rebuilds)",
		len(x.out), x.stats.PacketsRead, x.stats.PacketsSkipped, x.stats.ResamplerRebuilds)
	return x.out, nil
}

// extraction carries the state of one Decode run
type extraction struct {
	dec      codec.Decoder
	slot     *resamplerSlot
	dst      *audio.Frame
	out      []float32
	stats    Stats
	progress func(Stats)
}

func (x *extraction) run(packets *media.PacketFilter, tb media.Rational) error {
	for {
		p, err := packets.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		x.stats.PacketsRead++

		pts, ok := p.PTS()
		if !ok || pts <= 0 {
			x.stats.PacketsSkipped++
			media.Release(p)
			continue
		}

		err = x.dec.SendPacket(p)
		media.Release(p)
		if err != nil {
			return fmt.Errorf("%w: packet at %d: %w", codec.ErrCodec, pts, err)
		}
		if err := x.receive(); err != nil {
			return err
		}

		x.stats.Position = media.ToDuration(tb, pts)
		x.report()
	}

	// Frame-threaded decoders hold frames back until told no more input is coming
	if err := x.dec.SendPacket(nil); err != nil {
		return fmt.Errorf("%w: failed to drain decoder: %w", codec.ErrCodec, err)
	}
	if err := x.receive(); err != nil {
		return err
	}

	x.stats.Done = true
	x.report()
	return nil
}

// receive routes every frame the decoder has ready through the resampler
func (x *extraction) receive() error {
	for {
		f, err := x.dec.ReceiveFrame()
		if errors.Is(err, codec.ErrAgain) || errors.Is(err, codec.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", codec.ErrCodec, err)
		}
		x.stats.FramesDecoded++

		if err := x.convert(f); err != nil {
			return err
		}
	}
}

// convert resamples one frame and appends everything the resampler produces,
// including buffered samples, before the next frame is taken
func (x *extraction) convert(f codec.Frame) error {
	delay, err := x.slot.run(f, x.dst)
	x.stats.ResamplerRebuilds = x.slot.rebuilds
	if err != nil {
		return err
	}

	for {
		x.out, err = audio.AppendFloat32(x.out, x.dst)
		if err != nil {
			return fmt.Errorf("%w: %w", codec.ErrResample, err)
		}
		if delay <= 0 {
			break
		}

		flushed := x.dst.NbSamples
		delay, err = x.slot.flush(x.dst)
		if err != nil {
			return err
		}
		if x.dst.NbSamples == 0 && flushed == 0 && delay > 0 {
			return fmt.Errorf("%w: resampler reports %d buffered samples but flushes none", codec.ErrResample, delay)
		}
	}
	x.stats.SamplesOut = len(x.out)
	return nil
}

func (x *extraction) report() {
	if x.progress != nil {
		x.progress(x.stats)
	}
}

func threadKind(t *codec.ThreadingConfig) string {
	if t == nil {
		return "none"
	}
	return fmt.Sprintf("%s x%d", t.Kind, t.Count)
}
