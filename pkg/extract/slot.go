// ABOUTME: Replaceable resampler slot
// ABOUTME: Rebuilds the active resampler when a frame's source format changes
package extract

import (
	"errors"
	"fmt"
	"log"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
)

// resamplerSlot owns the active resampler of one decode run. The target
// format never changes; the source format follows the frames.
type resamplerSlot struct {
	backend  codec.Backend
	target   audio.Format
	source   audio.Format
	active   codec.Resampler
	rebuilds int
}

func newResamplerSlot(backend codec.Backend, source, target audio.Format) (*resamplerSlot, error) {
	r, err := backend.NewResampler(source, target)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resample %s to %s: %w", codec.ErrCodec, source, target, err)
	}
	return &resamplerSlot{
		backend: backend,
		target:  target,
		source:  source,
		active:  r,
	}, nil
}

// run converts f into dst. On a format change a resampler for the frame's
// format is built and tried; it replaces the active one only if the
// conversion succeeds.
func (s *resamplerSlot) run(f codec.Frame, dst *audio.Frame) (int, error) {
	delay, err := s.active.Run(f, dst)
	if err == nil {
		return delay, nil
	}
	if !errors.Is(err, codec.ErrInputChanged) {
		return 0, fmt.Errorf("%w: %w", codec.ErrResample, err)
	}

	source := f.Format()
	next, err := s.backend.NewResampler(source, s.target)
	if err != nil {
		return 0, fmt.Errorf("%w: %s -> %s: %w", codec.ErrUnsupportedFormatTransition, s.source, source, err)
	}
	delay, err = next.Run(f, dst)
	if err != nil {
		next.Close()
		return 0, fmt.Errorf("%w: %s -> %s: %w", codec.ErrUnsupportedFormatTransition, s.source, source, err)
	}

	log.Printf("Resampler rebuilt: %s -> %s", s.source, source)
	s.active.Close()
	s.active = next
	s.source = source
	s.rebuilds++
	return delay, nil
}

func (s *resamplerSlot) flush(dst *audio.Frame) (int, error) {
	delay, err := s.active.Flush(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: flush: %w", codec.ErrResample, err)
	}
	return delay, nil
}

func (s *resamplerSlot) Close() error {
	return s.active.Close()
}
