// ABOUTME: Decode options and progress statistics
// ABOUTME: Validates caller parameters before the pipeline starts
package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/aksiksi/shush/pkg/codec"
)

// DefaultFrameSamples is the resampler scratch frame capacity used when
// Options.FrameSamples is zero
const DefaultFrameSamples = 1024

// Options controls a Decode run
type Options struct {
	// Duration caps how much audio is decoded, measured from SeekTo or the
	// start of the stream. nil decodes to the end.
	Duration *time.Duration
	// SeekTo repositions the container before decoding
	SeekTo *time.Duration
	// SampleRate is the output rate in Hz
	SampleRate int
	// Threaded enables frame-level parallel decoding
	Threaded bool
	// Backend builds the decoder and resamplers
	Backend codec.Backend
	// FrameSamples sizes the resampler scratch frame
	FrameSamples int
	// Progress, if set, is called after every packet and once when decoding ends
	Progress func(Stats)
}

// Stats reports how far a Decode run has progressed
type Stats struct {
	PacketsRead       int
	PacketsSkipped    int
	FramesDecoded     int
	SamplesOut        int
	ResamplerRebuilds int
	// Position is the timestamp of the last decoded packet
	Position time.Duration
	Done     bool
}

func (o Options) validate() error {
	if o.Backend == nil {
		return errors.New("no codec backend configured")
	}
	if o.SampleRate <= 0 {
		return fmt.Errorf("invalid target sample rate: %d", o.SampleRate)
	}
	if o.Duration != nil && *o.Duration < 0 {
		return fmt.Errorf("invalid duration: %v", *o.Duration)
	}
	if o.FrameSamples < 0 {
		return fmt.Errorf("invalid frame size: %d", o.FrameSamples)
	}
	return nil
}

func (o Options) frameSamples() int {
	if o.FrameSamples == 0 {
		return DefaultFrameSamples
	}
	return o.FrameSamples
}
