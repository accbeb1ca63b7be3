// ABOUTME: Oto-based audio output implementation
// ABOUTME: Handles float32 PCM playback with software volume control using oto library
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// drainPoll is how often Drain checks whether the player has finished
const drainPoll = 20 * time.Millisecond

// Oto output implementation using oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	volume     int
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{
		volume: 100,
	}
}

// Open initializes the output device. oto allows a single context per
// process, so reopening with another format is rejected.
func (o *Oto) Open(sampleRate, channels int) error {
	if o.otoCtx != nil {
		if o.sampleRate == sampleRate && o.channels == channels {
			return nil
		}
		return fmt.Errorf("output already open at %dHz %dch, cannot switch to %dHz %dch",
			o.sampleRate, o.channels, sampleRate, channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	// Create pipe for continuous streaming
	o.pipeReader, o.pipeWriter = io.Pipe()

	// Create persistent player that reads from the pipe
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []float32) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}

	scaled := applyVolume(samples, o.volume)

	output := make([]byte, len(scaled)*4)
	for i, sample := range scaled {
		binary.LittleEndian.PutUint32(output[i*4:], math.Float32bits(sample))
	}

	// Write to pipe (which feeds the persistent player)
	if _, err := o.pipeWriter.Write(output); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Drain ends the stream and waits for the player to finish it
func (o *Oto) Drain() error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}

	o.pipeWriter.Close()
	for o.player.IsPlaying() {
		time.Sleep(drainPoll)
	}
	return o.player.Err()
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
	o.ready = false
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.volume = volume
	log.Printf("Volume set to %d", volume)
}

// applyVolume scales samples and clamps them to [-1, 1]
func applyVolume(samples []float32, volume int) []float32 {
	multiplier := float32(volume) / 100

	result := make([]float32, len(samples))
	for i, sample := range samples {
		s := sample * multiplier
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		result[i] = s
	}

	return result
}
