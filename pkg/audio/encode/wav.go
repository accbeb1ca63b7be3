// ABOUTME: WAV file writer for extracted PCM
// ABOUTME: Quantises float32 samples to 16-bit mono using go-audio/wav
package encode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/aksiksi/shush/pkg/audio"
)

const wavBitDepth = 16

// WAVEncoder writes a 16-bit mono PCM WAV file
type WAVEncoder struct {
	enc     *wav.Encoder
	buf     *goaudio.IntBuffer
	started bool
}

// NewWAV creates a WAV encoder. The header is patched on Close, so w must
// be seekable.
func NewWAV(w io.WriteSeeker, sampleRate int) (*WAVEncoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	return &WAVEncoder{
		enc: wav.NewEncoder(w, sampleRate, wavBitDepth, 1, 1),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

// Write quantises samples with clipping and appends them
func (e *WAVEncoder) Write(samples []float32) error {
	e.buf.Data = e.buf.Data[:0]
	for _, s := range samples {
		e.buf.Data = append(e.buf.Data, int(audio.Float32ToInt16(s)))
	}

	if err := e.enc.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	e.started = true
	return nil
}

// Close writes the final chunk sizes
func (e *WAVEncoder) Close() error {
	// The header is only emitted with the first write
	if !e.started {
		if err := e.Write(nil); err != nil {
			return err
		}
	}
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("failed to finish wav: %w", err)
	}
	return nil
}
