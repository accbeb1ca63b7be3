// ABOUTME: Native codec backend
// ABOUTME: Builds PCM and Opus decoders and the linear resampler for native containers
package container

import (
	"log"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/audio/decode"
	"github.com/aksiksi/shush/pkg/audio/resample"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

// Backend decodes streams opened by this package
type Backend struct{}

// Name returns the backend name
func (Backend) Name() string {
	return "native"
}

// NewDecoder opens a decoder for s. Native decoders run on the calling
// goroutine, so a threading request is logged and ignored.
func (Backend) NewDecoder(s media.Stream, threading *codec.ThreadingConfig) (codec.Decoder, error) {
	if threading != nil {
		log.Printf("Native decoders are single-threaded, ignoring %s threading with %d threads", threading.Kind, threading.Count)
	}
	return decode.New(s.CodecParameters())
}

// NewResampler builds a linear resampler from src to dst
func (Backend) NewResampler(src, dst audio.Format) (codec.Resampler, error) {
	r, err := resample.New(src, dst)
	if err != nil {
		return nil, err
	}
	return r, nil
}
