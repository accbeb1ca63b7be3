//go:build ffmpeg

// ABOUTME: FFmpeg codec backend
// ABOUTME: Builds libavcodec decoders and libswresample resamplers for ffmpeg containers
package ffmpeg

import (
	"fmt"
	"log"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

// Backend decodes streams opened by Open
type Backend struct{}

// Name returns the backend name
func (Backend) Name() string {
	return "ffmpeg"
}

// NewDecoder opens a libavcodec decoder for s
func (Backend) NewDecoder(s media.Stream, threading *codec.ThreadingConfig) (codec.Decoder, error) {
	st, ok := s.(*Stream)
	if !ok {
		return nil, fmt.Errorf("stream of type %T was not opened by the ffmpeg container", s)
	}
	d, err := newDecoder(st, threading)
	if err != nil {
		return nil, err
	}
	if threading != nil {
		log.Printf("Decoder for stream %d using %s threading with %d threads", st.Index(), threading.Kind, threading.Count)
	}
	return d, nil
}

// NewResampler builds a resampler from src to dst
func (Backend) NewResampler(src, dst audio.Format) (codec.Resampler, error) {
	r, err := newResampler(src, dst)
	if err != nil {
		return nil, err
	}
	return r, nil
}
