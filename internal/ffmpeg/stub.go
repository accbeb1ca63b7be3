//go:build !ffmpeg

// ABOUTME: FFmpeg stub when the libraries are not linked
// ABOUTME: Keeps the package importable without cgo or the ffmpeg tag
package ffmpeg

import (
	"errors"

	"github.com/aksiksi/shush/pkg/audio"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/media"
)

// ErrNotEnabled is returned by every entry point of the stub build
var ErrNotEnabled = errors.New("ffmpeg support not enabled (build with -tags ffmpeg)")

// Open opens a media file (stub)
func Open(path string) (media.Container, error) {
	return nil, ErrNotEnabled
}

// Backend is the ffmpeg codec backend (stub)
type Backend struct{}

// Name returns the backend name
func (Backend) Name() string {
	return "ffmpeg"
}

// NewDecoder opens a decoder (stub)
func (Backend) NewDecoder(s media.Stream, threading *codec.ThreadingConfig) (codec.Decoder, error) {
	return nil, ErrNotEnabled
}

// NewResampler builds a resampler (stub)
func (Backend) NewResampler(src, dst audio.Format) (codec.Resampler, error) {
	return nil, ErrNotEnabled
}
