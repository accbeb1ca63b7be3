// ABOUTME: FFmpeg-backed containers, decoders and resampler
// ABOUTME: Compiled in only with the ffmpeg build tag
// Package ffmpeg implements media.Container and codec.Backend on top of
// libavformat, libavcodec and libswresample through go-astiav.
//
// The package needs the FFmpeg development libraries and is only built with
// the ffmpeg tag:
//
//	go build -tags ffmpeg ./...
//
// Without the tag Open and the Backend methods return ErrNotEnabled.
package ffmpeg
