// ABOUTME: Error values for container operations
// ABOUTME: Callers match them with errors.Is
package media

import "errors"

var (
	// ErrNoAudioStream is returned when a container has no usable audio stream
	ErrNoAudioStream = errors.New("no audio stream found")
	// ErrStreamNotFound is returned for an out-of-range stream index
	ErrStreamNotFound = errors.New("stream not found")
	// ErrSeekOutOfBounds is returned when the seek window reaches past the stream end
	ErrSeekOutOfBounds = errors.New("seek window exceeds stream duration")
	// ErrIO wraps failures reading from the underlying container
	ErrIO = errors.New("container read failed")
)
