// ABOUTME: Error values for decoding and resampling
// ABOUTME: Separates control signals from fatal failures
package codec

import "errors"

// Control signals. These are part of the normal protocol and are not failures.
var (
	// ErrAgain means the decoder needs another packet before it can produce a frame
	ErrAgain = errors.New("decoder needs more input")
	// ErrEOF means a drained decoder has produced its last frame
	ErrEOF = errors.New("decoder fully drained")
	// ErrInputChanged means a frame no longer matches the resampler's source format
	ErrInputChanged = errors.New("resampler input format changed")
)

// Failures.
var (
	// ErrCodec wraps decode failures such as malformed or unsupported packets
	ErrCodec = errors.New("codec error")
	// ErrUnsupportedFormatTransition means a replacement resampler could not
	// handle a new source format
	ErrUnsupportedFormatTransition = errors.New("unsupported format transition")
	// ErrResample means a resampler failed for a reason other than a format change
	ErrResample = errors.New("unexpected resampler failure")
	// ErrThreading means a threaded decode configuration could not be built
	ErrThreading = errors.New("cannot configure threaded decoding")
)
