// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts decoded buffers to a fixed packed float32 target format
// Package resample provides sample rate and channel conversion for the native
// backend.
//
// A Resampler is bound to one source format. Input is optionally downmixed to
// mono, then linearly interpolated to the target rate. Interpolation state is
// carried across calls so consecutive buffers form one continuous signal.
//
// Converted samples are queued and delivered into the caller's frame up to its
// capacity; the number still queued is reported as the delay and drained by
// Flush.
//
// Example:
//
//	r, err := resample.New(srcFormat, dstFormat)
//	delay, err := r.Run(buffer, frame)
//	for delay > 0 {
//	    delay, err = r.Flush(frame)
//	}
package resample
