// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Format triple, the packed Frame buffer and sample conversions
// Package audio provides fundamental audio types and utilities for PCM extraction.
//
// This package defines core types used throughout shush:
//   - Format: the (sample format, channel layout, sample rate) triple a resampler is bound to
//   - Frame: a packed, interleaved PCM buffer reused as resampler scratch space
//
// It also provides utilities for converting between sample representations:
//   - 16-bit, 24-bit and 32-bit integer samples to float32
//   - 24-bit packed byte conversions
//   - bounds-checked extraction of float32 samples from a Frame
//
// Example:
//
//	target := audio.Format{
//	    SampleFormat: audio.SampleFormatF32,
//	    Layout:       audio.LayoutMono,
//	    SampleRate:   16000,
//	}
//
//	frame := audio.NewFrame(target, 1024)
//	pcm, err = audio.AppendFloat32(pcm, frame)
package audio
