// ABOUTME: Audio encoder package for writing extracted PCM
// ABOUTME: Provides Encoder interface and raw float32 and WAV implementations
// Package encode writes mono float32 PCM to files.
//
// Supports: raw little-endian float32 (f32) and 16-bit PCM WAV (wav).
//
// Example:
//
//	enc, err := encode.New(encode.FormatWAV, f, 16000)
//	err = enc.Write(samples)
//	err = enc.Close()
package encode
