// ABOUTME: Audio output package for previewing extracted audio
// ABOUTME: Provides the Output interface and an oto implementation
// Package output plays float32 PCM on the default audio device.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(16000, 1)
//	err = out.Write(samples)
//	err = out.Drain()
package output
