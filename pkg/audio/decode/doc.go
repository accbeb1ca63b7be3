// ABOUTME: Native packet decoders for the extraction pipeline
// ABOUTME: Provides PCM and Opus decoders behind the codec.Decoder contract
// Package decode provides packet decoders for the native backend.
//
// Supports: PCM (16-bit, 24-bit, 32-bit integer and 32-bit float), Opus
//
// Decoders follow the submit/retrieve protocol of codec.Decoder and output
// *audio.Buffer frames of interleaved float32 samples. Each frame reports the
// format it was decoded from, so a PCM stream whose packets change layout
// mid-stream surfaces as a format change at the resampler.
//
// Example:
//
//	dec, err := decode.New(stream.CodecParameters())
//	if err := dec.SendPacket(packet); err != nil {
//	    return err
//	}
//	frame, err := dec.ReceiveFrame()
package decode
