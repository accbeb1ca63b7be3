// ABOUTME: PCM extraction pipeline package
// ABOUTME: Drives seek, packet filtering, decoding and resampling into one float32 buffer
// Package extract turns one audio stream of an open container into mono
// float32 PCM at a caller-chosen sample rate.
//
// Decode runs the whole pipeline on the calling goroutine: it optionally seeks,
// reads the stream's packets up to an optional end bound, decodes them, and
// routes every frame through a resampler that is rebuilt whenever the source
// format drifts mid-stream. The result is returned only on success; partial
// output is discarded on error.
//
// Example:
//
//	stream, err := media.BestAudioStream(c)
//	if err != nil {
//	    return err
//	}
//	pcm, err := extract.Decode(c, stream.Index(), extract.Options{
//	    SampleRate: 16000,
//	    Backend:    backend,
//	})
package extract
