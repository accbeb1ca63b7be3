// ABOUTME: Container-side package for stream selection, seeking and packet filtering
// ABOUTME: Defines the Container, Stream and Packet contracts shared by all backends
// Package media describes demuxed media sources and the policy applied to them
// before decoding.
//
// A Container exposes streams and a sequential packet reader. This package
// picks the best audio stream, repositions the container with a tolerance
// window, and filters packets down to a single stream bounded by an optional
// end timestamp.
//
// Timestamps are integers in a stream's time base. ToDuration and ToRaw
// convert between time base units and wall-clock durations; both directions
// go through seconds so the conversion is symmetric.
//
// Example:
//
//	stream, err := media.BestAudioStream(c)
//	if err := media.SeekTo(c, stream, 30*time.Second); err != nil {
//	    return err
//	}
//	end := media.ToRaw(stream.TimeBase(), 40*time.Second)
//	packets := media.NewPacketFilter(c, stream.Index(), &end)
package media
