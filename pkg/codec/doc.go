// ABOUTME: Codec contracts for packet decoding and PCM resampling
// ABOUTME: Defines Decoder, Resampler, Backend and decode threading configuration
// Package codec defines the decode and resample primitives the extraction
// pipeline drives.
//
// A Decoder follows a submit/retrieve protocol: SendPacket hands it one
// compressed packet, then ReceiveFrame is called until it returns ErrAgain.
// Sending a nil packet starts draining; ReceiveFrame then returns ErrEOF once
// every buffered frame has been produced.
//
// A Resampler is bound to one source Format. Run returns ErrInputChanged when
// a frame no longer matches it, and reports a delay while converted samples
// remain buffered; Flush drains them.
//
// Backends construct both for a given stream. Implementations live in
// pkg/audio/decode and pkg/audio/resample (native) and internal/ffmpeg.
package codec
