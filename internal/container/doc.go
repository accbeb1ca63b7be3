// ABOUTME: Native containers for WAV, MP3, FLAC and Ogg Opus files
// ABOUTME: Also provides the native codec backend that decodes their packets
// Package container opens audio files without ffmpeg.
//
// Each container exposes a single audio stream whose time base is one sample
// at the stream's rate. WAV, MP3 and FLAC are turned into PCM while demuxing,
// so their packets carry packed PCM and decode with the PCM decoder. Ogg Opus
// packets are passed through compressed and decode with the Opus decoder.
//
// Seeking lands on the packet containing the target timestamp. Packets are
// timestamped from zero, so the first packet of a file has PTS 0.
package container
