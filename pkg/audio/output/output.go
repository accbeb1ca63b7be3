// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for previewing extracted PCM
package output

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Write outputs interleaved float32 samples in [-1, 1] (blocks until written)
	Write(samples []float32) error

	// SetVolume scales later writes, 0 (silent) to 100 (unchanged)
	SetVolume(volume int)

	// Drain blocks until everything written has been played
	Drain() error

	// Close releases output resources
	Close() error
}
