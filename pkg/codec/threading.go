// ABOUTME: Threaded decode configuration
// ABOUTME: Sizes frame-level decode parallelism to the host's CPU count
package codec

import (
	"fmt"
	"runtime"
)

// ThreadKind selects how a decoder parallelises its work
type ThreadKind int

const (
	// ThreadKindFrame decodes several frames concurrently
	ThreadKindFrame ThreadKind = iota + 1
	// ThreadKindSlice splits single frames across threads
	ThreadKindSlice
)

func (k ThreadKind) String() string {
	switch k {
	case ThreadKindFrame:
		return "frame"
	case ThreadKindSlice:
		return "slice"
	default:
		return "none"
	}
}

// ThreadingConfig requests parallel decoding from a backend
type ThreadingConfig struct {
	Kind  ThreadKind
	Count int
}

// availableParallelism is swapped out in tests
var availableParallelism = runtime.NumCPU

// BuildThreadingConfig requests frame-level parallelism with one thread per
// available CPU
func BuildThreadingConfig() (*ThreadingConfig, error) {
	n := availableParallelism()
	if n < 1 {
		return nil, fmt.Errorf("%w: host reports %d CPUs", ErrThreading, n)
	}
	return &ThreadingConfig{
		Kind:  ThreadKindFrame,
		Count: n,
	}, nil
}
