// ABOUTME: Lazy packet filter over a container
// ABOUTME: Yields one stream's packets until an optional end timestamp is reached
package media

import (
	"errors"
	"fmt"
	"io"
)

// PacketFilter yields the packets of a single stream in container order.
// When an end bound is set, the sequence stops at the first packet whose PTS
// reaches it; that packet is never yielded and nothing after it is read.
//
// A PacketFilter is consumed once. To start over, seek the container and
// create a new filter.
type PacketFilter struct {
	c       Container
	index   int
	end     int64
	bounded bool
	done    bool
}

// NewPacketFilter creates a filter for streamIndex. end is in the stream's
// time base; nil means read to the end of the container.
func NewPacketFilter(c Container, streamIndex int, end *int64) *PacketFilter {
	f := &PacketFilter{
		c:     c,
		index: streamIndex,
	}
	if end != nil {
		f.end = *end
		f.bounded = true
	}
	return f
}

// Next returns the next packet, or io.EOF once the sequence has ended.
// Read failures are wrapped with ErrIO and end the sequence.
func (f *PacketFilter) Next() (Packet, error) {
	if f.done {
		return nil, io.EOF
	}

	for {
		p, err := f.c.ReadPacket()
		if errors.Is(err, io.EOF) {
			f.done = true
			return nil, io.EOF
		}
		if err != nil {
			f.done = true
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		if p.StreamIndex() != f.index {
			Release(p)
			continue
		}

		// Unknown timestamps never end the sequence
		if pts, ok := p.PTS(); ok && f.bounded && pts >= f.end {
			Release(p)
			f.done = true
			return nil, io.EOF
		}

		return p, nil
	}
}
