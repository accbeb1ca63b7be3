// ABOUTME: Container seeking with a tolerance window
// ABOUTME: Validates the window against stream duration before repositioning
package media

import (
	"fmt"
	"log"
	"time"
)

// SeekTolerance is how far either side of the target a seek may land
const SeekTolerance = 1000 * time.Millisecond

// SeekWindow is the accepted landing range around a seek target
type SeekWindow struct {
	Target time.Duration
	Min    time.Duration
	Max    time.Duration
}

// NewSeekWindow builds target±SeekTolerance, clamping Min at zero
func NewSeekWindow(target time.Duration) SeekWindow {
	lo := target - SeekTolerance
	if lo < 0 {
		lo = 0
	}
	return SeekWindow{
		Target: target,
		Min:    lo,
		Max:    target + SeekTolerance,
	}
}

// SeekTo repositions c so packets of s resume near target. The window's upper
// bound must lie strictly before the end of the stream.
func SeekTo(c Container, s Stream, target time.Duration) error {
	if target < 0 {
		return fmt.Errorf("%w: negative seek target %v", ErrSeekOutOfBounds, target)
	}

	tb := s.TimeBase()
	if !tb.Valid() {
		return fmt.Errorf("stream %d has invalid time base %s", s.Index(), tb)
	}

	w := NewSeekWindow(target)
	total := ToDuration(tb, s.Duration())
	if w.Max >= total {
		return fmt.Errorf("%w: window ends at %v but stream %d lasts %v", ErrSeekOutOfBounds, w.Max, s.Index(), total)
	}

	ts := ToRaw(tb, w.Target)
	minTs := ToRaw(tb, w.Min)
	maxTs := ToRaw(tb, w.Max)

	log.Printf("Seeking stream %d to %v (window %v..%v, raw %d..%d)", s.Index(), w.Target, w.Min, w.Max, minTs, maxTs)

	if err := c.Seek(s.Index(), ts, minTs, maxTs); err != nil {
		return fmt.Errorf("%w: failed to seek to %v: %w", ErrIO, target, err)
	}
	return nil
}
