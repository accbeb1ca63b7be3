// ABOUTME: Time base rational numbers
// ABOUTME: Converts between raw stream timestamps and wall-clock durations
package media

import (
	"fmt"
	"time"
)

// Rational is a time base: one raw timestamp unit lasts Num/Den seconds
type Rational struct {
	Num int
	Den int
}

// NewRational creates a time base of num/den seconds per unit
func NewRational(num, den int) Rational {
	return Rational{Num: num, Den: den}
}

// Valid reports whether the time base can be used for conversions
func (r Rational) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// ToDuration converts a raw timestamp to a duration: raw * time_base seconds
func ToDuration(tb Rational, raw int64) time.Duration {
	if tb.Den == 0 {
		return 0
	}
	seconds := float64(raw) * float64(tb.Num) / float64(tb.Den)
	return time.Duration(seconds * float64(time.Second))
}

// ToRaw converts a duration to raw time base units: seconds / time_base,
// truncated toward zero
func ToRaw(tb Rational, d time.Duration) int64 {
	if !tb.Valid() {
		return 0
	}
	return int64(d.Seconds() * float64(tb.Den) / float64(tb.Num))
}
