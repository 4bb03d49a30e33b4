package ledger

import "time"

// Clock supplies the current time as seconds since epoch. The ledger never
// reads wall-clock time directly; tests inject a fixed clock.
type Clock interface {
	Now() int64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

var _ Clock = SystemClock{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FixedClock always returns the same instant. Advance it explicitly in tests.
type FixedClock struct {
	T int64
}

var _ Clock = (*FixedClock)(nil)

func (c *FixedClock) Now() int64 {
	return c.T
}

// Advance moves the clock forward by d seconds.
func (c *FixedClock) Advance(d int64) {
	c.T += d
}
