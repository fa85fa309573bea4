package editor

import "sync/atomic"

// ZClock hands out monotonically increasing z-index values so newly added
// shapes paint above existing ones.
//
// Thread-safety: ZClock is safe for concurrent use (atomic operations).
type ZClock struct {
	z atomic.Int64
}

// NewZClock creates a clock starting at 0. The first Next returns 1.
func NewZClock() *ZClock {
	return &ZClock{}
}

// NewZClockAt creates a clock whose first Next returns start+1.
func NewZClockAt(start int64) *ZClock {
	c := &ZClock{}
	c.z.Store(start)
	return c
}

// Next returns the next z-index.
func (c *ZClock) Next() int64 {
	return c.z.Add(1)
}

// Current returns the last issued z-index without advancing.
func (c *ZClock) Current() int64 {
	return c.z.Load()
}

// Observe advances the clock to at least z, so later values stay above
// shapes loaded from a saved project.
func (c *ZClock) Observe(z int64) {
	for {
		cur := c.z.Load()
		if z <= cur || c.z.CompareAndSwap(cur, z) {
			return
		}
	}
}
