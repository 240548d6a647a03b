// ABOUTME: Lock-free playback clock
// ABOUTME: Publishes the presentation time of the playing chunk
package playback

import (
	"math"
	"sync/atomic"
)

// Clock holds the presentation time of the chunk most recently adopted
// by the playback callback. The callback stores it from the device
// thread; any goroutine may read it. The zero value reads as 0.
type Clock struct {
	bits atomic.Uint64
}

// Set records t as the current playback position in seconds.
func (c *Clock) Set(t float64) {
	c.bits.Store(math.Float64bits(t))
}

// Time returns the current playback position in seconds.
func (c *Clock) Time() float64 {
	return math.Float64frombits(c.bits.Load())
}
