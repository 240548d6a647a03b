// ABOUTME: Read cursor over the chunk being played
// ABOUTME: Tracks how many bytes the callback has consumed
package playback

import "github.com/zwdconstrucition/linkstart/pkg/audio"

// cursor is the callback's private view of the chunk it is draining.
// Only the device thread touches it while the device runs; the
// transport resets it only after the device has been stopped.
type cursor struct {
	chunk  audio.Chunk
	offset int
}

func (c *cursor) exhausted() bool {
	return c.offset >= len(c.chunk.Data)
}

// adopt points the cursor at a fresh chunk.
func (c *cursor) adopt(ch audio.Chunk) {
	c.chunk = ch
	c.offset = 0
}

// copyInto moves up to len(dst) pending bytes into dst and returns how
// many were copied.
func (c *cursor) copyInto(dst []byte) int {
	n := copy(dst, c.chunk.Data[c.offset:])
	c.offset += n
	return n
}

func (c *cursor) reset() {
	c.chunk = audio.Chunk{}
	c.offset = 0
}
