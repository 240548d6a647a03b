// ABOUTME: Bounded FIFO of decoded chunks
// ABOUTME: Producer blocks on a high watermark, consumer never blocks
package playback

import (
	"sync"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// frameQueue is the mailbox between the decode worker and the playback
// callback. Push applies watermark backpressure to the single producer;
// TryPop never waits, which keeps it safe on the device thread. The
// condition variable serves only the producer side.
type frameQueue struct {
	mu      sync.Mutex
	notFull *sync.Cond
	chunks  []audio.Chunk
	high    int
	low     int
	stopped bool
}

func newFrameQueue(high, low int) *frameQueue {
	q := &frameQueue{high: high, low: low}
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends c, blocking while the queue sits above the high watermark.
// The wait releases once the consumer drains the queue to the low
// watermark or the queue is stopped. Push returns false when the queue
// was stopped before or during the wait and c was not enqueued.
func (q *frameQueue) Push(c audio.Chunk) bool {
	q.mu.Lock()
	for len(q.chunks) > q.high && !q.stopped {
		q.notFull.Wait()
	}
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	q.chunks = append(q.chunks, c)
	q.mu.Unlock()
	return true
}

// TryPop removes and returns the head chunk. It never waits: a false
// result means the queue is empty. The critical section is a few
// pointer moves, short enough for the real-time callback.
func (q *frameQueue) TryPop() (audio.Chunk, bool) {
	q.mu.Lock()
	if len(q.chunks) == 0 {
		q.mu.Unlock()
		return audio.Chunk{}, false
	}
	c := q.chunks[0]
	q.chunks[0] = audio.Chunk{}
	q.chunks = q.chunks[1:]
	if len(q.chunks) <= q.low {
		q.notFull.Signal()
	}
	q.mu.Unlock()
	return c, true
}

// Stop wakes a waiting producer and makes every later Push fail. Queued
// chunks stay in place until Clear or Reset.
func (q *frameQueue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.notFull.Broadcast()
	q.mu.Unlock()
}

// Clear drops all queued chunks and wakes a producer blocked on the
// watermark.
func (q *frameQueue) Clear() {
	q.mu.Lock()
	q.chunks = nil
	q.notFull.Broadcast()
	q.mu.Unlock()
}

// Reset empties the queue and re-arms it for a new producer.
func (q *frameQueue) Reset() {
	q.mu.Lock()
	q.chunks = nil
	q.stopped = false
	q.mu.Unlock()
}

func (q *frameQueue) Len() int {
	q.mu.Lock()
	n := len(q.chunks)
	q.mu.Unlock()
	return n
}
