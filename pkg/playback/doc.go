// ABOUTME: Playback package running the decode and output pipeline
// ABOUTME: Provides the Player transport over sources and devices
// Package playback turns a media source into sound.
//
// A Player runs one decode worker goroutine that pulls chunks from the
// source and pushes them into a bounded queue; the output device's
// real-time callback drains the queue and tracks position on a
// lock-free clock. Backpressure comes from the queue's watermarks: the
// worker sleeps while the queue is full and wakes as the callback
// consumes.
//
// The transport surface is the classic one: OpenFile, Start, Stop,
// Pause, Resume, Seek, CurrentTime, Duration. Stop and Seek join the
// worker synchronously, so when they return no stale audio can reach
// the device.
//
//	p := playback.New(playback.Config{Log: log})
//	if err := p.OpenFile("track.flac"); err != nil { ... }
//	if err := p.Start(); err != nil { ... }
//	defer p.Close()
package playback
