// ABOUTME: Output device interface and backend selection
// ABOUTME: Devices pull PCM through a fill callback on their own thread
package output

import (
	"fmt"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// FillFunc is the pull side of playback. The device invokes it on its
// audio thread with a buffer of interleaved s16le PCM to fill
// completely; the callee writes silence for any region it has no data
// for. Implementations must return quickly and must not block.
type FillFunc func(dst []byte)

// Device is one opened playback device bound to a FillFunc. Pause and
// Resume are idempotent. Close releases the device; after Close the
// fill callback is never invoked again.
type Device interface {
	// Start begins pulling audio through the fill callback.
	Start() error

	// Pause halts the hardware stream. No fill calls arrive while
	// paused.
	Pause() error

	// Resume restarts a paused stream.
	Resume() error

	// Close stops the stream and releases the device. It does not
	// return until no callback is in flight.
	Close() error
}

// OpenFunc opens a playback device. The playback package takes one of
// these so tests can substitute a fake device.
type OpenFunc func(backend string, format audio.Format, bufferFrames int, fill FillFunc) (Device, error)

// Backend names accepted by Open.
const (
	BackendMalgo     = "malgo"
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
)

// Open creates the device for the named backend. An empty name picks
// malgo.
func Open(backend string, format audio.Format, bufferFrames int, fill FillFunc) (Device, error) {
	switch backend {
	case BackendMalgo, "":
		return NewMalgo(format, bufferFrames, fill)
	case BackendOto:
		return NewOto(format, fill)
	case BackendPortAudio:
		return NewPortAudio(format, bufferFrames, fill)
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}
