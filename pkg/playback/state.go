// ABOUTME: Transport state enum
// ABOUTME: Names the lifecycle phases of a player
package playback

import "strconv"

// State is the transport lifecycle phase. It is stored atomically in
// the player so the real-time callback can read it without locking.
type State int32

const (
	// StateClosed means no file is open.
	StateClosed State = iota
	// StateStopped means a file is open but nothing is decoding.
	StateStopped
	// StatePlaying means the worker decodes and the device consumes.
	StatePlaying
	// StatePaused keeps the pipeline intact but the device emits
	// silence and the queue stays where it is.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}
