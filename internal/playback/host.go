package playback

import (
	"fmt"
	"time"
)

// State is the transport state reported by a Host.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, bool) {
	switch s {
	case "stopped":
		return StateStopped, true
	case "playing":
		return StatePlaying, true
	case "paused":
		return StatePaused, true
	default:
		return StateStopped, false
	}
}

// Source is something a Host can play: a local file served by this process
// or a remote URL.
type Source struct {
	VideoID string `json:"videoId"`
	URI     string `json:"uri"`
	Local   bool   `json:"local"`
}

// Host is the video player the navigator drives. Position, Duration and
// State return the last values the player reported; the control methods
// return once the command has been handed to the player.
//
// The player reports back through the navigator's OnDurationChanged,
// OnPositionChanged and OnEndOfMedia entry points.
type Host interface {
	Position() time.Duration
	Duration() time.Duration
	State() State

	Seek(position time.Duration) error
	Play() error
	Pause() error
	Open(src Source) error
}
