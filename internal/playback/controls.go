package playback

import (
	"time"

	"tube-adventures/internal/logging"
)

var log = logging.For("playback")

// Key is a keyboard key the player reacts to.
type Key int

const (
	KeyLeft Key = iota + 1
	KeyRight
	KeySpace
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
)

// SeekStep returns how far an arrow key moves playback for the given
// modifiers. Other modifier combinations use the unmodified step.
func SeekStep(mods Modifiers) time.Duration {
	switch mods {
	case ModShift:
		return 3 * time.Second
	case ModCtrl:
		return time.Minute
	case ModCtrl | ModShift:
		return 0
	default:
		return 10 * time.Second
	}
}

// ClampPosition limits position to [0, max(0, duration-1s)] so a seek never
// lands on the end-of-media signal.
func ClampPosition(position, duration time.Duration) time.Duration {
	limit := duration - time.Second
	if limit < 0 {
		limit = 0
	}
	switch {
	case position < 0:
		return 0
	case position > limit:
		return limit
	default:
		return position
	}
}

// Controls maps keyboard input onto a Host.
type Controls struct {
	host Host
}

// NewControls creates keyboard controls for host.
func NewControls(host Host) *Controls {
	return &Controls{host: host}
}

// SeekBy moves playback by delta, clamped to the playable range.
func (c *Controls) SeekBy(delta time.Duration) error {
	target := ClampPosition(c.host.Position()+delta, c.host.Duration())
	return c.host.Seek(target)
}

// TogglePlayPause pauses a playing video and resumes a paused one. A stopped
// player is left alone.
func (c *Controls) TogglePlayPause() error {
	switch state := c.host.State(); state {
	case StatePlaying:
		return c.host.Pause()
	case StatePaused:
		return c.host.Play()
	default:
		log.Debug("play/pause ignored in state %s", state)
		return nil
	}
}

// HandleKey applies one key press. Unknown keys are ignored.
func (c *Controls) HandleKey(key Key, mods Modifiers) error {
	switch key {
	case KeyRight:
		return c.SeekBy(SeekStep(mods))
	case KeyLeft:
		return c.SeekBy(-SeekStep(mods))
	case KeySpace:
		return c.TogglePlayPause()
	default:
		return nil
	}
}

// ParseKey maps a DOM KeyboardEvent.key value onto a Key.
func ParseKey(name string) (Key, bool) {
	switch name {
	case "ArrowLeft":
		return KeyLeft, true
	case "ArrowRight":
		return KeyRight, true
	case " ", "Space":
		return KeySpace, true
	default:
		return 0, false
	}
}
