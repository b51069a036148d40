package session

import (
	"encoding/json"
	"time"

	"tube-adventures/internal/navigation"
	"tube-adventures/internal/playback"
)

// Message is the envelope for every frame in either direction.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Events sent by the browser.
const (
	EventStart    = "start"
	EventPosition = "position"
	EventDuration = "duration"
	EventState    = "state"
	EventEnded    = "ended"
	EventClick    = "click"
	EventKey      = "key"
	EventClose    = "close"
)

// Player commands sent to the browser.
const (
	CommandOpen  = "open"
	CommandPlay  = "play"
	CommandPause = "pause"
	CommandSeek  = "seek"
)

// Navigation events sent to the browser.
const (
	EventSession      = "session"
	EventShown        = "annotation_shown"
	EventHidden       = "annotation_hidden"
	EventFailed       = "navigation_failed"
	EventLoaded       = "video_loaded"
	EventExternal     = "external_link"
	EventSessionEnded = "session_ended"
	EventError        = "error"
)

type startData struct {
	VideoID string `json:"videoId"`
}

type secondsData struct {
	Seconds float64 `json:"seconds"`
}

func (d secondsData) duration() time.Duration {
	if d.Seconds <= 0 {
		return 0
	}
	return time.Duration(d.Seconds * float64(time.Second))
}

func seconds(d time.Duration) secondsData {
	return secondsData{Seconds: d.Seconds()}
}

type stateData struct {
	State string `json:"state"`
}

type clickData struct {
	ID string `json:"id"`
}

type keyData struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
	Ctrl  bool   `json:"ctrl"`
}

func (d keyData) modifiers() playback.Modifiers {
	var m playback.Modifiers
	if d.Shift {
		m |= playback.ModShift
	}
	if d.Ctrl {
		m |= playback.ModCtrl
	}
	return m
}

type sessionData struct {
	ID string `json:"id"`
}

type shownData struct {
	ID   string          `json:"id"`
	Text string          `json:"text"`
	Rect navigation.Rect `json:"rect"`
}

type hiddenData struct {
	ID string `json:"id"`
}

type failedData struct {
	Reason  navigation.Reason `json:"reason"`
	Target  string            `json:"target"`
	Message string            `json:"message"`
}

type loadedData struct {
	VideoID     string          `json:"videoId"`
	Source      playback.Source `json:"source"`
	Annotations int             `json:"annotations"`
}

type externalData struct {
	URL string `json:"url"`
}

type endedData struct {
	Reason string `json:"reason"`
}

type errorData struct {
	Message string `json:"message"`
}
