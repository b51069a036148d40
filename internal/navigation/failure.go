package navigation

import (
	"errors"
	"fmt"
)

// Reason classifies why a navigation step failed.
type Reason int

const (
	// ReasonBadClickURL means the click URL carries no video ID.
	ReasonBadClickURL Reason = iota + 1
	// ReasonAnnotationsNotFound means no annotation file exists for the ID.
	ReasonAnnotationsNotFound
	// ReasonParseFailed means the destination annotation file did not decode.
	ReasonParseFailed
	// ReasonSourceNotFound means no playable source is known for the video.
	ReasonSourceNotFound
	// ReasonHostFailed means the player rejected the open or play command.
	ReasonHostFailed
)

var reasonNames = map[Reason]string{
	ReasonBadClickURL:         "bad_click_url",
	ReasonAnnotationsNotFound: "annotations_not_found",
	ReasonParseFailed:         "parse_failed",
	ReasonSourceNotFound:      "source_not_found",
	ReasonHostFailed:          "host_failed",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Reasons lists every Reason.
func Reasons() []Reason {
	return []Reason{ReasonBadClickURL, ReasonAnnotationsNotFound, ReasonParseFailed, ReasonSourceNotFound, ReasonHostFailed}
}

// ErrSessionEnded is returned by entry points called after the session ended.
var ErrSessionEnded = errors.New("session ended")

// Failure describes a failed navigation step.
type Failure struct {
	Reason Reason
	// Target is the click URL, video ID or path the step was working on.
	Target string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("navigation failed (%s) for %q: %v", f.Reason, f.Target, f.Err)
	}
	return fmt.Sprintf("navigation failed (%s) for %q", f.Reason, f.Target)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
