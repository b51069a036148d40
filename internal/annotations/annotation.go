package annotations

import (
	"fmt"
	"time"
)

// MaxRGB is the largest legal packed 24-bit RGB value.
const MaxRGB = 0xFFFFFF

// Type classifies what activating an annotation does.
type Type int

const (
	// TypeGameplay annotations navigate to another video when activated.
	TypeGameplay Type = iota + 1
	// TypeNotes annotations are informational only.
	TypeNotes
	// TypeExternalLink annotations point outside the video graph.
	TypeExternalLink
)

// String returns the wire name of the type.
func (t Type) String() string {
	switch t {
	case TypeGameplay:
		return "gameplay"
	case TypeNotes:
		return "notes"
	case TypeExternalLink:
		return "external_link"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// RectRegion is a time-stamped rectangle. X, Y, Width and Height are
// percentages of the video frame; Time is the offset from the start of the
// video.
type RectRegion struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Time   time.Duration
}

// Color is a packed 24-bit RGB value with a separate alpha in [0, 1].
type Color struct {
	RGB   uint32
	Alpha float64
}

// Components splits the packed value into its channels.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c.RGB >> 16), uint8(c.RGB >> 8), uint8(c.RGB)
}

// Hex formats the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", c.RGB&MaxRGB)
}

// Annotation is one interactive overlay on a video.
type Annotation struct {
	ID   string
	Text string

	StartRect RectRegion
	// EndRect is nil when the annotation stays visible after StartRect.Time.
	EndRect *RectRegion

	Background Color
	Foreground Color
	TextSize   float64

	ClickURL string
	Type     Type
}

// VisibleAt reports whether position falls inside the annotation's window.
func (a *Annotation) VisibleAt(position time.Duration) bool {
	if position < a.StartRect.Time {
		return false
	}
	return a.EndRect == nil || position <= a.EndRect.Time
}

// HasSingleRegion reports whether the annotation was declared with only a
// start rectangle.
func (a *Annotation) HasSingleRegion() bool {
	return a.EndRect == nil
}
