package navigation

import "tube-adventures/internal/playback"

// Rect is an overlay rectangle in the host's coordinate space.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Listener receives the navigator's outbound events. Calls are made
// synchronously from whichever goroutine drives the navigator.
type Listener interface {
	AnnotationShown(id, text string, rect Rect)
	AnnotationHidden(id string)
	NavigationFailed(f *Failure)

	// VideoLoaded fires after a new video's annotations replaced the old
	// ones and the host accepted the source.
	VideoLoaded(videoID string, src playback.Source, annotations int)
	ExternalLinkActivated(url string)
	SessionEnded(reason string)
}

// NopListener discards every event. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) AnnotationShown(string, string, Rect)     {}
func (NopListener) AnnotationHidden(string)                  {}
func (NopListener) NavigationFailed(*Failure)                {}
func (NopListener) VideoLoaded(string, playback.Source, int) {}
func (NopListener) ExternalLinkActivated(string)             {}
func (NopListener) SessionEnded(string)                      {}
