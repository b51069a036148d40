package session

import (
	"tube-adventures/internal/navigation"
	"tube-adventures/internal/playback"
)

// listener forwards navigator events to the browser. Events that do not fit
// in the send queue are dropped with a warning.
type listener struct {
	s *Session
}

func (l listener) AnnotationShown(id, text string, rect navigation.Rect) {
	l.forward(EventShown, shownData{ID: id, Text: text, Rect: rect})
}

func (l listener) AnnotationHidden(id string) {
	l.forward(EventHidden, hiddenData{ID: id})
}

func (l listener) NavigationFailed(f *navigation.Failure) {
	l.forward(EventFailed, failedData{Reason: f.Reason, Target: f.Target, Message: f.Error()})
}

func (l listener) VideoLoaded(videoID string, src playback.Source, annotations int) {
	l.forward(EventLoaded, loadedData{VideoID: videoID, Source: l.s.publicSource(src), Annotations: annotations})
}

func (l listener) ExternalLinkActivated(url string) {
	l.forward(EventExternal, externalData{URL: url})
}

func (l listener) SessionEnded(reason string) {
	l.forward(EventSessionEnded, endedData{Reason: reason})
}

func (l listener) forward(event string, data interface{}) {
	if err := l.s.emit(event, data); err != nil {
		log.Warn("session %s: dropped %s: %v", l.s.id, event, err)
	}
}

var _ navigation.Listener = listener{}
