package annotations

import "time"

// Observer records decoder metrics. The metrics package provides the
// Prometheus-backed implementation.
type Observer interface {
	// ObserveParse records one ParseFile or Decode call and its outcome.
	ObserveParse(kind ErrorKind, durationSeconds float64)
	// ObserveAnnotation counts a decoded annotation by type.
	ObserveAnnotation(t Type)
	// ObserveSkipped counts an annotation filtered out as not real.
	ObserveSkipped(reason string)
	// ObserveSingleRegion flags an annotation declared with one rectRegion.
	ObserveSingleRegion(id string)
}

var defaultObserver Observer

// SetObserver sets the package-level metrics observer. A nil observer
// disables recording.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observeParse(kind ErrorKind, d time.Duration) {
	if defaultObserver != nil {
		defaultObserver.ObserveParse(kind, d.Seconds())
	}
}

func observeAnnotation(t Type) {
	if defaultObserver != nil {
		defaultObserver.ObserveAnnotation(t)
	}
}

func observeSkipped(reason string) {
	if defaultObserver != nil {
		defaultObserver.ObserveSkipped(reason)
	}
}

func observeSingleRegion(id string) {
	log.Debug("annotation %q has a single rectRegion, visible until end of video", id)
	if defaultObserver != nil {
		defaultObserver.ObserveSingleRegion(id)
	}
}
