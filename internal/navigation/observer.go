package navigation

import (
	"time"

	"tube-adventures/internal/annotations"
)

// Observer records navigation metrics. The metrics package provides the
// Prometheus-backed implementation.
type Observer interface {
	ObserveLoad(durationSeconds float64, err error)
	ObserveActivation(t annotations.Type)
	ObserveFailure(r Reason)
	ObserveDuplicateID()
	ObserveSessionEnded(reason string)
}

var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observeLoad(d time.Duration, err error) {
	if defaultObserver != nil {
		defaultObserver.ObserveLoad(d.Seconds(), err)
	}
}

func observeActivation(t annotations.Type) {
	if defaultObserver != nil {
		defaultObserver.ObserveActivation(t)
	}
}

func observeFailure(r Reason) {
	if defaultObserver != nil {
		defaultObserver.ObserveFailure(r)
	}
}

func observeDuplicateID() {
	if defaultObserver != nil {
		defaultObserver.ObserveDuplicateID()
	}
}

func observeSessionEnded(reason string) {
	if defaultObserver != nil {
		defaultObserver.ObserveSessionEnded(reason)
	}
}
