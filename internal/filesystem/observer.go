package filesystem

import "time"

// Observer records filesystem operation metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a filesystem operation.
	// operation is the fs operation type: "stat", "read", "readdir".
	ObserveOperation(operation string, durationSeconds float64, err error)

	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observeOperation(op string, d time.Duration, err error) {
	if defaultObserver != nil {
		defaultObserver.ObserveOperation(op, d.Seconds(), err)
	}
}

func observeRetryAttempt(op string) {
	if defaultObserver != nil {
		defaultObserver.ObserveRetryAttempt(op)
	}
}

func observeRetrySuccess(op string) {
	if defaultObserver != nil {
		defaultObserver.ObserveRetrySuccess(op)
	}
}

func observeRetryFailure(op string) {
	if defaultObserver != nil {
		defaultObserver.ObserveRetryFailure(op)
	}
}

func observeStaleError(op string) {
	if defaultObserver != nil {
		defaultObserver.ObserveStaleError(op)
	}
}
