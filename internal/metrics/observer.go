package metrics

import (
	"tube-adventures/internal/annotations"
	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/navigation"
)

// filesystemObserver implements filesystem.Observer using the Prometheus
// metrics declared in this package.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records filesystem metrics
// into the Prometheus counters and histograms declared in metrics.go.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveOperation(operation string, durationSeconds float64, err error) {
	FilesystemOperationDuration.WithLabelValues(operation).Observe(durationSeconds)
	if err != nil {
		FilesystemOperationErrors.WithLabelValues(operation).Inc()
	}
}

func (o *filesystemObserver) ObserveRetryAttempt(operation string) {
	FilesystemRetryAttempts.WithLabelValues(operation).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(operation string) {
	FilesystemRetrySuccess.WithLabelValues(operation).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(operation string) {
	FilesystemRetryFailures.WithLabelValues(operation).Inc()
}

func (o *filesystemObserver) ObserveStaleError(operation string) {
	FilesystemStaleErrors.WithLabelValues(operation).Inc()
}

// decoderObserver implements annotations.Observer.
type decoderObserver struct{}

// NewDecoderObserver creates an observer that records annotation decoder
// metrics.
func NewDecoderObserver() annotations.Observer {
	return &decoderObserver{}
}

func (o *decoderObserver) ObserveParse(kind annotations.ErrorKind, durationSeconds float64) {
	DecoderParsesTotal.WithLabelValues(kind.String()).Inc()
	DecoderParseDuration.Observe(durationSeconds)
}

func (o *decoderObserver) ObserveAnnotation(t annotations.Type) {
	DecoderAnnotationsTotal.WithLabelValues(t.String()).Inc()
}

func (o *decoderObserver) ObserveSkipped(reason string) {
	DecoderSkippedTotal.WithLabelValues(reason).Inc()
}

func (o *decoderObserver) ObserveSingleRegion(string) {
	DecoderSingleRegionTotal.Inc()
}

// navigationObserver implements navigation.Observer.
type navigationObserver struct{}

// NewNavigationObserver creates an observer that records navigator metrics.
func NewNavigationObserver() navigation.Observer {
	return &navigationObserver{}
}

func (o *navigationObserver) ObserveLoad(durationSeconds float64, err error) {
	NavigationLoadDuration.Observe(durationSeconds)
	status := "success"
	if err != nil {
		status = "error"
	}
	NavigationLoadsTotal.WithLabelValues(status).Inc()
}

func (o *navigationObserver) ObserveActivation(t annotations.Type) {
	NavigationActivationsTotal.WithLabelValues(t.String()).Inc()
}

func (o *navigationObserver) ObserveFailure(r navigation.Reason) {
	NavigationFailuresTotal.WithLabelValues(r.String()).Inc()
}

func (o *navigationObserver) ObserveDuplicateID() {
	NavigationDuplicateIDsTotal.Inc()
}

func (o *navigationObserver) ObserveSessionEnded(reason string) {
	SessionsEndedTotal.WithLabelValues(reason).Inc()
}

// Register installs the Prometheus-backed observers into every package that
// reports through one.
func Register() {
	filesystem.SetObserver(NewFilesystemObserver())
	annotations.SetObserver(NewDecoderObserver())
	navigation.SetObserver(NewNavigationObserver())
}
