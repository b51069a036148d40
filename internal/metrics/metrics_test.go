package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"tube-adventures/internal/annotations"
	"tube-adventures/internal/navigation"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"DBQueryTotal", DBQueryTotal},
		{"DBQueryDuration", DBQueryDuration},
		{"DBSizeBytes", DBSizeBytes},
		{"DecoderParsesTotal", DecoderParsesTotal},
		{"DecoderSkippedTotal", DecoderSkippedTotal},
		{"NavigationFailuresTotal", NavigationFailuresTotal},
		{"SessionsActive", SessionsActive},
		{"IndexerRunsTotal", IndexerRunsTotal},
		{"LibraryFilesTotal", LibraryFilesTotal},
		{"WatcherEventsTotal", WatcherEventsTotal},
		{"FilesystemRetryAttempts", FilesystemRetryAttempts},
		{"AppInfo", AppInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestFilesystemObserver(t *testing.T) {
	o := NewFilesystemObserver()

	before := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("readdir"))
	o.ObserveOperation("readdir", 0.01, errors.New("boom"))
	o.ObserveOperation("readdir", 0.01, nil)
	if got := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("readdir")) - before; got != 1 {
		t.Errorf("readdir errors increased by %v, want 1", got)
	}

	before = testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("read"))
	o.ObserveStaleError("read")
	if got := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("read")) - before; got != 1 {
		t.Errorf("stale errors increased by %v, want 1", got)
	}
}

func TestDecoderObserver(t *testing.T) {
	o := NewDecoderObserver()

	tests := []struct {
		name    string
		observe func()
		counter func() float64
	}{
		{
			name:    "parse kind",
			observe: func() { o.ObserveParse(annotations.KindInvalidFormat, 0.001) },
			counter: func() float64 { return testutil.ToFloat64(DecoderParsesTotal.WithLabelValues("invalid_format")) },
		},
		{
			name:    "annotation type",
			observe: func() { o.ObserveAnnotation(annotations.TypeGameplay) },
			counter: func() float64 { return testutil.ToFloat64(DecoderAnnotationsTotal.WithLabelValues("gameplay")) },
		},
		{
			name:    "skipped",
			observe: func() { o.ObserveSkipped(annotations.SkipNotPopup) },
			counter: func() float64 { return testutil.ToFloat64(DecoderSkippedTotal.WithLabelValues("not_popup")) },
		},
		{
			name:    "single region",
			observe: func() { o.ObserveSingleRegion("annotation_1") },
			counter: func() float64 { return testutil.ToFloat64(DecoderSingleRegionTotal) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.counter()
			tt.observe()
			if got := tt.counter() - before; got != 1 {
				t.Errorf("counter increased by %v, want 1", got)
			}
		})
	}
}

func TestNavigationObserver(t *testing.T) {
	o := NewNavigationObserver()

	beforeOK := testutil.ToFloat64(NavigationLoadsTotal.WithLabelValues("success"))
	beforeErr := testutil.ToFloat64(NavigationLoadsTotal.WithLabelValues("error"))
	o.ObserveLoad(0.1, nil)
	o.ObserveLoad(0.1, errors.New("no source"))
	if got := testutil.ToFloat64(NavigationLoadsTotal.WithLabelValues("success")) - beforeOK; got != 1 {
		t.Errorf("successful loads increased by %v, want 1", got)
	}
	if got := testutil.ToFloat64(NavigationLoadsTotal.WithLabelValues("error")) - beforeErr; got != 1 {
		t.Errorf("failed loads increased by %v, want 1", got)
	}

	before := testutil.ToFloat64(NavigationFailuresTotal.WithLabelValues("bad_click_url"))
	o.ObserveFailure(navigation.ReasonBadClickURL)
	if got := testutil.ToFloat64(NavigationFailuresTotal.WithLabelValues("bad_click_url")) - before; got != 1 {
		t.Errorf("bad_click_url failures increased by %v, want 1", got)
	}

	before = testutil.ToFloat64(SessionsEndedTotal.WithLabelValues(navigation.EndOfMedia))
	o.ObserveSessionEnded(navigation.EndOfMedia)
	if got := testutil.ToFloat64(SessionsEndedTotal.WithLabelValues(navigation.EndOfMedia)) - before; got != 1 {
		t.Errorf("end_of_media increased by %v, want 1", got)
	}
}

func TestInitializeMetrics(t *testing.T) {
	InitializeMetrics()

	tests := []struct {
		name  string
		count int
		min   int
	}{
		{"DecoderParsesTotal", testutil.CollectAndCount(DecoderParsesTotal), len(annotations.Kinds())},
		{"NavigationFailuresTotal", testutil.CollectAndCount(NavigationFailuresTotal), len(navigation.Reasons())},
		{"DecoderSkippedTotal", testutil.CollectAndCount(DecoderSkippedTotal), 3},
		{"LibraryFilesTotal", testutil.CollectAndCount(LibraryFilesTotal), 2},
		{"DBSizeBytes", testutil.CollectAndCount(DBSizeBytes), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.count < tt.min {
				t.Errorf("%s exports %d series, want at least %d", tt.name, tt.count, tt.min)
			}
		})
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.0.0", "abc123", "go1.25")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.0.0", "abc123", "go1.25")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}

func TestMetricsConcurrentAccess(t *testing.T) {
	done := make(chan bool, 10)

	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Goroutine %d panicked: %v", id, r)
				}
				done <- true
			}()

			HTTPRequestsTotal.WithLabelValues("GET", "/test", "200").Inc()
			DBQueryTotal.WithLabelValues("list_files", "success").Inc()
			IndexerFilesProcessed.Add(1)
			DecoderAnnotationsTotal.WithLabelValues("notes").Inc()
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
