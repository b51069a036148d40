package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tube_adventures_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tube_adventures_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tube_adventures_db_size_bytes",
			Help: "Size of the catalog database files in bytes",
		},
		[]string{"file"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tube_adventures_db_transaction_duration_seconds",
			Help:    "Database transaction duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"type"},
	)
)

// Annotation decoder metrics
var (
	DecoderParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_decoder_parses_total",
			Help: "Total number of annotation files decoded, by result kind",
		},
		[]string{"kind"},
	)

	DecoderParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tube_adventures_decoder_parse_duration_seconds",
			Help:    "Time taken to decode one annotation file",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	DecoderAnnotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_decoder_annotations_total",
			Help: "Total number of annotations decoded, by type",
		},
		[]string{"type"},
	)

	DecoderSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_decoder_skipped_total",
			Help: "Total number of annotation elements dropped as not real, by reason",
		},
		[]string{"reason"},
	)

	DecoderSingleRegionTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_decoder_single_region_total",
			Help: "Total number of annotations declared with a single rectRegion",
		},
	)
)

// Navigation metrics
var (
	NavigationLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_navigation_loads_total",
			Help: "Total number of video loads by the navigator",
		},
		[]string{"status"},
	)

	NavigationLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tube_adventures_navigation_load_duration_seconds",
			Help:    "Time taken to decode, resolve and open the next video",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	NavigationActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_navigation_activations_total",
			Help: "Total number of annotation clicks, by annotation type",
		},
		[]string{"type"},
	)

	NavigationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_navigation_failures_total",
			Help: "Total number of navigation failures, by reason",
		},
		[]string{"reason"},
	)

	NavigationDuplicateIDsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_navigation_duplicate_ids_total",
			Help: "Total number of duplicate annotation IDs seen in loaded files",
		},
	)
)

// Playback session metrics
var (
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_sessions_active",
			Help: "Number of playback sessions currently connected",
		},
	)

	SessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_sessions_total",
			Help: "Total number of playback sessions started",
		},
	)

	SessionsEndedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_sessions_ended_total",
			Help: "Total number of playback sessions ended, by reason",
		},
		[]string{"reason"},
	)

	SessionMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_session_messages_total",
			Help: "Total number of websocket messages, by direction and type",
		},
		[]string{"direction", "type"},
	)

	SessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tube_adventures_session_duration_seconds",
			Help:    "Playback session duration in seconds",
			Buckets: []float64{1, 10, 30, 60, 300, 600, 1800, 3600},
		},
	)
)

// Video streaming metrics
var (
	VideoStreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_video_streams_active",
			Help: "Number of local video responses currently being written",
		},
	)

	VideoStreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_video_streams_total",
			Help: "Total number of local video responses, by outcome",
		},
		[]string{"outcome"},
	)

	VideoStreamBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_video_stream_bytes_total",
			Help: "Total bytes of local video written to clients",
		},
	)
)

// Video source metrics
var (
	SourceResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_source_resolutions_total",
			Help: "Total number of video ID resolutions, by resolver and status",
		},
		[]string{"resolver", "status"},
	)
)

// Library indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_indexer_runs_total",
			Help: "Total number of library index runs",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_indexer_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed index run",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_indexer_last_run_duration_seconds",
			Help: "Duration of the last index run in seconds",
		},
	)

	IndexerFilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_indexer_files_processed_total",
			Help: "Total number of annotation files processed by the indexer",
		},
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_indexer_errors_total",
			Help: "Total number of indexer errors",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_indexer_is_running",
			Help: "Whether an index run is in progress (1) or not (0)",
		},
	)

	LibraryFilesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tube_adventures_library_files_total",
			Help: "Number of indexed annotation files, by parse status",
		},
		[]string{"status"},
	)

	LibraryAnnotationsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_library_annotations_total",
			Help: "Number of annotations across all indexed files",
		},
	)

	LibraryLinksTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tube_adventures_library_links_total",
			Help: "Number of gameplay links in the library, by whether the target is indexed",
		},
		[]string{"state"},
	)

	LibraryDuplicateIDs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tube_adventures_library_duplicate_ids",
			Help: "Number of annotation IDs used more than once within a file",
		},
	)

	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event_type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tube_adventures_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tube_adventures_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tube_adventures_filesystem_stale_errors_total",
			Help: "Total number of stale NFS file handle errors",
		},
		[]string{"operation"},
	)
)

// AppInfo exposes build information as labels.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "tube_adventures_app_info",
		Help: "Application information",
	},
	[]string{"version", "commit", "go_version"},
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
