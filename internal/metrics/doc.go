// Package metrics provides Prometheus instrumentation for tube-adventures.
//
// All metrics are registered on the default registry through promauto and
// are prefixed with "tube_adventures_".
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of requests being served
//
// ## Database Metrics
//
//   - DBQueryTotal: Counter of catalog queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//   - DBConnectionsOpen: Gauge of open connections
//   - DBSizeBytes: Gauge of database file sizes (main, WAL, SHM)
//   - DBTransactionDuration: Histogram of batch transaction duration
//
// ## Decoder Metrics
//
//   - DecoderParsesTotal: Counter of decoded files by result kind
//   - DecoderParseDuration: Histogram of per-file decode time
//   - DecoderAnnotationsTotal: Counter of kept annotations by type
//   - DecoderSkippedTotal: Counter of dropped elements by reason
//   - DecoderSingleRegionTotal: Counter of single-region annotations
//
// ## Navigation and Session Metrics
//
//   - NavigationLoadsTotal, NavigationLoadDuration: video loads
//   - NavigationActivationsTotal: clicks by annotation type
//   - NavigationFailuresTotal: failures by reason
//   - NavigationDuplicateIDsTotal: duplicate IDs seen at load time
//   - SessionsActive, SessionsTotal, SessionsEndedTotal, SessionDuration
//   - SessionMessagesTotal: websocket messages by direction and type
//
// ## Library Metrics
//
//   - IndexerRunsTotal, IndexerLastRunTimestamp, IndexerLastRunDuration
//   - IndexerFilesProcessed, IndexerErrors, IndexerIsRunning
//   - LibraryFilesTotal, LibraryAnnotationsTotal, LibraryLinksTotal
//   - LibraryDuplicateIDs
//   - WatcherEventsTotal, WatcherErrors
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer installed by [Register]:
// operation duration and errors, retry attempts, successes and failures,
// and stale NFS handle errors.
//
// # Observers
//
// The core packages never import Prometheus. They report through small
// observer interfaces, and [Register] installs the implementations from
// this package:
//
//	metrics.Register()
//	metrics.InitializeMetrics()
//
// # Collector
//
// [Collector] periodically pulls library statistics from a [StatsProvider]
// and updates the library gauges and database file sizes:
//
//	collector := metrics.NewCollector(statsProvider, dbPath, 1*time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Navigation failure rate by reason:
//
//	sum(rate(tube_adventures_navigation_failures_total[5m])) by (reason)
//
// Share of annotation files that fail to decode:
//
//	tube_adventures_library_files_total{status="invalid"} / ignoring(status) sum(tube_adventures_library_files_total)
package metrics
