// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]
// and checked with [Validate]:
//
//   - ANNOTATIONS_DIR: Directory of annotation files, must exist (default: /annotations)
//   - ANNOTATION_EXTENSION: Annotation file extension (default: .xml)
//   - VIDEOS_DIR: Directory of local video files; empty disables (default: /videos)
//   - SOURCES_FILE: YAML map of video IDs to URIs (default: none)
//   - DATABASE_DIR: Catalog database directory, must be writable (default: /database)
//   - START_VIDEO: Video ID a session starts at when the browser names none
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - INDEX_INTERVAL: Periodic re-index interval as Go duration, 0 disables (default: 30m)
//   - INDEX_WORKERS: Parallel parsers while indexing, 0 picks automatically
//   - WATCH_ENABLED: Re-index when the annotations directory changes (default: true)
//   - ABORT_ON_NAVIGATION_FAILURE: End a session after a failed navigation (default: true)
//   - ALLOWED_ORIGINS: Comma-separated extra origins allowed to open sessions
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed via
// [GetBuildInfo].
package startup
