// Package main provides the entry point for the Tube Adventures server.
//
// Tube Adventures plays branching video stories built from legacy video
// annotations. Each video of a story has an XML annotation file; clickable
// popups in it link to the next video. The server decodes those files,
// keeps a catalog of them and drives playback sessions for browsers over
// a websocket.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads environment variables, validates them
//     and prepares directories
//  2. Database Initialization: Opens the SQLite catalog
//  3. Component Initialization:
//     - Video sources: directory, source map, catalog, public watch URL
//     - Indexer: Decodes the annotation directory into the catalog
//     - Directory watch: Re-indexes when annotation files change
//     - Metrics Collector: Publishes catalog gauges to Prometheus
//     - Session Manager: Accepts websocket playback sessions
//  4. HTTP Server Setup: Configures routes and middleware, starts servers
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - /ws playback sessions
//     - /api catalog, annotations, link graph and video streaming
//     - /health, /healthz, /livez, /readyz probes
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Health check endpoint (/health)
//
// # Environment Variables
//
//   - ANNOTATIONS_DIR: Directory of annotation files (required)
//   - ANNOTATION_EXTENSION: Annotation file extension (default: .xml)
//   - VIDEOS_DIR: Directory of local video files
//   - SOURCES_FILE: YAML map of video IDs to URLs or paths
//   - DATABASE_DIR: Directory for the SQLite catalog
//   - START_VIDEO: Video a session opens when the browser names none
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - INDEX_INTERVAL: Catalog re-index interval (default: 30m)
//   - ABORT_ON_NAVIGATION_FAILURE: End a session on a broken link
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// See [tube-adventures/internal/startup] for the full list.
//
// # Graceful Shutdown
//
//  1. Close playback sessions
//  2. Stop accepting new HTTP requests
//  3. Stop directory watch, indexer and metrics collector
//  4. Shutdown metrics server (if running)
//  5. Close the database
//
// All shutdown steps share a 30 second timeout.
//
// # Build Requirements
//
// CGO is required for SQLite:
//
//	CGO_ENABLED=1 go build -o tube-adventures .
//
// # Related Packages
//
//   - [tube-adventures/internal/annotations]: Annotation file decoder
//   - [tube-adventures/internal/navigation]: Annotation timing and navigation
//   - [tube-adventures/internal/session]: Websocket playback sessions
//   - [tube-adventures/internal/library]: Catalog indexing and directory watch
//   - [tube-adventures/internal/sources]: Video source resolution
//   - [tube-adventures/internal/handlers]: HTTP request handlers
package main
