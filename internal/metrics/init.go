package metrics

import (
	"tube-adventures/internal/annotations"
	"tube-adventures/internal/navigation"
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Database storage files ---
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	// --- Filesystem operations and retries ---
	for _, op := range []string{"read", "stat", "open", "readdir"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}

	// --- Decoder ---
	for _, k := range annotations.Kinds() {
		DecoderParsesTotal.WithLabelValues(k.String())
	}
	for _, t := range []annotations.Type{annotations.TypeGameplay, annotations.TypeNotes, annotations.TypeExternalLink} {
		DecoderAnnotationsTotal.WithLabelValues(t.String())
		NavigationActivationsTotal.WithLabelValues(t.String())
	}
	for _, reason := range []string{annotations.SkipNotText, annotations.SkipNotPopup, annotations.SkipEmptySegment} {
		DecoderSkippedTotal.WithLabelValues(reason)
	}

	// --- Navigation ---
	NavigationLoadsTotal.WithLabelValues("success")
	NavigationLoadsTotal.WithLabelValues("error")
	for _, r := range navigation.Reasons() {
		NavigationFailuresTotal.WithLabelValues(r.String())
	}
	for _, reason := range []string{navigation.EndOfMedia, navigation.EndAfterFailure, navigation.EndClosedByViewer, "disconnected"} {
		SessionsEndedTotal.WithLabelValues(reason)
	}

	// --- Video streaming ---
	for _, outcome := range []string{"complete", "client_gone", "timeout"} {
		VideoStreamsTotal.WithLabelValues(outcome)
	}

	// --- Library ---
	for _, status := range []string{"valid", "invalid"} {
		LibraryFilesTotal.WithLabelValues(status)
	}
	for _, state := range []string{"resolved", "dangling"} {
		LibraryLinksTotal.WithLabelValues(state)
	}
	for _, ev := range []string{"create", "write", "remove", "rename", "chmod"} {
		WatcherEventsTotal.WithLabelValues(ev)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "upsert_file", "delete_missing_files", "get_file",
		"get_file_by_video_id", "list_files", "list_links", "get_stats", "upsert_source", "get_source",
		"list_sources", "begin_transaction", "commit", "rollback"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, t := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(t)
	}
}
