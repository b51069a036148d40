package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"tube-adventures/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status            string `json:"status"`
	Ready             bool   `json:"ready"`
	Version           string `json:"version"`
	Uptime            string `json:"uptime"`
	Indexing          bool   `json:"indexing"`
	LastIndexed       string `json:"lastIndexed,omitempty"`
	InitialIndexError string `json:"initialIndexError,omitempty"`
	Database          string `json:"database"`

	FilesIndexed int64 `json:"filesIndexed"`
	IndexErrors  int64 `json:"indexErrors"`
	Sessions     int   `json:"sessions"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	TotalFiles   int `json:"totalFiles,omitempty"`
	InvalidFiles int `json:"invalidFiles,omitempty"`
}

// HealthCheck returns the health status of the service. It answers 503
// until the first index completes and reports degraded when the catalog
// database is unreachable or the first index failed.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	healthStatus := h.indexer.GetHealthStatus()
	stats := h.db.GetStats()

	response := HealthResponse{
		Ready:             healthStatus.Ready,
		Version:           startup.Version,
		Uptime:            healthStatus.Uptime,
		Indexing:          healthStatus.Indexing,
		InitialIndexError: healthStatus.InitialIndexError,
		Database:          "ok",
		FilesIndexed:      healthStatus.FilesIndexed,
		IndexErrors:       healthStatus.IndexErrors,
		Sessions:          h.sessions.Count(),
		GoVersion:         runtime.Version(),
		NumCPU:            runtime.NumCPU(),
		NumGoroutine:      runtime.NumGoroutine(),
		TotalFiles:        stats.TotalFiles,
		InvalidFiles:      stats.InvalidFiles,
	}

	if !healthStatus.LastIndexed.IsZero() {
		response.LastIndexed = healthStatus.LastIndexed.Format(time.RFC3339)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	dbErr := h.db.Ping(ctx)
	if dbErr != nil {
		response.Database = dbErr.Error()
	}

	switch {
	case !healthStatus.Ready:
		response.Status = statusStarting
	case dbErr != nil || healthStatus.InitialIndexError != "":
		response.Status = statusDegraded
	default:
		response.Status = statusHealthy
	}

	code := http.StatusOK
	if !healthStatus.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSONStatusCode(w, response, code)
}

// LivenessCheck always answers 200 while the process is serving.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only once the first index has completed.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.indexer.IsReady() {
		writeJSONStatusCode(w, map[string]string{"status": "ready"}, http.StatusOK)
		return
	}
	writeJSONStatusCode(w, map[string]string{"status": "not_ready"}, http.StatusServiceUnavailable)
}
