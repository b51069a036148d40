package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register adds every API route to router.
func (h *Handlers) Register(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet).Name("health")
	router.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)

	router.Handle("/ws", h.Sessions()).Name("sessions")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/reindex", h.TriggerReindex).Methods(http.MethodPost)
	api.HandleFunc("/resolve", h.ResolveURL).Methods(http.MethodGet)
	api.HandleFunc("/links", h.GetLinkGraph).Methods(http.MethodGet)
	api.HandleFunc("/sources", h.ListSources).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.ListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)

	api.HandleFunc("/videos", h.ListVideos).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}", h.GetVideo).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}/annotations", h.GetAnnotations).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}/links", h.GetLinks).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}/source", h.GetSource).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}/stream", h.StreamVideo).Methods(http.MethodGet, http.MethodHead)
}
