package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ListSessions returns every live playback session.
func (h *Handlers) ListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatusCode(w, h.sessions.List(), http.StatusOK)
}

// GetSession returns one live playback session.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	info, ok := h.sessions.Get(id)
	if !ok {
		writeJSONError(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSONStatusCode(w, info, http.StatusOK)
}

// Sessions returns the websocket endpoint that starts playback sessions.
func (h *Handlers) Sessions() http.Handler {
	return h.sessions
}
