package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"tube-adventures/internal/logging"
)

// writeJSON encodes v as JSON. Encoding errors are only logged since the
// status line has already been sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONStatusCode writes v as JSON with the given status code.
func writeJSONStatusCode(w http.ResponseWriter, v interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, v)
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONStatusCode(w, map[string]string{"error": message}, statusCode)
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status, message string, statusCode int) {
	writeJSONStatusCode(w, map[string]string{"status": status, "message": message}, statusCode)
}

// queryInt parses a non-negative integer query parameter, returning def when
// it is absent or malformed.
func queryInt(q url.Values, key string, def int) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// StreamURL is the path the stream endpoint serves a local video from.
func StreamURL(videoID string) string {
	return "/api/videos/" + url.PathEscape(videoID) + "/stream"
}
