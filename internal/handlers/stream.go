package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"

	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/logging"
	"tube-adventures/internal/mediatypes"
	"tube-adventures/internal/streaming"
)

// StreamVideo serves a video that resolves to a local file, with range
// support. Remote sources are redirected to.
func (h *Handlers) StreamVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDVar(w, r)
	if !ok {
		return
	}

	src, err := h.sources.Resolve(r.Context(), id)
	if err != nil {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	if !src.Local {
		http.Redirect(w, r, src.URI, http.StatusFound)
		return
	}

	f, err := filesystem.OpenWithRetry(src.URI, filesystem.DefaultRetryConfig())
	if errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("StreamVideo %s: %v", src.URI, err)
		http.Error(w, "Failed to open video", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(w, "Failed to open video", http.StatusInternalServerError)
		return
	}

	ext := filepath.Ext(src.URI)
	if !mediatypes.IsBrowserPlayable(ext) {
		logging.Warn("streaming %s, which browsers may not play", src.URI)
	}
	w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := streaming.Serve(w, r, info.Name(), info.ModTime(), f, streaming.DefaultConfig()); err != nil {
		logging.Debug("StreamVideo %s: %v", id, err)
	}
}
