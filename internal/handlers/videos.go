package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"tube-adventures/internal/annotations"
	"tube-adventures/internal/database"
	"tube-adventures/internal/logging"
	"tube-adventures/internal/videoid"
)

// ListVideos returns the catalog, optionally filtered by ?status=valid|invalid
// and paged with ?limit and ?offset.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := database.ListOptions{
		Status: database.FileStatus(q.Get("status")),
		Limit:  queryInt(q, "limit", 100),
		Offset: queryInt(q, "offset", 0),
	}

	switch opts.Status {
	case "", database.FileStatusValid, database.FileStatusInvalid:
	default:
		writeJSONError(w, "status must be valid or invalid", http.StatusBadRequest)
		return
	}

	files, err := h.db.ListFiles(r.Context(), opts)
	if err != nil {
		logging.Error("ListVideos: %v", err)
		writeJSONError(w, "Failed to list videos", http.StatusInternalServerError)
		return
	}
	writeJSONStatusCode(w, files, http.StatusOK)
}

// GetVideo returns the catalog entry of one video.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDVar(w, r)
	if !ok {
		return
	}

	file, err := h.db.GetFileByVideoID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "Video not in catalog", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetVideo %s: %v", id, err)
		writeJSONError(w, "Failed to load video", http.StatusInternalServerError)
		return
	}
	writeJSONStatusCode(w, file, http.StatusOK)
}

type regionView struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Seconds float64 `json:"seconds"`
}

type annotationView struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	Type       annotations.Type `json:"type"`
	ClickURL   string           `json:"clickUrl,omitempty"`
	Target     string           `json:"targetVideoId,omitempty"`
	Start      regionView       `json:"start"`
	End        *regionView      `json:"end,omitempty"`
	Background string           `json:"background"`
	BgAlpha    float64          `json:"backgroundAlpha"`
	Foreground string           `json:"foreground"`
	TextSize   float64          `json:"textSize"`
}

func newRegionView(r annotations.RectRegion) regionView {
	return regionView{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Seconds: r.Time.Seconds()}
}

func newAnnotationView(a annotations.Annotation) annotationView {
	v := annotationView{
		ID:         a.ID,
		Text:       a.Text,
		Type:       a.Type,
		ClickURL:   a.ClickURL,
		Start:      newRegionView(a.StartRect),
		Background: a.Background.Hex(),
		BgAlpha:    a.Background.Alpha,
		Foreground: a.Foreground.Hex(),
		TextSize:   a.TextSize,
	}
	if a.EndRect != nil {
		end := newRegionView(*a.EndRect)
		v.End = &end
	}
	if a.Type == annotations.TypeGameplay {
		v.Target, _ = videoid.FromURL(a.ClickURL)
	}
	return v
}

// GetAnnotations decodes the video's annotation file and returns every
// annotation in document order. Decoding problems are reported with the
// decoder's error kind.
func (h *Handlers) GetAnnotations(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDVar(w, r)
	if !ok {
		return
	}

	path, found := h.locator.Locate(id)
	if !found {
		writeJSONError(w, "No annotation file for video", http.StatusNotFound)
		return
	}

	list, err := annotations.ParseFile(path)
	if err != nil {
		var pe *annotations.ParseError
		if errors.As(err, &pe) {
			writeJSONStatusCode(w, map[string]string{
				"error": pe.Error(),
				"kind":  pe.Kind.String(),
				"file":  filepath.Base(path),
			}, http.StatusUnprocessableEntity)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]annotationView, 0, len(list))
	for _, a := range list {
		views = append(views, newAnnotationView(a))
	}
	writeJSONStatusCode(w, map[string]interface{}{
		"videoId":     id,
		"file":        filepath.Base(path),
		"annotations": views,
	}, http.StatusOK)
}

// GetLinks returns the gameplay links leaving a video, each marked resolved
// when the target video is in the catalog.
func (h *Handlers) GetLinks(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDVar(w, r)
	if !ok {
		return
	}

	links, err := h.db.ListLinks(r.Context(), id)
	if err != nil {
		logging.Error("GetLinks %s: %v", id, err)
		writeJSONError(w, "Failed to list links", http.StatusInternalServerError)
		return
	}
	writeJSONStatusCode(w, links, http.StatusOK)
}

// GetLinkGraph returns every link in the catalog.
func (h *Handlers) GetLinkGraph(w http.ResponseWriter, r *http.Request) {
	links, err := h.db.ListLinks(r.Context(), "")
	if err != nil {
		logging.Error("GetLinkGraph: %v", err)
		writeJSONError(w, "Failed to list links", http.StatusInternalServerError)
		return
	}
	writeJSONStatusCode(w, links, http.StatusOK)
}

// GetSource returns where the video would be played from.
func (h *Handlers) GetSource(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDVar(w, r)
	if !ok {
		return
	}

	src, err := h.sources.Resolve(r.Context(), id)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	if src.Local {
		src.URI = StreamURL(id)
	}
	writeJSONStatusCode(w, src, http.StatusOK)
}

// ListSources returns the remembered source of every video.
func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	list, err := h.db.ListSources(r.Context())
	if err != nil {
		logging.Error("ListSources: %v", err)
		writeJSONError(w, "Failed to list sources", http.StatusInternalServerError)
		return
	}
	writeJSONStatusCode(w, list, http.StatusOK)
}

// ResolveURL extracts the video ID from ?url= and reports whether the
// catalog has annotations for it.
func (h *Handlers) ResolveURL(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeJSONError(w, "url parameter is required", http.StatusBadRequest)
		return
	}

	id, ok := videoid.FromURL(raw)
	if !ok {
		writeJSONError(w, "URL carries no video ID", http.StatusUnprocessableEntity)
		return
	}

	canonical, _ := videoid.CanonicalURL(id)
	_, hasAnnotations := h.locator.Locate(id)
	writeJSONStatusCode(w, map[string]interface{}{
		"videoId":        id,
		"canonicalUrl":   canonical,
		"hasAnnotations": hasAnnotations,
	}, http.StatusOK)
}

// GetStats returns the statistics of the last completed index.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatusCode(w, h.db.GetStats(), http.StatusOK)
}

// TriggerReindex starts an index run unless one is already running.
func (h *Handlers) TriggerReindex(w http.ResponseWriter, _ *http.Request) {
	if h.indexer.IsIndexing() {
		writeJSONStatus(w, "already_running", "Indexing is already in progress", http.StatusConflict)
		return
	}

	h.indexer.TriggerIndex()
	writeJSONStatus(w, "started", "Re-indexing started at "+time.Now().UTC().Format(time.RFC3339), http.StatusAccepted)
}

func videoIDVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if !videoid.Valid(id) {
		writeJSONError(w, "Invalid video ID", http.StatusBadRequest)
		return "", false
	}
	return id, true
}
