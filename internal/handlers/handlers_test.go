package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"tube-adventures/internal/database"
	"tube-adventures/internal/library"
	"tube-adventures/internal/playback"
	"tube-adventures/internal/session"
	"tube-adventures/internal/startup"
)

const (
	startID  = "BckqqsJiDUI"
	nextID   = "yVebIlvkOnU"
	brokenID = "MnBL8LY4kgc"
)

type mockIndexer struct {
	mu        sync.Mutex
	ready     bool
	indexing  bool
	triggered int
	status    library.HealthStatus
}

func (m *mockIndexer) IsReady() bool    { return m.ready }
func (m *mockIndexer) IsIndexing() bool { return m.indexing }

func (m *mockIndexer) GetHealthStatus() library.HealthStatus {
	s := m.status
	s.Ready = m.ready
	s.Indexing = m.indexing
	return s
}

func (m *mockIndexer) TriggerIndex() {
	m.mu.Lock()
	m.triggered++
	m.mu.Unlock()
}

type mapSources map[string]playback.Source

func (m mapSources) Resolve(_ context.Context, id string) (playback.Source, error) {
	if src, ok := m[id]; ok {
		return src, nil
	}
	return playback.Source{}, errors.New("no source for " + id)
}

type testEnv struct {
	handlers *Handlers
	router   *mux.Router
	db       *database.Database
	indexer  *mockIndexer
	video    string
}

func popup(id, action string) string {
	return `<annotation id="` + id + `" type="text" style="popup"><TEXT>` + id + `</TEXT>` + action +
		`<segment><movingRegion type="rect">` +
		`<rectRegion x="10.0" y="20.0" w="30.0" h="5.0" t="0:00:04.0"/>` +
		`<rectRegion x="10.0" y="20.0" w="30.0" h="5.0" t="0:00:10.0"/>` +
		`</movingRegion></segment>` +
		`<appearance bgAlpha="0.8" bgColor="16777215" effects="" fgColor="1710618" textSize="3.6"/></annotation>`
}

func jump(videoID string) string {
	return `<action type="openUrl" trigger="click"><url target="current" value="https://www.youtube.com/watch?v=` + videoID + `"/></action>`
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	annotationsDir := filepath.Join(root, "annotations")
	if err := os.Mkdir(annotationsDir, 0o755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(annotationsDir, "TA01 "+startID+".xml"),
		"<document><annotations>"+popup("go", jump(nextID))+popup("dead", jump("aaaaaaaaaaa"))+"</annotations></document>")
	writeFile(t, filepath.Join(annotationsDir, "TA02 "+nextID+".xml"),
		"<document><annotations>"+popup("note", "")+"</annotations></document>")
	writeFile(t, filepath.Join(annotationsDir, "TA03 "+brokenID+".xml"), "<document><annotations><annotation")

	video := filepath.Join(root, startID+".mp4")
	writeFile(t, video, "0123456789abcdef")

	db, err := database.New(context.Background(), filepath.Join(root, "catalog.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	loc := library.NewLocator(annotationsDir, ".xml")
	tx, err := db.BeginBatch()
	if err != nil {
		t.Fatalf("BeginBatch: %v", err)
	}
	for _, path := range loc.Files() {
		rep := library.Inspect(path)
		f, links := rep.Record()
		if err = db.UpsertFile(tx, f, links, 1); err != nil {
			break
		}
	}
	if err := db.EndBatch(tx, err); err != nil {
		t.Fatalf("indexing fixtures: %v", err)
	}
	stats, err := db.ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	db.UpdateStats(stats)

	sources := mapSources{
		startID: {VideoID: startID, URI: video, Local: true},
		nextID:  {VideoID: nextID, URI: "https://cdn.example/next.mp4"},
	}
	idx := &mockIndexer{ready: true}
	sessions := session.NewManager(loc, sources, session.Config{StreamURL: StreamURL})

	h := New(db, idx, loc, sources, sessions)
	router := mux.NewRouter()
	h.Register(router)

	return &testEnv{handlers: h, router: router, db: db, indexer: idx, video: video}
}

func (e *testEnv) do(t *testing.T, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		indexErr   string
		closeDB    bool
		wantCode   int
		wantStatus string
	}{
		{"starting", false, "", false, http.StatusServiceUnavailable, statusStarting},
		{"healthy", true, "", false, http.StatusOK, statusHealthy},
		{"initial index failed", true, "scan failed", false, http.StatusOK, statusDegraded},
		{"database down", true, "", true, http.StatusOK, statusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t)
			env.indexer.ready = tt.ready
			env.indexer.status.InitialIndexError = tt.indexErr
			env.indexer.status.LastIndexed = time.Now()
			if tt.closeDB {
				env.db.Close()
			}

			w := env.do(t, "GET", "/health", nil)
			if w.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantCode)
			}

			var resp HealthResponse
			decodeBody(t, w, &resp)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if resp.Version != startup.Version || resp.GoVersion == "" || resp.LastIndexed == "" {
				t.Errorf("incomplete response: %+v", resp)
			}
			if !tt.closeDB && (resp.Database != "ok" || resp.TotalFiles != 3 || resp.InvalidFiles != 1) {
				t.Errorf("unexpected catalog fields: %+v", resp)
			}
		})
	}
}

func TestLivenessAndReadiness(t *testing.T) {
	env := setupEnv(t)

	if w := env.do(t, "GET", "/livez", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "alive") {
		t.Errorf("GET /livez = %d %q", w.Code, w.Body.String())
	}
	if w := env.do(t, "HEAD", "/livez", nil); w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Errorf("HEAD /livez = %d with %d body bytes", w.Code, w.Body.Len())
	}

	if w := env.do(t, "GET", "/readyz", nil); w.Code != http.StatusOK {
		t.Errorf("GET /readyz when ready = %d", w.Code)
	}
	env.indexer.ready = false
	if w := env.do(t, "GET", "/readyz", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /readyz when not ready = %d", w.Code)
	}
}

func TestGetVersion(t *testing.T) {
	env := setupEnv(t)
	w := env.do(t, "GET", "/api/version", nil)

	var info startup.BuildInfo
	decodeBody(t, w, &info)
	if info != startup.GetBuildInfo() {
		t.Errorf("version = %+v, want %+v", info, startup.GetBuildInfo())
	}
	if w.Header().Get("Cache-Control") != "no-cache" {
		t.Error("version must not be cached")
	}
}

func TestListVideos(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		query    string
		wantCode int
		wantIDs  []string
	}{
		{"", http.StatusOK, []string{startID, nextID, brokenID}},
		{"?status=valid", http.StatusOK, []string{startID, nextID}},
		{"?status=invalid", http.StatusOK, []string{brokenID}},
		{"?limit=1&offset=1", http.StatusOK, []string{nextID}},
		{"?status=pending", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(t, "GET", "/api/videos"+tt.query, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status code = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var files []database.AnnotationFile
			decodeBody(t, w, &files)
			got := make([]string, len(files))
			for i, f := range files {
				got[i] = f.VideoID
			}
			if strings.Join(got, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("videos = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestGetVideo(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", "/api/videos/"+brokenID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d", w.Code)
	}
	var f database.AnnotationFile
	decodeBody(t, w, &f)
	if f.Status != database.FileStatusInvalid || f.ErrorKind == "" {
		t.Errorf("broken file = %+v", f)
	}

	if w := env.do(t, "GET", "/api/videos/zzzzzzzzzzz", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown video = %d, want 404", w.Code)
	}
	if w := env.do(t, "GET", "/api/videos/short", nil); w.Code != http.StatusBadRequest {
		t.Errorf("malformed ID = %d, want 400", w.Code)
	}
}

func TestGetAnnotations(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", "/api/videos/"+startID+"/annotations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		VideoID     string           `json:"videoId"`
		Annotations []annotationView `json:"annotations"`
	}
	decodeBody(t, w, &resp)
	if resp.VideoID != startID || len(resp.Annotations) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	first := resp.Annotations[0]
	if first.ID != "go" || first.Target != nextID || first.Start.Seconds != 4 || first.End == nil || first.End.Seconds != 10 {
		t.Errorf("first annotation = %+v", first)
	}
	if first.Background != "#ffffff" || first.Foreground != "#1a1a1a" {
		t.Errorf("colors = %s on %s", first.Foreground, first.Background)
	}

	w = env.do(t, "GET", "/api/videos/"+brokenID+"/annotations", nil)
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), `"kind"`) {
		t.Errorf("broken file = %d %s", w.Code, w.Body.String())
	}

	if w := env.do(t, "GET", "/api/videos/zzzzzzzzzzz/annotations", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing file = %d, want 404", w.Code)
	}
}

func TestLinks(t *testing.T) {
	env := setupEnv(t)

	var links []database.Link
	decodeBody(t, env.do(t, "GET", "/api/videos/"+startID+"/links", nil), &links)
	if len(links) != 2 {
		t.Fatalf("links = %+v", links)
	}
	resolved := map[string]bool{}
	for _, l := range links {
		resolved[l.ToVideoID] = l.Resolved
	}
	if !resolved[nextID] || resolved["aaaaaaaaaaa"] {
		t.Errorf("resolution = %v", resolved)
	}

	var graph []database.Link
	decodeBody(t, env.do(t, "GET", "/api/links", nil), &graph)
	if len(graph) != 2 {
		t.Errorf("graph = %+v", graph)
	}
}

func TestGetSource(t *testing.T) {
	env := setupEnv(t)

	var src playback.Source
	decodeBody(t, env.do(t, "GET", "/api/videos/"+startID+"/source", nil), &src)
	if !src.Local || src.URI != StreamURL(startID) {
		t.Errorf("local source = %+v, want stream URL", src)
	}

	decodeBody(t, env.do(t, "GET", "/api/videos/"+nextID+"/source", nil), &src)
	if src.Local || src.URI != "https://cdn.example/next.mp4" {
		t.Errorf("remote source = %+v", src)
	}

	if w := env.do(t, "GET", "/api/videos/"+brokenID+"/source", nil); w.Code != http.StatusNotFound {
		t.Errorf("unresolvable source = %d, want 404", w.Code)
	}
}

func TestListSources(t *testing.T) {
	env := setupEnv(t)
	if err := env.db.UpsertSource(context.Background(), database.VideoSource{VideoID: nextID, URI: "https://cdn.example/next.mp4", Origin: "file"}); err != nil {
		t.Fatal(err)
	}

	var list []database.VideoSource
	decodeBody(t, env.do(t, "GET", "/api/sources", nil), &list)
	if len(list) != 1 || list[0].VideoID != nextID {
		t.Errorf("sources = %+v", list)
	}
}

func TestStreamVideo(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", StreamURL(startID), nil)
	if w.Code != http.StatusOK || w.Body.String() != "0123456789abcdef" {
		t.Fatalf("stream = %d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", ct)
	}

	w = env.do(t, "GET", StreamURL(startID), map[string]string{"Range": "bytes=4-7"})
	if w.Code != http.StatusPartialContent || w.Body.String() != "4567" {
		t.Errorf("range = %d %q", w.Code, w.Body.String())
	}

	w = env.do(t, "GET", StreamURL(nextID), nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "https://cdn.example/next.mp4" {
		t.Errorf("remote = %d to %q", w.Code, w.Header().Get("Location"))
	}

	if err := os.Remove(env.video); err != nil {
		t.Fatal(err)
	}
	if w := env.do(t, "GET", StreamURL(startID), nil); w.Code != http.StatusNotFound {
		t.Errorf("deleted file = %d, want 404", w.Code)
	}
}

func TestResolveURL(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantID   string
		wantAnn  bool
	}{
		{"watch URL", "?url=https://www.youtube.com/watch?v%3D" + nextID, http.StatusOK, nextID, true},
		{"no annotations", "?url=https://www.youtube.com/watch?feature%3Dx%26v%3Daaaaaaaaaaa", http.StatusOK, "aaaaaaaaaaa", false},
		{"missing", "", http.StatusBadRequest, "", false},
		{"no ID", "?url=https://example.com/", http.StatusUnprocessableEntity, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "GET", "/api/resolve"+tt.query, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status code = %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp struct {
				VideoID        string `json:"videoId"`
				CanonicalURL   string `json:"canonicalUrl"`
				HasAnnotations bool   `json:"hasAnnotations"`
			}
			decodeBody(t, w, &resp)
			if resp.VideoID != tt.wantID || resp.HasAnnotations != tt.wantAnn || resp.CanonicalURL == "" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	env := setupEnv(t)

	var stats database.IndexStats
	decodeBody(t, env.do(t, "GET", "/api/stats", nil), &stats)
	if stats.TotalFiles != 3 || stats.ValidFiles != 2 || stats.ResolvedLinks != 1 || stats.DanglingLinks != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTriggerReindex(t *testing.T) {
	env := setupEnv(t)

	env.indexer.indexing = true
	if w := env.do(t, "POST", "/api/reindex", nil); w.Code != http.StatusConflict {
		t.Errorf("reindex while indexing = %d, want 409", w.Code)
	}
	if env.indexer.triggered != 0 {
		t.Error("index must not be triggered while one is running")
	}

	env.indexer.indexing = false
	if w := env.do(t, "POST", "/api/reindex", nil); w.Code != http.StatusAccepted {
		t.Errorf("reindex = %d, want 202", w.Code)
	}
	if env.indexer.triggered != 1 {
		t.Errorf("triggered = %d, want 1", env.indexer.triggered)
	}

	if w := env.do(t, "GET", "/api/reindex", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/reindex = %d, want 405", w.Code)
	}
}

func TestSessions(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", "/api/sessions", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("sessions = %d %q", w.Code, w.Body.String())
	}

	if w := env.do(t, "GET", "/api/sessions/not-a-uuid", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad session ID = %d, want 400", w.Code)
	}
	if w := env.do(t, "GET", "/api/sessions/6f1c1c4e-8f6b-4d7e-9a59-1f0b7d0f3a11", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown session = %d, want 404", w.Code)
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?a=5&b=-1&c=x", http.NoBody)
	q := req.URL.Query()

	if got := queryInt(q, "a", 1); got != 5 {
		t.Errorf("a = %d", got)
	}
	for _, key := range []string{"b", "c", "missing"} {
		if got := queryInt(q, key, 7); got != 7 {
			t.Errorf("%s = %d, want default", key, got)
		}
	}
}
