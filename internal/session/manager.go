package session

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"tube-adventures/internal/metrics"
	"tube-adventures/internal/navigation"
)

// Config controls every session a Manager accepts.
type Config struct {
	Navigation navigation.Config

	// StartVideoID is used when the browser's start message names no video.
	StartVideoID string

	// StreamURL maps the video ID of a local source to the URL the browser
	// fetches it from. Nil leaves local URIs untouched.
	StreamURL func(videoID string) string

	// OriginPatterns lists extra hosts allowed to open a session. Same-origin
	// requests are always accepted.
	OriginPatterns []string

	SendBuffer int
}

// Manager accepts websocket connections and tracks the live sessions.
type Manager struct {
	locator navigation.Locator
	sources navigation.SourceResolver
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a manager whose sessions find annotation files with
// locator and videos with sources.
func NewManager(locator navigation.Locator, sources navigation.SourceResolver, cfg Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		locator:  locator,
		sources:  sources,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// ServeHTTP upgrades the request and serves the session until it ends.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.ctx.Err() != nil {
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: m.cfg.OriginPatterns,
	})
	if err != nil {
		log.Warn("websocket accept from %s failed: %v", r.RemoteAddr, err)
		return
	}

	s := newSession(conn, r.RemoteAddr, m.locator, m.sources, m.cfg)
	m.add(s)
	defer m.remove(s)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(m.ctx, cancel)
	defer stop()

	log.Info("session %s opened from %s", s.id, r.RemoteAddr)
	s.run(ctx)
	log.Info("session %s closed after %v", s.id, time.Since(s.started).Round(time.Millisecond))
}

func (m *Manager) add(s *Session) {
	m.wg.Add(1)
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	metrics.SessionsTotal.Inc()
	metrics.SessionsActive.Inc()
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()

	metrics.SessionsActive.Dec()
	metrics.SessionDuration.Observe(time.Since(s.started).Seconds())
	m.wg.Done()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns a snapshot of every live session, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, s.Info())
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Started.Before(infos[j].Started)
	})
	return infos
}

// Get returns the snapshot of one session.
func (m *Manager) Get(id uuid.UUID) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Info{}, false
	}
	return s.Info(), true
}

// Shutdown disconnects every session and waits for them to finish or for
// ctx to expire. New connections are refused afterwards.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
