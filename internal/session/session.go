package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"tube-adventures/internal/logging"
	"tube-adventures/internal/metrics"
	"tube-adventures/internal/navigation"
	"tube-adventures/internal/playback"
)

var log = logging.For("session")

const (
	defaultSendBuffer = 64
	writeTimeout      = 10 * time.Second
	readLimit         = 16 << 10

	endDisconnected = "disconnected"
)

// ErrSendQueueFull is returned by player commands when the browser stopped
// draining its outbound queue.
var ErrSendQueueFull = errors.New("send queue full")

// Info is a point-in-time view of a session for the inspection API.
type Info struct {
	ID       string    `json:"id"`
	VideoID  string    `json:"videoId,omitempty"`
	State    string    `json:"state"`
	Position float64   `json:"positionSeconds"`
	Duration float64   `json:"durationSeconds"`
	Shown    []string  `json:"shown"`
	Started  time.Time `json:"started"`
	Remote   string    `json:"remote"`
}

// Session is one viewer connected over a websocket. The browser is the
// playback host: player commands go out as messages and the player's
// position, duration and state come back the same way. A single goroutine
// reads the socket and drives the navigator, so navigation state needs no
// locking.
type Session struct {
	id       uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	cfg      Config
	locator  navigation.Locator
	nav      *navigation.Navigator
	controls *playback.Controls
	started  time.Time
	remote   string

	// last values reported by the browser, reader goroutine only
	position time.Duration
	duration time.Duration
	state    playback.State

	mu   sync.RWMutex
	info Info
}

func newSession(conn *websocket.Conn, remote string, locator navigation.Locator, sources navigation.SourceResolver, cfg Config) *Session {
	buf := cfg.SendBuffer
	if buf <= 0 {
		buf = defaultSendBuffer
	}
	s := &Session{
		id:      uuid.New(),
		conn:    conn,
		send:    make(chan []byte, buf),
		cfg:     cfg,
		locator: locator,
		started: time.Now(),
		remote:  remote,
	}
	s.nav = navigation.New(s, listener{s}, locator, sources, cfg.Navigation)
	s.controls = playback.NewControls(s)
	s.snapshot()
	return s
}

// ID returns the session's identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Info returns the latest snapshot of the session.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := s.info
	info.Shown = append([]string(nil), s.info.Shown...)
	return info
}

// run serves the session until the navigator ends it, the browser goes away
// or ctx is cancelled.
func (s *Session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.conn.SetReadLimit(readLimit)

	writerDone := make(chan struct{})
	go s.writeLoop(ctx, writerDone)

	if err := s.emit(EventSession, sessionData{ID: s.id.String()}); err != nil {
		log.Warn("session %s: %v", s.id, err)
	}

	reason := s.readLoop(ctx)

	// Every emit happens on this goroutine, so nothing sends after this.
	close(s.send)
	<-writerDone

	if err := s.conn.Close(websocket.StatusNormalClosure, reason); err != nil {
		log.Debug("session %s: close: %v", s.id, err)
	}
}

func (s *Session) readLoop(ctx context.Context) string {
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if s.nav.Ended() {
				return ""
			}
			if ctx.Err() != nil {
				log.Info("session %s: server shutting down", s.id)
				metrics.SessionsEndedTotal.WithLabelValues(endDisconnected).Inc()
				return "server shutting down"
			}
			if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Info("session %s: browser closed the connection", s.id)
			} else {
				log.Warn("session %s: read: %v", s.id, err)
			}
			metrics.SessionsEndedTotal.WithLabelValues(endDisconnected).Inc()
			return endDisconnected
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			observeMessage("in", "malformed")
			s.emitError(fmt.Errorf("malformed message: %w", err))
			continue
		}
		observeMessage("in", inboundLabel(msg.Event))

		if err := s.dispatch(ctx, msg); err != nil {
			var f *navigation.Failure
			if !errors.As(err, &f) {
				s.emitError(err)
			}
		}
		s.snapshot()

		if s.nav.Ended() {
			return "session ended"
		}
	}
}

func (s *Session) writeLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for msg := range s.send {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := s.conn.Write(wctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			log.Debug("session %s: write: %v", s.id, err)
			// Keep draining so the reader never blocks on a dead socket.
			for range s.send {
			}
			return
		}
	}
}

func (s *Session) dispatch(ctx context.Context, msg Message) error {
	switch msg.Event {
	case EventStart:
		var d startData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return s.start(ctx, d.VideoID)

	case EventPosition:
		var d secondsData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.position = d.duration()
		s.nav.OnPositionChanged(s.position)

	case EventDuration:
		var d secondsData
		if err := decode(msg, &d); err != nil {
			return err
		}
		s.duration = d.duration()
		s.nav.OnDurationChanged(s.duration)

	case EventState:
		var d stateData
		if err := decode(msg, &d); err != nil {
			return err
		}
		st, ok := playback.ParseState(d.State)
		if !ok {
			return fmt.Errorf("unknown player state %q", d.State)
		}
		s.state = st

	case EventEnded:
		s.state = playback.StateStopped
		s.nav.OnEndOfMedia()

	case EventClick:
		var d clickData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return s.nav.OnAnnotationActivated(ctx, d.ID)

	case EventKey:
		var d keyData
		if err := decode(msg, &d); err != nil {
			return err
		}
		key, ok := playback.ParseKey(d.Key)
		if !ok {
			log.Debug("session %s: ignoring key %q", s.id, d.Key)
			return nil
		}
		return s.controls.HandleKey(key, d.modifiers())

	case EventClose:
		s.nav.Close()

	default:
		return fmt.Errorf("unknown event %q", msg.Event)
	}
	return nil
}

func (s *Session) start(ctx context.Context, videoID string) error {
	if s.nav.VideoID() != "" {
		return errors.New("session already started")
	}
	if videoID == "" {
		videoID = s.cfg.StartVideoID
	}
	if videoID == "" {
		return errors.New("no start video given and none configured")
	}
	path, ok := s.locator.Locate(videoID)
	if !ok {
		return fmt.Errorf("no annotation file for video %q", videoID)
	}
	log.Info("session %s: starting at %s", s.id, videoID)
	return s.nav.Load(ctx, path)
}

func decode(msg Message, v interface{}) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%s: missing data", msg.Event)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Event, err)
	}
	return nil
}

// emit queues one message for the browser without blocking.
func (s *Session) emit(event string, data interface{}) error {
	msg := Message{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event, err)
		}
		msg.Data = raw
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	select {
	case s.send <- b:
		observeMessage("out", event)
		return nil
	default:
		return fmt.Errorf("%s: %w", event, ErrSendQueueFull)
	}
}

func (s *Session) emitError(err error) {
	log.Debug("session %s: %v", s.id, err)
	if err := s.emit(EventError, errorData{Message: err.Error()}); err != nil {
		log.Warn("session %s: %v", s.id, err)
	}
}

func (s *Session) snapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = Info{
		ID:       s.id.String(),
		VideoID:  s.nav.VideoID(),
		State:    s.state.String(),
		Position: s.position.Seconds(),
		Duration: s.duration.Seconds(),
		Shown:    s.nav.Shown(),
		Started:  s.started,
		Remote:   s.remote,
	}
}

// publicSource swaps a local file path for the URL the browser streams it
// from.
func (s *Session) publicSource(src playback.Source) playback.Source {
	if src.Local && s.cfg.StreamURL != nil {
		src.URI = s.cfg.StreamURL(src.VideoID)
	}
	return src
}

func inboundLabel(event string) string {
	switch event {
	case EventStart, EventPosition, EventDuration, EventState, EventEnded, EventClick, EventKey, EventClose:
		return event
	default:
		return "unknown"
	}
}

func observeMessage(direction, event string) {
	metrics.SessionMessagesTotal.WithLabelValues(direction, event).Inc()
}
