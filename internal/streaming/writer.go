package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"tube-adventures/internal/logging"
	"tube-adventures/internal/metrics"
)

var log = logging.For("streaming")

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a single write exceeded Config.WriteTimeout.
	// This typically means the client stopped reading.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the stream completed.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates a write after Close.
	ErrStreamCanceled = errors.New("stream canceled")
)

// Config configures the writer behavior
type Config struct {
	// WriteTimeout bounds each write to the connection. Zero disables it.
	WriteTimeout time.Duration
	// MaxDuration is the absolute maximum streaming duration (0 = unlimited)
	MaxDuration time.Duration
	// ChunkSize splits large writes so each gets its own deadline
	// (0 = write as received)
	ChunkSize int
}

// DefaultConfig returns the settings used for video responses.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		MaxDuration:  0,
		ChunkSize:    64 * 1024,
	}
}

// Writer is an http.ResponseWriter whose body writes give up on clients
// that stop reading. The main server runs without a write timeout so that
// long videos can stream; Writer restores a bound per write instead.
type Writer struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	ctx     context.Context
	cfg     Config
	started time.Time

	mu        sync.Mutex
	written   int64
	closed    bool
	err       error
	deadlines bool
}

// NewWriter wraps w. ctx is normally the request context.
func NewWriter(ctx context.Context, w http.ResponseWriter, cfg Config) *Writer {
	return &Writer{
		w:         w,
		rc:        http.NewResponseController(w),
		ctx:       ctx,
		cfg:       cfg,
		started:   time.Now(),
		deadlines: cfg.WriteTimeout > 0,
	}
}

// Header implements http.ResponseWriter.
func (sw *Writer) Header() http.Header {
	return sw.w.Header()
}

// WriteHeader implements http.ResponseWriter.
func (sw *Writer) WriteHeader(code int) {
	sw.w.WriteHeader(code)
}

// Write implements http.ResponseWriter. After the first failure every
// write returns the same error.
func (sw *Writer) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.closed {
		return 0, ErrStreamCanceled
	}
	if sw.err != nil {
		return 0, sw.err
	}

	total := 0
	for len(p) > 0 {
		if err := sw.ctx.Err(); err != nil {
			return total, sw.fail(ErrClientGone)
		}
		if sw.cfg.MaxDuration > 0 && time.Since(sw.started) > sw.cfg.MaxDuration {
			return total, sw.fail(ErrWriteTimeout)
		}

		n := len(p)
		if sw.cfg.ChunkSize > 0 && n > sw.cfg.ChunkSize {
			n = sw.cfg.ChunkSize
		}

		sw.setDeadline(time.Now().Add(sw.cfg.WriteTimeout))
		m, err := sw.w.Write(p[:n])
		total += m
		sw.written += int64(m)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return total, sw.fail(ErrWriteTimeout)
			}
			return total, sw.fail(fmt.Errorf("%w: %v", ErrClientGone, err))
		}
		p = p[n:]
	}
	return total, nil
}

func (sw *Writer) fail(err error) error {
	sw.err = err
	return err
}

// setDeadline is a no-op, after the first attempt, on writers that do not
// support deadlines, such as httptest.ResponseRecorder.
func (sw *Writer) setDeadline(t time.Time) {
	if !sw.deadlines {
		return
	}
	if err := sw.rc.SetWriteDeadline(t); err != nil {
		log.Debug("write deadlines unavailable: %v", err)
		sw.deadlines = false
	}
}

// Close clears the write deadline so the connection can be reused, and
// rejects further writes. It is safe to call more than once.
func (sw *Writer) Close() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.closed {
		return nil
	}
	sw.closed = true
	sw.setDeadline(time.Time{})
	return nil
}

// Err returns the error that stopped the stream, or nil.
func (sw *Writer) Err() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.err
}

// Stats returns streaming statistics
func (sw *Writer) Stats() (bytesWritten int64, duration time.Duration) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.written, time.Since(sw.started)
}

// Serve writes content with http.ServeContent, so range and conditional
// requests work, through a Writer configured by cfg. It returns the error
// that cut the response short, if any.
func Serve(w http.ResponseWriter, r *http.Request, name string, modTime time.Time, content io.ReadSeeker, cfg Config) error {
	sw := NewWriter(r.Context(), w, cfg)
	metrics.VideoStreamsActive.Inc()
	defer metrics.VideoStreamsActive.Dec()

	http.ServeContent(sw, r, name, modTime, content)
	if err := sw.Close(); err != nil {
		log.Warn("Failed to close stream writer: %v", err)
	}

	written, duration := sw.Stats()
	metrics.VideoStreamBytes.Add(float64(written))
	err := sw.Err()
	metrics.VideoStreamsTotal.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		log.Debug("stream of %s stopped after %d bytes in %v: %v", name, written, duration, err)
	} else {
		log.Debug("stream of %s completed: %d bytes in %v", name, written, duration)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "complete"
	case errors.Is(err, ErrWriteTimeout):
		return "timeout"
	default:
		return "client_gone"
	}
}
