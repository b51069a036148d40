package navigation

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"time"

	"tube-adventures/internal/annotations"
	"tube-adventures/internal/logging"
	"tube-adventures/internal/playback"
	"tube-adventures/internal/videoid"
)

var log = logging.For("navigation")

// Session end reasons passed to Listener.SessionEnded.
const (
	EndOfMedia        = "end_of_media"
	EndAfterFailure   = "navigation_failed"
	EndClosedByViewer = "closed"
)

// Locator finds the annotation file for a video ID.
type Locator interface {
	Locate(videoID string) (path string, ok bool)
}

// SourceResolver maps a video ID to something the host can play.
type SourceResolver interface {
	Resolve(ctx context.Context, videoID string) (playback.Source, error)
}

// Scale maps annotation percentages into overlay coordinates. Position
// applies to X and Y, Size to Width and Height.
type Scale struct {
	Position float64
	Size     float64
}

// Config controls navigator policy.
type Config struct {
	// AbortOnFailure ends the session after any navigation failure.
	AbortOnFailure bool
	Scale          Scale
}

// DefaultConfig aborts on failure and maps percentages into a 1000x1000
// overlay.
func DefaultConfig() Config {
	return Config{
		AbortOnFailure: true,
		Scale:          Scale{Position: 10, Size: 10},
	}
}

// Navigator owns the annotations of the video currently playing and turns
// playback positions and clicks into events and navigation. It is not safe
// for concurrent use; one goroutine must drive all entry points.
type Navigator struct {
	host     playback.Host
	listener Listener
	locator  Locator
	sources  SourceResolver
	cfg      Config

	path        string
	videoID     string
	annotations []annotations.Annotation
	shown       []bool
	duration    time.Duration
	ended       bool
}

// New creates a navigator. Nothing is loaded until Load is called.
func New(host playback.Host, listener Listener, locator Locator, sources SourceResolver, cfg Config) *Navigator {
	if listener == nil {
		listener = NopListener{}
	}
	return &Navigator{
		host:     host,
		listener: listener,
		locator:  locator,
		sources:  sources,
		cfg:      cfg,
	}
}

// VideoID returns the ID of the loaded video, or "" before the first Load.
func (n *Navigator) VideoID() string { return n.videoID }

// Path returns the annotation file of the loaded video.
func (n *Navigator) Path() string { return n.path }

// Duration returns the last duration reported by the host.
func (n *Navigator) Duration() time.Duration { return n.duration }

// Ended reports whether the session is over.
func (n *Navigator) Ended() bool { return n.ended }

// Annotations returns the loaded annotations in document order.
func (n *Navigator) Annotations() []annotations.Annotation {
	return n.annotations
}

// Shown returns the IDs of the annotations currently on screen.
func (n *Navigator) Shown() []string {
	var ids []string
	for i, on := range n.shown {
		if on {
			ids = append(ids, n.annotations[i].ID)
		}
	}
	return ids
}

// Load decodes the annotation file at path, resolves and opens its video
// and replaces all previous state. On failure the previous video keeps
// playing unless AbortOnFailure ends the session.
func (n *Navigator) Load(ctx context.Context, path string) error {
	if n.ended {
		return ErrSessionEnded
	}

	start := time.Now()
	err := n.load(ctx, path)
	observeLoad(time.Since(start), err)

	var f *Failure
	if errors.As(err, &f) {
		n.fail(f)
	}
	return err
}

func (n *Navigator) load(ctx context.Context, path string) error {
	list, err := annotations.ParseFile(path)
	if err != nil {
		return &Failure{Reason: ReasonParseFailed, Target: path, Err: err}
	}

	id, ok := videoid.FromFilename(path, filepath.Ext(path))
	if !ok {
		return &Failure{Reason: ReasonSourceNotFound, Target: path, Err: errors.New("file name carries no video ID")}
	}

	src, err := n.sources.Resolve(ctx, id)
	if err != nil {
		return &Failure{Reason: ReasonSourceNotFound, Target: id, Err: err}
	}

	if err := n.host.Open(src); err != nil {
		return &Failure{Reason: ReasonHostFailed, Target: src.URI, Err: err}
	}
	if err := n.host.Play(); err != nil {
		return &Failure{Reason: ReasonHostFailed, Target: src.URI, Err: err}
	}

	n.hideAll()
	n.path = path
	n.videoID = id
	n.annotations = list
	n.shown = make([]bool, len(list))
	n.duration = 0
	n.flagDuplicates()

	log.Info("loaded %s (%d annotations) from %s", id, len(list), path)
	n.listener.VideoLoaded(id, src, len(list))
	return nil
}

// OnPositionChanged shows and hides annotations for the new playback
// position. Every annotation is re-evaluated, so seeks in either direction
// are handled the same as normal playback.
func (n *Navigator) OnPositionChanged(position time.Duration) {
	if n.ended {
		return
	}
	for i := range n.annotations {
		a := &n.annotations[i]
		active := a.VisibleAt(position)
		switch {
		case active && !n.shown[i]:
			n.shown[i] = true
			n.listener.AnnotationShown(a.ID, a.Text, n.overlayRect(a.StartRect))
		case !active && n.shown[i]:
			n.shown[i] = false
			n.listener.AnnotationHidden(a.ID)
		}
	}
}

// OnDurationChanged records the duration reported by the host.
func (n *Navigator) OnDurationChanged(d time.Duration) {
	n.duration = d
	log.Debug("duration of %s is %v", n.videoID, d)
}

// OnEndOfMedia ends the session.
func (n *Navigator) OnEndOfMedia() {
	n.end(EndOfMedia)
}

// Close ends the session at the viewer's request.
func (n *Navigator) Close() {
	n.end(EndClosedByViewer)
}

// OnAnnotationActivated handles a click on the shown annotation with the
// given ID. Gameplay annotations navigate to the video named by their click
// URL, external links are forwarded to the listener and notes do nothing.
// Clicks on annotations that are not on screen are ignored.
func (n *Navigator) OnAnnotationActivated(ctx context.Context, id string) error {
	if n.ended {
		return ErrSessionEnded
	}

	a := n.findShown(id)
	if a == nil {
		log.Debug("ignoring click on %q: not shown", id)
		return nil
	}
	observeActivation(a.Type)

	switch a.Type {
	case annotations.TypeGameplay:
		return n.follow(ctx, a.ClickURL)
	case annotations.TypeExternalLink:
		n.listener.ExternalLinkActivated(a.ClickURL)
	}
	return nil
}

func (n *Navigator) follow(ctx context.Context, clickURL string) error {
	id, ok := videoid.FromURL(clickURL)
	if !ok {
		f := &Failure{Reason: ReasonBadClickURL, Target: clickURL}
		n.fail(f)
		return f
	}

	path, ok := n.locator.Locate(id)
	if !ok {
		f := &Failure{Reason: ReasonAnnotationsNotFound, Target: id}
		n.fail(f)
		return f
	}

	log.Debug("following %s to %s", clickURL, path)
	return n.Load(ctx, path)
}

func (n *Navigator) findShown(id string) *annotations.Annotation {
	for i := range n.annotations {
		if n.shown[i] && n.annotations[i].ID == id {
			return &n.annotations[i]
		}
	}
	return nil
}

func (n *Navigator) overlayRect(r annotations.RectRegion) Rect {
	return Rect{
		X:      int(math.Round(r.X * n.cfg.Scale.Position)),
		Y:      int(math.Round(r.Y * n.cfg.Scale.Position)),
		Width:  int(math.Round(r.Width * n.cfg.Scale.Size)),
		Height: int(math.Round(r.Height * n.cfg.Scale.Size)),
	}
}

func (n *Navigator) hideAll() {
	for i, on := range n.shown {
		if on {
			n.shown[i] = false
			n.listener.AnnotationHidden(n.annotations[i].ID)
		}
	}
}

func (n *Navigator) flagDuplicates() {
	seen := make(map[string]bool, len(n.annotations))
	for _, a := range n.annotations {
		if a.ID == "" {
			continue
		}
		if seen[a.ID] {
			log.Warn("duplicate annotation id %q in %s", a.ID, n.path)
			observeDuplicateID()
			continue
		}
		seen[a.ID] = true
	}
}

func (n *Navigator) fail(f *Failure) {
	log.Warn("%v", f)
	observeFailure(f.Reason)
	n.listener.NavigationFailed(f)
	if n.cfg.AbortOnFailure {
		n.end(EndAfterFailure)
	}
}

func (n *Navigator) end(reason string) {
	if n.ended {
		return
	}
	n.hideAll()
	n.ended = true
	observeSessionEnded(reason)
	log.Info("session ended: %s", reason)
	n.listener.SessionEnded(reason)
}
