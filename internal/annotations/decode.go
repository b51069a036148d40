package annotations

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/logging"
)

var log = logging.For("annotations")

// Reasons passed to Observer.ObserveSkipped.
const (
	SkipNotText      = "not_text"
	SkipNotPopup     = "not_popup"
	SkipEmptySegment = "empty_segment"
)

// ParseFile reads and decodes one annotation file. On failure the returned
// error is always a *ParseError and no annotations are returned.
func ParseFile(path string) ([]Annotation, error) {
	start := time.Now()

	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		perr := readError(path, err)
		observeParse(perr.Kind, time.Since(start))
		return nil, perr
	}

	result, perr := decode(bytes.NewReader(data))
	observeParse(kindOfParseError(perr), time.Since(start))
	if perr != nil {
		perr.Path = path
		log.Debug("%v", perr)
		return nil, perr
	}

	log.Debug("decoded %d annotations from %s", len(result), path)
	return result, nil
}

// Decode decodes an annotation document held in r.
func Decode(r io.Reader) ([]Annotation, error) {
	start := time.Now()
	result, perr := decode(r)
	observeParse(kindOfParseError(perr), time.Since(start))
	if perr != nil {
		return nil, perr
	}
	return result, nil
}

func readError(path string, err error) *ParseError {
	full, absErr := filepath.Abs(path)
	if absErr != nil {
		log.Warn("cannot get absolute path of %q: %v", path, absErr)
		full = path
	}

	if errors.Is(err, fs.ErrNotExist) {
		return &ParseError{
			Kind:    KindFileNotFound,
			Path:    path,
			Message: fmt.Sprintf("file %q not found", full),
			Err:     err,
		}
	}
	return &ParseError{
		Kind:    KindCannotReadFile,
		Path:    path,
		Message: fmt.Sprintf("cannot open or read file %q", full),
		Err:     err,
	}
}

func kindOfParseError(perr *ParseError) ErrorKind {
	if perr == nil {
		return KindSuccess
	}
	return perr.Kind
}

func decode(r io.Reader) ([]Annotation, *ParseError) {
	doc, err := parseTree(r)
	if err != nil {
		return nil, &ParseError{
			Kind:    KindInvalidXML,
			Message: fmt.Sprintf("XML parse error: %v", err),
			Err:     err,
		}
	}

	root := doc.firstChild("document")
	if root == nil {
		return nil, formatErrorf("file with no <document>")
	}
	container := root.firstChild("annotations")
	if container == nil {
		return nil, formatErrorf("<document> with no <annotations> inside")
	}
	elements := container.childrenNamed("annotation")
	if len(elements) == 0 {
		return nil, formatErrorf("<annotations> with no <annotation> inside")
	}

	result := make([]Annotation, 0, len(elements))
	for _, el := range elements {
		a, keep, perr := decodeAnnotation(el)
		if perr != nil {
			return nil, perr
		}
		if !keep {
			continue
		}
		if a.HasSingleRegion() {
			observeSingleRegion(a.ID)
		}
		observeAnnotation(a.Type)
		result = append(result, a)
	}
	return result, nil
}

// decodeAnnotation returns keep=false for annotations that are not shown to
// the viewer (highlights, speech bubbles, empty segments).
func decodeAnnotation(el *element) (a Annotation, keep bool, perr *ParseError) {
	a.ID, _ = el.attr("id")

	typ, perr := requireAttr(el, "type")
	if perr != nil {
		return a, false, perr
	}
	if typ != "text" {
		observeSkipped(SkipNotText)
		return a, false, nil
	}
	style, perr := requireAttr(el, "style")
	if perr != nil {
		return a, false, perr
	}
	if style != "popup" {
		observeSkipped(SkipNotPopup)
		return a, false, nil
	}

	if text := el.firstChild("TEXT"); text != nil {
		if strings.TrimSpace(text.directText()) == "" {
			return a, false, formatErrorf("<TEXT> with no text")
		}
		a.Text = text.directText()
	}

	if perr := decodeAction(el, &a); perr != nil {
		return a, false, perr
	}

	segment := el.firstChild("segment")
	if segment == nil {
		return a, false, formatErrorf("<annotation> without <segment>")
	}
	if segment.empty() {
		observeSkipped(SkipEmptySegment)
		return a, false, nil
	}
	if perr := decodeSegment(segment, &a); perr != nil {
		return a, false, perr
	}

	appearance := el.firstChild("appearance")
	if appearance == nil {
		return a, false, formatErrorf("<annotation> without <appearance>")
	}
	if perr := decodeAppearance(appearance, &a); perr != nil {
		return a, false, perr
	}

	return a, true, nil
}

func decodeAction(el *element, a *Annotation) *ParseError {
	action := el.firstChild("action")
	if action == nil {
		a.Type = TypeNotes
		return nil
	}

	if perr := expectAttr(action, "type", "openUrl"); perr != nil {
		return perr
	}
	if perr := expectAttr(action, "trigger", "click"); perr != nil {
		return perr
	}

	url := action.firstChild("url")
	if url == nil {
		return formatErrorf("<action> with no <url>")
	}
	value, perr := requireAttr(url, "value")
	if perr != nil {
		return perr
	}
	a.ClickURL = value

	target, perr := requireAttr(url, "target")
	if perr != nil {
		return perr
	}
	switch target {
	case "current":
		a.Type = TypeGameplay
	case "new":
		if perr := expectAttr(url, "type", "hyperlink"); perr != nil {
			return perr
		}
		a.Type = TypeExternalLink
	default:
		return formatErrorf("<url target=%q> unsupported target value (expected \"current\" or \"new\")", target)
	}
	return nil
}

func decodeSegment(segment *element, a *Annotation) *ParseError {
	region := segment.firstChild("movingRegion")
	if region == nil {
		return formatErrorf("<segment> without <movingRegion>")
	}
	if perr := expectAttr(region, "type", "rect"); perr != nil {
		return perr
	}

	rects := region.childrenNamed("rectRegion")
	switch {
	case len(rects) == 0:
		return formatErrorf("<movingRegion> without <rectRegion>")
	case len(rects) > 2:
		return formatErrorf("more than 2 <rectRegion> in <movingRegion> (found %d)", len(rects))
	}

	start, perr := decodeRect(rects[0])
	if perr != nil {
		return perr
	}
	a.StartRect = start

	if len(rects) == 2 {
		end, perr := decodeRect(rects[1])
		if perr != nil {
			return perr
		}
		a.EndRect = &end
	}
	return nil
}

func decodeRect(el *element) (RectRegion, *ParseError) {
	var r RectRegion
	fields := []struct {
		attr string
		dst  *float64
	}{
		{"x", &r.X},
		{"y", &r.Y},
		{"w", &r.Width},
		{"h", &r.Height},
	}
	for _, f := range fields {
		v, perr := floatAttr(el, f.attr)
		if perr != nil {
			return r, perr
		}
		*f.dst = v
	}

	t, perr := requireAttr(el, "t")
	if perr != nil {
		return r, perr
	}
	d, err := ParseTimestamp(t)
	if err != nil {
		return r, &ParseError{
			Kind:    KindInvalidFormat,
			Message: fmt.Sprintf("<rectRegion t=%q>: %v", t, err),
			Err:     err,
		}
	}
	r.Time = d
	return r, nil
}

func decodeAppearance(el *element, a *Annotation) *ParseError {
	size, perr := floatAttr(el, "textSize")
	if perr != nil {
		return perr
	}
	a.TextSize = size

	bg, perr := colorAttr(el, "bgColor", "background")
	if perr != nil {
		return perr
	}
	alpha, perr := floatAttr(el, "bgAlpha")
	if perr != nil {
		return perr
	}
	if alpha < 0 || alpha > 1 {
		return formatErrorf("background alpha is invalid (%g), the valid range is [0.0, 1.0]", alpha)
	}
	a.Background = Color{RGB: bg, Alpha: alpha}

	fg, perr := colorAttr(el, "fgColor", "foreground")
	if perr != nil {
		return perr
	}
	a.Foreground = Color{RGB: fg, Alpha: 1}

	effects, perr := requireAttr(el, "effects")
	if perr != nil {
		return perr
	}
	if effects != "" {
		return formatErrorf("<appearance effects=%q>: effects are not supported", effects)
	}
	return nil
}

func requireAttr(el *element, name string) (string, *ParseError) {
	v, ok := el.attr(name)
	if !ok {
		return "", formatErrorf("<%s> without %q attribute", el.name, name)
	}
	return v, nil
}

func expectAttr(el *element, name, want string) *ParseError {
	v, perr := requireAttr(el, name)
	if perr != nil {
		return perr
	}
	if v != want {
		return formatErrorf("<%s %s != %q> (actual value = %q)", el.name, name, want, v)
	}
	return nil
}

func floatAttr(el *element, name string) (float64, *ParseError) {
	s, perr := requireAttr(el, name)
	if perr != nil {
		return 0, perr
	}
	v, err := ParseFloat(s)
	if err != nil {
		return 0, &ParseError{
			Kind:    KindInvalidFormat,
			Message: fmt.Sprintf("failed to parse <%s %s=%q>: %v", el.name, name, s, err),
			Err:     err,
		}
	}
	return v, nil
}

func colorAttr(el *element, name, label string) (uint32, *ParseError) {
	s, perr := requireAttr(el, name)
	if perr != nil {
		return 0, perr
	}
	v, err := ParseRGB(s)
	if err != nil {
		return 0, &ParseError{
			Kind:    KindInvalidFormat,
			Message: fmt.Sprintf("failed to parse <%s %s=%q>: %v", el.name, name, s, err),
			Err:     err,
		}
	}
	if v > MaxRGB {
		return 0, formatErrorf("%s rgb color is invalid (0x%x). Max is 0xFFFFFF", label, v)
	}
	return v, nil
}
