package annotations

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const referenceFile = "testdata/TUBE-ADVENTURES (aventura interactiva) BckqqsJiDUI.xml"

const validAppearance = `<appearance bgAlpha="0.8" bgColor="16777215" effects="" fgColor="1710618" textSize="3.6107"/>`

const validSegment = `<segment><movingRegion type="rect">
  <rectRegion h="8.0" t="0:00:01.00" w="20.0" x="10.0" y="10.0"/>
  <rectRegion h="8.0" t="0:00:02.00" w="20.0" x="10.0" y="10.0"/>
</movingRegion></segment>`

func wrapDocument(annotations ...string) string {
	return "<document><annotations>" + strings.Join(annotations, "\n") + "</annotations></document>"
}

func popup(inner string) string {
	return `<annotation id="a1" type="text" style="popup">` + inner + `</annotation>`
}

func decodeString(t *testing.T, doc string) ([]Annotation, error) {
	t.Helper()
	return Decode(strings.NewReader(doc))
}

func timestamp(h, m, s, cs int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(cs)*10*time.Millisecond
}

func TestParseFile_ReferenceFile(t *testing.T) {
	got, err := ParseFile(referenceFile)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("got %d annotations, want 7", len(got))
	}

	const goHere = "Ir aquí / go here"
	urlFor := func(id, video string) string {
		return "https://www.youtube.com/watch?annotation_id=" + id +
			"&ei=hKMCXMeuJIG5Va7bkYAJ&feature=iv&src_vid=BckqqsJiDUI&v=" + video
	}

	type rect struct {
		x, y, w, h float64
	}
	want := []struct {
		id         string
		text       string
		r          rect
		start, end time.Duration
		url        string
		typ        Type
	}{
		{"annotation_103323", "Música y + info en www.tube-adventures.blogspot.com", rect{14.167, 100, 71.25, 12.222}, timestamp(0, 0, 4, 0), timestamp(0, 0, 8, 0), "", TypeNotes},
		{"annotation_281740", "Welcome", rect{23.542, 69.63, 27.708, 7.037}, timestamp(0, 0, 33, 79), timestamp(0, 0, 36, 50), "", TypeNotes},
		{"annotation_30312", "Starring", rect{8.75, 10.741, 18.75, 8.518}, timestamp(0, 0, 19, 80), timestamp(0, 0, 21, 89), "", TypeNotes},
		{"annotation_671574", goHere, rect{3.542, 53.056, 26.458, 8.056}, timestamp(0, 1, 45, 35), timestamp(0, 1, 59, 4), urlFor("annotation_671574", "yVebIlvkOnU"), TypeGameplay},
		{"annotation_776505", goHere, rect{69.583, 51.667, 27.292, 8.056}, timestamp(0, 1, 45, 35), timestamp(0, 1, 59, 4), urlFor("annotation_776505", "MnBL8LY4kgc"), TypeGameplay},
		{"annotation_782940", "English subtitles will be fully available on friday. Sorry for the inconvenience", rect{0.417, 75.833, 52.083, 11.667}, timestamp(0, 1, 7, 43), timestamp(0, 1, 13, 40), "", TypeNotes},
		{"annotation_953980", goHere, rect{29.375, 39.444, 27.5, 8.056}, timestamp(0, 1, 45, 35), timestamp(0, 1, 59, 4), urlFor("annotation_953980", "5AkWHfJV8RQ"), TypeGameplay},
	}

	for i, w := range want {
		a := got[i]
		t.Run(w.id, func(t *testing.T) {
			if a.ID != w.id {
				t.Errorf("ID = %q, want %q", a.ID, w.id)
			}
			if a.Text != w.text {
				t.Errorf("Text = %q, want %q", a.Text, w.text)
			}
			if a.ClickURL != w.url {
				t.Errorf("ClickURL = %q, want %q", a.ClickURL, w.url)
			}
			if a.Type != w.typ {
				t.Errorf("Type = %v, want %v", a.Type, w.typ)
			}
			if a.EndRect == nil {
				t.Fatal("EndRect is nil")
			}
			for _, r := range []RectRegion{a.StartRect, *a.EndRect} {
				if r.X != w.r.x || r.Y != w.r.y || r.Width != w.r.w || r.Height != w.r.h {
					t.Errorf("rect = %+v, want %+v", r, w.r)
				}
			}
			if a.StartRect.Time != w.start {
				t.Errorf("StartRect.Time = %v, want %v", a.StartRect.Time, w.start)
			}
			if a.EndRect.Time != w.end {
				t.Errorf("EndRect.Time = %v, want %v", a.EndRect.Time, w.end)
			}
			if a.Background != (Color{RGB: 16777215, Alpha: 0.8}) {
				t.Errorf("Background = %+v", a.Background)
			}
			if a.Foreground != (Color{RGB: 1710618, Alpha: 1}) {
				t.Errorf("Foreground = %+v", a.Foreground)
			}
			if a.TextSize != 3.6107 {
				t.Errorf("TextSize = %v, want 3.6107", a.TextSize)
			}
		})
	}

	fourth := got[3]
	if fourth.Type != TypeGameplay || fourth.ClickURL == "" || math.Abs(fourth.Background.Alpha-0.8) > 1e-6 {
		t.Errorf("4th annotation = %+v", fourth)
	}
}

func TestParseFile_ReferenceFileProperties(t *testing.T) {
	got, err := ParseFile(referenceFile)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, a := range got {
		if a.ID != "" {
			if seen[a.ID] {
				t.Errorf("duplicate id %q", a.ID)
			}
			seen[a.ID] = true
		}
		if a.EndRect != nil && a.StartRect.Time > a.EndRect.Time {
			t.Errorf("%s: start %v after end %v", a.ID, a.StartRect.Time, a.EndRect.Time)
		}
	}
}

func TestParseFile_Errors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.xml")
	_, err := ParseFile(missing)
	if KindOf(err) != KindFileNotFound {
		t.Errorf("missing file kind = %v, want %v", KindOf(err), KindFileNotFound)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error should wrap os.ErrNotExist: %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("message %q should mention not found", err.Error())
	}

	_, err = ParseFile(dir)
	if KindOf(err) != KindCannotReadFile {
		t.Errorf("directory kind = %v, want %v", KindOf(err), KindCannotReadFile)
	}

	broken := filepath.Join(dir, "broken.xml")
	if err := os.WriteFile(broken, []byte("<document><annotations>"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	_, err = ParseFile(broken)
	if KindOf(err) != KindInvalidXML {
		t.Errorf("broken xml kind = %v, want %v", KindOf(err), KindInvalidXML)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Path != broken {
		t.Errorf("error should be a *ParseError with Path=%s, got %#v", broken, err)
	}
}

func TestDecode_Filtering(t *testing.T) {
	doc := wrapDocument(
		`<annotation id="h" type="highlight"><segment/></annotation>`,
		`<annotation id="s" type="text" style="speech"><segment/></annotation>`,
		`<annotation id="e" type="text" style="popup"><TEXT>gone</TEXT><segment/></annotation>`,
		popup(`<TEXT>kept</TEXT>`+validSegment+validAppearance),
	)

	got, err := decodeString(t, doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 1 || got[0].Text != "kept" {
		t.Errorf("got %+v, want only the popup", got)
	}
}

func TestDecode_AllFiltered(t *testing.T) {
	got, err := decodeString(t, wrapDocument(`<annotation type="highlight"/>`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d annotations, want 0", len(got))
	}
}

func TestDecode_Types(t *testing.T) {
	tests := []struct {
		name   string
		action string
		want   Type
	}{
		{"no action", "", TypeNotes},
		{"gameplay", `<action type="openUrl" trigger="click"><url target="current" value="https://www.youtube.com/watch?v=MnBL8LY4kgc"/></action>`, TypeGameplay},
		{"external link", `<action type="openUrl" trigger="click"><url target="new" type="hyperlink" value="http://example.com"/></action>`, TypeExternalLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeString(t, wrapDocument(popup(tt.action+validSegment+validAppearance)))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got[0].Type != tt.want {
				t.Errorf("Type = %v, want %v", got[0].Type, tt.want)
			}
		})
	}
}

func TestDecode_SingleRegion(t *testing.T) {
	segment := `<segment><movingRegion type="rect"><rectRegion h="1" t="0:00:05.00" w="1" x="1" y="1"/></movingRegion></segment>`

	obs := &recordingObserver{}
	SetObserver(obs)
	defer SetObserver(nil)

	got, err := decodeString(t, wrapDocument(popup(segment+validAppearance)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got[0].EndRect != nil {
		t.Errorf("EndRect = %+v, want nil", got[0].EndRect)
	}
	if !got[0].VisibleAt(time.Hour) {
		t.Error("single-region annotation should stay visible")
	}
	if len(obs.singles) != 1 || obs.singles[0] != "a1" {
		t.Errorf("single-region observations = %v", obs.singles)
	}
}

func TestDecode_FormatErrors(t *testing.T) {
	rect := func(attrs string) string {
		return `<segment><movingRegion type="rect"><rectRegion ` + attrs + `/></movingRegion></segment>`
	}
	appearance := func(attrs string) string {
		return `<appearance ` + attrs + `/>`
	}

	tests := []struct {
		name     string
		doc      string
		contains string
	}{
		{"no document", `<root/>`, "<document>"},
		{"no annotations", `<document/>`, "<annotations>"},
		{"no annotation", `<document><annotations/></document>`, "<annotation>"},
		{"missing type", wrapDocument(`<annotation style="popup"/>`), `"type"`},
		{"missing style", wrapDocument(`<annotation type="text"/>`), `"style"`},
		{"empty TEXT", wrapDocument(popup(`<TEXT></TEXT>` + validSegment + validAppearance)), "<TEXT>"},
		{"whitespace-only TEXT", wrapDocument(popup("<TEXT>  \n\t </TEXT>" + validSegment + validAppearance)), "<TEXT>"},
		{"wrong action type", wrapDocument(popup(`<action type="pause" trigger="click"/>` + validSegment + validAppearance)), `"pause"`},
		{"wrong trigger", wrapDocument(popup(`<action type="openUrl" trigger="hover"/>` + validSegment + validAppearance)), `"hover"`},
		{"missing url", wrapDocument(popup(`<action type="openUrl" trigger="click"/>` + validSegment + validAppearance)), "<url>"},
		{"missing url value", wrapDocument(popup(`<action type="openUrl" trigger="click"><url target="current"/></action>` + validSegment + validAppearance)), `"value"`},
		{"new target not hyperlink", wrapDocument(popup(`<action type="openUrl" trigger="click"><url target="new" type="video" value="x"/></action>` + validSegment + validAppearance)), "hyperlink"},
		{"unsupported target", wrapDocument(popup(`<action type="openUrl" trigger="click"><url target="popup" value="x"/></action>` + validSegment + validAppearance)), "unsupported target value"},
		{"missing segment", wrapDocument(popup(validAppearance)), "<segment>"},
		{"missing movingRegion", wrapDocument(popup(`<segment><other/></segment>` + validAppearance)), "<movingRegion>"},
		{"wrong movingRegion type", wrapDocument(popup(`<segment><movingRegion type="anchored"/></segment>` + validAppearance)), `"anchored"`},
		{"no rectRegion", wrapDocument(popup(`<segment><movingRegion type="rect"/></segment>` + validAppearance)), "<rectRegion>"},
		{"three rectRegions", wrapDocument(popup(`<segment><movingRegion type="rect">
			<rectRegion h="1" t="0:00:01.00" w="1" x="1" y="1"/>
			<rectRegion h="1" t="0:00:02.00" w="1" x="1" y="1"/>
			<rectRegion h="1" t="0:00:03.00" w="1" x="1" y="1"/>
			</movingRegion></segment>` + validAppearance)), "more than 2"},
		{"bad x", wrapDocument(popup(rect(`h="1" t="0:00:01.00" w="1" x="left" y="1"`) + validAppearance)), "x="},
		{"missing h", wrapDocument(popup(rect(`t="0:00:01.00" w="1" x="1" y="1"`) + validAppearance)), `"h"`},
		{"time without centiseconds", wrapDocument(popup(rect(`h="1" t="1:2:3" w="1" x="1" y="1"`) + validAppearance)), "1:2:3"},
		{"missing appearance", wrapDocument(popup(validSegment)), "<appearance>"},
		{"bgColor too large", wrapDocument(popup(validSegment + appearance(`bgAlpha="0.8" bgColor="16777216" effects="" fgColor="0" textSize="1"`))), "0xFFFFFF"},
		{"fgColor too large", wrapDocument(popup(validSegment + appearance(`bgAlpha="0.8" bgColor="0" effects="" fgColor="99999999" textSize="1"`))), "0xFFFFFF"},
		{"bgAlpha out of range", wrapDocument(popup(validSegment + appearance(`bgAlpha="1.5" bgColor="0" effects="" fgColor="0" textSize="1"`))), "1.5"},
		{"bad textSize", wrapDocument(popup(validSegment + appearance(`bgAlpha="0.8" bgColor="0" effects="" fgColor="0" textSize="big"`))), "textSize"},
		{"missing effects", wrapDocument(popup(validSegment + appearance(`bgAlpha="0.8" bgColor="0" fgColor="0" textSize="1"`))), `"effects"`},
		{"non-empty effects", wrapDocument(popup(validSegment + appearance(`bgAlpha="0.8" bgColor="0" effects="glow" fgColor="0" textSize="1"`))), "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeString(t, tt.doc)
			if got != nil {
				t.Errorf("expected no annotations on failure, got %d", len(got))
			}
			if KindOf(err) != KindInvalidFormat {
				t.Fatalf("kind = %v, want %v (err: %v)", KindOf(err), KindInvalidFormat, err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestDecode_FirstErrorAborts(t *testing.T) {
	doc := wrapDocument(
		popup(`<TEXT>fine</TEXT>`+validSegment+validAppearance),
		popup(`<TEXT>broken</TEXT>`+validSegment),
	)
	got, err := decodeString(t, doc)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Errorf("got partial result %+v", got)
	}
}

func TestDecode_InvalidXML(t *testing.T) {
	tests := []string{
		"",
		"not xml at all",
		"<document><annotations></document>",
		"<document><annotations>",
	}
	for _, doc := range tests {
		_, err := decodeString(t, doc)
		if KindOf(err) != KindInvalidXML {
			t.Errorf("Decode(%q) kind = %v, want %v", doc, KindOf(err), KindInvalidXML)
		}
	}
}

func TestDecode_Charset(t *testing.T) {
	// "Música" in ISO-8859-1
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		wrapDocument(popup("<TEXT>M\xfasica</TEXT>"+validSegment+validAppearance))

	got, err := decodeString(t, doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got[0].Text != "Música" {
		t.Errorf("Text = %q, want %q", got[0].Text, "Música")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != KindSuccess {
		t.Error("KindOf(nil) should be KindSuccess")
	}
	if KindOf(errors.New("x")) != KindCannotReadFile {
		t.Error("foreign errors should map to KindCannotReadFile")
	}
	for _, k := range Kinds() {
		if strings.HasPrefix(k.String(), "unknown") {
			t.Errorf("kind %d has no name", int(k))
		}
	}
}

type recordingObserver struct {
	parses  []ErrorKind
	types   []Type
	skipped []string
	singles []string
}

func (o *recordingObserver) ObserveParse(kind ErrorKind, _ float64) { o.parses = append(o.parses, kind) }
func (o *recordingObserver) ObserveAnnotation(t Type)               { o.types = append(o.types, t) }
func (o *recordingObserver) ObserveSkipped(reason string)           { o.skipped = append(o.skipped, reason) }
func (o *recordingObserver) ObserveSingleRegion(id string)          { o.singles = append(o.singles, id) }

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	SetObserver(obs)
	defer SetObserver(nil)

	if _, err := ParseFile(referenceFile); err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if len(obs.parses) != 1 || obs.parses[0] != KindSuccess {
		t.Errorf("parses = %v", obs.parses)
	}
	if len(obs.types) != 7 {
		t.Errorf("observed %d annotations, want 7", len(obs.types))
	}
	want := map[string]int{SkipNotText: 2, SkipNotPopup: 1, SkipEmptySegment: 1}
	counts := make(map[string]int)
	for _, r := range obs.skipped {
		counts[r]++
	}
	for reason, n := range want {
		if counts[reason] != n {
			t.Errorf("skipped[%s] = %d, want %d", reason, counts[reason], n)
		}
	}
}
