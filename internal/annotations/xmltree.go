package annotations

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// element is a minimal DOM node. The annotation schema is loose enough that
// decoding straight into tagged structs would lose the distinctions the
// validator needs (absent vs. empty attribute, first child vs. any child,
// childless vs. whitespace-only segments).
type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
	text     strings.Builder
}

// attr returns the value of the named attribute and whether it was present.
func (e *element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// firstChild returns the first direct child element with the given name.
func (e *element) firstChild(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// childrenNamed returns all direct children with the given name, in order.
func (e *element) childrenNamed(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// directText returns the character data directly inside the element.
func (e *element) directText() string {
	return e.text.String()
}

// empty reports whether the element has neither child elements nor
// non-whitespace text.
func (e *element) empty() bool {
	return len(e.children) == 0 && strings.TrimSpace(e.text.String()) == ""
}

// parseTree reads a whole XML document and returns a synthetic node whose
// children are the document's top-level elements.
func parseTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &element{}
	stack := []*element{doc}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: t.Attr}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 1 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].name)
	}
	if len(doc.children) == 0 {
		return nil, errors.New("document has no root element")
	}
	return doc, nil
}
