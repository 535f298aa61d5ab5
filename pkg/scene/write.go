package scene

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Mode selects the markup dialect.
type Mode int

const (
	// SVG writes childless elements as self-closing tags.
	SVG Mode = iota
	// HTML always writes an explicit closing tag.
	HTML
)

// KeyAttr is the attribute that carries an element's join key in markup.
const KeyAttr = "data-key"

// Write serialises e and its descendants into buf, indenting nested
// elements by two spaces per level starting at depth.
func (e *Element) Write(buf *bytes.Buffer, mode Mode, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	if e.Key != "" {
		writeAttr(buf, KeyAttr, e.Key)
	}
	for _, a := range e.attrs {
		writeAttr(buf, a.name, a.value)
	}
	if len(e.styles) > 0 {
		var s strings.Builder
		for i, st := range e.styles {
			if i > 0 {
				s.WriteString("; ")
			}
			s.WriteString(st.name)
			s.WriteString(": ")
			s.WriteString(st.value)
		}
		writeAttr(buf, "style", s.String())
	}

	switch {
	case len(e.Children) == 0 && e.Text == "" && e.Raw == "" && mode == SVG:
		buf.WriteString("/>\n")
	case len(e.Children) == 0:
		buf.WriteByte('>')
		escape(buf, e.Text)
		buf.WriteString(e.Raw)
		buf.WriteString("</" + e.Tag + ">\n")
	default:
		buf.WriteString(">")
		escape(buf, e.Text)
		buf.WriteByte('\n')
		for _, c := range e.Children {
			c.Write(buf, mode, depth+1)
		}
		buf.WriteString(indent + "</" + e.Tag + ">\n")
	}
}

// String returns the SVG markup of e.
func (e *Element) String() string {
	var buf bytes.Buffer
	e.Write(&buf, SVG, 0)
	return buf.String()
}

// HTML returns the HTML markup of e.
func (e *Element) HTML() string {
	var buf bytes.Buffer
	e.Write(&buf, HTML, 0)
	return buf.String()
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	escape(buf, value)
	buf.WriteByte('"')
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
