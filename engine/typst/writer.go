package typst

import (
	"bytes"
	"strings"
)

// Writer accumulates Typst markup.
//
// A Writer keeps a continuation indent: every line started by writing
// non-empty content is prefixed with it. List items set the indent to
// their content column, so that paragraphs and hard line breaks inside an
// item stay part of it. Empty lines are never indented.
type Writer struct {
	buf    bytes.Buffer
	indent string
	bol    bool // at beginning of a line
}

// Mark is a position in a Writer's output.
type Mark struct {
	pos int
	bol bool
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{bol: true}
}

// WriteString appends s, indenting new lines with the continuation indent.
func (w *Writer) WriteString(s string) {
	for s != "" {
		line, rest, nl := strings.Cut(s, "\n")
		if line != "" {
			if w.bol && w.indent != "" {
				w.buf.WriteString(w.indent)
			}
			w.buf.WriteString(line)
			w.bol = false
		}
		if nl {
			w.buf.WriteByte('\n')
			w.bol = true
		}
		s = rest
	}
}

// Raw appends s without applying the continuation indent to its first line.
func (w *Writer) Raw(s string) {
	line, rest, nl := strings.Cut(s, "\n")
	if line != "" {
		w.buf.WriteString(line)
		w.bol = false
	}
	if nl {
		w.buf.WriteByte('\n')
		w.bol = true
		w.WriteString(rest)
	}
}

// StartLine makes sure the next output starts at the beginning of a line,
// then writes prefix without continuation indent. List markers and
// headings use this.
func (w *Writer) StartLine(prefix string) {
	if !w.bol {
		w.buf.WriteByte('\n')
		w.bol = true
	}
	w.Raw(prefix)
}

// Newlines appends newlines until the output ends in at least n of them.
// Nothing is written to an empty writer.
func (w *Writer) Newlines(n int) {
	b := w.buf.Bytes()
	if len(b) == 0 {
		return
	}
	have := 0
	for have < n && have < len(b) && b[len(b)-1-have] == '\n' {
		have++
	}
	for ; have < n; have++ {
		w.buf.WriteByte('\n')
	}
	w.bol = true
}

// Indent sets the continuation indent and returns the previous one.
func (w *Writer) Indent(indent string) (previous string) {
	previous, w.indent = w.indent, indent
	return
}

// Mark returns the current output position.
func (w *Writer) Mark() Mark {
	return Mark{pos: w.buf.Len(), bol: w.bol}
}

// TrimNewlines removes trailing newlines, but never output before m.
func (w *Writer) TrimNewlines(m Mark) {
	b := w.buf.Bytes()
	n := len(b)
	for n > m.pos && b[n-1] == '\n' {
		n--
	}
	if n == len(b) {
		return
	}
	w.buf.Truncate(n)
	if n == m.pos {
		w.bol = m.bol
	} else {
		w.bol = false
	}
}

// Since returns the output written after m.
func (w *Writer) Since(m Mark) string {
	return string(w.buf.Bytes()[m.pos:])
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// String returns the output trimmed of leading and trailing white space.
func (w *Writer) String() string {
	return strings.TrimSpace(w.buf.String())
}

// Text writes prose text, escaped. The text is trimmed; a single space
// survives at either end if it borders an inline sibling. prevInline and
// nextInline report whether the previous and next sibling of the text node
// are inline content.
func (w *Writer) Text(s string, prevInline, nextInline bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		if s != "" && prevInline && nextInline {
			w.WriteString(" ")
		}
		return
	}
	if prevInline && t[0] != s[0] {
		w.WriteString(" ")
	}
	w.WriteString(Escape(t))
	if nextInline && t[len(t)-1] != s[len(s)-1] {
		w.WriteString(" ")
	}
}
