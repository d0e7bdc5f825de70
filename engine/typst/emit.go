package typst

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/option"
)

// Markup of inline wrappers, as (open, close) pairs.
var (
	Strong    = [2]string{"*", "*"}
	Emphasis  = [2]string{"_", "_"}
	Strike    = [2]string{"#strike[", "]"}
	Underline = [2]string{"#underline[", "]"}
	Highlight = [2]string{"#highlight[", "]"}
	Subscript = [2]string{"#sub[", "]"}
	Supscript = [2]string{"#super[", "]"}
	InlineQ   = [2]string{"#quote[", "]"}
)

// HardBreak is a forced line break.
const HardBreak = "\\\n"

// Paragraph ends a paragraph.
func (w *Writer) Paragraph() {
	w.WriteString("\n\n")
}

// Open writes the opening markup of an inline wrapper. If space is set,
// a space is written first, i.e. white space at the edge of the wrapped
// content is moved outside of the wrapper.
func (w *Writer) Open(wrapper [2]string, space bool) {
	if space {
		w.WriteString(" ")
	}
	w.WriteString(wrapper[0])
}

// Close writes the closing markup of an inline wrapper, optionally
// followed by a space.
func (w *Writer) Close(wrapper [2]string, space bool) {
	w.WriteString(wrapper[1])
	if space {
		w.WriteString(" ")
	}
}

// --- Headings --------------------------------------------------------------

// OpenHeading starts a heading of a given level (clipped to 1…6) on a
// new line.
func (w *Writer) OpenHeading(level int) {
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	w.StartLine(strings.Repeat("=", level) + " ")
}

// CloseHeading ends a heading, appending an anchor label if id is set.
// Identifiers which are not valid Typst labels are dropped and reported.
func (w *Writer) CloseHeading(id option.StringT, diag *Diagnostics) {
	if !id.IsEmpty() {
		if IsLabel(id.Unwrap()) {
			w.WriteString(" <" + id.Unwrap() + ">")
		} else if diag != nil {
			diag.Report(core.EINVALID, "heading id %s is not a valid label", id)
		}
	}
	w.WriteString("\n")
}

// IsLabel returns true if s may be used as a Typst label, i.e. inside
// `<…>`.
func IsLabel(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == ':' || r == '.') {
			return false
		}
	}
	return true
}

// --- Quotes ----------------------------------------------------------------

// OpenQuote starts a block quote.
func (w *Writer) OpenQuote() Mark {
	w.WriteString("\n\n#quote(block: true)[\n")
	return w.Mark()
}

// CloseQuote ends a block quote started at m.
func (w *Writer) CloseQuote(m Mark) {
	w.TrimNewlines(m)
	w.WriteString("\n]\n\n")
}

// --- Lists -----------------------------------------------------------------

// OpenList starts a list. outermost tells if the list has no list
// ancestor; an outermost list is separated from preceding content by an
// empty line.
func (w *Writer) OpenList(outermost bool) {
	if outermost {
		w.Newlines(2)
	} else {
		w.Newlines(1)
	}
}

// CloseList ends a list.
func (w *Writer) CloseList() {
	w.WriteString("\n\n")
}

// Item is an open list item.
type Item struct {
	w      *Writer
	mark   Mark
	indent string
}

// OpenItem writes the marker line of a list item. Marker and nesting
// level are resolved from anc. The item's content is indented to the
// column after the marker.
func (w *Writer) OpenItem(anc *Ancestors) *Item {
	marker, level := anc.ListMarker()
	return w.openItem(marker, level)
}

// OpenNumberedItem starts an item of an ordered list with an explicit
// number. Items following it continue counting from n.
func (w *Writer) OpenNumberedItem(anc *Ancestors, n int) *Item {
	_, level := anc.ListMarker()
	return w.openItem(strconv.Itoa(n)+".", level)
}

func (w *Writer) openItem(marker string, level int) *Item {
	pad := strings.Repeat(" ", level*IndentWidth)
	w.StartLine(pad + marker + " ")
	item := &Item{w: w}
	item.indent = w.Indent(pad + strings.Repeat(" ", IndentWidth))
	item.mark = w.Mark()
	return item
}

// Close ends the item. Trailing newlines of the item's content are
// dropped, then the item's line is terminated.
func (item *Item) Close() {
	item.w.TrimNewlines(item.mark)
	item.w.Indent(item.indent)
	item.w.WriteString("\n")
}

// --- Links and figures -----------------------------------------------------

// OpenLink starts a link to url. If the link has no content, call
// BareLink instead.
func (w *Writer) OpenLink(url string) {
	w.WriteString(`#link("` + EscapeLiteral(url) + `")[`)
}

// CloseLink ends a link.
func (w *Writer) CloseLink() {
	w.WriteString("]")
}

// BareLink writes a link without content; Typst will display the URL.
func (w *Writer) BareLink(url string) {
	w.WriteString(`#link("` + EscapeLiteral(url) + `")`)
}

// Figure writes an image wrapped in a figure. An alt text becomes the
// caption and the image's alt attribute. width may be empty.
func (w *Writer) Figure(src string, alt option.StringT, width string) {
	caption := option.Safe(alt.Match(option.Of{
		option.None: "none",
		"":          "none",
		option.Some: func(interface{}) (interface{}, error) {
			return "[" + Escape(alt.Unwrap()) + "]", nil
		},
	})).(string)
	var args []string
	if caption != "none" {
		args = append(args, `alt: "`+EscapeLiteral(alt.Unwrap())+`"`)
	}
	args = append(args, `"`+EscapeLiteral(src)+`"`)
	if width != "" {
		args = append(args, "width: "+width)
	}
	w.WriteString("#figure(caption: " + caption + ", image(" + strings.Join(args, ", ") + "))")
}

// --- Code and math ---------------------------------------------------------

// CodeBlock writes a fenced raw block. The body is not escaped; the fence
// is made longer than any run of backticks inside the body.
func (w *Writer) CodeBlock(lang, body string) {
	fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
	w.StartLine(fence + lang + "\n")
	w.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		w.WriteString("\n")
	}
	w.WriteString(fence + "\n\n")
}

// InlineCode writes inline raw text.
func (w *Writer) InlineCode(code string) {
	if strings.Contains(code, "`") {
		w.WriteString("#raw(" + Quote(code) + ")")
		return
	}
	w.WriteString("`" + code + "`")
}

// Math writes LaTeX math wrapped in a call to fn (a function of the
// document template). Display math is written as a block.
func (w *Writer) Math(fn, tex string, display bool) {
	if display {
		w.StartLine("")
		w.WriteString("#" + fn + "(" + rawArg("$$\n"+strings.Trim(tex, "\n")+"\n$$") + ")\n\n")
		return
	}
	w.WriteString("#" + fn + "(" + rawArg(tex) + ")")
}

// rawArg makes a raw-text argument; raw text cannot contain its own
// delimiter, so we fall back to a string in this case.
func rawArg(s string) string {
	if strings.Contains(s, "`") {
		return Quote(s)
	}
	return "`" + s + "`"
}

func longestRun(s string, c byte) int {
	n, longest := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			n++
			if n > longest {
				longest = n
			}
		} else {
			n = 0
		}
	}
	return longest
}

// --- Miscellaneous ---------------------------------------------------------

// ThematicBreak writes a horizontal rule.
func (w *Writer) ThematicBreak() {
	w.StartLine("#line(length: 100%)\n\n")
}

// Footnote writes a footnote with pre-rendered body markup.
func (w *Writer) Footnote(body string) {
	w.WriteString("#footnote[" + body + "]")
}
