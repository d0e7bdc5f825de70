package markdown

import (
	"strings"

	"github.com/npillmayer/nbtypst/engine/typst"
)

// Kind is the type of a Markdown node.
type Kind uint8

const (
	KindDocument Kind = iota
	KindParagraph
	KindHeading
	KindThematicBreak
	KindBlockquote
	KindList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindCode
	KindInlineCode
	KindMath
	KindInlineMath
	KindHTML
	KindText
	KindEmphasis
	KindStrong
	KindDelete
	KindBreak
	KindLink
	KindImage
	KindLinkReference
	KindImageReference
	KindDefinition
	KindFootnoteDefinition
	KindFootnoteReference
	kindCount
)

var kindNames = [...]string{
	"Document", "Paragraph", "Heading", "ThematicBreak", "Blockquote", "List",
	"ListItem", "Table", "TableRow", "TableCell", "Code", "InlineCode", "Math",
	"InlineMath", "HTML", "Text", "Emphasis", "Strong", "Delete", "Break", "Link",
	"Image", "LinkReference", "ImageReference", "Definition", "FootnoteDefinition",
	"FootnoteReference",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind?"
}

// Node is a node of a Markdown syntax tree.
type Node interface {
	Kind() Kind
	Children() []Node
}

// parent is embedded by nodes which may have children.
type parent struct {
	children []Node
}

func (p *parent) Children() []Node {
	return p.children
}

// Append adds child nodes.
func (p *parent) Append(nodes ...Node) {
	p.children = append(p.children, nodes...)
}

// leaf is embedded by nodes without children.
type leaf struct{}

func (leaf) Children() []Node {
	return nil
}

// Document is the root of a Markdown tree.
type Document struct {
	parent
}

// Paragraph is a paragraph. Paragraphs of tight lists are tight and do
// not end with a blank line.
type Paragraph struct {
	parent
	Tight bool
}

// Heading is an ATX or setext heading.
type Heading struct {
	parent
	Depth int    // 1…6
	ID    string // anchor identifier, may be empty
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{ leaf }

// Blockquote is a block quote.
type Blockquote struct {
	parent
}

// List is an ordered or unordered list.
type List struct {
	parent
	Ordered bool
	Start   int
	Tight   bool
}

// ListItem is an item of a list. Checked is set for GFM task list items.
type ListItem struct {
	parent
	Checked *bool
}

// Table is a GFM table. Its rows are TableRow children, the first one
// being the header row.
type Table struct {
	parent
	Align []typst.Alignment
}

// TableRow is a table row.
type TableRow struct {
	parent
	Header bool
}

// TableCell is a table cell.
type TableCell struct {
	parent
}

// Code is a fenced or indented code block.
type Code struct {
	leaf
	Lang  string
	Value string
}

// InlineCode is a code span.
type InlineCode struct {
	leaf
	Value string
}

// Math is display math, delimited by `$$`.
type Math struct {
	leaf
	Value string
}

// InlineMath is inline math, delimited by `$`.
type InlineMath struct {
	leaf
	Value string
}

// HTML is raw HTML, either an HTML block or a single inline tag.
type HTML struct {
	leaf
	Value string
	Block bool
}

// Text is character data.
type Text struct {
	leaf
	Value string
}

// Emphasis is emphasized text.
type Emphasis struct {
	parent
}

// Strong is strongly emphasized text.
type Strong struct {
	parent
}

// Delete is struck-through text.
type Delete struct {
	parent
}

// Break is a hard line break.
type Break struct{ leaf }

// Link is an inline link or autolink.
type Link struct {
	parent
	URL   string
	Title string
}

// Image is an inline image.
type Image struct {
	leaf
	URL   string
	Alt   string
	Title string
}

// LinkReference is a link referring to a Definition by identifier.
type LinkReference struct {
	parent
	Identifier string
}

// ImageReference is an image referring to a Definition by identifier.
type ImageReference struct {
	leaf
	Identifier string
	Alt        string
}

// Definition is a link reference definition.
type Definition struct {
	leaf
	Identifier string
	URL        string
	Title      string
}

// FootnoteDefinition holds the content of a footnote.
type FootnoteDefinition struct {
	parent
	Identifier string
}

// FootnoteReference refers to a FootnoteDefinition by identifier.
type FootnoteReference struct {
	leaf
	Identifier string
}

func (*Document) Kind() Kind           { return KindDocument }
func (*Paragraph) Kind() Kind          { return KindParagraph }
func (*Heading) Kind() Kind            { return KindHeading }
func (*ThematicBreak) Kind() Kind      { return KindThematicBreak }
func (*Blockquote) Kind() Kind         { return KindBlockquote }
func (*List) Kind() Kind               { return KindList }
func (*ListItem) Kind() Kind           { return KindListItem }
func (*Table) Kind() Kind              { return KindTable }
func (*TableRow) Kind() Kind           { return KindTableRow }
func (*TableCell) Kind() Kind          { return KindTableCell }
func (*Code) Kind() Kind               { return KindCode }
func (*InlineCode) Kind() Kind         { return KindInlineCode }
func (*Math) Kind() Kind               { return KindMath }
func (*InlineMath) Kind() Kind         { return KindInlineMath }
func (*HTML) Kind() Kind               { return KindHTML }
func (*Text) Kind() Kind               { return KindText }
func (*Emphasis) Kind() Kind           { return KindEmphasis }
func (*Strong) Kind() Kind             { return KindStrong }
func (*Delete) Kind() Kind             { return KindDelete }
func (*Break) Kind() Kind              { return KindBreak }
func (*Link) Kind() Kind               { return KindLink }
func (*Image) Kind() Kind              { return KindImage }
func (*LinkReference) Kind() Kind      { return KindLinkReference }
func (*ImageReference) Kind() Kind     { return KindImageReference }
func (*Definition) Kind() Kind         { return KindDefinition }
func (*FootnoteDefinition) Kind() Kind { return KindFootnoteDefinition }
func (*FootnoteReference) Kind() Kind  { return KindFootnoteReference }

// IsInline returns true for phrasing content, i.e. nodes which share a
// line with adjacent text.
func IsInline(n Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case KindText, KindEmphasis, KindStrong, KindDelete, KindBreak, KindLink,
		KindImage, KindLinkReference, KindImageReference, KindInlineCode,
		KindInlineMath, KindFootnoteReference:
		return true
	case KindHTML:
		return !n.(*HTML).Block
	}
	return false
}

// Walk traverses a tree in document order, calling f for every node. If f
// returns false, the children of the node are skipped.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, f)
	}
}

// TextContent returns the concatenated text of all Text, InlineCode and
// InlineMath nodes below n.
func TextContent(n Node) string {
	var b strings.Builder
	Walk(n, func(n Node) bool {
		switch x := n.(type) {
		case *Text:
			b.WriteString(x.Value)
		case *InlineCode:
			b.WriteString(x.Value)
		case *InlineMath:
			b.WriteString(x.Value)
		}
		return true
	})
	return b.String()
}

// Title returns the text of the first top-level heading of a document,
// preferring level 1 headings. It returns "" if there is no heading.
func Title(doc *Document) string {
	var first *Heading
	for _, c := range doc.Children() {
		if h, ok := c.(*Heading); ok {
			if h.Depth == 1 {
				first = h
				break
			}
			if first == nil {
				first = h
			}
		}
	}
	if first == nil {
		return ""
	}
	return strings.Join(strings.Fields(TextContent(first)), " ")
}
