package markdown

import (
	"bytes"

	"github.com/npillmayer/nbtypst/engine/typst"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// goldmark is safe for concurrent use once configured.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote, MathExtension),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Parse parses GitHub flavored Markdown, extended by footnotes and dollar
// math, into a Markdown tree. Link reference definitions are appended to
// the document as Definition nodes.
func Parse(source []byte) *Document {
	pc := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))
	cv := &converter{source: source, footnotes: make(map[int]string)}
	gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering {
			cv.footnotes[fn.Index] = string(fn.Ref)
		}
		return gast.WalkContinue, nil
	})
	doc := &Document{}
	cv.children(&doc.parent, root)
	for _, ref := range pc.References() {
		doc.Append(&Definition{
			Identifier: string(ref.Label()),
			URL:        string(unescape(ref.Destination())),
			Title:      string(ref.Title()),
		})
	}
	tracer().Debugf("parsed Markdown document with %d top-level nodes", len(doc.Children()))
	return doc
}

// converter maps goldmark nodes to Markdown tree nodes.
type converter struct {
	source    []byte
	footnotes map[int]string // footnote index → identifier
}

func (cv *converter) children(p *parent, n gast.Node) {
	var last *Text
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok {
			last = cv.text(p, t, last)
			continue
		}
		last = nil
		p.Append(cv.convert(c)...)
	}
}

// text appends the content of a text node. Adjacent text is merged into
// one node, but not across line ends, so that each source line is escaped
// on its own.
func (cv *converter) text(p *parent, t *gast.Text, last *Text) *Text {
	v := t.Value(cv.source)
	if !t.IsRaw() {
		v = unescape(v)
	}
	if last != nil {
		last.Value += string(v)
	} else {
		last = &Text{Value: string(v)}
		p.Append(last)
	}
	switch {
	case t.HardLineBreak():
		p.Append(&Break{})
		return nil
	case t.SoftLineBreak():
		last.Value += "\n"
		return nil
	}
	return last
}

func (cv *converter) convert(n gast.Node) []Node {
	switch x := n.(type) {
	case *gast.Document:
		doc := &Document{}
		cv.children(&doc.parent, x)
		return []Node{doc}
	case *gast.Paragraph:
		p := &Paragraph{}
		cv.children(&p.parent, x)
		return []Node{p}
	case *gast.TextBlock:
		p := &Paragraph{Tight: true}
		cv.children(&p.parent, x)
		return []Node{p}
	case *gast.Heading:
		h := &Heading{Depth: x.Level}
		if id, ok := x.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				h.ID = string(b)
			}
		}
		cv.children(&h.parent, x)
		return []Node{h}
	case *gast.ThematicBreak:
		return []Node{&ThematicBreak{}}
	case *gast.Blockquote:
		q := &Blockquote{}
		cv.children(&q.parent, x)
		return []Node{q}
	case *gast.List:
		l := &List{Ordered: x.IsOrdered(), Start: x.Start, Tight: x.IsTight}
		cv.children(&l.parent, x)
		return []Node{l}
	case *gast.ListItem:
		item := &ListItem{}
		if p := x.FirstChild(); p != nil {
			if cb, ok := p.FirstChild().(*extast.TaskCheckBox); ok {
				checked := cb.IsChecked
				item.Checked = &checked
			}
		}
		cv.children(&item.parent, x)
		return []Node{item}
	case *extast.TaskCheckBox:
		return nil // moved to the list item
	case *extast.Table:
		t := &Table{}
		for _, a := range x.Alignments {
			t.Align = append(t.Align, alignment(a))
		}
		cv.children(&t.parent, x)
		return []Node{t}
	case *extast.TableHeader:
		row := &TableRow{Header: true}
		cv.children(&row.parent, x)
		return []Node{row}
	case *extast.TableRow:
		row := &TableRow{}
		cv.children(&row.parent, x)
		return []Node{row}
	case *extast.TableCell:
		cell := &TableCell{}
		cv.children(&cell.parent, x)
		return []Node{cell}
	case *gast.FencedCodeBlock:
		return []Node{&Code{
			Lang:  string(x.Language(cv.source)),
			Value: string(x.Lines().Value(cv.source)),
		}}
	case *gast.CodeBlock:
		return []Node{&Code{Value: string(x.Lines().Value(cv.source))}}
	case *gast.CodeSpan:
		return []Node{&InlineCode{Value: cv.plain(x)}}
	case *mathBlock:
		return []Node{&Math{Value: string(x.value)}}
	case *mathInline:
		if x.display {
			return []Node{&Math{Value: string(x.value)}}
		}
		return []Node{&InlineMath{Value: string(x.value)}}
	case *gast.HTMLBlock:
		v := x.Lines().Value(cv.source)
		if x.HasClosure() {
			v = append(v, x.ClosureLine.Value(cv.source)...)
		}
		return []Node{&HTML{Value: string(v), Block: true}}
	case *gast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < x.Segments.Len(); i++ {
			seg := x.Segments.At(i)
			b.Write(seg.Value(cv.source))
		}
		return []Node{&HTML{Value: b.String()}}
	case *gast.String:
		v := x.Value
		if !x.IsRaw() && !x.IsCode() {
			v = unescape(v)
		}
		return []Node{&Text{Value: string(v)}}
	case *gast.Emphasis:
		var p *parent
		var node Node
		if x.Level >= 2 {
			s := &Strong{}
			p, node = &s.parent, s
		} else {
			e := &Emphasis{}
			p, node = &e.parent, e
		}
		cv.children(p, x)
		return []Node{node}
	case *extast.Strikethrough:
		d := &Delete{}
		cv.children(&d.parent, x)
		return []Node{d}
	case *gast.Link:
		l := &Link{URL: string(unescape(x.Destination)), Title: string(x.Title)}
		cv.children(&l.parent, x)
		return []Node{l}
	case *gast.AutoLink:
		return []Node{&Link{URL: string(x.URL(cv.source))}}
	case *gast.Image:
		return []Node{&Image{
			URL:   string(unescape(x.Destination)),
			Alt:   cv.plain(x),
			Title: string(x.Title),
		}}
	case *extast.FootnoteLink:
		return []Node{&FootnoteReference{Identifier: cv.footnotes[x.Index]}}
	case *extast.FootnoteBacklink:
		return nil
	case *extast.FootnoteList:
		var defs []Node
		for c := x.FirstChild(); c != nil; c = c.NextSibling() {
			defs = append(defs, cv.convert(c)...)
		}
		return defs
	case *extast.Footnote:
		def := &FootnoteDefinition{Identifier: string(x.Ref)}
		cv.children(&def.parent, x)
		return []Node{def}
	}
	tracer().Infof("Markdown node %s not supported, converting its content", n.Kind())
	p := &parent{}
	cv.children(p, n)
	return p.children
}

// plain returns the text content of a goldmark node.
func (cv *converter) plain(n gast.Node) string {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch x := c.(type) {
		case *gast.Text:
			if x.IsRaw() {
				b.Write(x.Value(cv.source))
			} else {
				b.Write(unescape(x.Value(cv.source)))
			}
			if x.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gast.String:
			b.Write(x.Value)
		default:
			b.WriteString(cv.plain(c))
		}
	}
	return b.String()
}

func unescape(v []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}

func alignment(a extast.Alignment) typst.Alignment {
	switch a {
	case extast.AlignLeft:
		return typst.AlignLeft
	case extast.AlignCenter:
		return typst.AlignCenter
	case extast.AlignRight:
		return typst.AlignRight
	}
	return typst.AlignAuto
}
