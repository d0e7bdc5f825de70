package markdown

import (
	"strings"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/option"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/nbtypst/engine/typst"
	nbhtml "github.com/npillmayer/nbtypst/input/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Renderer renders Markdown trees. A Renderer holds configuration only
// and may be used for any number of render invocations, concurrently.
type Renderer struct {
	resolver typst.MediaResolver
	params   *parameters.Registers
	html     *nbhtml.Renderer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithResolver sets the resolver for image sources. Without a resolver,
// sources are embedded as-is.
func WithResolver(resolver typst.MediaResolver) Option {
	return func(r *Renderer) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// WithParameters sets the rendering parameters.
func WithParameters(params *parameters.Registers) Option {
	return func(r *Renderer) {
		if params != nil {
			r.params = params
		}
	}
}

// New creates a renderer. Raw HTML is rendered by an HTML renderer sharing
// resolver and parameters.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		resolver: typst.IdentityResolver{},
		params:   parameters.NewRegisters(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.html = nbhtml.New(nbhtml.WithResolver(r.resolver), nbhtml.WithParameters(r.params))
	return r
}

// Render renders a Markdown document. The returned error is non-nil only
// if there is nothing to render; problems within the document are
// reported as diagnostics of the result.
func (r *Renderer) Render(doc *Document) (*typst.Result, error) {
	if doc == nil {
		return nil, core.Error(core.EMISSING, "no Markdown document to render")
	}
	st := r.newState()
	st.collect(doc)
	st.renderFootnotes()
	st.children(doc)
	st.closeInline(0)
	if st.anc.Depth() != 0 {
		tracer().Errorf("ancestor stack not empty after rendering: %s", st.anc)
	}
	return &typst.Result{Markup: st.w.String(), Diagnostics: *st.diag}, nil
}

// RenderSource parses and renders Markdown source.
func (r *Renderer) RenderSource(source []byte) (*typst.Result, error) {
	return r.Render(Parse(source))
}

// RenderString parses and renders Markdown with the given options.
func RenderString(source string, opts ...Option) (*typst.Result, error) {
	return New(opts...).RenderSource([]byte(source))
}

// --- Render state ----------------------------------------------------------

// renderState holds the state of a single render invocation.
type renderState struct {
	*Renderer
	w           *typst.Writer
	anc         *typst.Ancestors
	diag        *typst.Diagnostics
	definitions map[string]*Definition
	fnDefs      map[string]*FootnoteDefinition
	fnOrder     []*FootnoteDefinition
	footnotes   map[string]string // rendered footnote bodies
	rendering   map[string]bool   // footnotes currently being rendered
	frozen      bool              // footnote table complete
	inline      []openTag         // open inline HTML wrappers
}

type openTag struct {
	tag     atom.Atom
	wrapper [2]string
}

func (r *Renderer) newState() *renderState {
	return &renderState{
		Renderer:    r,
		w:           typst.NewWriter(),
		anc:         &typst.Ancestors{},
		diag:        &typst.Diagnostics{},
		definitions: make(map[string]*Definition),
		fnDefs:      make(map[string]*FootnoteDefinition),
		footnotes:   make(map[string]string),
		rendering:   make(map[string]bool),
	}
}

func (st *renderState) children(n Node) {
	cs := n.Children()
	for i, c := range cs {
		var prev, next Node
		if i > 0 {
			prev = cs[i-1]
		}
		if i+1 < len(cs) {
			next = cs[i+1]
		}
		st.walk(c, prev, next)
	}
}

func (st *renderState) within(tag typst.Tag, n Node) {
	defer st.anc.Enter(tag)()
	st.children(n)
}

// inlineContainer renders the children of a node holding phrasing content.
// Inline HTML wrappers left open inside are closed at its end.
func (st *renderState) inlineContainer(tag typst.Tag, n Node) {
	base := len(st.inline)
	st.within(tag, n)
	st.closeInline(base)
}

func (st *renderState) walk(n Node, prev, next Node) {
	switch x := n.(type) {
	case *Document:
		st.children(x)
	case *Paragraph:
		st.inlineContainer(typst.TagNone, x)
		if !x.Tight {
			st.w.Paragraph()
		}
	case *Heading:
		st.w.OpenHeading(x.Depth)
		st.inlineContainer(typst.TagHeading, x)
		id := option.String()
		if st.params.B(parameters.P_ANCHORS) && x.ID != "" {
			id = option.SomeString(x.ID)
		}
		st.w.CloseHeading(id, st.diag)
	case *ThematicBreak:
		st.w.ThematicBreak()
	case *Blockquote:
		m := st.w.OpenQuote()
		st.within(typst.TagQuote, x)
		st.w.CloseQuote(m)
	case *List:
		st.list(x)
	case *ListItem:
		st.item(x, 0)
	case *Table:
		st.table(x)
	case *TableRow, *TableCell:
		st.children(x) // outside of a table
	case *Code:
		lang := x.Lang
		if lang == "" {
			lang = st.params.S(parameters.P_CODELANG)
		}
		st.w.CodeBlock(lang, x.Value)
	case *InlineCode:
		st.w.InlineCode(x.Value)
	case *Math:
		st.w.Math(st.params.S(parameters.P_MATHBLOCK), x.Value, true)
	case *InlineMath:
		st.w.Math(st.params.S(parameters.P_MATHINLINE), x.Value, false)
	case *HTML:
		if x.Block {
			st.htmlBlock(x)
		} else {
			st.inlineHTML(x)
		}
	case *Text:
		v := x.Value
		if st.params.B(parameters.P_NORMALIZE) {
			v = norm.NFC.String(v)
		}
		if IsInline(next) && softBreak(v) && !st.anc.Within(typst.TagHeading) {
			st.w.Text(v, IsInline(prev), false)
			st.w.WriteString("\n")
			break
		}
		st.w.Text(v, IsInline(prev), IsInline(next))
	case *Emphasis:
		st.wrap(typst.Emphasis, x)
	case *Strong:
		st.wrap(typst.Strong, x)
	case *Delete:
		st.wrap(typst.Strike, x)
	case *Break:
		st.w.WriteString(typst.HardBreak)
	case *Link:
		st.link(x.URL, x)
	case *Image:
		st.image(x.URL, x.Alt)
	case *LinkReference:
		if def, ok := st.definitions[x.Identifier]; ok {
			st.link(def.URL, x)
		} else {
			st.diag.Report(core.EMALFORMED, "undefined link reference [%s]", x.Identifier)
		}
	case *ImageReference:
		if def, ok := st.definitions[x.Identifier]; ok {
			st.image(def.URL, x.Alt)
		} else {
			st.diag.Report(core.EMALFORMED, "undefined image reference [%s]", x.Identifier)
		}
	case *Definition, *FootnoteDefinition:
		// tables were built in phase 1
	case *FootnoteReference:
		body, ok := st.footnote(x.Identifier)
		if !ok {
			st.diag.Report(core.EMALFORMED, "undefined footnote [^%s]", x.Identifier)
		} else if body != "" {
			st.w.Footnote(body)
		}
	default:
		panic("markdown renderer: unhandled node kind " + n.Kind().String())
	}
}

func (st *renderState) wrap(wrapper [2]string, n Node) {
	st.w.Open(wrapper, false)
	st.children(n)
	st.w.Close(wrapper, false)
}

func (st *renderState) list(l *List) {
	tag := typst.TagUnordered
	if l.Ordered {
		tag = typst.TagOrdered
	}
	st.w.OpenList(!st.anc.InList())
	defer st.anc.Enter(tag)()
	items := l.Children()
	for i, item := range items {
		if li, ok := item.(*ListItem); ok && i == 0 && l.Ordered && l.Start > 1 {
			st.item(li, l.Start)
		} else {
			st.walk(item, nil, nil)
		}
		if !l.Tight && i+1 < len(items) {
			st.w.WriteString("\n")
		}
	}
	st.w.CloseList()
}

// item renders a list item. A number > 0 is written as an explicit item
// number.
func (st *renderState) item(li *ListItem, number int) {
	var item *typst.Item
	if number > 0 {
		item = st.w.OpenNumberedItem(st.anc, number)
	} else {
		item = st.w.OpenItem(st.anc)
	}
	if li.Checked != nil {
		if *li.Checked {
			st.w.WriteString("☑ ")
		} else {
			st.w.WriteString("☐ ")
		}
	}
	st.within(typst.TagItem, li)
	item.Close()
}

func (st *renderState) link(url string, n Node) {
	url = strings.TrimSpace(url)
	if url == "" {
		st.within(typst.TagLink, n)
		return
	}
	if len(n.Children()) == 0 {
		st.w.BareLink(url)
		return
	}
	st.w.OpenLink(url)
	st.within(typst.TagLink, n)
	st.w.CloseLink()
}

func (st *renderState) image(src, alt string) {
	path, err := st.resolver.Resolve(strings.TrimSpace(src))
	if err != nil {
		st.diag.Add(core.WrapError(err, core.Code(err), "cannot resolve image %q", src))
		return
	}
	st.w.Figure(path, option.SomeString(strings.TrimSpace(alt)), st.params.S(parameters.P_IMAGEWIDTH))
}

func (st *renderState) table(t *Table) {
	defer st.anc.Enter(typst.TagTable)()
	tbl := &typst.Table{Align: t.Align}
	for _, row := range t.Children() {
		var cells []string
		for _, cell := range row.Children() {
			cells = append(cells, st.renderDetached(cell))
		}
		tbl.AddRow(cells)
	}
	if !tbl.Emit(st.w) {
		st.diag.Report(core.EMALFORMED, "table without rows, dropped")
	}
}

// renderDetached renders the children of n into a separate writer and
// returns the markup.
func (st *renderState) renderDetached(n Node) string {
	saved := st.w
	st.w = typst.NewWriter()
	st.inlineContainer(typst.TagNone, n)
	out := st.w.String()
	st.w = saved
	return out
}

// --- Raw HTML --------------------------------------------------------------

var inlineWrappers = map[atom.Atom][2]string{
	atom.B: typst.Strong, atom.Strong: typst.Strong,
	atom.I: typst.Emphasis, atom.Em: typst.Emphasis,
	atom.U: typst.Underline, atom.Ins: typst.Underline,
	atom.S: typst.Strike, atom.Del: typst.Strike, atom.Strike: typst.Strike,
	atom.Mark: typst.Highlight, atom.Sub: typst.Subscript, atom.Sup: typst.Supscript,
	atom.Q: typst.InlineQ,
}

// inlineHTML handles a single inline HTML tag. Formatting tags open and
// close wrappers, matched by a stack of open tags. Void elements like
// images are rendered by the HTML renderer.
func (st *renderState) inlineHTML(x *HTML) {
	z := html.NewTokenizer(strings.NewReader(x.Value))
	tt := z.Next()
	tok := z.Token()
	switch tt {
	case html.StartTagToken, html.SelfClosingTagToken:
		if tok.DataAtom == atom.Br {
			st.w.WriteString(typst.HardBreak)
			return
		}
		if wrapper, ok := inlineWrappers[tok.DataAtom]; ok && tt == html.StartTagToken {
			st.w.Open(wrapper, false)
			st.inline = append(st.inline, openTag{tag: tok.DataAtom, wrapper: wrapper})
			return
		}
		switch tok.DataAtom {
		case atom.Img, atom.Input, atom.Wbr:
			st.renderHTML(x.Value)
			return
		}
		n := &html.Node{Type: html.ElementNode, Data: tok.Data, DataAtom: tok.DataAtom}
		if nbhtml.Classify(n) != nbhtml.KindTransparent {
			st.diag.Report(core.EUNSUPPORTED, "inline HTML tag <%s> not supported", tok.Data)
		}
	case html.EndTagToken:
		if _, ok := inlineWrappers[tok.DataAtom]; !ok {
			return
		}
		if k := len(st.inline); k > 0 && st.inline[k-1].tag == tok.DataAtom {
			st.w.Close(st.inline[k-1].wrapper, false)
			st.inline = st.inline[:k-1]
			return
		}
		st.diag.Report(core.EMALFORMED, "unmatched closing tag </%s>", tok.Data)
	case html.CommentToken:
		// ignore
	default:
		tracer().Debugf("ignoring inline HTML %q", x.Value)
	}
}

// closeInline closes inline HTML wrappers opened after position base of
// the stack of open tags.
func (st *renderState) closeInline(base int) {
	for len(st.inline) > base {
		k := len(st.inline) - 1
		st.w.Close(st.inline[k].wrapper, false)
		st.diag.Report(core.EMALFORMED, "unclosed tag <%s>", st.inline[k].tag)
		st.inline = st.inline[:k]
	}
}

func (st *renderState) htmlBlock(x *HTML) {
	st.w.StartLine("")
	st.renderHTML(x.Value)
	st.w.Paragraph()
}

func (st *renderState) renderHTML(s string) {
	frag, err := nbhtml.ParseFragment(s)
	if err != nil {
		st.diag.Add(err)
		return
	}
	st.html.RenderInto(st.w, st.anc, st.diag, frag)
}

// softBreak is true for text ending in a line end.
func softBreak(s string) bool {
	return strings.HasSuffix(strings.TrimRight(s, " \t"), "\n")
}
