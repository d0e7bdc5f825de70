package html

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/dimen"
	"github.com/npillmayer/nbtypst/core/option"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/nbtypst/engine/typst"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Renderer renders HTML node trees. A Renderer holds configuration only
// and may be used for any number of render invocations, concurrently.
type Renderer struct {
	resolver typst.MediaResolver
	params   *parameters.Registers
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

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		resolver: typst.IdentityResolver{},
		params:   parameters.NewRegisters(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Params returns the rendering parameters in use.
func (r *Renderer) Params() *parameters.Registers {
	return r.params
}

// Render renders the tree below root. The returned error is non-nil only if
// there is nothing to render; problems within the tree are reported as
// diagnostics of the result.
func (r *Renderer) Render(root *html.Node) (*typst.Result, error) {
	if root == nil {
		return nil, core.Error(core.EMISSING, "no HTML node to render")
	}
	w := typst.NewWriter()
	wk := &walker{Renderer: r, w: w, anc: &typst.Ancestors{}, diag: &typst.Diagnostics{}}
	wk.walk(root)
	if wk.anc.Depth() != 0 {
		tracer().Errorf("ancestor stack not empty after rendering: %s", wk.anc)
	}
	return &typst.Result{Markup: w.String(), Diagnostics: *wk.diag}, nil
}

// RenderInto renders nodes into an existing writer, sharing ancestor
// context and diagnostics with the caller. This is used for HTML embedded
// in other documents, e.g. Markdown.
func (r *Renderer) RenderInto(w *typst.Writer, anc *typst.Ancestors, diag *typst.Diagnostics, nodes ...*html.Node) {
	wk := &walker{Renderer: r, w: w, anc: anc, diag: diag}
	for _, n := range nodes {
		wk.walk(n)
	}
}

// RenderString parses s as an HTML document and renders it with the
// given options.
func RenderString(s string, opts ...Option) (*typst.Result, error) {
	r := New(opts...)
	root, err := Parse(strings.NewReader(s), r.params.S(parameters.P_PRUNE))
	if err != nil {
		return nil, err
	}
	return r.Render(root)
}

// --- Walker ----------------------------------------------------------------

// walker holds the state of a single render invocation.
type walker struct {
	*Renderer
	w    *typst.Writer
	anc  *typst.Ancestors
	diag *typst.Diagnostics
}

func (wk *walker) walk(n *html.Node) {
	kind := Classify(n)
	switch kind {
	case KindIgnore:
		// nothing to render
	case KindDocument, KindTransparent:
		wk.children(n, typst.TagNone)
	case KindText:
		wk.text(n)
	case KindParagraph:
		wk.children(n, typst.TagNone)
		wk.w.Paragraph()
	case KindBlock:
		wk.w.WriteString("\n\n")
		wk.children(n, typst.TagNone)
		wk.w.WriteString("\n\n")
	case KindHeading:
		wk.heading(n)
	case KindBlockquote:
		m := wk.w.OpenQuote()
		wk.children(n, typst.TagQuote)
		wk.w.CloseQuote(m)
	case KindStrong:
		wk.wrap(n, typst.Strong)
	case KindEmphasis:
		wk.wrap(n, typst.Emphasis)
	case KindStrike:
		wk.wrap(n, typst.Strike)
	case KindUnderline:
		wk.wrap(n, typst.Underline)
	case KindHighlight:
		wk.wrap(n, typst.Highlight)
	case KindSub:
		wk.wrap(n, typst.Subscript)
	case KindSup:
		wk.wrap(n, typst.Supscript)
	case KindInlineQuote:
		wk.wrap(n, typst.InlineQ)
	case KindBreak:
		wk.w.WriteString(typst.HardBreak)
	case KindRule:
		wk.w.ThematicBreak()
	case KindLink:
		wk.link(n)
	case KindImage:
		wk.image(n)
	case KindList:
		wk.w.OpenList(!wk.anc.InList())
		wk.children(n, tagOf(n, kind))
		wk.w.CloseList()
	case KindListItem:
		item := wk.w.OpenItem(wk.anc)
		wk.children(n, typst.TagItem)
		item.Close()
	case KindTerms:
		wk.w.WriteString("\n\n")
		wk.children(n, typst.TagNone)
		wk.w.WriteString("\n\n")
	case KindTerm:
		wk.w.StartLine("/ ")
		wk.children(n, typst.TagNone)
		wk.w.WriteString(": ")
	case KindTermDesc:
		wk.children(n, typst.TagNone)
		wk.w.WriteString("\n")
	case KindTable:
		wk.table(n)
	case KindPre:
		wk.pre(n)
	case KindCode:
		wk.w.InlineCode(innerText(n))
	case KindCheckbox:
		if _, checked := attr(n, "checked"); checked {
			wk.w.WriteString("☑ ")
		} else {
			wk.w.WriteString("☐ ")
		}
	case KindOpaque:
		wk.diag.Report(core.EUNSUPPORTED, "element <%s> cannot be rendered, dropped", n.Data)
	case KindUnsupported:
		wk.diag.Report(core.EUNSUPPORTED, "element <%s> not supported, rendering its content", n.Data)
		wk.children(n, typst.TagNone)
	default:
		panic("html renderer: unhandled node kind " + kind.String())
	}
}

func (wk *walker) children(n *html.Node, tag typst.Tag) {
	defer wk.anc.Enter(tag)()
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		wk.walk(c)
	}
}

func (wk *walker) text(n *html.Node) {
	s := n.Data
	if wk.params.B(parameters.P_NORMALIZE) {
		s = norm.NFC.String(s)
	}
	wk.w.Text(s, isInline(prevSibling(n)), isInline(nextSibling(n)))
}

func (wk *walker) heading(n *html.Node) {
	wk.w.OpenHeading(headingLevel(n))
	wk.children(n, typst.TagHeading)
	id := option.String()
	if wk.params.B(parameters.P_ANCHORS) {
		if v, ok := attr(n, "id"); ok {
			id = option.SomeString(strings.TrimSpace(v))
		}
	}
	wk.w.CloseHeading(id, wk.diag)
}

// wrap renders the children of n enclosed in inline markup. White space
// at the edges of the content is moved outside of the markup.
func (wk *walker) wrap(n *html.Node, wrapper [2]string) {
	lead, trail := hoist(n)
	wk.w.Open(wrapper, lead)
	wk.children(n, typst.TagNone)
	wk.w.Close(wrapper, trail)
}

func (wk *walker) link(n *html.Node) {
	href, ok := attr(n, "href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		wk.children(n, typst.TagLink)
		return
	}
	if strings.TrimSpace(innerText(n)) == "" && !hasElements(n) {
		wk.w.BareLink(href)
		return
	}
	lead, trail := hoist(n)
	if lead {
		wk.w.WriteString(" ")
	}
	wk.w.OpenLink(href)
	wk.children(n, typst.TagLink)
	wk.w.CloseLink()
	if trail {
		wk.w.WriteString(" ")
	}
}

func (wk *walker) image(n *html.Node) {
	src, _ := attr(n, "src")
	src = strings.TrimSpace(src)
	if src == "" {
		wk.diag.Report(core.EMISSING, "image without source")
		return
	}
	path, err := wk.resolver.Resolve(src)
	if err != nil {
		wk.diag.Add(core.WrapError(err, core.Code(err), "cannot resolve image %q", src))
		return
	}
	alt := option.String()
	if v, ok := attr(n, "alt"); ok {
		alt = option.SomeString(strings.TrimSpace(v))
	}
	width := wk.params.S(parameters.P_IMAGEWIDTH)
	v, ok := styleProperty(n, "width")
	if !ok {
		v, ok = attr(n, "width")
	}
	if ok {
		if l, err := dimen.TypstLength(v); err == nil {
			width = l
		} else {
			tracer().Infof("ignoring image width %q: %v", v, err)
		}
	}
	wk.w.Figure(path, alt, width)
}

var langClass = regexp.MustCompile(`(?:^|\s)(?:language|lang)-([\w+#.-]+)`)

func (wk *walker) pre(n *html.Node) {
	lang := ""
	code := n
	if c := firstElement(n); c != nil && c.DataAtom == atom.Code {
		code = c
	}
	for _, x := range []*html.Node{code, n} {
		if class, ok := attr(x, "class"); ok {
			if m := langClass.FindStringSubmatch(class); m != nil {
				lang = m[1]
				break
			}
		}
	}
	if lang == "" {
		lang = wk.params.S(parameters.P_CODELANG)
	}
	body := strings.TrimPrefix(innerText(code), "\n")
	wk.w.CodeBlock(lang, body)
}

// --- Tables ----------------------------------------------------------------

func (wk *walker) table(n *html.Node) {
	defer wk.anc.Enter(typst.TagTable)()
	tbl := &typst.Table{}
	var rows []*html.Node
	var caption *html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				collect(c)
			case atom.Caption:
				caption = c
			}
		}
	}
	collect(n)
	for i, tr := range rows {
		var cells []string
		for td := tr.FirstChild; td != nil; td = td.NextSibling {
			if td.DataAtom != atom.Td && td.DataAtom != atom.Th {
				continue
			}
			if i == 0 {
				tbl.Align = append(tbl.Align, cellAlignment(td))
			}
			cells = append(cells, wk.renderDetached(td))
		}
		tbl.AddRow(cells)
	}
	if caption != nil {
		tbl.Caption = wk.renderDetached(caption)
	}
	if !tbl.Emit(wk.w) {
		wk.diag.Report(core.EMALFORMED, "table without rows, dropped")
	}
}

// renderDetached renders the children of n into a separate writer and
// returns the markup.
func (wk *walker) renderDetached(n *html.Node) string {
	saved := wk.w
	wk.w = typst.NewWriter()
	wk.children(n, typst.TagNone)
	out := wk.w.String()
	wk.w = saved
	return out
}

func cellAlignment(td *html.Node) typst.Alignment {
	if v, ok := attr(td, "align"); ok {
		return typst.ParseAlignment(v)
	}
	if v, ok := styleProperty(td, "text-align"); ok {
		return typst.ParseAlignment(v)
	}
	return typst.AlignAuto
}

// --- Siblings and white space ----------------------------------------------

// prevSibling returns the previous sibling, skipping comments.
func prevSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type != html.CommentNode {
			return s
		}
	}
	return nil
}

// nextSibling returns the next sibling, skipping comments.
func nextSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.CommentNode {
			return s
		}
	}
	return nil
}

func isInline(n *html.Node) bool {
	return n != nil && Classify(n).Inline()
}

func firstElement(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return nil
		}
	}
	return nil
}

func hasElements(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// hoist decides whether white space at the start or end of an inline
// element's content has to be emitted outside of its markup. This is the
// case if the content starts (ends) with white space, the element has an
// inline neighbour on that side, and the neighbour does not already end
// (start) with white space.
func hoist(n *html.Node) (lead, trail bool) {
	if edgeSpace(n, true) {
		if p := prevSibling(n); isInline(p) && !endsWithSpace(p, false) {
			lead = true
		}
	}
	if edgeSpace(n, false) {
		if s := nextSibling(n); isInline(s) && !endsWithSpace(s, true) {
			trail = true
		}
	}
	return
}

// endsWithSpace checks a neighbour for white space at its start (first=true)
// or end.
func endsWithSpace(n *html.Node, first bool) bool {
	if n.Type == html.TextNode {
		return n.Data != "" && edgeRune(n.Data, first)
	}
	return edgeSpace(n, first)
}

// edgeSpace returns true if the first (or last) text inside n starts (ends)
// with white space.
func edgeSpace(n *html.Node, first bool) bool {
	c := n.LastChild
	if first {
		c = n.FirstChild
	}
	for c != nil {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				return edgeRune(c.Data, first)
			}
		case html.ElementNode:
			return edgeSpace(c, first)
		}
		if first {
			c = c.NextSibling
		} else {
			c = c.PrevSibling
		}
	}
	return false
}

func edgeRune(s string, first bool) bool {
	var r rune
	if first {
		r, _ = utf8.DecodeRuneInString(s)
	} else {
		r, _ = utf8.DecodeLastRuneInString(s)
	}
	return unicode.IsSpace(r)
}
