package html

import (
	"strings"

	"github.com/npillmayer/nbtypst/engine/typst"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind classifies HTML nodes by the way they are rendered. Every node
// maps to exactly one Kind, including nodes the renderer cannot express
// in Typst (KindOpaque, KindUnsupported).
type Kind uint8

const (
	KindIgnore      Kind = iota // comments, doctype, document metadata
	KindDocument                // document node, <html>, <body>
	KindText                    // character data
	KindTransparent             // inline element without markup of its own, e.g. <span>
	KindParagraph               // <p>
	KindBlock                   // <div>, <section>, …
	KindHeading                 // <h1> … <h6>
	KindBlockquote              // <blockquote>
	KindStrong                  // <b>, <strong>
	KindEmphasis                // <i>, <em>, <cite>
	KindStrike                  // <s>, <del>, <strike>
	KindUnderline               // <u>, <ins>
	KindHighlight               // <mark>
	KindSub                     // <sub>
	KindSup                     // <sup>
	KindInlineQuote             // <q>
	KindBreak                   // <br>
	KindRule                    // <hr>
	KindLink                    // <a>
	KindImage                   // <img>
	KindList                    // <ol>, <ul>, <menu>
	KindListItem                // <li>
	KindTerms                   // <dl>
	KindTerm                    // <dt>
	KindTermDesc                // <dd>
	KindTable                   // <table>
	KindPre                     // <pre>
	KindCode                    // <code>, <kbd>, <samp>, <tt>
	KindCheckbox                // <input type="checkbox">
	KindOpaque                  // elements whose content cannot be rendered, e.g. <script>
	KindUnsupported             // any other element
	kindCount
)

var kindNames = [...]string{
	"Ignore", "Document", "Text", "Transparent", "Paragraph", "Block", "Heading",
	"Blockquote", "Strong", "Emphasis", "Strike", "Underline", "Highlight", "Sub",
	"Sup", "InlineQuote", "Break", "Rule", "Link", "Image", "List", "ListItem",
	"Terms", "Term", "TermDesc", "Table", "Pre", "Code", "Checkbox", "Opaque",
	"Unsupported",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind?"
}

// Inline returns true for kinds which participate in an inline formatting
// context, i.e. which may share a line with adjacent text. Unknown elements
// are inline, as in CSS.
func (k Kind) Inline() bool {
	switch k {
	case KindText, KindTransparent, KindStrong, KindEmphasis, KindStrike,
		KindUnderline, KindHighlight, KindSub, KindSup, KindInlineQuote,
		KindBreak, KindLink, KindImage, KindCode, KindCheckbox, KindUnsupported:
		return true
	}
	return false
}

var kindOfAtom = map[atom.Atom]Kind{
	atom.Html: KindDocument, atom.Body: KindDocument,
	atom.Head: KindIgnore, atom.Title: KindIgnore, atom.Meta: KindIgnore,
	atom.Link: KindIgnore, atom.Base: KindIgnore, atom.Wbr: KindIgnore,
	//
	atom.P: KindParagraph, atom.Figcaption: KindParagraph, atom.Summary: KindParagraph,
	atom.Div: KindBlock, atom.Section: KindBlock, atom.Header: KindBlock,
	atom.Footer: KindBlock, atom.Article: KindBlock, atom.Main: KindBlock,
	atom.Nav: KindBlock, atom.Aside: KindBlock, atom.Figure: KindBlock,
	atom.Details: KindBlock, atom.Address: KindBlock, atom.Center: KindBlock,
	atom.Hgroup: KindBlock, atom.Fieldset: KindBlock, atom.Form: KindBlock,
	atom.H1: KindHeading, atom.H2: KindHeading, atom.H3: KindHeading,
	atom.H4: KindHeading, atom.H5: KindHeading, atom.H6: KindHeading,
	atom.Blockquote: KindBlockquote,
	//
	atom.B: KindStrong, atom.Strong: KindStrong,
	atom.I: KindEmphasis, atom.Em: KindEmphasis, atom.Cite: KindEmphasis,
	atom.Var: KindEmphasis, atom.Dfn: KindEmphasis,
	atom.S: KindStrike, atom.Del: KindStrike, atom.Strike: KindStrike,
	atom.U: KindUnderline, atom.Ins: KindUnderline,
	atom.Mark: KindHighlight, atom.Sub: KindSub, atom.Sup: KindSup,
	atom.Q: KindInlineQuote,
	atom.Span: KindTransparent, atom.Abbr: KindTransparent, atom.Small: KindTransparent,
	atom.Big: KindTransparent, atom.Font: KindTransparent, atom.Label: KindTransparent,
	atom.Time: KindTransparent, atom.Data: KindTransparent, atom.Bdi: KindTransparent,
	atom.Bdo: KindTransparent, atom.Nobr: KindTransparent, atom.Acronym: KindTransparent,
	atom.Picture: KindTransparent,
	// table parts are handled by the table emitter; stray ones render their content
	atom.Thead: KindTransparent, atom.Tbody: KindTransparent, atom.Tfoot: KindTransparent,
	atom.Tr: KindTransparent, atom.Th: KindTransparent, atom.Td: KindTransparent,
	atom.Caption: KindTransparent,
	//
	atom.Br: KindBreak, atom.Hr: KindRule,
	atom.A: KindLink, atom.Img: KindImage,
	atom.Ol: KindList, atom.Ul: KindList, atom.Menu: KindList, atom.Li: KindListItem,
	atom.Dl: KindTerms, atom.Dt: KindTerm, atom.Dd: KindTermDesc,
	atom.Table: KindTable,
	atom.Pre: KindPre, atom.Code: KindCode, atom.Kbd: KindCode, atom.Samp: KindCode,
	atom.Tt: KindCode,
	//
	atom.Script: KindOpaque, atom.Style: KindOpaque, atom.Noscript: KindOpaque,
	atom.Template: KindOpaque, atom.Iframe: KindOpaque, atom.Object: KindOpaque,
	atom.Embed: KindOpaque, atom.Canvas: KindOpaque, atom.Svg: KindOpaque,
	atom.Math: KindOpaque, atom.Video: KindOpaque, atom.Audio: KindOpaque,
	atom.Select: KindOpaque, atom.Textarea: KindOpaque, atom.Button: KindOpaque,
	atom.Map: KindOpaque, atom.Area: KindOpaque, atom.Source: KindOpaque,
	atom.Track: KindOpaque, atom.Colgroup: KindOpaque, atom.Col: KindOpaque,
}

// Classify returns the Kind of a node.
func Classify(n *html.Node) Kind {
	switch n.Type {
	case html.DocumentNode:
		return KindDocument
	case html.TextNode:
		return KindText
	case html.ElementNode:
		// below
	default:
		return KindIgnore
	}
	if n.DataAtom == atom.Input {
		if t, _ := attr(n, "type"); strings.EqualFold(t, "checkbox") {
			return KindCheckbox
		}
		return KindOpaque
	}
	if k, ok := kindOfAtom[n.DataAtom]; ok {
		return k
	}
	return KindUnsupported
}

// tagOf returns the tag a node pushes onto the ancestor stack.
func tagOf(n *html.Node, k Kind) typst.Tag {
	switch k {
	case KindList:
		switch n.DataAtom {
		case atom.Ol:
			return typst.TagOrdered
		case atom.Menu:
			return typst.TagMenu
		}
		return typst.TagUnordered
	case KindListItem:
		return typst.TagItem
	case KindBlockquote:
		return typst.TagQuote
	case KindHeading:
		return typst.TagHeading
	case KindLink:
		return typst.TagLink
	case KindTable:
		return typst.TagTable
	}
	return typst.TagNone
}

// headingLevel returns 1…6 for <h1>…<h6>.
func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	}
	return 6
}
