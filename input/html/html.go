/*
Package html renders an HTML node tree into Typst markup.

The renderer walks a tree of golang.org/x/net/html nodes in document order.
Every element is classified into a Kind, which selects an emitter from
package engine/typst. Elements which cannot be rendered are either dropped
(scripts, embedded objects) or reduced to their content, and are always
reported as diagnostics.

	res, err := html.RenderString(`<h1 id="x">Title</h1>`)
	// res.Markup == "= Title <x>"

Parsing is done with goquery; elements matching a list of CSS selectors
(parameter P_PRUNE) are removed before rendering.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package html

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'nbtypst.html'.
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.html")
}

// Parse reads an HTML document and removes all elements matching the CSS
// selectors in prune (comma-separated, may be empty). It returns the
// document node.
func Parse(r io.Reader, prune string) (*html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		tracer().Errorf("unable to parse HTML: %v", err)
		return nil, core.WrapError(err, core.EINVALID, "cannot parse HTML input")
	}
	if err := Prune(doc, prune); err != nil {
		return nil, err
	}
	return doc.Nodes[0], nil
}

// Prune removes all elements of a document matching the CSS selectors
// in prune.
func Prune(doc *goquery.Document, prune string) error {
	if strings.TrimSpace(prune) == "" {
		return nil
	}
	sel, err := cascadia.Compile(prune)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "invalid prune selector %q", prune)
	}
	removed := doc.FindMatcher(sel).Remove()
	tracer().Debugf("pruned %d elements matching %q", removed.Length(), prune)
	return nil
}

// ParseFragment parses a snippet of HTML in the context of a <body>
// element, as it occurs embedded in Markdown. The nodes returned are
// children of a synthetic <body> node.
func ParseFragment(s string) (*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse HTML fragment")
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

// attr returns the value of an attribute, if present.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// innerText returns the text between the start and end tags of n.
func innerText(n *html.Node) string {
	var b strings.Builder
	var output func(*html.Node)
	output = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				b.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			output(c)
		}
	}
	output(n)
	return b.String()
}
