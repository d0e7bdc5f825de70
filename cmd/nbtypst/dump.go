package main

import (
	"github.com/k0kubun/pp"
	"github.com/npillmayer/nbtypst/input/markdown"
)

// outline is a printable view of a Markdown syntax tree.
type outline struct {
	Kind     string
	Text     string
	Children []outline
}

func outlineOf(n markdown.Node) outline {
	o := outline{Kind: n.Kind().String()}
	switch x := n.(type) {
	case *markdown.Text:
		o.Text = x.Value
	case *markdown.InlineCode:
		o.Text = x.Value
	case *markdown.Code:
		o.Text = x.Value
	case *markdown.Link:
		o.Text = x.URL
	case *markdown.Image:
		o.Text = x.URL
	}
	for _, c := range n.Children() {
		o.Children = append(o.Children, outlineOf(c))
	}
	return o
}

// dumpTree pretty-prints a Markdown syntax tree to stdout.
func dumpTree(doc *markdown.Document) {
	pp.Println(outlineOf(doc))
}
