/*
Package markdown renders Markdown into Typst markup.

Markdown is parsed with goldmark (GitHub flavored Markdown, footnotes and
LaTeX math in dollar signs) and converted into a small syntax tree of its
own, with one node type per kind of Markdown element. The renderer walks
this tree using the emitters of package engine/typst, the same ones the
HTML renderer uses. Raw HTML inside Markdown is handed to the HTML renderer.

Rendering happens in two phases. The first phase collects link reference
definitions and footnote definitions and renders the footnote bodies; the
second phase renders the document, looking up references in the tables
built before. Every render invocation owns its tables.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package markdown

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nbtypst.markdown'.
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.markdown")
}
