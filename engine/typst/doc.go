/*
Package typst is the shared core of the renderers: escaping, ancestor
context, the output writer and the emitters for Typst constructs.

Renderers for concrete input trees (package input/html for an HTML DOM,
package input/markdown for a Markdown AST) walk their trees in document
order and call into this package. Everything which has to stay consistent
between input formats lives here: which characters are escaped, how list
items find their marker and indentation, how figures, tables, quotes and
headings look in Typst.

Output is written to a Writer. A Writer is append-only; the only operation
looking back at prior output is trimming of trailing newlines, which list
items, quotes and footnote bodies use to close their content cleanly.

No state in this package is shared between render invocations. Every
invocation creates its own Ancestors, Writer and Diagnostics.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package typst

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nbtypst.typst'.
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.typst")
}
