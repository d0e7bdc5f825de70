/*
Package notebook converts Jupyter notebooks into Typst documents.

Notebooks are read from nbformat 4 JSON. Every cell is converted on its
own: Markdown cells by the Markdown renderer, code cells into raw blocks
followed by their outputs, raw cells verbatim. Rich outputs are converted
according to the best media type they carry, images being written to the
media folder of the output document.

A document starts with a preface, which imports the document template and
sets title, authors and date. Metadata is taken from the notebook and from
an optional YAML file next to it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package notebook

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nbtypst.notebook'.
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.notebook")
}
