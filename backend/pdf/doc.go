/*
Package pdf produces PDF output for converted documents by calling the
Typst compiler.

The compiler is an external program. Its location is taken from
configuration key `typst.binary`, defaulting to "typst" on the search path.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pdf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'nbtypst.pdf'.
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.pdf")
}
