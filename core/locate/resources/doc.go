/*
Package resources resolves media and other resources for the converter.

Media referenced from documents (attachments of notebook cells, images on the
web, data URIs, local files) are resolved to local files which Typst is able
to include. As loading a resource may be a time-consuming task, some
functions in this package work in an async/await fashion by returning a
promise. Functions named

   Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed.

The package also carries the packaged Typst document template.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'nbtypst.resources'.
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.resources")
}
