/*
Package option implements optional values with pattern-matching.

Rendering frequently deals with values which may or may not be present,
e.g. an `alt` attribute of an image or the `id` of a heading. Go has no
sum types, so we represent these as option types with an in-band null
value and let clients match on them:

	caption, _ := alt.Match(option.Of{
		option.None: "none",
		"":          "none",
		option.Some: func(v interface{}) (interface{}, error) { … },
	})
*/
package option

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nbtypst.core'.
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.core")
}
