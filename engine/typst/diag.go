package typst

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/npillmayer/nbtypst/core"
)

// Diagnostics collects non-fatal problems found while rendering, e.g.
// unsupported elements or images which could not be resolved. Rendering
// continues after a diagnostic has been reported; the affected node
// renders as empty output or as its bare content.
type Diagnostics struct {
	errs []error
}

// Report adds a diagnostic with an error code from package core.
func (d *Diagnostics) Report(code int, format string, v ...interface{}) {
	err := core.Error(code, format, v...)
	tracer().Errorf("%v", err)
	d.errs = append(d.errs, err)
}

// Add adds an error as a diagnostic. Errors without a code are treated
// as internal errors. A multierror adds each of its errors.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			d.Add(e)
		}
		return
	}
	if core.Code(err) == core.EINTERNAL {
		if _, ok := err.(core.AppError); !ok {
			err = core.WrapError(err, core.EINTERNAL, "%v", err)
		}
	}
	tracer().Errorf("%v", err)
	d.errs = append(d.errs, err)
}

// Merge appends all diagnostics of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.errs = append(d.errs, other.errs...)
}

// Len returns the number of diagnostics.
func (d Diagnostics) Len() int {
	return len(d.errs)
}

// All returns all diagnostics in order of occurrence.
func (d Diagnostics) All() []error {
	return d.errs
}

// Count returns the number of diagnostics with a given error code.
func (d Diagnostics) Count(code int) int {
	n := 0
	for _, err := range d.errs {
		if core.Code(err) == code {
			n++
		}
	}
	return n
}

// Err returns all diagnostics as a single error, or nil if there are none.
func (d Diagnostics) Err() error {
	if len(d.errs) == 0 {
		return nil
	}
	var merr *multierror.Error
	merr = multierror.Append(merr, d.errs...)
	merr.ErrorFormat = listFormat
	return merr
}

func listFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	s := fmt.Sprintf("%d diagnostics:", len(errs))
	for _, err := range errs {
		s += "\n  " + err.Error()
	}
	return s
}

// Result is the outcome of a render invocation.
type Result struct {
	Markup      string      // Typst markup, trimmed
	Diagnostics Diagnostics // problems encountered, if any
}

// MediaResolver resolves a media reference (URL, attachment reference,
// path) to a local path to embed in an image call. An error means the
// reference cannot be resolved and the image renders as nothing.
type MediaResolver interface {
	Resolve(ref string) (string, error)
}

// IdentityResolver embeds every reference as-is.
type IdentityResolver struct{}

// Resolve returns ref, or an error for an empty reference.
func (IdentityResolver) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", core.Error(core.EMISSING, "empty media reference")
	}
	return ref, nil
}
