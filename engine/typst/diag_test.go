package typst

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/stretchr/testify/assert"
)

func TestAddFlattensMultierror(t *testing.T) {
	var errs error
	errs = multierror.Append(errs, core.Error(core.EMISSING, "a"), core.Error(core.EINVALID, "b"))
	d := &Diagnostics{}
	d.Add(errs)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 1, d.Count(core.EMISSING))
	assert.Equal(t, 1, d.Count(core.EINVALID))
}

func TestReportTracesPercentSigns(t *testing.T) {
	trace := gologadapter.New()
	var out bytes.Buffer
	trace.SetOutput(&out)
	tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace { return trace }))
	defer tracing.SetTraceSelector(nil)
	//
	d := &Diagnostics{}
	d.Report(core.EMISSING, "cannot resolve image %s", "my%20image.png")
	d.Add(core.Error(core.EINVALID, "width %s", "50%"))
	assert.Contains(t, out.String(), "my%20image.png")
	assert.Contains(t, out.String(), "width 50%")
	assert.NotContains(t, out.String(), "%!")
}
