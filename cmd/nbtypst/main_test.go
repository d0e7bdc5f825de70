package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	conf, err := loadConfig("")
	require.NoError(t, err)
	assert.Empty(t, conf)
	//
	path := filepath.Join(t.TempDir(), "nbtypst.yaml")
	yml := `render:
  math-inline: mitex
  anchors: false
media:
  download: false
app-key: nbtypst-test
trace:
  nbtypst.pdf: Debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	conf, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mitex", conf.GetString("render.math-inline"))
	assert.False(t, conf.GetBool("render.anchors"))
	assert.True(t, conf.IsSet("render.anchors"))
	assert.Equal(t, "nbtypst-test", conf.GetString("app-key"))
	assert.Equal(t, "Debug", conf.GetString("trace.nbtypst.pdf"))
	//
	params := parameters.FromConfig(conf)
	assert.Equal(t, "mitex", params.S(parameters.P_MATHINLINE))
	assert.False(t, params.B(parameters.P_ANCHORS))
	assert.False(t, params.B(parameters.P_DOWNLOAD))
	//
	configureTracing(conf, "Info")
	assert.Equal(t, "go", conf.GetString("tracing.adapter"))
	assert.Equal(t, "Debug", conf.GetString("trace.nbtypst.pdf"))
	assert.Equal(t, "Info", conf.GetString("trace.nbtypst.cli"))
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, core.EMISSING, core.Code(err))
	//
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render: [x"), 0644))
	_, err = loadConfig(path)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func newJob(t *testing.T, name, content string) *job {
	t.Helper()
	input := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))
	params := parameters.NewRegisters()
	params.Push(parameters.P_DOWNLOAD, false)
	return &job{input: input, params: params}
}

func TestConvertMarkdownFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.cli")
	defer teardown()
	//
	j := newJob(t, "notes.md", "# Hello\n\nSome *text*.\n")
	sidecar := "authors:\n  - name: Ada\ndate: 2024-03-01\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(j.input), "notes.yaml"), []byte(sidecar), 0644))
	rep, err := j.run(context.Background())
	require.NoError(t, err)
	//
	dir := filepath.Dir(j.input)
	assert.Equal(t, filepath.Join(dir, "notes.typ"), rep.output)
	b, err := os.ReadFile(rep.output)
	require.NoError(t, err)
	want := `#import "template.typ": *

#show: project.with(
  title: "Hello",
  authors: ((name: "Ada", email: none, affiliation: none), ),
  date: datetime(year: 2024, month: 3, day: 1).display("[year]年[month padding:space]月[day padding:space]日"),
)

= Hello <hello>
Some _text_.
`
	assert.Equal(t, want, string(b))
	assert.Equal(t, int64(len(want)), rep.size)
	assert.Equal(t, filepath.Join(dir, "template.typ"), rep.template)
	assert.FileExists(t, rep.template)
	assert.Equal(t, 0, rep.diagnostics.Len())
	//
	rep, err = j.run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rep.template, "existing template must not be overwritten")
}

func TestSidecarTitleOverridesHeading(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.cli")
	defer teardown()
	//
	j := newJob(t, "notes.md", "# Heading Title\n\nBody.\n")
	sidecar := "title: Sidecar Title\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(j.input), "notes.yaml"), []byte(sidecar), 0644))
	rep, err := j.run(context.Background())
	require.NoError(t, err)
	b, err := os.ReadFile(rep.output)
	require.NoError(t, err)
	assert.Contains(t, string(b), `  title: "Sidecar Title",`)
	assert.NotContains(t, string(b), `title: "Heading Title"`)
	assert.Contains(t, string(b), "= Heading Title <heading-title>")
}

func TestConvertHTMLFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.cli")
	defer teardown()
	//
	j := newJob(t, "page.html", `<html><head><title>Page</title><script>x()</script></head>
<body><p>Hi <b>there</b></p></body></html>`)
	j.output = filepath.Join(filepath.Dir(j.input), "out", "page.typ")
	require.NoError(t, os.MkdirAll(filepath.Dir(j.output), 0755))
	rep, err := j.run(context.Background())
	require.NoError(t, err)
	b, err := os.ReadFile(rep.output)
	require.NoError(t, err)
	assert.Contains(t, string(b), `  title: "Page",`)
	assert.Contains(t, string(b), "Hi *there*")
	assert.NotContains(t, string(b), "x()")
	assert.FileExists(t, filepath.Join(filepath.Dir(j.output), "template.typ"))
}

func TestConvertNotebookFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.cli")
	defer teardown()
	//
	nb, err := os.ReadFile(filepath.Join("..", "..", "notebook", "testdata", "sample.ipynb"))
	require.NoError(t, err)
	j := newJob(t, "sample.ipynb", string(nb))
	rep, err := j.run(context.Background())
	require.NoError(t, err)
	b, err := os.ReadFile(rep.output)
	require.NoError(t, err)
	assert.Contains(t, string(b), `  title: "Sample",`)
	assert.Contains(t, string(b), "```python\nprint(1)\n1 + 1\n```")
	assert.Equal(t, 1, rep.media)
}

func TestUnsupportedInput(t *testing.T) {
	j := newJob(t, "data.csv", "a,b\n")
	_, err := j.run(context.Background())
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
}
