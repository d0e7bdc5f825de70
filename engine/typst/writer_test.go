package typst

import (
	"testing"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/option"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestWriterIndentsContinuationLines(t *testing.T) {
	w := NewWriter()
	w.WriteString("- ")
	old := w.Indent("  ")
	w.WriteString("A" + HardBreak + "B\n\nC")
	w.Indent(old)
	w.WriteString("\nD")
	assert.Equal(t, "- A\\\n  B\n\n  C\nD", w.String())
}

func TestWriterTrimNewlinesStopsAtMark(t *testing.T) {
	w := NewWriter()
	w.WriteString("x\n")
	m := w.Mark()
	w.WriteString("\n\n")
	w.TrimNewlines(m)
	assert.Equal(t, "x\n", w.Since(Mark{}))
	w.WriteString("y\n\n")
	w.TrimNewlines(m)
	assert.Equal(t, "y", w.Since(m))
}

func TestWriterTextSpacing(t *testing.T) {
	w := NewWriter()
	w.Text("  some rich text like ", false, true)
	w.Open(Strong, false)
	w.Text("bold", false, false)
	w.Close(Strong, false)
	w.Text(", ", true, true)
	w.Text("   ", true, true)
	w.Text(" end ", true, false)
	assert.Equal(t, "some rich text like *bold*,   end", w.String())
}

func TestNestedItems(t *testing.T) {
	w := NewWriter()
	anc := &Ancestors{}
	anc.Push(TagUnordered)
	w.OpenList(true)
	outer := w.OpenItem(anc)
	w.WriteString("A")
	anc.Push(TagItem)
	anc.Push(TagOrdered)
	w.OpenList(false)
	inner := w.OpenItem(anc)
	w.WriteString("X")
	inner.Close()
	w.CloseList()
	anc.Pop()
	anc.Pop()
	outer.Close()
	w.CloseList()
	assert.Equal(t, "- A\n  + X", w.String())
}

func TestNumberedItem(t *testing.T) {
	w := NewWriter()
	anc := &Ancestors{}
	anc.Push(TagOrdered)
	w.OpenList(true)
	first := w.OpenNumberedItem(anc, 12)
	w.WriteString("twelve\nmore")
	first.Close()
	second := w.OpenItem(anc)
	w.WriteString("thirteen")
	second.Close()
	w.CloseList()
	assert.Equal(t, "12. twelve\n  more\n+ thirteen", w.String())
}

func TestQuoteNesting(t *testing.T) {
	w := NewWriter()
	m1 := w.OpenQuote()
	w.WriteString("A quote")
	m2 := w.OpenQuote()
	w.WriteString("within a quote")
	w.CloseQuote(m2)
	w.WriteString("with some more text")
	w.CloseQuote(m1)
	assert.Equal(t, "#quote(block: true)[\nA quote\n\n#quote(block: true)[\nwithin a quote\n]\n\nwith some more text\n]", w.String())
}

func TestFigure(t *testing.T) {
	w := NewWriter()
	w.Figure("asdf", option.SomeString("qwer"), "")
	assert.Equal(t, `#figure(caption: [qwer], image(alt: "qwer", "asdf"))`, w.String())
	//
	w = NewWriter()
	w.Figure(`asdf "zcxv" qwer`, option.SomeString("abc"), "")
	assert.Equal(t, `#figure(caption: [abc], image(alt: "abc", "asdf \"zcxv\" qwer"))`, w.String())
	//
	w = NewWriter()
	w.Figure("a.png", option.String(), "50%")
	assert.Equal(t, `#figure(caption: none, image("a.png", width: 50%))`, w.String())
	//
	w = NewWriter()
	w.Figure("a.png", option.SomeString(""), "")
	assert.Equal(t, `#figure(caption: none, image("a.png"))`, w.String())
}

func TestHeadingLabels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.typst")
	defer teardown()
	//
	var diag Diagnostics
	w := NewWriter()
	w.WriteString("text")
	w.OpenHeading(2)
	w.WriteString("Title")
	w.CloseHeading(option.SomeString("some-id"), &diag)
	assert.Equal(t, "text\n== Title <some-id>", w.String())
	//
	w = NewWriter()
	w.OpenHeading(9)
	w.WriteString("T")
	w.CloseHeading(option.SomeString("has space"), &diag)
	assert.Equal(t, "====== T", w.String())
	assert.Equal(t, 1, diag.Count(core.EINVALID))
}

func TestCodeAndMath(t *testing.T) {
	w := NewWriter()
	w.CodeBlock("python", "print(1)\n")
	assert.Equal(t, "```python\nprint(1)\n```", w.String())
	//
	w = NewWriter()
	w.CodeBlock("text", "a ``` fence")
	assert.Equal(t, "````text\na ``` fence\n````", w.String())
	//
	w = NewWriter()
	w.InlineCode("1 + 1 == 2")
	w.WriteString(" ")
	w.InlineCode("a`b")
	assert.Equal(t, "`1 + 1 == 2` #raw(\"a`b\")", w.String())
	//
	w = NewWriter()
	w.Math("mi", `x^2`, false)
	w.Math("mimath", `\sum_i i`, true)
	assert.Equal(t, "#mi(`x^2`)\n#mimath(`$$\n\\sum_i i\n$$`)", w.String())
}

func TestDiagnosticsErr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.typst")
	defer teardown()
	//
	var diag Diagnostics
	assert.NoError(t, diag.Err())
	diag.Report(core.EUNSUPPORTED, "element <%s>", "iframe")
	diag.Report(core.EMISSING, "image %q", "attachment:x.png")
	assert.Equal(t, 2, diag.Len())
	err := diag.Err()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "2 diagnostics")
	assert.Equal(t, 1, diag.Count(core.EMISSING))
}

func TestNewlines(t *testing.T) {
	w := NewWriter()
	w.Newlines(2)
	assert.Equal(t, 0, w.Len())
	w.WriteString("para\n\n")
	w.Newlines(2)
	w.Newlines(1)
	w.WriteString("next")
	assert.Equal(t, "para\n\nnext", w.String())
}
