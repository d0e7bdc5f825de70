package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heading(depth int, id string, nodes ...Node) *Heading {
	h := &Heading{Depth: depth, ID: id}
	h.Append(nodes...)
	return h
}

func emph(nodes ...Node) *Emphasis {
	e := &Emphasis{}
	e.Append(nodes...)
	return e
}

func TestParseTree(t *testing.T) {
	got := Parse([]byte("# Head\n\nsee *this* $y$"))
	want := document(
		heading(1, "head", textNode("Head")),
		para(textNode("see "), emph(textNode("this")), textNode(" "), &InlineMath{Value: "y"}),
	)
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(
		Document{}, Heading{}, Paragraph{}, Emphasis{}, Text{}, InlineMath{}, parent{},
	)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMath(t *testing.T) {
	doc := Parse([]byte("$$\na\nb\n$$\n"))
	require.Len(t, doc.Children(), 1)
	m, ok := doc.Children()[0].(*Math)
	require.True(t, ok, "expected display math, got %s", doc.Children()[0].Kind())
	assert.Equal(t, "a\nb", m.Value)
	//
	doc = Parse([]byte("$ x$ is no math\n"))
	require.Len(t, doc.Children(), 1)
	assert.Equal(t, "$ x$ is no math", TextContent(doc.Children()[0]))
}

func TestParseTaskList(t *testing.T) {
	doc := Parse([]byte("- [x] done\n- plain\n"))
	require.Len(t, doc.Children(), 1)
	list := doc.Children()[0].(*List)
	assert.True(t, list.Tight)
	require.Len(t, list.Children(), 2)
	first := list.Children()[0].(*ListItem)
	require.NotNil(t, first.Checked)
	assert.True(t, *first.Checked)
	assert.Nil(t, list.Children()[1].(*ListItem).Checked)
}

func TestParseDefinitions(t *testing.T) {
	doc := Parse([]byte("[a]: https://a.org \"The A\"\n\ntext\n"))
	var defs []*Definition
	Walk(doc, func(n Node) bool {
		if d, ok := n.(*Definition); ok {
			defs = append(defs, d)
		}
		return true
	})
	require.Len(t, defs, 1)
	assert.Equal(t, "https://a.org", defs[0].URL)
	assert.Equal(t, "The A", defs[0].Title)
}
