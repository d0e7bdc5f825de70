package typst

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestListMarkerNearestWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.typst")
	defer teardown()
	//
	anc := &Ancestors{}
	marker, level := anc.ListMarker()
	assert.Equal(t, "-", marker, "no list ancestor yields a bullet")
	assert.Equal(t, 0, level)
	//
	anc.Push(TagUnordered)
	anc.Push(TagItem)
	anc.Push(TagNone)
	anc.Push(TagOrdered)
	marker, level = anc.ListMarker()
	assert.Equal(t, "+", marker)
	assert.Equal(t, 1, level)
	//
	anc.Push(TagItem)
	anc.Push(TagMenu)
	marker, level = anc.ListMarker()
	assert.Equal(t, "-", marker)
	assert.Equal(t, 2, level)
	assert.Equal(t, "    ", anc.ListIndent())
}

func TestListIndentGrowsWithNesting(t *testing.T) {
	anc := &Ancestors{}
	for n := 0; n < 6; n++ {
		kind := TagUnordered
		if n%2 == 1 {
			kind = TagOrdered
		}
		anc.Push(kind)
		anc.Push(TagItem)
		marker, level := anc.ListMarker()
		assert.Equal(t, n, level)
		assert.Equal(t, strings.Repeat(" ", 2*n), anc.ListIndent())
		if kind == TagOrdered {
			assert.Equal(t, "+", marker)
		} else {
			assert.Equal(t, "-", marker)
		}
	}
}

func TestEnterBalances(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.typst")
	defer teardown()
	//
	anc := &Ancestors{}
	func() {
		defer anc.Enter(TagQuote)()
		assert.True(t, anc.Within(TagQuote))
		func() {
			defer anc.Enter(TagUnordered)()
			assert.True(t, anc.InList())
			assert.Equal(t, 2, anc.Depth())
			assert.Equal(t, "quote/ul", anc.String())
		}()
		assert.False(t, anc.InList())
	}()
	assert.Equal(t, 0, anc.Depth())
	assert.Equal(t, TagNone, anc.Pop(), "underflow is tolerated")
}
