package parameters

import (
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	regs := NewRegisters()
	assert.Equal(t, "text", regs.S(P_CODELANG))
	assert.Equal(t, "mi", regs.S(P_MATHINLINE))
	assert.True(t, regs.B(P_ANCHORS))
	assert.Equal(t, "P_MATHBLOCK", P_MATHBLOCK.String())
}

func TestFromConfig(t *testing.T) {
	conf := testconfig.Conf{
		"render.code-lang": "python",
		"render.anchors":   false,
	}
	regs := FromConfig(conf)
	assert.Equal(t, "python", regs.S(P_CODELANG))
	assert.False(t, regs.B(P_ANCHORS))
	assert.Equal(t, "mimath", regs.S(P_MATHBLOCK), "unset keys keep their defaults")
}

func TestGroups(t *testing.T) {
	regs := NewRegisters()
	regs.Begingroup()
	regs.Push(P_NBLANGUAGE, "julia")
	assert.Equal(t, "julia", regs.S(P_NBLANGUAGE))
	regs.Begingroup()
	regs.Push(P_CODELANG, "sh")
	assert.Equal(t, "julia", regs.S(P_NBLANGUAGE))
	assert.Equal(t, "sh", regs.S(P_CODELANG))
	regs.Endgroup()
	assert.Equal(t, "text", regs.S(P_CODELANG))
	regs.Endgroup()
	assert.Equal(t, "python", regs.S(P_NBLANGUAGE))
}

func TestClone(t *testing.T) {
	regs := NewRegisters()
	regs.Push(P_CODELANG, "go")
	regs.Begingroup()
	regs.Push(P_NBLANGUAGE, "julia")
	c := regs.Clone()
	regs.Endgroup()
	assert.Equal(t, "julia", c.S(P_NBLANGUAGE), "clone keeps grouped values")
	assert.Equal(t, "go", c.S(P_CODELANG))
	c.Push(P_CODELANG, "sh")
	assert.Equal(t, "go", regs.S(P_CODELANG), "clone is independent")
	assert.Equal(t, "python", regs.S(P_NBLANGUAGE))
}
