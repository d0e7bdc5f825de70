package pdf

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTypst writes a shell script standing in for the Typst compiler.
func fakeTypst(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "typst")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))
	return bin
}

func TestCompile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.pdf")
	defer teardown()
	//
	bin := fakeTypst(t, `[ "$1" = compile ] || exit 2
shift
[ "$1" = --root ] && shift 2
echo "%PDF-1.7 $1" > "$2"`)
	dir := t.TempDir()
	typ := filepath.Join(dir, "doc.typ")
	require.NoError(t, os.WriteFile(typ, []byte("= Title\n"), 0644))
	//
	c := &Compiler{Binary: bin, Root: dir}
	require.NoError(t, c.Compile(context.Background(), typ, ""))
	b, err := os.ReadFile(filepath.Join(dir, "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 "+typ+"\n", string(b))
}

func TestCompileFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.pdf")
	defer teardown()
	//
	bin := fakeTypst(t, `echo "error: unknown variable: mimath" >&2
exit 1`)
	c := &Compiler{Binary: bin}
	err := c.Compile(context.Background(), "doc.typ", "doc.pdf")
	require.Error(t, err)
	assert.Equal(t, core.EEXTERNAL, core.Code(err))
	assert.Contains(t, err.Error(), "unknown variable: mimath")
}

func TestCompilerMissing(t *testing.T) {
	teardown := testconfig.QuickConfig(t, map[string]string{
		"typst.binary": filepath.Join(t.TempDir(), "no-such-typst"),
	})
	defer teardown()
	//
	err := Compile(context.Background(), "doc.typ", "doc.pdf")
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestCompileCanceled(t *testing.T) {
	bin := fakeTypst(t, "sleep 5")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (&Compiler{Binary: bin}).Compile(ctx, "doc.typ", "doc.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}
