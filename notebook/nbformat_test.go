package notebook

import (
	"strings"
	"testing"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.notebook")
	defer teardown()
	//
	nb, err := ReadFile("testdata/sample.ipynb")
	require.NoError(t, err)
	require.Len(t, nb.Cells, 5)
	assert.Equal(t, "# Analysis\n\nLook at ![chart](attachment:chart.png).", nb.Cells[0].Source.String())
	assert.Equal(t, "print(1)\n1 + 1", nb.Cells[1].Source.String())
	assert.Equal(t, "1\n", nb.Cells[1].Outputs[0].Text.String())
	text, ok := nb.Cells[1].Outputs[1].text("text/plain")
	assert.True(t, ok)
	assert.Equal(t, "2", text)
	_, ok = nb.Cells[3].Outputs[1].text("application/json")
	assert.False(t, ok, "JSON data is not text")
	assert.Equal(t, "python", nb.Language("julia"))
	assert.Equal(t, "Sample", nb.Meta().Title)
	assert.Equal(t, "iVBORw0KGgo=", nb.Cells[0].attachments()["chart.png"]["image/png"])
	require.NotNil(t, nb.Cells[1].ExecutionCount)
	assert.Equal(t, 1, *nb.Cells[1].ExecutionCount)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(`{"cells": 42}`))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = Read(strings.NewReader(`{"cells": [], "nbformat": 3}`))
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
	_, err = Read(strings.NewReader(`{"cells": [{"cell_type": "code", "source": 7}], "nbformat": 4}`))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = ReadFile("testdata/no-such-notebook.ipynb")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestLanguageFallback(t *testing.T) {
	nb, err := Read(strings.NewReader(`{"cells": [], "metadata": {"kernelspec": {"name": "ir", "language": "R"}}, "nbformat": 4}`))
	require.NoError(t, err)
	assert.Equal(t, "R", nb.Language("python"))
	nb.Metadata.Kernelspec = nil
	assert.Equal(t, "python", nb.Language("python"))
}
