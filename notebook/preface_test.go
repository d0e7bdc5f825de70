package notebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreface(t *testing.T) {
	m := Meta{
		Title:   `A "quoted" title`,
		Authors: []Author{{Name: "Ada", Email: "ada@x.org"}},
		Date:    "2024-03-01",
	}
	want := `#import "template.typ": *

#show: project.with(
  title: "A \"quoted\" title",
  authors: ((name: "Ada", email: "ada@x.org", affiliation: none), ),
  date: datetime(year: 2024, month: 3, day: 1).display("[year]年[month padding:space]月[day padding:space]日"),
)
`
	assert.Equal(t, want, Preface(m, nil))
}

func TestPrefaceDefaults(t *testing.T) {
	params := parameters.NewRegisters()
	params.Push(parameters.P_DATEFORMAT, "[day].[month].[year]")
	params.Push(parameters.P_TEMPLATE, "my.typ")
	p := Preface(Meta{Date: "March 1st"}, params)
	assert.True(t, strings.HasPrefix(p, `#import "my.typ": *`))
	assert.Contains(t, p, `  title: "",`)
	assert.Contains(t, p, "  authors: (),")
	assert.Contains(t, p, `  date: datetime.today().display("[day].[month].[year]"),`)
}

func TestSidecar(t *testing.T) {
	dir := t.TempDir()
	nbpath := filepath.Join(dir, "analysis.ipynb")
	assert.Equal(t, filepath.Join(dir, "analysis.yaml"), SidecarPath(nbpath))
	//
	m, err := ReadSidecar(SidecarPath(nbpath))
	require.NoError(t, err)
	assert.Equal(t, Meta{}, m)
	//
	yml := "title: Results\nauthors:\n  - name: Grace\n    affiliation: Navy\ndate: 2024-05-17\n"
	require.NoError(t, os.WriteFile(SidecarPath(nbpath), []byte(yml), 0644))
	m, err = ReadSidecar(SidecarPath(nbpath))
	require.NoError(t, err)
	assert.Equal(t, "Results", m.Title)
	assert.Equal(t, "2024-05-17", m.Date)
	require.Len(t, m.Authors, 1)
	assert.Equal(t, Author{Name: "Grace", Affiliation: "Navy"}, m.Authors[0])
	//
	nbMeta := Meta{Title: "From notebook"}
	nbMeta.Complete(m)
	assert.Equal(t, "From notebook", nbMeta.Title)
	assert.Equal(t, "2024-05-17", nbMeta.Date)
	//
	require.NoError(t, os.WriteFile(SidecarPath(nbpath), []byte("title: [unclosed"), 0644))
	_, err = ReadSidecar(SidecarPath(nbpath))
	assert.Error(t, err)
}
