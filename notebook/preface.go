package notebook

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/nbtypst/engine/typst"
	"gopkg.in/yaml.v3"
)

// Meta is the metadata of a document, as shown by the preface.
type Meta struct {
	Title   string   `yaml:"title"`
	Authors []Author `yaml:"authors"`
	Date    string   `yaml:"date"` // YYYY-MM-DD, empty for today
}

// Meta returns the metadata found in the notebook.
func (nb *Notebook) Meta() Meta {
	return Meta{
		Title:   nb.Metadata.Title,
		Authors: nb.Metadata.Authors,
		Date:    nb.Metadata.Date,
	}
}

// Complete fills empty fields of m from other.
func (m *Meta) Complete(other Meta) {
	if m.Title == "" {
		m.Title = other.Title
	}
	if len(m.Authors) == 0 {
		m.Authors = other.Authors
	}
	if m.Date == "" {
		m.Date = other.Date
	}
}

// SidecarPath returns the path of the metadata file belonging to an input
// document: the input's path with extension ".yaml".
func SidecarPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".yaml"
}

// ReadSidecar reads document metadata from a YAML file. A missing file is
// not an error; it yields empty metadata.
func ReadSidecar(path string) (Meta, error) {
	var m Meta
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	} else if err != nil {
		return m, err
	}
	if err = yaml.Unmarshal(b, &m); err != nil {
		return m, core.WrapError(err, core.EINVALID, "invalid metadata file %s", path)
	}
	tracer().Debugf("metadata from %s: %q", path, m.Title)
	return m, nil
}

// Preface returns the preface of a Typst document: the import of the
// document template and the call of its `project` function.
func Preface(m Meta, params *parameters.Registers) string {
	if params == nil {
		params = parameters.NewRegisters()
	}
	var b strings.Builder
	b.WriteString("#import " + typst.Quote(params.S(parameters.P_TEMPLATE)) + ": *\n\n")
	b.WriteString("#show: project.with(\n")
	b.WriteString("  title: " + typst.Quote(m.Title) + ",\n")
	b.WriteString("  authors: " + authors(m.Authors) + ",\n")
	b.WriteString("  date: " + date(m.Date) + ".display(" + typst.Quote(params.S(parameters.P_DATEFORMAT)) + "),\n")
	b.WriteString(")\n")
	return b.String()
}

func authors(list []Author) string {
	if len(list) == 0 {
		return "()"
	}
	var b strings.Builder
	b.WriteString("(")
	for _, a := range list {
		b.WriteString("(name: " + typst.Quote(a.Name))
		b.WriteString(", email: " + orNone(a.Email))
		b.WriteString(", affiliation: " + orNone(a.Affiliation))
		b.WriteString("), ")
	}
	b.WriteString(")")
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return typst.Quote(s)
}

func date(s string) string {
	if s != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
		if err == nil {
			return "datetime(year: " + strconv.Itoa(t.Year()) +
				", month: " + strconv.Itoa(int(t.Month())) +
				", day: " + strconv.Itoa(t.Day()) + ")"
		}
		tracer().Errorf("date %q not in format YYYY-MM-DD, using today", s)
	}
	return "datetime.today()"
}
