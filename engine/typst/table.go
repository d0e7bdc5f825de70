package typst

import (
	"strconv"
	"strings"
)

// Alignment is the horizontal alignment of a table column.
type Alignment uint8

const (
	AlignAuto Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "auto"
}

// ParseAlignment interprets the value of an HTML `align` attribute or a
// CSS `text-align` property.
func ParseAlignment(s string) Alignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AlignLeft
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	}
	return AlignAuto
}

// Table collects rendered cells of a table. The first row added is the
// header row.
type Table struct {
	Align   []Alignment
	Caption string // rendered caption markup, optional
	rows    [][]string
}

// AddRow appends a row of rendered cell contents.
func (t *Table) AddRow(cells []string) {
	t.rows = append(t.rows, cells)
}

// Rows returns the number of rows collected so far.
func (t *Table) Rows() int {
	return len(t.rows)
}

// Columns returns the number of columns: the larger one of the number of
// alignments given and the widest row.
func (t *Table) Columns() int {
	n := len(t.Align)
	for _, row := range t.rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Emit writes the table as a Typst figure. Rows shorter than the table's
// column count are padded with empty cells. A table without rows writes
// nothing and returns false.
func (t *Table) Emit(w *Writer) bool {
	if len(t.rows) == 0 {
		return false
	}
	cols := t.Columns()
	w.StartLine("")
	w.WriteString("\n#figure(\n  table(\n    columns: " + strconv.Itoa(cols) + ",\n")
	if t.hasAlignment() {
		aligns := make([]string, cols)
		for i := range aligns {
			if i < len(t.Align) {
				aligns[i] = t.Align[i].String()
			} else {
				aligns[i] = AlignAuto.String()
			}
		}
		w.WriteString("    align: (" + strings.Join(aligns, ", ") + "),\n")
	}
	w.WriteString("    table.header(" + strings.Join(cells(t.rows[0], cols), ", ") + "),\n")
	for _, row := range t.rows[1:] {
		w.WriteString("    " + strings.Join(cells(row, cols), ", ") + ",\n")
	}
	w.WriteString("  ),\n")
	if t.Caption != "" {
		w.WriteString("  caption: [" + t.Caption + "],\n")
	}
	w.WriteString(")\n\n")
	return true
}

func (t *Table) hasAlignment() bool {
	for _, a := range t.Align {
		if a != AlignAuto {
			return true
		}
	}
	return false
}

func cells(row []string, cols int) []string {
	c := make([]string, cols)
	for i := range c {
		if i < len(row) {
			c[i] = "[" + row[i] + "]"
		} else {
			c[i] = "[]"
		}
	}
	return c
}
