package markdown

import (
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/engine/typst"
)

// collect is phase 1a: it collects link reference definitions and footnote
// definitions. The first definition of an identifier wins.
func (st *renderState) collect(doc Node) {
	Walk(doc, func(n Node) bool {
		switch x := n.(type) {
		case *Definition:
			if _, ok := st.definitions[x.Identifier]; !ok {
				st.definitions[x.Identifier] = x
			} else {
				tracer().Infof("duplicate definition [%s] ignored", x.Identifier)
			}
		case *FootnoteDefinition:
			if _, ok := st.fnDefs[x.Identifier]; !ok {
				st.fnDefs[x.Identifier] = x
				st.fnOrder = append(st.fnOrder, x)
			}
			return false
		}
		return true
	})
}

// renderFootnotes is phase 1b: it renders every footnote body in document
// order. Afterwards the footnote table is frozen.
func (st *renderState) renderFootnotes() {
	for _, def := range st.fnOrder {
		st.renderFootnote(def)
	}
	st.frozen = true
}

// renderFootnote renders the body of a footnote definition into the
// footnote table, using a writer and ancestor stack of its own. Footnote
// references inside the body are rendered recursively; a footnote
// referring to itself renders as empty.
func (st *renderState) renderFootnote(def *FootnoteDefinition) string {
	if body, ok := st.footnotes[def.Identifier]; ok {
		return body
	}
	if st.rendering[def.Identifier] {
		st.diag.Report(core.EMALFORMED, "footnote [^%s] refers to itself", def.Identifier)
		return ""
	}
	st.rendering[def.Identifier] = true
	defer delete(st.rendering, def.Identifier)
	//
	w, anc, inline := st.w, st.anc, st.inline
	st.w, st.anc, st.inline = typst.NewWriter(), &typst.Ancestors{}, nil
	st.anc.Push(typst.TagFootnote)
	st.children(def)
	st.anc.Pop()
	body := st.w.String()
	st.w, st.anc, st.inline = w, anc, inline
	//
	st.footnotes[def.Identifier] = body
	return body
}

// footnote returns the rendered body of a footnote. After phase 1 this is
// a pure table lookup.
func (st *renderState) footnote(id string) (string, bool) {
	if body, ok := st.footnotes[id]; ok {
		return body, true
	}
	if !st.frozen {
		if def, ok := st.fnDefs[id]; ok {
			return st.renderFootnote(def), true
		}
	}
	return "", false
}
