package typst

import "strings"

// IndentWidth is the number of spaces a nested list item is indented by,
// per enclosing list.
const IndentWidth = 2

// Tag identifies a node on the ancestor stack. Only nodes relevant for
// nesting decisions get a tag different from TagNone.
type Tag uint8

const (
	TagNone Tag = iota // optional tag not present
	TagOrdered
	TagUnordered
	TagMenu
	TagItem
	TagQuote
	TagTable
	TagHeading
	TagLink
	TagFootnote
)

var tagNames = [...]string{"none", "ol", "ul", "menu", "li", "quote", "table", "heading", "link", "footnote"}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "?"
}

// IsList returns true for tags of list containers.
func (t Tag) IsList() bool {
	return t == TagOrdered || t == TagUnordered || t == TagMenu
}

// Ancestors is the stack of tags from the document root to the node
// currently rendered, root first.
//
// Renderers push a tag when descending into the children of a node and pop
// it when returning. Enter returns the pop, so the common pattern is
//
//	defer anc.Enter(tag)()
type Ancestors struct {
	stack []Tag
}

// Push puts a tag on top of the stack.
func (a *Ancestors) Push(t Tag) {
	a.stack = append(a.stack, t)
}

// Pop removes the topmost tag. Popping an empty stack is an internal error
// of the calling renderer; it is traced and ignored.
func (a *Ancestors) Pop() Tag {
	if len(a.stack) == 0 {
		tracer().Errorf("ancestor stack underflow")
		return TagNone
	}
	t := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	return t
}

// Enter pushes t and returns a function popping it again.
func (a *Ancestors) Enter(t Tag) func() {
	a.Push(t)
	depth := len(a.stack)
	return func() {
		if len(a.stack) != depth {
			tracer().Errorf("ancestor stack out of balance: depth %d, expected %d", len(a.stack), depth)
		}
		a.Pop()
	}
}

// Depth returns the number of tags on the stack.
func (a *Ancestors) Depth() int {
	return len(a.stack)
}

// Within returns true if t is on the stack.
func (a *Ancestors) Within(t Tag) bool {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i] == t {
			return true
		}
	}
	return false
}

// InList returns true if any list is on the stack.
func (a *Ancestors) InList() bool {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i].IsList() {
			return true
		}
	}
	return false
}

// ListMarker resolves marker and nesting of a list item. Scanning the
// stack from innermost to outermost, the first list tag is the nearest
// list, which selects the marker: "+" for an ordered list, "-" otherwise
// (unordered, menu, or no list at all). The number of further lists
// outward is returned as the nesting level.
func (a *Ancestors) ListMarker() (marker string, level int) {
	marker = "-"
	nearest := true
	for i := len(a.stack) - 1; i >= 0; i-- {
		t := a.stack[i]
		if !t.IsList() {
			continue
		}
		if nearest {
			if t == TagOrdered {
				marker = "+"
			}
			nearest = false
			continue
		}
		level++
	}
	return
}

// ListIndent returns the indentation for a list item at the current
// position.
func (a *Ancestors) ListIndent() string {
	_, level := a.ListMarker()
	return strings.Repeat(" ", level*IndentWidth)
}

func (a *Ancestors) String() string {
	var b strings.Builder
	for i, t := range a.stack {
		if i > 0 {
			b.WriteString("/")
		}
		b.WriteString(t.String())
	}
	return b.String()
}
