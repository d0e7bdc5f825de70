package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// LaTeX math for goldmark: `$…$` inline, `$$…$$` inline display and
// `$$` blocks spanning lines.

var (
	kindMathInline = gast.NewNodeKind("MathInline")
	kindMathBlock  = gast.NewNodeKind("MathBlock")
)

type mathInline struct {
	gast.BaseInline
	value   []byte
	display bool
}

func (n *mathInline) Kind() gast.NodeKind {
	return kindMathInline
}

func (n *mathInline) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.value)}, nil)
}

type mathBlock struct {
	gast.BaseBlock
	value  []byte
	closed bool // single line block
}

func (n *mathBlock) Kind() gast.NodeKind {
	return kindMathBlock
}

func (n *mathBlock) IsRaw() bool {
	return true
}

func (n *mathBlock) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.value)}, nil)
}

// --- Inline ----------------------------------------------------------------

type mathInlineParser struct{}

func (mathInlineParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse recognizes `$x$` and `$$x$$`. To keep dollar amounts intact, the
// opening delimiter must not be followed by white space, the closing one
// must not be preceded by white space nor followed by a digit.
func (mathInlineParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	body := line[delim:]
	if len(body) == 0 || isSpace(body[0]) {
		return nil
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
			continue
		case '$':
		default:
			continue
		}
		if delim == 2 && (i+1 >= len(body) || body[i+1] != '$') {
			return nil
		}
		if i == 0 || isSpace(body[i-1]) {
			return nil
		}
		if end := i + delim; end < len(body) && body[end] >= '0' && body[end] <= '9' {
			return nil
		}
		node := &mathInline{
			value:   append([]byte(nil), body[:i]...),
			display: delim == 2,
		}
		block.Advance(delim + i + delim)
		return node
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// --- Block -----------------------------------------------------------------

type mathBlockParser struct{}

var mathFence = []byte("$$")

func (mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (mathBlockParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], mathFence) {
		return nil, parser.NoChildren
	}
	rest := bytes.TrimSpace(line[pos+2:])
	if len(rest) == 2 && bytes.Equal(rest, mathFence) {
		return nil, parser.NoChildren
	}
	node := &mathBlock{}
	reader.Advance(segment.Len() - 1)
	if len(rest) > 0 {
		if bytes.HasSuffix(rest, mathFence) {
			node.value = append(node.value, bytes.TrimSpace(rest[:len(rest)-2])...)
			node.closed = true
			return node, parser.NoChildren
		}
		node.value = append(node.value, rest...)
		node.value = append(node.value, '\n')
	}
	return node, parser.NoChildren
}

func (mathBlockParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*mathBlock)
	line, segment := reader.PeekLine()
	if line == nil || n.closed {
		return parser.Close
	}
	trimmed := bytes.TrimSpace(line)
	if bytes.HasSuffix(trimmed, mathFence) {
		n.value = append(n.value, bytes.TrimSpace(trimmed[:len(trimmed)-2])...)
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}
	n.value = append(n.value, line...)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (mathBlockParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*mathBlock)
	n.value = bytes.Trim(n.value, "\n")
}

func (mathBlockParser) CanInterruptParagraph() bool {
	return true
}

func (mathBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// --- Extension -------------------------------------------------------------

type mathExtension struct{}

// MathExtension is a goldmark extension for LaTeX math delimited by
// dollar signs.
var MathExtension goldmark.Extender = mathExtension{}

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(mathBlockParser{}, 650)),
		parser.WithInlineParsers(util.Prioritized(mathInlineParser{}, 150)),
	)
}
