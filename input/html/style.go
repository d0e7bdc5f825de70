package html

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// inlineStyle returns the CSS declarations of an element's style
// attribute, keyed by lower-case property name. Later declarations win,
// unless an earlier one is !important.
func inlineStyle(n *html.Node) map[string]string {
	v, ok := attr(n, "style")
	if v = strings.TrimSpace(v); !ok || v == "" {
		return nil
	}
	if !strings.HasSuffix(v, ";") { // the last declaration needs a terminator
		v += ";"
	}
	decls, err := parser.ParseDeclarations(v)
	if err != nil {
		tracer().Infof("ignoring style %q: %v", v, err)
		return nil
	}
	props := make(map[string]string, len(decls))
	important := make(map[string]bool)
	for _, d := range decls {
		p := strings.ToLower(strings.TrimSpace(d.Property))
		if important[p] && !d.Important {
			continue
		}
		props[p] = strings.ToLower(strings.TrimSpace(d.Value))
		important[p] = important[p] || d.Important
	}
	return props
}

// styleProperty returns a single property of an element's inline style.
func styleProperty(n *html.Node, prop string) (string, bool) {
	v, ok := inlineStyle(n)[prop]
	return v, ok && v != ""
}
