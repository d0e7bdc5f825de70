package typst

import "strings"

// Escape escapes text for use in Typst markup (prose). It inserts a
// backslash before every `*`, `_`, `<` and `>`, and before a `=`, `-` or `+`
// if it is the first character of s.
//
// If nothing has to be escaped, s is returned unchanged. Escape is not
// idempotent: callers have to escape raw input exactly once.
func Escape(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '*', '_', '<', '>':
			b.WriteByte('\\')
		case '=', '-', '+':
			if i == 0 {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func needsEscape(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case '=', '-', '+':
		return true
	}
	return strings.ContainsAny(s, "*_<>")
}

// EscapeLiteral escapes text for use inside a Typst string literal
// argument, such as a URL or an image path. Only `"` is escaped.
func EscapeLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return s
	}
	return strings.ReplaceAll(s, `"`, `\"`)
}

var stringReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// Quote returns s as a complete Typst string literal, including the
// surrounding quotes. Unlike EscapeLiteral it escapes backslashes and
// control characters, so that s arrives in Typst unchanged.
func Quote(s string) string {
	return `"` + stringReplacer.Replace(s) + `"`
}
