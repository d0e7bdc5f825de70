package typst

import (
	"testing"
)

func TestEscapeProse(t *testing.T) {
	for i, x := range []struct{ in, out string }{
		{"A paragraph", "A paragraph"},
		{"*stars*", `\*stars\*`},
		{"snake_case", `snake\_case`},
		{`<img src="asdf qwer">`, `\<img src="asdf qwer"\>`},
		{"= A header 2 + 2 = 4", `\= A header 2 + 2 = 4`},
		{"- A pseudo-list", `\- A pseudo-list`},
		{"+ Three", `\+ Three`},
		{"2 + 2 - 1 = 3", "2 + 2 - 1 = 3"},
		{"", ""},
	} {
		if e := Escape(x.in); e != x.out {
			t.Errorf("(%d) expected %q to escape to %q, got %q", i, x.in, x.out, e)
		}
	}
}

func TestEscapeUnchangedIdentity(t *testing.T) {
	// text without sigils must be returned as-is, i.e. the very same string
	for _, s := range []string{"plain text", "a = b", "x-y", "#hash and $dollar$", "Ünïcödé"} {
		if e := Escape(s); e != s {
			t.Errorf("expected %q to be unchanged, got %q", s, e)
		}
	}
}

func TestEscapeNotIdempotent(t *testing.T) {
	once := Escape("*x*")
	if twice := Escape(once); twice == once {
		t.Errorf("expected double escaping to change text again")
	}
}

func TestEscapeLiteral(t *testing.T) {
	if e := EscapeLiteral(`asdf "zcxv" qwer`); e != `asdf \"zcxv\" qwer` {
		t.Errorf("unexpected literal escape: %q", e)
	}
	if e := EscapeLiteral(`*_<>=`); e != `*_<>=` {
		t.Errorf("literal escaping must only touch quotes, got %q", e)
	}
}

func TestQuote(t *testing.T) {
	if q := Quote(`C:\dir "x"`); q != `"C:\\dir \"x\""` {
		t.Errorf("unexpected quoted string: %s", q)
	}
}
