package lexer

import (
	"testing"

	"rill/internal/diag"
	"rill/internal/source"
	"rill/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rl", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), Options{Reporter: &diag.BagReporter{Bag: bag}})

	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexLetStatement(t *testing.T) {
	toks, bag := lexAll(t, `let mut s = "hello";`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{token.KwLet, token.KwMut, token.Ident, token.Assign, token.StringLit, token.Semicolon}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[4].Text != `"hello"` {
		t.Errorf("string text = %q", toks[4].Text)
	}
}

func TestLexBorrowAndSlice(t *testing.T) {
	toks, bag := lexAll(t, "find(&mut v); s[0..5]")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.Ident, token.LParen, token.Amp, token.KwMut, token.Ident, token.RParen, token.Semicolon,
		token.Ident, token.LBracket, token.IntLit, token.DotDot, token.IntLit, token.RBracket,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexNumberVsRange(t *testing.T) {
	toks, _ := lexAll(t, "1..3 2.5 10e2")
	want := []token.Kind{token.IntLit, token.DotDot, token.IntLit, token.FloatLit, token.FloatLit}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v (%q), want %v", i, got[i], toks[i].Text, want[i])
		}
	}
}

func TestLexComments(t *testing.T) {
	toks, bag := lexAll(t, "// line\nfn /* block /* nested */ */ main")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{token.KwFn, token.Ident}
	got := kinds(toks)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, bag := lexAll(t, `let s = "oops`)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for the unterminated string")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexUnterminatedString {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing LexUnterminatedString, got %v", bag.Items())
	}
}

func TestLexCharLiteral(t *testing.T) {
	toks, bag := lexAll(t, `'h' '\n'`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(toks) != 2 || toks[0].Kind != token.CharLit || toks[1].Kind != token.CharLit {
		t.Fatalf("got %v", kinds(toks))
	}
}

func TestLexUnknownChar(t *testing.T) {
	_, bag := lexAll(t, "let a = 1 $ 2;")
	if !bag.HasErrors() {
		t.Fatal("expected LexUnknownChar diagnostic")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.rl", []byte("fn x"))
	lx := New(fs.Get(id), Options{})

	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Span != n.Span {
		t.Fatalf("Peek %v != Next %v", p, n)
	}
	if lx.Next().Kind != token.Ident {
		t.Fatal("lookahead buffer skipped a token")
	}
}
