package token

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KwLet, "let"},
		{KwMut, "mut"},
		{Amp, "&"},
		{DotDot, ".."},
		{Ident, "ident"},
		{EOF, "eof"},
		{Kind(250), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	if k, ok := LookupKeyword("let"); !ok || k != KwLet {
		t.Fatalf("LookupKeyword(let) = %v, %v", k, ok)
	}
	if _, ok := LookupKeyword("Let"); ok {
		t.Fatal("keywords must be case-sensitive")
	}
	if _, ok := LookupKeyword("borrow"); ok {
		t.Fatal("non-keyword recognized")
	}
}

func TestTokenClassifiers(t *testing.T) {
	if !(Token{Kind: IntLit}).IsLiteral() {
		t.Error("IntLit must be a literal")
	}
	if !(Token{Kind: KwTrue}).IsLiteral() {
		t.Error("true must count as a literal")
	}
	if !(Token{Kind: KwFn}).IsKeyword() {
		t.Error("fn must be a keyword")
	}
	if !(Token{Kind: DotDot}).IsPunctOrOp() {
		t.Error(".. must be punctuation")
	}
	if (Token{Kind: Ident}).IsKeyword() {
		t.Error("ident is not a keyword")
	}
	if !(Token{Kind: Ident}).IsIdent() {
		t.Error("IsIdent failed")
	}
}
