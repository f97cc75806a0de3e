package source

import "testing"

func TestFileSetAddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rl", []byte("fn main() {}\n"))

	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Fatal("virtual file must carry FileVirtual flag")
	}
	if f.Path != "test.rl" {
		t.Fatalf("Path = %q", f.Path)
	}

	got, ok := fs.GetByPath("test.rl")
	if !ok || got.ID != id {
		t.Fatalf("GetByPath = %v, %v", got, ok)
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.rl", []byte("abc\ndefg\nhi\n"))

	tests := []struct {
		name      string
		span      Span
		wantLine  uint32
		wantCol   uint32
	}{
		{"first line start", Span{File: id, Start: 0, End: 1}, 1, 1},
		{"first line middle", Span{File: id, Start: 2, End: 3}, 1, 3},
		{"second line", Span{File: id, Start: 4, End: 6}, 2, 1},
		{"third line", Span{File: id, Start: 9, End: 10}, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(tt.span)
			if start.Line != tt.wantLine || start.Col != tt.wantCol {
				t.Fatalf("Resolve start = %+v, want %d:%d", start, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestFileSetGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.rl", []byte("abc\ndefg\nhi"))
	f := fs.Get(id)

	for i, want := range []string{"abc", "defg", "hi"} {
		if got := f.GetLine(uint32(i + 1)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i+1, got, want)
		}
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("GetLine(0) = %q, want empty", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
}

func TestCRLFNormalization(t *testing.T) {
	fs := NewFileSet()
	content, changed := normalizeCRLF([]byte("a\r\nb\rc\n"))
	if !changed {
		t.Fatal("expected CRLF rewrite")
	}
	if string(content) != "a\nb\rc\n" {
		t.Fatalf("normalized = %q", content)
	}

	id := fs.AddVirtual("x.rl", content)
	if fs.Get(id).LineIdx == nil {
		t.Fatal("line index missing")
	}
}

func TestRemoveBOM(t *testing.T) {
	content, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || string(content) != "x" {
		t.Fatalf("removeBOM = %q, %v", content, had)
	}
	content, had = removeBOM([]byte("plain"))
	if had || string(content) != "plain" {
		t.Fatalf("removeBOM clean = %q, %v", content, had)
	}
}

func TestFileSetHashStable(t *testing.T) {
	fs := NewFileSet()
	a := fs.AddVirtual("a.rl", []byte("same"))
	b := fs.AddVirtual("b.rl", []byte("same"))
	if fs.Get(a).Hash != fs.Get(b).Hash {
		t.Fatal("identical content must hash identically")
	}
}
