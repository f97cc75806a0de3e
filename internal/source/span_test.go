package source

import "testing"

func TestSpanBasics(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 9}
	if s.Empty() {
		t.Fatalf("span %v should not be empty", s)
	}
	if got := s.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	if got := s.String(); got != "1:4-9" {
		t.Fatalf("String() = %q", got)
	}

	empty := Span{File: 1, Start: 3, End: 3}
	if !empty.Empty() {
		t.Fatalf("span %v should be empty", empty)
	}
}

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		wantLo   uint32
		wantHi   uint32
	}{
		{"extends right", Span{File: 1, Start: 2, End: 5}, Span{File: 1, Start: 4, End: 9}, 2, 9},
		{"extends left", Span{File: 1, Start: 6, End: 8}, Span{File: 1, Start: 1, End: 7}, 1, 8},
		{"contained", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 4}, 0, 10},
		{"other file ignored", Span{File: 1, Start: 2, End: 5}, Span{File: 2, Start: 0, End: 100}, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Cover(tt.b)
			if got.Start != tt.wantLo || got.End != tt.wantHi {
				t.Fatalf("Cover = %v, want [%d, %d)", got, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 9}
	for _, off := range []uint32{4, 5, 8} {
		if !s.Contains(off) {
			t.Errorf("Contains(%d) = false, want true", off)
		}
	}
	for _, off := range []uint32{3, 9, 100} {
		if s.Contains(off) {
			t.Errorf("Contains(%d) = true, want false", off)
		}
	}
}
