package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"rill/internal/diag"
	"rill/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("move.rl", []byte("fn main() {\n\tlet s2 = s;\n}\n"))
	bag := diag.NewBag(16)
	d := diag.NewError(diag.OwnUseAfterMove,
		source.Span{File: id, Start: 22, End: 23},
		"use of moved value 's'").
		WithNote(source.Span{File: id, Start: 17, End: 19}, "value moved here")
	bag.Add(d)
	return bag, fs, id
}

func TestPrettyHeadingAndUnderline(t *testing.T) {
	bag, fs, _ := testBag(t)
	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{ShowNotes: true, PathMode: PathModeBasename})

	got := out.String()
	wantLines := []string{
		"move.rl:2:11: ERROR OWN4001: use of moved value 's'",
		"\tlet s2 = s;",
		"move.rl:2:6: NOTE: value moved here",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "^") {
		t.Errorf("output has no caret:\n%s", got)
	}
}

func TestPrettyNotesSuppressed(t *testing.T) {
	bag, fs, _ := testBag(t)
	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{ShowNotes: false, PathMode: PathModeBasename})

	if strings.Contains(out.String(), "NOTE") {
		t.Errorf("notes should be suppressed:\n%s", out.String())
	}
}

func TestPrettyCaretAlignsOverTabs(t *testing.T) {
	bag, fs, _ := testBag(t)
	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	// The source line is tab-indented; the marker line must reuse the tab
	// so the caret lands under the span in a terminal.
	var marker string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.Contains(line, "^") {
			marker = line
			break
		}
	}
	if !strings.HasPrefix(marker, "  \t") {
		t.Errorf("marker line does not preserve tab indent: %q", marker)
	}
}
