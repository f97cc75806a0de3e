package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rill/internal/pipeline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

const cleanSrc = `fn main() {
	let s = "hello";
	print(s);
}
`

const movedSrc = `fn main() {
	let s = "hello";
	let s2 = s;
	print(s);
}
`

func TestCheckDirDeterministicOrder(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.rl":        cleanSrc,
		"a.rl":        movedSrc,
		"sub/c.rl":    cleanSrc,
		"ignored.txt": "not a source file",
	})

	_, results, err := CheckDir(context.Background(), dir, DirOptions{Jobs: 2})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	wantOrder := []string{"a.rl", "b.rl", filepath.Join("sub", "c.rl")}
	for i, want := range wantOrder {
		if got := results[i].Path; filepath.Base(got) != filepath.Base(want) {
			t.Errorf("results[%d].Path = %s, want suffix %s", i, got, want)
		}
	}

	if !results[0].Bag.HasErrors() {
		t.Error("a.rl must be rejected")
	}
	if results[1].Bag.HasErrors() || results[2].Bag.HasErrors() {
		t.Error("b.rl and sub/c.rl must be clean")
	}
}

func TestCheckDirEmitsEvents(t *testing.T) {
	dir := writeTree(t, map[string]string{"one.rl": cleanSrc})

	ch := make(chan pipeline.Event, 64)
	_, _, err := CheckDir(context.Background(), dir, DirOptions{
		Sink: pipeline.ChannelSink{Ch: ch},
	})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	close(ch)

	var statuses []pipeline.Status
	for evt := range ch {
		statuses = append(statuses, evt.Status)
	}
	if len(statuses) < 2 {
		t.Fatalf("expected queued and terminal events, got %v", statuses)
	}
	if statuses[0] != pipeline.StatusQueued {
		t.Errorf("first status = %v, want queued", statuses[0])
	}
	if last := statuses[len(statuses)-1]; last != pipeline.StatusDone {
		t.Errorf("last status = %v, want done", last)
	}
}

func TestCheckDirEmptyDir(t *testing.T) {
	fs, results, err := CheckDir(context.Background(), t.TempDir(), DirOptions{})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 0 || fs.Len() != 0 {
		t.Errorf("results = %d, files = %d, want 0", len(results), fs.Len())
	}
}

func TestCheckDirCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"one.rl": cleanSrc, "two.rl": cleanSrc})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := CheckDir(ctx, dir, DirOptions{Jobs: 1})
	if err == nil {
		t.Fatal("cancelled context must surface an error")
	}
}
