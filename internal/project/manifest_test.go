package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[package]
name = "demo"

[check]
max_diagnostics = 16
jobs = 2
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "demo" {
		t.Errorf("Name = %q", m.Package.Name)
	}
	if m.Check.MaxDiagnostics != 16 || m.Check.Jobs != 2 {
		t.Errorf("Check = %+v", m.Check)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[package]
name = "demo"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Check.MaxDiagnostics != 64 {
		t.Errorf("MaxDiagnostics = %d, want default 64", m.Check.MaxDiagnostics)
	}
	if m.Check.Jobs != 0 {
		t.Errorf("Jobs = %d, want 0 (GOMAXPROCS)", m.Check.Jobs)
	}
}

func TestLoadManifestRejectsMissingPackage(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[check]
jobs = 1
`)
	_, err := LoadManifest(path)
	if !errors.Is(err, ErrPackageSectionMissing) {
		t.Fatalf("err = %v, want ErrPackageSectionMissing", err)
	}
}

func TestLoadManifestRejectsNegativeFields(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[package]
name = "demo"

[check]
jobs = -1
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("negative jobs must be rejected")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "demo"
`)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, found, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !found {
		t.Fatal("manifest above nested dir must be found")
	}
	if m.Dir != root {
		t.Errorf("Dir = %q, want %q", m.Dir, root)
	}
}

func TestDiscoverFallsBackToDefaults(t *testing.T) {
	m, found, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if found {
		t.Fatal("no manifest should be found in an empty tree")
	}
	if m.Check.MaxDiagnostics != 64 {
		t.Errorf("defaults not applied: %+v", m.Check)
	}
}
