package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the project root is discovered by.
const ManifestName = "rill.toml"

// Manifest is a parsed rill.toml.
type Manifest struct {
	// Dir is the directory the manifest was found in.
	Dir     string
	Package PackageConfig
	Check   CheckConfig
}

// PackageConfig is the [package] section.
type PackageConfig struct {
	Name string `toml:"name"`
}

// CheckConfig is the [check] section.
type CheckConfig struct {
	// MaxDiagnostics caps the per-file diagnostic bag.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// Jobs limits directory-check parallelism. Zero means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

// ErrPackageSectionMissing indicates that [package] is missing.
var ErrPackageSectionMissing = errors.New("missing [package]")

type manifestFile struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
}

// Default returns the manifest used when no rill.toml exists.
func Default() *Manifest {
	return &Manifest{
		Check: CheckConfig{MaxDiagnostics: 64},
	}
}

// LoadManifest parses one rill.toml. Unset [check] fields fall back to
// defaults; [package].name must be present.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [check].max_diagnostics must not be negative", path)
	}
	if cfg.Check.Jobs < 0 {
		return nil, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}

	m := Default()
	m.Package = PackageConfig{Name: strings.TrimSpace(cfg.Package.Name)}
	if cfg.Check.MaxDiagnostics > 0 {
		m.Check.MaxDiagnostics = cfg.Check.MaxDiagnostics
	}
	m.Check.Jobs = cfg.Check.Jobs
	return m, nil
}
