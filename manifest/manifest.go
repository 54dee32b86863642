// Package manifest handles cax.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Engine names accepted in the [run] section.
const (
	EngineInterp = "interp"
	EngineVM     = "vm"
)

// Manifest represents a cax.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Run     Run     `toml:"run"`
	Build   Build   `toml:"build"`

	// Dir is the directory containing the cax.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Run configures which execution engine evaluates the entry expression.
type Run struct {
	Engine string `toml:"engine"` // "interp" or "vm"
	Entry  string `toml:"entry"`  // source file holding the expression
}

// Build configures compiled-program output.
type Build struct {
	Output string `toml:"output"`
}

// Load parses a cax.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "cax.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Run.Engine == "" {
		m.Run.Engine = EngineInterp
	}
	if m.Run.Engine != EngineInterp && m.Run.Engine != EngineVM {
		return nil, fmt.Errorf("%s: unknown engine %q (want %q or %q)",
			path, m.Run.Engine, EngineInterp, EngineVM)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a cax.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "cax.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath returns the absolute path of the configured entry file, or
// "" when no entry is configured.
func (m *Manifest) EntryPath() string {
	if m.Run.Entry == "" {
		return ""
	}
	return filepath.Join(m.Dir, m.Run.Entry)
}

// OutputPath returns the absolute path for compiled-program output.
func (m *Manifest) OutputPath() string {
	out := m.Build.Output
	if out == "" {
		out = "out.caxbin"
	}
	return filepath.Join(m.Dir, out)
}
