package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsvensson/themeprelude/internal/overrides"
)

// File is a loaded prelude configuration.
type File struct {
	Path    string
	Theme   Theme
	Options *overrides.Map
	Chain   string // literal text appended after the prelude
}

// Theme selects the theme file and how the shared module is imported.
type Theme struct {
	Name      string
	Dir       string
	IncludeAs string
	Module    string
	WorkDir   string
}

// Load reads a prelude config file. The format is chosen by extension:
// .yaml and .yml are YAML, anything else is HCL. Relative theme and work
// directories are resolved against the config file's directory.
func Load(path string) (*File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %q: %w", path, err)
	}

	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f *File
	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".yaml", ".yml":
		f, err = ParseYAML(src, absPath)
	default:
		f, err = ParseHCL(src, absPath)
	}
	if err != nil {
		return nil, err
	}

	f.Path = absPath
	f.ResolveDirs(filepath.Dir(absPath))
	return f, nil
}

// ResolveDirs makes the theme and work directories absolute against base.
// An empty theme directory becomes base itself.
func (f *File) ResolveDirs(base string) {
	f.Theme.Dir = resolveDir(base, f.Theme.Dir)
	if f.Theme.WorkDir != "" {
		f.Theme.WorkDir = resolveDir(base, f.Theme.WorkDir)
	}
}

func resolveDir(base, dir string) string {
	if dir == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

func newFile() *File {
	return &File{Options: &overrides.Map{}}
}
