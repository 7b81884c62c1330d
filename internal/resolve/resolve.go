package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const (
	// Ext is the extension of theme files.
	Ext = ".scss"
	// DefaultName is the theme file base name used when none is given.
	DefaultName = "default"
)

var separatorRun = regexp.MustCompile(`[/\\]+`)

// FileContext identifies the stylesheet being compiled.
type FileContext struct {
	ResourcePath string // absolute path of the file being processed
	RootContext  string // absolute project root
}

// ConfigurationError reports a theme file that cannot back a build.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("theme file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("theme file %s does not exist", e.Path)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ThemeFile returns the path of the theme file <dir>/<name>.scss.
func ThemeFile(dir, name string) string {
	return filepath.Join(dir, name+Ext)
}

// Check verifies that the theme file exists and is not a directory.
func Check(dir, name string) error {
	path := ThemeFile(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConfigurationError{Path: path}
		}
		return &ConfigurationError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &ConfigurationError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	return nil
}

// ThemePath returns the module specifier that a stylesheet at fc.ResourcePath
// uses to reach the theme file in dir.
//
// The theme location is expressed relative to the resource directory's path
// from the project root, not relative to the resource directory itself. The
// host module resolver interprets generated specifiers that way. Relative
// intermediate paths are anchored at workDir, or at fc.RootContext when
// workDir is empty.
func ThemePath(dir, name string, fc FileContext, workDir string) string {
	if workDir == "" {
		workDir = fc.RootContext
	}
	resourceDir := filepath.Dir(fc.ResourcePath)
	fromRoot := relative(fc.RootContext, resourceDir, workDir)
	toTheme := relative(fromRoot, dir, workDir)
	return separatorRun.ReplaceAllString(filepath.Join(toTheme, name+Ext), "/")
}

// relative returns the path from base to target. Relative arguments are
// resolved against workDir first. When no relative path exists the cleaned
// absolute target is returned.
func relative(base, target, workDir string) string {
	base = absolute(base, workDir)
	target = absolute(target, workDir)
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}

func absolute(p, workDir string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}
