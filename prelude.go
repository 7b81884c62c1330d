// Package themeprelude generates the text injected ahead of every SCSS file
// a build compiles, wiring it to a shared theme module configured from a
// theme file plus caller overrides.
package themeprelude

import (
	"fmt"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/jsvensson/themeprelude/internal/compose"
	"github.com/jsvensson/themeprelude/internal/overrides"
	"github.com/jsvensson/themeprelude/internal/resolve"
)

// DefaultThemeName is the theme file base name used when none is given.
const DefaultThemeName = resolve.DefaultName

type (
	// Prelude is nothing, a fixed string, or a per-file function.
	Prelude = compose.Prelude
	// Func produces prelude text for one stylesheet.
	Func = compose.Func
	// FileContext identifies the stylesheet being compiled.
	FileContext = resolve.FileContext
	// Overrides is an insertion-ordered map of theme variable overrides.
	Overrides = overrides.Map
	// ConfigurationError reports a missing theme file.
	ConfigurationError = resolve.ConfigurationError
)

// None returns the empty prelude.
func None() Prelude { return compose.None() }

// Literal returns a prelude that always yields text.
func Literal(text string) Prelude { return compose.Literal(text) }

// Callable returns a prelude backed by fn.
func Callable(fn Func) Prelude { return compose.Callable(fn) }

var log = commonlog.GetLogger("themeprelude")

// Options configures New.
type Options struct {
	// ThemeName is the theme file base name, without extension.
	ThemeName string
	// Dir is the directory holding the theme file. Required. A relative
	// Dir is resolved against the process working directory once, in New.
	Dir string
	// ThemeOptions override the theme's own variables.
	ThemeOptions *Overrides
	// IncludeAs is the alias of the shared theme module. Defaults to "*".
	IncludeAs string
	// ThemeModule is the shared theme implementation module specifier.
	ThemeModule string
	// WorkDir anchors relative intermediate paths during theme path
	// resolution. Defaults to each file's RootContext.
	WorkDir string
}

// New checks that the theme file exists and returns a per-file prelude that
// composes with prev. The returned prelude holds no mutable state and may
// be rendered concurrently.
func New(opts Options, prev Prelude) (Prelude, error) {
	name := opts.ThemeName
	if name == "" {
		name = DefaultThemeName
	}
	if opts.Dir == "" {
		return Prelude{}, &ConfigurationError{
			Path: resolve.ThemeFile(".", name),
			Err:  fmt.Errorf("theme directory not set"),
		}
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return Prelude{}, &ConfigurationError{Path: resolve.ThemeFile(opts.Dir, name), Err: err}
	}
	if err := resolve.Check(dir, name); err != nil {
		return Prelude{}, err
	}
	log.Debugf("using theme file %s", resolve.ThemeFile(dir, name))

	ref := themeRef{name: name, dir: dir}
	params := compose.Params{
		Overrides:   copyOverrides(opts.ThemeOptions),
		IncludeAs:   opts.IncludeAs,
		ThemeModule: opts.ThemeModule,
	}
	workDir := opts.WorkDir

	return compose.Callable(func(content string, fc FileContext) (string, error) {
		p := params
		p.ThemePath = resolve.ThemePath(ref.dir, ref.name, fc, workDir)
		log.Debugf("%s: theme path %s", fc.ResourcePath, p.ThemePath)
		return compose.Compose(p, content, fc, prev)
	}), nil
}

// themeRef identifies the theme file backing a build.
type themeRef struct {
	name string
	dir  string
}

func copyOverrides(m *Overrides) *Overrides {
	out := &Overrides{}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out.Set(k, v)
	}
	return out
}
