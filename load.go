package themeprelude

import (
	"fmt"

	"github.com/jsvensson/themeprelude/internal/config"
)

// Load reads a prelude config file (HCL, or YAML by extension) and builds
// its per-file prelude. A chain literal in the file is appended after any
// output of prev.
func Load(path string, prev Prelude) (Prelude, error) {
	f, err := config.Load(path)
	if err != nil {
		return Prelude{}, fmt.Errorf("loading config: %w", err)
	}
	return FromFile(f, prev)
}

// FromFile builds the prelude described by an already loaded config file.
func FromFile(f *config.File, prev Prelude) (Prelude, error) {
	return New(optionsFromFile(f), chained(prev, f.Chain))
}

func optionsFromFile(f *config.File) Options {
	return Options{
		ThemeName:    f.Theme.Name,
		Dir:          f.Theme.Dir,
		ThemeOptions: f.Options,
		IncludeAs:    f.Theme.IncludeAs,
		ThemeModule:  f.Theme.Module,
		WorkDir:      f.Theme.WorkDir,
	}
}

// chained joins prev and a literal into one predecessor.
func chained(prev Prelude, literal string) Prelude {
	if literal == "" {
		return prev
	}
	if prev.IsNone() {
		return Literal(literal)
	}
	return Callable(func(content string, fc FileContext) (string, error) {
		out, err := prev.Render(content, fc)
		if err != nil {
			return "", err
		}
		return out + "\n" + literal, nil
	})
}
