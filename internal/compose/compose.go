package compose

import (
	"strings"
	"text/template"

	"github.com/jsvensson/themeprelude/internal/overrides"
	"github.com/jsvensson/themeprelude/internal/resolve"
)

const (
	// DefaultIncludeAs re-exports every member of the theme module unrenamed.
	DefaultIncludeAs = "*"
	// DefaultThemeModule is the shared theme implementation module.
	DefaultThemeModule = "ungic-sass-theme"
	// DefaultConfigAlias names the imported theme file and the merged map.
	DefaultConfigAlias = "ungic-theme-config"
)

var preludeTemplate = template.Must(template.New("prelude").Parse(`
@use "sass:meta";
@use "sass:map";
@use "{{ .ThemePath }}" as {{ .ConfigAlias }};
${{ .ConfigAlias }}: meta.module-variables({{ .ConfigAlias }});

${{ .ConfigAlias }}: map.merge(${{ .ConfigAlias }}, {{ .Overrides }});

@use "{{ .ThemeModule }}" as {{ .IncludeAs }} with (
    $theme: ${{ .ConfigAlias }}
);
{{ .Content }}
@include render-vars();`))

// Params configures the prelude block for one stylesheet.
type Params struct {
	Overrides   *overrides.Map
	IncludeAs   string
	ThemePath   string
	ThemeModule string
	ConfigAlias string
}

type templateData struct {
	ThemePath   string
	ConfigAlias string
	Overrides   string
	ThemeModule string
	IncludeAs   string
	Content     string
}

// Block renders the prelude block around content, without any chained
// output.
func Block(p Params, content string) (string, error) {
	literal, err := p.Overrides.Literal()
	if err != nil {
		return "", err
	}

	data := templateData{
		ThemePath:   p.ThemePath,
		ConfigAlias: orDefault(p.ConfigAlias, DefaultConfigAlias),
		Overrides:   literal,
		ThemeModule: orDefault(p.ThemeModule, DefaultThemeModule),
		IncludeAs:   orDefault(p.IncludeAs, DefaultIncludeAs),
		Content:     content,
	}

	var b strings.Builder
	if err := preludeTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Compose renders the prelude block for content and appends the output of
// prev, so a chained predecessor always follows this block in full.
func Compose(p Params, content string, fc resolve.FileContext, prev Prelude) (string, error) {
	out, err := Block(p, content)
	if err != nil {
		return "", err
	}
	if prev.IsNone() {
		return out, nil
	}

	chained, err := prev.Render(content, fc)
	if err != nil {
		return "", err
	}
	return out + "\n" + chained, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
