package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/jsvensson/themeprelude/internal/overrides"
	"github.com/jsvensson/themeprelude/internal/resolve"
)

var testFile = resolve.FileContext{
	ResourcePath: "/proj/src/a/b.scss",
	RootContext:  "/proj",
}

func testParams() Params {
	m := &overrides.Map{}
	m.SetString("a", "1")
	m.SetString("b", "2")
	return Params{
		Overrides: m,
		ThemePath: "../../theme/default.scss",
	}
}

// lineIndex returns the index of the first line containing substr, or -1.
func lineIndex(lines []string, substr string) int {
	for i, line := range lines {
		if strings.Contains(line, substr) {
			return i
		}
	}
	return -1
}

func TestBlockOrder(t *testing.T) {
	content := ".btn { color: $primary; }"
	out, err := Block(testParams(), content)
	if err != nil {
		t.Fatalf("Block() error: %v", err)
	}
	lines := strings.Split(out, "\n")

	order := []string{
		`@use "sass:meta";`,
		`@use "sass:map";`,
		`@use "../../theme/default.scss" as ungic-theme-config;`,
		`$ungic-theme-config: meta.module-variables(ungic-theme-config);`,
		`$ungic-theme-config: map.merge($ungic-theme-config, (a: 1,b: 2));`,
		`@use "ungic-sass-theme" as * with (`,
		`$theme: $ungic-theme-config`,
		content,
		`@include render-vars();`,
	}

	prev := -1
	for _, want := range order {
		idx := lineIndex(lines, want)
		if idx < 0 {
			t.Fatalf("output missing %q, got:\n%s", want, out)
		}
		if idx <= prev {
			t.Errorf("%q at line %d, want after line %d", want, idx, prev)
		}
		prev = idx
	}

	if !strings.HasSuffix(out, "@include render-vars();") {
		t.Errorf("output should end with render-vars include, got:\n%s", out)
	}
}

func TestBlockOverrideWins(t *testing.T) {
	out, err := Block(testParams(), "")
	if err != nil {
		t.Fatalf("Block() error: %v", err)
	}
	want := "map.merge($ungic-theme-config, (a: 1,b: 2))"
	if !strings.Contains(out, want) {
		t.Errorf("output missing %q, got:\n%s", want, out)
	}
}

func TestBlockEmptyOverrides(t *testing.T) {
	out, err := Block(Params{ThemePath: "default.scss"}, "")
	if err != nil {
		t.Fatalf("Block() error: %v", err)
	}
	if !strings.Contains(out, "map.merge($ungic-theme-config, ())") {
		t.Errorf("expected empty map literal, got:\n%s", out)
	}
}

func TestBlockAlias(t *testing.T) {
	tests := []struct {
		name      string
		includeAs string
		want      string
	}{
		{"default", "", `@use "ungic-sass-theme" as * with (`},
		{"named", "theme", `@use "ungic-sass-theme" as theme with (`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			p.IncludeAs = tt.includeAs
			out, err := Block(p, "")
			if err != nil {
				t.Fatalf("Block() error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q, got:\n%s", tt.want, out)
			}
		})
	}
}

func TestBlockThemeModule(t *testing.T) {
	p := testParams()
	p.ThemeModule = "../theme/index.scss"
	p.ConfigAlias = "cfg"
	out, err := Block(p, "")
	if err != nil {
		t.Fatalf("Block() error: %v", err)
	}
	for _, want := range []string{
		`@use "../../theme/default.scss" as cfg;`,
		`$cfg: map.merge($cfg, (a: 1,b: 2));`,
		`@use "../theme/index.scss" as * with (`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestBlockContentVerbatim(t *testing.T) {
	content := "// {{ not a template }}\n.a { b: c; }\n\n\t$x: <y> & \"z\";"
	out, err := Block(testParams(), content)
	if err != nil {
		t.Fatalf("Block() error: %v", err)
	}

	idx := strings.Index(out, content)
	if idx < 0 {
		t.Fatalf("content not found verbatim in output:\n%s", out)
	}
	if theme := strings.Index(out, `$theme: $ungic-theme-config`); theme > idx {
		t.Error("content should follow the theme include")
	}
	if vars := strings.Index(out, "@include render-vars();"); vars < idx+len(content) {
		t.Error("content should precede the render-vars include")
	}
}

func TestComposeNone(t *testing.T) {
	block, _ := Block(testParams(), "x")
	out, err := Compose(testParams(), "x", testFile, None())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if out != block {
		t.Errorf("Compose() with no chain should equal Block(), got:\n%s", out)
	}
}

func TestComposeLiteral(t *testing.T) {
	out, err := Compose(testParams(), "x", testFile, Literal("@import 'x';"))
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if !strings.HasSuffix(out, "@include render-vars();\n@import 'x';") {
		t.Errorf("literal chain should follow render-vars on its own line, got:\n%s", out)
	}
}

func TestComposeEmptyLiteral(t *testing.T) {
	out, err := Compose(testParams(), "x", testFile, Literal(""))
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if !strings.HasSuffix(out, "@include render-vars();") {
		t.Errorf("empty literal should add nothing, got:\n%s", out)
	}
}

func TestComposeCallable(t *testing.T) {
	calls := 0
	var gotContent string
	var gotFile resolve.FileContext
	prev := Callable(func(content string, fc resolve.FileContext) (string, error) {
		calls++
		gotContent = content
		gotFile = fc
		return "/* chained */", nil
	})

	out, err := Compose(testParams(), "body {}", testFile, prev)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("chained function called %d times, want 1", calls)
	}
	if gotContent != "body {}" {
		t.Errorf("chained content = %q, want %q", gotContent, "body {}")
	}
	if gotFile != testFile {
		t.Errorf("chained file context = %+v, want %+v", gotFile, testFile)
	}
	if !strings.HasSuffix(out, "@include render-vars();\n/* chained */") {
		t.Errorf("chained output should follow render-vars, got:\n%s", out)
	}
}

func TestComposeNested(t *testing.T) {
	inner := Literal("/* inner */")
	middle := Callable(func(content string, fc resolve.FileContext) (string, error) {
		return Compose(Params{ThemePath: "other.scss", IncludeAs: "other"}, content, fc, inner)
	})

	out, err := Compose(testParams(), "x", testFile, middle)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	outer := strings.Index(out, `as * with (`)
	second := strings.Index(out, `as other with (`)
	last := strings.Index(out, "/* inner */")
	if outer < 0 || second < 0 || last < 0 {
		t.Fatalf("missing chained segments in:\n%s", out)
	}
	if !(outer < second && second < last) {
		t.Errorf("chained blocks out of order: outer=%d second=%d inner=%d", outer, second, last)
	}
	if strings.Count(out, "@include render-vars();") != 2 {
		t.Errorf("expected two render-vars includes, got:\n%s", out)
	}
}

func TestComposeCallableError(t *testing.T) {
	sentinel := errors.New("predecessor failed")
	prev := Callable(func(string, resolve.FileContext) (string, error) {
		return "", sentinel
	})

	_, err := Compose(testParams(), "x", testFile, prev)
	if err != sentinel {
		t.Errorf("Compose() error = %v, want the predecessor's error unchanged", err)
	}
}

func TestPreludeVariants(t *testing.T) {
	if !None().IsNone() {
		t.Error("None() should be none")
	}
	if !Callable(nil).IsNone() {
		t.Error("Callable(nil) should be none")
	}
	if Literal("x").IsNone() {
		t.Error("Literal(x) should not be none")
	}
	if text, ok := Literal("x").Text(); !ok || text != "x" {
		t.Errorf("Literal(x).Text() = %q, %v", text, ok)
	}
	if _, ok := None().Text(); ok {
		t.Error("None().Text() should report false")
	}
	out, err := None().Render("x", testFile)
	if err != nil || out != "" {
		t.Errorf("None().Render() = %q, %v", out, err)
	}
}
