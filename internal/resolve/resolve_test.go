package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTheme(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+Ext), []byte("$primary: red;\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCheckExisting(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "default")

	if err := Check(dir, "default"); err != nil {
		t.Fatalf("Check() error: %v", err)
	}
}

func TestCheckMissing(t *testing.T) {
	dir := t.TempDir()

	err := Check(dir, "dark")
	if err == nil {
		t.Fatal("expected error for missing theme file")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
	want := filepath.Join(dir, "dark.scss")
	if cfgErr.Path != want {
		t.Errorf("Path = %q, want %q", cfgErr.Path, want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error message %q should contain %q", err.Error(), want)
	}
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "default.scss"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Check(dir, "default"); err == nil {
		t.Fatal("expected error when theme path is a directory")
	}
}

func TestThemePath(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		resource string
		root     string
		want     string
	}{
		{"nested resource", "/proj/theme", "/proj/src/a/b.scss", "/proj", "../../theme/default.scss"},
		{"resource at root", "/proj/theme", "/proj/b.scss", "/proj", "theme/default.scss"},
		{"theme at root", "/proj", "/proj/b.scss", "/proj", "default.scss"},
		{"theme beside resource", "/proj/src", "/proj/src/b.scss", "/proj", "default.scss"},
		{"theme outside root", "/shared/themes", "/proj/src/b.scss", "/proj", "../../shared/themes/default.scss"},
		{"unclean inputs", "/proj//theme/", "/proj/src/./a/b.scss", "/proj/", "../../theme/default.scss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := FileContext{ResourcePath: tt.resource, RootContext: tt.root}
			got := ThemePath(tt.dir, "default", fc, "")
			if got != tt.want {
				t.Errorf("ThemePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// The result must match relativizing the theme against the root-relative
// resource directory, computed independently.
func TestThemePathDoubleRelative(t *testing.T) {
	root := "/proj"
	fc := FileContext{ResourcePath: "/proj/src/a/b.scss", RootContext: root}

	fromRoot, err := filepath.Rel(root, "/proj/src/a")
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.Rel(filepath.Join(root, fromRoot), "/proj/theme/default.scss")
	if err != nil {
		t.Fatal(err)
	}
	want = filepath.ToSlash(want)

	got := ThemePath("/proj/theme", "default", fc, "")
	if got != want {
		t.Errorf("ThemePath() = %q, want %q", got, want)
	}
}

func TestThemePathWorkDir(t *testing.T) {
	fc := FileContext{ResourcePath: "/proj/src/b.scss", RootContext: "/proj"}

	// "src" anchored at /elsewhere reaches /proj/theme through the filesystem root.
	got := ThemePath("/proj/theme", "default", fc, "/elsewhere")
	want := "../../proj/theme/default.scss"
	if got != want {
		t.Errorf("ThemePath() = %q, want %q", got, want)
	}
}

func TestThemePathNeverEmpty(t *testing.T) {
	fc := FileContext{ResourcePath: "/proj/main.scss", RootContext: "/proj"}
	got := ThemePath("/proj", "default", fc, "")
	if got == "" || strings.HasPrefix(got, "/") {
		t.Errorf("ThemePath() = %q, want a non-empty relative specifier", got)
	}
}

func TestThemePathSeparators(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"backslash in dir", `/proj/theme\\nested`, `theme/nested/default.scss`},
		{"doubled slashes", "/proj//theme///nested", "theme/nested/default.scss"},
	}

	fc := FileContext{ResourcePath: "/proj/main.scss", RootContext: "/proj"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ThemePath(tt.dir, "default", fc, "")
			if got != tt.want {
				t.Errorf("ThemePath() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "\\") || strings.Contains(got, "//") {
				t.Errorf("ThemePath() = %q, want single forward slashes", got)
			}
		})
	}
}
