package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/themeprelude/internal/config"
	"github.com/jsvensson/themeprelude/internal/resolve"
)

const diagSource = "themeprelude"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
)

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	line, col := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze checks a prelude config document and returns its diagnostics.
// uri is used for locating the theme directory; non-file URIs skip the
// theme file check. YAML documents are recognized by extension.
func Analyze(uri, content string) []protocol.Diagnostic {
	path := uriToPath(uri)
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		return analyzeYAML(path, content)
	}
	return analyzeHCL(path, content)
}

func analyzeHCL(path, content string) []protocol.Diagnostic {
	f, diags := config.DecodeHCL([]byte(content), path)
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, hclDiagToLSP(d))
	}
	if f == nil || diags.HasErrors() || !filepath.IsAbs(path) {
		return out
	}

	f.ResolveDirs(filepath.Dir(path))
	if d, ok := checkTheme(f, themeRange(content, path)); ok {
		out = append(out, d)
	}
	return out
}

func analyzeYAML(path, content string) []protocol.Diagnostic {
	f, err := config.ParseYAML([]byte(content), path)
	if err != nil {
		return []protocol.Diagnostic{newDiagnostic(protocol.Range{}, DiagError, err.Error())}
	}
	if !filepath.IsAbs(path) {
		return nil
	}
	f.ResolveDirs(filepath.Dir(path))
	if d, ok := checkTheme(f, protocol.Range{}); ok {
		return []protocol.Diagnostic{d}
	}
	return nil
}

// checkTheme reports a missing theme file as an error at rng.
func checkTheme(f *config.File, rng protocol.Range) (protocol.Diagnostic, bool) {
	name := f.Theme.Name
	if name == "" {
		name = resolve.DefaultName
	}
	if err := resolve.Check(f.Theme.Dir, name); err != nil {
		return newDiagnostic(rng, DiagError, err.Error()), true
	}
	return protocol.Diagnostic{}, false
}

// themeRange returns the range of the theme block header, or the start of
// the document when there is none.
func themeRange(content, path string) protocol.Range {
	file, diags := hclsyntax.ParseConfig([]byte(content), path, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return protocol.Range{}
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return protocol.Range{}
	}
	for _, block := range body.Blocks {
		if block.Type == "theme" {
			return hclRangeToLSP(block.DefRange())
		}
	}
	return protocol.Range{}
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	msg := d.Summary
	if d.Detail != "" {
		msg = d.Summary + ": " + d.Detail
	}

	var rng protocol.Range
	if d.Subject != nil {
		rng = hclRangeToLSP(*d.Subject)
	}
	return newDiagnostic(rng, sev, msg)
}

func newDiagnostic(rng protocol.Range, sev protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	source := diagSource
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &sev,
		Source:   &source,
		Message:  msg,
	}
}

// uriToPath returns the filesystem path of a file:// URI, or uri unchanged.
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}
