package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/jsvensson/themeprelude/internal/resolve"
)

// hclTheme is the theme block.
type hclTheme struct {
	Name      string `hcl:"name,optional"`
	Dir       string `hcl:"dir,optional"`
	IncludeAs string `hcl:"include_as,optional"`
	Module    string `hcl:"module,optional"`
	WorkDir   string `hcl:"work_dir,optional"`
}

// hclOptions keeps the options body for source-ordered evaluation.
type hclOptions struct {
	Entries hcl.Body `hcl:",remain"`
}

type hclChain struct {
	Literal string `hcl:"literal"`
}

type hclConfig struct {
	Theme   *hclTheme   `hcl:"theme,block"`
	Options *hclOptions `hcl:"options,block"`
	Chain   *hclChain   `hcl:"chain,block"`
}

// ParseHCL parses HCL config source.
func ParseHCL(src []byte, filename string) (*File, error) {
	f, diags := DecodeHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}
	return f, nil
}

// DecodeHCL parses HCL config source and returns every diagnostic found.
// The returned File is nil only when the source cannot be parsed at all.
func DecodeHCL(src []byte, filename string) (*File, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}

	var raw hclConfig
	diags = append(diags, gohcl.DecodeBody(file.Body, baseEvalContext(), &raw)...)

	f := newFile()
	if raw.Theme != nil {
		f.Theme = Theme(*raw.Theme)
	}
	if raw.Chain != nil {
		f.Chain = raw.Chain.Literal
	}
	if raw.Options != nil {
		diags = append(diags, decodeOptions(raw.Options.Entries, optionsEvalContext(f.Theme), f)...)
	}
	return f, diags
}

// decodeOptions evaluates option attributes in source order.
func decodeOptions(body hcl.Body, ctx *hcl.EvalContext, f *File) hcl.Diagnostics {
	sb, ok := body.(*hclsyntax.Body)
	if !ok {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported options body",
			Detail:   "the options block must be native HCL syntax",
		}}
	}

	var diags hcl.Diagnostics
	for _, block := range sb.Blocks {
		rng := block.DefRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected block in options",
			Detail:   fmt.Sprintf("%s: nested blocks are not supported; use an object expression", block.Type),
			Subject:  &rng,
		})
	}

	attrs := make([]*hclsyntax.Attribute, 0, len(sb.Attributes))
	for _, attr := range sb.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	for _, attr := range attrs {
		val, valDiags := attr.Expr.Value(ctx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		if !val.IsWhollyKnown() {
			rng := attr.Expr.Range()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown option value",
				Detail:   fmt.Sprintf("options.%s could not be fully evaluated", attr.Name),
				Subject:  &rng,
			})
			continue
		}
		f.Options.Set(attr.Name, val)
	}
	return diags
}

var functions = map[string]function.Function{
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"format": stdlib.FormatFunc,
	"join":   stdlib.JoinFunc,
	"concat": stdlib.ConcatFunc,
	"min":    stdlib.MinFunc,
	"max":    stdlib.MaxFunc,
}

func baseEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Functions: functions}
}

// optionsEvalContext exposes the theme block to option expressions, e.g.
// brand = format("'%s'", theme.name). An unset name reads as the default.
func optionsEvalContext(t Theme) *hcl.EvalContext {
	if t.Name == "" {
		t.Name = resolve.DefaultName
	}
	ctx := baseEvalContext()
	ctx.Variables = map[string]cty.Value{
		"theme": cty.ObjectVal(map[string]cty.Value{
			"name":       cty.StringVal(t.Name),
			"include_as": cty.StringVal(t.IncludeAs),
			"module":     cty.StringVal(t.Module),
		}),
	}
	return ctx
}
