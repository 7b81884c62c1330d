package format

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

var (
	blankRuns        = regexp.MustCompile(`\n{3,}`)
	blankAfterOpen   = regexp.MustCompile(`\{\n\s*\n`)
	blankBeforeClose = regexp.MustCompile(`\n\s*\n(\s*\})`)
)

// Format returns prelude config source in canonical HCL style, with runs of
// blank lines collapsed and no blank lines just inside braces. Partial or
// invalid input is formatted as far as hclwrite can.
func Format(content string) string {
	out := string(hclwrite.Format([]byte(content)))
	out = blankRuns.ReplaceAllString(out, "\n\n")
	out = blankAfterOpen.ReplaceAllString(out, "{\n")
	return blankBeforeClose.ReplaceAllString(out, "\n${1}")
}

// Validate reports HCL syntax errors in content.
func Validate(filename, content string) error {
	_, diags := hclsyntax.ParseConfig([]byte(content), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return fmt.Errorf("parsing HCL: %s", diags.Error())
	}
	return nil
}
