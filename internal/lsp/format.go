package lsp

import (
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/themeprelude/internal/format"
)

// formatEdits returns the edits that bring content to canonical form: a
// single whole-document replacement, or none when it is already formatted.
func formatEdits(content string) []protocol.TextEdit {
	formatted := format.Format(content)
	if formatted == content {
		return []protocol.TextEdit{}
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   documentEnd(content),
		},
		NewText: formatted,
	}}
}

// documentEnd returns the position just past the last character, in
// UTF-16 code units.
func documentEnd(content string) protocol.Position {
	lines := strings.Split(content, "\n")
	last := lines[len(lines)-1]
	return protocol.Position{
		Line:      uint32(len(lines) - 1),
		Character: uint32(len(utf16.Encode([]rune(last)))),
	}
}
