package compose

import "github.com/jsvensson/themeprelude/internal/resolve"

// Func produces prelude text for one stylesheet.
type Func func(content string, fc resolve.FileContext) (string, error)

type kind int

const (
	kindNone kind = iota
	kindLiteral
	kindCallable
)

// Prelude is a prelude value: nothing, a fixed string, or a per-file
// function. The zero value is None.
type Prelude struct {
	kind kind
	text string
	fn   Func
}

// None returns the empty prelude.
func None() Prelude {
	return Prelude{}
}

// Literal returns a prelude that always yields text.
func Literal(text string) Prelude {
	return Prelude{kind: kindLiteral, text: text}
}

// Callable returns a prelude backed by fn. A nil fn yields None.
func Callable(fn Func) Prelude {
	if fn == nil {
		return None()
	}
	return Prelude{kind: kindCallable, fn: fn}
}

// IsNone reports whether p contributes nothing.
func (p Prelude) IsNone() bool {
	switch p.kind {
	case kindLiteral:
		return p.text == ""
	case kindCallable:
		return false
	default:
		return true
	}
}

// Text returns the fixed text of a literal prelude.
func (p Prelude) Text() (string, bool) {
	return p.text, p.kind == kindLiteral
}

// Render returns the prelude's output for one stylesheet. Errors from a
// callable are returned as-is.
func (p Prelude) Render(content string, fc resolve.FileContext) (string, error) {
	switch p.kind {
	case kindLiteral:
		return p.text, nil
	case kindCallable:
		return p.fn(content, fc)
	default:
		return "", nil
	}
}

// RenderBytes renders p for content given as raw bytes, decoded as UTF-8.
func (p Prelude) RenderBytes(content []byte, fc resolve.FileContext) (string, error) {
	return p.Render(string(content), fc)
}
