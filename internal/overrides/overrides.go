package overrides

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Map is an insertion-ordered set of theme variable overrides. Values are
// raw SCSS expressions held as cty values. The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]cty.Value
}

// New returns a Map holding the given values. Keys are added in sorted
// order since Go maps carry none.
func New(values map[string]cty.Value) *Map {
	m := &Map{}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, values[k])
	}
	return m
}

// Set assigns a value. A key that is already present keeps its position.
func (m *Map) Set(key string, val cty.Value) {
	if m.values == nil {
		m.values = make(map[string]cty.Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// SetString assigns a raw string expression.
func (m *Map) SetString(key, expr string) {
	m.Set(key, cty.StringVal(expr))
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (cty.Value, bool) {
	if m == nil {
		return cty.NilVal, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Literal renders the map as an SCSS map literal, e.g. "(a: 1,b: red)".
func (m *Map) Literal() (string, error) {
	entries := make([]string, 0, m.Len())
	for _, k := range m.Keys() {
		v, err := Render(m.values[k])
		if err != nil {
			return "", fmt.Errorf("override %s: %w", k, err)
		}
		entries = append(entries, k+": "+v)
	}
	return "(" + strings.Join(entries, ",") + ")", nil
}

// Render converts a cty value to the SCSS expression it stands for.
// Strings are emitted verbatim; quoting is up to the caller.
func Render(val cty.Value) (string, error) {
	if val.IsNull() {
		return "null", nil
	}
	if !val.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		return val.AsBigFloat().Text('f', -1), nil
	case ty == cty.Bool:
		if val.True() {
			return "true", nil
		}
		return "false", nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		items := make([]string, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := Render(elem)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		if len(items) == 1 {
			// (x) is a parenthesized value in Sass, not a list.
			return "(" + items[0] + ",)", nil
		}
		return "(" + strings.Join(items, ", ") + ")", nil
	case ty.IsMapType() || ty.IsObjectType():
		nested := &Map{}
		for it := val.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			nested.Set(k.AsString(), elem)
		}
		return nested.Literal()
	default:
		return "", fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
