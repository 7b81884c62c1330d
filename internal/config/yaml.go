package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

type yamlConfig struct {
	Theme struct {
		Name      string `yaml:"name"`
		Dir       string `yaml:"dir"`
		IncludeAs string `yaml:"include_as"`
		Module    string `yaml:"module"`
		WorkDir   string `yaml:"work_dir"`
	} `yaml:"theme"`
	Options yaml.Node `yaml:"options"`
	Chain   struct {
		Literal string `yaml:"literal"`
	} `yaml:"chain"`
}

// ParseYAML parses YAML config source. Option order follows the document.
func ParseYAML(src []byte, filename string) (*File, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML %s: %w", filename, err)
	}

	f := newFile()
	f.Theme = Theme(raw.Theme)
	f.Chain = raw.Chain.Literal

	opts := &raw.Options
	if opts.Kind == 0 || (opts.Kind == yaml.ScalarNode && opts.ShortTag() == "!!null") {
		return f, nil
	}
	if opts.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s:%d: options must be a mapping", filename, opts.Line)
	}
	for i := 0; i+1 < len(opts.Content); i += 2 {
		key, value := opts.Content[i], opts.Content[i+1]
		val, err := nodeToCty(value)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: options.%s: %w", filename, value.Line, key.Value, err)
		}
		f.Options.Set(key.Value, val)
	}
	return f, nil
}

// nodeToCty converts a YAML node to the cty value it describes.
func nodeToCty(n *yaml.Node) (cty.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeToCty(n.Alias)

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return cty.NullVal(cty.DynamicPseudoType), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return cty.NilVal, err
			}
			return cty.BoolVal(b), nil
		case "!!int", "!!float":
			if v, err := cty.ParseNumberVal(n.Value); err == nil {
				return v, nil
			}
			return cty.StringVal(n.Value), nil
		default:
			return cty.StringVal(n.Value), nil
		}

	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			return cty.EmptyTupleVal, nil
		}
		items := make([]cty.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToCty(c)
			if err != nil {
				return cty.NilVal, err
			}
			items = append(items, v)
		}
		return cty.TupleVal(items), nil

	case yaml.MappingNode:
		if len(n.Content) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeToCty(n.Content[i+1])
			if err != nil {
				return cty.NilVal, err
			}
			attrs[n.Content[i].Value] = v
		}
		return cty.ObjectVal(attrs), nil

	default:
		return cty.NilVal, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
	}
}
