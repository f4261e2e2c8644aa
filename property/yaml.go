package property

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML mapping into m, keeping the document's key
// order. Aliases and merge keys ("<<") are expanded.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	node = derefNode(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping, got %s", node.Line, nodeKindName(node.Kind))
	}

	v, err := valueFromNode(node)
	if err != nil {
		return err
	}

	if m.values == nil {
		m.values = make(map[string]Value)
	}

	for _, e := range v.entries {
		m.Set(e.Key, e.Value)
	}

	return nil
}

// MarshalYAML encodes m as an ordered YAML mapping.
func (m *Map) MarshalYAML() (any, error) {
	return m.Value().yamlNode(false)
}

// UnmarshalYAML decodes any YAML node into v.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	out, err := valueFromNode(node)
	if err != nil {
		return err
	}

	*v = out

	return nil
}

// MarshalYAML encodes v as a YAML node. List-like arrays become sequences.
func (v Value) MarshalYAML() (any, error) {
	return v.yamlNode(true)
}

func (v Value) yamlNode(allowSequence bool) (*yaml.Node, error) {
	switch v.kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.boolean)}, nil
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.integer, 10)}, nil
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(v.float)}, nil
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}, nil
	case KindArray:
		if allowSequence && v.IsList() {
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

			for _, e := range v.entries {
				child, err := e.Value.yamlNode(true)
				if err != nil {
					return nil, err
				}

				seq.Content = append(seq.Content, child)
			}

			return seq, nil
		}

		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

		for _, e := range v.entries {
			child, err := e.Value.yamlNode(true)
			if err != nil {
				return nil, err
			}

			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				child,
			)
		}

		return mapping, nil
	default:
		return nil, fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}

	s := formatFloat(f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

func valueFromNode(node *yaml.Node) (Value, error) {
	node = derefNode(node)

	switch node.Kind {
	case yaml.ScalarNode:
		return scalarFromNode(node)
	case yaml.SequenceNode:
		values := make([]Value, 0, len(node.Content))

		for _, item := range node.Content {
			v, err := valueFromNode(item)
			if err != nil {
				return Value{}, err
			}

			values = append(values, v)
		}

		return List(values...), nil
	case yaml.MappingNode:
		out := EmptyArray()

		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := derefNode(node.Content[i]), node.Content[i+1]

			if keyNode.ShortTag() == "!!merge" {
				merged, err := mergeSources(valNode)
				if err != nil {
					return Value{}, err
				}

				for _, e := range merged {
					if _, exists := out.Lookup(e.Key); !exists {
						out = out.With(e.Key, e.Value)
					}
				}

				continue
			}

			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}

			if keyNode.Value == "" {
				return Value{}, fmt.Errorf("line %d: empty key", keyNode.Line)
			}

			v, err := valueFromNode(valNode)
			if err != nil {
				return Value{}, err
			}

			out = out.With(keyNode.Value, v)
		}

		return out, nil
	case 0:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML node %s", node.Line, nodeKindName(node.Kind))
	}
}

func scalarFromNode(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}

		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return Float(f), nil
	default:
		return Str(node.Value), nil
	}
}

// mergeSources returns the entries contributed by the value of a "<<" key,
// which is either a mapping or a sequence of mappings. Earlier mappings in a
// sequence take precedence.
func mergeSources(node *yaml.Node) ([]Entry, error) {
	node = derefNode(node)

	var sources []*yaml.Node

	switch node.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{node}
	case yaml.SequenceNode:
		sources = node.Content
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", node.Line)
	}

	merged := EmptyArray()

	for _, src := range sources {
		src = derefNode(src)
		if src.Kind != yaml.MappingNode {
			return nil, errors.New("merge sequence must contain only mappings")
		}

		v, err := valueFromNode(src)
		if err != nil {
			return nil, err
		}

		for _, e := range v.entries {
			if _, exists := merged.Lookup(e.Key); !exists {
				merged = merged.With(e.Key, e.Value)
			}
		}
	}

	return merged.entries, nil
}

func derefNode(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}

	return &yaml.Node{}
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty"
	}
}
