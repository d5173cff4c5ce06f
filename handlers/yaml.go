package handlers

import (
	"bytes"
	"fmt"

	goyaml "gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/declconf/declconf/mapping"
)

// The YAML handler's default codec is gopkg.in/yaml.v3, driven through
// yaml.Node so key order survives both directions. The alternate "sigs"
// codec (sigs.k8s.io/yaml) round-trips through JSON semantics; it emits
// sorted keys and is provided for hosts standardized on that library.

func init() {
	Register(&Handler{
		Format: "yaml",
		Codecs: []Codec{
			{Name: "goyaml", Marshal: goyamlMarshal, Unmarshal: goyamlUnmarshal},
			{Name: "sigs", Marshal: sigsMarshal, Unmarshal: sigsUnmarshal},
		},
		Supported: map[string]bool{"indent": true},
	})
}

func goyamlMarshal(m *mapping.Map, o Options) ([]byte, error) {
	node, err := yamlNode(m)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := goyaml.NewEncoder(&buf)
	if o.Indent != "" {
		enc.SetIndent(len(o.Indent))
	} else {
		enc.SetIndent(2)
	}
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func goyamlUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	var doc goyaml.Node
	if err := goyaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := &doc
	if root.Kind == goyaml.DocumentNode {
		if len(root.Content) == 0 {
			return mapping.New(), nil
		}
		root = root.Content[0]
	}
	v, err := yamlValue(root)
	if err != nil {
		return nil, err
	}
	m, ok := mapping.AsMap(v)
	if !ok {
		return nil, fmt.Errorf("handlers: yaml document root is not a mapping")
	}
	return m, nil
}

// yamlNode renders a mapping value as a yaml.Node tree, emitting mapping
// keys in insertion order.
func yamlNode(v any) (*goyaml.Node, error) {
	switch t := v.(type) {
	case *mapping.Map:
		n := &goyaml.Node{Kind: goyaml.MappingNode, Tag: "!!map"}
		for p := t.Oldest(); p != nil; p = p.Next() {
			key := &goyaml.Node{}
			if err := key.Encode(p.Key); err != nil {
				return nil, err
			}
			val, err := yamlNode(p.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, val)
		}
		return n, nil
	case []any:
		n := &goyaml.Node{Kind: goyaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			c, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	default:
		n := &goyaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func yamlValue(n *goyaml.Node) (any, error) {
	switch n.Kind {
	case goyaml.MappingNode:
		m := mapping.New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, err
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		return m, nil
	case goyaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case goyaml.AliasNode:
		return yamlValue(n.Alias)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func sigsMarshal(m *mapping.Map, _ Options) ([]byte, error) {
	return sigsyaml.Marshal(mapping.ToPlain(m))
}

func sigsUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	var raw map[string]any
	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return mapping.FromPlain(raw), nil
}
