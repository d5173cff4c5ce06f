package handlers

import (
	"bytes"

	"github.com/pelletier/go-toml/v2"

	"github.com/declconf/declconf/mapping"
)

// The TOML codec goes through go-toml/v2, which emits map keys sorted;
// declaration-order output is not available through it. Integers decode as
// int64, so numeric fidelity is preserved on loads.

func init() {
	Register(&Handler{
		Format: "toml",
		Codecs: []Codec{
			{Name: "pelletier", Marshal: tomlMarshal, Unmarshal: tomlUnmarshal},
		},
		Supported: map[string]bool{"indent": true},
	})
}

func tomlMarshal(m *mapping.Map, o Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if o.Indent != "" {
		enc.SetIndentSymbol(o.Indent)
	}
	if err := enc.Encode(mapping.ToPlain(m)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tomlUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return mapping.FromPlain(raw), nil
}
