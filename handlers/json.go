package handlers

import (
	"bytes"
	stdjson "encoding/json"

	gojson "github.com/goccy/go-json"

	"github.com/declconf/declconf/mapping"
)

// The JSON handler carries two codecs: goccy/go-json (default) and the
// standard library. Both honor the ordered mapping's own marshaling, so
// dump order follows declaration order; loads decode through a plain map
// with UseNumber so integers survive untruncated.

func init() {
	Register(&Handler{
		Format: "json",
		Codecs: []Codec{
			{Name: "goccy", Marshal: goccyMarshal, Unmarshal: goccyUnmarshal},
			{Name: "stdlib", Marshal: stdMarshal, Unmarshal: stdUnmarshal},
		},
		Supported: map[string]bool{"indent": true, "sort-keys": true},
	})
}

func goccyMarshal(m *mapping.Map, o Options) ([]byte, error) {
	var v any = m
	if o.SortKeys {
		v = mapping.ToPlain(m)
	}
	if o.Indent != "" {
		return gojson.MarshalIndent(v, "", o.Indent)
	}
	return gojson.Marshal(v)
}

func goccyUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return mapping.FromPlain(raw), nil
}

func stdMarshal(m *mapping.Map, o Options) ([]byte, error) {
	var v any = m
	if o.SortKeys {
		v = mapping.ToPlain(m)
	}
	if o.Indent != "" {
		return stdjson.MarshalIndent(v, "", o.Indent)
	}
	return stdjson.Marshal(v)
}

func stdUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return mapping.FromPlain(raw), nil
}
