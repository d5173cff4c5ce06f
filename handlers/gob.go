package handlers

import (
	"bytes"
	"encoding/gob"

	"github.com/declconf/declconf/mapping"
)

// The gob codec is the Go-native binary format: fast same-process or
// Go-to-Go persistence with no cross-language ambitions. Concrete value
// types that travel inside interface slots are registered up front.

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register([]byte(nil))
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register(false)
	gob.Register("")

	Register(&Handler{
		Format: "gob",
		Codecs: []Codec{
			{Name: "stdlib", Marshal: gobMarshal, Unmarshal: gobUnmarshal},
		},
		Supported: map[string]bool{},
	})
}

func gobMarshal(m *mapping.Map, _ Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(mapping.ToPlain(m)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	var raw map[string]any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, err
	}
	return mapping.FromPlain(raw), nil
}
