package handlers

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/declconf/declconf/mapping"
)

// The MessagePack codec drives the encoder directly so dumped maps keep
// insertion order. Decoded maps come back untyped; key order is not part
// of the wire contract on the way in.

func init() {
	Register(&Handler{
		Format: "msgpack",
		Codecs: []Codec{
			{Name: "vmihailenco", Marshal: msgpackMarshal, Unmarshal: msgpackUnmarshal},
		},
		Supported: map[string]bool{},
	})
}

func msgpackMarshal(m *mapping.Map, _ Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := msgpackEncodeValue(enc, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func msgpackEncodeValue(enc *msgpack.Encoder, v any) error {
	switch t := v.(type) {
	case *mapping.Map:
		if err := enc.EncodeMapLen(t.Len()); err != nil {
			return err
		}
		for p := t.Oldest(); p != nil; p = p.Next() {
			if err := enc.EncodeString(p.Key); err != nil {
				return err
			}
			if err := msgpackEncodeValue(enc, p.Value); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, item := range t {
			if err := msgpackEncodeValue(enc, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(t)
	}
}

func msgpackUnmarshal(data []byte, _ Options) (*mapping.Map, error) {
	var raw any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	m, ok := mapping.AsMap(mapping.Normalize(raw))
	if !ok {
		return nil, fmt.Errorf("handlers: msgpack document root is not a map")
	}
	return m, nil
}
