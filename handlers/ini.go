package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/declconf/declconf/mapping"
)

// The INI codec flattens nested mappings into dotted section paths under a
// top-level root section ([server], [server.tls], ...). Scalar lists are
// comma-joined; an array of mappings has no INI shape and is a fatal
// error. Loads guess scalar types (bool, int, float, then string), so the
// declared field type is what restores fidelity afterwards.

func init() {
	Register(&Handler{
		Format: "ini",
		Codecs: []Codec{
			{Name: "goini", Marshal: iniMarshal, Unmarshal: iniUnmarshal},
		},
		Supported: map[string]bool{"root-section": true},
	})
}

func iniMarshal(m *mapping.Map, o Options) ([]byte, error) {
	rootName := o.RootSection
	if rootName == "" {
		rootName = "config"
	}
	f := ini.Empty()
	if err := iniFillSection(f, rootName, m); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func iniFillSection(f *ini.File, name string, m *mapping.Map) error {
	sec, err := f.NewSection(name)
	if err != nil {
		return err
	}
	// Scalars and lists first, nested sections after, so each section body
	// stays contiguous.
	for p := m.Oldest(); p != nil; p = p.Next() {
		if _, nested := p.Value.(*mapping.Map); nested {
			continue
		}
		v, err := iniEncodeValue(name, p.Key, p.Value)
		if err != nil {
			return err
		}
		if _, err := sec.NewKey(p.Key, v); err != nil {
			return err
		}
	}
	for p := m.Oldest(); p != nil; p = p.Next() {
		if sub, nested := p.Value.(*mapping.Map); nested {
			if err := iniFillSection(f, name+"."+p.Key, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func iniEncodeValue(section, key string, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			if _, nested := item.(*mapping.Map); nested {
				return "", fmt.Errorf("%w: [%s] %s", ErrINIArrayOfMaps, section, key)
			}
			s, err := iniEncodeScalar(item)
			if err != nil {
				return "", fmt.Errorf("[%s] %s: %w", section, key, err)
			}
			parts[i] = s
		}
		// A trailing comma marks a one-element list; without it the load
		// would hand back a bare scalar.
		if len(parts) == 1 {
			return parts[0] + ",", nil
		}
		return strings.Join(parts, ", "), nil
	default:
		s, err := iniEncodeScalar(t)
		if err != nil {
			return "", fmt.Errorf("[%s] %s: %w", section, key, err)
		}
		return s, nil
	}
}

func iniEncodeScalar(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 64), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case nil:
		return "", nil
	default:
		if isIntValue(v) {
			return fmt.Sprintf("%d", v), nil
		}
		return "", fmt.Errorf("handlers: ini cannot represent %T", v)
	}
}

func iniUnmarshal(data []byte, o Options) (*mapping.Map, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	rootName := o.RootSection
	out := mapping.New()
	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		parts := strings.Split(name, ".")
		if rootName == "" && name != ini.DefaultSection {
			rootName = parts[0]
		}
		if len(parts) > 0 && parts[0] == rootName {
			parts = parts[1:]
		}
		target := out
		for _, part := range parts {
			if part == "" {
				continue
			}
			next, ok := target.Get(part)
			sub, isMap := next.(*mapping.Map)
			if !ok || !isMap {
				sub = mapping.New()
				target.Set(part, sub)
			}
			target = sub
		}
		for _, key := range sec.Keys() {
			target.Set(key.Name(), iniDecodeValue(key.Value()))
		}
	}
	return out, nil
}

// iniDecodeValue restores a value from its text form: comma-separated
// values become lists, and each scalar is probed as bool, int, float, then
// falls back to string.
func iniDecodeValue(raw string) any {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		// Drop the empty tail left by the one-element-list marker.
		if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
			parts = parts[:len(parts)-1]
		}
		out := make([]any, len(parts))
		for i, part := range parts {
			out[i] = iniDecodeScalar(strings.TrimSpace(part))
		}
		return out
	}
	return iniDecodeScalar(raw)
}

func iniDecodeScalar(raw string) any {
	switch raw {
	case "true", "false":
		b, _ := strconv.ParseBool(raw)
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
