package declconf

import (
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/declconf/declconf/handlers"
	"github.com/declconf/declconf/internal/diag"
	"github.com/declconf/declconf/mapping"
)

// LoadOption adjusts mapping and format loads.
type LoadOption func(*loadConfig)

type loadConfig struct {
	validate bool
	hopts    []handlers.Option
}

// WithValidation validates the mapping against the derived schema before
// the instance is built. Validation failures abort the load.
func WithValidation() LoadOption {
	return func(c *loadConfig) { c.validate = true }
}

// WithHandlerOptions forwards format-handler options (Prefer, Root, ...)
// through a format load.
func WithHandlerOptions(opts ...handlers.Option) LoadOption {
	return func(c *loadConfig) { c.hopts = append(c.hopts, opts...) }
}

// FromMap builds an instance from an ordered mapping keyed by serialized
// field keys. Absent keys and explicit nulls resolve to the declared
// default when one exists; an absent required key with no default is an
// error. Nested config fields with no value resolve to nil, never to an
// auto-constructed instance.
func FromMap(t *Type, m *mapping.Map, opts ...LoadOption) (*Instance, error) {
	if t == nil {
		return nil, issuef("/", CodeNotConfigType, "")
	}
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.validate {
		if err := ValidateMap(t, m); err != nil {
			return nil, err
		}
	}
	return fromMapAt("", t, m)
}

func fromMapAt(path string, t *Type, m *mapping.Map) (*Instance, error) {
	if m == nil {
		m = mapping.New()
	}
	var iss Issues
	out := make(map[string]any, len(t.fields))
	for i := range t.fields {
		f := &t.fields[i]
		fpath := path + "/" + f.key
		raw, present := m.Get(f.key)
		if !present || raw == nil {
			def, hasDef := f.Default()
			if !hasDef {
				if !present && f.required && f.td.Kind() != KindConfig {
					iss = AppendIssues(iss, issuef(fpath, CodeRequired,
						"missing required key %q", f.key)...)
					continue
				}
				out[f.attr] = nil
				continue
			}
			// The decoder sees the effective value, default included.
			if f.decoder != nil {
				v, err := f.decoder(def)
				if err != nil {
					iss = AppendIssues(iss, issuef(fpath, CodeCodec,
						"decoder for field %q: %v", f.attr, err)...)
					continue
				}
				out[f.attr] = v
				continue
			}
			out[f.attr] = def
			continue
		}
		if f.decoder != nil {
			v, err := f.decoder(raw)
			if err != nil {
				iss = AppendIssues(iss, issuef(fpath, CodeCodec,
					"decoder for field %q: %v", f.attr, err)...)
				continue
			}
			out[f.attr] = v
			continue
		}
		v, err := castValue(fpath, f.td, raw)
		if err != nil {
			iss = AppendIssues(iss, asIssueList(err)...)
			continue
		}
		out[f.attr] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return &Instance{t: t, values: out}, nil
}

// ToMap dumps an instance into an ordered mapping in field declaration
// order. Nil values are omitted, so the dump is sparse. Bytes serialize as
// base64 text; nested instances dump recursively.
func ToMap(inst *Instance) (*mapping.Map, error) {
	if inst == nil || inst.t == nil {
		return nil, issuef("/", CodeNotConfigInstance, "")
	}
	return toMapAt("", inst)
}

func toMapAt(path string, inst *Instance) (*mapping.Map, error) {
	out := mapping.New()
	var iss Issues
	for i := range inst.t.fields {
		f := &inst.t.fields[i]
		fpath := path + "/" + f.key
		v := inst.values[f.attr]
		if f.encoder != nil {
			ev, err := f.encoder(v)
			if err != nil {
				iss = AppendIssues(iss, issuef(fpath, CodeCodec,
					"encoder for field %q: %v", f.attr, err)...)
				continue
			}
			if ev != nil {
				out.Set(f.key, ev)
			}
			continue
		}
		if v == nil {
			continue
		}
		dv, err := dumpValue(fpath, f.td, v)
		if err != nil {
			iss = AppendIssues(iss, asIssueList(err)...)
			continue
		}
		out.Set(f.key, dv)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func dumpValue(path string, td *TypeDesc, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if inst, ok := v.(*Instance); ok {
		return toMapAt(path, inst)
	}
	switch td.Kind() {
	case KindBytes:
		if b, ok := v.([]byte); ok {
			return base64.StdEncoding.EncodeToString(b), nil
		}
		return v, nil
	case KindEnum:
		member := false
		for _, m := range td.Members() {
			if enumMemberEqual(m, v) {
				member = true
				break
			}
		}
		if !member {
			diag.Warn("dumping value that is not an enum member",
				zap.String("path", path), zap.Any("value", v))
		}
		return v, nil
	case KindArray:
		items, ok := v.([]any)
		if !ok {
			return v, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			dv, err := dumpValue(path, td.Elem(), item)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case KindObject:
		m, ok := v.(*mapping.Map)
		if !ok {
			return mapping.Normalize(v), nil
		}
		out := mapping.New()
		for p := m.Oldest(); p != nil; p = p.Next() {
			dv, err := dumpValue(path+"/"+p.Key, td.Value(), p.Value)
			if err != nil {
				return nil, err
			}
			out.Set(p.Key, dv)
		}
		return out, nil
	case KindUnion:
		// The stored value is already canonical for whichever alternative
		// accepted it; nested instances were handled above.
		if b, ok := v.([]byte); ok {
			return base64.StdEncoding.EncodeToString(b), nil
		}
		return mapping.Normalize(v), nil
	default:
		if b, ok := v.([]byte); ok {
			return base64.StdEncoding.EncodeToString(b), nil
		}
		return mapping.Normalize(v), nil
	}
}
