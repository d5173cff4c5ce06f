package declconf

import (
	"github.com/declconf/declconf/mapping"
)

// Instance is a value of a config type. Field values are held in their
// canonical native form (see Cast); nested configs are held as *Instance.
type Instance struct {
	t      *Type
	values map[string]any
}

// Type returns the config type of the instance.
func (inst *Instance) Type() *Type { return inst.t }

// New constructs an instance from the given values, keyed by declared field
// name. Values are cast to their canonical form; unknown keys and missing
// required fields are errors. Absent fields take their declared default, or
// nil when none exists.
func (t *Type) New(values map[string]any) (*Instance, error) {
	if t == nil {
		return nil, issuef("/", CodeNotConfigType, "")
	}
	var iss Issues
	out := make(map[string]any, len(t.fields))
	for name := range values {
		if _, ok := t.byAttr[name]; !ok {
			iss = AppendIssues(iss, issuef("/"+name, CodeUnknownKey,
				"unknown field %q for config type %s", name, t.name)...)
		}
	}
	for i := range t.fields {
		f := &t.fields[i]
		raw, present := values[f.attr]
		if !present {
			if def, ok := f.Default(); ok {
				out[f.attr] = def
				continue
			}
			if f.required {
				iss = AppendIssues(iss, issuef("/"+f.attr, CodeRequired,
					"missing required field %q", f.attr)...)
				continue
			}
			out[f.attr] = nil
			continue
		}
		v, err := castValue("/"+f.attr, f.td, raw)
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

// MustNew is New that panics on error, for test fixtures and literals.
func (t *Type) MustNew(values map[string]any) *Instance {
	inst, err := t.New(values)
	if err != nil {
		panic("declconf: " + err.Error())
	}
	return inst
}

// Get returns the value of the named field and whether the field exists on
// the type.
func (inst *Instance) Get(name string) (any, bool) {
	if inst == nil || inst.t == nil {
		return nil, false
	}
	if _, ok := inst.t.byAttr[name]; !ok {
		return nil, false
	}
	return inst.values[name], true
}

// Set replaces the value of the named field, casting it to canonical form.
func (inst *Instance) Set(name string, v any) error {
	f, ok := inst.t.FieldByName(name)
	if !ok {
		return issuef("/"+name, CodeUnknownKey,
			"unknown field %q for config type %s", name, inst.t.name)
	}
	cv, err := castValue("/"+name, f.td, v)
	if err != nil {
		return err
	}
	inst.values[name] = cv
	return nil
}

// Equal reports deep equality: same config type and equal field values,
// recursing through nested instances, mappings, and arrays.
func (inst *Instance) Equal(other *Instance) bool {
	if inst == nil || other == nil {
		return inst == other
	}
	if inst.t != other.t {
		return false
	}
	for i := range inst.t.fields {
		name := inst.t.fields[i].attr
		if !instValueEqual(inst.values[name], other.values[name]) {
			return false
		}
	}
	return true
}

func instValueEqual(a, b any) bool {
	ai, aok := a.(*Instance)
	bi, bok := b.(*Instance)
	if aok || bok {
		return aok && bok && ai.Equal(bi)
	}
	am, aok := a.(*mapping.Map)
	bm, bok := b.(*mapping.Map)
	if aok || bok {
		if !aok || !bok || am.Len() != bm.Len() {
			return false
		}
		pa, pb := am.Oldest(), bm.Oldest()
		for pa != nil && pb != nil {
			if pa.Key != pb.Key || !instValueEqual(pa.Value, pb.Value) {
				return false
			}
			pa, pb = pa.Next(), pb.Next()
		}
		return pa == nil && pb == nil
	}
	as, aok := a.([]any)
	bs, bok := b.([]any)
	if aok || bok {
		if !aok || !bok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !instValueEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	ab, aok := a.([]byte)
	bb, bok := b.([]byte)
	if aok || bok {
		if !aok || !bok || len(ab) != len(bb) {
			return false
		}
		for i := range ab {
			if ab[i] != bb[i] {
				return false
			}
		}
		return true
	}
	return a == b
}

func asIssueList(err error) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: "/", Code: CodeCast, Message: err.Error(), Cause: err}}
}
