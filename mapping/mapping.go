// Package mapping provides the ordered string-keyed map that serves as the
// intermediate representation between config instances and every serialized
// form. Key order is preserved end-to-end so that formats where ordering is
// observable (YAML, INI, XML) emit fields in declaration order.
package mapping

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered map with string keys. It marshals to JSON in
// insertion order via the underlying implementation.
type Map = orderedmap.OrderedMap[string, any]

// Pair is a single key/value entry, used by Of for literal construction.
type Pair struct {
	Key   string
	Value any
}

// New returns an empty ordered map.
func New() *Map {
	return orderedmap.New[string, any]()
}

// Of builds an ordered map from the given pairs, preserving their order.
func Of(pairs ...Pair) *Map {
	m := New()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// FromPlain converts a plain Go map into an ordered Map. Plain maps carry no
// ordering, so keys are sorted for determinism. Nested maps and slices are
// converted recursively.
func FromPlain(src map[string]any) *Map {
	m := New()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, Normalize(src[k]))
	}
	return m
}

// AsMap reports whether v is mapping-shaped and returns it as an ordered Map.
// Accepts *Map and plain map[string]any.
func AsMap(v any) (*Map, bool) {
	switch t := v.(type) {
	case *Map:
		return t, true
	case map[string]any:
		return FromPlain(t), true
	default:
		return nil, false
	}
}

// Normalize recursively converts plain maps inside v into ordered Maps so
// that downstream code only ever sees *Map for mapping-shaped values.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromPlain(t)
	case map[any]any:
		strKeyed := make(map[string]any, len(t))
		for k, val := range t {
			if s, ok := k.(string); ok {
				strKeyed[s] = val
			}
		}
		return FromPlain(strKeyed)
	case *Map:
		out := New()
		for p := t.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, Normalize(p.Value))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// ToPlain converts an ordered Map back into a plain map[string]any,
// recursing into nested Maps and slices. Ordering is lost; use only for
// consumers that cannot accept a Map (gob, TOML marshaling, validators).
func ToPlain(m *Map) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = plainValue(p.Value)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return ToPlain(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports deep equality of two ordered maps, including key order.
func Equal(a, b *Map) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	pa, pb := a.Oldest(), b.Oldest()
	for pa != nil && pb != nil {
		if pa.Key != pb.Key || !valueEqual(pa.Value, pb.Value) {
			return false
		}
		pa, pb = pa.Next(), pb.Next()
	}
	return pa == nil && pb == nil
}

func valueEqual(a, b any) bool {
	am, aok := a.(*Map)
	bm, bok := b.(*Map)
	if aok || bok {
		return aok && bok && Equal(am, bm)
	}
	as, aok := a.([]any)
	bs, bok := b.([]any)
	if aok || bok {
		if !aok || !bok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !valueEqual(as[i], bs[i]) {
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
