package declconf

import (
	"reflect"
	"regexp"
)

// Kind identifies the JSON-facing category a field type falls into.
type Kind int

const (
	// KindInvalid marks an untyped field. Untyped fields accept any value
	// and contribute no "type" keyword to the derived schema.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindBytes
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
	KindEnum
	KindUnion
	KindConfig
	// KindUnknown marks a Go type the classifier cannot express in a
	// schema (chan, func, complex, ...). Schema building emits a warning
	// and an empty fragment for it.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "untyped"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// TypeDesc is the closed descriptor for a field type. Descriptors are built
// through the package constructors and are immutable afterwards, so a
// descriptor may be shared between fields and types.
type TypeDesc struct {
	kind    Kind
	pattern *regexp.Regexp // String built via Regex
	elem    *TypeDesc      // Array
	key     *TypeDesc      // Object
	value   *TypeDesc      // Object
	members []any          // Enum, in declaration order
	alts    []*TypeDesc    // Union, in declaration order
	config  *Type          // Config
}

// Kind reports the descriptor category. A nil descriptor is untyped.
func (td *TypeDesc) Kind() Kind {
	if td == nil {
		return KindInvalid
	}
	return td.kind
}

// Pattern returns the compiled pattern of a Regex string descriptor, or nil.
func (td *TypeDesc) Pattern() *regexp.Regexp {
	if td == nil {
		return nil
	}
	return td.pattern
}

// Elem returns the element descriptor of an array.
func (td *TypeDesc) Elem() *TypeDesc { return td.elem }

// Key returns the key descriptor of an object.
func (td *TypeDesc) Key() *TypeDesc { return td.key }

// Value returns the value descriptor of an object.
func (td *TypeDesc) Value() *TypeDesc { return td.value }

// Members returns the enum members in declaration order.
func (td *TypeDesc) Members() []any { return td.members }

// Alternatives returns the union alternatives in declaration order.
func (td *TypeDesc) Alternatives() []*TypeDesc { return td.alts }

// ConfigType returns the nested config type of a Config descriptor.
func (td *TypeDesc) ConfigType() *Type { return td.config }

// Null describes a field that only admits null.
func Null() *TypeDesc { return &TypeDesc{kind: KindNull} }

// Bool describes a boolean field.
func Bool() *TypeDesc { return &TypeDesc{kind: KindBool} }

// Bytes describes a binary field, serialized as base64 text.
func Bytes() *TypeDesc { return &TypeDesc{kind: KindBytes} }

// Int describes an integer field.
func Int() *TypeDesc { return &TypeDesc{kind: KindInteger} }

// Float describes a floating-point field.
func Float() *TypeDesc { return &TypeDesc{kind: KindNumber} }

// String describes a string field.
func String() *TypeDesc { return &TypeDesc{kind: KindString} }

// Regex describes a string field constrained by the given pattern. The
// pattern must compile; Regex panics otherwise, matching the MustBuild
// convention for declaration-time errors.
func Regex(pattern string) *TypeDesc {
	return &TypeDesc{kind: KindString, pattern: regexp.MustCompile(pattern)}
}

// ArrayOf describes an array whose elements follow elem. A nil elem leaves
// the elements untyped.
func ArrayOf(elem *TypeDesc) *TypeDesc { return &TypeDesc{kind: KindArray, elem: elem} }

// MapOf describes a free-form object with the given key and value
// descriptors. Keys must classify as strings (plain or Regex); that is
// enforced when the schema is built.
func MapOf(key, value *TypeDesc) *TypeDesc {
	return &TypeDesc{kind: KindObject, key: key, value: value}
}

// Enum describes a field restricted to the given members. Member order is
// preserved in the derived schema.
func Enum(members ...any) *TypeDesc {
	ms := make([]any, len(members))
	copy(ms, members)
	return &TypeDesc{kind: KindEnum, members: ms}
}

// Union describes a field that accepts any of the given alternatives, tried
// in declaration order.
func Union(alts ...*TypeDesc) *TypeDesc {
	as := make([]*TypeDesc, len(alts))
	copy(as, alts)
	return &TypeDesc{kind: KindUnion, alts: as}
}

// Of describes a field holding a nested config of the given type.
func Of(t *Type) *TypeDesc { return &TypeDesc{kind: KindConfig, config: t} }

// enumScalarKind reports the uniform scalar kind of the enum members, or
// KindInvalid when the members mix categories. Bool is probed before the
// numeric kinds so that boolean members never classify as integers.
func enumScalarKind(members []any) Kind {
	if len(members) == 0 {
		return KindInvalid
	}
	all := func(pred func(any) bool) bool {
		for _, m := range members {
			if !pred(m) {
				return false
			}
		}
		return true
	}
	if all(func(m any) bool { _, ok := m.(bool); return ok }) {
		return KindBool
	}
	if all(func(m any) bool { _, ok := m.(string); return ok }) {
		return KindString
	}
	if all(isIntegral) {
		return KindInteger
	}
	if all(func(m any) bool { return isIntegral(m) || isFloat(m) }) {
		return KindNumber
	}
	return KindInvalid
}

func isIntegral(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

// GoType classifies an arbitrary Go type into a descriptor. Types with no
// schema representation classify as Unknown; the empty interface classifies
// as untyped.
func GoType(rt reflect.Type) *TypeDesc {
	if rt == nil {
		return Null()
	}
	switch rt.Kind() {
	case reflect.Bool:
		return Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int()
	case reflect.Float32, reflect.Float64:
		return Float()
	case reflect.String:
		return String()
	case reflect.Slice, reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			return Bytes()
		}
		return ArrayOf(GoType(rt.Elem()))
	case reflect.Map:
		return MapOf(GoType(rt.Key()), GoType(rt.Elem()))
	case reflect.Pointer:
		return GoType(rt.Elem())
	case reflect.Interface:
		if rt.NumMethod() == 0 {
			return nil // untyped
		}
		return &TypeDesc{kind: KindUnknown}
	default:
		return &TypeDesc{kind: KindUnknown}
	}
}

// TypeOf classifies a Go value. Config types and instances classify as
// Config descriptors of their type.
func TypeOf(v any) *TypeDesc {
	switch t := v.(type) {
	case nil:
		return Null()
	case *Type:
		return Of(t)
	case *Instance:
		return Of(t.Type())
	default:
		return GoType(reflect.TypeOf(v))
	}
}
