package declconf

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/declconf/declconf/mapping"
)

// Cast coerces raw into the canonical native form of the descriptor:
// string, int64, float64, bool, []byte, []any, *mapping.Map, *Instance, or
// nil. Untyped and unknown descriptors pass raw through unchanged (plain
// maps normalized to ordered form). Failures carry the cast_error code.
func Cast(td *TypeDesc, raw any) (any, error) {
	return castValue("/", td, raw)
}

func castValue(path string, td *TypeDesc, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch td.Kind() {
	case KindInvalid, KindUnknown:
		return mapping.Normalize(raw), nil
	case KindNull:
		return nil, issuef(path, CodeCast, "cannot cast %T to null", raw)
	case KindBool:
		return castBool(path, raw)
	case KindInteger:
		return castInt(path, raw)
	case KindNumber:
		return castFloat(path, raw)
	case KindString:
		return castString(path, raw)
	case KindBytes:
		return castBytes(path, raw)
	case KindArray:
		return castArray(path, td, raw)
	case KindObject:
		return castObject(path, td, raw)
	case KindEnum:
		return castEnum(path, td, raw)
	case KindUnion:
		return castUnion(path, td, raw)
	case KindConfig:
		return castConfig(path, td, raw)
	default:
		return nil, issuef(path, CodeCast, "unhandled descriptor kind %s", td.Kind())
	}
}

func castBool(path string, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, issuef(path, CodeCast, "cannot cast %q to bool", v)
		}
		return b, nil
	default:
		return nil, issuef(path, CodeCast, "cannot cast %T to bool", raw)
	}
}

func castInt(path string, raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, issuef(path, CodeCast, "integer overflow: %d", v)
		}
		return int64(v), nil
	case float32:
		return floatToInt(path, float64(v))
	case float64:
		return floatToInt(path, v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		if f, err := v.Float64(); err == nil {
			return floatToInt(path, f)
		}
		return nil, issuef(path, CodeCast, "cannot cast %q to integer", v.String())
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, issuef(path, CodeCast, "cannot cast %q to integer", v)
		}
		return n, nil
	default:
		return nil, issuef(path, CodeCast, "cannot cast %T to integer", raw)
	}
}

func floatToInt(path string, f float64) (any, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, issuef(path, CodeCast, "cannot cast non-integral %v to integer", f)
	}
	return int64(f), nil
}

func castFloat(path string, raw any) (any, error) {
	switch v := raw.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, issuef(path, CodeCast, "cannot cast %q to number", v.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, issuef(path, CodeCast, "cannot cast %q to number", v)
		}
		return f, nil
	default:
		return nil, issuef(path, CodeCast, "cannot cast %T to number", raw)
	}
}

func castString(path string, raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		// Flat formats (INI) type-guess their scalars; re-render what was
		// declared a string.
		return strconv.FormatBool(v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		if isIntegral(raw) {
			return strconv.FormatInt(widenInt(raw), 10), nil
		}
		return nil, issuef(path, CodeCast, "cannot cast %T to string", raw)
	}
}

func castBytes(path string, raw any) (any, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(v))
		if err != nil {
			return nil, issuef(path, CodeCast, "invalid base64 for bytes field: %v", err)
		}
		return b, nil
	default:
		return nil, issuef(path, CodeCast, "cannot cast %T to bytes", raw)
	}
}

func castArray(path string, td *TypeDesc, raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, issuef(path, CodeCast, "cannot cast %T to array", raw)
		}
		items = make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
	}
	out := make([]any, len(items))
	var iss Issues
	for i, item := range items {
		v, err := castValue(fmt.Sprintf("%s/%d", path, i), td.Elem(), item)
		if err != nil {
			iss = AppendIssues(iss, asIssueList(err)...)
			continue
		}
		out[i] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func castObject(path string, td *TypeDesc, raw any) (any, error) {
	m, ok := mapping.AsMap(raw)
	if !ok {
		return nil, issuef(path, CodeCast, "cannot cast %T to object", raw)
	}
	out := mapping.New()
	var iss Issues
	for p := m.Oldest(); p != nil; p = p.Next() {
		v, err := castValue(path+"/"+p.Key, td.Value(), p.Value)
		if err != nil {
			iss = AppendIssues(iss, asIssueList(err)...)
			continue
		}
		out.Set(p.Key, v)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func castEnum(path string, td *TypeDesc, raw any) (any, error) {
	// Coerce through the uniform member kind first so that e.g. a
	// json.Number matches an integer member.
	probe := raw
	switch enumScalarKind(td.Members()) {
	case KindBool:
		if v, err := castBool(path, raw); err == nil {
			probe = v
		}
	case KindString:
		if v, err := castString(path, raw); err == nil {
			probe = v
		}
	case KindInteger:
		if v, err := castInt(path, raw); err == nil {
			probe = v
		}
	case KindNumber:
		if v, err := castFloat(path, raw); err == nil {
			probe = v
		}
	}
	for _, m := range td.Members() {
		if enumMemberEqual(m, probe) {
			return probe, nil
		}
	}
	return nil, issuef(path, CodeInvalidEnum, "%v is not a member of the enum", raw)
}

func enumMemberEqual(member, v any) bool {
	if member == v {
		return true
	}
	// Integer members are declared as Go ints but arrive canonicalized to
	// int64; compare through a widened form.
	if isIntegral(member) && isIntegral(v) {
		return widenInt(member) == widenInt(v)
	}
	if (isIntegral(member) || isFloat(member)) && (isIntegral(v) || isFloat(v)) {
		return widenFloat(member) == widenFloat(v)
	}
	return false
}

func widenInt(v any) int64 {
	rv := reflect.ValueOf(v)
	if rv.CanUint() {
		return int64(rv.Uint())
	}
	return rv.Int()
}

func widenFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanFloat():
		return rv.Float()
	case rv.CanUint():
		return float64(rv.Uint())
	default:
		return float64(rv.Int())
	}
}

func castUnion(path string, td *TypeDesc, raw any) (any, error) {
	for _, alt := range td.Alternatives() {
		if v, err := castValue(path, alt, raw); err == nil {
			return v, nil
		}
	}
	return nil, issuef(path, CodeCast,
		"%T matches none of the %d union alternatives", raw, len(td.Alternatives()))
}

func castConfig(path string, td *TypeDesc, raw any) (any, error) {
	ct := td.ConfigType()
	switch v := raw.(type) {
	case *Instance:
		if v.Type() != ct {
			return nil, issuef(path, CodeNotConfigInstance,
				"instance of %s where %s expected", v.Type().Name(), ct.Name())
		}
		return v, nil
	default:
		m, ok := mapping.AsMap(raw)
		if !ok {
			return nil, issuef(path, CodeCast, "cannot cast %T to config %s", raw, ct.Name())
		}
		inst, err := fromMapAt(path, ct, m)
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
}
