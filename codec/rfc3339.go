// Package codec provides ready-made field encoder/decoder pairs to attach
// through Var.Encoder/Var.Decoder. A codec result is written to (or read
// from) the mapping verbatim, bypassing the built-in cast logic.
package codec

import (
	"fmt"
	"time"
)

// TimeRFC3339Encode renders a time.Time field as a canonical RFC3339
// string: UTC, nanoseconds with trailing zeros trimmed. Nil stays nil so
// the field is omitted from sparse dumps.
func TimeRFC3339Encode(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return formatRFC3339Canonical(t), nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return formatRFC3339Canonical(*t), nil
	case string:
		// Already wire-form; verify it parses.
		if _, err := parseRFC3339(t); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("codec: cannot encode %T as RFC3339 time", v)
	}
}

// TimeRFC3339Decode restores a time.Time from its RFC3339 string form.
// Fractional seconds are optional.
func TimeRFC3339Decode(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case string:
		return parseRFC3339(t)
	default:
		return nil, fmt.Errorf("codec: cannot decode %T as RFC3339 time", v)
	}
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
