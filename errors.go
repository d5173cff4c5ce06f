package declconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/declconf/declconf/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType        = "invalid_type"
	CodeRequired           = "required"
	CodeUnknownKey         = "unknown_key"
	CodeNotConfigType      = "not_config_type"
	CodeNotConfigInstance  = "not_config_instance"
	CodeInvalidModifier    = "invalid_modifier"
	CodeUnsupportedKeyType = "unsupported_key_type"
	CodeCast               = "cast_error"
	CodeInvalidEnum        = "invalid_enum"
	CodeValidation         = "validation"
	CodeCodec              = "codec_error"
	// Format handler errors (no backing library / impossible representation)
	CodeNoHandler         = "no_handler"
	CodeUnsupportedFormat = "unsupported_format"
)

// Issue represents a single declaration, coercion, or validation error.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/name).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, offending type names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"field":"port","modifier":"unique"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path: message
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issuef builds a single-issue error with a translated default message.
func issuef(path, code string, format string, args ...any) Issues {
	msg := i18n.T(code, nil)
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return Issues{{Path: path, Code: code, Message: msg}}
}
