package declconf

import (
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/declconf/declconf/internal/diag"
	"github.com/declconf/declconf/jsonschema"
	"github.com/declconf/declconf/mapping"
)

// BuildSchema derives the JSON Schema (draft-07) document of a config type.
// Field nodes carry "$id" property paths, declared defaults, and the
// constraint modifiers applicable to their kind; an inapplicable modifier
// is an error rather than a silent omission.
func BuildSchema(t *Type) (*jsonschema.Schema, error) {
	if t == nil {
		return nil, issuef("/", CodeNotConfigType, "")
	}
	draft := t.draft
	if draft == "" {
		draft = jsonschema.Draft07
	} else if draft != jsonschema.Draft07 {
		diag.Warn("unsupported schema draft requested, emitting as declared",
			zap.String("type", t.name), zap.String("draft", draft))
	}
	id := t.schemaID
	if id == "" {
		id = t.name + ".json"
	}
	root, err := buildObjectSchema("#", t)
	if err != nil {
		return nil, err
	}
	root.ID = id
	root.Draft = draft
	return root, nil
}

func buildObjectSchema(path string, t *Type) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{
		Type:        "object",
		Title:       t.title,
		Description: t.description,
		Properties:  jsonschema.NewProperties(),
	}
	if s.Title == "" {
		s.Title = t.name
	}
	var iss Issues
	for i := range t.fields {
		f := &t.fields[i]
		fpath := path + "/properties/" + f.key
		node, err := buildFieldSchema(fpath, f)
		if err != nil {
			iss = AppendIssues(iss, asIssueList(err)...)
			continue
		}
		s.Properties.Set(f.key, node)
		if f.required {
			s.Required = append(s.Required, f.key)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

func buildFieldSchema(path string, f *Field) (*jsonschema.Schema, error) {
	node := &jsonschema.Schema{
		ID:          path,
		Title:       f.title,
		Description: f.description,
		Examples:    f.examples,
	}
	if def, ok := f.Default(); ok && def != nil {
		node.Default = schemaValue(def)
	}
	if err := checkModifiers(path, f); err != nil {
		return nil, err
	}
	frag, err := buildTypeSchema(path, f.td)
	if err != nil {
		return nil, err
	}
	node.Merge(frag)
	applyBounds(node, f)
	if f.unique {
		node.UniqueItems = true
	}
	if f.contains != nil {
		node.Contains = f.contains
	}
	return node, nil
}

// checkModifiers rejects constraint modifiers that have no meaning for the
// field kind instead of dropping them from the schema.
func checkModifiers(path string, f *Field) error {
	k := f.td.Kind()
	boundable := k == KindString || k == KindInteger || k == KindNumber ||
		k == KindArray || k == KindObject
	if (f.min != nil || f.max != nil) && !boundable {
		return issuef(path, CodeInvalidModifier,
			"min/max modifier is not applicable to %s field %q", k, f.attr)
	}
	if f.unique && k != KindArray {
		return issuef(path, CodeInvalidModifier,
			"unique modifier is not applicable to %s field %q", k, f.attr)
	}
	if f.contains != nil && k != KindArray {
		return issuef(path, CodeInvalidModifier,
			"contains modifier is not applicable to %s field %q", k, f.attr)
	}
	return nil
}

// applyBounds maps the generic min/max modifiers onto the kind-specific
// schema keywords.
func applyBounds(node *jsonschema.Schema, f *Field) {
	if f.min == nil && f.max == nil {
		return
	}
	switch f.td.Kind() {
	case KindInteger, KindNumber:
		node.Minimum = f.min
		node.Maximum = f.max
	case KindString:
		node.MinLength = intBound(f.min)
		node.MaxLength = intBound(f.max)
	case KindArray:
		node.MinItems = intBound(f.min)
		node.MaxItems = intBound(f.max)
	case KindObject:
		node.MinProperties = intBound(f.min)
		node.MaxProperties = intBound(f.max)
	}
}

func intBound(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func buildTypeSchema(path string, td *TypeDesc) (*jsonschema.Schema, error) {
	switch td.Kind() {
	case KindInvalid:
		// Untyped: no "type" keyword at all.
		return &jsonschema.Schema{}, nil
	case KindUnknown:
		diag.Warn("field type has no schema representation", zap.String("path", path))
		return &jsonschema.Schema{}, nil
	case KindNull:
		return &jsonschema.Schema{Type: "null"}, nil
	case KindBool:
		return &jsonschema.Schema{Type: "boolean"}, nil
	case KindInteger:
		return &jsonschema.Schema{Type: "integer"}, nil
	case KindNumber:
		return &jsonschema.Schema{Type: "number"}, nil
	case KindBytes:
		// Bytes travel as base64 text.
		return &jsonschema.Schema{Type: "string"}, nil
	case KindString:
		s := &jsonschema.Schema{Type: "string"}
		if p := td.Pattern(); p != nil {
			s.Pattern = p.String()
		}
		return s, nil
	case KindEnum:
		s := &jsonschema.Schema{Enum: schemaEnumMembers(td.Members())}
		switch enumScalarKind(td.Members()) {
		case KindBool:
			s.Type = "boolean"
		case KindString:
			s.Type = "string"
		case KindInteger:
			s.Type = "integer"
		case KindNumber:
			s.Type = "number"
		}
		return s, nil
	case KindArray:
		s := &jsonschema.Schema{Type: "array"}
		// An untyped element still gets a stub items node carrying its
		// property path.
		items := &jsonschema.Schema{ID: path + "/items"}
		if td.Elem() != nil {
			frag, err := buildTypeSchema(path+"/items", td.Elem())
			if err != nil {
				return nil, err
			}
			items.Merge(frag)
		}
		s.Items = items
		return s, nil
	case KindObject:
		key := td.Key()
		switch key.Kind() {
		case KindInvalid, KindString:
		default:
			return nil, issuef(path, CodeUnsupportedKeyType,
				"object keys must be strings, got %s", key.Kind())
		}
		s := &jsonschema.Schema{Type: "object"}
		if td.Value() != nil {
			val, err := buildTypeSchema(path+"/patternProperties", td.Value())
			if err != nil {
				return nil, err
			}
			pattern := "^(.*)$"
			if p := key.Pattern(); p != nil {
				pattern = p.String()
			}
			s.PatternProperties = map[string]*jsonschema.Schema{pattern: val}
		}
		return s, nil
	case KindUnion:
		s := &jsonschema.Schema{}
		for _, alt := range td.Alternatives() {
			frag, err := buildTypeSchema(path, alt)
			if err != nil {
				return nil, err
			}
			s.AnyOf = append(s.AnyOf, frag)
		}
		return s, nil
	case KindConfig:
		return buildObjectSchema(path, td.ConfigType())
	default:
		return &jsonschema.Schema{}, nil
	}
}

// schemaEnumMembers canonicalizes declared members for schema emission so
// that Go int literals appear as JSON integers.
func schemaEnumMembers(members []any) []any {
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = schemaValue(m)
	}
	return out
}

// schemaValue converts a declared Go value into its schema-document form.
func schemaValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(t)
	case *mapping.Map:
		return mapping.ToPlain(t)
	default:
		if isIntegral(v) {
			return widenInt(v)
		}
		return v
	}
}
