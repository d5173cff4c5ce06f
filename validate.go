package declconf

import (
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/declconf/declconf/mapping"
)

// Validate checks an instance against the schema derived from its type.
// A failure is returned as Issues with the validation code, one issue per
// schema violation.
func Validate(inst *Instance) error {
	if inst == nil || inst.t == nil {
		return issuef("/", CodeNotConfigInstance, "")
	}
	m, err := ToMap(inst)
	if err != nil {
		return err
	}
	return ValidateMap(inst.t, m)
}

// ValidateMap checks an ordered mapping against the schema derived from the
// given type, without building an instance.
func ValidateMap(t *Type, m *mapping.Map) error {
	schema, err := BuildSchema(t)
	if err != nil {
		return err
	}
	schemaJSON, err := gojson.Marshal(schema)
	if err != nil {
		return issuef("/", CodeValidation, "marshaling schema: %v", err)
	}
	if m == nil {
		m = mapping.New()
	}
	docJSON, err := gojson.Marshal(m)
	if err != nil {
		return issuef("/", CodeValidation, "marshaling document: %v", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(docJSON),
	)
	if err != nil {
		return issuef("/", CodeValidation, "running validation: %v", err)
	}
	if result.Valid() {
		return nil
	}
	var iss Issues
	for _, re := range result.Errors() {
		iss = AppendIssues(iss, Issue{
			Path:    pointerFromField(re.Field()),
			Code:    CodeValidation,
			Message: re.Description(),
			Params:  map[string]any{"keyword": re.Type()},
		})
	}
	return iss
}

// pointerFromField converts gojsonschema's dotted field notation
// ("server.port", "(root)") into a JSON pointer.
func pointerFromField(field string) string {
	if field == "" || field == "(root)" {
		return "/"
	}
	return "/" + strings.ReplaceAll(field, ".", "/")
}
