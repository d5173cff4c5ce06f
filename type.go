package declconf

import (
	"fmt"
)

// ValueCodec transforms a single field value during dump (encoder) or load
// (decoder). A field with a codec attached bypasses the built-in cast logic
// for that direction.
type ValueCodec func(v any) (any, error)

// missingType is the sentinel distinguishing "no default declared" from an
// explicit nil default.
type missingType struct{}

func (missingType) String() string { return "<missing>" }

// Missing is the default-value sentinel. A field whose default is Missing
// has no default at all.
var Missing any = missingType{}

// Field is a single declared entry of a config type. Fields are created
// through the Var builder and frozen once the owning type is built.
type Field struct {
	attr     string // declared identifier, used by Instance.Get/Set
	key      string // serialized mapping key; defaults to attr
	td       *TypeDesc
	required bool
	def      any // Missing when no default is declared

	title       string
	description string
	examples    []any

	encoder ValueCodec
	decoder ValueCodec

	min      *float64
	max      *float64
	unique   bool
	contains any
}

// Name returns the declared field identifier.
func (f *Field) Name() string { return f.attr }

// Key returns the serialized mapping key.
func (f *Field) Key() string { return f.key }

// Type returns the field descriptor; nil means untyped.
func (f *Field) Type() *TypeDesc { return f.td }

// Required reports whether the field must be present when building from a
// mapping with no declared default.
func (f *Field) Required() bool { return f.required }

// Default returns the declared default and whether one exists.
func (f *Field) Default() (any, bool) {
	if _, missing := f.def.(missingType); missing {
		return nil, false
	}
	return f.def, true
}

// Var accumulates the declaration of a single field. All chain methods
// return the receiver.
type Var struct {
	f Field
}

// NewVar starts a field declaration with the given descriptor. Pass nil for
// an untyped field. Fields are required by default.
func NewVar(td *TypeDesc) *Var {
	return &Var{f: Field{td: td, required: true, def: Missing}}
}

// Default declares the field default, used when the key is absent or null
// in a loaded mapping.
func (v *Var) Default(val any) *Var { v.f.def = val; return v }

// Name overrides the serialized mapping key.
func (v *Var) Name(key string) *Var { v.f.key = key; return v }

// Title sets the schema title of the field.
func (v *Var) Title(s string) *Var { v.f.title = s; return v }

// Description sets the schema description of the field.
func (v *Var) Description(s string) *Var { v.f.description = s; return v }

// Required marks whether the field must be present.
func (v *Var) Required(req bool) *Var { v.f.required = req; return v }

// Optional is shorthand for Required(false).
func (v *Var) Optional() *Var { v.f.required = false; return v }

// Examples sets the schema examples of the field.
func (v *Var) Examples(ex ...any) *Var { v.f.examples = ex; return v }

// Encoder attaches a dump-side codec. The encoder result is written to the
// mapping verbatim.
func (v *Var) Encoder(fn ValueCodec) *Var { v.f.encoder = fn; return v }

// Decoder attaches a load-side codec. The decoder result becomes the
// instance value verbatim.
func (v *Var) Decoder(fn ValueCodec) *Var { v.f.decoder = fn; return v }

// Min sets the lower constraint. Its schema meaning follows the field kind:
// minimum, minLength, minItems, or minProperties.
func (v *Var) Min(n float64) *Var { v.f.min = &n; return v }

// Max sets the upper constraint, symmetric with Min.
func (v *Var) Max(n float64) *Var { v.f.max = &n; return v }

// Unique requires array elements to be distinct. Only applicable to arrays.
func (v *Var) Unique() *Var { v.f.unique = true; return v }

// Contains requires the array to contain a matching element. Only
// applicable to arrays.
func (v *Var) Contains(schema any) *Var { v.f.contains = schema; return v }

// Type is a built config type: an ordered, immutable field table plus
// schema metadata.
type Type struct {
	name        string
	title       string
	description string
	schemaID    string
	draft       string

	fields   []Field
	byAttr   map[string]int
	byKey    map[string]int
}

// Name returns the declared type name.
func (t *Type) Name() string { return t.name }

// Title returns the schema title, if set.
func (t *Type) Title() string { return t.title }

// Description returns the schema description, if set.
func (t *Type) Description() string { return t.description }

// Fields returns the fields in declaration order. The returned slice is
// shared; callers must not modify it.
func (t *Type) Fields() []Field { return t.fields }

// FieldByName looks a field up by its declared identifier.
func (t *Type) FieldByName(name string) (*Field, bool) {
	i, ok := t.byAttr[name]
	if !ok {
		return nil, false
	}
	return &t.fields[i], true
}

// fieldByKey looks a field up by its serialized mapping key.
func (t *Type) fieldByKey(key string) (*Field, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return nil, false
	}
	return &t.fields[i], true
}

// TypeBuilder assembles a config type. Declaration errors accumulate and
// surface from Build.
type TypeBuilder struct {
	t      Type
	issues Issues
}

// Config starts a type declaration with the given name.
func Config(name string) *TypeBuilder {
	b := &TypeBuilder{}
	b.t.name = name
	b.t.byAttr = map[string]int{}
	b.t.byKey = map[string]int{}
	if name == "" {
		b.issues = AppendIssues(b.issues, Issue{
			Path: "/", Code: CodeNotConfigType, Message: "config type needs a name",
		})
	}
	return b
}

// Title sets the schema title of the type.
func (b *TypeBuilder) Title(s string) *TypeBuilder { b.t.title = s; return b }

// Description sets the schema description of the type.
func (b *TypeBuilder) Description(s string) *TypeBuilder { b.t.description = s; return b }

// SchemaID overrides the root "$id" (default "<Name>.json").
func (b *TypeBuilder) SchemaID(id string) *TypeBuilder { b.t.schemaID = id; return b }

// SchemaDraft overrides the "$schema" draft URI. Drafts other than draft-07
// are kept but flagged through the diagnostic channel when the schema is
// built.
func (b *TypeBuilder) SchemaDraft(uri string) *TypeBuilder { b.t.draft = uri; return b }

// Field declares the next field in order. The Var is consumed; reusing it
// for another field copies its state at this point.
func (b *TypeBuilder) Field(name string, v *Var) *TypeBuilder {
	if v == nil {
		v = NewVar(nil)
	}
	f := v.f
	f.attr = name
	if f.key == "" {
		f.key = name
	}
	if name == "" {
		b.issues = AppendIssues(b.issues, Issue{
			Path: "/properties", Code: CodeUnknownKey, Message: "field needs a name",
		})
		return b
	}
	if _, dup := b.t.byAttr[name]; dup {
		b.issues = AppendIssues(b.issues, issuef("/properties/"+name, CodeUnknownKey,
			"duplicate field %q", name)...)
		return b
	}
	if i, dup := b.t.byKey[f.key]; dup {
		b.issues = AppendIssues(b.issues, issuef("/properties/"+name, CodeUnknownKey,
			"field %q reuses mapping key %q of field %q", name, f.key, b.t.fields[i].attr)...)
		return b
	}
	b.t.byAttr[name] = len(b.t.fields)
	b.t.byKey[f.key] = len(b.t.fields)
	b.t.fields = append(b.t.fields, f)
	return b
}

// Build finalizes the type, returning accumulated declaration errors.
func (b *TypeBuilder) Build() (*Type, error) {
	if len(b.issues) > 0 {
		return nil, b.issues
	}
	t := b.t
	return &t, nil
}

// MustBuild is Build that panics on declaration errors, for package-level
// type variables.
func (b *TypeBuilder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("declconf: %v", err))
	}
	return t
}

// FieldDef pairs a field name with its declaration, for runtime type
// synthesis through MakeType.
type FieldDef struct {
	Name string
	Var  *Var
}

// TypeOption adjusts type-level metadata in MakeType.
type TypeOption func(*TypeBuilder)

// WithTitle sets the schema title.
func WithTitle(s string) TypeOption { return func(b *TypeBuilder) { b.Title(s) } }

// WithDescription sets the schema description.
func WithDescription(s string) TypeOption { return func(b *TypeBuilder) { b.Description(s) } }

// WithSchemaID overrides the root "$id".
func WithSchemaID(id string) TypeOption { return func(b *TypeBuilder) { b.SchemaID(id) } }

// WithSchemaDraft overrides the "$schema" draft URI.
func WithSchemaDraft(uri string) TypeOption { return func(b *TypeBuilder) { b.SchemaDraft(uri) } }

// MakeType synthesizes a config type from an ordered field list at runtime.
func MakeType(name string, fields []FieldDef, opts ...TypeOption) (*Type, error) {
	b := Config(name)
	for _, opt := range opts {
		opt(b)
	}
	for _, fd := range fields {
		b.Field(fd.Name, fd.Var)
	}
	return b.Build()
}
