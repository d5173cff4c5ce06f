package declconf_test

import (
	"testing"

	declconf "github.com/declconf/declconf"
	"github.com/declconf/declconf/jsonschema"
)

func TestBuildSchemaRootDocument(t *testing.T) {
	ty := declconf.Config("Server").
		Title("Server config").
		Description("Runtime server settings").
		Field("host", declconf.NewVar(declconf.String()).Default("localhost")).
		Field("port", declconf.NewVar(declconf.Int())).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	if s.ID != "Server.json" {
		t.Fatalf("$id: %q", s.ID)
	}
	if s.Draft != jsonschema.Draft07 {
		t.Fatalf("$schema: %q", s.Draft)
	}
	if s.Type != "object" || s.Title != "Server config" {
		t.Fatalf("root: type=%q title=%q", s.Type, s.Title)
	}
}

func TestBuildSchemaRequiredSetListsEveryRequiredField(t *testing.T) {
	// A required field stays in the required array even when it carries a
	// default; only Optional removes it.
	ty := declconf.Config("T").
		Field("a", declconf.NewVar(declconf.String()).Default("x")).
		Field("b", declconf.NewVar(declconf.Int())).
		Field("c", declconf.NewVar(declconf.Bool()).Optional()).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	if len(s.Required) != 2 || s.Required[0] != "a" || s.Required[1] != "b" {
		t.Fatalf("required: %v", s.Required)
	}
}

func TestBuildSchemaTypeFidelity(t *testing.T) {
	ty := declconf.Config("T").
		Field("s", declconf.NewVar(declconf.String())).
		Field("i", declconf.NewVar(declconf.Int())).
		Field("f", declconf.NewVar(declconf.Float())).
		Field("b", declconf.NewVar(declconf.Bool())).
		Field("raw", declconf.NewVar(declconf.Bytes())).
		Field("xs", declconf.NewVar(declconf.ArrayOf(declconf.Int()))).
		Field("kv", declconf.NewVar(declconf.MapOf(declconf.String(), declconf.String()))).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	want := map[string]string{
		"s": "string", "i": "integer", "f": "number", "b": "boolean",
		"raw": "string", "xs": "array", "kv": "object",
	}
	for key, wantType := range want {
		node, ok := s.Properties.Get(key)
		if !ok {
			t.Fatalf("missing property %q", key)
		}
		if node.Type != wantType {
			t.Fatalf("%q: type %q, want %q", key, node.Type, wantType)
		}
	}
	xs, _ := s.Properties.Get("xs")
	if xs.Items == nil || xs.Items.Type != "integer" {
		t.Fatalf("array items: %+v", xs.Items)
	}
}

func TestBuildSchemaArrayItemsCarryPropertyPath(t *testing.T) {
	ty := declconf.Config("T").
		Field("xs", declconf.NewVar(declconf.ArrayOf(declconf.Int()))).
		Field("anything", declconf.NewVar(declconf.ArrayOf(nil))).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	xs, _ := s.Properties.Get("xs")
	if xs.Items == nil || xs.Items.ID != "#/properties/xs/items" {
		t.Fatalf("typed items $id: %+v", xs.Items)
	}
	// An untyped element still emits a stub items node with its path.
	anything, _ := s.Properties.Get("anything")
	if anything.Items == nil || anything.Items.ID != "#/properties/anything/items" {
		t.Fatalf("untyped items stub: %+v", anything.Items)
	}
	if anything.Items.Type != "" {
		t.Fatalf("untyped items should have no type, got %q", anything.Items.Type)
	}
}

func TestBuildSchemaPropertyIDsAndOrder(t *testing.T) {
	ty := declconf.Config("T").
		Field("z", declconf.NewVar(declconf.Int())).
		Field("a", declconf.NewVar(declconf.Int())).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	var keys []string
	for p := s.Properties.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	if len(keys) != 2 || keys[0] != "z" || keys[1] != "a" {
		t.Fatalf("property order: %v", keys)
	}
	z, _ := s.Properties.Get("z")
	if z.ID != "#/properties/z" {
		t.Fatalf("$id: %q", z.ID)
	}
}

func TestBuildSchemaEnumKeepsMemberOrder(t *testing.T) {
	ty := declconf.Config("T").
		Field("mode", declconf.NewVar(declconf.Enum("prod", "dev", "test"))).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	node, _ := s.Properties.Get("mode")
	if node.Type != "string" {
		t.Fatalf("enum scalar type: %q", node.Type)
	}
	want := []any{"prod", "dev", "test"}
	if len(node.Enum) != len(want) {
		t.Fatalf("enum: %v", node.Enum)
	}
	for i := range want {
		if node.Enum[i] != want[i] {
			t.Fatalf("enum order: %v", node.Enum)
		}
	}
}

func TestBuildSchemaMixedEnumOmitsScalarType(t *testing.T) {
	ty := declconf.Config("T").
		Field("v", declconf.NewVar(declconf.Enum("a", 1))).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	node, _ := s.Properties.Get("v")
	if node.Type != "" {
		t.Fatalf("mixed enum should omit type, got %q", node.Type)
	}
}

func TestBuildSchemaConstraintPropagation(t *testing.T) {
	ty := declconf.Config("T").
		Field("port", declconf.NewVar(declconf.Int()).Min(1).Max(65535)).
		Field("name", declconf.NewVar(declconf.String()).Min(1).Max(64)).
		Field("tags", declconf.NewVar(declconf.ArrayOf(declconf.String())).Min(1).Unique()).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	port, _ := s.Properties.Get("port")
	if port.Minimum == nil || *port.Minimum != 1 || port.Maximum == nil || *port.Maximum != 65535 {
		t.Fatalf("port bounds: %+v", port)
	}
	name, _ := s.Properties.Get("name")
	if name.MinLength == nil || *name.MinLength != 1 || name.MaxLength == nil || *name.MaxLength != 64 {
		t.Fatalf("name bounds: %+v", name)
	}
	tags, _ := s.Properties.Get("tags")
	if tags.MinItems == nil || *tags.MinItems != 1 || !tags.UniqueItems {
		t.Fatalf("tags constraints: %+v", tags)
	}
}

func TestBuildSchemaRejectsInapplicableModifier(t *testing.T) {
	ty := declconf.Config("T").
		Field("port", declconf.NewVar(declconf.Int()).Unique()).
		MustBuild()
	_, err := declconf.BuildSchema(ty)
	iss, ok := declconf.AsIssues(err)
	if !ok || iss[0].Code != declconf.CodeInvalidModifier {
		t.Fatalf("expected invalid_modifier, got %v", err)
	}
}

func TestBuildSchemaRejectsNonStringObjectKeys(t *testing.T) {
	ty := declconf.Config("T").
		Field("kv", declconf.NewVar(declconf.MapOf(declconf.Int(), declconf.String()))).
		MustBuild()
	_, err := declconf.BuildSchema(ty)
	iss, ok := declconf.AsIssues(err)
	if !ok || iss[0].Code != declconf.CodeUnsupportedKeyType {
		t.Fatalf("expected unsupported_key_type, got %v", err)
	}
}

func TestBuildSchemaRegexKeysBecomePatternProperties(t *testing.T) {
	ty := declconf.Config("T").
		Field("env", declconf.NewVar(declconf.MapOf(declconf.Regex(`^[A-Z_]+$`), declconf.String()))).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	env, _ := s.Properties.Get("env")
	node, ok := env.PatternProperties[`^[A-Z_]+$`]
	if !ok || node.Type != "string" {
		t.Fatalf("patternProperties: %+v", env.PatternProperties)
	}
}

func TestBuildSchemaUnionAnyOfOrder(t *testing.T) {
	ty := declconf.Config("T").
		Field("timeout", declconf.NewVar(declconf.Union(declconf.Int(), declconf.String()))).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	node, _ := s.Properties.Get("timeout")
	if len(node.AnyOf) != 2 || node.AnyOf[0].Type != "integer" || node.AnyOf[1].Type != "string" {
		t.Fatalf("anyOf: %+v", node.AnyOf)
	}
}

func TestBuildSchemaNestedConfig(t *testing.T) {
	sub := declconf.Config("TLS").
		Field("cert", declconf.NewVar(declconf.String())).
		MustBuild()
	ty := declconf.Config("Server").
		Field("tls", declconf.NewVar(declconf.Of(sub))).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	tls, _ := s.Properties.Get("tls")
	if tls.Type != "object" {
		t.Fatalf("nested type: %q", tls.Type)
	}
	cert, ok := tls.Properties.Get("cert")
	if !ok || cert.ID != "#/properties/tls/properties/cert" {
		t.Fatalf("nested property: %+v", cert)
	}
}

func TestBuildSchemaDefaultAppearsOnlyWhenDeclared(t *testing.T) {
	ty := declconf.Config("T").
		Field("a", declconf.NewVar(declconf.String()).Default("x")).
		Field("b", declconf.NewVar(declconf.String()).Optional()).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	a, _ := s.Properties.Get("a")
	if a.Default != "x" {
		t.Fatalf("default: %#v", a.Default)
	}
	b, _ := s.Properties.Get("b")
	if b.Default != nil {
		t.Fatalf("undeclared default leaked: %#v", b.Default)
	}
}

func TestBuildSchemaUntypedFieldHasNoTypeKeyword(t *testing.T) {
	ty := declconf.Config("T").
		Field("anything", declconf.NewVar(nil).Optional()).
		MustBuild()
	s, err := declconf.BuildSchema(ty)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	node, _ := s.Properties.Get("anything")
	if node.Type != "" {
		t.Fatalf("untyped field got type %q", node.Type)
	}
}
