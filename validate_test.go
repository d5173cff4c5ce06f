package declconf_test

import (
	"testing"

	declconf "github.com/declconf/declconf"
	"github.com/declconf/declconf/mapping"
)

func TestValidateAcceptsConformingInstance(t *testing.T) {
	ty := declconf.Config("T").
		Field("port", declconf.NewVar(declconf.Int()).Min(1).Max(65535)).
		MustBuild()
	inst := ty.MustNew(map[string]any{"port": 8080})
	if err := declconf.Validate(inst); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateMapReportsEachViolationWithPath(t *testing.T) {
	ty := declconf.Config("T").
		Field("port", declconf.NewVar(declconf.Int()).Min(1).Max(65535)).
		Field("mode", declconf.NewVar(declconf.Enum("dev", "prod"))).
		MustBuild()
	m := mapping.Of(
		mapping.Pair{Key: "port", Value: 700000},
		mapping.Pair{Key: "mode", Value: "dev"},
	)
	err := declconf.ValidateMap(ty, m)
	iss, ok := declconf.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	found := false
	for _, is := range iss {
		if is.Code != declconf.CodeValidation {
			t.Fatalf("code: %q", is.Code)
		}
		if is.Path == "/port" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no issue at /port: %v", iss)
	}
}

func TestValidateMapMissingRequired(t *testing.T) {
	ty := declconf.Config("T").
		Field("port", declconf.NewVar(declconf.Int())).
		MustBuild()
	err := declconf.ValidateMap(ty, mapping.New())
	if err == nil {
		t.Fatalf("expected validation failure for missing required key")
	}
}
