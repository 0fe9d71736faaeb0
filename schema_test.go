package shapeval_test

import (
	"testing"

	"github.com/reoring/shapeval"
)

func TestKinds(t *testing.T) {
	cases := []struct {
		schema shapeval.Schema
		kind   shapeval.Kind
		name   string
	}{
		{shapeval.String(), shapeval.KindString, "string"},
		{shapeval.Number(), shapeval.KindNumber, "number"},
		{shapeval.Boolean(), shapeval.KindBoolean, "boolean"},
		{shapeval.Object(nil), shapeval.KindObject, "object"},
		{shapeval.Array(shapeval.Number()), shapeval.KindArray, "array"},
		{&shapeval.ArraySchema{}, shapeval.KindArray, "array"},
	}
	for _, tc := range cases {
		if got := tc.schema.Kind(); got != tc.kind || got.String() != tc.name {
			t.Errorf("%T: Kind() = %v (%s), want %v (%s)", tc.schema, got, got, tc.kind, tc.name)
		}
	}
	if got := shapeval.Kind(0).String(); got != "unknown" {
		t.Errorf("Kind(0).String() = %q", got)
	}
}

func TestConstructors(t *testing.T) {
	if enum := shapeval.String().(shapeval.StringSchema).Enum; enum != nil {
		t.Fatalf("String() enum = %v, want nil", enum)
	}
	if enum := shapeval.String("a", "b").(shapeval.StringSchema).Enum; len(enum) != 2 || enum[0] != "a" || enum[1] != "b" {
		t.Fatalf("String(a, b) enum = %v", enum)
	}

	obj := shapeval.Object(shapeval.Properties{"n": shapeval.Number()}, "n").(shapeval.ObjectSchema)
	if len(obj.Required) != 1 || obj.Required[0] != "n" {
		t.Fatalf("Required = %v", obj.Required)
	}
	if obj.Properties["n"].Kind() != shapeval.KindNumber {
		t.Fatalf("property n kind = %v", obj.Properties["n"].Kind())
	}

	arr := shapeval.Array(shapeval.Boolean()).(shapeval.ArraySchema)
	if arr.Items != (shapeval.BooleanSchema{}) {
		t.Fatalf("Items = %#v", arr.Items)
	}
}

func TestSchemas_CanBeShared(t *testing.T) {
	id := shapeval.Number()
	ref := shapeval.Object(shapeval.Properties{"id": id}, "id")
	s := shapeval.Object(shapeval.Properties{
		"owner":  ref,
		"editor": ref,
		"ids":    shapeval.Array(id),
	})
	v := map[string]any{
		"owner":  map[string]any{"id": 1},
		"editor": map[string]any{"id": 2},
		"ids":    []any{1, 2, 3},
	}
	if err := shapeval.Validate(v, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
