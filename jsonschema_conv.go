package shapeval

import (
	"fmt"
	"maps"
	"slices"

	js "github.com/reoring/shapeval/jsonschema"
)

// ToJSONSchema projects s into a JSON Schema document. Objects are emitted
// with additionalProperties=false to match the closed-object semantics of
// Validate. A nil schema projects to nil.
func ToJSONSchema(s Schema) *js.Schema {
	switch sc := resolve(s).(type) {
	case StringSchema:
		out := &js.Schema{Type: "string"}
		if sc.Enum != nil {
			out.Enum = make([]any, len(sc.Enum))
			for i, e := range sc.Enum {
				out.Enum[i] = e
			}
		}
		return out
	case NumberSchema:
		return &js.Schema{Type: "number"}
	case BooleanSchema:
		return &js.Schema{Type: "boolean"}
	case ObjectSchema:
		out := &js.Schema{
			Type:                 "object",
			Properties:           make(map[string]*js.Schema, len(sc.Properties)),
			AdditionalProperties: false,
		}
		for name, sub := range sc.Properties {
			out.Properties[name] = ToJSONSchema(sub)
		}
		if len(sc.Required) > 0 {
			out.Required = slices.Clone(sc.Required)
		}
		return out
	case ArraySchema:
		return &js.Schema{Type: "array", Items: ToJSONSchema(sc.Items)}
	default:
		return nil
	}
}

// FromJSONSchema builds a Schema from a JSON Schema document. Only the subset
// expressible by this package is accepted: a "type" on every node, string
// enums, closed objects and homogeneous arrays.
func FromJSONSchema(doc *js.Schema) (Schema, error) {
	return fromJSONSchema(doc, nil)
}

func fromJSONSchema(doc *js.Schema, p *pathStep) (Schema, error) {
	if doc == nil {
		return nil, fmt.Errorf("shapeval: schema at %s is empty", p.pointer())
	}
	if len(doc.Enum) > 0 && doc.Type != "string" {
		return nil, fmt.Errorf("shapeval: schema at %s: enum is only supported for type string", p.pointer())
	}
	switch doc.Type {
	case "string":
		if doc.Enum == nil {
			return StringSchema{}, nil
		}
		enum := make([]string, 0, len(doc.Enum))
		for i, e := range doc.Enum {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("shapeval: schema at %s: enum[%d] is %T, want string", p.pointer(), i, e)
			}
			enum = append(enum, s)
		}
		return StringSchema{Enum: enum}, nil
	case "number":
		return NumberSchema{}, nil
	case "boolean":
		return BooleanSchema{}, nil
	case "object":
		if ap, ok := doc.AdditionalProperties.(bool); doc.AdditionalProperties != nil && (!ok || ap) {
			return nil, fmt.Errorf("shapeval: schema at %s: only additionalProperties=false is supported", p.pointer())
		}
		props := make(Properties, len(doc.Properties))
		for _, name := range slices.Sorted(maps.Keys(doc.Properties)) {
			s, err := fromJSONSchema(doc.Properties[name], p.field("properties").field(name))
			if err != nil {
				return nil, err
			}
			props[name] = s
		}
		return ObjectSchema{Properties: props, Required: slices.Clone(doc.Required)}, nil
	case "array":
		if doc.Items == nil {
			return nil, fmt.Errorf("shapeval: schema at %s: array requires items", p.pointer())
		}
		items, err := fromJSONSchema(doc.Items, p.field("items"))
		if err != nil {
			return nil, err
		}
		return ArraySchema{Items: items}, nil
	case "":
		return nil, fmt.Errorf("shapeval: schema at %s: missing type", p.pointer())
	default:
		return nil, fmt.Errorf("shapeval: schema at %s: unsupported type %q", p.pointer(), doc.Type)
	}
}
