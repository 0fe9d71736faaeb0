package shapeval

// Kind discriminates the five schema variants.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBoolean
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Schema is a node of a schema tree. The set of implementations is closed:
// StringSchema, NumberSchema, BooleanSchema, ObjectSchema and ArraySchema.
// Pointers to them are accepted as well.
type Schema interface {
	Kind() Kind
	schemaNode()
}

// Properties maps property names to their schemas.
type Properties map[string]Schema

// StringSchema accepts strings. A non-nil Enum restricts the value to one of
// the listed strings (exact, case-sensitive match).
type StringSchema struct {
	Enum []string
}

// NumberSchema accepts any numeric value.
type NumberSchema struct{}

// BooleanSchema accepts true and false.
type BooleanSchema struct{}

// ObjectSchema accepts string-keyed maps whose keys are all declared in
// Properties. Names in Required must be present in the value.
type ObjectSchema struct {
	Properties Properties
	Required   []string
}

// ArraySchema accepts sequences whose elements all satisfy Items.
type ArraySchema struct {
	Items Schema
}

func (StringSchema) Kind() Kind  { return KindString }
func (NumberSchema) Kind() Kind  { return KindNumber }
func (BooleanSchema) Kind() Kind { return KindBoolean }
func (ObjectSchema) Kind() Kind  { return KindObject }
func (ArraySchema) Kind() Kind   { return KindArray }

func (StringSchema) schemaNode()  {}
func (NumberSchema) schemaNode()  {}
func (BooleanSchema) schemaNode() {}
func (ObjectSchema) schemaNode()  {}
func (ArraySchema) schemaNode()   {}

// resolve unwraps pointers to the five node structs so *StringSchema and
// friends behave like their values. A nil pointer resolves to nil.
func resolve(s Schema) Schema {
	switch p := s.(type) {
	case *StringSchema:
		if p != nil {
			return *p
		}
	case *NumberSchema:
		if p != nil {
			return *p
		}
	case *BooleanSchema:
		if p != nil {
			return *p
		}
	case *ObjectSchema:
		if p != nil {
			return *p
		}
	case *ArraySchema:
		if p != nil {
			return *p
		}
	default:
		return s
	}
	return nil
}

// String returns a string schema. Passing values restricts it to that enum.
func String(enum ...string) Schema {
	if len(enum) == 0 {
		return StringSchema{}
	}
	return StringSchema{Enum: enum}
}

// Number returns a number schema.
func Number() Schema { return NumberSchema{} }

// Boolean returns a boolean schema.
func Boolean() Schema { return BooleanSchema{} }

// Object returns an object schema with the given properties and required names.
func Object(props Properties, required ...string) Schema {
	return ObjectSchema{Properties: props, Required: required}
}

// Array returns an array schema whose elements must satisfy items.
func Array(items Schema) Schema { return ArraySchema{Items: items} }
