package shapeval

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/reoring/shapeval/i18n"
)

// Options bundles validation options.
type Options struct {
	// MaxDepth limits nesting depth (0 = unlimited). The root value is at
	// depth 0 and each property or element step adds one.
	MaxDepth int
}

// Validate checks value against schema and returns nil on success. On failure
// it returns a *ValidationError describing the first mismatch found; no
// further checks run after it.
//
// When several options are passed, the last one wins.
func Validate(value any, schema Schema, opts ...Options) error {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	w := walker{maxDepth: opt.MaxDepth}
	if verr := w.validate(value, schema, nil, 0); verr != nil {
		return verr
	}
	return nil
}

// Is reports whether value conforms to schema.
func Is(value any, schema Schema, opts ...Options) bool {
	return Validate(value, schema, opts...) == nil
}

type walker struct {
	maxDepth int
}

func (w walker) validate(v any, s Schema, p *pathStep, depth int) *ValidationError {
	if w.maxDepth > 0 && depth > w.maxDepth {
		return newError(CodeDepthExceeded, p, "depth <= "+strconv.Itoa(w.maxDepth), typeName(v),
			map[string]any{"max": w.maxDepth, "depth": depth})
	}
	switch sc := resolve(s).(type) {
	case StringSchema:
		return checkString(v, sc, p)
	case NumberSchema:
		if typeOf(v) != typeNumber {
			return mismatch(KindNumber, v, p)
		}
		return nil
	case BooleanSchema:
		if typeOf(v) != typeBoolean {
			return mismatch(KindBoolean, v, p)
		}
		return nil
	case ObjectSchema:
		return w.checkObject(v, sc, p, depth)
	case ArraySchema:
		return w.checkArray(v, sc, p, depth)
	case nil:
		return newError(CodeInvalidSchema, p, "schema", "nil", nil)
	default:
		// unreachable while the interface stays sealed
		return newError(CodeInvalidSchema, p, "schema", fmt.Sprintf("%T", s), nil)
	}
}

func checkString(v any, s StringSchema, p *pathStep) *ValidationError {
	str, ok := asString(v)
	if !ok {
		return mismatch(KindString, v, p)
	}
	if s.Enum != nil && !slices.Contains(s.Enum, str) {
		return newError(CodeEnumViolation, p, "one of ["+strings.Join(s.Enum, " ")+"]", "string",
			map[string]any{"allowed": s.Enum, "got": str})
	}
	return nil
}

func (w walker) checkObject(v any, s ObjectSchema, p *pathStep, depth int) *ValidationError {
	obj, ok := asObject(v)
	if !ok {
		return mismatch(KindObject, v, p)
	}
	for _, name := range s.Required {
		if _, present := obj[name]; !present {
			return newError(CodeMissingRequired, p.field(name), "property "+strconv.Quote(name), "missing",
				map[string]any{"field": name})
		}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sub, declared := s.Properties[k]
		if !declared {
			return newError(CodeUnknownProperty, p.field(k), "declared property", typeName(obj[k]),
				map[string]any{"key": k})
		}
		if verr := w.validate(obj[k], sub, p.field(k), depth+1); verr != nil {
			return verr
		}
	}
	return nil
}

func (w walker) checkArray(v any, s ArraySchema, p *pathStep, depth int) *ValidationError {
	if arr, ok := v.([]any); ok {
		for i := range arr {
			if verr := w.validate(arr[i], s.Items, p.elem(i), depth+1); verr != nil {
				return verr
			}
		}
		return nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return mismatch(KindArray, v, p)
	}
	for i := 0; i < rv.Len(); i++ {
		if verr := w.validate(rv.Index(i).Interface(), s.Items, p.elem(i), depth+1); verr != nil {
			return verr
		}
	}
	return nil
}

func mismatch(want Kind, v any, p *pathStep) *ValidationError {
	return newError(CodeTypeMismatch, p, want.String(), typeName(v), nil)
}

func newError(code string, p *pathStep, expected, actual string, params map[string]any) *ValidationError {
	ptr := p.pointer()
	return &ValidationError{
		Code:     code,
		Path:     ptr,
		Expected: expected,
		Actual:   actual,
		Message:  i18n.T(code, map[string]string{"expected": expected, "actual": actual, "path": ptr}),
		Params:   params,
	}
}

// ---- runtime value classification ----

type valueType int

const (
	typeOther valueType = iota
	typeNull
	typeString
	typeNumber
	typeBoolean
	typeObject
	typeArray
)

func typeOf(v any) valueType {
	switch v.(type) {
	case nil:
		return typeNull
	case string:
		return typeString
	case bool:
		return typeBoolean
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return typeNumber
	case map[string]any:
		return typeObject
	case []any:
		return typeArray
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return typeString
	case reflect.Bool:
		return typeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return typeNumber
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return typeObject
		}
	case reflect.Slice, reflect.Array:
		return typeArray
	case reflect.Pointer:
		if rv.IsNil() {
			return typeNull
		}
	}
	return typeOther
}

func typeName(v any) string {
	switch typeOf(v) {
	case typeNull:
		return "null"
	case typeString:
		return "string"
	case typeNumber:
		return "number"
	case typeBoolean:
		return "boolean"
	case typeObject:
		return "object"
	case typeArray:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if typeOf(v) != typeString {
		return "", false
	}
	return reflect.ValueOf(v).String(), true
}

func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if typeOf(v) != typeObject {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}
