package shapeval

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch    = "type_mismatch"
	CodeEnumViolation   = "enum_violation"
	CodeMissingRequired = "missing_required_field"
	CodeUnknownProperty = "unknown_property"
	CodeDepthExceeded   = "depth_exceeded"
	// CodeInvalidSchema reports a nil schema node reached during validation.
	CodeInvalidSchema = "invalid_schema"
)

// Sentinels matched by errors.Is against a *ValidationError with the same code.
var (
	ErrTypeMismatch    = errors.New("shapeval: type mismatch")
	ErrEnumViolation   = errors.New("shapeval: enum violation")
	ErrMissingRequired = errors.New("shapeval: missing required field")
	ErrUnknownProperty = errors.New("shapeval: unknown property")
	ErrDepthExceeded   = errors.New("shapeval: max depth exceeded")
	ErrInvalidSchema   = errors.New("shapeval: invalid schema")
)

// ValidationError describes the first mismatch found by Validate.
type ValidationError struct {
	Code     string // One of the codes listed above.
	Path     string // JSON Pointer (for example: /items/2/price); "/" for the root.
	Expected string // Schema kind or constraint that was not met.
	Actual   string // Runtime type of the offending value.
	Message  string
	// Params carries structured parameters (e.g., {"allowed": [...], "got": "x"})
	// for i18n and observability.
	Params map[string]any
}

func (e *ValidationError) Error() string {
	// e.g. type_mismatch at /items/1: expected number, got string
	return fmt.Sprintf("%s at %s: expected %s, got %s", e.Code, e.Path, e.Expected, e.Actual)
}

// Unwrap exposes the sentinel for the error code.
func (e *ValidationError) Unwrap() error {
	switch e.Code {
	case CodeTypeMismatch:
		return ErrTypeMismatch
	case CodeEnumViolation:
		return ErrEnumViolation
	case CodeMissingRequired:
		return ErrMissingRequired
	case CodeUnknownProperty:
		return ErrUnknownProperty
	case CodeDepthExceeded:
		return ErrDepthExceeded
	case CodeInvalidSchema:
		return ErrInvalidSchema
	default:
		return nil
	}
}

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
