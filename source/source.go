// Package source decodes JSON and YAML documents into the dynamic values
// validated by shapeval: map[string]any, []any, string, numbers, bool and nil.
//
// JSON numbers are decoded as json.Number so no precision is lost; YAML
// integers become int64 and floats float64. Duplicate object keys are rejected
// unless Options.OnDuplicateKey says otherwise.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	eng "github.com/reoring/shapeval/internal/engine"
)

// Error codes reported by decoders.
const (
	CodeParseError    = "parse_error"
	CodeDuplicateKey  = "duplicate_key"
	CodeDepthExceeded = "depth_exceeded"
	CodeTruncated     = "truncated"
)

// DuplicatePolicy controls how duplicate object keys are handled.
type DuplicatePolicy int

const (
	DuplicateReject   DuplicatePolicy = iota // Fail with CodeDuplicateKey.
	DuplicateLastWins                        // Keep the last occurrence.
)

// Options bundles decoding options.
type Options struct {
	OnDuplicateKey DuplicatePolicy
	// MaxDepth limits container nesting (0 = unlimited). A top-level object
	// or array is at depth 1.
	MaxDepth int
	// MaxBytes caps the input size (0 = unlimited).
	MaxBytes int64
}

func lastOpt(opts []Options) Options {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return Options{}
}

// Error describes a decoding failure.
type Error struct {
	Code    string
	Path    string // JSON Pointer of the offending token when known.
	Message string
	Offset  int64 // Byte offset in the input (-1 when unknown).
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// toError maps engine and driver errors into *Error.
func toError(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	var dke *DuplicateKeyError
	if errors.As(err, &dke) {
		return dke
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &Error{Code: ie.Code, Path: ie.Path, Message: ie.Message, Offset: -1}
	}
	return &Error{Code: CodeParseError, Message: err.Error(), Offset: -1}
}

// Format identifies a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from a file extension; anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode decodes a single document in the given format.
func Decode(data []byte, f Format, opts ...Options) (any, error) {
	if f == FormatYAML {
		return DecodeYAML(data, opts...)
	}
	return DecodeJSON(data, opts...)
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func checkSize(n int, opt Options) error {
	if opt.MaxBytes > 0 && int64(n) > opt.MaxBytes {
		return &Error{Code: CodeTruncated, Message: "max bytes exceeded", Offset: opt.MaxBytes}
	}
	return nil
}
