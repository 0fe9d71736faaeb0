// Package schemafile loads shapeval schemas from JSON or YAML documents
// written in the JSON Schema subset understood by shapeval.FromJSONSchema.
package schemafile

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/reoring/shapeval"
	js "github.com/reoring/shapeval/jsonschema"
	"github.com/reoring/shapeval/source"
)

// Error reports a schema document that could not be turned into a Schema.
type Error struct {
	File   string // Empty for in-memory documents.
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return "schemafile: " + msg
	}
	return fmt.Sprintf("schemafile: %s: %s", e.File, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Load reads and parses the schema document at path. The format follows the
// file extension (see source.FormatFromPath).
func Load(path string) (shapeval.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{File: path, Reason: "read failed", Cause: err}
	}
	s, err := Parse(data, source.FormatFromPath(path))
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			fe.File = path
		}
		return nil, err
	}
	return s, nil
}

// Parse decodes a schema document. Duplicate keys and keywords outside the
// supported subset are rejected.
func Parse(data []byte, f source.Format) (shapeval.Schema, error) {
	raw, err := source.Decode(data, f)
	if err != nil {
		return nil, &Error{Reason: "decode " + f.String(), Cause: err}
	}
	doc, err := DecodeDocument(raw)
	if err != nil {
		return nil, err
	}
	s, err := shapeval.FromJSONSchema(doc)
	if err != nil {
		return nil, &Error{Reason: "convert", Cause: err}
	}
	return s, nil
}

// DecodeDocument maps a generic decoded value (as produced by the source
// package) onto a jsonschema.Schema.
func DecodeDocument(raw any) (*js.Schema, error) {
	if _, ok := raw.(map[string]any); !ok {
		return nil, &Error{Reason: fmt.Sprintf("document root must be an object, got %T", raw)}
	}
	var doc js.Schema
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, &Error{Reason: "decoder setup", Cause: err}
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &Error{Reason: "invalid document", Cause: err}
	}
	return &doc, nil
}
