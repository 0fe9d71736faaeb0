// Package shapeval validates dynamically-typed values against a small,
// declarative schema model.
//
// It provides:
//
//   - A closed set of five schema kinds (string, number, boolean, object, array)
//   - A fail-fast validation engine that reports the first mismatch only
//   - A stable error model via ValidationError (JSON Pointer path, code, message)
//   - Projection to and from JSON Schema documents (see the jsonschema package)
//
// Design policy:
//   - Keep the schema model and the engine in the root package; decoders live
//     under source/, schema documents under schemafile/, the HTTP boundary under
//     middleware/ and the CLI under cmd/shapeval.
//   - Objects are closed: data keys not declared in Properties are rejected.
//   - The engine is pure. It never mutates its inputs and holds no state, so a
//     single Schema may be shared by concurrent callers.
//
// Typical usage:
//
//	s := shapeval.Object(shapeval.Properties{
//	    "name": shapeval.String(),
//	    "tags": shapeval.Array(shapeval.String()),
//	}, "name")
//
//	v, err := source.DecodeJSON(data)
//	if err != nil {
//	    return err
//	}
//	if err := shapeval.Validate(v, s); err != nil {
//	    verr, _ := shapeval.AsValidationError(err)
//	    log.Printf("%s at %s", verr.Code, verr.Path)
//	}
//
// Schemas are assumed to be acyclic. Set Options.MaxDepth when validating
// untrusted input or schemas of unknown provenance.
package shapeval
