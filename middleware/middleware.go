// Package middleware validates JSON request bodies against a shapeval schema
// before they reach a net/http handler.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/source"
)

// DefaultMaxBytes caps request bodies when Options.MaxBytes is zero.
const DefaultMaxBytes int64 = 1 << 20

// Options configures Validate.
type Options struct {
	// MaxBytes caps the request body. Zero means DefaultMaxBytes; negative
	// means unlimited.
	MaxBytes int64
	// MaxDepth limits nesting both while decoding and while validating
	// (0 = unlimited).
	MaxDepth int
	// AllowDuplicateKeys keeps the last occurrence of a repeated key instead
	// of rejecting the body.
	AllowDuplicateKeys bool
	// OnResult, when set, is called once per request with the decode or
	// validation error (nil on success).
	OnResult func(r *http.Request, err error)
}

type ctxKeyValue struct{}

// ContextWithValue attaches a validated value to ctx.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext returns the value stored by Validate.
func ValueFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyValue{})
	if v == nil {
		return nil, false
	}
	return v, true
}

// Validate returns middleware that decodes the request body as JSON and
// validates it against schema. Decode failures are answered with 400 (413 for
// oversized bodies) and validation failures with 422; in both cases the body
// is ErrorPayload(err) and next is not called.
func Validate(schema shapeval.Schema, opts ...Options) func(http.Handler) http.Handler {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	srcOpt := source.Options{MaxDepth: opt.MaxDepth, MaxBytes: opt.MaxBytes}
	switch {
	case opt.MaxBytes == 0:
		srcOpt.MaxBytes = DefaultMaxBytes
	case opt.MaxBytes < 0:
		srcOpt.MaxBytes = 0
	}
	if opt.AllowDuplicateKeys {
		srcOpt.OnDuplicateKey = source.DuplicateLastWins
	}
	// Decoding counts the top-level container as depth 1 while validation
	// starts at 0, so the decoder gets one extra level.
	if srcOpt.MaxDepth > 0 {
		srcOpt.MaxDepth++
	}
	valOpt := shapeval.Options{MaxDepth: opt.MaxDepth}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := source.DecodeJSONReader(r.Body, srcOpt)
			if err == nil {
				err = shapeval.Validate(v, schema, valOpt)
			}
			if opt.OnResult != nil {
				opt.OnResult(r, err)
			}
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

// StatusCode maps an error returned by Validate's decode or validate step to
// an HTTP status.
func StatusCode(err error) int {
	if _, ok := shapeval.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}
	var se *source.Error
	if errors.As(err, &se) && se.Code == source.CodeTruncated {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// WriteError writes ErrorPayload(err) with the status from StatusCode.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusCode(err), ErrorPayload(err))
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorPayload shapes an error for JSON responses as {"error": {...}}.
func ErrorPayload(err error) map[string]any {
	body := map[string]any{"message": err.Error()}
	if ve, ok := shapeval.AsValidationError(err); ok {
		body["code"] = ve.Code
		body["path"] = ve.Path
		body["expected"] = ve.Expected
		body["actual"] = ve.Actual
		body["message"] = ve.Message
		if len(ve.Params) > 0 {
			body["params"] = ve.Params
		}
		return map[string]any{"error": body}
	}
	var se *source.Error
	var de *source.DuplicateKeyError
	switch {
	case errors.As(err, &se):
		body["code"] = se.Code
		body["message"] = se.Message
		if se.Path != "" {
			body["path"] = se.Path
		}
	case errors.As(err, &de):
		body["code"] = source.CodeDuplicateKey
		body["path"] = de.Path
	default:
		body["code"] = "bad_request"
	}
	return map[string]any{"error": body}
}
