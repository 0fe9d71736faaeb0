package source

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/shapeval/internal/engine"
)

// DecodeJSON decodes a single JSON document. The whole input is checked for
// well-formedness first; the token stream does not enforce ',' and ':'.
func DecodeJSON(data []byte, opts ...Options) (any, error) {
	opt := lastOpt(opts)
	if err := checkSize(len(data), opt); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) > 0 && !j.Valid(data) {
		return nil, &Error{Code: CodeParseError, Path: "/", Message: "malformed JSON", Offset: -1}
	}
	return decodeJSON(bytes.NewReader(data), opt)
}

// DecodeJSONReader decodes a single JSON document from r. With MaxBytes set,
// at most MaxBytes+1 bytes are read before failing with CodeTruncated.
func DecodeJSONReader(r io.Reader, opts ...Options) (any, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Code: CodeParseError, Message: err.Error(), Offset: -1}
	}
	return DecodeJSON(data, opt)
}

func decodeJSON(r io.Reader, opt Options) (any, error) {
	dup := eng.DupError
	if opt.OnDuplicateKey == DuplicateLastWins {
		dup = eng.DupIgnore
	}
	src := eng.WrapWithEnforcement(newJSONTokenSource(r), eng.EnforceOptions{
		OnDuplicate: dup,
		MaxDepth:    opt.MaxDepth,
	})
	v, err := eng.DecodeDocument(src)
	if err != nil {
		return nil, toError(err)
	}
	return v, nil
}

// ---- engine.TokenSource implementation using go-json Decoder ----

type jsonFrame struct {
	object       bool
	expectingKey bool
}

type jsonSource struct {
	dec   *j.Decoder
	stack []jsonFrame
}

func newJSONTokenSource(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, jsonFrame{object: true, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case '[':
			s.stack = append(s.stack, jsonFrame{})
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
		case ']':
			s.pop()
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.object && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: -1}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

func (s *jsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *jsonSource) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonSource) Location() int64 { return -1 }
