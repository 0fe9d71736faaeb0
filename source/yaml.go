package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// DecodeYAML decodes the first document of a YAML stream.
func DecodeYAML(data []byte, opts ...Options) (any, error) {
	opt := lastOpt(opts)
	if err := checkSize(len(data), opt); err != nil {
		return nil, err
	}
	v, err := NewStrictYAMLReader(bytes.NewReader(data), opt).Next()
	if errors.Is(err, io.EOF) {
		return nil, errEmptyYAML()
	}
	return v, err
}

// DecodeYAMLAll decodes every document of a YAML stream. Size limits and the
// empty-input error match DecodeYAML.
func DecodeYAMLAll(data []byte, opts ...Options) ([]any, error) {
	opt := lastOpt(opts)
	if err := checkSize(len(data), opt); err != nil {
		return nil, err
	}
	docs, err := NewStrictYAMLReader(bytes.NewReader(data), opt).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errEmptyYAML()
	}
	return docs, nil
}

func errEmptyYAML() error {
	return &Error{Code: CodeParseError, Path: "/", Message: "empty document", Offset: -1}
}

// maxAliasedNodes caps the nodes a single document may produce through alias
// expansion.
const maxAliasedNodes = 100_000

// StrictYAMLReader decodes a multi-document YAML stream using yaml.Node to detect
// duplicate keys (with positions). It returns JSON-like Go values (map[string]any, []any, primitives).
type StrictYAMLReader struct {
	dec *yaml.Decoder
	opt Options

	// per-document alias bookkeeping
	expanding  map[*yaml.Node]bool
	aliasDepth int
	aliased    int
}

// NewStrictYAMLReader constructs a StrictYAMLReader. MaxBytes is not applied
// to streams; use DecodeYAML or DecodeYAMLAll for size-capped input.
func NewStrictYAMLReader(r io.Reader, opts ...Options) *StrictYAMLReader {
	return &StrictYAMLReader{dec: yaml.NewDecoder(r), opt: lastOpt(opts)}
}

// Next returns the next YAML document converted into a JSON-compatible Go value.
// It returns (nil, io.EOF) when the stream is exhausted.
func (s *StrictYAMLReader) Next() (any, error) {
	var root yaml.Node
	if err := s.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &Error{Code: CodeParseError, Message: err.Error(), Offset: -1}
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	s.expanding = map[*yaml.Node]bool{}
	s.aliasDepth, s.aliased = 0, 0
	return s.convert(root.Content[0], "", 0)
}

// ReadAll reads all documents from the YAML stream.
func (s *StrictYAMLReader) ReadAll() ([]any, error) {
	var out []any
	for {
		v, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

func (s *StrictYAMLReader) convert(n *yaml.Node, path string, depth int) (any, error) {
	if s.aliasDepth > 0 {
		s.aliased++
		if s.aliased > maxAliasedNodes {
			return nil, &Error{Code: CodeParseError, Path: rootPath(path), Message: "too many alias expansions", Offset: -1}
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return s.convert(n.Content[0], path, depth)
	case yaml.AliasNode:
		target := n.Alias
		if target == nil {
			return nil, &Error{Code: CodeParseError, Path: rootPath(path), Message: "unknown alias " + n.Value, Offset: -1}
		}
		if s.expanding[target] {
			return nil, &Error{Code: CodeParseError, Path: rootPath(path), Message: "alias cycle at *" + n.Value, Offset: -1}
		}
		s.expanding[target] = true
		s.aliasDepth++
		v, err := s.convert(target, path, depth)
		s.aliasDepth--
		delete(s.expanding, target)
		return v, err
	case yaml.MappingNode:
		if err := s.enter(path, depth); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			key := k.Value
			kpath := path + "/" + pointerEscaper.Replace(key)
			if pos, dup := first[key]; dup && s.opt.OnDuplicateKey == DuplicateReject {
				return nil, &DuplicateKeyError{Key: key, Path: kpath, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := s.convert(n.Content[i+1], kpath, depth+1)
			if err != nil {
				return nil, err
			}
			m[key] = val
		}
		return m, nil
	case yaml.SequenceNode:
		if err := s.enter(path, depth); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := s.convert(c, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalarValue(n), nil
	default:
		return nil, nil
	}
}

// enter checks the depth of the container about to be opened at path.
func (s *StrictYAMLReader) enter(path string, depth int) error {
	if s.opt.MaxDepth > 0 && depth+1 > s.opt.MaxDepth {
		return &Error{Code: CodeDepthExceeded, Path: rootPath(path), Message: "max depth exceeded", Offset: -1}
	}
	return nil
}

func rootPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func scalarValue(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
		return n.Value
	case "!!int":
		// int64 avoids overflow surprises; callers can coerce later
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return i
		}
		return n.Value
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
		return n.Value
	default:
		// !!str, custom tags and anything else stay raw strings
		return n.Value
	}
}
