package source_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapeval/source"
)

func TestStrictYAMLReader_DuplicateKey_Root(t *testing.T) {
	y := []byte("kind: A\nkind: B\n")
	_, err := source.NewStrictYAMLReader(bytes.NewReader(y)).Next()
	var de *source.DuplicateKeyError
	require.True(t, errors.As(err, &de), "expected DuplicateKeyError, got %T %v", err, err)
	assert.Equal(t, "kind", de.Key)
	assert.Equal(t, "/kind", de.Path)
	assert.Equal(t, 1, de.FirstLine)
	assert.Equal(t, 2, de.Line)
}

func TestStrictYAMLReader_DuplicateKey_Nested(t *testing.T) {
	y := []byte("metadata:\n  name: a\n  name: b\n")
	_, err := source.NewStrictYAMLReader(bytes.NewReader(y)).Next()
	var de *source.DuplicateKeyError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "name", de.Key)
	assert.Equal(t, "/metadata/name", de.Path)
}

func TestStrictYAMLReader_DuplicateLastWins(t *testing.T) {
	y := []byte("kind: A\nkind: B\n")
	v, err := source.NewStrictYAMLReader(bytes.NewReader(y), source.Options{OnDuplicateKey: source.DuplicateLastWins}).Next()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kind": "B"}, v)
}

func TestStrictYAMLReader_ReadAll_MultiDoc(t *testing.T) {
	y := []byte("kind: A\n---\nkind: B\n")
	docs, err := source.NewStrictYAMLReader(bytes.NewReader(y)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDecodeYAML_Scalars(t *testing.T) {
	y := []byte(`
name: Kevin
quoted: "42"
age: 42
hex: 0x1F
ratio: 0.5
ok: true
none: null
tags: [a, b]
anchor: &x {k: v}
alias: *x
`)
	v, err := source.DecodeYAML(y)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Kevin",
		"quoted": "42",
		"age":    int64(42),
		"hex":    int64(31),
		"ratio":  0.5,
		"ok":     true,
		"none":   nil,
		"tags":   []any{"a", "b"},
		"anchor": map[string]any{"k": "v"},
		"alias":  map[string]any{"k": "v"},
	}, v)
}

func TestDecodeYAML_MaxDepth(t *testing.T) {
	y := []byte("a:\n  b:\n    - 1\n")

	_, err := source.DecodeYAML(y, source.Options{MaxDepth: 3})
	require.NoError(t, err)

	_, err = source.DecodeYAML(y, source.Options{MaxDepth: 2})
	se := requireSourceError(t, err, source.CodeDepthExceeded)
	assert.Equal(t, "/a/b", se.Path)
}

func TestDecodeYAML_Errors(t *testing.T) {
	_, err := source.DecodeYAML([]byte(""))
	requireSourceError(t, err, source.CodeParseError)

	_, err = source.DecodeYAML([]byte("a: [1, 2"))
	requireSourceError(t, err, source.CodeParseError)

	_, err = source.DecodeYAML([]byte("a: 1\n"), source.Options{MaxBytes: 2})
	requireSourceError(t, err, source.CodeTruncated)
}

func TestDecodeYAML_AliasCycle(t *testing.T) {
	_, err := source.DecodeYAML([]byte("a: &x [*x]\n"))
	se := requireSourceError(t, err, source.CodeParseError)
	assert.Contains(t, se.Message, "alias cycle")
	assert.Equal(t, "/a/0/0", se.Path)

	_, err = source.NewStrictYAMLReader(bytes.NewReader([]byte("ok: 1\n---\nm: &m {self: *m}\n"))).ReadAll()
	se = requireSourceError(t, err, source.CodeParseError)
	assert.Contains(t, se.Message, "alias cycle")
}

func TestDecodeYAML_AliasExpansionCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < 9; i++ {
		fmt.Fprintf(&b, "l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*l%d", i-1)
		}
		b.WriteString("]\n")
	}
	_, err := source.DecodeYAML([]byte(b.String()))
	se := requireSourceError(t, err, source.CodeParseError)
	assert.Contains(t, se.Message, "too many alias expansions")
}

func TestDecodeYAML_SharedAliasIsNotACycle(t *testing.T) {
	y := []byte("base: &b {k: v}\nlist: [*b, *b, {inner: *b}]\n")
	v, err := source.DecodeYAML(y)
	require.NoError(t, err)
	kv := map[string]any{"k": "v"}
	assert.Equal(t, map[string]any{
		"base": kv,
		"list": []any{kv, kv, map[string]any{"inner": kv}},
	}, v)
}

func TestDecodeYAMLAll(t *testing.T) {
	docs, err := source.DecodeYAMLAll([]byte("kind: A\n---\nkind: B\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"kind": "A"}, map[string]any{"kind": "B"}}, docs)

	_, err = source.DecodeYAMLAll([]byte(""))
	se := requireSourceError(t, err, source.CodeParseError)
	assert.Equal(t, "empty document", se.Message)

	_, err = source.DecodeYAMLAll([]byte("kind: A\n---\nkind: B\n"), source.Options{MaxBytes: 8})
	requireSourceError(t, err, source.CodeTruncated)

	_, err = source.DecodeYAMLAll([]byte("kind: A\n---\nkind: [\n"))
	requireSourceError(t, err, source.CodeParseError)
}
