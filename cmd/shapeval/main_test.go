package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapeval/i18n"
)

const userSchema = `
type: object
properties:
  name: {type: string}
  role: {type: string, enum: [admin, member]}
required: [name]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { i18n.SetLanguage("en") })
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_Files(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	good := writeFile(t, dir, "good.json", `{"name":"Kevin","role":"admin"}`)
	bad := writeFile(t, dir, "bad.json", `{"name":42}`)

	out, err := run(t, "", "validate", "--schema", schema, good)
	require.NoError(t, err)
	assert.Equal(t, good+": ok\n", out)

	out, err = run(t, "", "validate", "--schema", schema, good, bad, good)
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, good+": ok\n"+bad+": type_mismatch at /name: expected string, got number\n", out)
}

func TestValidate_Stdin(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "user.yaml", userSchema)

	out, err := run(t, `{"name":"Kevin"}`, "validate", "--schema", schema)
	require.NoError(t, err)
	assert.Equal(t, "-: ok\n", out)

	out, err = run(t, "role: owner\nname: x\n", "validate", "--schema", schema, "--format", "yaml", "-")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "enum_violation at /role")
}

func TestValidate_YAMLMultiDocument(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	docs := writeFile(t, dir, "users.yaml", "name: a\n---\nrole: admin\n")

	out, err := run(t, "", "validate", "--schema", schema, docs)
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, docs+"#0: ok\n"+docs+`#1: missing_required_field at /name: required property "name" is missing`+"\n", out)
}

func TestValidate_YAMLStreamErrors(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)

	empty := writeFile(t, dir, "empty.yaml", "")
	out, err := run(t, "", "validate", "--schema", schema, empty)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "empty document")

	// a broken second document fails the whole file before anything validates
	broken := writeFile(t, dir, "broken.yaml", "name: a\n---\nname: [\n")
	out, err = run(t, "", "validate", "--schema", schema, broken)
	assert.ErrorIs(t, err, errInvalid)
	assert.NotContains(t, out, ": ok")
	assert.Contains(t, out, "parse_error")

	big := writeFile(t, dir, "big.yaml", "name: a\n---\nname: b\n")
	out, err = run(t, "", "validate", "--schema", schema, "--max-bytes", "8", big)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "truncated")
}

func TestValidate_DecodeLimits(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	dup := writeFile(t, dir, "dup.json", `{"name":"a","name":"b"}`)

	out, err := run(t, "", "validate", "--schema", schema, dup)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "duplicate_key")

	out, err = run(t, "", "validate", "--schema", schema, "--allow-duplicate-keys", dup)
	require.NoError(t, err)
	assert.Equal(t, dup+": ok\n", out)

	out, err = run(t, "", "validate", "--schema", schema, "--max-bytes", "4", dup)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "truncated")
}

func TestValidate_LanguageFromEnv(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	bad := writeFile(t, dir, "bad.json", `{"name":true}`)
	t.Setenv("SHAPEVAL_LANG", "ja")

	out, err := run(t, "", "validate", "--schema", schema, bad)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "型が不正です")
}

func TestValidate_Errors(t *testing.T) {
	_, err := run(t, "", "validate")
	assert.ErrorContains(t, err, "schema")

	schema := writeFile(t, t.TempDir(), "user.yaml", userSchema)
	_, err = run(t, "{}", "validate", "--schema", schema, "--format", "toml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "", "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestExport(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "user.yaml", userSchema)

	out, err := run(t, "", "export", "--schema", schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"role": {"type": "string", "enum": ["admin", "member"]}
		},
		"required": ["name"],
		"additionalProperties": false
	}`, out)

	out, err = run(t, "", "export", "--schema", schema, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "type: object\n")
	assert.Contains(t, out, "additionalProperties: false\n")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "shapeval version dev\n", out)
}

func TestLoadRegistry(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "user.yaml", userSchema)

	reg, err := loadRegistry([]string{"user=" + schema})
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, reg.Names())

	_, err = loadRegistry([]string{"user"})
	assert.ErrorContains(t, err, "NAME=FILE")

	_, err = loadRegistry([]string{"user=" + schema, "user=" + schema})
	assert.ErrorContains(t, err, "given twice")
}
