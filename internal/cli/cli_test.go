package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/formerr/i18n"
	"github.com/reoring/formerr/internal/cli"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := cli.Run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestResolve_NestedTree(t *testing.T) {
	errs := writeFile(t, "errors.json", `[{"people":{"0":{"firstName":{"_errors":["First name is required"]}}}}]`)

	code, out, _ := run(t, "resolve", "-e", errs, "-f", "people[0].firstName")
	require.Equal(t, cli.ExitOK, code)
	assert.JSONEq(t, `{"hasError":true,"errorMessage":"First name is required"}`, out)

	code, out, _ = run(t, "resolve", "-e", errs, "-f", "people[1].firstName")
	require.Equal(t, cli.ExitOK, code)
	assert.JSONEq(t, `{"hasError":false,"errorMessage":null}`, out)
}

func TestResolve_LocalWinsAndFailOnError(t *testing.T) {
	errs := writeFile(t, "errors.yaml", "firstName:\n  _errors: [from tree]\n")

	code, out, stderr := run(t, "resolve", "-e", errs, "-f", "firstName", "-l", "Field is required", "--fail-on-error")
	assert.Equal(t, cli.ExitHasError, code)
	assert.JSONEq(t, `{"hasError":true,"errorMessage":"Field is required"}`, out)
	assert.Equal(t, "firstName: Field is required\n", stderr)

	code, _, stderr = run(t, "resolve", "-e", errs, "-f", "lastName", "--fail-on-error")
	assert.Equal(t, cli.ExitOK, code)
	assert.Empty(t, stderr)
}

func TestResolve_RecordFailOnError(t *testing.T) {
	rec := writeFile(t, "record.yaml", "name: email\nmeta:\n  errors: [Invalid email]\n")

	code, _, stderr := run(t, "resolve", "-r", rec, "--fail-on-error")
	assert.Equal(t, cli.ExitHasError, code)
	assert.Equal(t, "email: Invalid email\n", stderr)
}

func TestResolve_Record(t *testing.T) {
	rec := writeFile(t, "record.json", `{"name":"people[0].firstName","form":{"errors":[{"people.0.firstName":{"_errors":["dot"]}}]}}`)

	code, out, _ := run(t, "resolve", "-r", rec, "-o", "yaml")
	require.Equal(t, cli.ExitOK, code)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"hasError": true, "errorMessage": "dot"}, got)
}

func TestResolve_UsageErrors(t *testing.T) {
	code, _, stderr := run(t, "resolve")
	assert.Equal(t, cli.ExitUsage, code)
	assert.Contains(t, stderr, "--field is required")

	rec := writeFile(t, "record.json", `{}`)
	code, _, _ = run(t, "resolve", "-r", rec, "-f", "x")
	assert.Equal(t, cli.ExitUsage, code)

	code, _, _ = run(t, "resolve", "-f", "x", "-o", "xml")
	assert.Equal(t, cli.ExitUsage, code)

	code, _, _ = run(t)
	assert.Equal(t, cli.ExitUsage, code)
}

func TestResolve_MissingFile(t *testing.T) {
	code, _, stderr := run(t, "resolve", "-e", filepath.Join(t.TempDir(), "nope.json"), "-f", "x")
	assert.Equal(t, cli.ExitFailure, code)
	assert.Contains(t, stderr, "formerr:")
}

func TestParse(t *testing.T) {
	code, out, _ := run(t, "parse", "people[0].tags[2]")
	require.Equal(t, cli.ExitOK, code)
	assert.JSONEq(t, `{
		"segments": ["people", "0", "tags", "2"],
		"arrayMatches": [{"property": "people", "index": 0}, {"property": "tags", "index": 2}],
		"dotNotation": "people.0.tags.2"
	}`, out)

	code, out, _ = run(t, "parse", "name")
	require.Equal(t, cli.ExitOK, code)
	assert.JSONEq(t, `{"segments":["name"],"arrayMatches":[],"dotNotation":"name"}`, out)

	code, _, _ = run(t, "parse")
	assert.Equal(t, cli.ExitUsage, code)
}

func TestFormat(t *testing.T) {
	issues := writeFile(t, "issues.json", `[
		{"path": "/people/0/firstName", "code": "required", "message": "First name is required"},
		{"path": "username", "code": "too_short", "params": {"min": 3}}
	]`)

	code, out, _ := run(t, "format", "-i", issues, "--layout", "dot")
	require.Equal(t, cli.ExitOK, code)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, map[string]any{"_errors": []any{"First name is required"}}, tree["people.0.firstName"])
	assert.Equal(t, map[string]any{"_errors": []any{"Must contain at least 3 characters"}}, tree["username"])

	// the built tree feeds straight back into resolve
	treeFile := writeFile(t, "tree.json", out)
	code, out, _ = run(t, "resolve", "-e", treeFile, "-f", "people[0].firstName")
	require.Equal(t, cli.ExitOK, code)
	assert.JSONEq(t, `{"hasError":true,"errorMessage":"First name is required"}`, out)
}

func TestFormat_FieldFilter(t *testing.T) {
	issues := writeFile(t, "issues.json", `[
		{"path": "/people/0/firstName", "code": "custom", "message": "a"},
		{"path": "people[0].firstName", "code": "custom", "message": "b"},
		{"path": "people[1].firstName", "code": "custom", "message": "c"}
	]`)

	code, out, _ := run(t, "format", "-i", issues, "-f", "people[0].firstName", "--layout", "flat")
	require.Equal(t, cli.ExitOK, code)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, map[string]any{
		"_errors":             []any{},
		"people[0].firstName": map[string]any{"_errors": []any{"a", "b"}},
	}, tree)
}

func TestFormat_LangAndYAMLOutput(t *testing.T) {
	defer i18n.SetLanguage("en")
	issues := writeFile(t, "issues.yaml", "- path: name\n  code: required\n")

	code, out, _ := run(t, "--lang", "ja", "format", "-i", issues, "-o", "yaml", "--layout", "flat")
	require.Equal(t, cli.ExitOK, code)
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, map[string]any{"_errors": []any{"必須項目です"}}, tree["name"])
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "formerr.yaml", "layout: flat\noutput: yaml\n")
	issues := writeFile(t, "issues.json", `[{"path":"a[1]","code":"custom","message":"m"}]`)

	code, out, _ := run(t, "-c", cfg, "format", "-i", issues)
	require.Equal(t, cli.ExitOK, code)
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Contains(t, tree, "a[1]")

	bad := writeFile(t, "bad.yaml", "output: xml\n")
	code, _, _ = run(t, "-c", bad, "format", "-i", issues)
	assert.Equal(t, cli.ExitUsage, code)
}

func TestHelp(t *testing.T) {
	code, out, _ := run(t, "--help")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "resolve")
}
