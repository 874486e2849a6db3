package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/synrule/internal/cli"
	"github.com/macropower/synrule/pkg/document"
	"github.com/macropower/synrule/pkg/ruleset"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func loadFile(t *testing.T, path string) ruleset.Ruleset {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rs, err := document.Unmarshal(data)
	require.NoError(t, err)

	return rs
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")

	_, err := run(t, "init", path)
	require.NoError(t, err)

	rs := loadFile(t, path)
	assert.NotEmpty(t, rs.Domains)
	assert.NotEmpty(t, rs.Rules)

	// A second init must not clobber the file.
	_, err = run(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", path, "--force")
	require.NoError(t, err)
}

func TestLintStarterIsConsistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")

	_, err := run(t, "init", path)
	require.NoError(t, err)

	out, err := run(t, "lint", path, "--strict")
	require.NoError(t, err)
	assert.NotContains(t, out, "dangling")
}

func TestLintProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	doc := `{
		"domains": [],
		"rules": [
			{"uuid": "r1", "name": "", "domains": ["missing"], "filters": [], "renames": [], "evaluator": "0", "parent": "gone"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := run(t, "lint", path)
	require.NoError(t, err, "problems are warnings by default")
	assert.Contains(t, out, "dangling-parent")
	assert.Contains(t, out, "dangling-domain")
	assert.Contains(t, out, "empty-name")

	_, err = run(t, "lint", path, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integrity problem")
}

func TestLintLoadFailures(t *testing.T) {
	dir := t.TempDir()

	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{not json"), 0o600))

	_, err := run(t, "lint", badJSON)
	require.Error(t, err)

	var parseErr *document.ParseError
	require.ErrorAs(t, err, &parseErr)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("{}"), 0o600))

	_, err = run(t, "lint", empty)
	require.Error(t, err)

	var schemaErr *document.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")

	_, err := run(t, "init", path)
	require.NoError(t, err)

	out, err := run(t, "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PKS")
	assert.Contains(t, out, "HR-PKS")

	out, err = run(t, "show", path, "--parent", "PKS")
	require.NoError(t, err)
	assert.Contains(t, out, "HR-PKS")

	_, err = run(t, "show", path, "--parent", "nope")
	require.Error(t, err)
}

func TestConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "rules.json")
	yamlPath := filepath.Join(dir, "rules.yaml")
	backPath := filepath.Join(dir, "back.json")

	_, err := run(t, "init", jsonPath)
	require.NoError(t, err)

	_, err = run(t, "convert", jsonPath, yamlPath)
	require.NoError(t, err)

	_, err = run(t, "convert", yamlPath, backPath)
	require.NoError(t, err)

	assert.Equal(t, loadFile(t, jsonPath), loadFile(t, backPath))
}

func TestDomainEditing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")

	_, err := run(t, "init", path)
	require.NoError(t, err)

	_, err = run(t, "domain", "add", path, "--name", "MT", "--family", "Methyltransf_12")
	require.NoError(t, err)

	rs := loadFile(t, path)
	require.NotEmpty(t, rs.Domains)
	assert.Equal(t, "MT", rs.Domains[0].Name, "new domain types are prepended")
	assert.Equal(t, []string{"Methyltransf_12"}, rs.Domains[0].Families)

	_, err = run(t, "domain", "rm", path, "MT")
	require.NoError(t, err)

	rs = loadFile(t, path)
	for _, dt := range rs.Domains {
		assert.NotEqual(t, "MT", dt.Name)
	}

	_, err = run(t, "domain", "rm", path, "MT")
	require.Error(t, err, "removing a missing domain type by name fails resolution")
}

func TestRuleEditing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")

	_, err := run(t, "init", path)
	require.NoError(t, err)

	_, err = run(t, "rule", "add", path,
		"--name", "VHR-PKS",
		"--domain", "KS",
		"--domain", "AT",
		"--evaluator", "0 and 1",
		"--parent", "HR-PKS",
	)
	require.NoError(t, err)

	rs := loadFile(t, path)
	added := rs.Rules[0]
	assert.Equal(t, "VHR-PKS", added.Name)
	assert.Len(t, added.DomainRefs, 2)

	parent, ok := rs.Rule(added.ParentID)
	require.True(t, ok)
	assert.Equal(t, "HR-PKS", parent.Name)

	// Removing the parent promotes the new rule to a root.
	_, err = run(t, "rule", "rm", path, "HR-PKS")
	require.NoError(t, err)

	rs = loadFile(t, path)
	got, ok := rs.Rule(added.UUID)
	require.True(t, ok)
	assert.Equal(t, ruleset.NoParent, got.ParentID)

	_, err = run(t, "rule", "add", path, "--name", "X", "--domain", "nope")
	require.Error(t, err)
}
