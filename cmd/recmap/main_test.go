package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-mapper/policy"
)

const catalog = "./examples/catalog"

// run executes recmap from the module root.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", "../.."}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "recmap version "+Version+"\n", out)
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe", catalog, "Item")
	require.NoError(t, err)

	assert.Contains(t, out, "record-mapper/examples/catalog.Item")
	assert.Contains(t, out, "Item.batters.batter[].id")
	assert.Contains(t, out, "Item.updated_at")
	assert.Contains(t, out, "promoted")
	assert.Contains(t, out, "ArrayUnknown")
}

func TestDescribe_Dump(t *testing.T) {
	out, err := run(t, "describe", "--dump", "--depth", "0", catalog, "User")
	require.NoError(t, err)

	assert.Contains(t, out, "([]analyze.KeyPath)")
	assert.Contains(t, out, `Path: (string) (len=14) "User.certified"`)
}

func TestDescribe_UnknownType(t *testing.T) {
	_, err := run(t, "describe", catalog, "Iten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `struct "Iten" not found`)
	assert.Contains(t, err.Error(), "did you mean Item?")
}

func TestScaffold(t *testing.T) {
	out, err := run(t, "scaffold", "--convention", "snake", catalog, "Item")
	require.NoError(t, err)

	f, err := policy.Parse([]byte(out))
	require.NoError(t, err)

	var types []string
	for _, tp := range f.Policies {
		types = append(types, tp.Type)
	}

	assert.Contains(t, types, "catalog.Item")
	assert.Contains(t, types, "catalog.Batter")

	for _, tp := range f.Policies {
		if tp.Type == "catalog.Item" {
			assert.Equal(t, map[string]string{"Stock": "stock"}, tp.Keys)
		}
	}
}

func TestScaffold_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")

	out, err := run(t, "scaffold", "-o", path, catalog, "User")
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := policy.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Policies, 1)
	assert.Equal(t, "catalog.User", f.Policies[0].Type)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`version: "1"
policies:
  - type: catalog.Item
    exclude: Stock
    elements:
      Topping: catalog.Topping
`), 0o600))

	out, err := run(t, "check", good, catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "1 type(s) ok")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`policies:
  - type: catalog.Item
    exclude: Stok
`), 0o600))

	out, err = run(t, "check", bad, catalog)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "E_UNKNOWN_FIELD")
	assert.Contains(t, out, "did you mean Stock?")
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := run(t, "check", filepath.Join(t.TempDir(), "nope.yaml"), catalog)
	require.Error(t, err)
}
