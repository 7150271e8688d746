package policycheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-mapper/descriptor"
	"record-mapper/internal/analyze"
	"record-mapper/internal/diagnostic"
	"record-mapper/internal/naming"
	"record-mapper/policy"
)

const catalogPkg = "record-mapper/examples/catalog"

func loadCatalog(t *testing.T) *analyze.TypeGraph {
	t.Helper()

	graph, err := analyze.NewAnalyzer().LoadPackages(catalogPkg)
	require.NoError(t, err)

	return graph
}

func codes(list []diagnostic.Diagnostic) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Code+" "+d.FieldPath)
	}

	return out
}

func TestCheck_Valid(t *testing.T) {
	f, err := policy.Parse([]byte(`
policies:
  - type: catalog.Item
    exclude: Stock
    exclude_extract: [Stock, Revision]
    keys:
      PPU: price
    elements:
      Topping: catalog.Topping
  - type: catalog.User
`))
	require.NoError(t, err)

	diags := NewChecker(loadCatalog(t), "").Check(f)

	assert.True(t, diags.IsValid(), diags.Error())
	assert.Empty(t, diags.Warnings)
	assert.Empty(t, diags.Infos)
}

func TestCheck_Errors(t *testing.T) {
	f, err := policy.Parse([]byte(`
policies:
  - type: catalog.Itme
  - type: catalog.Item
    exclude: [Toping]
    keys:
      Nme: name
    elements:
      Topping: catalog.Toping
`))
	require.NoError(t, err)

	diags := NewChecker(loadCatalog(t), descriptor.TagName).Check(f)

	require.Len(t, diags.Errors, 4)
	assert.Equal(t, []string{
		"E_UNKNOWN_TYPE ",
		"E_UNKNOWN_FIELD Toping",
		"E_UNKNOWN_FIELD Nme",
		"E_UNKNOWN_TYPE Topping",
	}, codes(diags.Errors))

	require.NotEmpty(t, diags.Errors[0].Suggestions)
	assert.Equal(t, "catalog.Item", diags.Errors[0].Suggestions[0])
	assert.Equal(t, []string{"Topping"}, diags.Errors[1].Suggestions)
	assert.Equal(t, []string{"Name"}, diags.Errors[2].Suggestions)
	assert.Contains(t, diags.Errors[3].Suggestions, "catalog.Topping")
}

func TestCheck_Warnings(t *testing.T) {
	f, err := policy.Parse([]byte(`
policies:
  - type: catalog.Item
    exclude: [Meta]
    exclude_extract: [Meta]
    keys:
      Name: id
      Meta: attributes
    elements:
      Batters: catalog.Batter
  - type: catalog.Item
`))
	require.NoError(t, err)

	diags := NewChecker(loadCatalog(t), "").Check(f)

	assert.True(t, diags.IsValid())
	assert.ElementsMatch(t, []string{
		"W_ELEMENT_ON_SCALAR Batters",
		"W_EXCLUDED_AND_KEYED Meta",
		"W_KEY_COLLISION ID",
		"W_DUPLICATE_POLICY ",
	}, codes(diags.Warnings))
	assert.Equal(t, []string{"I_ARRAY_WITHOUT_ELEMENTS Topping", "I_ARRAY_WITHOUT_ELEMENTS Topping"}, codes(diags.Infos))
}

func TestScaffold(t *testing.T) {
	graph := loadCatalog(t)
	item := graph.GetType(analyze.TypeID{PkgPath: catalogPkg, Name: "Item"})
	require.NotNil(t, item)

	f := Scaffold([]*analyze.TypeInfo{item}, descriptor.TagName, naming.ConventionSnake)

	require.Len(t, f.Policies, 3)
	assert.Equal(t, "catalog.Item", f.Policies[0].Type)
	assert.Equal(t, map[string]string{"Stock": "stock"}, f.Policies[0].Keys)
	assert.Equal(t, "catalog.Batters", f.Policies[1].Type)
	assert.Equal(t, "catalog.Batter", f.Policies[2].Type)
	assert.Nil(t, f.Policies[2].Keys, "tagged fields keep their keys")

	diags := NewChecker(graph, "").Check(f)
	assert.True(t, diags.IsValid())
}

func TestScaffold_FieldConvention(t *testing.T) {
	graph := loadCatalog(t)
	user := graph.GetType(analyze.TypeID{PkgPath: catalogPkg, Name: "User"})
	require.NotNil(t, user)

	f := Scaffold([]*analyze.TypeInfo{user}, descriptor.TagName, naming.ConventionField)

	require.Len(t, f.Policies, 1)
	assert.Empty(t, f.Policies[0].Keys)
}
