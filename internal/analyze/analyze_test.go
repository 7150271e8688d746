package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-mapper/descriptor"
)

const catalogPkg = "record-mapper/examples/catalog"

func loadCatalog(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(catalogPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func catalogType(t *testing.T, graph *TypeGraph, name string) *TypeInfo {
	t.Helper()

	info := graph.GetType(TypeID{PkgPath: catalogPkg, Name: name})
	require.NotNil(t, info, name)

	return info
}

func fieldsByName(fields []MappableField) map[string]MappableField {
	out := make(map[string]MappableField, len(fields))
	for _, f := range fields {
		out[f.Name] = f
	}

	return out
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadCatalog(t)

	require.Contains(t, graph.Packages, catalogPkg)
	assert.Equal(t, "catalog", graph.Packages[catalogPkg].Name)

	for _, name := range []string{"User", "Item", "Batters", "Batter", "Topping", "Audit"} {
		assert.Contains(t, graph.Types, TypeID{PkgPath: catalogPkg, Name: name})
	}

	assert.NotContains(t, graph.Types, TypeID{PkgPath: catalogPkg, Name: "Register"}, "functions are not types")
}

func TestAnalyzer_GetStruct(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.LoadPackages(catalogPkg)
	require.NoError(t, err)

	item, err := a.GetStruct(catalogPkg, "Item")
	require.NoError(t, err)
	assert.Equal(t, TypeKindStruct, item.Kind)

	_, err = a.GetStruct(catalogPkg, "Missing")
	assert.Error(t, err)
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("record-mapper/does/not/exist")
	assert.Error(t, err)
}

func TestMappableFields_Item(t *testing.T) {
	graph := loadCatalog(t)
	fields := fieldsByName(MappableFields(catalogType(t, graph, "Item"), descriptor.TagName))

	tests := []struct {
		name     string
		key      string
		kind     descriptor.FieldKind
		promoted bool
	}{
		{"ID", "id", descriptor.KindString, false},
		{"PPU", "ppu", descriptor.KindFloat, false},
		{"Batters", "batters", descriptor.KindObject, false},
		{"Topping", "topping", descriptor.KindArrayUnknown, false},
		{"Meta", "meta", descriptor.KindOpaque, false},
		{"Stock", "Stock", descriptor.KindInteger, false},
		{"UpdatedAt", "updated_at", descriptor.KindTime, true},
		{"Revision", "revision", descriptor.KindInteger, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := fields[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.key, f.Key)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.promoted, f.Promoted)
		})
	}

	assert.NotContains(t, fields, "Audit", "embedded structs contribute their fields only")
	assert.True(t, fields["Meta"].OmitEmpty)
	assert.Equal(t, "Batters", fields["Batters"].Elem.ID.Name)
}

func TestMappableFields_ObjectArray(t *testing.T) {
	graph := loadCatalog(t)
	fields := fieldsByName(MappableFields(catalogType(t, graph, "Batters"), descriptor.TagName))

	batter := fields["Batter"]
	assert.Equal(t, descriptor.KindArray, batter.Kind)
	require.NotNil(t, batter.Elem)
	assert.Equal(t, "Batter", batter.Elem.ID.Name)
}

func TestReachable(t *testing.T) {
	graph := loadCatalog(t)

	var names []string
	for _, info := range Reachable([]*TypeInfo{catalogType(t, graph, "Item")}, descriptor.TagName) {
		names = append(names, info.ID.Short())
	}

	assert.Equal(t, []string{"catalog.Item", "catalog.Batters", "catalog.Batter"}, names)
}

func TestTypeStringer(t *testing.T) {
	graph := loadCatalog(t)
	s := NewTypeStringer()
	item := catalogType(t, graph, "Item")

	types := make(map[string]string)
	for _, f := range item.Fields {
		types[f.Name] = s.TypeString(f.Type)
	}

	assert.Equal(t, "string", types["ID"])
	assert.Equal(t, "Batters", types["Batters"])
	assert.Equal(t, "[]any", types["Topping"])
	assert.Equal(t, "map[string]any", types["Meta"])
	assert.Equal(t, "<nil>", s.TypeString(nil))
}

func TestTypeStringer_KeyPaths(t *testing.T) {
	graph := loadCatalog(t)

	var paths []string
	for _, kp := range NewTypeStringer().KeyPaths(catalogType(t, graph, "Item"), descriptor.TagName, 3) {
		paths = append(paths, kp.Path)
	}

	assert.Contains(t, paths, "Item.id")
	assert.Contains(t, paths, "Item.batters")
	assert.Contains(t, paths, "Item.batters.batter[]")
	assert.Contains(t, paths, "Item.batters.batter[].type")
	assert.Contains(t, paths, "Item.topping[]")
	assert.Contains(t, paths, "Item.updated_at")
}

func TestTypePath(t *testing.T) {
	p := NewTypePath("Item").Field("batters").Field("batter").Slice().Field("id")
	assert.Equal(t, "Item.batters.batter[].id", p.String())
}

func TestFindShort(t *testing.T) {
	graph := loadCatalog(t)

	found := graph.FindShort("catalog.Topping")
	require.Len(t, found, 1)
	assert.Equal(t, "Topping", found[0].ID.Name)
	assert.Empty(t, graph.FindShort("catalog.Nope"))
}
