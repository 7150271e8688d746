package analyze

import (
	"strings"

	"record-mapper/descriptor"
)

// TypePath builds a readable path string through record keys.
// Examples:
//   - "Item" for the root
//   - "Item.batters" for a nested object
//   - "Item.batters.batter[]" for an object array
//   - "Item.batters.batter[].id" for a field of the array elements
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a key to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice marks the last element of the path as an array.
func (p *TypePath) Slice() *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{"[]"}}
	}

	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] += "[]"

	return &TypePath{parts: newParts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeStringer provides methods for creating readable type strings.
type TypeStringer struct{}

// NewTypeStringer creates a new TypeStringer.
func NewTypeStringer() *TypeStringer {
	return &TypeStringer{}
}

// TypeString returns a human-readable string representation of a TypeInfo.
func (s *TypeStringer) TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindStruct, TypeKindAlias:
		if t.IsNamed() {
			return t.ID.Name
		}

		if t.Kind == TypeKindAlias {
			return s.TypeString(t.Underlying)
		}

		return "struct{...}"

	case TypeKindPointer:
		return "*" + s.elemString(t.ElemType)

	case TypeKindSlice:
		return "[]" + s.elemString(t.ElemType)

	case TypeKindArray:
		return t.GoType.String()

	case TypeKindMap:
		return "map[" + s.elemString(t.KeyType) + "]" + s.elemString(t.ElemType)

	case TypeKindInterface:
		if t.IsNamed() {
			return t.ID.Short()
		}

		return "any"

	case TypeKindExternal:
		return t.ID.Short()

	default:
		return t.GoType.String()
	}
}

func (s *TypeStringer) elemString(t *TypeInfo) string {
	if t == nil {
		return "<unknown>"
	}

	return s.TypeString(t)
}

// KeyPath is one mappable field reached from a root type.
type KeyPath struct {
	Path  string
	Field MappableField
}

// KeyPaths walks the mappable fields of root and of nested objects down to
// maxDepth levels, in field name order.
func (s *TypeStringer) KeyPaths(root *TypeInfo, key string, maxDepth int) []KeyPath {
	if root == nil || root.Kind != TypeKindStruct {
		return nil
	}

	rootName := root.ID.Name
	if rootName == "" {
		rootName = "root"
	}

	var out []KeyPath

	s.walk(root, NewTypePath(rootName), key, 0, maxDepth, &out, map[*TypeInfo]bool{})

	return out
}

func (s *TypeStringer) walk(t *TypeInfo, path *TypePath, key string, depth, maxDepth int, out *[]KeyPath, visiting map[*TypeInfo]bool) {
	if depth > maxDepth || visiting[t] {
		return
	}

	visiting[t] = true
	defer delete(visiting, t)

	for _, f := range MappableFields(t, key) {
		fieldPath := path.Field(f.Key)
		if f.Kind == descriptor.KindArray || f.Kind == descriptor.KindArrayUnknown {
			fieldPath = fieldPath.Slice()
		}

		*out = append(*out, KeyPath{Path: fieldPath.String(), Field: f})

		if f.Elem != nil {
			s.walk(f.Elem, fieldPath, key, depth+1, maxDepth, out, visiting)
		}
	}
}
