package analyze

import (
	"go/types"
	"slices"

	"record-mapper/descriptor"
)

// Classify returns the field kind the mapper assigns to t at run time. The
// zero kind means a field of this type is never touched.
func Classify(t *TypeInfo) descriptor.FieldKind {
	kind, _ := classify(t)
	return kind
}

// classify also returns the struct behind object kinds and object arrays.
func classify(t *TypeInfo) (descriptor.FieldKind, *TypeInfo) {
	if t == nil {
		return 0, nil
	}

	switch t.Kind {
	case TypeKindPointer:
		if t.ElemType == nil || t.ElemType.Kind == TypeKindPointer {
			return 0, nil
		}

		kind, elem := classify(t.ElemType)
		if !kind.IsScalar() && kind != descriptor.KindObject {
			return 0, nil
		}

		return kind, elem

	case TypeKindBasic:
		return basicKind(t.GoType), nil

	case TypeKindExternal:
		switch t.ID.Name {
		case "Time":
			return descriptor.KindTime, nil
		case "Duration":
			return descriptor.KindDuration, nil
		default:
			return 0, nil
		}

	case TypeKindAlias:
		return classify(t.Underlying)

	case TypeKindStruct:
		return descriptor.KindObject, t

	case TypeKindInterface:
		return descriptor.KindOpaque, nil

	case TypeKindMap:
		if !stringKeyed(t) {
			return 0, nil
		}

		return descriptor.KindOpaque, nil

	case TypeKindSlice, TypeKindArray:
		return classifyElem(t.ElemType)

	default:
		return 0, nil
	}
}

func classifyElem(elem *TypeInfo) (descriptor.FieldKind, *TypeInfo) {
	if elem == nil {
		return 0, nil
	}

	switch elem.Kind {
	case TypeKindInterface:
		return descriptor.KindArrayUnknown, nil
	case TypeKindMap:
		if stringKeyed(elem) {
			return descriptor.KindArrayUnknown, nil
		}

		return 0, nil
	}

	kind, st := classify(elem)

	switch {
	case kind.IsScalar():
		return descriptor.KindArray, nil
	case kind == descriptor.KindObject:
		return descriptor.KindArray, st
	default:
		return 0, nil
	}
}

func stringKeyed(m *TypeInfo) bool {
	key := m.KeyType
	for key != nil && key.Kind == TypeKindAlias {
		key = key.Underlying
	}

	return key != nil && key.Kind == TypeKindBasic && basicKind(key.GoType) == descriptor.KindString
}

func basicKind(t types.Type) descriptor.FieldKind {
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return 0
	}

	info := b.Info()

	switch {
	case info&types.IsBoolean != 0:
		return descriptor.KindBool
	case info&types.IsInteger != 0 && b.Kind() != types.Uintptr:
		return descriptor.KindInteger
	case info&types.IsFloat != 0:
		return descriptor.KindFloat
	case info&types.IsString != 0:
		return descriptor.KindString
	default:
		return 0
	}
}

// MappableField is a struct field as the mapper sees it.
type MappableField struct {
	Name      string
	Key       string
	Kind      descriptor.FieldKind
	Type      *TypeInfo
	Elem      *TypeInfo // struct of an object field or of object array elements
	OmitEmpty bool
	Promoted  bool
	Depth     int
}

// MappableFields lists the fields of the struct t the mapper would use with
// struct tag key, sorted by name. Promoted fields follow Go's selector rules:
// the shallowest wins and ambiguous names are dropped.
func MappableFields(t *TypeInfo, key string) []MappableField {
	if t == nil || t.Kind != TypeKindStruct {
		return nil
	}

	byName := make(map[string][]MappableField)
	collectFields(t, key, 0, byName, map[*TypeInfo]bool{})

	out := make([]MappableField, 0, len(byName))

	for _, candidates := range byName {
		slices.SortFunc(candidates, func(a, b MappableField) int { return a.Depth - b.Depth })

		if len(candidates) > 1 && candidates[0].Depth == candidates[1].Depth {
			continue
		}

		if candidates[0].Kind == 0 {
			continue
		}

		out = append(out, candidates[0])
	}

	slices.SortFunc(out, func(a, b MappableField) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})

	return out
}

func collectFields(t *TypeInfo, key string, depth int, byName map[string][]MappableField, visiting map[*TypeInfo]bool) {
	if visiting[t] {
		return
	}

	visiting[t] = true
	defer delete(visiting, t)

	for i := range t.Fields {
		f := &t.Fields[i]

		if f.Embedded {
			if st := embeddedStruct(f.Type); st != nil {
				// the embedded field itself still hides deeper names
				byName[f.Name] = append(byName[f.Name], MappableField{Name: f.Name, Depth: depth})
				collectFields(st, key, depth+1, byName, visiting)

				continue
			}
		}

		if !f.Exported {
			continue
		}

		opts := f.TagOptions(key)
		kind, elem := classify(f.Type)

		if opts.Skip {
			kind = 0
		}

		byName[f.Name] = append(byName[f.Name], MappableField{
			Name:      f.Name,
			Key:       f.RecordKey(key),
			Kind:      kind,
			Type:      f.Type,
			Elem:      elem,
			OmitEmpty: opts.OmitEmpty,
			Promoted:  depth > 0,
			Depth:     depth,
		})
	}
}

func embeddedStruct(t *TypeInfo) *TypeInfo {
	if t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	if t == nil || t.Kind != TypeKindStruct {
		return nil
	}

	return t
}

// Reachable returns roots followed by every named struct reachable through
// their mappable fields, each once, in discovery order.
func Reachable(roots []*TypeInfo, key string) []*TypeInfo {
	seen := make(map[*TypeInfo]bool)
	queue := slices.Clone(roots)

	var out []*TypeInfo

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		if t == nil || seen[t] {
			continue
		}

		seen[t] = true

		if t.IsNamed() {
			out = append(out, t)
		}

		for _, f := range MappableFields(t, key) {
			if f.Elem != nil && !seen[f.Elem] {
				queue = append(queue, f.Elem)
			}
		}
	}

	return out
}
