// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with go/types to build an in-memory
// model of structs and their fields, and classifies each field the way the
// mapper does at run time, so policies can be scaffolded and checked without
// importing the types.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/array/map/interface/external)
//   - FieldInfo: describes field name, type, tags, and embedding
//   - MappableField: a field as the mapper sees it, promoted fields included
package analyze
