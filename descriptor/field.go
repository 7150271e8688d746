package descriptor

import (
	"reflect"
	"strings"

	"record-mapper/primitive"
)

// TagName is the struct tag read by the default Resolver.
const TagName = "record"

// Field describes one mappable struct field.
type Field struct {
	Name      string             // Go field name
	Key       string             // default record key: tag name or Name verbatim
	Index     []int              // index sequence for reflect.Value.FieldByIndex
	Type      reflect.Type       // declared field type
	Kind      FieldKind          // how the value is converted
	Scalar    primitive.KindEnum // scalar kind of the field, or of array elements
	Elem      reflect.Type       // struct type for KindObject, element type for KindArray
	Pointer   bool               // field is *T for a scalar or object T
	OmitEmpty bool               // skip zero values on extraction
	Promoted  bool               // reached through an embedded struct
}

// ElemIsObject reports whether the elements of a KindArray field are structs
// (or pointers to structs).
func (f *Field) ElemIsObject() bool {
	if f.Kind != KindArray || f.Elem == nil {
		return false
	}

	return structBase(f.Elem) != nil
}

// TagOptions is the parsed value of a `record` struct tag.
type TagOptions struct {
	Name      string
	Skip      bool
	OmitEmpty bool
}

// ParseTag reads the struct tag named key. `-` skips the field; the only
// option understood after the name is omitempty.
func ParseTag(tag reflect.StructTag, key string) TagOptions {
	value, ok := tag.Lookup(key)
	if !ok {
		return TagOptions{}
	}

	if value == "-" {
		return TagOptions{Skip: true}
	}

	name, rest, _ := strings.Cut(value, ",")
	opts := TagOptions{Name: name}

	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")

		if opt == "omitempty" {
			opts.OmitEmpty = true
		}
	}

	return opts
}

// structBase returns the struct type behind t or *t, or nil.
func structBase(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct || primitive.FromReflectType(t) != 0 {
		return nil
	}

	return t
}
