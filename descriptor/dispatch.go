package descriptor

import (
	"reflect"

	"record-mapper/primitive"
)

// shape is the classification of a single field type.
type shape struct {
	kind    FieldKind
	scalar  primitive.KindEnum
	elem    reflect.Type
	pointer bool
}

// Dispatch classifies a field type. The zero FieldKind means the field is not
// mappable.
func Dispatch(t reflect.Type) FieldKind {
	return dispatch(t).kind
}

func dispatch(t reflect.Type) shape {
	if t == nil {
		return shape{}
	}

	if t.Kind() == reflect.Ptr {
		inner := dispatch(t.Elem())
		if inner.pointer {
			return shape{}
		}

		// only scalars and structs are worth an indirection
		if !inner.kind.IsScalar() && inner.kind != KindObject {
			return shape{}
		}

		inner.pointer = true

		return inner
	}

	if scalar := primitive.FromReflectType(t); scalar != 0 {
		return shape{kind: scalarFieldKind(scalar), scalar: scalar}
	}

	switch t.Kind() {
	case reflect.Struct:
		return shape{kind: KindObject, elem: t}

	case reflect.Interface:
		return shape{kind: KindOpaque}

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return shape{}
		}

		return shape{kind: KindOpaque}

	case reflect.Slice, reflect.Array:
		return dispatchElem(t.Elem())

	default:
		return shape{}
	}
}

func dispatchElem(elem reflect.Type) shape {
	switch elem.Kind() {
	case reflect.Interface:
		return shape{kind: KindArrayUnknown}
	case reflect.Map:
		if elem.Key().Kind() != reflect.String {
			return shape{}
		}

		return shape{kind: KindArrayUnknown}
	}

	if scalar := primitive.FromReflectType(elem); scalar != 0 {
		return shape{kind: KindArray, scalar: scalar, elem: elem}
	}

	if structBase(elem) != nil {
		return shape{kind: KindArray, elem: elem}
	}

	return shape{}
}
