package mapper

import (
	"errors"
	"reflect"

	"record-mapper/primitive"
)

// asRecord accepts a Record or any other map keyed by strings. Other maps are
// copied.
func asRecord(raw any) (Record, bool) {
	switch r := raw.(type) {
	case Record:
		return r, r != nil
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}

	rec := make(Record, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		rec[iter.Key().String()] = iter.Value().Interface()
	}

	return rec, true
}

// asSequence accepts any slice or array. Byte slices are not sequences.
func asSequence(raw any) (reflect.Value, bool) {
	rv := reflect.ValueOf(raw)

	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return reflect.Value{}, false
		}

		return rv, true
	case reflect.Array:
		return rv, true
	default:
		return reflect.Value{}, false
	}
}

// makeSequence creates a slice of length n, or a zero array, of type t. It
// returns the number of elements to fill.
func makeSequence(t reflect.Type, n int) (reflect.Value, int) {
	if t.Kind() == reflect.Array {
		return reflect.New(t).Elem(), min(n, t.Len())
	}

	return reflect.MakeSlice(t, n, n), n
}

// passthrough returns raw as a value assignable to t, converting between
// types of the same kind (map[string]any into a named map type, for example).
func passthrough(raw any, t reflect.Type) (reflect.Value, bool) {
	if raw == nil {
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(raw)

	if rv.Type().AssignableTo(t) {
		return rv, true
	}

	if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), true
	}

	return reflect.Value{}, false
}

// fieldForWrite walks index from the struct v, allocating nil embedded
// pointers on the way. It reports false when the field cannot be set.
func fieldForWrite(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, v.CanSet()
}

// fieldForRead walks index from the struct v. A nil embedded pointer makes
// the field absent.
func fieldForRead(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, true
}

func isOverflow(err error) bool {
	return errors.Is(err, primitive.ErrOverflow)
}
