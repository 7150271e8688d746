package mapper

import (
	"fmt"
	"reflect"

	"record-mapper/descriptor"
)

// Extract returns a Record holding every mappable field of obj under its
// record key. Fields excluded for extraction and nil references are omitted.
// obj may be a struct or a pointer to one; anything else yields an empty Record.
func (m *Mapper) Extract(obj any) Record {
	return m.extractTop(obj, nil)
}

// ExtractOnly is Extract restricted to the named Go fields of obj. Without
// names it behaves like Extract.
func (m *Mapper) ExtractOnly(obj any, fields ...string) Record {
	if len(fields) == 0 {
		return m.extractTop(obj, nil)
	}

	only := toSet(fields)

	return m.extractTop(obj, func(name string) bool {
		_, ok := only[name]
		return ok
	})
}

// ExtractExcept is Extract without the named Go fields of obj. Without names
// it behaves like Extract.
func (m *Mapper) ExtractExcept(obj any, fields ...string) Record {
	if len(fields) == 0 {
		return m.extractTop(obj, nil)
	}

	except := toSet(fields)

	return m.extractTop(obj, func(name string) bool {
		_, ok := except[name]
		return !ok
	})
}

// ExtractBatch extracts every element of the slice or array objs, in order.
func (m *Mapper) ExtractBatch(objs any) []Record {
	seq, ok := asSequence(objs)
	if !ok {
		return []Record{}
	}

	out := make([]Record, seq.Len())
	for i := range out {
		out[i] = m.Extract(seq.Index(i).Interface())
	}

	return out
}

func (m *Mapper) extractTop(obj any, keep func(string) bool) Record {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Record{}
		}

		v = v.Elem()
	}

	if !v.IsValid() || structOf(v.Type()) == nil {
		m.logger.Debug("extract source is not a struct", "type", fmt.Sprintf("%T", obj))
		return Record{}
	}

	return m.extractStruct(v, keep, 0)
}

func (m *Mapper) extractStruct(v reflect.Value, keep func(string) bool, depth int) Record {
	p, err := m.plan(v.Type())
	if err != nil {
		m.logger.Debug("type has no mappable fields", "type", typeName(v.Type()), "error", err)
		return Record{}
	}

	rec := make(Record, len(p.fields))

	for _, fp := range p.fields {
		if fp.excludedExtract {
			continue
		}

		if keep != nil && !keep(fp.Name) {
			continue
		}

		fv, ok := fieldForRead(v, fp.Index)
		if !ok || isNil(fv) {
			continue
		}

		if fp.OmitEmpty && fv.IsZero() {
			continue
		}

		val, err := m.extractValue(fv, fp, depth)
		if err != nil {
			m.skip(SkipEvent{
				Type:      v.Type(),
				Field:     fp.Name,
				Key:       fp.key,
				Direction: DirectionExtract,
				Reason:    ReasonDepth,
				Err:       err,
			})

			continue
		}

		rec[fp.key] = val
	}

	m.observer.ObjectMapped(v.Type(), DirectionExtract)

	return rec
}

func (m *Mapper) extractValue(fv reflect.Value, fp *fieldPlan, depth int) (any, error) {
	switch fp.Kind {
	case descriptor.KindOpaque:
		return fv.Interface(), nil

	case descriptor.KindObject:
		if depth+1 > m.maxDepth {
			return nil, fmt.Errorf("nesting deeper than %d", m.maxDepth)
		}

		return m.extractStruct(reflect.Indirect(fv), nil, depth+1), nil

	case descriptor.KindArray, descriptor.KindArrayUnknown:
		if depth+1 > m.maxDepth {
			return nil, fmt.Errorf("nesting deeper than %d", m.maxDepth)
		}

		out := make([]any, fv.Len())
		for i := range out {
			out[i] = m.extractElem(fv.Index(i), depth+1)
		}

		return out, nil

	default:
		return reflect.Indirect(fv).Interface(), nil
	}
}

// extractElem converts one array element. Structs become records, everything
// else is copied as is.
func (m *Mapper) extractElem(ev reflect.Value, depth int) any {
	for ev.Kind() == reflect.Interface || ev.Kind() == reflect.Ptr {
		if ev.IsNil() {
			return nil
		}

		if ev.Kind() == reflect.Ptr && structOf(ev.Type()) == nil {
			break
		}

		ev = ev.Elem()
	}

	if ev.Kind() == reflect.Struct && structOf(ev.Type()) != nil {
		if _, err := m.plan(ev.Type()); err == nil {
			return m.extractStruct(ev, nil, depth)
		}
	}

	return ev.Interface()
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	default:
		return false
	}
}

func toSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}

	return set
}
