package mapper

import (
	"fmt"
	"reflect"

	"record-mapper/descriptor"
	"record-mapper/primitive"
)

// construction carries the optional context handed to ContextConstructor.
type construction struct {
	pctx    any
	withCtx bool
}

// Populate copies the values of rec into obj, which must be a non-nil pointer
// to a struct. Fields whose key is missing, whose value cannot be converted, or
// that are excluded by the type's policy are left unchanged. obj is returned.
//
// A nested struct held by value is populated in place, so its fields keep
// their values when the nested record lacks their keys. A nested pointer is
// replaced by a newly built object, so keys missing from the nested record
// leave its fields at their zero values.
func (m *Mapper) Populate(obj any, rec Record) any {
	return m.populateTop(obj, rec, construction{})
}

// PopulateWithContext is Populate, except that nested objects are created
// through ContextConstructor with pctx.
func (m *Mapper) PopulateWithContext(obj any, rec Record, pctx any) any {
	return m.populateTop(obj, rec, construction{pctx: pctx, withCtx: true})
}

// Build allocates a new *T for the struct type t (or *T) and populates it from
// rec. It returns nil when t is not a struct type.
func (m *Mapper) Build(t reflect.Type, rec Record) any {
	return m.buildTop(t, rec, construction{})
}

// BuildWithContext is Build with the new object and every nested object
// created through ContextConstructor with pctx.
func (m *Mapper) BuildWithContext(t reflect.Type, rec Record, pctx any) any {
	return m.buildTop(t, rec, construction{pctx: pctx, withCtx: true})
}

func (m *Mapper) populateTop(obj any, rec Record, c construction) any {
	v := reflect.ValueOf(obj)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || structOf(v.Type()) == nil {
		m.logger.Debug("populate target is not a pointer to struct", "type", fmt.Sprintf("%T", obj))
		return obj
	}

	if rec == nil {
		return obj
	}

	m.populateStruct(v.Elem(), rec, c, 0)

	return obj
}

func (m *Mapper) buildTop(t reflect.Type, rec Record, c construction) any {
	st := structOf(t)
	if st == nil {
		m.logger.Debug("build target is not a struct type", "type", typeName(t))
		return nil
	}

	obj := m.construct(st, c)
	if rec != nil {
		m.populateStruct(obj.Elem(), rec, c, 0)
	}

	return obj.Interface()
}

// construct allocates a *t, running the context hook when requested.
func (m *Mapper) construct(t reflect.Type, c construction) reflect.Value {
	obj := reflect.New(t)

	if !c.withCtx {
		return obj
	}

	if p, err := m.plan(t); err == nil && !p.desc.ContextAware {
		return obj
	}

	if cc, ok := obj.Interface().(ContextConstructor); ok {
		cc.InitWithContext(c.pctx)
	}

	return obj
}

// populateStruct fills the addressable struct value v from rec.
func (m *Mapper) populateStruct(v reflect.Value, rec Record, c construction, depth int) {
	p, err := m.plan(v.Type())
	if err != nil {
		m.logger.Debug("type has no mappable fields", "type", typeName(v.Type()), "error", err)
		return
	}

	for _, fp := range p.fields {
		if fp.excluded {
			continue
		}

		raw, ok := rec[fp.key]
		if !ok {
			continue
		}

		ev := SkipEvent{Type: v.Type(), Field: fp.Name, Key: fp.key, Direction: DirectionPopulate}

		if raw == nil {
			ev.Reason = ReasonNil
			m.skip(ev)

			continue
		}

		fv, ok := fieldForWrite(v, fp.Index)
		if !ok {
			ev.Reason = ReasonReadOnly
			m.skip(ev)

			continue
		}

		if reason, err := m.assign(fv, fp, raw, c, depth); reason != "" {
			ev.Reason, ev.Err = reason, err
			m.skip(ev)
		}
	}

	m.observer.ObjectMapped(v.Type(), DirectionPopulate)
}

// assign converts raw for fp and stores it into fv. On failure fv is left
// unchanged and the reason is returned.
func (m *Mapper) assign(fv reflect.Value, fp *fieldPlan, raw any, c construction, depth int) (Reason, error) {
	switch fp.Kind {
	case descriptor.KindOpaque:
		out, ok := passthrough(raw, fp.Type)
		if !ok {
			return ReasonMismatch, fmt.Errorf("%T is not assignable to %s", raw, fp.Type)
		}

		fv.Set(out)

		return "", nil

	case descriptor.KindObject:
		return m.assignObject(fv, fp, raw, c, depth)

	case descriptor.KindArray:
		return m.assignArray(fv, fp, raw, c, depth)

	case descriptor.KindArrayUnknown:
		return m.assignUnknownArray(fv, fp, raw, c, depth)

	default:
		out, err := m.coerce(raw, fp.Type)
		if err != nil {
			return scalarReason(err), err
		}

		fv.Set(out)

		return "", nil
	}
}

// coerce converts a scalar into t, which may be a pointer to a scalar.
func (m *Mapper) coerce(raw any, t reflect.Type) (reflect.Value, error) {
	if t.Kind() != reflect.Ptr {
		return primitive.Coerce(raw, t, m.categories)
	}

	out, err := primitive.Coerce(raw, t.Elem(), m.categories)
	if err != nil {
		return reflect.Value{}, err
	}

	ptr := reflect.New(t.Elem())
	ptr.Elem().Set(out)

	return ptr, nil
}

func (m *Mapper) assignObject(fv reflect.Value, fp *fieldPlan, raw any, c construction, depth int) (Reason, error) {
	rec, ok := asRecord(raw)
	if !ok {
		return ReasonNotRecord, fmt.Errorf("%T is not a record", raw)
	}

	if depth+1 > m.maxDepth {
		return ReasonDepth, fmt.Errorf("nesting deeper than %d", m.maxDepth)
	}

	if _, err := m.plan(fp.Elem); err != nil {
		return ReasonUnsupported, err
	}

	if !fp.Pointer {
		m.populateStruct(fv, rec, c, depth+1)
		return "", nil
	}

	obj := m.construct(fp.Elem, c)
	m.populateStruct(obj.Elem(), rec, c, depth+1)
	fv.Set(obj)

	return "", nil
}

func (m *Mapper) assignArray(fv reflect.Value, fp *fieldPlan, raw any, c construction, depth int) (Reason, error) {
	seq, ok := asSequence(raw)
	if !ok {
		return ReasonNotArray, fmt.Errorf("%T is not a sequence", raw)
	}

	if fp.ElemIsObject() {
		if depth+1 > m.maxDepth {
			return ReasonDepth, fmt.Errorf("nesting deeper than %d", m.maxDepth)
		}

		out, n := makeSequence(fp.Type, seq.Len())
		for i := range n {
			out.Index(i).Set(m.buildElem(fp, seq.Index(i).Interface(), fp.Elem, c, depth+1))
		}

		fv.Set(out)

		return "", nil
	}

	out, n := makeSequence(fp.Type, seq.Len())
	for i := range n {
		item := seq.Index(i).Interface()

		ev, err := m.coerce(item, fp.Elem)
		if err != nil {
			return scalarReason(err), fmt.Errorf("element %d: %w", i, err)
		}

		out.Index(i).Set(ev)
	}

	fv.Set(out)

	return "", nil
}

func (m *Mapper) assignUnknownArray(fv reflect.Value, fp *fieldPlan, raw any, c construction, depth int) (Reason, error) {
	seq, ok := asSequence(raw)
	if !ok {
		return ReasonNotArray, fmt.Errorf("%T is not a sequence", raw)
	}

	elemType := fp.Type.Elem()

	if fp.elem != nil && depth+1 > m.maxDepth {
		return ReasonDepth, fmt.Errorf("nesting deeper than %d", m.maxDepth)
	}

	out, n := makeSequence(fp.Type, seq.Len())
	for i := range n {
		item := seq.Index(i).Interface()

		if fp.elem != nil {
			if rec, ok := asRecord(item); ok {
				obj := m.construct(structOf(fp.elem), c)
				m.populateStruct(obj.Elem(), rec, c, depth+1)

				if fp.elem.Kind() != reflect.Ptr {
					obj = obj.Elem()
				}

				out.Index(i).Set(obj)

				continue
			}
		}

		if item == nil {
			continue
		}

		ev, ok := passthrough(item, elemType)
		if !ok {
			return ReasonMismatch, fmt.Errorf("element %d: %T is not assignable to %s", i, item, elemType)
		}

		out.Index(i).Set(ev)
	}

	fv.Set(out)

	return "", nil
}

// buildElem builds one element of an object array. Elements that are not
// records become zero objects.
func (m *Mapper) buildElem(fp *fieldPlan, item any, elemType reflect.Type, c construction, depth int) reflect.Value {
	st := structOf(elemType)
	obj := m.construct(st, c)

	if rec, ok := asRecord(item); ok {
		m.populateStruct(obj.Elem(), rec, c, depth)
	} else {
		m.skip(SkipEvent{
			Type:      st,
			Field:     fp.Name,
			Key:       fp.key,
			Direction: DirectionPopulate,
			Reason:    ReasonNotRecord,
			Err:       fmt.Errorf("element %T is not a record", item),
		})
	}

	if elemType.Kind() == reflect.Ptr {
		return obj
	}

	return obj.Elem()
}

func scalarReason(err error) Reason {
	if isOverflow(err) {
		return ReasonOverflow
	}

	return ReasonMismatch
}
