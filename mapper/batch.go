package mapper

import (
	"context"
	"reflect"

	"golang.org/x/sync/errgroup"
)

// BuildArray builds one object of type t per element of recs, in order.
// Elements that are not records yield zero-value objects. recs may be any
// slice or array; anything else yields an empty result.
func (m *Mapper) BuildArray(t reflect.Type, recs any) []any {
	return m.buildArray(t, recs, construction{})
}

// BuildArrayWithContext is BuildArray with every object created through
// ContextConstructor with pctx.
func (m *Mapper) BuildArrayWithContext(t reflect.Type, recs any, pctx any) []any {
	return m.buildArray(t, recs, construction{pctx: pctx, withCtx: true})
}

// BuildArrayParallel produces the same result as BuildArray using up to
// WithWorkers goroutines. The only error is the cancellation of ctx.
func (m *Mapper) BuildArrayParallel(ctx context.Context, t reflect.Type, recs any) ([]any, error) {
	seq, ok := asSequence(recs)
	if !ok || structOf(t) == nil {
		return []any{}, nil
	}

	out := make([]any, seq.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i := range out {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out[i] = m.buildOne(t, seq.Index(i).Interface(), construction{})

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (m *Mapper) buildArray(t reflect.Type, recs any, c construction) []any {
	seq, ok := asSequence(recs)
	if !ok || structOf(t) == nil {
		return []any{}
	}

	out := make([]any, seq.Len())
	for i := range out {
		out[i] = m.buildOne(t, seq.Index(i).Interface(), c)
	}

	return out
}

func (m *Mapper) buildOne(t reflect.Type, item any, c construction) any {
	rec, ok := asRecord(item)
	if !ok {
		m.skip(SkipEvent{
			Type:      structOf(t),
			Direction: DirectionPopulate,
			Reason:    ReasonNotRecord,
		})
	}

	return m.buildTop(t, rec, c)
}

// Build allocates and populates a *T. A nil m means Default.
func Build[T any](m *Mapper, rec Record) *T {
	obj, _ := orDefault(m).Build(reflect.TypeFor[T](), rec).(*T)
	return obj
}

// BuildWithContext is Build with construction through ContextConstructor.
func BuildWithContext[T any](m *Mapper, rec Record, pctx any) *T {
	obj, _ := orDefault(m).BuildWithContext(reflect.TypeFor[T](), rec, pctx).(*T)
	return obj
}

// BuildArray builds one *T per record, in order.
func BuildArray[T any](m *Mapper, recs []Record) []*T {
	return collect[T](orDefault(m).BuildArray(reflect.TypeFor[T](), recs))
}

// BuildArrayWithContext is BuildArray with construction through
// ContextConstructor.
func BuildArrayWithContext[T any](m *Mapper, recs []Record, pctx any) []*T {
	return collect[T](orDefault(m).BuildArrayWithContext(reflect.TypeFor[T](), recs, pctx))
}

// ExtractBatchOf extracts every object, in order.
func ExtractBatchOf[T any](m *Mapper, objs []T) []Record {
	m = orDefault(m)

	out := make([]Record, len(objs))
	for i := range objs {
		out[i] = m.Extract(objs[i])
	}

	return out
}

func collect[T any](objs []any) []*T {
	out := make([]*T, 0, len(objs))
	for _, obj := range objs {
		if t, ok := obj.(*T); ok {
			out = append(out, t)
		}
	}

	return out
}
