package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// ErrUnsupportedType is returned for types that are not structs or that expose
// no mappable fields.
var ErrUnsupportedType = errors.New("unsupported type")

// ContextConstructor is implemented (on the pointer receiver) by types that
// need an external handle, such as a storage session, when they are created.
// The handle is forwarded untouched.
type ContextConstructor interface {
	InitWithContext(pctx any)
}

var contextConstructorType = reflect.TypeFor[ContextConstructor]()

// Descriptor is the immutable mappable shape of a struct type.
type Descriptor struct {
	Type   reflect.Type
	Fields map[string]*Field

	// ContextAware is set when *Type implements ContextConstructor.
	ContextAware bool
}

// Field returns the field with the given Go name.
func (d *Descriptor) Field(name string) (*Field, bool) {
	f, ok := d.Fields[name]
	return f, ok
}

// Names returns the field names in sorted order.
func (d *Descriptor) Names() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Resolver computes and caches descriptors.
type Resolver struct {
	tag string

	mu    sync.RWMutex
	cache map[reflect.Type]*Descriptor
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTag changes the struct tag consulted for record keys.
func WithTag(name string) Option {
	return func(r *Resolver) {
		r.tag = name
	}
}

// NewResolver creates a Resolver with an empty cache.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		tag:   TagName,
		cache: make(map[reflect.Type]*Descriptor),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Default is the resolver used by the package-level Describe.
var Default = NewResolver()

// Describe returns the descriptor of t using the Default resolver.
func Describe(t reflect.Type) (*Descriptor, error) {
	return Default.Describe(t)
}

// Describe returns the descriptor for t, or for the struct t points to.
func (r *Resolver) Describe(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	r.mu.RLock()
	d, ok := r.cache[t]
	r.mu.RUnlock()

	if ok {
		return d, nil
	}

	d, err := r.describe(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[t] = d
	r.mu.Unlock()

	return d, nil
}

// Len returns the number of cached descriptors.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.cache)
}

// Reset drops every cached descriptor.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.cache)
}

func (r *Resolver) describe(t reflect.Type) (*Descriptor, error) {
	if t.Kind() != reflect.Struct || structBase(t) == nil {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnsupportedType, t)
	}

	d := &Descriptor{
		Type:         t,
		Fields:       make(map[string]*Field),
		ContextAware: reflect.PointerTo(t).Implements(contextConstructorType),
	}

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}

		if sf.Anonymous && structBase(sf.Type) != nil {
			// promoted fields are visited on their own
			continue
		}

		tag := ParseTag(sf.Tag, r.tag)
		if tag.Skip {
			continue
		}

		sh := dispatch(sf.Type)
		if sh.kind == 0 {
			continue
		}

		key := sf.Name
		if tag.Name != "" {
			key = tag.Name
		}

		d.Fields[sf.Name] = &Field{
			Name:      sf.Name,
			Key:       key,
			Index:     slices.Clone(sf.Index),
			Type:      sf.Type,
			Kind:      sh.kind,
			Scalar:    sh.scalar,
			Elem:      sh.elem,
			Pointer:   sh.pointer,
			OmitEmpty: tag.OmitEmpty,
			Promoted:  len(sf.Index) > 1,
		}
	}

	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s has no mappable fields", ErrUnsupportedType, t)
	}

	return d, nil
}
