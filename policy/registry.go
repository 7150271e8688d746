package policy

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"record-mapper/internal/common"
)

// ErrUnknownType is returned when a type name has not been registered.
var ErrUnknownType = errors.New("unknown type")

var providerType = reflect.TypeFor[Provider]()

// Registry holds policies registered for types and the names types are known
// by in policy files. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	policies map[reflect.Type]*Policy
	types    map[string]reflect.Type
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		policies: make(map[reflect.Type]*Policy),
		types:    make(map[string]reflect.Type),
	}
}

// TypeName returns the name a type is registered under by RegisterTypes:
// the last element of its package path, a dot, and the type name.
func TypeName(t reflect.Type) string {
	t = indirect(t)

	if alias := common.PkgAlias(t.PkgPath()); alias != "" {
		return alias + "." + t.Name()
	}

	return t.Name()
}

// Register sets the policy of t (or of the struct t points to), replacing any
// previous registration and taking precedence over a FieldPolicy method.
func (r *Registry) Register(t reflect.Type, p *Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.policies[indirect(t)] = p.Clone()
}

// RegisterType makes t resolvable by name in policy files.
func (r *Registry) RegisterType(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types[name] = t
}

// RegisterTypes registers each type under TypeName. Pointer types keep their
// pointer so element types declared through them yield pointers.
func (r *Registry) RegisterTypes(types ...reflect.Type) {
	for _, t := range types {
		r.RegisterType(TypeName(t), t)
	}
}

// TypeByName returns the type registered under name.
func (r *Registry) TypeByName(name string) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	return t, nil
}

// Lookup returns the policy registered for t, without consulting Provider.
func (r *Registry) Lookup(t reflect.Type) (*Policy, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.policies[indirect(t)]

	return p, ok
}

// Resolve returns the effective policy of t: a registered policy, else the
// type's own FieldPolicy, else an empty policy. The result is never nil.
func (r *Registry) Resolve(t reflect.Type) *Policy {
	if p, ok := r.Lookup(t); ok && p != nil {
		return p
	}

	if p := FromProvider(t); p != nil {
		return p
	}

	return New()
}

// FromProvider calls FieldPolicy on a zero value of t when t or *t implements
// Provider. It returns nil otherwise.
func FromProvider(t reflect.Type) *Policy {
	if t == nil {
		return nil
	}

	t = indirect(t)

	var v reflect.Value

	switch {
	case t.Implements(providerType):
		v = reflect.New(t).Elem()
	case reflect.PointerTo(t).Implements(providerType):
		v = reflect.New(t)
	default:
		return nil
	}

	return v.Interface().(Provider).FieldPolicy()
}

func indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}

	return t
}
