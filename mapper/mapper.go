package mapper

import (
	"io"
	"log/slog"
	"reflect"
	"sync"

	"record-mapper/descriptor"
	"record-mapper/policy"
	"record-mapper/primitive"
)

// Record is a string-keyed map of dynamically typed values.
type Record = map[string]any

// ContextConstructor is the construction hook used by the WithContext variants.
type ContextConstructor = descriptor.ContextConstructor

const (
	defaultMaxDepth = 32
	defaultWorkers  = 8
)

// Mapper populates structs from records and extracts records from structs.
// It is safe for concurrent use.
type Mapper struct {
	resolver   *descriptor.Resolver
	registry   *policy.Registry
	logger     *slog.Logger
	observer   Observer
	categories primitive.CategoryEnum
	workers    int
	maxDepth   int

	mu    sync.RWMutex
	plans map[reflect.Type]*plan
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithResolver sets the descriptor resolver (and thereby its cache and tag).
func WithResolver(r *descriptor.Resolver) Option {
	return func(m *Mapper) {
		m.resolver = r
	}
}

// WithRegistry sets the registry consulted for policies.
func WithRegistry(r *policy.Registry) Option {
	return func(m *Mapper) {
		m.registry = r
	}
}

// WithLogger sets a structured logger. Skipped fields are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// WithObserver sets the observer notified of skipped fields and mapped objects.
func WithObserver(o Observer) Option {
	return func(m *Mapper) {
		m.observer = o
	}
}

// WithCategories sets the scalar conversions allowed when populating.
func WithCategories(c primitive.CategoryEnum) Option {
	return func(m *Mapper) {
		m.categories = c
	}
}

// WithWorkers bounds the goroutines used by BuildArrayParallel.
func WithWorkers(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithMaxDepth bounds how deep nested objects are followed.
func WithMaxDepth(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.maxDepth = n
		}
	}
}

// New creates a Mapper. Without options it uses the default descriptor
// resolver, an empty policy registry, primitive.DefaultCategories, and a
// logger that discards everything.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		resolver:   descriptor.Default,
		registry:   policy.NewRegistry(),
		observer:   NopObserver{},
		categories: primitive.DefaultCategories,
		workers:    defaultWorkers,
		maxDepth:   defaultMaxDepth,
		plans:      make(map[reflect.Type]*plan),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return m
}

// Default is used by the generic helpers when they are given a nil Mapper.
var Default = New()

// Registry returns the registry the mapper resolves policies from.
func (m *Mapper) Registry() *policy.Registry {
	return m.registry
}

// Reset drops cached plans so that newly registered policies take effect.
func (m *Mapper) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.plans)
}

// plan is a descriptor combined with the effective policy of its type.
type plan struct {
	desc   *descriptor.Descriptor
	fields []*fieldPlan
}

type fieldPlan struct {
	*descriptor.Field

	key             string
	excluded        bool
	excludedExtract bool
	elem            reflect.Type // policy element type of a KindArrayUnknown field
}

func (m *Mapper) plan(t reflect.Type) (*plan, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	m.mu.RLock()
	p, ok := m.plans[t]
	m.mu.RUnlock()

	if ok {
		return p, nil
	}

	desc, err := m.resolver.Describe(t)
	if err != nil {
		return nil, err
	}

	pol := m.registry.Resolve(t)

	p = &plan{desc: desc}
	for _, name := range desc.Names() {
		f := desc.Fields[name]

		fp := &fieldPlan{
			Field:           f,
			key:             pol.KeyFor(name, f.Key),
			excluded:        pol.IsExcluded(name),
			excludedExtract: pol.IsExcludedForExtraction(name),
		}

		if elem, ok := pol.ElementTypeForArrayProperty(name); ok && f.Kind == descriptor.KindArrayUnknown {
			if elem.AssignableTo(f.Type.Elem()) && structOf(elem) != nil {
				fp.elem = elem
			}
		}

		p.fields = append(p.fields, fp)
	}

	m.mu.Lock()
	m.plans[t] = p
	m.mu.Unlock()

	return p, nil
}

func (m *Mapper) skip(ev SkipEvent) {
	m.logger.Debug("field skipped",
		slog.String("type", typeName(ev.Type)),
		slog.String("field", ev.Field),
		slog.String("key", ev.Key),
		slog.String("direction", ev.Direction.String()),
		slog.String("reason", string(ev.Reason)),
		slog.Any("error", ev.Err),
	)

	m.observer.FieldSkipped(ev)
}

func orDefault(m *Mapper) *Mapper {
	if m == nil {
		return Default
	}

	return m
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// structOf returns the struct type behind t or *t, or nil.
func structOf(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct || primitive.FromReflectType(t) != 0 {
		return nil
	}

	return t
}
