package policy

import (
	"maps"
	"reflect"
	"slices"
)

// Policy customizes how one struct type is mapped. The zero value and nil are
// both valid and mean "no customization".
type Policy struct {
	// Excluded fields are never written when populating from a record.
	Excluded map[string]struct{}
	// ExcludedForExtraction fields are never written into extracted records.
	ExcludedForExtraction map[string]struct{}
	// Keys maps a Go field name to the record key used for it.
	Keys map[string]string
	// Elements maps a []any field to the type its elements are built as.
	Elements map[string]reflect.Type
}

// Provider is implemented by types that carry their own policy. The method is
// called on a zero value, so it must not depend on field contents.
type Provider interface {
	FieldPolicy() *Policy
}

// New returns an empty policy ready for the builder methods.
func New() *Policy {
	return &Policy{}
}

// Exclude adds fields that populate must leave alone.
func (p *Policy) Exclude(fields ...string) *Policy {
	if p.Excluded == nil {
		p.Excluded = make(map[string]struct{}, len(fields))
	}

	for _, f := range fields {
		p.Excluded[f] = struct{}{}
	}

	return p
}

// ExcludeFromExtraction adds fields that extract must leave out.
func (p *Policy) ExcludeFromExtraction(fields ...string) *Policy {
	if p.ExcludedForExtraction == nil {
		p.ExcludedForExtraction = make(map[string]struct{}, len(fields))
	}

	for _, f := range fields {
		p.ExcludedForExtraction[f] = struct{}{}
	}

	return p
}

// MapKey reads and writes field under the record key instead of its name.
func (p *Policy) MapKey(field, key string) *Policy {
	if p.Keys == nil {
		p.Keys = make(map[string]string)
	}

	p.Keys[field] = key

	return p
}

// ElementType declares the element type of a []any field. Pointer types yield
// pointers in the rebuilt slice, struct types yield values.
func (p *Policy) ElementType(field string, t reflect.Type) *Policy {
	if p.Elements == nil {
		p.Elements = make(map[string]reflect.Type)
	}

	p.Elements[field] = t

	return p
}

// ExcludedProperties returns the sorted fields skipped by populate.
func (p *Policy) ExcludedProperties() []string {
	if p == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(p.Excluded))
}

// ExcludedPropertiesForPersistence returns the sorted fields skipped by extract.
func (p *Policy) ExcludedPropertiesForPersistence() []string {
	if p == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(p.ExcludedForExtraction))
}

// DataKeyOverrides returns a copy of the field to record key overrides.
func (p *Policy) DataKeyOverrides() map[string]string {
	if p == nil || len(p.Keys) == 0 {
		return map[string]string{}
	}

	return maps.Clone(p.Keys)
}

// ElementTypeForArrayProperty returns the declared element type of field.
func (p *Policy) ElementTypeForArrayProperty(field string) (reflect.Type, bool) {
	if p == nil {
		return nil, false
	}

	t, ok := p.Elements[field]

	return t, ok && t != nil
}

// IsExcluded reports whether populate skips field.
func (p *Policy) IsExcluded(field string) bool {
	if p == nil {
		return false
	}

	_, ok := p.Excluded[field]

	return ok
}

// IsExcludedForExtraction reports whether extract skips field.
func (p *Policy) IsExcludedForExtraction(field string) bool {
	if p == nil {
		return false
	}

	_, ok := p.ExcludedForExtraction[field]

	return ok
}

// KeyFor returns the record key of field, or fallback when no override exists.
func (p *Policy) KeyFor(field, fallback string) string {
	if p == nil {
		return fallback
	}

	if key, ok := p.Keys[field]; ok && key != "" {
		return key
	}

	return fallback
}

// IsEmpty reports whether the policy customizes nothing.
func (p *Policy) IsEmpty() bool {
	return p == nil ||
		len(p.Excluded) == 0 && len(p.ExcludedForExtraction) == 0 && len(p.Keys) == 0 && len(p.Elements) == 0
}

// Clone returns a deep copy of the policy.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return New()
	}

	return &Policy{
		Excluded:              maps.Clone(p.Excluded),
		ExcludedForExtraction: maps.Clone(p.ExcludedForExtraction),
		Keys:                  maps.Clone(p.Keys),
		Elements:              maps.Clone(p.Elements),
	}
}
