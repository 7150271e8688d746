// Package mapper converts between records (map[string]any values, as produced
// by decoding JSON or YAML) and Go structs.
//
// Populating an object walks the fields of its descriptor, looks each one up
// in the record under its key, and converts the value according to the field
// kind. Extraction is the reverse walk. Both directions are best effort: a value
// that cannot be converted leaves the field untouched (or the key absent) and is
// reported to the Observer, but never fails the object or the batch.
//
//	m := mapper.New()
//	user := mapper.Build[catalog.User](m, mapper.Record{"id": 1, "display": "Ana"})
//	rec := m.Extract(user)
//
// Record keys default to the Go field name verbatim. A `record` struct tag or
// a policy.Policy can rename them; the policy also excludes fields per direction
// and declares element types for []any fields.
//
// Types whose pointer implements ContextConstructor receive the caller's
// persistence handle on creation when one of the WithContext variants is used.
//
// A Mapper caches one plan per type. Policies registered after a type was first
// mapped are picked up only after Reset.
package mapper
