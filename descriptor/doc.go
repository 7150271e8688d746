// Package descriptor resolves the mappable shape of a Go struct type.
//
// A Descriptor lists the exported fields of a struct (including fields
// promoted from embedded structs) together with the FieldKind that decides how
// a record value is converted into or out of the field:
//
//   - scalar kinds (bool, integer, float, string, time, duration)
//   - KindOpaque for interface and map fields, assigned as-is
//   - KindObject for nested structs, built from a nested record
//   - KindArray for slices and arrays with a declared element type
//   - KindArrayUnknown for []any and slices of maps
//
// Fields of any other type (channels, functions, complex numbers, pointers to
// pointers) are left out of the descriptor and never touched.
//
// Descriptors are computed once per type and cached by a Resolver. The cache
// is safe for concurrent use; two goroutines describing the same type at the
// same time may both compute it, and the last write wins.
//
// The `record` struct tag renames the default record key of a field, `record:"-"`
// drops the field, and the omitempty option skips zero values on extraction:
//
//	type User struct {
//		ID        int    `record:"id"`
//		Display   string `record:"display,omitempty"`
//		Password  string `record:"-"`
//		Certified bool
//	}
package descriptor
