package descriptor

import "record-mapper/primitive"

//go:generate go tool stringer -type=FieldKind -output=kind_string.go

// FieldKind tells the mapper how a field's value is produced from a record.
type FieldKind int

const (
	_ FieldKind = iota // zero value marks an unsupported field

	KindBool
	KindInteger
	KindFloat
	KindString
	KindTime
	KindDuration
	KindOpaque       // interface or map field, assigned as-is
	KindObject       // nested struct built from a nested record
	KindArrayUnknown // []any or slice of maps, elements passed through
	KindArray        // slice or array with a declared element type
)

// IsScalar reports whether values of this kind are handled by primitive.Coerce.
func (k FieldKind) IsScalar() bool {
	switch k {
	case KindBool, KindInteger, KindFloat, KindString, KindTime, KindDuration:
		return true
	default:
		return false
	}
}

// IsArray reports whether the field holds a sequence.
func (k FieldKind) IsArray() bool {
	return k == KindArray || k == KindArrayUnknown
}

func scalarFieldKind(k primitive.KindEnum) FieldKind {
	switch {
	case k == primitive.KindBool:
		return KindBool
	case k.IsInteger():
		return KindInteger
	case k.IsFloat():
		return KindFloat
	case k == primitive.KindString:
		return KindString
	case k == primitive.KindTime:
		return KindTime
	case k == primitive.KindDuration:
		return KindDuration
	default:
		return 0
	}
}
