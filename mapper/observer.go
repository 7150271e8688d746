package mapper

import (
	"reflect"
)

// Direction tells which way an object was mapped.
type Direction int

const (
	DirectionPopulate Direction = iota + 1 // record to object
	DirectionExtract                       // object to record
)

func (d Direction) String() string {
	switch d {
	case DirectionPopulate:
		return "populate"
	case DirectionExtract:
		return "extract"
	default:
		return "unknown"
	}
}

// Reason explains why a field was skipped.
type Reason string

const (
	ReasonMismatch    Reason = "mismatch"    // no allowed conversion for the value
	ReasonOverflow    Reason = "overflow"    // conversion exists but the value does not fit
	ReasonNil         Reason = "nil"         // record holds nil for the key
	ReasonNotRecord   Reason = "not_record"  // nested object value is not a record
	ReasonNotArray    Reason = "not_array"   // array field value is not a sequence
	ReasonUnsupported Reason = "unsupported" // nested type has no mappable fields
	ReasonDepth       Reason = "depth"       // nesting exceeds the configured maximum
	ReasonReadOnly    Reason = "read_only"   // promoted field behind an unexported nil pointer
)

// SkipEvent describes one field left untouched (populate) or omitted (extract).
type SkipEvent struct {
	Type      reflect.Type
	Field     string
	Key       string
	Direction Direction
	Reason    Reason
	Err       error
}

// Observer receives mapping outcomes. Implementations must be safe for
// concurrent use when the Mapper is shared.
type Observer interface {
	FieldSkipped(ev SkipEvent)
	ObjectMapped(t reflect.Type, d Direction)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) FieldSkipped(SkipEvent)               {}
func (NopObserver) ObjectMapped(reflect.Type, Direction) {}

// Observers fans events out to several observers.
type Observers []Observer

func (o Observers) FieldSkipped(ev SkipEvent) {
	for _, obs := range o {
		obs.FieldSkipped(ev)
	}
}

func (o Observers) ObjectMapped(t reflect.Type, d Direction) {
	for _, obs := range o {
		obs.ObjectMapped(t, d)
	}
}
