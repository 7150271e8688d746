package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	// ErrIncompatible is returned when no allowed conversion exists between the kinds.
	ErrIncompatible = errors.New("incompatible value")
	// ErrOverflow is returned when a conversion exists but the value does not fit.
	ErrOverflow = errors.New("value out of range")
)

var textualBools = map[string]bool{
	"yes": true,
	"y":   true,
	"on":  true,
	"no":  false,
	"n":   false,
	"off": false,
}

// Coerce converts raw into a value assignable to a destination of type to,
// using only the conversion categories in allowed. A json.Number is treated
// as numeric text.
func Coerce(raw any, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	toKind := FromReflectType(to)
	if toKind == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s is not a scalar type", ErrIncompatible, to)
	}

	if raw == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil", ErrIncompatible)
	}

	rv := reflect.ValueOf(raw)
	if rv.Type() == numberType {
		rv = reflect.ValueOf(rv.String())
	}

	fromKind := FromReflectType(rv.Type())
	if fromKind == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s into %s", ErrIncompatible, rv.Type(), to)
	}

	if !allowed.Allows(fromKind, toKind) {
		return reflect.Value{}, fmt.Errorf("%w: %s into %s", ErrIncompatible, fromKind, toKind)
	}

	if fromKind == toKind {
		return rv.Convert(to), nil
	}

	out := reflect.New(to).Elem()

	var err error

	switch {
	case toKind.IsSigned():
		err = setSigned(out, rv, fromKind)
	case toKind.IsUnsigned():
		err = setUnsigned(out, rv, fromKind)
	case toKind.IsFloat():
		err = setFloat(out, rv, fromKind)
	case toKind == KindBool:
		err = setBool(out, rv, fromKind)
	case toKind == KindString:
		err = setString(out, rv, fromKind)
	case toKind == KindTime:
		err = setTime(out, rv, fromKind)
	case toKind == KindDuration:
		err = setDuration(out, rv, fromKind)
	default:
		err = ErrIncompatible
	}

	if err != nil {
		return reflect.Value{}, fmt.Errorf("%s into %s: %w", fromKind, toKind, err)
	}

	return out, nil
}

func setSigned(out, rv reflect.Value, from KindEnum) error {
	var n int64

	switch {
	case from.IsSigned():
		n = rv.Int()
	case from.IsUnsigned():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return ErrOverflow
		}

		n = int64(u)
	case from.IsFloat():
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return ErrOverflow
		}

		n = int64(f)
	case from == KindString:
		parsed, err := parseSignedText(rv.String())
		if err != nil {
			return err
		}

		n = parsed
	case from == KindBool:
		if rv.Bool() {
			n = 1
		}
	case from == KindDuration:
		n = rv.Int()
	case from == KindTime:
		n = rv.Interface().(time.Time).Unix()
	default:
		return ErrIncompatible
	}

	if out.OverflowInt(n) {
		return ErrOverflow
	}

	out.SetInt(n)

	return nil
}

func setUnsigned(out, rv reflect.Value, from KindEnum) error {
	var n uint64

	switch {
	case from.IsSigned():
		i := rv.Int()
		if i < 0 {
			return ErrOverflow
		}

		n = uint64(i)
	case from.IsUnsigned():
		n = rv.Uint()
	case from.IsFloat():
		f := rv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return ErrOverflow
		}

		n = uint64(f)
	case from == KindString:
		parsed, err := parseUnsignedText(rv.String())
		if err != nil {
			return err
		}

		n = parsed
	case from == KindBool:
		if rv.Bool() {
			n = 1
		}
	case from == KindDuration:
		d := rv.Int()
		if d < 0 {
			return ErrOverflow
		}

		n = uint64(d)
	case from == KindTime:
		sec := rv.Interface().(time.Time).Unix()
		if sec < 0 {
			return ErrOverflow
		}

		n = uint64(sec)
	default:
		return ErrIncompatible
	}

	if out.OverflowUint(n) {
		return ErrOverflow
	}

	out.SetUint(n)

	return nil
}

func setFloat(out, rv reflect.Value, from KindEnum) error {
	var f float64

	switch {
	case from.IsSigned():
		f = float64(rv.Int())
	case from.IsUnsigned():
		f = float64(rv.Uint())
	case from.IsFloat():
		f = rv.Float()
	case from == KindString:
		parsed, err := parseFloatText(strings.TrimSpace(rv.String()))
		if err != nil {
			return err
		}

		f = parsed
	case from == KindDuration:
		f = time.Duration(rv.Int()).Seconds()
	default:
		return ErrIncompatible
	}

	if out.OverflowFloat(f) {
		return ErrOverflow
	}

	out.SetFloat(f)

	return nil
}

func setBool(out, rv reflect.Value, from KindEnum) error {
	switch {
	case from.IsSigned():
		out.SetBool(rv.Int() != 0)
	case from.IsUnsigned():
		out.SetBool(rv.Uint() != 0)
	case from == KindString:
		s := strings.ToLower(strings.TrimSpace(rv.String()))
		if b, ok := textualBools[s]; ok {
			out.SetBool(b)
			return nil
		}

		b, err := cast.ToBoolE(s)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIncompatible, err)
		}

		out.SetBool(b)
	default:
		return ErrIncompatible
	}

	return nil
}

func setString(out, rv reflect.Value, from KindEnum) error {
	switch {
	case from.IsSigned():
		out.SetString(strconv.FormatInt(rv.Int(), 10))
	case from.IsUnsigned():
		out.SetString(strconv.FormatUint(rv.Uint(), 10))
	case from.IsFloat():
		out.SetString(strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()))
	case from == KindBool:
		out.SetString(strconv.FormatBool(rv.Bool()))
	case from == KindTime:
		out.SetString(rv.Interface().(time.Time).Format(time.RFC3339Nano))
	case from == KindDuration:
		out.SetString(time.Duration(rv.Int()).String())
	default:
		return ErrIncompatible
	}

	return nil
}

func setTime(out, rv reflect.Value, from KindEnum) error {
	var t time.Time

	switch {
	case from == KindString:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rv.String()))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIncompatible, err)
		}

		t = parsed
	case from.IsSigned():
		t = time.Unix(rv.Int(), 0).UTC()
	case from.IsUnsigned():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return ErrOverflow
		}

		t = time.Unix(int64(u), 0).UTC()
	case from.IsFloat():
		v := rv.Float()
		if !finite(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return ErrOverflow
		}

		sec, frac := math.Modf(v)
		t = time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
	default:
		return ErrIncompatible
	}

	out.Set(reflect.ValueOf(t).Convert(out.Type()))

	return nil
}

func setDuration(out, rv reflect.Value, from KindEnum) error {
	var d time.Duration

	switch {
	case from == KindString:
		parsed, err := time.ParseDuration(strings.TrimSpace(rv.String()))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIncompatible, err)
		}

		d = parsed
	case from.IsSigned():
		d = time.Duration(rv.Int())
	case from.IsUnsigned():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return ErrOverflow
		}

		d = time.Duration(u)
	case from.IsFloat():
		f := rv.Float() * float64(time.Second)
		if !finite(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return ErrOverflow
		}

		d = time.Duration(f)
	default:
		return ErrIncompatible
	}

	out.SetInt(int64(d))

	return nil
}
