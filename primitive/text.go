package primitive

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// integerText splits s into its sign and its decimal digits without leading
// zeros. It reports false unless s is an optionally signed run of digits.
func integerText(s string) (neg bool, digits string, ok bool) {
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	if s == "" {
		return false, "", false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false, "", false
		}
	}

	digits = strings.TrimLeft(s, "0")
	if digits == "" {
		digits = "0"
	}

	return neg, digits, true
}

// isDecimalText reports whether s uses only the characters of a decimal
// number in fraction or exponent form. Base prefixes, digit separators,
// infinities and NaN are rejected.
func isDecimalText(s string) bool {
	digit := false

	for i := range len(s) {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digit = true
		case c == '+', c == '-', c == '.', c == 'e', c == 'E':
		default:
			return false
		}
	}

	return digit
}

// parseFloatText parses a decimal number written as text.
func parseFloatText(s string) (float64, error) {
	if !isDecimalText(s) {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrIncompatible, s)
	}

	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIncompatible, err)
	}

	return f, nil
}

// parseSignedText parses decimal text into an int64. Fraction and exponent
// forms are accepted when they denote an integer.
func parseSignedText(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if neg, digits, ok := integerText(s); ok {
		if neg {
			digits = "-" + digits
		}

		n, err := cast.ToInt64E(digits)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}

		return n, nil
	}

	f, err := parseFloatText(s)
	if err != nil {
		return 0, err
	}

	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}

	return int64(f), nil
}

// parseUnsignedText parses decimal text into a uint64.
func parseUnsignedText(s string) (uint64, error) {
	s = strings.TrimSpace(s)

	if neg, digits, ok := integerText(s); ok {
		if neg && digits != "0" {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}

		n, err := cast.ToUint64E(digits)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}

		return n, nil
	}

	f, err := parseFloatText(s)
	if err != nil {
		return 0, err
	}

	if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}

	return uint64(f), nil
}

// finite reports whether f is neither NaN nor infinite.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
