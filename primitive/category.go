package primitive

type CategoryEnum int

// ConversionPair is a directed scalar conversion: a raw value of kind From
// assigned into a destination of kind To.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float narrowing, checked per value (integral, in range)
	CategoryTextNumber                            // string -> int, uint, float: parse textual number representation
	CategoryNumberText                            // int, uint, float, bool -> string: format as text
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string -> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation

	CategoryAll  CategoryEnum = (1 << iota) - 1 //all categories combined
	CategoryNone CategoryEnum = 0               // no categories selected

	// DefaultCategories never turns a number into text or into a point in time,
	// so a numeric value sent for a string field is left alone.
	DefaultCategories = CategoryAll &^ (CategoryNumberText | CategoryTimestamp)
)

var conversionPairs map[CategoryEnum]map[ConversionPair]struct{}

func init() {
	conversionPairs = make(map[CategoryEnum]map[ConversionPair]struct{})

	conversionPairs[CategorySafeNumber] = safeNumberConversionPairs()

	conversionPairs[CategoryUnsafeNumber] = map[ConversionPair]struct{}{}
	for fromKind := KindEnum(1); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsNumber() {
			continue
		}

		for toKind := KindEnum(1); int(toKind) < KindTotal; toKind++ {
			if !toKind.IsNumber() {
				continue
			}

			pair := ConversionPair{fromKind, toKind}
			if _, ok := conversionPairs[CategorySafeNumber][pair]; ok {
				continue
			}

			conversionPairs[CategoryUnsafeNumber][pair] = struct{}{}
		}
	}

	conversionPairs[CategoryTextNumber] = map[ConversionPair]struct{}{}
	conversionPairs[CategoryNumberText] = map[ConversionPair]struct{}{
		{KindBool, KindString}: {},
	}
	for numberKind := KindEnum(1); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsNumber() {
			continue
		}

		conversionPairs[CategoryTextNumber][ConversionPair{KindString, numberKind}] = struct{}{}
		conversionPairs[CategoryNumberText][ConversionPair{numberKind, KindString}] = struct{}{}
	}

	conversionPairs[CategoryNumericBool] = map[ConversionPair]struct{}{}
	for intKind := KindEnum(1); int(intKind) < KindTotal; intKind++ {
		if !intKind.IsInteger() {
			continue
		}

		conversionPairs[CategoryNumericBool][ConversionPair{intKind, KindBool}] = struct{}{}
		conversionPairs[CategoryNumericBool][ConversionPair{KindBool, intKind}] = struct{}{}
	}

	conversionPairs[CategoryTextualBool] = map[ConversionPair]struct{}{
		{KindString, KindBool}: {},
	}

	conversionPairs[CategoryDatetime] = map[ConversionPair]struct{}{
		{KindString, KindTime}: {},
		{KindTime, KindString}: {},
	}

	// decoded JSON numbers arrive as float64, so floats count as timestamps too
	conversionPairs[CategoryTimestamp] = map[ConversionPair]struct{}{}
	for numberKind := KindEnum(1); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsNumber() {
			continue
		}

		conversionPairs[CategoryTimestamp][ConversionPair{numberKind, KindTime}] = struct{}{}
		if numberKind.IsInteger() {
			conversionPairs[CategoryTimestamp][ConversionPair{KindTime, numberKind}] = struct{}{}
		}
	}

	conversionPairs[CategoryDuration] = map[ConversionPair]struct{}{
		{KindString, KindDuration}: {},
		{KindDuration, KindString}: {},
	}

	conversionPairs[CategoryNanoseconds] = map[ConversionPair]struct{}{}
	for intKind := KindEnum(1); int(intKind) < KindTotal; intKind++ {
		if !intKind.IsInteger() || intKind == KindUint64 {
			continue
		}

		conversionPairs[CategoryNanoseconds][ConversionPair{intKind, KindDuration}] = struct{}{}
		conversionPairs[CategoryNanoseconds][ConversionPair{KindDuration, intKind}] = struct{}{}
	}

	conversionPairs[CategorySeconds] = map[ConversionPair]struct{}{
		{KindFloat32, KindDuration}: {},
		{KindFloat64, KindDuration}: {},
		{KindDuration, KindFloat32}: {},
		{KindDuration, KindFloat64}: {},
	}
}

// Category returns the first single category in c that contains pair, or
// CategoryNone. Identity pairs belong to no category since they are always allowed.
func (c CategoryEnum) Category(pair ConversionPair) CategoryEnum {
	for bit := CategoryEnum(1); bit <= CategoryAll; bit <<= 1 {
		if c&bit == 0 {
			continue
		}

		if _, ok := conversionPairs[bit][pair]; ok {
			return bit
		}
	}

	return CategoryNone
}

// Allows reports whether a value of kind from may be converted to kind to.
func (c CategoryEnum) Allows(from, to KindEnum) bool {
	if from == 0 || to == 0 {
		return false
	}

	if from == to {
		return true
	}

	return c.Category(ConversionPair{from, to}) != CategoryNone
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	return map[ConversionPair]struct{}{
		{KindInt, KindInt64}: {}, // int can be any wide from 32 upto 64

		{KindInt8, KindInt}:     {}, // int8 can be safely converted to any signed int
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // int32 is wider than float32 mantissa

		{KindUint, KindUint64}: {}, // uint can be any wide from 32 upto 64

		{KindUint8, KindUint}:    {}, // uint8 can be safely converted to any unsigned int
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {}, // also uint8 can be converted to any wider signed int
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {}, // also uint16 can be converted to any wider signed int
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint64}:  {},
		{KindUint32, KindInt64}:   {}, // only int64 is wide enough to hold uint32
		{KindUint32, KindFloat64}: {}, // uint32 is wider than float32 mantissa

		{KindFloat32, KindFloat64}: {},
	}
}
