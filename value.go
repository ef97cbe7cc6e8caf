package paimon

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/segmentio/paimon-go/internal/datetime"
	"github.com/segmentio/paimon-go/internal/unsafecast"
)

// Value is a single column value. The zero value is null.
//
// Values of kind String and Bytes reference the memory they were constructed
// from, which must not be mutated while the value is in use.
type Value struct {
	kind      Kind
	precision int8
	scale     int8
	u64       uint64
	ptr       []byte
}

// Row is a sequence of column values, one per field of a row type.
type Row []Value

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue constructs a BOOLEAN value.
func BoolValue(v bool) Value {
	var u uint64
	if v {
		u = 1
	}
	return Value{kind: Boolean, u64: u}
}

// Int8Value constructs a TINYINT value.
func Int8Value(v int8) Value { return Value{kind: TinyInt, u64: uint64(v)} }

// Int16Value constructs a SMALLINT value.
func Int16Value(v int16) Value { return Value{kind: SmallInt, u64: uint64(v)} }

// Int32Value constructs an INT value.
func Int32Value(v int32) Value { return Value{kind: Int, u64: uint64(v)} }

// Int64Value constructs a BIGINT value.
func Int64Value(v int64) Value { return Value{kind: BigInt, u64: uint64(v)} }

// Float32Value constructs a FLOAT value.
func Float32Value(v float32) Value { return Value{kind: Float, u64: uint64(math.Float32bits(v))} }

// Float64Value constructs a DOUBLE value.
func Float64Value(v float64) Value { return Value{kind: Double, u64: math.Float64bits(v)} }

// StringValue constructs a STRING value holding the UTF-8 bytes of v.
func StringValue(v string) Value { return Value{kind: String, ptr: unsafecast.StringToBytes(v)} }

// BytesValue constructs a BYTES value.
func BytesValue(v []byte) Value { return Value{kind: Bytes, ptr: v} }

// DateValue constructs a DATE value from a number of days since the epoch.
func DateValue(days int32) Value { return Value{kind: Date, u64: uint64(days)} }

// TimeValue constructs a TIME value from a number of milliseconds since
// midnight.
func TimeValue(millis int32) Value { return Value{kind: Time, u64: uint64(millis)} }

// TimestampValue constructs a TIMESTAMP value from a number of milliseconds
// since the epoch.
func TimestampValue(millis int64, precision int) Value {
	return Value{kind: Timestamp, precision: int8(precision), u64: uint64(millis)}
}

// DecimalValue constructs a DECIMAL value from its unscaled representation.
func DecimalValue(unscaled int64, precision, scale int) Value {
	return Value{kind: Decimal, precision: int8(precision), scale: int8(scale), u64: uint64(unscaled)}
}

// ValueOf constructs a value from a Go value. Supported types are nil, bool,
// int8, int16, int32, int64, int, float32, float64, string and []byte.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return NullValue()
	case Value:
		return x
	case bool:
		return BoolValue(x)
	case int8:
		return Int8Value(x)
	case int16:
		return Int16Value(x)
	case int32:
		return Int32Value(x)
	case int64:
		return Int64Value(x)
	case int:
		return Int64Value(int64(x))
	case float32:
		return Float32Value(x)
	case float64:
		return Float64Value(x)
	case string:
		return StringValue(x)
	case []byte:
		return BytesValue(x)
	default:
		panic(fmt.Sprintf("cannot create paimon value from go value of type %T", v))
	}
}

// Kind returns the kind of v, zero if v is null.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true if v is the null value.
func (v Value) IsNull() bool { return v.kind == 0 }

func (v Value) Bool() bool       { return v.u64 != 0 }
func (v Value) Int8() int8       { return int8(v.u64) }
func (v Value) Int16() int16     { return int16(v.u64) }
func (v Value) Int32() int32     { return int32(v.u64) }
func (v Value) Int64() int64     { return int64(v.u64) }
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.u64)) }
func (v Value) Float64() float64 { return math.Float64frombits(v.u64) }
func (v Value) ByteArray() []byte { return v.ptr }

// Precision returns the precision of TIMESTAMP and DECIMAL values.
func (v Value) Precision() int { return int(v.precision) }

// Scale returns the scale of DECIMAL values.
func (v Value) Scale() int { return int(v.scale) }

// Equal returns true if v and w have the same kind and content.
func (v Value) Equal(w Value) bool {
	return v.kind == w.kind &&
		v.precision == w.precision &&
		v.scale == w.scale &&
		v.u64 == w.u64 &&
		bytes.Equal(v.ptr, w.ptr)
}

// String returns a human readable representation of v, which ParseValue
// accepts back for the same data type (except for BYTES, printed in hex).
func (v Value) String() string {
	switch v.kind {
	case Boolean:
		return strconv.FormatBool(v.Bool())
	case TinyInt, SmallInt, Int, BigInt:
		return strconv.FormatInt(v.Int64Value(), 10)
	case Float:
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32)
	case Double:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case String:
		return string(v.ptr)
	case Bytes:
		return hex.EncodeToString(v.ptr)
	case Date:
		return datetime.FormatDate(v.Int32())
	case Time:
		return datetime.FormatTime(v.Int32())
	case Timestamp:
		return datetime.FormatTimestamp(v.Int64())
	case Decimal:
		return formatDecimal(v.Int64(), v.Scale())
	default:
		return "NULL"
	}
}

// Int64Value returns the integer content of v sign extended from the width of
// its kind.
func (v Value) Int64Value() int64 {
	switch v.kind {
	case TinyInt:
		return int64(v.Int8())
	case SmallInt:
		return int64(v.Int16())
	case Int, Date, Time:
		return int64(v.Int32())
	default:
		return v.Int64()
	}
}

// ParseValue parses a literal as a value of type t. The literal NULL (in any
// case) produces the null value.
func ParseValue(t DataType, s string) (Value, error) {
	if strings.EqualFold(s, "null") {
		return NullValue(), nil
	}

	v, err := parseValue(t, s)
	if err != nil {
		return Value{}, errors.Wrapf(ErrInvalidLiteral, "%q as %s: %v", s, t, err)
	}
	return v, nil
}

func parseValue(t DataType, s string) (Value, error) {
	switch t.Kind {
	case Boolean:
		b, err := strconv.ParseBool(s)
		return BoolValue(b), err
	case TinyInt:
		i, err := strconv.ParseInt(s, 10, 8)
		return Int8Value(int8(i)), err
	case SmallInt:
		i, err := strconv.ParseInt(s, 10, 16)
		return Int16Value(int16(i)), err
	case Int:
		i, err := strconv.ParseInt(s, 10, 32)
		return Int32Value(int32(i)), err
	case BigInt:
		i, err := strconv.ParseInt(s, 10, 64)
		return Int64Value(i), err
	case Float:
		f, err := strconv.ParseFloat(s, 32)
		return Float32Value(float32(f)), err
	case Double:
		f, err := strconv.ParseFloat(s, 64)
		return Float64Value(f), err
	case String:
		return StringValue(s), nil
	case Bytes:
		b, err := hex.DecodeString(s)
		return BytesValue(b), err
	case Date:
		d, err := datetime.ParseDate(s)
		return DateValue(d), err
	case Time:
		ms, err := datetime.ParseTime(s)
		return TimeValue(ms), err
	case Timestamp:
		ms, err := datetime.ParseTimestamp(s)
		return TimestampValue(ms, t.Precision), err
	case Decimal:
		u, err := parseDecimal(s, t.Precision, t.Scale)
		return DecimalValue(u, t.Precision, t.Scale), err
	default:
		return Value{}, errors.Wrapf(ErrUnsupportedType, "%s", t)
	}
}

// parseDecimal returns the unscaled value of the decimal literal s rounded
// half up to the given scale.
func parseDecimal(s string, precision, scale int) (int64, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, errors.Newf("not a decimal number")
	}
	r.Mul(r, new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)))

	num, den := r.Num(), r.Denom()
	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	if m.Sign() != 0 && new(big.Int).Mul(new(big.Int).Abs(m), big.NewInt(2)).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(int64(num.Sign())))
	}

	if digits := len(new(big.Int).Abs(q).String()); q.Sign() != 0 && digits > precision {
		return 0, errors.Newf("%d digits exceed precision %d", digits, precision)
	}
	if !q.IsInt64() {
		return 0, errors.Wrapf(ErrNotCompact, "decimal out of range")
	}
	return q.Int64(), nil
}

func formatDecimal(unscaled int64, scale int) string {
	if scale <= 0 {
		return strconv.FormatInt(unscaled, 10)
	}
	digits := strconv.FormatUint(absUint64(unscaled), 10)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	s := digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	if unscaled < 0 {
		s = "-" + s
	}
	return s
}

func absUint64(i int64) uint64 {
	if i < 0 {
		return uint64(-i)
	}
	return uint64(i)
}
