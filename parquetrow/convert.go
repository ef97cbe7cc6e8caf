package parquetrow

import (
	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	paimon "github.com/segmentio/paimon-go"
	"github.com/segmentio/paimon-go/internal/unsafecast"
)

// Converter translates parquet rows to paimon rows of a given row type.
//
// String and byte array values of the converted rows alias the memory of the
// parquet values they were read from.
type Converter struct {
	rowType paimon.RowType
	row     paimon.Row
}

// NewConverter constructs a converter producing rows of rowType, which is
// usually obtained by calling RowTypeOf.
func NewConverter(rowType paimon.RowType) *Converter {
	return &Converter{
		rowType: rowType,
		row:     make(paimon.Row, rowType.Arity()),
	}
}

// RowType returns the type of rows produced by c.
func (c *Converter) RowType() paimon.RowType { return c.rowType }

// Convert converts row. The returned row is owned by c and remains valid
// until the next call to Convert.
func (c *Converter) Convert(row parquet.Row) (paimon.Row, error) {
	if len(row) != len(c.row) {
		return nil, errors.Wrapf(paimon.ErrArityMismatch, "parquet row has %d values, expected %d", len(row), len(c.row))
	}
	for i, f := range c.rowType.Fields {
		c.row[i] = ValueOf(row[i], f.Type)
	}
	return c.row, nil
}

// ValueOf converts the parquet value v to a paimon value of type t.
func ValueOf(v parquet.Value, t paimon.DataType) paimon.Value {
	if v.IsNull() {
		return paimon.NullValue()
	}
	switch t.Kind {
	case paimon.Boolean:
		return paimon.BoolValue(v.Boolean())
	case paimon.TinyInt:
		return paimon.Int8Value(int8(v.Int32()))
	case paimon.SmallInt:
		return paimon.Int16Value(int16(v.Int32()))
	case paimon.Int:
		return paimon.Int32Value(v.Int32())
	case paimon.BigInt:
		if v.Kind() == parquet.Int32 {
			return paimon.Int64Value(int64(uint32(v.Int32())))
		}
		return paimon.Int64Value(v.Int64())
	case paimon.Float:
		return paimon.Float32Value(v.Float())
	case paimon.Double:
		return paimon.Float64Value(v.Double())
	case paimon.String:
		return paimon.StringValue(unsafecast.BytesToString(v.ByteArray()))
	case paimon.Bytes:
		return paimon.BytesValue(v.ByteArray())
	case paimon.Date:
		return paimon.DateValue(v.Int32())
	case paimon.Time:
		return paimon.TimeValue(v.Int32())
	case paimon.Timestamp:
		return paimon.TimestampValue(timestampMillis(v.Int64(), t.Precision), t.Precision)
	case paimon.Decimal:
		if v.Kind() == parquet.Int32 {
			return paimon.DecimalValue(int64(v.Int32()), t.Precision, t.Scale)
		}
		return paimon.DecimalValue(v.Int64(), t.Precision, t.Scale)
	default:
		return paimon.NullValue()
	}
}

// timestampMillis truncates a timestamp of the given precision to
// milliseconds, rounding towards negative infinity.
func timestampMillis(ts int64, precision int) int64 {
	var div int64
	switch {
	case precision <= 3:
		return ts
	case precision <= 6:
		div = 1e3
	default:
		div = 1e6
	}
	q := ts / div
	if ts%div < 0 {
		q--
	}
	return q
}
