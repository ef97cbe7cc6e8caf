// Package parquetrow computes Paimon bucket assignments for the rows of
// parquet files.
//
// Only flat schemas are supported: every top level field of the parquet
// schema must be a leaf column, which maps to the field of the same position
// in the paimon row type.
package parquetrow

import (
	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	paimon "github.com/segmentio/paimon-go"
)

// RowTypeOf returns the paimon row type equivalent to the parquet schema.
//
// Columns are mapped using their physical and logical types. The function
// returns an error wrapping paimon.ErrUnsupportedType if the schema has nested
// or repeated fields, or columns without a paimon equivalent.
func RowTypeOf(schema *parquet.Schema) (paimon.RowType, error) {
	fields := schema.Fields()
	rowType := paimon.RowType{Fields: make([]paimon.Field, len(fields))}

	for i, field := range fields {
		if !field.Leaf() || field.Repeated() {
			return paimon.RowType{}, errors.Wrapf(paimon.ErrUnsupportedType, "parquet field %q is not a flat column", field.Name())
		}
		t, err := dataTypeOf(field.Type())
		if err != nil {
			return paimon.RowType{}, errors.Wrapf(err, "parquet field %q", field.Name())
		}
		t.NotNull = field.Required()
		rowType.Fields[i] = paimon.Field{Name: field.Name(), Type: t}
	}

	return rowType, nil
}

func dataTypeOf(t parquet.Type) (paimon.DataType, error) {
	lt := t.LogicalType()

	switch t.Kind() {
	case parquet.Boolean:
		return paimon.TypeOf(paimon.Boolean), nil

	case parquet.Int32:
		switch {
		case lt == nil:
			return paimon.TypeOf(paimon.Int), nil
		case lt.Integer != nil:
			return integerType(lt.Integer)
		case lt.Date != nil:
			return paimon.TypeOf(paimon.Date), nil
		case lt.Time != nil && lt.Time.Unit.Millis != nil:
			return paimon.TypeOf(paimon.Time), nil
		case lt.Decimal != nil:
			return paimon.DecimalType(int(lt.Decimal.Precision), int(lt.Decimal.Scale)), nil
		}

	case parquet.Int64:
		switch {
		case lt == nil:
			return paimon.TypeOf(paimon.BigInt), nil
		case lt.Integer != nil:
			return integerType(lt.Integer)
		case lt.Timestamp != nil:
			return paimon.TimestampType(timestampPrecision(lt.Timestamp.Unit)), nil
		case lt.Decimal != nil:
			return paimon.DecimalType(int(lt.Decimal.Precision), int(lt.Decimal.Scale)), nil
		}

	case parquet.Float:
		return paimon.TypeOf(paimon.Float), nil

	case parquet.Double:
		return paimon.TypeOf(paimon.Double), nil

	case parquet.ByteArray:
		switch {
		case lt == nil:
			return paimon.TypeOf(paimon.Bytes), nil
		case lt.UTF8 != nil, lt.Json != nil, lt.Enum != nil:
			return paimon.TypeOf(paimon.String), nil
		case lt.Bson != nil:
			return paimon.TypeOf(paimon.Bytes), nil
		}

	case parquet.FixedLenByteArray:
		if lt == nil || lt.UUID != nil {
			return paimon.TypeOf(paimon.Bytes), nil
		}
	}

	return paimon.DataType{}, errors.Wrapf(paimon.ErrUnsupportedType, "%s", t)
}

func integerType(it *format.IntType) (paimon.DataType, error) {
	// Unsigned integers are widened to the next signed type.
	bitWidth := it.BitWidth
	if !it.IsSigned {
		bitWidth *= 2
	}
	switch bitWidth {
	case 8:
		return paimon.TypeOf(paimon.TinyInt), nil
	case 16:
		return paimon.TypeOf(paimon.SmallInt), nil
	case 32:
		return paimon.TypeOf(paimon.Int), nil
	case 64:
		return paimon.TypeOf(paimon.BigInt), nil
	default:
		return paimon.DataType{}, errors.Wrapf(paimon.ErrUnsupportedType, "integer of %d bits (signed=%t)", it.BitWidth, it.IsSigned)
	}
}

func timestampPrecision(unit format.TimeUnit) int {
	switch {
	case unit.Millis != nil:
		return 3
	case unit.Micros != nil:
		return 6
	default:
		return 9
	}
}
