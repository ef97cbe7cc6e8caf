// Package arrowrow computes Paimon bucket assignments for arrow record
// batches.
package arrowrow

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"

	paimon "github.com/segmentio/paimon-go"
)

// RowTypeOf returns the paimon row type equivalent to the arrow schema.
func RowTypeOf(schema *arrow.Schema) (paimon.RowType, error) {
	fields := schema.Fields()
	rowType := paimon.RowType{Fields: make([]paimon.Field, len(fields))}

	for i, f := range fields {
		t, err := dataTypeOf(f.Type)
		if err != nil {
			return paimon.RowType{}, errors.Wrapf(err, "arrow field %q", f.Name)
		}
		t.NotNull = !f.Nullable
		rowType.Fields[i] = paimon.Field{Name: f.Name, Type: t}
	}

	return rowType, nil
}

func dataTypeOf(dt arrow.DataType) (paimon.DataType, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return paimon.TypeOf(paimon.Boolean), nil
	case arrow.INT8:
		return paimon.TypeOf(paimon.TinyInt), nil
	case arrow.INT16, arrow.UINT8:
		return paimon.TypeOf(paimon.SmallInt), nil
	case arrow.INT32, arrow.UINT16:
		return paimon.TypeOf(paimon.Int), nil
	case arrow.INT64, arrow.UINT32:
		return paimon.TypeOf(paimon.BigInt), nil
	case arrow.FLOAT32:
		return paimon.TypeOf(paimon.Float), nil
	case arrow.FLOAT64:
		return paimon.TypeOf(paimon.Double), nil
	case arrow.STRING, arrow.LARGE_STRING:
		return paimon.TypeOf(paimon.String), nil
	case arrow.BINARY, arrow.LARGE_BINARY, arrow.FIXED_SIZE_BINARY:
		return paimon.TypeOf(paimon.Bytes), nil
	case arrow.DATE32:
		return paimon.TypeOf(paimon.Date), nil
	case arrow.TIME32:
		if dt.(*arrow.Time32Type).Unit == arrow.Millisecond {
			return paimon.TypeOf(paimon.Time), nil
		}
	case arrow.TIMESTAMP:
		return paimon.TimestampType(timestampPrecision(dt.(*arrow.TimestampType).Unit)), nil
	case arrow.DECIMAL128:
		d := dt.(*arrow.Decimal128Type)
		return paimon.DecimalType(int(d.Precision), int(d.Scale)), nil
	}
	return paimon.DataType{}, errors.Wrapf(paimon.ErrUnsupportedType, "%s", dt)
}

func timestampPrecision(unit arrow.TimeUnit) int {
	switch unit {
	case arrow.Second:
		return 0
	case arrow.Millisecond:
		return 3
	case arrow.Microsecond:
		return 6
	default:
		return 9
	}
}

// ValueAt returns the value of arr at index i as a paimon value of type t.
// String and binary values alias the memory of the array.
func ValueAt(arr arrow.Array, i int, t paimon.DataType) paimon.Value {
	if arr.IsNull(i) {
		return paimon.NullValue()
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return paimon.BoolValue(a.Value(i))
	case *array.Int8:
		return paimon.Int8Value(a.Value(i))
	case *array.Int16:
		return paimon.Int16Value(a.Value(i))
	case *array.Uint8:
		return paimon.Int16Value(int16(a.Value(i)))
	case *array.Int32:
		return paimon.Int32Value(a.Value(i))
	case *array.Uint16:
		return paimon.Int32Value(int32(a.Value(i)))
	case *array.Int64:
		return paimon.Int64Value(a.Value(i))
	case *array.Uint32:
		return paimon.Int64Value(int64(a.Value(i)))
	case *array.Float32:
		return paimon.Float32Value(a.Value(i))
	case *array.Float64:
		return paimon.Float64Value(a.Value(i))
	case *array.String:
		return paimon.StringValue(a.Value(i))
	case *array.LargeString:
		return paimon.StringValue(a.Value(i))
	case *array.Binary:
		return paimon.BytesValue(a.Value(i))
	case *array.LargeBinary:
		return paimon.BytesValue(a.Value(i))
	case *array.FixedSizeBinary:
		return paimon.BytesValue(a.Value(i))
	case *array.Date32:
		return paimon.DateValue(int32(a.Value(i)))
	case *array.Time32:
		return paimon.TimeValue(int32(a.Value(i)))
	case *array.Timestamp:
		return paimon.TimestampValue(timestampMillis(int64(a.Value(i)), t.Precision), t.Precision)
	case *array.Decimal128:
		// Values of compact decimals fit in the low 64 bits.
		return paimon.DecimalValue(int64(a.Value(i).LowBits()), t.Precision, t.Scale)
	default:
		return paimon.NullValue()
	}
}

func timestampMillis(ts int64, precision int) int64 {
	switch {
	case precision == 0:
		return ts * 1000
	case precision <= 3:
		return ts
	case precision <= 6:
		return floorDiv(ts, 1e3)
	default:
		return floorDiv(ts, 1e6)
	}
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y < 0 {
		q--
	}
	return q
}

// RecordBucketer computes the buckets of the rows of arrow records.
//
// RecordBucketer values are not safe for concurrent use.
type RecordBucketer struct {
	schema    *arrow.Schema
	extractor *paimon.BucketKeyExtractor
	row       paimon.Row
	mem       memory.Allocator
}

// NewRecordBucketer constructs a bucketer for records of the given schema,
// bucketed on the named columns into numBuckets buckets. Result arrays are
// allocated with mem, or a Go allocator when mem is nil.
func NewRecordBucketer(schema *arrow.Schema, bucketKeys []string, numBuckets int32, mem memory.Allocator, options ...paimon.RowEncoderOption) (*RecordBucketer, error) {
	rowType, err := RowTypeOf(schema)
	if err != nil {
		return nil, err
	}
	extractor, err := paimon.NewBucketKeyExtractor(rowType, bucketKeys, numBuckets, options...)
	if err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &RecordBucketer{
		schema:    schema,
		extractor: extractor,
		row:       make(paimon.Row, rowType.Arity()),
		mem:       mem,
	}, nil
}

// KeyExtractor returns the extractor used to compute buckets.
func (b *RecordBucketer) KeyExtractor() *paimon.BucketKeyExtractor { return b.extractor }

// Hashes returns the hashes of the bucket keys of the rows of rec. The caller
// must release the returned array.
func (b *RecordBucketer) Hashes(rec arrow.Record) (*array.Int32, error) {
	return b.build(rec, b.extractor.Hash)
}

// Buckets returns the buckets of the rows of rec. The caller must release the
// returned array.
func (b *RecordBucketer) Buckets(rec arrow.Record) (*array.Int32, error) {
	return b.build(rec, b.extractor.Bucket)
}

func (b *RecordBucketer) build(rec arrow.Record, fn func(paimon.Row) (int32, error)) (*array.Int32, error) {
	if !rec.Schema().Equal(b.schema) {
		return nil, errors.Newf("arrowrow: record schema does not match bucketer schema: %s", rec.Schema())
	}

	builder := array.NewInt32Builder(b.mem)
	defer builder.Release()

	numRows := int(rec.NumRows())
	builder.Reserve(numRows)

	for i := 0; i < numRows; i++ {
		for j, f := range b.extractor.RowType().Fields {
			b.row[j] = ValueAt(rec.Column(j), i, f.Type)
		}
		v, err := fn(b.row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		builder.UnsafeAppend(v)
	}

	return builder.NewInt32Array(), nil
}
