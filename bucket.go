package paimon

import (
	"github.com/cockroachdb/errors"
)

// EncodeRow encodes row according to rowType and returns the resulting binary
// row. Values are checked against the types of their fields.
func EncodeRow(rowType RowType, row Row, options ...RowEncoderOption) (BinaryRow, error) {
	e := NewRowEncoder(rowType.Arity(), options...)
	if err := encodeTyped(e, rowType, row, nil); err != nil {
		return BinaryRow{}, err
	}
	return e.Row(), nil
}

// encodeTyped writes the values of row selected by indexes (all of them when
// indexes is nil) to e, checking them against the fields of t.
func encodeTyped(e *RowEncoder, t RowType, row Row, indexes []int) error {
	for pos, f := range t.Fields {
		i := pos
		if indexes != nil {
			i = indexes[pos]
		}
		if i >= len(row) {
			return errors.Wrapf(ErrArityMismatch, "row has %d values, column %d is missing", len(row), i)
		}
		if err := writeTyped(e, pos, f.Type, row[i]); err != nil {
			return errors.Wrapf(err, "column %q", f.Name)
		}
	}
	return nil
}

func writeTyped(e *RowEncoder, pos int, t DataType, v Value) error {
	if v.IsNull() {
		if t.NotNull {
			return errors.Wrapf(ErrTypeMismatch, "null value in %s column", t)
		}
		e.SetNull(pos)
		return nil
	}
	if v.Kind() != t.Kind {
		return errors.Wrapf(ErrTypeMismatch, "%s value in %s column", v.Kind(), t)
	}
	switch t.Kind {
	case Timestamp:
		return e.WriteTimestamp(pos, v.Int64(), t.Precision)
	case Decimal:
		return e.WriteDecimal(pos, v.Int64(), t.Precision)
	default:
		return e.WriteValue(pos, v)
	}
}

// BucketKeyExtractor computes the fixed bucket of rows from the values of
// their bucket key columns.
//
// The bucket key columns are projected into their own binary row, in the order
// the keys were given, and the bucket is derived from the hash of that row.
//
// BucketKeyExtractor values are not safe for concurrent use; use Clone to
// obtain an extractor for each goroutine.
type BucketKeyExtractor struct {
	rowType    RowType
	keyType    RowType
	keys       []int
	numBuckets int32
	encoder    *RowEncoder
	options    []RowEncoderOption
}

// NewBucketKeyExtractor constructs an extractor for rows of rowType, using the
// named columns as bucket key. When bucketKeys is empty, the whole row is used
// as bucket key.
func NewBucketKeyExtractor(rowType RowType, bucketKeys []string, numBuckets int32, options ...RowEncoderOption) (*BucketKeyExtractor, error) {
	if _, err := NewRowEncoderConfig(options...); err != nil {
		return nil, err
	}
	if len(bucketKeys) == 0 {
		bucketKeys = rowType.FieldNames()
	}
	keyType, keys, err := rowType.Project(bucketKeys...)
	if err != nil {
		return nil, errors.Wrap(err, "resolving bucket keys")
	}
	for _, f := range keyType.Fields {
		if !f.Type.Compact() {
			return nil, errors.Wrapf(ErrNotCompact, "bucket key %q of type %s", f.Name, f.Type)
		}
	}
	return &BucketKeyExtractor{
		rowType:    rowType,
		keyType:    keyType,
		keys:       keys,
		numBuckets: numBuckets,
		encoder:    NewRowEncoder(keyType.Arity(), options...),
		options:    options,
	}, nil
}

// RowType returns the type of rows accepted by x.
func (x *BucketKeyExtractor) RowType() RowType { return x.rowType }

// KeyType returns the type of the bucket key rows built by x.
func (x *BucketKeyExtractor) KeyType() RowType { return x.keyType }

// NumBuckets returns the number of buckets rows are distributed into.
func (x *BucketKeyExtractor) NumBuckets() int32 { return x.numBuckets }

// Key encodes the bucket key of row. The returned row aliases memory owned
// by x and is only valid until the next call.
func (x *BucketKeyExtractor) Key(row Row) (BinaryRow, error) {
	if len(row) != x.rowType.Arity() {
		return BinaryRow{}, errors.Wrapf(ErrArityMismatch, "row has %d values, expected %d", len(row), x.rowType.Arity())
	}
	x.encoder.Reset()
	if err := encodeTyped(x.encoder, x.keyType, row, x.keys); err != nil {
		return BinaryRow{}, err
	}
	e := x.encoder
	return BinaryRow{arity: e.arity, nullBytes: e.nullBytes, data: e.Bytes()}, nil
}

// Hash returns the hash of the bucket key of row.
func (x *BucketKeyExtractor) Hash(row Row) (int32, error) {
	if _, err := x.Key(row); err != nil {
		return 0, err
	}
	return x.encoder.HashCode(), nil
}

// Bucket returns the bucket that row is assigned to.
func (x *BucketKeyExtractor) Bucket(row Row) (int32, error) {
	hash, err := x.Hash(row)
	if err != nil {
		return 0, err
	}
	return BucketOf(hash, x.numBuckets), nil
}

// Clone returns an extractor with the same configuration as x and its own
// encoding buffer.
func (x *BucketKeyExtractor) Clone() *BucketKeyExtractor {
	c := *x
	c.encoder = NewRowEncoder(x.keyType.Arity(), x.options...)
	return &c
}
