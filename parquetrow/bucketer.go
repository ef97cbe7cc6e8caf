package parquetrow

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	paimon "github.com/segmentio/paimon-go"
	"github.com/segmentio/paimon-go/internal/debug"
)

const defaultBatchSize = 128

// Bucketer assigns the rows of parquet files to buckets.
//
// Bucketer values are not safe for concurrent use, use Clone to obtain a
// bucketer for each goroutine.
type Bucketer struct {
	schema    *parquet.Schema
	converter *Converter
	extractor *paimon.BucketKeyExtractor
	batchSize int
}

// NewBucketer constructs a bucketer for rows of the given parquet schema,
// bucketed on the named columns into numBuckets buckets. All the columns are
// used as bucket key when bucketKeys is empty.
func NewBucketer(schema *parquet.Schema, bucketKeys []string, numBuckets int32, options ...paimon.RowEncoderOption) (*Bucketer, error) {
	rowType, err := RowTypeOf(schema)
	if err != nil {
		return nil, err
	}
	extractor, err := paimon.NewBucketKeyExtractor(rowType, bucketKeys, numBuckets, options...)
	if err != nil {
		return nil, err
	}
	return &Bucketer{
		schema:    schema,
		converter: NewConverter(rowType),
		extractor: extractor,
		batchSize: defaultBatchSize,
	}, nil
}

// Schema returns the parquet schema of rows accepted by b.
func (b *Bucketer) Schema() *parquet.Schema { return b.schema }

// RowType returns the paimon row type that parquet rows are converted to.
func (b *Bucketer) RowType() paimon.RowType { return b.converter.RowType() }

// KeyExtractor returns the extractor used to compute buckets.
func (b *Bucketer) KeyExtractor() *paimon.BucketKeyExtractor { return b.extractor }

// Clone returns a bucketer with the same configuration as b which can be used
// concurrently with b.
func (b *Bucketer) Clone() *Bucketer {
	return &Bucketer{
		schema:    b.schema,
		converter: NewConverter(b.converter.RowType()),
		extractor: b.extractor.Clone(),
		batchSize: b.batchSize,
	}
}

// Hash returns the hash of the bucket key of row.
func (b *Bucketer) Hash(row parquet.Row) (int32, error) {
	r, err := b.converter.Convert(row)
	if err != nil {
		return 0, err
	}
	return b.extractor.Hash(r)
}

// Bucket returns the bucket that row is assigned to.
func (b *Bucketer) Bucket(row parquet.Row) (int32, error) {
	r, err := b.converter.Convert(row)
	if err != nil {
		return 0, err
	}
	return b.extractor.Bucket(r)
}

// Scan reads all the rows of f and calls fn with the ordinal of each row in
// the file, its value and its bucket. The row passed to fn is only valid for
// the duration of the call.
//
// The schema of f must have the same columns as the schema b was created for.
func (b *Bucketer) Scan(f *parquet.File, fn func(ordinal int64, row parquet.Row, bucket int32) error) error {
	ordinal := int64(0)
	rows := make([]parquet.Row, b.batchSize)

	for i, rowGroup := range f.RowGroups() {
		debug.Format("scanning row group %d of %d rows", i, rowGroup.NumRows())

		if err := func() error {
			r := rowGroup.Rows()
			defer r.Close()

			for {
				n, err := r.ReadRows(rows)
				for _, row := range rows[:n] {
					bucket, err := b.Bucket(row)
					if err != nil {
						return errors.Wrapf(err, "row %d", ordinal)
					}
					if err := fn(ordinal, row, bucket); err != nil {
						return err
					}
					ordinal++
				}
				if err != nil {
					if err == io.EOF {
						return nil
					}
					return err
				}
			}
		}(); err != nil {
			return err
		}
	}

	return nil
}

// BucketSet returns the set of rows of f grouped by bucket.
func (b *Bucketer) BucketSet(f *parquet.File) (*paimon.BucketSet, error) {
	set := paimon.NewBucketSet()
	err := b.Scan(f, func(ordinal int64, _ parquet.Row, bucket int32) error {
		return set.AddOrdinal(bucket, ordinal)
	})
	return set, err
}
