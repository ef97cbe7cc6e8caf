package arrowrow

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"

	paimon "github.com/segmentio/paimon-go"
)

// ReadStream reads the arrow IPC stream from r and calls fn with its schema
// and each of its records. Records are released when fn returns.
func ReadStream(r io.Reader, mem memory.Allocator, fn func(*arrow.Schema, arrow.Record) error) error {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	reader, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, "arrowrow: opening ipc stream")
	}
	defer reader.Release()

	for reader.Next() {
		if err := fn(reader.Schema(), reader.Record()); err != nil {
			return err
		}
	}

	if err := reader.Err(); err != nil {
		return errors.Wrap(err, "arrowrow: reading ipc stream")
	}
	return nil
}

// BucketStream reads an arrow IPC stream from r and returns the set of its
// rows grouped by bucket. Rows are numbered across all the records of the
// stream.
func BucketStream(r io.Reader, bucketKeys []string, numBuckets int32, options ...paimon.RowEncoderOption) (*paimon.BucketSet, error) {
	mem := memory.NewGoAllocator()
	set := paimon.NewBucketSet()
	ordinal := int64(0)

	var b *RecordBucketer
	err := ReadStream(r, mem, func(schema *arrow.Schema, rec arrow.Record) error {
		if b == nil {
			var err error
			if b, err = NewRecordBucketer(schema, bucketKeys, numBuckets, mem, options...); err != nil {
				return err
			}
		}
		buckets, err := b.Buckets(rec)
		if err != nil {
			return err
		}
		defer buckets.Release()
		for _, bucket := range buckets.Int32Values() {
			if err := set.AddOrdinal(bucket, ordinal); err != nil {
				return err
			}
			ordinal++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
