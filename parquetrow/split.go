package parquetrow

import (
	"io"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	"github.com/segmentio/paimon-go/internal/debug"
)

// SplitConfig carries the options of Split.
type SplitConfig struct {
	// Opens the output of a bucket. Called once per bucket holding at least
	// one row; Split closes the returned writer.
	Create func(bucket int32) (io.WriteCloser, error)
	// Options of the parquet writers, the schema of the input file is always
	// added.
	WriterOptions []parquet.WriterOption
}

// SplitStats reports the number of rows written to each bucket.
type SplitStats map[int32]int64

// Buckets returns the buckets that rows were written to, in ascending order.
func (s SplitStats) Buckets() []int32 {
	buckets := make([]int32, 0, len(s))
	for bucket := range s {
		buckets = append(buckets, bucket)
	}
	slices.Sort(buckets)
	return buckets
}

// Split writes the rows of f to one parquet file per bucket, preserving the
// order of rows within each bucket.
func (b *Bucketer) Split(f *parquet.File, config SplitConfig) (stats SplitStats, err error) {
	if config.Create == nil {
		return nil, errors.New("parquetrow: missing output factory in split configuration")
	}

	type output struct {
		file   io.WriteCloser
		writer *parquet.Writer
	}

	outputs := make(map[int32]*output)
	stats = make(SplitStats)
	options := append([]parquet.WriterOption{f.Schema()}, config.WriterOptions...)

	defer func() {
		for bucket, out := range outputs {
			if e := out.writer.Close(); e != nil && err == nil {
				err = errors.Wrapf(e, "closing writer of bucket %d", bucket)
			}
			if e := out.file.Close(); e != nil && err == nil {
				err = errors.Wrapf(e, "closing output of bucket %d", bucket)
			}
		}
	}()

	err = b.Scan(f, func(_ int64, row parquet.Row, bucket int32) error {
		out := outputs[bucket]
		if out == nil {
			file, err := config.Create(bucket)
			if err != nil {
				return errors.Wrapf(err, "creating output of bucket %d", bucket)
			}
			debug.Format("opened output of bucket %d", bucket)
			out = &output{file: file, writer: parquet.NewWriter(file, options...)}
			outputs[bucket] = out
		}
		if _, err := out.writer.WriteRows([]parquet.Row{row}); err != nil {
			return errors.Wrapf(err, "writing row to bucket %d", bucket)
		}
		stats[bucket]++
		return nil
	})
	return stats, err
}
