package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/segmentio/paimon-go/parquetrow"
)

type splitFlags struct {
	_ struct{} `help:"Split a parquet file into one file per bucket, using the Paimon table directory layout"`
	commonFlags
	Keys        string `flag:"-k,--keys" help:"Comma separated list of bucket key columns, all columns when empty" default:""`
	Buckets     int    `flag:"-b,--buckets" help:"Number of buckets of the table" default:"1"`
	Output      string `flag:"-o,--output" help:"Directory where bucket directories are created" default:"."`
	Compression string `flag:"-c,--compression" help:"Compression codec of output files (none, snappy, gzip, brotli, zstd, lz4)" default:"zstd"`
}

var compressionCodecs = map[string]compress.Codec{
	"none":         &parquet.Uncompressed,
	"uncompressed": &parquet.Uncompressed,
	"snappy":       &parquet.Snappy,
	"gzip":         &parquet.Gzip,
	"brotli":       &parquet.Brotli,
	"zstd":         &parquet.Zstd,
	"lz4":          &parquet.Lz4Raw,
}

func splitCommand(flags splitFlags, path string) {
	flags.setup()
	run(func() error { return runSplit(os.Stdout, flags, path) })
}

// bucketFileName returns the path of a new data file of bucket, relative to
// the table directory.
func bucketFileName(bucket int32) string {
	return filepath.Join(fmt.Sprintf("bucket-%d", bucket), fmt.Sprintf("data-%s-0.parquet", uuid.New()))
}

func runSplit(w io.Writer, flags splitFlags, path string) error {
	codec, ok := compressionCodecs[strings.ToLower(flags.Compression)]
	if !ok {
		return errors.Newf("unsupported compression codec: %q", flags.Compression)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := openParquetFile(f)
	if err != nil {
		return err
	}
	b, err := parquetrow.NewBucketer(p.Schema(), splitKeys(flags.Keys), int32(flags.Buckets))
	if err != nil {
		return err
	}

	names := make(map[int32]string)
	stats, err := b.Split(p, parquetrow.SplitConfig{
		Create: func(bucket int32) (io.WriteCloser, error) {
			name := bucketFileName(bucket)
			output := filepath.Join(flags.Output, name)
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return nil, err
			}
			pdebugf("creating %s", output)
			names[bucket] = name
			return os.Create(output)
		},
		WriterOptions: []parquet.WriterOption{parquet.Compression(codec)},
	})
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"bucket", "rows", "file"})
	for _, bucket := range stats.Buckets() {
		table.Append([]string{
			strconv.Itoa(int(bucket)),
			strconv.FormatInt(stats[bucket], 10),
			names[bucket],
		})
	}
	table.Render()
	return nil
}
