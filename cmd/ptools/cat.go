package main

import (
	"io"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/parquet-go/parquet-go"

	"github.com/segmentio/paimon-go/parquetrow"
)

type catFlags struct {
	_ struct{} `help:"Print the rows of a parquet file with their hash and bucket"`
	commonFlags
	Keys    string `flag:"-k,--keys" help:"Comma separated list of bucket key columns, all columns when empty" default:""`
	Buckets int    `flag:"-b,--buckets" help:"Number of buckets of the table" default:"1"`
	Limit   int    `flag:"-n,--limit" help:"Maximum number of rows to print, zero for all rows" default:"0"`
}

var errLimitReached = errors.New("limit reached")

func catCommand(flags catFlags, path string) {
	flags.setup()
	run(func() error { return runCat(os.Stdout, flags, path) })
}

func runCat(w io.Writer, flags catFlags, path string) error {
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

	rowType := b.RowType()
	converter := parquetrow.NewConverter(rowType)
	hasher := b.Clone()

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(append([]string{"#"}, append(rowType.FieldNames(), "_HASH", "_BUCKET")...))

	err = b.Scan(p, func(ordinal int64, row parquet.Row, bucket int32) error {
		if flags.Limit > 0 && ordinal >= int64(flags.Limit) {
			return errLimitReached
		}
		values, err := converter.Convert(row)
		if err != nil {
			return err
		}
		hash, err := hasher.Hash(row)
		if err != nil {
			return err
		}
		line := make([]string, 0, len(values)+3)
		line = append(line, strconv.FormatInt(ordinal, 10))
		for _, v := range values {
			line = append(line, v.String())
		}
		line = append(line, strconv.Itoa(int(hash)), strconv.Itoa(int(bucket)))
		table.Append(line)
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return err
	}

	table.Render()
	return nil
}
