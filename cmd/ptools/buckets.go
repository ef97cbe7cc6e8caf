package main

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"github.com/segmentio/paimon-go"
	"github.com/segmentio/paimon-go/arrowrow"
	"github.com/segmentio/paimon-go/parquetrow"
)

type bucketsFlags struct {
	_ struct{} `help:"Count the rows of parquet files or arrow streams in each bucket"`
	commonFlags
	Keys     string `flag:"-k,--keys" help:"Comma separated list of bucket key columns, all columns when empty" default:""`
	Buckets  int    `flag:"-b,--buckets" help:"Number of buckets of the table" default:"1"`
	Parallel int    `flag:"-p,--parallel" help:"Number of files processed concurrently" default:"4"`
	Format   string `flag:"-f,--format" help:"Output format (json, table)" default:"table"`
}

type bucketCount struct {
	Bucket int32 `json:"bucket"`
	Rows   int64 `json:"rows"`
	Files  int   `json:"files"`
}

func bucketsCommand(flags bucketsFlags, path string) {
	flags.setup()
	run(func() error { return runBuckets(os.Stdout, flags, path) })
}

func runBuckets(w io.Writer, flags bucketsFlags, path string) error {
	files, err := inputFiles(path)
	if err != nil {
		return err
	}

	keys := splitKeys(flags.Keys)
	numBuckets := int32(flags.Buckets)

	var mutex sync.Mutex
	counts := make(map[int32]*bucketCount)

	group := new(errgroup.Group)
	group.SetLimit(max(flags.Parallel, 1))

	for _, file := range files {
		group.Go(func() error {
			set, err := bucketFile(file, keys, numBuckets)
			if err != nil {
				return errors.Wrapf(err, "%s", file)
			}
			pdebugf("%s: %d rows in %d buckets", file, set.Len(), len(set.Buckets()))

			mutex.Lock()
			defer mutex.Unlock()
			for _, bucket := range set.Buckets() {
				c := counts[bucket]
				if c == nil {
					c = &bucketCount{Bucket: bucket}
					counts[bucket] = c
				}
				c.Rows += int64(set.Count(bucket))
				c.Files++
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	result := make([]bucketCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b bucketCount) int { return int(a.Bucket) - int(b.Bucket) })

	switch flags.Format {
	case "json":
		return writeJSON(w, result)
	case "table":
	default:
		return errors.Newf("unsupported output format: %q", flags.Format)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"bucket", "rows", "files"})
	for _, c := range result {
		table.Append([]string{
			strconv.Itoa(int(c.Bucket)),
			strconv.FormatInt(c.Rows, 10),
			strconv.Itoa(c.Files),
		})
	}
	table.Render()
	return nil
}

// inputFiles returns the parquet and arrow files at path, which is either a
// file or a directory.
func inputFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (isParquet(p) || isArrow(p)) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func isParquet(path string) bool { return strings.HasSuffix(path, ".parquet") }

func isArrow(path string) bool {
	return strings.HasSuffix(path, ".arrow") || strings.HasSuffix(path, ".arrows")
}

func bucketFile(path string, keys []string, numBuckets int32) (*paimon.BucketSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if isArrow(path) {
		return arrowrow.BucketStream(f, keys, numBuckets)
	}

	p, err := openParquetFile(f)
	if err != nil {
		return nil, err
	}
	b, err := parquetrow.NewBucketer(p.Schema(), keys, numBuckets)
	if err != nil {
		return nil, err
	}
	return b.BucketSet(p)
}

func openParquetFile(f *os.File) (*parquet.File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return parquet.OpenFile(f, info.Size())
}
