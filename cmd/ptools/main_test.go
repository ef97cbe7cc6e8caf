package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/cpu"

	"github.com/segmentio/paimon-go"
	"github.com/segmentio/paimon-go/parquetrow"
)

var testSchema = parquet.NewSchema("record", parquet.Group{
	"id":   parquet.Int(64),
	"name": parquet.String(),
})

func writeTestFile(t *testing.T, path string, numRows int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := parquet.NewWriter(f, testSchema)
	for i := 0; i < numRows; i++ {
		_, err := w.WriteRows([]parquet.Row{{
			parquet.Int64Value(int64(i)).Level(0, 0, 0),
			parquet.ByteArrayValue([]byte(fmt.Sprintf("name-%d", i))).Level(0, 0, 1),
		}})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func assertOutput(t *testing.T, want, got string) {
	t.Helper()
	if want != got {
		edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
		t.Fatalf("output mismatch:\n%s", gotextdiff.ToUnified("want", "got", want, edits))
	}
}

func skipBigEndian(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("hashes are only compatible on little-endian hosts")
	}
}

func TestHash(t *testing.T) {
	skipBigEndian(t)

	tests := []struct {
		scenario string
		flags    hashFlags
		literal  string
		output   string
	}{
		{
			scenario: "int row",
			flags:    hashFlags{Type: "INT", Buckets: 16, Seed: 42, Format: "json"},
			literal:  "1",
			output: `{
  "type": "INT",
  "value": "1",
  "size": 16,
  "hash": 1465514398,
  "bucket": 14,
  "row": "00000000000000000100000000000000"
}
`,
		},
		{
			scenario: "raw bytes",
			flags:    hashFlags{Raw: true, Buckets: 10, Seed: 42, Format: "json"},
			literal:  "hello",
			output: `{
  "type": "RAW",
  "value": "hello",
  "size": 5,
  "hash": -1008564952,
  "bucket": 2
}
`,
		},
		{
			scenario: "raw bytes with zero seed",
			flags:    hashFlags{Raw: true, Buckets: 10, Seed: 0, Format: "json"},
			literal:  "hello",
			output: `{
  "type": "RAW",
  "value": "hello",
  "size": 5,
  "hash": -1306563072,
  "bucket": 2
}
`,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, runHash(buf, test.flags, test.literal))
			assertOutput(t, test.output, buf.String())
		})
	}
}

func TestHashTable(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, runHash(buf, hashFlags{Type: "STRING", Buckets: 4, Seed: 42, Format: "table"}, "hello"))
	require.Contains(t, buf.String(), "BUCKET")
	require.Contains(t, buf.String(), "hello")
}

func TestHashInvalidLiteral(t *testing.T) {
	err := runHash(new(bytes.Buffer), hashFlags{Type: "INT", Buckets: 1, Format: "json"}, "one")
	require.Error(t, err)

	err = runHash(new(bytes.Buffer), hashFlags{Type: "MAP", Buckets: 1, Format: "json"}, "1")
	require.Error(t, err)

	err = runHash(new(bytes.Buffer), hashFlags{Type: "INT", Buckets: 1, Format: "xml"}, "1")
	require.Error(t, err)
}

func TestBuckets(t *testing.T) {
	skipBigEndian(t)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.parquet"), 8)
	writeTestFile(t, filepath.Join(dir, "b.parquet"), 4)

	buf := new(bytes.Buffer)
	flags := bucketsFlags{Keys: "id", Buckets: 4, Parallel: 2, Format: "json"}
	require.NoError(t, runBuckets(buf, flags, dir))

	assertOutput(t, `[
  {
    "bucket": 0,
    "rows": 4,
    "files": 2
  },
  {
    "bucket": 1,
    "rows": 2,
    "files": 2
  },
  {
    "bucket": 2,
    "rows": 3,
    "files": 2
  },
  {
    "bucket": 3,
    "rows": 3,
    "files": 2
  }
]
`, buf.String())
}

func TestBucketsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	writeTestFile(t, path, 10)

	buf := new(bytes.Buffer)
	require.NoError(t, runBuckets(buf, bucketsFlags{Buckets: 1, Parallel: 1, Format: "table"}, path))
	require.Contains(t, buf.String(), "BUCKET")
	require.Contains(t, buf.String(), "10")
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.parquet")
	writeTestFile(t, input, 50)

	output := filepath.Join(dir, "table")
	buf := new(bytes.Buffer)
	require.NoError(t, runSplit(buf, splitFlags{Keys: "name", Buckets: 3, Output: output, Compression: "snappy"}, input))

	files, err := inputFiles(output)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	total := int64(0)
	for _, file := range files {
		rel, err := filepath.Rel(output, file)
		require.NoError(t, err)
		bucketDir, name := filepath.Split(rel)
		require.True(t, strings.HasPrefix(bucketDir, "bucket-"), rel)
		require.True(t, strings.HasPrefix(name, "data-"), rel)
		require.True(t, strings.HasSuffix(name, "-0.parquet"), rel)

		set, err := bucketFile(file, []string{"name"}, 3)
		require.NoError(t, err)
		require.Len(t, set.Buckets(), 1)
		require.Equal(t, fmt.Sprintf("bucket-%d/", set.Buckets()[0]), filepath.ToSlash(bucketDir))
		total += int64(set.Len())
	}
	require.Equal(t, int64(50), total)
	require.Contains(t, buf.String(), "FILE")
}

func TestSplitUnknownCompression(t *testing.T) {
	err := runSplit(new(bytes.Buffer), splitFlags{Buckets: 1, Compression: "lzo"}, "missing.parquet")
	require.Error(t, err)
}

func TestDump(t *testing.T) {
	skipBigEndian(t)

	tests := []struct {
		scenario string
		row      string
		output   string
	}{
		{
			scenario: "int column",
			row:      "0000000000000000 0100000000000000",
			output: `{
  "kind": "+I",
  "size": 16,
  "hash": 1465514398,
  "columns": [
    {
      "name": "id",
      "type": "INT",
      "value": "1"
    }
  ]
}
`,
		},
		{
			scenario: "null column",
			row:      "0001000000000000 0000000000000000",
			output: `{
  "kind": "+I",
  "size": 16,
  "hash": -1748325344,
  "columns": [
    {
      "name": "id",
      "type": "INT",
      "value": null
    }
  ]
}
`,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, runDump(buf, dumpFlags{Schema: "id INT", Format: "json"}, test.row))
			assertOutput(t, test.output, buf.String())
		})
	}
}

func TestDumpTable(t *testing.T) {
	e := paimon.NewRowEncoder(2)
	e.WriteInt64(0, 42)
	e.WriteString(1, "hello world.")

	buf := new(bytes.Buffer)
	err := runDump(buf, dumpFlags{Schema: "id BIGINT, name STRING", Format: "table"}, hex.EncodeToString(e.Bytes()))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "hello world.")
	require.Contains(t, buf.String(), "42")
}

func TestDumpErrors(t *testing.T) {
	require.Error(t, runDump(new(bytes.Buffer), dumpFlags{Format: "json"}, "00"))
	require.Error(t, runDump(new(bytes.Buffer), dumpFlags{Schema: "id INT", Format: "json"}, "zz"))
	require.Error(t, runDump(new(bytes.Buffer), dumpFlags{Schema: "id INT", Format: "json"}, "0000000000000000"))

	err := runDump(new(bytes.Buffer), dumpFlags{Schema: "s STRING", Format: "json"}, "00000000000000001000000040000000")
	require.ErrorIs(t, err, paimon.ErrMalformedRow)
}

func TestCat(t *testing.T) {
	skipBigEndian(t)

	path := filepath.Join(t.TempDir(), "data.parquet")
	writeTestFile(t, path, 10)

	buf := new(bytes.Buffer)
	require.NoError(t, runCat(buf, catFlags{Keys: "id", Buckets: 16, Limit: 2}, path))

	out := buf.String()
	require.Contains(t, out, "_BUCKET")
	require.Contains(t, out, "name-1")
	require.Contains(t, out, "1465514398")
	require.NotContains(t, out, "name-2")
}

func TestBucketFileMatchesBucketer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	writeTestFile(t, path, 20)

	set, err := bucketFile(path, []string{"id"}, 7)
	require.NoError(t, err)

	b, err := parquetrow.NewBucketer(testSchema, []string{"id"}, 7)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		bucket, err := b.Bucket(parquet.Row{
			parquet.Int64Value(int64(i)).Level(0, 0, 0),
			parquet.ByteArrayValue([]byte(fmt.Sprintf("name-%d", i))).Level(0, 0, 1),
		})
		require.NoError(t, err)
		require.True(t, set.Contains(bucket, uint32(i)))
	}
}
