package paimon_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/cpu"

	"github.com/segmentio/paimon-go"
)

func mustParseRowType(t testing.TB, s string) paimon.RowType {
	t.Helper()
	rowType, err := paimon.ParseRowType(s)
	require.NoError(t, err)
	return rowType
}

func TestEncodeRow(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("hashes are only compatible on little-endian hosts")
	}

	rowType := mustParseRowType(t, "a BOOLEAN, b TINYINT, c SMALLINT, d INT, e BIGINT, f FLOAT, g DOUBLE, h STRING")
	row := referenceRow()

	binaryRow, err := paimon.EncodeRow(rowType, row)
	require.NoError(t, err)
	require.Equal(t, int32(-1937236088), binaryRow.HashCode())
	require.Equal(t, int32(4), binaryRow.Bucket(7))
}

func TestEncodeRowErrors(t *testing.T) {
	rowType := mustParseRowType(t, "id BIGINT NOT NULL, ts TIMESTAMP")

	tests := []struct {
		scenario string
		row      paimon.Row
		err      error
	}{
		{
			scenario: "null value in required column",
			row:      paimon.Row{paimon.NullValue(), paimon.NullValue()},
			err:      paimon.ErrTypeMismatch,
		},
		{
			scenario: "value kind differs from column type",
			row:      paimon.Row{paimon.Int32Value(1), paimon.NullValue()},
			err:      paimon.ErrTypeMismatch,
		},
		{
			scenario: "timestamp precision is not compact",
			row:      paimon.Row{paimon.Int64Value(1), paimon.TimestampValue(0, 6)},
			err:      paimon.ErrNotCompact,
		},
		{
			scenario: "missing values",
			row:      paimon.Row{paimon.Int64Value(1)},
			err:      paimon.ErrArityMismatch,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, err := paimon.EncodeRow(rowType, test.row)
			require.ErrorIs(t, err, test.err)
		})
	}
}

func TestBucketKeyExtractor(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("hashes are only compatible on little-endian hosts")
	}

	rowType := mustParseRowType(t, "id INT, name STRING")

	tests := []struct {
		scenario string
		keys     []string
		row      paimon.Row
		hash     int32
		bucket   int32
	}{
		{
			scenario: "whole row",
			row:      paimon.Row{paimon.Int32Value(1), paimon.StringValue("x")},
			hash:     -796389773,
			bucket:   13,
		},
		{
			scenario: "single key",
			keys:     []string{"id"},
			row:      paimon.Row{paimon.Int32Value(1), paimon.StringValue("ignored")},
			hash:     1465514398,
			bucket:   14,
		},
		{
			scenario: "keys in projection order",
			keys:     []string{"name", "id"},
			row:      paimon.Row{paimon.Int32Value(1), paimon.StringValue("hello world.")},
			hash:     -605348130,
			bucket:   2,
		},
		{
			scenario: "null key",
			keys:     []string{"id"},
			row:      paimon.Row{paimon.NullValue(), paimon.StringValue("x")},
			hash:     -1748325344,
			bucket:   0,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			x, err := paimon.NewBucketKeyExtractor(rowType, test.keys, 16)
			require.NoError(t, err)
			require.Equal(t, int32(16), x.NumBuckets())
			require.Equal(t, rowType, x.RowType())

			hash, err := x.Hash(test.row)
			require.NoError(t, err)
			require.Equal(t, test.hash, hash)

			bucket, err := x.Bucket(test.row)
			require.NoError(t, err)
			require.Equal(t, test.bucket, bucket)

			key, err := x.Key(test.row)
			require.NoError(t, err)
			require.Equal(t, x.KeyType().Arity(), key.Arity())
			require.Equal(t, test.hash, key.HashCode())
		})
	}
}

func TestBucketKeyExtractorCompactTypes(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("hashes are only compatible on little-endian hosts")
	}

	rowType := mustParseRowType(t, "d DATE, ts TIMESTAMP(3), amount DECIMAL(10, 2)")
	x, err := paimon.NewBucketKeyExtractor(rowType, nil, 4)
	require.NoError(t, err)

	row := paimon.Row{
		paimon.DateValue(19782),
		paimon.TimestampValue(1672628645006, 3),
		paimon.DecimalValue(12345, 10, 2),
	}
	hash, err := x.Hash(row)
	require.NoError(t, err)
	require.Equal(t, int32(968938498), hash)

	bucket, err := x.Bucket(row)
	require.NoError(t, err)
	require.Equal(t, int32(2), bucket)
}

func TestBucketKeyExtractorErrors(t *testing.T) {
	rowType := mustParseRowType(t, "id INT, ts TIMESTAMP(9)")

	_, err := paimon.NewBucketKeyExtractor(rowType, []string{"missing"}, 4)
	require.ErrorIs(t, err, paimon.ErrUnknownColumn)

	_, err = paimon.NewBucketKeyExtractor(rowType, []string{"ts"}, 4)
	require.ErrorIs(t, err, paimon.ErrNotCompact)

	_, err = paimon.NewBucketKeyExtractor(rowType, []string{"id"}, 4, paimon.InitialVarCapacity(-1))
	require.ErrorIs(t, err, paimon.ErrInvalidConfiguration)

	x, err := paimon.NewBucketKeyExtractor(rowType, []string{"id"}, 4)
	require.NoError(t, err)

	_, err = x.Bucket(paimon.Row{paimon.Int32Value(1)})
	require.ErrorIs(t, err, paimon.ErrArityMismatch)

	_, err = x.Bucket(paimon.Row{paimon.StringValue("1"), paimon.NullValue()})
	require.ErrorIs(t, err, paimon.ErrTypeMismatch)
}

func TestBucketKeyExtractorClone(t *testing.T) {
	rowType := mustParseRowType(t, "id BIGINT, name STRING")
	x, err := paimon.NewBucketKeyExtractor(rowType, []string{"id"}, 8)
	require.NoError(t, err)

	want := make([]int32, 100)
	for i := range want {
		want[i], err = x.Bucket(paimon.Row{paimon.Int64Value(int64(i)), paimon.NullValue()})
		require.NoError(t, err)
	}

	got := make([][]int32, 4)
	wg := sync.WaitGroup{}
	for g := range got {
		got[g] = make([]int32, len(want))
		wg.Add(1)
		go func(c *paimon.BucketKeyExtractor, buckets []int32) {
			defer wg.Done()
			for i := range buckets {
				buckets[i], _ = c.Bucket(paimon.Row{paimon.Int64Value(int64(i)), paimon.NullValue()})
			}
		}(x.Clone(), got[g])
	}
	wg.Wait()

	for _, buckets := range got {
		require.Equal(t, want, buckets)
	}
}

func BenchmarkBucketKeyExtractor(b *testing.B) {
	rowType := mustParseRowType(b, "id BIGINT, name STRING, price DECIMAL(10, 2)")
	x, err := paimon.NewBucketKeyExtractor(rowType, []string{"id", "name"}, 16)
	require.NoError(b, err)

	row := paimon.Row{
		paimon.Int64Value(42),
		paimon.StringValue("the quick brown fox"),
		paimon.DecimalValue(999, 10, 2),
	}

	for i := 0; i < b.N; i++ {
		if _, err := x.Bucket(row); err != nil {
			b.Fatal(err)
		}
	}
}
