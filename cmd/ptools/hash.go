package main

import (
	"encoding/hex"
	"io"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/encoding/json"

	"github.com/segmentio/paimon-go"
	"github.com/segmentio/paimon-go/murmur3"
)

type hashFlags struct {
	_ struct{} `help:"Print the hash and bucket of a single column row holding the given literal"`
	commonFlags
	Type    string `flag:"-t,--type" help:"SQL type of the literal" default:"STRING"`
	Buckets int    `flag:"-b,--buckets" help:"Number of buckets of the table" default:"1"`
	Seed    int    `flag:"-s,--seed" help:"Seed of the Murmur3 hash" default:"42"`
	Raw     bool   `flag:"--raw" help:"Hash the bytes of the literal instead of a binary row" default:"false"`
	Format  string `flag:"-f,--format" help:"Output format (json, table)" default:"json"`
}

type hashOutput struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Size   int    `json:"size"`
	Hash   int32  `json:"hash"`
	Bucket int32  `json:"bucket"`
	Row    string `json:"row,omitempty"`
}

func hashCommand(flags hashFlags, literal string) {
	flags.setup()
	run(func() error { return runHash(os.Stdout, flags, literal) })
}

func runHash(w io.Writer, flags hashFlags, literal string) error {
	out, err := hashLiteral(flags, literal)
	if err != nil {
		return err
	}

	switch flags.Format {
	case "json":
		return writeJSON(w, out)
	case "table":
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"type", "value", "size", "hash", "bucket"})
		table.Append([]string{
			out.Type,
			out.Value,
			strconv.Itoa(out.Size),
			strconv.Itoa(int(out.Hash)),
			strconv.Itoa(int(out.Bucket)),
		})
		table.Render()
		return nil
	default:
		return errors.Newf("unsupported output format: %q", flags.Format)
	}
}

func hashLiteral(flags hashFlags, literal string) (hashOutput, error) {
	numBuckets := int32(flags.Buckets)
	seed := uint32(flags.Seed)

	if flags.Raw {
		hash := murmur3.Hash([]byte(literal), seed)
		return hashOutput{
			Type:   "RAW",
			Value:  literal,
			Size:   len(literal),
			Hash:   hash,
			Bucket: paimon.BucketOf(hash, numBuckets),
		}, nil
	}

	t, err := paimon.ParseDataType(flags.Type)
	if err != nil {
		return hashOutput{}, err
	}
	v, err := paimon.ParseValue(t, literal)
	if err != nil {
		return hashOutput{}, err
	}
	row, err := paimon.EncodeRow(paimon.NewRowType(paimon.Field{Name: "value", Type: t}), paimon.Row{v})
	if err != nil {
		return hashOutput{}, err
	}
	pdebugf("encoded %s %s to %d bytes", t, v, row.Size())

	hash := murmur3.HashWords(row.Bytes(), seed)
	return hashOutput{
		Type:   t.String(),
		Value:  v.String(),
		Size:   row.Size(),
		Hash:   hash,
		Bucket: paimon.BucketOf(hash, numBuckets),
		Row:    hex.EncodeToString(row.Bytes()),
	}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
