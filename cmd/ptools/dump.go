package main

import (
	"encoding/hex"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"

	"github.com/segmentio/paimon-go"
)

type dumpFlags struct {
	_ struct{} `help:"Decode a hex encoded binary row"`
	commonFlags
	Schema string `flag:"-s,--schema" help:"Row type of the binary row, for example 'id INT, name STRING'" default:"-"`
	Format string `flag:"-f,--format" help:"Output format (json, table)" default:"table"`
}

type dumpColumn struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value *string `json:"value"`
}

type dumpOutput struct {
	Kind    string       `json:"kind"`
	Size    int          `json:"size"`
	Hash    int32        `json:"hash"`
	Columns []dumpColumn `json:"columns"`
}

func dumpCommand(flags dumpFlags, row string) {
	flags.setup()
	run(func() error { return runDump(os.Stdout, flags, row) })
}

func runDump(w io.Writer, flags dumpFlags, row string) error {
	if flags.Schema == "" {
		return errors.New("missing row type, use --schema")
	}
	rowType, err := paimon.ParseRowType(flags.Schema)
	if err != nil {
		return err
	}

	data, err := hex.DecodeString(strings.Join(strings.Fields(row), ""))
	if err != nil {
		return errors.Wrap(err, "decoding hex row")
	}
	binaryRow, err := paimon.NewBinaryRow(rowType.Arity(), data)
	if err != nil {
		return err
	}
	values, err := binaryRow.Row(rowType)
	if err != nil {
		return err
	}

	out := dumpOutput{
		Kind:    binaryRow.RowKind().String(),
		Size:    binaryRow.Size(),
		Hash:    binaryRow.HashCode(),
		Columns: make([]dumpColumn, len(values)),
	}
	for i, f := range rowType.Fields {
		out.Columns[i] = dumpColumn{Name: f.Name, Type: f.Type.String()}
		if !values[i].IsNull() {
			s := values[i].String()
			out.Columns[i].Value = &s
		}
	}

	switch flags.Format {
	case "json":
		return writeJSON(w, out)
	case "table":
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"column", "type", "value"})
		for _, c := range out.Columns {
			value := "NULL"
			if c.Value != nil {
				value = *c.Value
			}
			table.Append([]string{c.Name, c.Type, value})
		}
		table.SetFooter([]string{out.Kind, strconv.Itoa(out.Size) + " bytes", "hash " + strconv.Itoa(int(out.Hash))})
		table.Render()
		return nil
	default:
		return errors.Newf("unsupported output format: %q", flags.Format)
	}
}
