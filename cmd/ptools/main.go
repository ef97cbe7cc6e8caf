// Command ptools inspects how Paimon assigns the rows of parquet files and
// arrow streams to buckets.
//
//	ptools hash --type INT 42
//	ptools buckets --keys id --buckets 16 data.parquet
//	ptools split --keys id --buckets 16 --output table/ data.parquet
//	ptools cat --keys id --buckets 16 --limit 10 data.parquet
//	ptools dump --schema "id INT" 00000000000000000100000000000000
package main

import (
	"fmt"
	"os"
	"strings"

	color "github.com/logrusorgru/aurora/v3"
	"github.com/segmentio/cli"

	"github.com/segmentio/paimon-go/internal/debug"
)

func main() {
	cli.Exec(cli.CommandSet{
		"hash":    cli.Command(hashCommand),
		"buckets": cli.Command(bucketsCommand),
		"split":   cli.Command(splitCommand),
		"cat":     cli.Command(catCommand),
		"dump":    cli.Command(dumpCommand),
	})
}

// commonFlags are embedded in the flags of every command.
type commonFlags struct {
	Debug bool `flag:"--debug" help:"Display debugging logs" default:"false"`
}

func (f commonFlags) setup() { debug.Toggle(f.Debug) }

// run reports the error returned by fn, if any, and exits with a non-zero
// status.
func run(fn func() error) {
	if err := fn(); err != nil {
		perrorf("error: %s", err)
		os.Exit(1)
	}
}

func perrorf(format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	_, _ = fmt.Fprintf(os.Stderr, color.Red(format).String(), args...)
}

func pdebugf(format string, args ...interface{}) {
	debug.Format(color.Gray(12, format).String(), args...)
}

// splitKeys parses a comma separated list of column names.
func splitKeys(keys string) []string {
	var names []string
	for _, name := range strings.Split(keys, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
