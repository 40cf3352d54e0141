package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/config"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/export"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	cfg config.Config
	log *slog.Logger

	statementFlags
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write extracted records to a CSV or XLSX file" }
func (*exportCmd) Usage() string {
	return `stocktax export [-vested <file>] [-sold <file>] -o <records.csv|records.xlsx>

  Writes every extracted record with its section, key, date and quantity.
  The format follows the output file extension.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.statementFlags.set(f, c.cfg)
	f.StringVar(&c.output, "o", "", "Output file (.csv or .xlsx).")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.output == "" {
		fmt.Fprintln(os.Stderr, "Error: -o is required")
		return subcommands.ExitUsageError
	}
	format, err := export.FormatForFile(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	r, err := c.build(c.cfg, c.log, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitUsageError
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	if err := export.Write(out, r, format); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error exporting records: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	c.log.Info("records exported", "path", c.output, "format", format, "records", len(r.Records()))
	return subcommands.ExitSuccess
}
