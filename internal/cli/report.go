package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/config"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	cfg config.Config
	log *slog.Logger
	out io.Writer

	statementFlags
	showIndividual bool
	format         string
	width          int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print vested, purchased and sold shares for a tax year" }
func (*reportCmd) Usage() string {
	return `stocktax report [-vested <file>] [-sold <file>] [-no-vested] [-no-sold] [-show-individual] [-year <year>] [-format terminal|markdown|html|json]

  Reads a salary certificate and a brokerage transaction summary, sums the
  shares per date and prints the net position.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.statementFlags.set(f, c.cfg)
	f.BoolVar(&c.showIndividual, "show-individual", false, "Also list individual transactions.")
	f.StringVar(&c.format, "format", "terminal", "Output format: terminal, markdown, html or json.")
	f.IntVar(&c.width, "width", 100, "Word wrap width for terminal output.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	render, ok := renderers[c.format]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	r, err := c.build(c.cfg, c.log, c.showIndividual)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitUsageError
	}

	out, err := render(r, c.width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := c.out.Write(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var renderers = map[string]func(*report.Report, int) ([]byte, error){
	"terminal": func(r *report.Report, width int) ([]byte, error) {
		s, err := report.Terminal(r, width)
		return []byte(s), err
	},
	"markdown": func(r *report.Report, _ int) ([]byte, error) {
		s, err := report.Markdown(r)
		return []byte(s), err
	},
	"html": func(r *report.Report, _ int) ([]byte, error) {
		return report.HTML(r)
	},
	"json": func(r *report.Report, _ int) ([]byte, error) {
		b, err := report.JSON(r)
		return append(b, '\n'), err
	},
}
